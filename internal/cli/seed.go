package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yukikurage/project-tracker-api/internal/database"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample projects",
		Long: `Insert the three sample projects with deadlines relative to now.

Seeding is not idempotent: every run adds another copy.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := rootOpts.setup()
			if err != nil {
				return err
			}

			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}

			projectService := services.NewProjectService(
				repository.NewProjectRepository(db),
				repository.NewProgressRepository(db),
			)
			projects, err := projectService.SeedSampleProjects(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range projects {
				fmt.Fprintf(cmd.OutOrStdout(), "created project %d: %s\n", p.ID, p.Name)
			}
			return nil
		},
	}
}
