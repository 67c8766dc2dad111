package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// respondServiceError maps engine errors onto API responses. Anything not
// recognised is treated as a storage failure.
func respondServiceError(c *gin.Context, logger *slog.Logger, message string, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectCompleted):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrDeadlineRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrCandidateRequired),
		errors.Is(err, services.ErrInvalidProgress),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrUIDRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		middleware.InternalError(c, logger, message, err)
	}
}

// resolveCandidate prefers an explicit id and falls back to the signed-in user.
func resolveCandidate(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	uid, _ := middleware.GetUserID(c)
	return uid
}

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
