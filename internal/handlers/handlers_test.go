package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/database"
	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// HandlerTestSuite drives the handlers through a router backed by an
// in-memory database and a cookie session store.
type HandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *HandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(database.Migrate(suite.db))

	projectRepo := repository.NewProjectRepository(suite.db)
	progressRepo := repository.NewProgressRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)

	projectService := services.NewProjectService(projectRepo, progressRepo)
	projectHandler := NewProjectHandler(projectService, nil)
	progressHandler := NewProgressHandler(services.NewProgressService(progressRepo), nil)
	leaderboardHandler := NewLeaderboardHandler(services.NewLeaderboardService(userRepo, progressRepo), nil)
	userHandler := NewUserHandler(services.NewUserService(userRepo), nil)

	gin.SetMode(gin.TestMode)
	authKey, encKey, err := middleware.SessionKeys("test-secret")
	suite.Require().NoError(err)

	suite.router = gin.New()
	suite.router.Use(middleware.Sessions(cookie.NewStore(authKey, encKey)))
	suite.router.Use(middleware.LoadSessionUser())

	suite.router.GET("/api/projects", projectHandler.ListProjects)
	suite.router.POST("/api/projects", projectHandler.CreateProject)
	suite.router.POST("/api/projects/accept", projectHandler.AcceptProject)
	suite.router.POST("/api/projects/samples", projectHandler.AddSampleProjects)
	suite.router.GET("/api/projects/:id", middleware.RequireProject(projectService), projectHandler.GetProject)
	suite.router.POST("/api/progress/update", progressHandler.UpdateProgress)
	suite.router.GET("/api/leaderboard", leaderboardHandler.GetLeaderboard)
	suite.router.POST("/api/users", userHandler.SaveUser)
	suite.router.GET("/api/users/me", middleware.RequireAuth(), userHandler.GetCurrentUser)
	suite.router.POST("/api/users/logout", userHandler.Logout)
}

func (suite *HandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *HandlerTestSuite) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) createProject(name string, deadline time.Time) dto.ProjectDTO {
	w := suite.do(http.MethodPost, "/api/projects", gin.H{
		"name":        name,
		"description": name + " description",
		"deadline":    deadline.Format(time.RFC3339),
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var project dto.ProjectDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &project))
	return project
}

func (suite *HandlerTestSuite) createUser(uid string) []*http.Cookie {
	w := suite.do(http.MethodPost, "/api/users", gin.H{
		"uid":         uid,
		"email":       uid + "@example.com",
		"displayName": "User " + uid,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return w.Result().Cookies()
}

func (suite *HandlerTestSuite) decodeError(w *httptest.ResponseRecorder) apierrors.APIError {
	var body apierrors.APIError
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (suite *HandlerTestSuite) TestCreateProject_Success() {
	deadline := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	project := suite.createProject("Landing Page", deadline)

	suite.NotZero(project.ID)
	suite.Equal("Landing Page", project.Name)
	suite.Equal(models.ProjectStatusPending, project.Status)
	suite.True(deadline.Equal(project.Deadline))
	suite.Nil(project.AcceptedBy)
}

func (suite *HandlerTestSuite) TestCreateProject_DateOnlyDeadline() {
	w := suite.do(http.MethodPost, "/api/projects", gin.H{
		"name":     "Report",
		"deadline": "2030-01-15",
	})
	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *HandlerTestSuite) TestCreateProject_Validation() {
	w := suite.do(http.MethodPost, "/api/projects", gin.H{"deadline": "2030-01-15"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/projects", gin.H{"name": "x", "deadline": "next week"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidInput, suite.decodeError(w).Code)

	w = suite.do(http.MethodPost, "/api/projects", gin.H{"name": "x", "deadline": "2030-01-15", "status": "Archived"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListProjects_RequiresUser() {
	w := suite.do(http.MethodGet, "/api/projects", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestAcceptAndListProjects() {
	later := suite.createProject("Later", time.Now().Add(72*time.Hour))
	sooner := suite.createProject("Sooner", time.Now().Add(24*time.Hour))

	w := suite.do(http.MethodPost, "/api/projects/accept", gin.H{
		"project_id":   later.ID,
		"candidate_id": "alice",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var msg dto.MessageResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &msg))
	suite.Equal("Project accepted successfully", msg.Message)

	w = suite.do(http.MethodGet, "/api/projects?userId=alice", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var projects []dto.ProjectWithProgressDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &projects))
	suite.Require().Len(projects, 2)
	suite.Equal(sooner.ID, projects[0].ID)
	suite.False(projects[0].IsAccepted)
	suite.Equal(later.ID, projects[1].ID)
	suite.True(projects[1].IsAccepted)
	suite.Equal(models.ProjectStatusAccepted, projects[1].Status)
	suite.Equal(0, projects[1].Progress)
}

func (suite *HandlerTestSuite) TestAcceptProject_UnknownProject() {
	w := suite.do(http.MethodPost, "/api/projects/accept", gin.H{
		"project_id":   999,
		"candidate_id": "alice",
	})
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(apierrors.ErrCodeNotFound, suite.decodeError(w).Code)
}

func (suite *HandlerTestSuite) TestAcceptProject_RequiresCandidate() {
	project := suite.createProject("Solo", time.Now().Add(24*time.Hour))

	w := suite.do(http.MethodPost, "/api/projects/accept", gin.H{"project_id": project.ID})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateProgress_CompletesProject() {
	project := suite.createProject("Ship It", time.Now().Add(24*time.Hour))
	suite.Require().Equal(http.StatusOK, suite.do(http.MethodPost, "/api/projects/accept", gin.H{
		"project_id":   project.ID,
		"candidate_id": "alice",
	}).Code)

	w := suite.do(http.MethodPost, "/api/progress/update", gin.H{
		"project_id":   project.ID,
		"candidate_id": "alice",
		"progress":     100,
		"score":        80,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var row dto.ProgressDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &row))
	suite.Equal(100, row.Progress)
	suite.Equal(80, row.Score)

	w = suite.do(http.MethodGet, "/api/projects?userId=alice", nil)
	var projects []dto.ProjectWithProgressDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &projects))
	suite.Empty(projects)

	w = suite.do(http.MethodPost, "/api/projects/accept", gin.H{
		"project_id":   project.ID,
		"candidate_id": "bob",
	})
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apierrors.ErrCodeConflict, suite.decodeError(w).Code)
}

func (suite *HandlerTestSuite) TestUpdateProgress_Validation() {
	project := suite.createProject("Bounds", time.Now().Add(24*time.Hour))

	w := suite.do(http.MethodPost, "/api/progress/update", gin.H{
		"project_id":   project.ID,
		"candidate_id": "alice",
		"progress":     101,
		"score":        1,
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/progress/update", gin.H{
		"project_id":   project.ID,
		"candidate_id": "alice",
		"progress":     10,
		"score":        -1,
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/progress/update", gin.H{
		"project_id":   project.ID,
		"candidate_id": "alice",
		"score":        1,
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/progress/update", gin.H{
		"project_id":   project.ID + 100,
		"candidate_id": "alice",
		"progress":     10,
		"score":        1,
	})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestLeaderboard() {
	suite.createUser("alice")
	suite.createUser("bob")
	p1 := suite.createProject("One", time.Now().Add(24*time.Hour))
	p2 := suite.createProject("Two", time.Now().Add(48*time.Hour))

	for _, update := range []gin.H{
		{"project_id": p1.ID, "candidate_id": "bob", "progress": 100, "score": 50},
		{"project_id": p2.ID, "candidate_id": "bob", "progress": 40, "score": 30},
		{"project_id": p1.ID, "candidate_id": "alice", "progress": 20, "score": 10},
	} {
		suite.Require().Equal(http.StatusOK, suite.do(http.MethodPost, "/api/progress/update", update).Code)
	}

	w := suite.do(http.MethodGet, "/api/leaderboard", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var entries []dto.LeaderboardEntryDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &entries))
	suite.Require().Len(entries, 2)
	suite.Equal("bob", entries[0].CandidateID)
	suite.Equal(1, entries[0].Rank)
	suite.Equal(int64(80), entries[0].TotalScore)
	suite.Equal(2, entries[0].ProjectsCompleted)
	suite.NotNil(entries[0].LastActivity)
	suite.Equal("alice", entries[1].CandidateID)
	suite.Equal(int64(10), entries[1].TotalScore)

	w = suite.do(http.MethodGet, "/api/leaderboard?page=2&limit=1", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &entries))
	suite.Require().Len(entries, 1)
	suite.Equal("alice", entries[0].CandidateID)
	suite.Equal(2, entries[0].Rank)
}

func (suite *HandlerTestSuite) TestLeaderboard_HugePageReturnsEmptyList() {
	suite.createUser("alice")

	w := suite.do(http.MethodGet, "/api/leaderboard?page=9223372036854775807&limit=20", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var entries []dto.LeaderboardEntryDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &entries))
	suite.Empty(entries)
}

func (suite *HandlerTestSuite) TestSessionFlow() {
	cookies := suite.createUser("carol")
	suite.Require().NotEmpty(cookies)

	w := suite.do(http.MethodGet, "/api/users/me", nil, cookies...)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var user dto.UserDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &user))
	suite.Equal("carol", user.UID)
	suite.Equal("carol@example.com", user.Email)
	suite.Equal("User carol", user.DisplayName)

	// Session uid stands in for the missing userId and candidate_id.
	project := suite.createProject("Session Project", time.Now().Add(24*time.Hour))
	w = suite.do(http.MethodPost, "/api/projects/accept", gin.H{"project_id": project.ID}, cookies...)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/api/projects", nil, cookies...)
	suite.Require().Equal(http.StatusOK, w.Code)
	var projects []dto.ProjectWithProgressDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &projects))
	suite.Require().Len(projects, 1)
	suite.True(projects[0].IsAccepted)

	w = suite.do(http.MethodPost, "/api/users/logout", nil, cookies...)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/users/me", nil, w.Result().Cookies()...)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestGetCurrentUser_Unauthenticated() {
	w := suite.do(http.MethodGet, "/api/users/me", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apierrors.ErrCodeUnauthorized, suite.decodeError(w).Code)
}

func (suite *HandlerTestSuite) TestSaveUser_RequiresUID() {
	w := suite.do(http.MethodPost, "/api/users", gin.H{"email": "nobody@example.com"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetProject() {
	project := suite.createProject("Lookup", time.Now().Add(24*time.Hour))

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var got dto.ProjectDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(project.ID, got.ID)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/projects/9999", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/projects/abc", nil).Code)
}

func (suite *HandlerTestSuite) TestAddSampleProjects() {
	w := suite.do(http.MethodPost, "/api/projects/samples", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Project{}).Count(&count).Error)
	suite.Equal(int64(3), count)
}

func (suite *HandlerTestSuite) TestStoreFailureIsLoggedWithRequestID() {
	var logs bytes.Buffer
	handler := NewLeaderboardHandler(services.NewLeaderboardService(
		repository.NewUserRepository(suite.db),
		repository.NewProgressRepository(suite.db),
	), slog.New(slog.NewJSONHandler(&logs, nil)))

	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/api/leaderboard", handler.GetLeaderboard)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	suite.Require().NoError(sqlDB.Close())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))
	suite.Require().Equal(http.StatusInternalServerError, w.Code)
	suite.Equal(apierrors.ErrCodeInternalError, suite.decodeError(w).Code)

	var entry map[string]any
	suite.Require().NoError(json.Unmarshal(logs.Bytes(), &entry))
	suite.Equal("Failed to fetch leaderboard", entry["msg"])
	suite.Equal(w.Header().Get(constants.HeaderRequestID), entry["request_id"])
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
