package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// UserHandler records identities reported by the sign-in flow.
type UserHandler struct {
	userService *services.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      defaultLogger(logger),
	}
}

// SaveUser upserts the user by uid and signs them into the session.
func (h *UserHandler) SaveUser(c *gin.Context) {
	type SaveUserRequest struct {
		UID         string `json:"uid" binding:"required"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoURL"`
	}

	var req SaveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpsertUser(c.Request.Context(), services.UpsertUserInput{
		UID:         req.UID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		respondServiceError(c, h.logger, "Failed to save user", err)
		return
	}

	if err := middleware.SignIn(c, user.UID); err != nil {
		middleware.InternalError(c, h.logger, "Failed to save session", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User data saved"})
}

// GetCurrentUser returns the signed-in user.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	uid, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, h.logger, "Failed to fetch user", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the session.
func (h *UserHandler) Logout(c *gin.Context) {
	if err := middleware.SignOut(c); err != nil {
		middleware.InternalError(c, h.logger, "Failed to logout", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}
