package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"routesync/internal/auth"
	"routesync/internal/session"
	"routesync/pkg/utils"
)

type AuthHandler struct {
	auth     *auth.Service
	sessions *session.Store
}

func NewAuthHandler(authService *auth.Service, sessions *session.Store) *AuthHandler {
	return &AuthHandler{
		auth:     authService,
		sessions: sessions,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/anonymous", h.SignInAnonymously)
}

type SignInResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token,omitempty"`
}

// SignInAnonymously establishes an identity for the caller. The subject is the
// stored session's identity when one exists, a freshly minted anonymous one
// otherwise. A token is only issued once a session carries a role; before
// onboarding the caller gets the bare subject id.
func (h *AuthHandler) SignInAnonymously(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.auth.EnsureLoggedIn(ctx)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp := SignInResponse{UserID: userID}

	sess, err := h.sessions.GetSession(ctx)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if sess != nil {
		token, err := h.auth.IssueToken(userID, sess.Role)
		if err != nil {
			utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Token = token
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}
