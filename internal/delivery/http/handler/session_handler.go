package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"routesync/internal/domain/user"
	"routesync/internal/session"
	"routesync/pkg/utils"
)

type SessionHandler struct {
	sessions *session.Store
}

func NewSessionHandler(sessions *session.Store) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/session", h.GetSession)
	router.PUT("/session", h.SetSession)
	router.DELETE("/session", h.ClearSession)
}

type SessionPayload struct {
	UserID      string `json:"user_id" binding:"required"`
	FleetCode   string `json:"fleet_code" binding:"required"`
	FleetName   string `json:"fleet_name"`
	UserName    string `json:"user_name" binding:"required"`
	VehicleName string `json:"vehicle_name"`
	Role        string `json:"role" binding:"required" validate:"user_role"`
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.sessions.GetSession(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if sess == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "No session")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", SessionPayload{
		UserID:      sess.UserID,
		FleetCode:   sess.FleetCode,
		FleetName:   sess.FleetName,
		UserName:    sess.UserName,
		VehicleName: sess.VehicleName,
		Role:        string(sess.Role),
	})
}

func (h *SessionHandler) SetSession(c *gin.Context) {
	var req SessionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid role")
		return
	}

	role, _ := user.ParseRole(req.Role)
	err := h.sessions.SetSession(c.Request.Context(), &session.Session{
		UserID:      req.UserID,
		FleetCode:   req.FleetCode,
		FleetName:   req.FleetName,
		UserName:    req.UserName,
		VehicleName: req.VehicleName,
		Role:        role,
	})
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Session saved", nil)
}

func (h *SessionHandler) ClearSession(c *gin.Context) {
	if err := h.sessions.ClearSession(c.Request.Context()); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Session cleared", nil)
}
