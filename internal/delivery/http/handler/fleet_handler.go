package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"routesync/internal/auth"
	domain "routesync/internal/domain/fleet"
	"routesync/internal/domain/user"
	"routesync/internal/session"
	fleetUsecase "routesync/internal/usecase/fleet"
	apperrors "routesync/pkg/errors"
	"routesync/pkg/utils"
)

type FleetHandler struct {
	service  *fleetUsecase.Service
	auth     *auth.Service
	sessions *session.Store
}

func NewFleetHandler(service *fleetUsecase.Service, authService *auth.Service, sessions *session.Store) *FleetHandler {
	return &FleetHandler{
		service:  service,
		auth:     authService,
		sessions: sessions,
	}
}

func (h *FleetHandler) RegisterRoutes(router *gin.RouterGroup) {
	fleets := router.Group("/fleets")
	{
		fleets.POST("", h.CreateFleet)
		fleets.POST("/join", h.JoinFleet)
		fleets.GET("/:code", h.GetFleet)
	}
}

type CreateFleetRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	UserName string `json:"user_name" binding:"required"`
	Role     string `json:"role" validate:"user_role"`
	Vehicle  string `json:"vehicle"`
}

type JoinFleetRequest struct {
	Code     string `json:"code" binding:"required"`
	UserName string `json:"user_name" binding:"required"`
	Role     string `json:"role" validate:"user_role"`
	Vehicle  string `json:"vehicle"`
}

type FleetResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	CreatorName string `json:"creator_name"`
	CreatedAt   int64  `json:"created_at"`
}

type OnboardResponse struct {
	Fleet  FleetResponse `json:"fleet"`
	UserID string        `json:"user_id"`
	Token  string        `json:"token"`
}

func toFleetResponse(f *domain.Fleet) FleetResponse {
	return FleetResponse{
		Code:        f.Code,
		Name:        f.Name,
		CreatorName: f.CreatorName,
		CreatedAt:   f.CreatedAt,
	}
}

// CreateFleet runs the creator onboarding: ensure an identity, create the
// fleet, save the creator's profile under it and persist the session.
func (h *FleetHandler) CreateFleet(c *gin.Context) {
	var req CreateFleetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid role")
		return
	}

	role, _ := user.ParseRole(req.Role)
	ctx := c.Request.Context()

	userID, err := h.auth.EnsureLoggedIn(ctx)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	fleet, err := h.service.CreateFleet(ctx, req.Code, req.Name, req.UserName)
	if err != nil {
		utils.ErrorResponse(c, remoteStatus(err), err.Error())
		return
	}

	profile := &user.UserProfile{
		ID:        userID,
		Name:      req.UserName,
		FleetCode: fleet.Code,
		Role:      role,
		Vehicle:   req.Vehicle,
	}
	if err := h.service.SaveUserProfile(ctx, profile); err != nil {
		utils.ErrorResponse(c, remoteStatus(err), err.Error())
		return
	}

	sess := &session.Session{
		UserID:      userID,
		FleetCode:   fleet.Code,
		FleetName:   fleet.Name,
		UserName:    req.UserName,
		VehicleName: req.Vehicle,
		Role:        role,
	}
	if err := h.sessions.SetSession(ctx, sess); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.auth.IssueToken(userID, role)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Fleet created successfully", OnboardResponse{
		Fleet:  toFleetResponse(fleet),
		UserID: userID,
		Token:  token,
	})
}

// JoinFleet runs the member onboarding against current remote truth.
func (h *FleetHandler) JoinFleet(c *gin.Context) {
	var req JoinFleetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid role")
		return
	}

	role, _ := user.ParseRole(req.Role)
	ctx := c.Request.Context()

	userID, err := h.auth.EnsureLoggedIn(ctx)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	fleet, err := h.service.JoinFleet(ctx, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrFleetNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Fleet not found")
			return
		}
		utils.ErrorResponse(c, remoteStatus(err), err.Error())
		return
	}

	profile := &user.UserProfile{
		ID:        userID,
		Name:      req.UserName,
		FleetCode: fleet.Code,
		Role:      role,
		Vehicle:   req.Vehicle,
	}
	if err := h.service.SaveUserProfile(ctx, profile); err != nil {
		utils.ErrorResponse(c, remoteStatus(err), err.Error())
		return
	}

	sess := &session.Session{
		UserID:      userID,
		FleetCode:   fleet.Code,
		FleetName:   fleet.Name,
		UserName:    req.UserName,
		VehicleName: req.Vehicle,
		Role:        role,
	}
	if err := h.sessions.SetSession(ctx, sess); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.auth.IssueToken(userID, role)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Fleet joined successfully", OnboardResponse{
		Fleet:  toFleetResponse(fleet),
		UserID: userID,
		Token:  token,
	})
}

func (h *FleetHandler) GetFleet(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Fleet code is required")
		return
	}

	fleet, err := h.service.GetFleet(c.Request.Context(), code)
	if err != nil {
		utils.ErrorResponse(c, remoteStatus(err), err.Error())
		return
	}
	if fleet == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Fleet not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toFleetResponse(fleet))
}

// remoteStatus maps a failed store call to 502 and anything else to 500.
func remoteStatus(err error) int {
	if errors.Is(err, apperrors.ErrRemoteUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
