package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "routesync/internal/domain/trip"
	"routesync/internal/domain/user"
	"routesync/internal/session"
	"routesync/internal/tracking"
	"routesync/pkg/utils"
)

type TripHandler struct {
	service   domain.Repository
	sessions  *session.Store
	collector *tracking.Collector
}

func NewTripHandler(service domain.Repository, sessions *session.Store, collector *tracking.Collector) *TripHandler {
	return &TripHandler{
		service:   service,
		sessions:  sessions,
		collector: collector,
	}
}

func (h *TripHandler) RegisterRoutes(router *gin.RouterGroup) {
	trips := router.Group("/trips")
	{
		trips.POST("/start", h.StartTrip)
		trips.POST("/:id/end", h.EndTrip)
	}
}

type TripResponse struct {
	ID                    string   `json:"id"`
	FleetCode             string   `json:"fleet_code"`
	DriverID              string   `json:"driver_id"`
	DriverName            string   `json:"driver_name"`
	Vehicle               string   `json:"vehicle,omitempty"`
	StartedAt             int64    `json:"started_at"`
	EndedAt               *int64   `json:"ended_at,omitempty"`
	IsActive              bool     `json:"is_active"`
	LastLat               *float64 `json:"last_lat,omitempty"`
	LastLng               *float64 `json:"last_lng,omitempty"`
	LastLocationTimestamp *int64   `json:"last_location_timestamp,omitempty"`
}

func toTripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		ID:                    t.ID,
		FleetCode:             t.FleetCode,
		DriverID:              t.DriverID,
		DriverName:            t.DriverName,
		Vehicle:               t.Vehicle,
		StartedAt:             t.StartedAt,
		EndedAt:               t.EndedAt,
		IsActive:              t.IsActive,
		LastLat:               t.LastLat,
		LastLng:               t.LastLng,
		LastLocationTimestamp: t.LastLocationTimestamp,
	}
}

// StartTrip starts a trip for the signed-in driver and attaches the location
// collector to it. The one-active-trip precondition is enforced here, before
// the engine is invoked: the local cache is asked for the current active trip
// and the start is rejected while one exists.
func (h *TripHandler) StartTrip(c *gin.Context) {
	ctx := c.Request.Context()

	sess, err := h.sessions.GetSession(ctx)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if sess == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "No session; join or create a fleet first")
		return
	}
	if sess.Role != user.RoleDriver {
		utils.ErrorResponse(c, http.StatusForbidden, "Only drivers can start trips")
		return
	}

	active, cancel := h.service.ObserveActiveTrip(sess.FleetCode, sess.UserID)
	current := <-active
	cancel()
	if current != nil {
		utils.ErrorResponse(c, http.StatusConflict, "An active trip already exists for this driver")
		return
	}

	driver := &domain.DriverProfile{
		ID:        sess.UserID,
		Name:      sess.UserName,
		FleetCode: sess.FleetCode,
		Role:      sess.Role,
		Vehicle:   sess.VehicleName,
	}

	trip, err := h.service.StartTrip(ctx, sess.FleetCode, driver)
	if err != nil {
		utils.ErrorResponse(c, remoteStatus(err), err.Error())
		return
	}

	h.collector.Begin(trip.FleetCode, trip.ID)

	utils.SuccessResponse(c, http.StatusCreated, "Trip started", toTripResponse(trip))
}

// EndTrip ends the trip and then detaches the collector, in that order, so
// tracking teardown is sequenced after the lifecycle write succeeds.
func (h *TripHandler) EndTrip(c *gin.Context) {
	tripID := c.Param("id")
	ctx := c.Request.Context()

	sess, err := h.sessions.GetSession(ctx)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if sess == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "No session; join or create a fleet first")
		return
	}

	if err := h.service.EndTrip(ctx, sess.FleetCode, tripID); err != nil {
		utils.ErrorResponse(c, remoteStatus(err), err.Error())
		return
	}

	h.collector.End()

	utils.SuccessResponse(c, http.StatusOK, "Trip ended", nil)
}
