package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	domain "routesync/internal/domain/trip"
	"routesync/internal/logger"
)

// WatchHandler streams the sync engine's reactive subscriptions to observer
// front ends over WebSocket. Each connection maps to exactly one local-cache
// subscription; closing the socket cancels it.
type WatchHandler struct {
	service  domain.Repository
	upgrader websocket.Upgrader
}

func NewWatchHandler(service domain.Repository) *WatchHandler {
	return &WatchHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *WatchHandler) RegisterRoutes(router *gin.RouterGroup) {
	ws := router.Group("/ws")
	{
		ws.GET("/fleets/:code/drivers/:driverId/active-trip", h.WatchActiveTrip)
		ws.GET("/trips/:id/locations", h.WatchLocations)
	}
}

type activeTripEvent struct {
	Trip *TripResponse `json:"trip"` // null when no active trip
}

type locationsEvent struct {
	TripID    string             `json:"trip_id"`
	Locations []TripLocationJSON `json:"locations"`
}

type TripLocationJSON struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"timestamp"`
}

func (h *WatchHandler) WatchActiveTrip(c *gin.Context) {
	fleetCode := c.Param("code")
	driverID := c.Param("driverId")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.service.ObserveActiveTrip(fleetCode, driverID)
	defer cancel()

	done := watchClientClose(conn)

	for {
		select {
		case snapshot := <-updates:
			event := activeTripEvent{}
			if snapshot != nil {
				resp := toTripResponse(snapshot)
				event.Trip = &resp
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *WatchHandler) WatchLocations(c *gin.Context) {
	tripID := c.Param("id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.service.ObserveLocationsForTrip(tripID)
	defer cancel()

	done := watchClientClose(conn)

	for {
		select {
		case snapshot := <-updates:
			event := locationsEvent{
				TripID:    tripID,
				Locations: make([]TripLocationJSON, len(snapshot)),
			}
			for i, loc := range snapshot {
				event.Locations[i] = TripLocationJSON{
					Lat:       loc.Lat,
					Lng:       loc.Lng,
					Timestamp: loc.Timestamp,
				}
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// watchClientClose drains the read side so close frames are noticed and
// reports the disconnect on the returned channel.
func watchClientClose(conn *websocket.Conn) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return done
}
