package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parkfinder/internal/domain/entities"
	"parkfinder/internal/services"
)

type TripHandler struct {
	trips *services.TripService
}

func NewTripHandler(trips *services.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

// GetTrip handles GET /api/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	status, err := h.trips.Status(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}

	c.JSON(http.StatusOK, status)
}

type PositionRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdatePosition handles POST /api/trips/:id/position. The response
// reports what the update triggered, if anything: an almost-there nudge
// or a reroute suggestion awaiting a decision.
func (h *TripHandler) UpdatePosition(c *gin.Context) {
	var req PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pos := entities.NewLocation(req.Lat, req.Lng)
	if !pos.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	event, err := h.trips.UpdatePosition(c.Request.Context(), c.Param("id"), pos)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}

	resp := gin.H{}
	if event != nil {
		resp["almost_there"] = event.AlmostThere
		if event.Suggestion != nil {
			resp["suggestion"] = event.Suggestion
		}
	}
	c.JSON(http.StatusOK, resp)
}

// AcceptReroute handles POST /api/trips/:id/reroute/accept
func (h *TripHandler) AcceptReroute(c *gin.Context) {
	target, err := h.trips.AcceptReroute(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.rerouteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "rerouted",
		"current": target,
	})
}

// DeclineReroute handles POST /api/trips/:id/reroute/decline
func (h *TripHandler) DeclineReroute(c *gin.Context) {
	if err := h.trips.DeclineReroute(c.Request.Context(), c.Param("id")); err != nil {
		h.rerouteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reroute declined"})
}

// Complete handles POST /api/trips/:id/complete
func (h *TripHandler) Complete(c *gin.Context) {
	if err := h.trips.Complete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "trip completed"})
}

func (h *TripHandler) rerouteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTripNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
	case errors.Is(err, services.ErrNoSuggestionPending):
		c.JSON(http.StatusConflict, gin.H{"error": "no reroute suggestion pending"})
	case errors.Is(err, services.ErrWrongTarget):
		c.JSON(http.StatusConflict, gin.H{"error": "suggestion no longer valid"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
