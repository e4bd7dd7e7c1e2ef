package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parkfinder/internal/api/middleware"
	"parkfinder/internal/domain/entities"
	"parkfinder/internal/provider"
	"parkfinder/internal/recommend"
	"parkfinder/internal/repository"
	"parkfinder/internal/services"
)

type ParkingHandler struct {
	trips    *services.TripService
	accounts *services.AccountService
	parking  repository.ParkingRepository
}

func NewParkingHandler(trips *services.TripService, accounts *services.AccountService, parking repository.ParkingRepository) *ParkingHandler {
	return &ParkingHandler{
		trips:    trips,
		accounts: accounts,
		parking:  parking,
	}
}

type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RecommendRequest struct {
	Origin        LocationRequest `json:"origin"`
	Destination   LocationRequest `json:"destination"`
	DurationHours float64         `json:"duration_hours"`
	// PriceWeight overrides the stored preference when present.
	PriceWeight *float64 `json:"price_weight,omitempty"`
}

// Recommend handles POST /api/parking/recommend. It runs the full flow:
// candidate lookup around the destination, ranking, and the start of
// trip monitoring. The response carries the trip ID used by all the
// follow-up endpoints.
func (h *ParkingHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	origin := entities.NewLocation(req.Origin.Lat, req.Origin.Lng)
	dest := entities.NewLocation(req.Destination.Lat, req.Destination.Lng)
	if !origin.Valid() || !dest.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	username := middleware.GetUsername(c)

	weight := entities.DefaultPriceWeight
	if req.PriceWeight != nil {
		weight = *req.PriceWeight
	} else if stored, err := h.accounts.PriceWeight(c.Request.Context(), username); err == nil {
		weight = stored
	}

	trip, rec, err := h.trips.FindParking(c.Request.Context(), username, origin, dest, req.DurationHours, weight)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrInvalidDuration):
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be positive"})
		case errors.Is(err, recommend.ErrNoCandidates):
			c.JSON(http.StatusNotFound, gin.H{"error": "no parking available near destination"})
		case errors.Is(err, provider.ErrServiceUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "parking service unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trip_id":      trip.ID,
		"best":         rec.Best,
		"score":        rec.BestScore,
		"alternatives": rec.Alternatives,
	})
}

// ListOptions handles GET /api/parking/options. With ?available=true
// only options with open spots are returned.
func (h *ParkingHandler) ListOptions(c *gin.Context) {
	var (
		options []entities.ParkingOption
		err     error
	)
	if c.Query("available") == "true" {
		options, err = h.parking.ListAvailable(c.Request.Context())
	} else {
		options, err = h.parking.List(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"options": options,
		"count":   len(options),
	})
}
