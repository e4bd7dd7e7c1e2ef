package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parkfinder/internal/api/middleware"
	"parkfinder/internal/repository/memory"
	"parkfinder/internal/services"
)

type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, memory.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"username":     user.Username,
		"price_weight": user.PriceWeight,
	})
}

// Login handles POST /api/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"username": req.Username,
	})
}

// Logout handles POST /api/logout
func (h *AccountHandler) Logout(c *gin.Context) {
	h.accounts.Logout(middleware.GetToken(c))
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GetPreferences handles GET /api/preferences
func (h *AccountHandler) GetPreferences(c *gin.Context) {
	username := middleware.GetUsername(c)

	weight, err := h.accounts.PriceWeight(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"price_weight": weight})
}

type PreferencesRequest struct {
	PriceWeight float64 `json:"price_weight"`
}

// UpdatePreferences handles PUT /api/preferences
func (h *AccountHandler) UpdatePreferences(c *gin.Context) {
	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := middleware.GetUsername(c)
	weight, err := h.accounts.SetPriceWeight(c.Request.Context(), username, req.PriceWeight)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"price_weight": weight})
}
