package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"place-trainer/internal/domain"
	"place-trainer/internal/repository"
)

// PlaceHandler recibe lugares nuevos enviados por las apps.
type PlaceHandler struct {
	logger *zap.Logger
	places repository.PlaceRepository
}

// NewPlaceHandler crea una instancia de PlaceHandler con dependencias necesarias.
func NewPlaceHandler(logger *zap.Logger, places repository.PlaceRepository) *PlaceHandler {
	return &PlaceHandler{
		logger: logger,
		places: places,
	}
}

// CreatePlace maneja POST /places. El trigger de la base dispara el chequeo de reentrenamiento.
func (h *PlaceHandler) CreatePlace(c *gin.Context) {
	var req struct {
		Name       string   `json:"name" binding:"required"`
		Cost       *float64 `json:"cost" binding:"omitempty,gte=0"`
		Duration   *float64 `json:"duration" binding:"omitempty,gte=0"`
		Type       string   `json:"type"`
		Activities []string `json:"activities"`
		Caption    string   `json:"caption"`
		Verified   *bool    `json:"verified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create place request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	place := domain.PlaceRecord{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Cost:       req.Cost,
		Duration:   req.Duration,
		Type:       strings.TrimSpace(req.Type),
		Activities: req.Activities,
		Caption:    req.Caption,
		Verified:   req.Verified,
		Trained:    false,
		AddedAt:    time.Now().UnixMilli(),
	}

	if err := h.places.Create(c.Request.Context(), place); err != nil {
		h.logger.Error("create place failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create place"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"place": place})
}
