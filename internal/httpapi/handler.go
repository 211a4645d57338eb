// Package httpapi exposes the strategy engine over HTTP. The handlers stay
// thin: input validation, identity plumbing, and error-to-status mapping.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/growthplot/strategy-agent/internal/auth"
	"github.com/growthplot/strategy-agent/internal/models"
	"github.com/growthplot/strategy-agent/internal/store"
)

const fallbackEmail = "no-email@provided.com"

// Generator produces a strategy for a business profile.
type Generator interface {
	Generate(ctx context.Context, profile models.BusinessProfile) (*models.Strategy, error)
}

// Store is the persistence surface the handlers need.
type Store interface {
	SaveGeneration(ctx context.Context, strategy *models.Strategy, profile models.BusinessProfile, ownerID, email string) error
	GetByID(ctx context.Context, id string) (*models.Strategy, error)
}

// Updater triggers a bounded manual refresh batch.
type Updater interface {
	RunManual(ctx context.Context) (int, error)
}

// Handler holds the collaborators of the strategy routes.
type Handler struct {
	generator Generator
	store     Store
	updater   Updater
	log       *zap.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(generator Generator, st Store, updater Updater, log *zap.Logger) *Handler {
	return &Handler{generator: generator, store: st, updater: updater, log: log}
}

// Register mounts the API routes. Strategy routes sit behind the verifier;
// health does not.
func (h *Handler) Register(router *gin.Engine, verifier auth.Verifier) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/strategy", AuthMiddleware(verifier, h.log))
	api.POST("/generate", h.GenerateStrategy)
	api.GET("/:id", h.GetStrategy)
	api.POST("/update/manual", h.ManualUpdate)
}

// GenerateStrategy validates the submitted profile, generates a strategy,
// saves it best-effort, and returns it. A storage failure is logged but does
// not fail the request: the generated strategy is the value the caller asked
// for, persistence only feeds history and weekly refresh.
func (h *Handler) GenerateStrategy(c *gin.Context) {
	var profile models.BusinessProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if details := validateProfile(profile); len(details) > 0 {
		h.log.Error("profile validation failed", zap.Strings("details", details))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": details,
		})
		return
	}
	h.log.Info("validation passed", zap.String("business", profile.Name))

	strategy, err := h.generator.Generate(c.Request.Context(), profile)
	if err != nil {
		h.log.Error("strategy generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	identity := callerIdentity(c)
	email := identity.Email
	if email == "" {
		email = fallbackEmail
	}
	if err := h.store.SaveGeneration(c.Request.Context(), strategy, profile, identity.UserID, email); err != nil {
		h.log.Warn("database not available, strategy returned unsaved", zap.Error(err))
	}

	c.JSON(http.StatusOK, strategy)
}

// GetStrategy returns a strategy by id.
func (h *Handler) GetStrategy(c *gin.Context) {
	strategy, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Strategy not found"})
		return
	}
	if err != nil {
		h.log.Error("strategy lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, strategy)
}

// ManualUpdate triggers a bounded refresh batch and reports how many
// businesses were attempted.
func (h *Handler) ManualUpdate(c *gin.Context) {
	h.log.Info("manual update triggered via API")
	count, err := h.updater.RunManual(c.Request.Context())
	if err != nil {
		h.log.Error("manual update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger update"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Updated %d strategies", count),
		"count":   count,
	})
}

// validateProfile reports every missing and every empty profile field, not
// just the first one found.
func validateProfile(profile models.BusinessProfile) []string {
	var missing, empty []string
	for _, field := range models.ProfileFields {
		value := profile.Field(field)
		switch {
		case value == "":
			missing = append(missing, field)
		case strings.TrimSpace(value) == "":
			empty = append(empty, field)
		}
	}

	var details []string
	if len(missing) > 0 {
		details = append(details, "Missing required fields: "+strings.Join(missing, ", "))
	}
	if len(empty) > 0 {
		details = append(details, "Empty fields not allowed: "+strings.Join(empty, ", "))
	}
	return details
}
