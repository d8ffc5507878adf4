package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/karune-connect/matcher/internal/completeness"
	"github.com/karune-connect/matcher/internal/filtering"
	"github.com/karune-connect/matcher/internal/logger"
	"github.com/karune-connect/matcher/internal/needs"
	"github.com/karune-connect/matcher/internal/ranking"
	"github.com/karune-connect/matcher/internal/scoring"
	"github.com/karune-connect/matcher/internal/store"
)

type Handler struct {
	source store.Source
	engine *scoring.Engine
	ranker *ranking.Ranker
	logger *zap.Logger
}

// NewHandler wires the matching core to HTTP. source may be nil, in which
// case requests must carry their own needs and profiles.
func NewHandler(source store.Source, engine *scoring.Engine, log *zap.Logger) *Handler {
	log = logger.WithFields(log)
	return &Handler{
		source: source,
		engine: engine,
		ranker: ranking.NewRanker(engine, log),
		logger: log,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	v1 := r.Group("/api/v1")
	v1.POST("/recommendations", h.recommendations)
	v1.POST("/profile/completeness", h.completeness)
	v1.POST("/needs/nearby", h.nearby)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) recommendations(c *gin.Context) {
	var req recommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	log := requestLogger(c, h.logger)
	ctx := c.Request.Context()

	profile := req.Profile
	if profile == nil && req.ProfileID != "" {
		p, status, err := h.loadProfile(ctx, req.ProfileID)
		if err != nil {
			log.Warn("loading profile failed", zap.String(logger.FieldProfileID, req.ProfileID), zap.Error(err))
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		profile = p
	}

	role := needs.ParseRole(string(req.Role))
	if role == "" && profile != nil {
		role = needs.ParseRole(string(profile.Role))
	}

	items, ok := h.needsFor(c, log, req.Needs)
	if !ok {
		return
	}

	if req.MaxDistanceKm > 0 {
		items = filtering.ByRadius(h.engine.Calculator(), items, profile, req.MaxDistanceKm)
	}

	recs := h.ranker.Rank(items, profile, role).Top(req.Limit)

	c.JSON(http.StatusOK, recommendationsResponse{
		Role:            role,
		Ranked:          profile != nil,
		Count:           recs.Len(),
		Recommendations: toRecommendationViews(recs),
	})
}

func (h *Handler) completeness(c *gin.Context) {
	var req completenessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	role := needs.ParseRole(string(req.Role))
	if role == "" && req.Profile != nil {
		role = needs.ParseRole(string(req.Profile.Role))
	}

	suggestions := completeness.Suggestions(req.Profile, role)
	if suggestions == nil {
		suggestions = []string{}
	}

	c.JSON(http.StatusOK, completenessResponse{
		Complete:    completeness.IsComplete(req.Profile, role),
		Suggestions: suggestions,
	})
}

func (h *Handler) nearby(c *gin.Context) {
	var req nearbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.MaxKm <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_km must be positive"})
		return
	}

	log := requestLogger(c, h.logger)

	items, ok := h.needsFor(c, log, req.Needs)
	if !ok {
		return
	}

	if req.Profile == nil || !req.Profile.HasCoordinates() {
		log.Info("profile has no coordinates, returning all needs")
	}

	kept := filtering.ByRadius(h.engine.Calculator(), items, req.Profile, req.MaxKm)
	if kept == nil {
		kept = []*needs.Need{}
	}

	c.JSON(http.StatusOK, nearbyResponse{Count: len(kept), Needs: kept})
}

// needsFor returns the request's needs, falling back to the configured source.
// It writes the error response itself and returns false on failure.
func (h *Handler) needsFor(c *gin.Context, log *zap.Logger, items []*needs.Need) ([]*needs.Need, bool) {
	if items != nil {
		return items, true
	}

	if h.source == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "needs are required"})
		return nil, false
	}

	list, err := h.source.ListNeeds(c.Request.Context())
	if err != nil {
		log.Error("listing needs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch needs"})
		return nil, false
	}
	return list.Items, true
}

func (h *Handler) loadProfile(ctx context.Context, id string) (*needs.Profile, int, error) {
	if h.source == nil {
		return nil, http.StatusBadRequest, errors.New("profile is required")
	}

	profile, err := h.source.GetProfile(ctx, id)
	switch {
	case errors.Is(err, store.ErrProfileNotFound):
		return nil, http.StatusNotFound, err
	case err != nil:
		return nil, http.StatusInternalServerError, errors.New("failed to fetch profile")
	}
	return profile, http.StatusOK, nil
}
