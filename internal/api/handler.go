package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skohara/org-stats-aggregator/internal/aggregator"
	"github.com/skohara/org-stats-aggregator/internal/domain"
)

// Handler handles API requests
type Handler struct {
	aggregator aggregator.Aggregator
}

// NewHandler creates a new API handler
func NewHandler(agg aggregator.Aggregator) *Handler {
	return &Handler{
		aggregator: agg,
	}
}

// GetAggregate returns the combined statistics for the requested
// organizations. Both query parameters are optional; the response is always
// 200 with a structurally complete body.
// GET /aggregate?github=<org>&bitbucket=<org>
func (h *Handler) GetAggregate(c *gin.Context) {
	query := domain.OrgQuery{
		GitHubOrg:    c.Query("github"),
		BitbucketOrg: c.Query("bitbucket"),
	}

	result := h.aggregator.Aggregate(c.Request.Context(), query)

	c.JSON(http.StatusOK, toAggregatePayload(result))
}

// HealthCheck returns the health status of the API
// GET /health-check
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
