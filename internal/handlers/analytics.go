package handlers

import (
	"net/http"

	"mini-crm/internal/access"
	"mini-crm/internal/middleware"
	"mini-crm/internal/store"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	Store store.Store
}

// LeadsByStatus handles GET /api/analytics/leads-by-status. Every known
// status is present in the output so charts render a fixed set of
// categories.
func (h *AnalyticsHandler) LeadsByStatus(c *gin.Context) {
	scope := access.ScopeFor(middleware.CurrentUser(c))

	rows, err := h.Store.LeadsByStatus(scope)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return
	}
	respondData(c, http.StatusOK, rows)
}

// Stats handles GET /api/analytics/stats.
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	scope := access.ScopeFor(middleware.CurrentUser(c))

	stats, err := h.Store.Stats(scope)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return
	}
	respondData(c, http.StatusOK, stats)
}
