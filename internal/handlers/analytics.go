package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-backend/internal/requestdata"
	"github.com/careerbridge/careerbridge-backend/internal/services"
)

// AnalyticsHandler serves the pull side of the analytics layer. Every
// response is recomputed at request time; clients poll these endpoints to
// overwrite whatever the socket path pushed in the meantime.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) DashboardStats(c *gin.Context) {
	window, err := services.ParseWindow(c.Query("window"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_window", err)
		return
	}
	stats, err := h.analyticsService.DashboardStats(c.Request.Context(), window)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "dashboard_stats_failed", err)
		return
	}
	RespondOK(c, stats)
}

func (h *AnalyticsHandler) PersonalStats(c *gin.Context) {
	identity := requestdata.GetIdentity(c.Request.Context())
	if identity == nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no identity"))
		return
	}
	stats, err := h.analyticsService.PersonalStats(c.Request.Context(), identity.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "personal_stats_failed", err)
		return
	}
	RespondOK(c, stats)
}

// CompanyPerformance is scoped to the caller's own company unless an admin
// asks for a specific one.
func (h *AnalyticsHandler) CompanyPerformance(c *gin.Context) {
	identity := requestdata.GetIdentity(c.Request.Context())
	if identity == nil {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("no identity"))
		return
	}

	window, err := services.ParseWindow(c.Query("window"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_window", err)
		return
	}

	var companyID uuid.UUID
	switch {
	case identity.IsAdmin() && c.Query("company_id") != "":
		companyID, err = uuid.Parse(c.Query("company_id"))
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_company_id", err)
			return
		}
	case identity.CompanyID != nil:
		companyID = *identity.CompanyID
	default:
		RespondError(c, http.StatusForbidden, "no_company", fmt.Errorf("caller has no company scope"))
		return
	}

	perf, err := h.analyticsService.CompanyPerformance(c.Request.Context(), companyID, window)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "company_performance_failed", err)
		return
	}
	RespondOK(c, perf)
}
