package handler

import (
	"strconv"

	reportapp "github.com/gestion/backend/internal/application/report"
	"github.com/gestion/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the dashboard aggregates
type DashboardHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary godoc
// @Summary      Dashboard totals
// @Description  Invoiced, collected and outstanding amounts with counts per status
// @Tags         dashboard
// @Param        date_debut query string false "Invoices dated on or after (YYYY-MM-DD)"
// @Param        date_fin   query string false "Invoices dated on or before (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=reportapp.DashboardResponse}
// @Router       /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	var filter reportapp.DashboardFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	summary, err := h.dashboardService.Summary(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Revenue godoc
// @Summary      Monthly revenue of a year
// @Tags         dashboard
// @Param        year query int false "Year, defaults to the current one"
// @Success      200 {object} dto.Response{data=reportapp.RevenueResponse}
// @Router       /dashboard/revenue [get]
func (h *DashboardHandler) Revenue(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, dto.ErrCodeInvalidInput, "year must be a number")
			return
		}
		year = y
	}

	series, err := h.dashboardService.RevenueSeries(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, series)
}
