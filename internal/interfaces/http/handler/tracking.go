package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apptracking "github.com/hongquyngo/inbound-logistic-dashboard/internal/application/tracking"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/tracking"
)

const dateLayout = "2006-01-02"

// TrackingHandler exposes the purchase order tracking endpoints
type TrackingHandler struct {
	BaseHandler
	poService        *apptracking.POTrackingService
	dashboardService *apptracking.DashboardService
}

// NewTrackingHandler creates a new TrackingHandler
func NewTrackingHandler(poService *apptracking.POTrackingService, dashboardService *apptracking.DashboardService) *TrackingHandler {
	return &TrackingHandler{
		poService:        poService,
		dashboardService: dashboardService,
	}
}

// RegisterRoutes registers tracking routes on the API group
func (h *TrackingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/tracking")
	{
		group.GET("/filter-options", h.GetFilterOptions)
		group.GET("/purchase-orders", h.ListPurchaseOrders)
		group.PATCH("/purchase-orders/:id/schedule", h.UpdateSchedule)
		group.GET("/dashboard", h.GetDashboard)
	}
}

// GetFilterOptions returns the selectable filter domains for the current dataset
func (h *TrackingHandler) GetFilterOptions(c *gin.Context) {
	opts, err := h.poService.GetFilterOptions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, opts)
}

// ListPurchaseOrders returns the dataset filtered through the query parameters
func (h *TrackingHandler) ListPurchaseOrders(c *gin.Context) {
	sel, err := parseFilterSelection(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.poService.QueryPurchaseOrders(c.Request.Context(), sel)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UpdateScheduleRequest is the body of a line schedule adjustment
type UpdateScheduleRequest struct {
	ETD       string `json:"etd"`
	ETA       string `json:"eta"`
	UpdatedBy string `json:"updated_by" binding:"required"`
}

// UpdateSchedule adjusts the ETD and/or ETA of one purchase order line
func (h *TrackingHandler) UpdateSchedule(c *gin.Context) {
	lineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "line id must be an integer")
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := apptracking.UpdateScheduleCommand{LineID: lineID, UpdatedBy: req.UpdatedBy}
	if req.ETD != "" {
		if cmd.ETD, err = time.Parse(dateLayout, req.ETD); err != nil {
			h.BadRequest(c, fmt.Sprintf("etd must be formatted as %s", dateLayout))
			return
		}
	}
	if req.ETA != "" {
		if cmd.ETA, err = time.Parse(dateLayout, req.ETA); err != nil {
			h.BadRequest(c, fmt.Sprintf("eta must be formatted as %s", dateLayout))
			return
		}
	}

	if err := h.poService.UpdateLineSchedule(c.Request.Context(), cmd); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetDashboard returns KPI cards and chart aggregations over the filtered dataset
func (h *TrackingHandler) GetDashboard(c *gin.Context) {
	sel, err := parseFilterSelection(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.dashboardService.GetDashboard(c.Request.Context(), sel)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// parseFilterSelection builds a filter selection from query parameters.
// Multi-value dimensions accept repeated parameters or comma-separated lists,
// and each dimension flips to exclusion mode via exclude_<dimension>=true.
func parseFilterSelection(c *gin.Context) (tracking.FilterSelection, error) {
	sel := tracking.FilterSelection{
		DateType:        tracking.DateType(c.Query("date_type")),
		Statuses:        parseSelection(c, "statuses"),
		VendorTypes:     parseSelection(c, "vendor_types"),
		VendorLocations: parseSelection(c, "vendor_locations"),
		Vendors:         parseSelection(c, "vendors"),
		LegalEntities:   parseSelection(c, "legal_entities"),
		PONumbers:       parseSelection(c, "po_numbers"),
		Brands:          parseSelection(c, "brands"),
		PaymentTerms:    parseSelection(c, "payment_terms"),
		Creators:        parseSelection(c, "creators"),
	}

	dateRange, err := parseDateRange(c)
	if err != nil {
		return tracking.FilterSelection{}, err
	}
	sel.DateRange = dateRange

	specials := []tracking.SpecialFilter{
		tracking.SpecialOverdueOnly,
		tracking.SpecialOverDeliveredOnly,
		tracking.SpecialOverInvoicedOnly,
		tracking.SpecialCriticalOnly,
	}
	for _, sf := range specials {
		if c.Query(string(sf)) == "true" {
			sel.Special = append(sel.Special, sf)
		}
	}

	return sel, nil
}

func parseSelection(c *gin.Context, name string) tracking.Selection {
	var values []string
	for _, raw := range c.QueryArray(name) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	if len(values) == 0 {
		return tracking.Unconstrained()
	}
	if c.Query("exclude_"+name) == "true" {
		return tracking.NoneOf(values...)
	}
	return tracking.OneOf(values...)
}

func parseDateRange(c *gin.Context) (*tracking.DateRange, error) {
	fromStr, toStr := c.Query("date_from"), c.Query("date_to")
	if fromStr == "" && toStr == "" {
		return nil, nil
	}
	if fromStr == "" || toStr == "" {
		return nil, fmt.Errorf("date_from and date_to must be provided together")
	}

	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return nil, fmt.Errorf("date_from must be formatted as %s", dateLayout)
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return nil, fmt.Errorf("date_to must be formatted as %s", dateLayout)
	}
	return &tracking.DateRange{From: from, To: to}, nil
}
