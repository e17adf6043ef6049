package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apptracking "github.com/hongquyngo/inbound-logistic-dashboard/internal/application/tracking"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/shared"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/tracking"
)

// stubRepository serves a fixed dataset and records schedule updates
type stubRepository struct {
	lines     []tracking.PurchaseOrderLine
	loadErr   error
	updateErr error
	updated   []int64
}

func (s *stubRepository) LoadAll(ctx context.Context) ([]tracking.PurchaseOrderLine, error) {
	return s.lines, s.loadErr
}

func (s *stubRepository) UpdateSchedule(ctx context.Context, lineID int64, etd, eta time.Time, updatedBy string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, lineID)
	return nil
}

func handlerLines() []tracking.PurchaseOrderLine {
	return []tracking.PurchaseOrderLine{
		{
			LineID: 1, PONumber: "PO-5001",
			PODate:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			ETD:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			VendorCode: "ACME", VendorName: "Acme Corp", Brand: "BrandX",
			OrderedQty: decimal.NewFromInt(10),
			Status:     tracking.StatusPending,
		},
		{
			LineID: 2, PONumber: "PO-5002",
			PODate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			ETD:        time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
			VendorCode: "GLOB", VendorName: "Globex", Brand: "BrandY",
			OrderedQty: decimal.NewFromInt(5),
			Status:     tracking.StatusCompleted,
		},
	}
}

func newTestServer(repo *stubRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	poService := apptracking.NewPOTrackingService(repo, nil, log)
	dashboardService := apptracking.NewDashboardService(repo, log, 30, 10)

	r := gin.New()
	api := r.Group("/api/v1")
	NewTrackingHandler(poService, dashboardService).RegisterRoutes(api)
	return r
}

func doRequest(r *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGetFilterOptions(t *testing.T) {
	r := newTestServer(&stubRepository{lines: handlerLines()})

	w := doRequest(r, http.MethodGet, "/api/v1/tracking/filter-options", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                   `json:"success"`
		Data    tracking.FilterOptions `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"ACME - Acme Corp", "GLOB - Globex"}, resp.Data.Vendors)
	assert.Equal(t, []string{"PENDING", "COMPLETED"}, resp.Data.Statuses)
}

func TestListPurchaseOrders(t *testing.T) {
	r := newTestServer(&stubRepository{lines: handlerLines()})

	tests := []struct {
		name    string
		query   string
		wantIDs []float64
	}{
		{"no filters", "", []float64{1, 2}},
		{"status include", "statuses=PENDING", []float64{1}},
		{"status exclude", "statuses=PENDING&exclude_statuses=true", []float64{2}},
		{"comma separated", "statuses=PENDING,COMPLETED", []float64{1, 2}},
		{"date range on po_date", "date_type=po_date&date_from=2026-02-15&date_to=2026-03-15", []float64{2}},
		{"vendor display value", "vendors=ACME%20-%20Acme%20Corp", []float64{1}},
		{"stale brand matches nothing", "brands=BrandGone", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, "/api/v1/tracking/purchase-orders?"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Data struct {
					Result struct {
						Lines []map[string]any `json:"lines"`
						Count int              `json:"count"`
					} `json:"result"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			var ids []float64
			for _, l := range resp.Data.Result.Lines {
				ids = append(ids, l["line_id"].(float64))
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestListPurchaseOrdersInvalidRange(t *testing.T) {
	r := newTestServer(&stubRepository{lines: handlerLines()})

	w := doRequest(r, http.MethodGet,
		"/api/v1/tracking/purchase-orders?date_from=2026-04-01&date_to=2026-03-01", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ERR_INVALID_DATE_RANGE", resp.Error.Code)
}

func TestListPurchaseOrdersMalformedQuery(t *testing.T) {
	r := newTestServer(&stubRepository{lines: handlerLines()})

	tests := []struct {
		name  string
		query string
	}{
		{"bad date format", "date_from=04/01/2026&date_to=2026-05-01"},
		{"half open range", "date_from=2026-04-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, "/api/v1/tracking/purchase-orders?"+tt.query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateSchedule(t *testing.T) {
	repo := &stubRepository{lines: handlerLines()}
	r := newTestServer(repo)

	body := []byte(`{"etd":"2026-04-20","updated_by":"alice"}`)
	w := doRequest(r, http.MethodPatch, "/api/v1/tracking/purchase-orders/1/schedule", body)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []int64{1}, repo.updated)
}

func TestUpdateScheduleErrors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		body       string
		repo       *stubRepository
		wantStatus int
	}{
		{
			name: "non-numeric id", url: "/api/v1/tracking/purchase-orders/abc/schedule",
			body: `{"etd":"2026-04-20","updated_by":"alice"}`,
			repo: &stubRepository{}, wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing updated_by", url: "/api/v1/tracking/purchase-orders/1/schedule",
			body: `{"etd":"2026-04-20"}`,
			repo: &stubRepository{}, wantStatus: http.StatusBadRequest,
		},
		{
			name: "bad date", url: "/api/v1/tracking/purchase-orders/1/schedule",
			body: `{"etd":"20-04-2026","updated_by":"alice"}`,
			repo: &stubRepository{}, wantStatus: http.StatusBadRequest,
		},
		{
			name: "no dates at all", url: "/api/v1/tracking/purchase-orders/1/schedule",
			body: `{"updated_by":"alice"}`,
			repo: &stubRepository{}, wantStatus: http.StatusBadRequest,
		},
		{
			name: "line not found", url: "/api/v1/tracking/purchase-orders/99/schedule",
			body: `{"etd":"2026-04-20","updated_by":"alice"}`,
			repo: &stubRepository{updateErr: shared.ErrNotFound}, wantStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestServer(tt.repo)
			w := doRequest(r, http.MethodPatch, tt.url, []byte(tt.body))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetDashboard(t *testing.T) {
	r := newTestServer(&stubRepository{lines: handlerLines()})

	w := doRequest(r, http.MethodGet, "/api/v1/tracking/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			KPIs struct {
				TotalLines int `json:"total_lines"`
			} `json:"kpis"`
			MatchedLines int `json:"matched_lines"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.KPIs.TotalLines)
	assert.Equal(t, 2, resp.Data.MatchedLines)
}

func TestGetDashboardSpecialFilter(t *testing.T) {
	r := newTestServer(&stubRepository{lines: handlerLines()})

	w := doRequest(r, http.MethodGet, "/api/v1/tracking/dashboard?critical_only=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			MatchedLines int `json:"matched_lines"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Data.MatchedLines)
}
