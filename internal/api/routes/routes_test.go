package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FreightLink/FreightLink/internal/api/routes"
	"github.com/FreightLink/FreightLink/internal/bid"
	"github.com/FreightLink/FreightLink/internal/booking"
	"github.com/FreightLink/FreightLink/internal/common/config"
	"github.com/FreightLink/FreightLink/internal/common/logger"
	"github.com/FreightLink/FreightLink/internal/load"
	"github.com/FreightLink/FreightLink/internal/storage/memory"
	"github.com/FreightLink/FreightLink/internal/transporter"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	trStore := memory.NewTransporterStore()
	bidStore := memory.NewBidStore()
	bkStore := memory.NewBookingStore()

	transporters := transporter.NewService(trStore, log)
	ledger := transporter.NewLedger(trStore, log)
	loads := load.NewService(memory.NewLoadStore(), bkStore, bidStore, log)
	bids := bid.NewService(bidStore, loads, transporters, ledger, log)
	bookings := booking.NewService(bkStore, bids, loads, ledger, log)

	return routes.SetupRouter(config.GetConfig(), log, loads, bids, bookings, transporters)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	router := newRouter()
	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestMarketplaceFlow(t *testing.T) {
	router := newRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/transporters", gin.H{
		"companyName": "Acme Logistics",
		"rating":      4.5,
		"trucks":      []gin.H{{"truckType": "TRAILER", "count": 10}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register transporter: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var tr struct {
		ID string `json:"id"`
	}
	decode(t, w, &tr)

	w = doJSON(t, router, http.MethodPost, "/api/v1/loads", gin.H{
		"shipperId":      "shipper-1",
		"loadingCity":    "Mumbai",
		"unloadingCity":  "Delhi",
		"loadingDate":    time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"productType":    "Steel",
		"weight":         12.5,
		"weightUnit":     "TON",
		"truckType":      "TRAILER",
		"requiredTrucks": 2,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create load: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var l struct {
		ID string `json:"id"`
	}
	decode(t, w, &l)

	bidBody := gin.H{
		"loadId":        l.ID,
		"transporterId": tr.ID,
		"proposedRate":  50000,
		"trucksOffered": 2,
	}
	w = doJSON(t, router, http.MethodPost, "/api/v1/bids", bidBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit bid: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var b struct {
		ID string `json:"id"`
	}
	decode(t, w, &b)

	// A second bid from the same transporter on the same load is a conflict.
	w = doJSON(t, router, http.MethodPost, "/api/v1/bids", bidBody)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate bid: expected 409, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/loads/%s/best-bids", l.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("best bids: expected 200, got %d", w.Code)
	}
	var ranked []struct {
		Score float64 `json:"score"`
	}
	decode(t, w, &ranked)
	if len(ranked) != 1 || ranked[0].Score <= 0 {
		t.Fatalf("expected one scored bid, got %+v", ranked)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/bookings", gin.H{"bidId": b.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("create booking: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var bk struct {
		ID string `json:"id"`
	}
	decode(t, w, &bk)

	w = doJSON(t, router, http.MethodGet, "/api/v1/loads/"+l.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get load: expected 200, got %d", w.Code)
	}
	var view struct {
		Status          string `json:"status"`
		RemainingTrucks int    `json:"remainingTrucks"`
	}
	decode(t, w, &view)
	if view.Status != "BOOKED" || view.RemainingTrucks != 0 {
		t.Fatalf("expected fully booked load, got %+v", view)
	}

	// A booked load cannot be cancelled by the shipper.
	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/loads/%s/cancel", l.ID), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("cancel booked load: expected 400, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%s/cancel", bk.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel booking: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/loads/"+l.ID, nil)
	decode(t, w, &view)
	if view.Status != "OPEN_FOR_BIDS" || view.RemainingTrucks != 2 {
		t.Fatalf("expected reopened load after booking cancel, got %+v", view)
	}
}

func TestNotFoundMapping(t *testing.T) {
	router := newRouter()

	for _, path := range []string{
		"/api/v1/loads/missing",
		"/api/v1/bids/missing",
		"/api/v1/bookings/missing",
		"/api/v1/transporters/missing",
	} {
		w := doJSON(t, router, http.MethodGet, path, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, w.Code)
		}
	}
}
