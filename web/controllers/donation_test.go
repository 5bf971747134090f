package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"satsforgood/donation/invoice"
	"satsforgood/donation/ledger"
	"satsforgood/donation/manager"
	"satsforgood/web/controllers"
)

func newTestRouter(t *testing.T, paidAfter int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	encoder, err := invoice.NewSimulatedEncoder()
	if err != nil {
		t.Fatal("Failed to create encoder:", err)
	}
	m := manager.New(invoice.NewStore(), ledger.NewMemoryStore(), manager.NewFakeOracle(paidAfter), encoder)
	dh := controllers.NewDonationHandler(m)

	r := gin.New()
	r.GET("/create-invoice", dh.CreateInvoice)
	r.GET("/check-payment", dh.CheckPayment)
	r.GET("/donation-stats", dh.DonationStats)
	r.GET("/recent-donations", dh.RecentDonations)
	r.GET("/donation-receipt", dh.DonationReceipt)
	return r
}

func get(r *gin.Engine, url string) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestCreateInvoiceEndpoint(t *testing.T) {
	r := newTestRouter(t, 0)

	w, body := get(r, "/create-invoice?amount_sats=1000&donor_name=Ann&recipient=Shelter")
	if w.Code != http.StatusOK {
		t.Fatal("Expected 200, got", w.Code, w.Body.String())
	}
	if body["payment_hash"] == nil || body["invoice"] == nil {
		t.Error("Expected payment_hash and invoice in response")
	}
	if body["qr_code"] == nil {
		t.Error("Expected qr_code in response")
	}
	if body["expires_in"].(float64) > 3600 || body["expires_in"].(float64) < 3590 {
		t.Error("Expected roughly 1h expires_in, got", body["expires_in"])
	}

	w, _ = get(r, "/create-invoice?amount_sats=0")
	if w.Code != http.StatusBadRequest {
		t.Error("Expected 400 for zero amount, got", w.Code)
	}
	w, _ = get(r, "/create-invoice?amount_sats=1000001")
	if w.Code != http.StatusBadRequest {
		t.Error("Expected 400 for oversized amount, got", w.Code)
	}
	w, _ = get(r, "/create-invoice?amount_sats=abc")
	if w.Code != http.StatusBadRequest {
		t.Error("Expected 400 for garbage amount, got", w.Code)
	}
}

func TestPaymentFlowEndpoints(t *testing.T) {
	r := newTestRouter(t, 2)

	_, created := get(r, "/create-invoice?amount_sats=1000&donor_name=Ann&recipient=Shelter")
	hash := created["payment_hash"].(string)

	_, body := get(r, "/check-payment?payment_hash="+hash)
	if body["status"] != "PENDING" {
		t.Fatal("Expected PENDING, got", body["status"])
	}

	_, body = get(r, "/check-payment?payment_hash="+hash)
	if body["status"] != "PAID" {
		t.Fatal("Expected PAID on second poll, got", body["status"])
	}
	if body["paid_at"] == nil {
		t.Error("Expected paid_at with PAID status")
	}

	_, stats := get(r, "/donation-stats")
	if stats["total_sats"].(float64) != 1000 || stats["donor_count"].(float64) != 1 {
		t.Error("Expected stats 1000/1, got", stats)
	}

	_, recentBody := get(r, "/recent-donations?limit=5")
	donations := recentBody["donations"].([]any)
	if len(donations) != 1 {
		t.Fatal("Expected 1 donation, got", len(donations))
	}
	first := donations[0].(map[string]any)
	if first["donor_name"] != "Ann" || first["amount_sats"].(float64) != 1000 {
		t.Error("Got wrong donation:", first)
	}

	w, receipt := get(r, "/donation-receipt?payment_hash="+hash)
	if w.Code != http.StatusOK {
		t.Fatal("Expected 200 receipt, got", w.Code)
	}
	if receipt["network"] != "lightning" || receipt["recipient"] != "Shelter" {
		t.Error("Got wrong receipt:", receipt)
	}

	w, _ = get(r, "/check-payment?payment_hash=deadbeef")
	if w.Code != http.StatusNotFound {
		t.Error("Expected 404 for unknown hash, got", w.Code)
	}
	w, _ = get(r, "/donation-receipt?payment_hash=deadbeef")
	if w.Code != http.StatusNotFound {
		t.Error("Expected 404 for unknown receipt, got", w.Code)
	}
}
