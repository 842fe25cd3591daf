package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"BidSentinel/internal/api/models"
	"BidSentinel/internal/model"
	"BidSentinel/internal/session"
	"BidSentinel/internal/targets"
)

type fakeTrader struct {
	status model.Status
	ledger []model.LedgerEntry
	watch  []model.Auction
}

func (f *fakeTrader) Status() model.Status         { return f.status }
func (f *fakeTrader) Ledger() []model.LedgerEntry { return f.ledger }
func (f *fakeTrader) WatchList() []model.Auction  { return f.watch }

func newTestRouter() (*gin.Engine, *fakeTrader, *session.Session, *targets.List) {
	gin.SetMode(gin.TestMode)
	trader := &fakeTrader{
		status: model.Status{State: "RUNNING", ActionCount: 12, ActionLimit: 500},
		ledger: []model.LedgerEntry{{ID: "a", Name: "Messi", Price: 900, Mode: model.ModePassive}},
		watch:  []model.Auction{{TradeID: 5, AssetID: 7, Name: model.ClubName{Name: "Pele"}, StartingBid: 400,
			BidState: model.BidHighest, TradeState: model.TradeActive, ExpiresIn: 90}},
	}
	sess := session.New()
	tl := targets.NewList([]model.Target{{ItemID: 7, MaxPrice: 1000}})
	return NewRouter(trader, sess, tl, zap.NewNop()), trader, sess, tl
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _, _, _ := newTestRouter()
	w := do(t, router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestStatus(t *testing.T) {
	router, _, _, _ := newTestRouter()
	w := do(t, router, http.MethodGet, "/api/v1/status", "")
	var st model.Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.State != "RUNNING" || st.ActionCount != 12 {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestStartStop(t *testing.T) {
	router, _, sess, _ := newTestRouter()

	w := do(t, router, http.MethodPost, "/api/v1/trading/start", "")
	var resp models.TradingResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Enabled || !sess.Enabled() {
		t.Errorf("expected trading enabled, got %s", w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/api/v1/trading/stop", "")
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Enabled || sess.Enabled() {
		t.Errorf("expected trading disabled, got %s", w.Body.String())
	}
}

func TestLedgerAndWatchList(t *testing.T) {
	router, _, _, _ := newTestRouter()

	w := do(t, router, http.MethodGet, "/api/v1/ledger", "")
	var ledger []model.LedgerEntry
	if err := json.Unmarshal(w.Body.Bytes(), &ledger); err != nil || len(ledger) != 1 || ledger[0].Price != 900 {
		t.Errorf("unexpected ledger %s", w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/v1/watchlist", "")
	var items []models.WatchItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil || len(items) != 1 {
		t.Fatalf("unexpected watch list %s", w.Body.String())
	}
	if items[0].Name != "Pele" || items[0].Price != 400 || items[0].BidState != "highest" {
		t.Errorf("unexpected item %+v", items[0])
	}
}

func TestLog(t *testing.T) {
	router, _, sess, _ := newTestRouter()
	sess.Log("one")
	sess.Log("two")
	sess.Log("three")

	w := do(t, router, http.MethodGet, "/api/v1/log?limit=2", "")
	var resp models.LogResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Lines) != 2 || !strings.HasSuffix(resp.Lines[1], "three") {
		t.Errorf("unexpected log %v", resp.Lines)
	}

	w = do(t, router, http.MethodGet, "/api/v1/log?limit=abc", "")
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "INVALID_LIMIT") {
		t.Errorf("expected INVALID_LIMIT, got %d %s", w.Code, w.Body.String())
	}
}

func TestTargets(t *testing.T) {
	router, _, _, tl := newTestRouter()

	w := do(t, router, http.MethodPost, "/api/v1/targets", `{"item_id":7,"max_price":1500}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", w.Code, w.Body.String())
	}
	if p, _ := tl.MaxPrice(7); p != 1500 {
		t.Errorf("expected overwrite to 1500, got %d", p)
	}

	w = do(t, router, http.MethodPost, "/api/v1/targets", `{"item_id":9,"max_price":-1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a negative price, got %d", w.Code)
	}

	w = do(t, router, http.MethodGet, "/api/v1/targets", "")
	var list []model.Target
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Errorf("unexpected targets %s", w.Body.String())
	}
}

func TestNotFound(t *testing.T) {
	router, _, _, _ := newTestRouter()
	w := do(t, router, http.MethodGet, "/api/v1/nope", "")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "NOT_FOUND") {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestServerCORS(t *testing.T) {
	router, _, _, _ := newTestRouter()
	srv := NewServer(":0", router, []string{"http://dash.local"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://dash.local")
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://dash.local" {
		t.Errorf("expected allowed origin header, got %q", got)
	}
}
