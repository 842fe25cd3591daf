package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"BidSentinel/internal/api/models"
	"BidSentinel/internal/model"
	"BidSentinel/internal/session"
	"BidSentinel/internal/targets"
)

// Trader is the read side of the trading loop.
type Trader interface {
	Status() model.Status
	Ledger() []model.LedgerEntry
	WatchList() []model.Auction
}

// TradingHandler serves the trading control endpoints.
type TradingHandler struct {
	trader  Trader
	session *session.Session
	targets *targets.List
}

// NewTradingHandler creates a new trading handler
func NewTradingHandler(trader Trader, sess *session.Session, tl *targets.List) *TradingHandler {
	return &TradingHandler{trader: trader, session: sess, targets: tl}
}

// GetStatus handles GET /api/v1/status
func (h *TradingHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.trader.Status())
}

// Start handles POST /api/v1/trading/start
func (h *TradingHandler) Start(c *gin.Context) {
	h.session.Start()
	c.JSON(http.StatusOK, models.TradingResponse{Enabled: h.session.Enabled()})
}

// Stop handles POST /api/v1/trading/stop
func (h *TradingHandler) Stop(c *gin.Context) {
	h.session.Stop()
	c.JSON(http.StatusOK, models.TradingResponse{Enabled: h.session.Enabled()})
}

// GetLedger handles GET /api/v1/ledger
func (h *TradingHandler) GetLedger(c *gin.Context) {
	c.JSON(http.StatusOK, h.trader.Ledger())
}

// GetLog handles GET /api/v1/log
func (h *TradingHandler) GetLog(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, models.LogResponse{Lines: h.session.Lines(limit)})
}

// GetWatchList handles GET /api/v1/watchlist
func (h *TradingHandler) GetWatchList(c *gin.Context) {
	watch := h.trader.WatchList()
	items := make([]models.WatchItem, 0, len(watch))
	for _, a := range watch {
		items = append(items, models.NewWatchItem(a))
	}
	c.JSON(http.StatusOK, items)
}

// ListTargets handles GET /api/v1/targets
func (h *TradingHandler) ListTargets(c *gin.Context) {
	c.JSON(http.StatusOK, h.targets.All())
}

// AddTarget handles POST /api/v1/targets
func (h *TradingHandler) AddTarget(c *gin.Context) {
	var req models.TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	h.targets.Add(req.ItemID, req.MaxPrice)
	c.JSON(http.StatusCreated, model.Target{ItemID: req.ItemID, MaxPrice: req.MaxPrice})
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}
