package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"BidSentinel/internal/model"
)

// HTTPClient implements Client against the marketplace's JSON web API.
type HTTPClient struct {
	BaseURL      string
	SessionToken string
	Client       *http.Client
}

// NewHTTPClient creates a client with optional proxy support.
func NewHTTPClient(baseURL, sessionToken, proxyURL string) *HTTPClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPClient{
		BaseURL:      baseURL,
		SessionToken: sessionToken,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (c *HTTPClient) Name() string { return "http" }

// wireItem and wireAuction are the JSON shapes of the marketplace API.
type wireItem struct {
	ID         int64  `json:"id"`
	AssetID    int64  `json:"assetId"`
	CommonName string `json:"c"`
	FirstName  string `json:"f"`
	LastName   string `json:"l"`
}

type wireAuction struct {
	TradeID     int64    `json:"tradeId"`
	BuyNowPrice int      `json:"buyNowPrice"`
	CurrentBid  int      `json:"currentBid"`
	StartingBid int      `json:"startingBid"`
	BidState    string   `json:"bidState"`
	TradeState  string   `json:"tradeState"`
	Expires     int      `json:"expires"`
	ItemData    wireItem `json:"itemData"`
}

type auctionList struct {
	AuctionInfo []wireAuction `json:"auctionInfo"`
}

func (w wireAuction) toModel() model.Auction {
	a := model.Auction{
		TradeID:     w.TradeID,
		ItemID:      w.ItemData.ID,
		AssetID:     w.ItemData.AssetID,
		Name:        model.ResolveName(w.ItemData.AssetID, w.ItemData.CommonName, w.ItemData.FirstName, w.ItemData.LastName),
		CurrentBid:  w.CurrentBid,
		StartingBid: w.StartingBid,
		BuyNowPrice: w.BuyNowPrice,
		BidState:    model.BidNone,
		TradeState:  model.TradeActive,
		ExpiresIn:   w.Expires,
	}
	switch w.BidState {
	case "highest":
		a.BidState = model.BidHighest
	case "outbid":
		a.BidState = model.BidOutbid
	}
	switch w.TradeState {
	case "closed", "expired":
		a.TradeState = model.TradeClosed
	}
	return a
}

func (c *HTTPClient) KeepAlive(ctx context.Context) (int, error) {
	var result struct {
		Credits int `json:"credits"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/credits", nil, &result); err != nil {
		return 0, fmt.Errorf("keep alive: %w", err)
	}
	return result.Credits, nil
}

func (c *HTTPClient) Search(ctx context.Context, q SearchQuery) ([]model.Auction, error) {
	params := url.Values{}
	params.Set("type", "player")
	params.Set("start", strconv.Itoa(q.Start))
	params.Set("num", strconv.Itoa(PageSize))
	params.Set("maskedDefId", strconv.FormatInt(q.AssetID, 10))
	if q.MaxPrice > 0 {
		params.Set("macr", strconv.Itoa(q.MaxPrice))
	}
	if q.MaxBuyNow > 0 {
		params.Set("maxb", strconv.Itoa(q.MaxBuyNow))
	}
	var result auctionList
	if err := c.do(ctx, http.MethodGet, "/transfermarket?"+params.Encode(), nil, &result); err != nil {
		return nil, fmt.Errorf("search asset %d: %w", q.AssetID, err)
	}
	return toAuctions(result.AuctionInfo), nil
}

func (c *HTTPClient) Bid(ctx context.Context, tradeID int64, price int) error {
	body := map[string]int{"bid": price}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/trade/%d/bid", tradeID), body, nil); err != nil {
		return fmt.Errorf("bid %d on trade %d: %w", price, tradeID, err)
	}
	return nil
}

func (c *HTTPClient) WatchList(ctx context.Context) ([]model.Auction, error) {
	var result auctionList
	if err := c.do(ctx, http.MethodGet, "/watchlist", nil, &result); err != nil {
		return nil, fmt.Errorf("fetch watch list: %w", err)
	}
	return toAuctions(result.AuctionInfo), nil
}

func (c *HTTPClient) WatchlistDelete(ctx context.Context, tradeID int64) error {
	if err := c.do(ctx, http.MethodDelete, "/watchlist?tradeId="+strconv.FormatInt(tradeID, 10), nil, nil); err != nil {
		return fmt.Errorf("delete trade %d from watch list: %w", tradeID, err)
	}
	return nil
}

func (c *HTTPClient) SendToTradepile(ctx context.Context, itemID int64) error {
	body := map[string]any{
		"itemData": []map[string]any{{"id": itemID, "pile": "trade"}},
	}
	if err := c.do(ctx, http.MethodPut, "/item", body, nil); err != nil {
		return fmt.Errorf("send item %d to trade pile: %w", itemID, err)
	}
	return nil
}

func (c *HTTPClient) Relist(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPut, "/auctionhouse/relist", nil, nil); err != nil {
		return fmt.Errorf("relist: %w", err)
	}
	return nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/auth", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// toAuctions converts wire auctions, ordered by ascending expiry.
func toAuctions(in []wireAuction) []model.Auction {
	out := make([]model.Auction, len(in))
	for i, w := range in {
		out[i] = w.toModel()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiresIn < out[j].ExpiresIn })
	return out
}

// do sends one request and maps the outcome onto the failure kinds.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.SessionToken != "" {
		req.Header.Set("X-UT-SID", c.SessionToken)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if kind := statusKind(resp.StatusCode); kind != nil {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d, body: %s", kind, resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}
	return nil
}

func statusKind(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrSession
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 400 && status < 500:
		return ErrRejectedBid
	default:
		return ErrNetwork
	}
}
