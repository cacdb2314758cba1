package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dunya/storefront/internal/storefront/domain"
	"github.com/dunya/storefront/internal/storefront/ports"
)

// Client talks to the shop backend over its REST contract.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient constructs a Client for the given API base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Backend wire format: key names are fixed by the order serializer.
type wireCustomer struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	Comment          string `json:"comment"`
	TelegramUsername string `json:"telegram_username"`
}

type wireItem struct {
	ProductSlug  string `json:"productSlug"`
	Qty          int    `json:"qty"`
	SelectedSize int    `json:"selectedSize"`
}

type wireMeta struct {
	Locale string `json:"locale"`
	Theme  string `json:"theme"`
}

type wireOrder struct {
	Customer wireCustomer `json:"customer"`
	Items    []wireItem   `json:"items"`
	Meta     wireMeta     `json:"meta"`
}

func toWire(order domain.OrderPayload) wireOrder {
	items := make([]wireItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = wireItem{
			ProductSlug:  item.ProductSlug,
			Qty:          item.Qty,
			SelectedSize: item.Size,
		}
	}

	locale := order.Meta.Locale
	if locale == "" {
		locale = domain.DefaultLocale
	}
	theme := order.Meta.Theme
	if theme == "" {
		theme = domain.DefaultTheme
	}

	return wireOrder{
		Customer: wireCustomer{
			Name:             order.CustomerName,
			Phone:            order.Phone,
			Address:          order.Address,
			Comment:          order.Comment,
			TelegramUsername: order.TelegramUsername,
		},
		Items: items,
		Meta:  wireMeta{Locale: locale, Theme: theme},
	}
}

// CreateOrder posts an order to the backend. A transport failure comes back
// as a plain wrapped error; reachable-but-failing responses map to the typed
// classification errors in ports. HTTP 409 means the same order was already
// accepted and is treated as success.
func (c *Client) CreateOrder(ctx context.Context, order domain.OrderPayload) error {
	body, err := json.Marshal(toWire(order))
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post order: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		c.logger.DebugContext(ctx, "order already accepted by backend")
		return nil
	case resp.StatusCode >= 500:
		return &ports.ServerError{StatusCode: resp.StatusCode}
	default:
		return &ports.RejectedError{
			StatusCode: resp.StatusCode,
			Message:    rejectionMessage(resp.Body),
		}
	}
}

// rejectionMessage extracts the backend's validation detail from an error
// body: the items field is preferred, then detail; a string value is used
// verbatim, anything else is re-encoded as JSON.
func rejectionMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}

	for _, key := range []string{"items", "detail"} {
		value, ok := fields[key]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(value, &text); err == nil {
			return text
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, value); err == nil {
			return compact.String()
		}
		return string(value)
	}
	return ""
}

// ListProducts fetches the full product listing. The no-store header asks
// intermediaries for a fresh copy; staleness is handled by the local cache.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products/", nil)
	if err != nil {
		return nil, fmt.Errorf("build products request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("get products: HTTP %d", resp.StatusCode)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// GetProduct fetches a single product by slug.
func (c *Client) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products/"+slug+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("build product request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", slug, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var product domain.Product
		if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", slug, err)
		}
		return &product, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("get product %s: %w", slug, ports.ErrNotFound)
	default:
		return nil, fmt.Errorf("get product %s: HTTP %d", slug, resp.StatusCode)
	}
}
