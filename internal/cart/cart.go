package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dunya/storefront/internal/storefront/domain"
	"github.com/dunya/storefront/internal/storefront/ports"
)

const cartKey = "cart_v1"

// Item is one cart line. Lines are keyed by (product slug, size); adding the
// same pair again bumps the quantity.
type Item struct {
	ProductSlug string `json:"product_slug"`
	Title       string `json:"title"`
	ImageURL    string `json:"image_url,omitempty"`
	PriceUZS    int64  `json:"price_uzs"`
	Size        int    `json:"size"`
	Qty         int    `json:"qty"`
}

// Manager persists the shopping cart in the device state store so it
// survives restarts alongside the order queue.
type Manager struct {
	store ports.StateStore
}

// NewManager constructs a Manager over the given store.
func NewManager(store ports.StateStore) *Manager {
	return &Manager{store: store}
}

// Items returns the cart contents. A corrupt persisted cart reads as empty.
func (m *Manager) Items(ctx context.Context) []Item {
	raw, err := m.store.Get(ctx, cartKey)
	if err != nil || len(raw) == 0 {
		return nil
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// Add puts one unit of the product in the given size into the cart, merging
// with an existing line for the same product and size.
func (m *Manager) Add(ctx context.Context, product domain.Product, size int) error {
	items := m.Items(ctx)

	for i, item := range items {
		if item.ProductSlug == product.Slug && item.Size == size {
			items[i].Qty++
			return m.save(ctx, items)
		}
	}

	var imageURL string
	if len(product.ImageURLs) > 0 {
		imageURL = product.ImageURLs[0]
	}

	items = append(items, Item{
		ProductSlug: product.Slug,
		Title:       product.Title,
		ImageURL:    imageURL,
		PriceUZS:    product.PriceUZS,
		Size:        size,
		Qty:         1,
	})
	return m.save(ctx, items)
}

// UpdateQty sets the quantity for a line; zero or negative removes it.
func (m *Manager) UpdateQty(ctx context.Context, productSlug string, size, qty int) error {
	if qty <= 0 {
		return m.Remove(ctx, productSlug, size)
	}

	items := m.Items(ctx)
	for i, item := range items {
		if item.ProductSlug == productSlug && item.Size == size {
			items[i].Qty = qty
			return m.save(ctx, items)
		}
	}
	return nil
}

// Remove deletes the line for (productSlug, size), if present.
func (m *Manager) Remove(ctx context.Context, productSlug string, size int) error {
	items := m.Items(ctx)
	remaining := items[:0]
	for _, item := range items {
		if item.ProductSlug != productSlug || item.Size != size {
			remaining = append(remaining, item)
		}
	}
	if len(remaining) == len(items) {
		return nil
	}
	return m.save(ctx, remaining)
}

// Clear empties the cart.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Remove(ctx, cartKey); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Total returns the cart total in UZS.
func (m *Manager) Total(ctx context.Context) int64 {
	var total int64
	for _, item := range m.Items(ctx) {
		total += item.PriceUZS * int64(item.Qty)
	}
	return total
}

// OrderItems converts the cart into order line items for submission.
func (m *Manager) OrderItems(ctx context.Context) []domain.OrderItem {
	items := m.Items(ctx)
	lines := make([]domain.OrderItem, len(items))
	for i, item := range items {
		lines[i] = domain.OrderItem{
			ProductSlug: item.ProductSlug,
			Size:        item.Size,
			Qty:         item.Qty,
		}
	}
	return lines
}

func (m *Manager) save(ctx context.Context, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := m.store.Set(ctx, cartKey, raw); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
