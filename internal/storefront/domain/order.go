package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultLocale = "ru"
	DefaultTheme  = "light"
)

// OrderItem is a single order line referencing a product by slug.
type OrderItem struct {
	ProductSlug string `json:"product_slug"`
	Size        int    `json:"size"`
	Qty         int    `json:"qty"`
}

// OrderMeta carries client presentation context attached to an order.
type OrderMeta struct {
	Locale string `json:"locale,omitempty"`
	Theme  string `json:"theme,omitempty"`
}

// OrderPayload is a customer order. It is immutable once constructed; a
// resubmission after a failed delivery reuses the same payload.
type OrderPayload struct {
	CustomerName     string      `json:"customer_name"`
	Phone            string      `json:"phone"`
	Address          string      `json:"address"`
	Comment          string      `json:"comment,omitempty"`
	TelegramUsername string      `json:"telegram_username,omitempty"`
	Items            []OrderItem `json:"items"`
	Meta             OrderMeta   `json:"meta,omitempty"`
}

// Validate ensures the payload adheres to the backend's order constraints.
func (o OrderPayload) Validate() error {
	if strings.TrimSpace(o.CustomerName) == "" {
		return errors.New("customer_name is required")
	}
	if strings.TrimSpace(o.Phone) == "" {
		return errors.New("phone is required")
	}
	if strings.TrimSpace(o.Address) == "" {
		return errors.New("address is required")
	}
	if len(o.Items) == 0 {
		return errors.New("items must not be empty")
	}
	for i, item := range o.Items {
		if strings.TrimSpace(item.ProductSlug) == "" {
			return fmt.Errorf("items[%d]: product_slug is required", i)
		}
		if item.Qty < 1 {
			return fmt.Errorf("items[%d]: qty must be at least 1", i)
		}
		if item.Size < 1 {
			return fmt.Errorf("items[%d]: size must be at least 1", i)
		}
	}
	return nil
}

// QueuedOrder is an order buffered locally after a failed delivery attempt.
// It persists across restarts until a flush delivers it or the backend
// rejects it permanently.
type QueuedOrder struct {
	ID         string       `json:"id"`
	Order      OrderPayload `json:"order"`
	EnqueuedAt time.Time    `json:"enqueued_at"`
}
