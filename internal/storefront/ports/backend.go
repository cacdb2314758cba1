package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/dunya/storefront/internal/storefront/domain"
)

// Backend exposes the shop HTTP API consumed by the client.
type Backend interface {
	// CreateOrder delivers an order. A duplicate already accepted by the
	// backend (HTTP 409) is reported as success.
	CreateOrder(ctx context.Context, order domain.OrderPayload) error
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
}

var (
	// ErrNotFound is returned when the requested product does not exist.
	ErrNotFound = errors.New("product not found")
)

// ServerError reports a 5xx response: the backend is reachable but unhealthy.
// Submissions hitting it are not queued; a cooldown window is recorded instead.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("backend server error: HTTP %d", e.StatusCode)
}

// RejectedError reports a permanent rejection (4xx other than 409). Message
// carries the backend's validation detail when the response body provided one.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("order rejected: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("order rejected: HTTP %d", e.StatusCode)
}
