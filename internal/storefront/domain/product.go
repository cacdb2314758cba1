package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Product is a catalog entry. The slug is the stable lookup key shared by the
// backend and the local cache.
type Product struct {
	ID          int64        `json:"id"`
	Slug        string       `json:"slug"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	PriceUZS    int64        `json:"price_uzs"`
	Currency    string       `json:"currency,omitempty"`
	ImageURLs   []string     `json:"image_urls"`
	Category    string       `json:"category,omitempty"`
	Sizes       []SizeOption `json:"sizes,omitempty"`
	// Older backend revisions list sizes under available_sizes.
	AvailableSizes []SizeOption `json:"available_sizes,omitempty"`
	InStock        bool         `json:"in_stock,omitempty"`
	IsNew          bool         `json:"is_new,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// SizeValues returns the normalized ring sizes offered for the product,
// preferring available_sizes over sizes when both are present.
func (p Product) SizeValues() []int {
	options := p.AvailableSizes
	if len(options) == 0 {
		options = p.Sizes
	}

	values := make([]int, len(options))
	for i, option := range options {
		values[i] = option.Value()
	}
	return values
}

// SizeOption is a single offered size. The backend serializes sizes either as
// a bare number or as an object carrying a "size" field; both forms normalize
// to the bare integer submitted with an order.
type SizeOption struct {
	size int
}

// NewSizeOption wraps a bare size value.
func NewSizeOption(size int) SizeOption {
	return SizeOption{size: size}
}

// Value returns the bare size value.
func (s SizeOption) Value() int {
	return s.size
}

func (s *SizeOption) UnmarshalJSON(data []byte) error {
	var bare float64
	if err := json.Unmarshal(data, &bare); err == nil {
		s.size = int(bare)
		return nil
	}

	var wrapped struct {
		Size *float64 `json:"size"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return fmt.Errorf("size option: %w", err)
	}
	if wrapped.Size == nil {
		return fmt.Errorf("size option: object without size field")
	}

	s.size = int(*wrapped.Size)
	return nil
}

func (s SizeOption) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.size)
}
