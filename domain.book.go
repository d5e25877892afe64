package main

import (
	"github.com/shopspring/decimal"
)

// Book represents a catalog entry as owned by the upstream bookstore API.
// Records are read-only snapshots on this side: they are replaced wholesale
// on the next catalog load and never mutated locally.
type Book struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	Language    string          `json:"language,omitempty"`
	Available   bool            `json:"isAvailable"`
}

// BookPage is the shape returned by the upstream paginated books endpoint.
type BookPage struct {
	Items         []Book `json:"items"`
	TotalPages    int    `json:"totalPages"`
	TotalElements int    `json:"totalElements"`
}

// Pack is a curated bundle of books sold at a single price.
type Pack struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice,omitempty"`
	Active        bool            `json:"active"`
	Highlight     bool            `json:"isHighlight"`
	Badge         string          `json:"badge,omitempty"`
	Books         []Book          `json:"books"`
}

// Offer is a time-bound discount proposed by the upstream store.
type Offer struct {
	ID            int             `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice,omitempty"`
	Discount      int             `json:"discount"`
	ValidUntil    string          `json:"validUntil,omitempty"`
	Active        bool            `json:"active"`
	Books         []Book          `json:"books"`
}
