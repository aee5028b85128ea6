package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a numeric column value. It keeps the scale it was read with, so a
// stored 59.90 is written back as "59.90".
type Price struct {
	decimal.Decimal
}

// ParsePrice parses a numeric literal as returned by the store.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, err
	}
	return Price{Decimal: d}, nil
}

// String formats the price with its original number of decimal places.
func (p Price) String() string {
	if exp := p.Exponent(); exp < 0 {
		return p.StringFixed(-exp)
	}
	return p.Decimal.String()
}

// MarshalJSON encodes the price as a quoted numeric literal.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Product is a row of the products table.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CategoryID  int64   `json:"categoryid"`
	Brand       string  `json:"brand"`
	Price       Price   `json:"price"`
	ImgName     *string `json:"img_name"`
	ImgSrc      *string `json:"img_src"`
}

// ProductDetail is a product joined with its category name.
type ProductDetail struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	CategoryID   int64  `json:"categoryid"`
	CategoryName string `json:"categoryname"`
	Brand        string `json:"brand"`
	Price        Price  `json:"price"`
}

// NewProduct is what gets inserted on create. Price stays the caller's
// literal and is converted by the store.
type NewProduct struct {
	Name        string
	Description string
	CategoryID  int64
	Brand       string
	Price       string
	ImgName     *string
	ImgSrc      *string
}

// SearchFilter selects products by brand and/or name. A nil field is not
// filtered on; a set field is already a LIKE pattern.
type SearchFilter struct {
	Brand   *string
	Keyword *string
}

// IsEmpty reports whether the filter would match nothing useful. Searches
// with an empty filter return no rows without touching the store.
func (f SearchFilter) IsEmpty() bool {
	return f.Brand == nil && f.Keyword == nil
}

// NewSearchFilter builds a filter from raw search terms. An empty term is
// absent; any other term has its first "%20" decoded to a space and is
// wrapped as a substring pattern.
func NewSearchFilter(brand, keyword string) SearchFilter {
	var f SearchFilter
	if brand != "" {
		p := likePattern(brand)
		f.Brand = &p
	}
	if keyword != "" {
		p := likePattern(keyword)
		f.Keyword = &p
	}
	return f
}

func likePattern(term string) string {
	return "%" + strings.Replace(term, "%20", " ", 1) + "%"
}
