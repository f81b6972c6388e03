package viewmodel

import (
	"strings"

	"github.com/shopspring/decimal"

	"product-catalog/internal/catalog"
)

// Stock thresholds for the out/low/in classification.
const (
	OutOfStockLevel = 0
	LowStockLevel   = 10
)

// StockStatus classifies a stock quantity for display.
type StockStatus string

const (
	StockOut StockStatus = "out"
	StockLow StockStatus = "low"
	StockIn  StockStatus = "in"
)

// Label is the display text for s.
func (s StockStatus) Label() string {
	switch s {
	case StockOut:
		return "Out of stock"
	case StockLow:
		return "Low stock"
	default:
		return "In stock"
	}
}

// StockStatusOf maps stock to out (0), low (1..10) or in (>10). Negative stock
// is shown as out.
func StockStatusOf(stock int) StockStatus {
	switch {
	case stock <= OutOfStockLevel:
		return StockOut
	case stock <= LowStockLevel:
		return StockLow
	default:
		return StockIn
	}
}

// Stats are the catalog-wide aggregates. They ignore search and category filters.
type Stats struct {
	Total      int
	TotalValue decimal.Decimal
	LowStock   int
	OutOfStock int
}

// ComputeStats aggregates over every product. Only stock of exactly zero counts
// as out of stock; negative stock is in neither count.
func ComputeStats(products []catalog.Product) Stats {
	s := Stats{Total: len(products), TotalValue: decimal.Zero}
	for _, p := range products {
		s.TotalValue = s.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		switch {
		case p.Stock == OutOfStockLevel:
			s.OutOfStock++
		case p.Stock > OutOfStockLevel && p.Stock <= LowStockLevel:
			s.LowStock++
		}
	}
	return s
}

// VisibleProducts keeps products whose name or description contains searchTerm
// (case-insensitive) and whose category equals filterCategory when one is set.
// Input order is preserved.
func VisibleProducts(products []catalog.Product, searchTerm, filterCategory string) []catalog.Product {
	term := strings.ToLower(searchTerm)
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		matchesSearch := strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term)
		matchesCategory := filterCategory == "" || p.Category == filterCategory
		if matchesSearch && matchesCategory {
			out = append(out, p)
		}
	}
	return out
}
