package domain

import "time"

// InventoryRecord is the stock position of a single product.
type InventoryRecord struct {
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName,omitempty"`
	SKU         string    `json:"sku"`
	InStock     int       `json:"inStock"`
	Reserved    int       `json:"reserved"`
	LowStockAt  int       `json:"lowStockAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Available is the stock that can still be sold.
func (r *InventoryRecord) Available() int {
	return r.InStock - r.Reserved
}

// LowStock reports whether the record is at or below its low-stock threshold.
func (r *InventoryRecord) LowStock() bool {
	return r.Available() <= r.LowStockAt
}

// StockAdjustment changes a product's stock level by a signed delta.
type StockAdjustment struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason,omitempty"`
}
