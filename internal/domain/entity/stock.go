package entity

import "time"

// Stock representa el stock actual de un producto en una sede (contador cacheado del kardex).
type Stock struct {
	ProductID string
	SiteID    string
	Quantity  int64
	UpdatedAt time.Time
}
