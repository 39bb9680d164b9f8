package entity

import "time"

// Site representa una sede (sucursal) que mantiene su propio stock.
type Site struct {
	ID        string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
