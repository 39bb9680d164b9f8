package dto

import "time"

// SiteResponse salida de una sede.
type SiteResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SiteListResponse lista paginada de sedes.
type SiteListResponse struct {
	Items []SiteResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
