package model

import "time"

// SaleItem is one storefront order line. The panel only ever reads these.
type SaleItem struct {
	MenuID       int64     `json:"menu_id"`
	NameSnapshot string    `json:"nombre_snapshot"`
	Qty          int64     `json:"qty"`
	LineTotal    float64   `json:"line_total"`
	CreatedAt    time.Time `json:"created_at"`
	StoreID      int64     `json:"pv_id"`
}

type Shift struct {
	ID              int64      `json:"id"`
	StoreID         int64      `json:"store_id"`
	OpenedBy        string     `json:"opened_by"`
	OpenedAt        time.Time  `json:"opened_at"`
	ClosedAt        *time.Time `json:"closed_at"`
	Notes           string     `json:"notes"`
	AdminName       string     `json:"admin_name"`
	SedeName        string     `json:"sede_name"`
	ExpiresAt       *time.Time `json:"expires_at"`
	WarningSentAt   *time.Time `json:"warning_sent_at"`
	ExtendedMinutes int64      `json:"extended_minutes"`
}
