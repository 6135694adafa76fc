// Package model defines the typed records the panel manages. JSON tags
// mirror the storefront's column names, several of which are Spanish and
// inconsistently cased; the tags are the wire contract, do not "fix" them.
package model

type MenuItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"Nombre"`
	Description string  `json:"Descripcion"`
	Type        int64   `json:"tipo"`
	Active      int64   `json:"Activo"`
	PriceEast   float64 `json:"PrecioOriente"`
	PriceMetro  float64 `json:"PrecioAreaMetrop"`
	PriceRest   float64 `json:"PrecioRestoPais"`
	Quantity    int64   `json:"Cantidad"`
	Image       string  `json:"imagen"`
}

func (m MenuItem) RecordID() int64 { return m.ID }
