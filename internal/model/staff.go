package model

// KitchenUser is a kitchen-staff account tied to exactly one store
// neighborhood. The password hash never leaves the repository layer.
type KitchenUser struct {
	ID            int64  `json:"id"`
	Administrator string `json:"administrador"`
	Email         string `json:"correo"`
	Store         string `json:"PuntoVenta"`

	PasswordHash string `json:"-"`
}

func (u KitchenUser) RecordID() int64 { return u.ID }
