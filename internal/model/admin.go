package model

import "time"

type AdminID int64

type Admin struct {
	ID       AdminID `json:"id"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	IsActive bool    `json:"-"`

	PasswordHash string `json:"-"`
}

type Session struct {
	Token     string
	AdminID   AdminID
	ExpiresAt time.Time
}
