package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

type PostKind string

const (
	PostKindDoom PostKind = "doom"
	PostKindLife PostKind = "life"
)

type Post struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"uid"`
	Kind      PostKind        `json:"kind"`
	Body      string          `json:"body"`
	Tags      []string        `json:"tags,omitempty"`
	Cost      decimal.Decimal `json:"cost"`
	CreatedAt time.Time       `json:"created_at"`
}
