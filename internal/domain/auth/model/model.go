package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is a closed capability set. There is no hierarchy: editor does not
// imply viewer, each protected operation requires exactly one role.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
)

type User struct {
	ID           uuid.UUID
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Roles        []Role `gorm:"serializer:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	UserID       uuid.UUID
	RefreshJTI   string
}
