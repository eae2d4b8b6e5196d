package models

import (
	"time"

	"gorm.io/gorm"
)

// Reviewer roles
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
)

// User is a dashboard reviewer account.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Role         string `gorm:"default:'analyst'"`
	Status       string `gorm:"default:'active'"`
	LastLoginAt  time.Time
	LastLoginIP  string
	TokenVersion int `gorm:"default:1"`
}
