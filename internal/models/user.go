package models

import (
	"gorm.io/gorm"
)

// User is a Discord identity picked up at login. Events reference users as
// creator and approving moderator.
type User struct {
	gorm.Model
	DiscordID string `gorm:"uniqueIndex"`
	Username  string
	Email     string
	Avatar    string
}
