package model

import "time"

// User is an identity-provider account. The password never leaves the
// identity package; only the bcrypt hash is stored.
type User struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"uniqueIndex;not null;size:320"`
	DisplayName  string    `gorm:"size:200"`
	AvatarURL    string    `gorm:"size:500"`
	PasswordHash string    `gorm:"not null;size:100"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// StoreEntry is one persisted-store document: a JSON value filed under an
// owner-scoped key. Writes fully replace the prior value.
type StoreEntry struct {
	OwnerID   string    `gorm:"primaryKey;size:36"`
	Key       string    `gorm:"primaryKey;size:120"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
