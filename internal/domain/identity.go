package domain

import "time"

// Identity Model
type Identity struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                                           // Primary key
	Name         string    `gorm:"size:191;not null" json:"name"`                                  // Display name
	Email        string    `gorm:"size:191;not null;uniqueIndex:uniq_identity_email" json:"email"` // Unique, lower-cased email
	PasswordHash string    `gorm:"size:255;not null" json:"-"`                                     // bcrypt hash
	Role         Role      `gorm:"type:tinyint unsigned;not null;index" json:"role"`               // Role classifier
	Status       Status    `gorm:"type:tinyint unsigned;not null;default:1" json:"status"`         // Active or suspended
	CreatedAt    time.Time `json:"created_at"`                                                     // Creation time
	UpdatedAt    time.Time `json:"updated_at"`                                                     // Last update time
}
