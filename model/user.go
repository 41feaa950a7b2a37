// Package model defines database models
package model

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	CreatedAt    int64  `gorm:"not null" json:"-"`

	// Files delivered *to* this user. The sender keeps no relation to
	// a record once it lands in the recipient's mailbox
	Files []File `gorm:"foreignKey:OwnerID" json:"-"`
}
