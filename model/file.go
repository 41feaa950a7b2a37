package model

// File is one delivered item in a recipient's mailbox. Rows are append-only:
// delivery order equals the autoincrement order of ID.
type File struct {
	ID uint `gorm:"primaryKey;autoIncrement;index" json:"id"`

	// Recipient that owns this record
	OwnerID string `gorm:"index;not null" json:"-"`
	// Kept for diagnostics only, never exposed to the recipient
	SenderID string `json:"-"`

	// Since we want to allow different recipients to receive files with the
	// same name the bytes are stored under a random key instead of the name
	StorageKey string `gorm:"uniqueIndex;not null" json:"key"`

	// Original file name after sanitization
	Name string `gorm:"not null" json:"name"`

	Size int64 `json:"size"`
	// Unix timestamp of delivery
	CreatedAt int64 `gorm:"not null" json:"created_at"`
}
