package db

import (
	"nyx/relay-api/model"

	"gorm.io/gorm"
)

// AppendFile adds a delivered file record to the recipient's mailbox.
// Each call is a single insert, so concurrent deliveries to the same
// recipient never corrupt the mailbox, only race for position.
func AppendFile(d *gorm.DB, f *model.File) error {
	return d.Create(f).Error
}

// FilesByOwner returns a recipient's mailbox in delivery order. The result
// is an empty slice, not nil, when the mailbox is empty.
func FilesByOwner(d *gorm.DB, ownerID string) ([]model.File, error) {
	files := []model.File{}

	err := d.
		Where("owner_id = ?", ownerID).
		Order("id asc").
		Find(&files).
		Error
	if err != nil {
		return nil, err
	}

	return files, nil
}

// FileByKey looks up a stored file by its storage key. When ownerID is not
// empty the lookup is restricted to that recipient's mailbox, so a foreign
// key behaves exactly like a missing one.
func FileByKey(d *gorm.DB, key, ownerID string) (*model.File, error) {
	var f model.File

	q := d.Where("storage_key = ?", key)
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}

	err := q.First(&f).Error
	if err != nil {
		return nil, err
	}

	return &f, nil
}
