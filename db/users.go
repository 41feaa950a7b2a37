package db

import (
	"errors"

	"nyx/relay-api/model"

	"gorm.io/gorm"
)

var ErrDuplicateUsername = errors.New("username is already taken")

// CreateUser inserts a new user row. The unique index on username makes the
// check-and-insert a single atomic unit, so concurrent signups with the same
// name resolve to exactly one row and ErrDuplicateUsername for the rest.
func CreateUser(d *gorm.DB, u *model.User) error {
	err := d.Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUsername
	}

	return err
}

func UserByUsername(d *gorm.DB, username string) (*model.User, error) {
	var u model.User

	err := d.Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func UserByID(d *gorm.DB, id string) (*model.User, error) {
	var u model.User

	err := d.Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, err
	}

	return &u, nil
}
