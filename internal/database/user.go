package database

import "property-portal/internal/models"

// CreateUser persists a new account. The unique index on email makes
// duplicates surface as a database error.
func (d *DB) CreateUser(u *models.User) error {
	return d.db.Create(u).Error
}

// GetUserByEmail retrieves a user including the password hash, which
// is otherwise never serialized.
func (d *DB) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := d.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by id.
func (d *DB) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := d.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
