package database

import (
	"gorm.io/gorm"

	"property-portal/internal/models"
)

// ListReviews returns the reviews of one property, newest first.
func (d *DB) ListReviews(propertyID string) ([]models.Review, error) {
	var reviews []models.Review
	err := d.db.Where("property = ?", propertyID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

// GetReview retrieves a single review by id.
func (d *DB) GetReview(id string) (*models.Review, error) {
	var review models.Review
	err := d.db.Where("id = ?", id).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// PropertyExists reports whether a property id names a stored record.
func (d *DB) PropertyExists(id string) (bool, error) {
	var count int64
	err := d.db.Model(&models.Property{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CreateReview persists a standalone review and refreshes the owning
// property's rating.
func (d *DB) CreateReview(r *models.Review) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r).Error; err != nil {
			return err
		}
		return recalcRating(tx, r.PropertyID)
	})
}

// DeleteReview removes a review and refreshes the owning property's
// rating. The deleted document is returned so the caller can remove
// its photo from disk.
func (d *DB) DeleteReview(id string) (*models.Review, error) {
	review, err := d.GetReview(id)
	if err != nil {
		return nil, err
	}

	err = d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(review).Error; err != nil {
			return err
		}
		return recalcRating(tx, review.PropertyID)
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}
