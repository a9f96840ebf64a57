package database

import (
	"gorm.io/gorm"

	"property-portal/internal/models"
	"property-portal/internal/query"
)

// ListProperties returns the properties matching a parsed listing
// filter, unordered unless the filter carries a sort.
func (d *DB) ListProperties(f query.Filter) ([]models.Property, error) {
	var properties []models.Property
	err := f.Apply(d.db.Model(&models.Property{})).Find(&properties).Error
	return properties, err
}

// GetAllProperties retrieves every property, newest first.
func (d *DB) GetAllProperties() ([]models.Property, error) {
	var properties []models.Property
	err := d.db.Order("created_at DESC").Find(&properties).Error
	return properties, err
}

// GetProperty retrieves a property with its reviews populated.
// Returns gorm.ErrRecordNotFound when the id is unknown.
func (d *DB) GetProperty(id string) (*models.Property, error) {
	var property models.Property
	err := d.db.Preload("Reviews").Where("id = ?", id).First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// ReviewMutation groups the per-review instructions carried by a
// property update request.
type ReviewMutation struct {
	DeleteIDs []string
	Updates   []models.Review
	Creates   []models.Review
}

// CreatePropertyWithReviews persists a new property and its embedded
// reviews in one transaction, then refreshes the aggregate rating.
func (d *DB) CreatePropertyWithReviews(p *models.Property, reviews []models.Review) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		for i := range reviews {
			reviews[i].PropertyID = p.ID
			if err := tx.Create(&reviews[i]).Error; err != nil {
				return err
			}
		}
		return recalcRating(tx, p.ID)
	})
}

// SavePropertyWithReviews writes an updated property document and
// applies its review mutation in one transaction. Returns the reviews
// that were updated or created, in request order.
func (d *DB) SavePropertyWithReviews(p *models.Property, m ReviewMutation) ([]models.Review, error) {
	var touched []models.Review

	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(p).Error; err != nil {
			return err
		}

		for _, id := range m.DeleteIDs {
			if err := tx.Where("id = ? AND property = ?", id, p.ID).Delete(&models.Review{}).Error; err != nil {
				return err
			}
		}

		for _, r := range m.Updates {
			var existing models.Review
			if err := tx.Where("id = ?", r.ID).First(&existing).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					continue
				}
				return err
			}
			existing.User = r.User
			existing.Photo = r.Photo
			existing.Review = r.Review
			existing.Rating = r.Rating
			existing.Date = r.Date
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			touched = append(touched, existing)
		}

		for i := range m.Creates {
			m.Creates[i].PropertyID = p.ID
			if err := tx.Create(&m.Creates[i]).Error; err != nil {
				return err
			}
			touched = append(touched, m.Creates[i])
		}

		return recalcRating(tx, p.ID)
	})
	if err != nil {
		return nil, err
	}
	return touched, nil
}

// UpdatePropertyImages replaces a property's image set wholesale.
func (d *DB) UpdatePropertyImages(id string, images []string) (*models.Property, error) {
	property, err := d.GetProperty(id)
	if err != nil {
		return nil, err
	}
	property.Images = images
	if err := d.db.Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

// DeletePropertyCascade removes a property and all of its reviews in
// one transaction. The deleted documents are returned so the caller
// can clean their image files off disk afterwards.
func (d *DB) DeletePropertyCascade(id string) (*models.Property, []models.Review, error) {
	var property models.Property
	if err := d.db.Where("id = ?", id).First(&property).Error; err != nil {
		return nil, nil, err
	}

	var reviews []models.Review
	if err := d.db.Where("property = ?", id).Find(&reviews).Error; err != nil {
		return nil, nil, err
	}

	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&property).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &property, reviews, nil
}

// recalcRating refreshes a property's aggregate from its reviews.
func recalcRating(tx *gorm.DB, propertyID string) error {
	var agg struct {
		Average float64
		Count   int
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("property = ?", propertyID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Property{}).
		Where("id = ?", propertyID).
		Updates(map[string]interface{}{
			"rating_average": agg.Average,
			"rating_count":   agg.Count,
		}).Error
}
