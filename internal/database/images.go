package database

import "property-portal/internal/models"

// ReferencedImages collects every image filename currently referenced
// by a property or a review. Used by the orphan sweep to decide what
// on disk is safe to remove.
func (d *DB) ReferencedImages() (map[string]struct{}, error) {
	referenced := make(map[string]struct{})

	var properties []models.Property
	if err := d.db.Select("images").Find(&properties).Error; err != nil {
		return nil, err
	}
	for _, p := range properties {
		for _, img := range p.Images {
			referenced[img] = struct{}{}
		}
	}

	var photos []string
	if err := d.db.Model(&models.Review{}).
		Where("photo <> ''").
		Pluck("photo", &photos).Error; err != nil {
		return nil, err
	}
	for _, photo := range photos {
		referenced[photo] = struct{}{}
	}

	return referenced, nil
}
