package models

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultIcon is used when a feature or amenity arrives without one.
const DefaultIcon = "FaPlus"

type Property struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"_id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Address     string `gorm:"type:text" json:"address"`
	Description string `gorm:"type:text" json:"description"`

	// Stored image filenames, never raw upload data
	Images datatypes.JSONSlice[string] `json:"images"`

	Details Details `gorm:"embedded" json:"details"`

	Features  datatypes.JSONSlice[Feature] `json:"features"`
	Amenities datatypes.JSONSlice[Amenity] `json:"amenities"`

	Rating Rating `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`

	Reviews []Review `gorm:"foreignKey:PropertyID;references:ID" json:"reviews,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_properties_created_at,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// Details holds the structural numbers a listing is filtered on.
type Details struct {
	Bedrooms  int `gorm:"type:int;index" json:"bedrooms"`
	Beds      int `gorm:"type:int;index" json:"beds"`
	Bathrooms int `gorm:"type:int;index" json:"bathrooms"`
	MaxGuests int `gorm:"type:int;index;column:max_guests" json:"maxGuests"`
}

// Feature is a structured highlight of a property.
type Feature struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Amenity is a structured facility tag of a property.
type Amenity struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Rating is the aggregate over a property's reviews.
type Rating struct {
	Average float64 `gorm:"default:0" json:"average"`
	Count   int     `gorm:"type:int;default:0" json:"count"`
}

func (Property) TableName() string {
	return "properties"
}
