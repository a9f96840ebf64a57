package models

import "time"

type Review struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"_id"`
	User   string `gorm:"type:varchar(255);not null" json:"user"`
	Photo  string `gorm:"type:varchar(255)" json:"photo,omitempty"`
	Review string `gorm:"type:text;not null" json:"review"`
	Rating int    `gorm:"type:int;not null" json:"rating"`
	Date   string `gorm:"type:varchar(64)" json:"date"`

	// Owning property
	PropertyID string `gorm:"type:varchar(36);not null;index;column:property" json:"property"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (Review) TableName() string {
	return "reviews"
}
