package models

import "gorm.io/gorm"

// BlogHeader holds the foreign key of the one-to-one relationship with Blog
type BlogHeader struct {
	ID     uint   `gorm:"primaryKey"      json:"id"      yaml:"id"`
	Title  string `gorm:"type:text;not null" json:"title"   yaml:"title"   validate:"required"`
	BlogID *uint  `gorm:"uniqueIndex"     json:"blog_id" yaml:"blog_id"`
}

func (h *BlogHeader) BeforeCreate(tx *gorm.DB) error {
	return Validate(h)
}
