package models

import "gorm.io/gorm"

type Tag struct {
	ID   uint   `gorm:"primaryKey"                 json:"id"   yaml:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name" yaml:"name" validate:"required,max=100"`

	// Relationships
	Posts []Post `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" json:"-" yaml:"-" validate:"-"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	return Validate(t)
}
