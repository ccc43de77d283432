package models

import (
	"time"

	"gorm.io/gorm"
)

// Blog owns an optional header and any number of posts
type Blog struct {
	ID        uint      `gorm:"primaryKey"                  json:"id"         yaml:"id"`
	Name      string    `gorm:"type:varchar(100);not null"  json:"name"       yaml:"name"       validate:"required,max=100"`
	CreatedAt time.Time `gorm:"not null"                    json:"created_at" yaml:"created_at"`

	// Relationships
	Header *BlogHeader `gorm:"foreignKey:BlogID;constraint:OnDelete:SET NULL" json:"header,omitempty" yaml:"header,omitempty" validate:"-"`
	Posts  []Post      `gorm:"foreignKey:BlogID;constraint:OnDelete:SET NULL" json:"posts"            yaml:"posts"            validate:"-"`
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	return Validate(b)
}
