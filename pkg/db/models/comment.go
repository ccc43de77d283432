package models

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey"                 json:"id"         yaml:"id"`
	Content   string    `gorm:"type:varchar(100);not null" json:"content"    yaml:"content"    validate:"required,max=100"`
	CreatedAt time.Time `gorm:"not null"                   json:"created_at" yaml:"created_at"`
	PostID    *uint     `gorm:"index"                      json:"post_id"    yaml:"post_id"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	return Validate(c)
}
