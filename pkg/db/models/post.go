package models

import (
	"time"

	"gorm.io/gorm"
)

// Post optionally belongs to a blog, carries comments and is linked to tags through PostTag
type Post struct {
	ID        uint      `gorm:"primaryKey"                 json:"id"         yaml:"id"`
	Title     string    `gorm:"type:varchar(100);not null" json:"title"      yaml:"title"      validate:"required,max=100"`
	Content   string    `gorm:"type:text;not null"         json:"content"    yaml:"content"    validate:"required"`
	CreatedAt time.Time `gorm:"not null"                   json:"created_at" yaml:"created_at"`
	BlogID    *uint     `gorm:"index"                      json:"blog_id"    yaml:"blog_id"`

	// Relationships
	Blog     *Blog     `gorm:"foreignKey:BlogID"                              json:"blog,omitempty" yaml:"blog,omitempty" validate:"-"`
	Tags     []Tag     `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" json:"tags"           yaml:"tags"           validate:"-"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"  json:"comments"       yaml:"comments"       validate:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	return Validate(p)
}
