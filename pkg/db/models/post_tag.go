package models

import (
	"time"

	"gorm.io/gorm"
)

// PostTag is the explicit join entity between Post and Tag. It is registered with
// SetupJoinTable so the association keeps its own created_at column.
type PostTag struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"    yaml:"post_id"    validate:"required"`
	TagID     uint      `gorm:"primaryKey;autoIncrement:false" json:"tag_id"     yaml:"tag_id"     validate:"required"`
	CreatedAt time.Time `gorm:"not null"                       json:"created_at" yaml:"created_at"`
}

func (pt *PostTag) BeforeCreate(tx *gorm.DB) error {
	if pt.CreatedAt.IsZero() {
		pt.CreatedAt = tx.NowFunc()
	}
	return Validate(pt)
}

// SetupJoinTables registers PostTag as the join model of both sides of the
// many-to-many relationship. It must run before migrating or querying.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Post{}, "Tags", &PostTag{}); err != nil {
		return err
	}
	return db.SetupJoinTable(&Tag{}, "Posts", &PostTag{})
}
