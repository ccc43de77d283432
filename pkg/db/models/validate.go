package models

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of a model before it reaches the database.
// SQLite does not enforce varchar lengths, so max length is only guaranteed here.
func Validate(model any) error {
	return validate.Struct(model)
}

// All returns every model in dependency order. PostTag is left out because
// GORM migrates it as the join table of Post.Tags.
func All() []any {
	return []any{
		&Blog{},
		&BlogHeader{},
		&Tag{},
		&Post{},
		&Comment{},
	}
}
