// Package slugify derives URL-safe identifiers from display names.
// Uniqueness is enforced by the unique index on the slug column.
package slugify

import "github.com/gosimple/slug"

func Make(name string) string {
	return slug.Make(name)
}
