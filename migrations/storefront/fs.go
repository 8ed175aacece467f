// Package storefront embeds the goose migrations of the storefront schema.
package storefront

import "embed"

//go:embed *.sql
var FS embed.FS
