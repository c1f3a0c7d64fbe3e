// Package migrations embeds the goose SQL migrations so the server binary and
// the integration test helper apply the same schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
