// Package botlist embeds assets shared by the binaries of the listing service.
package botlist

import "embed"

// Migrations holds the goose SQL migrations applied by the migrate command.
//
//go:embed migrations/*.sql
var Migrations embed.FS
