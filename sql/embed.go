// Package migrations embute os scripts goose do esquema PostgreSQL.
package migrations

import "embed"

// FS contém os arquivos *.sql deste diretório.
//
//go:embed *.sql
var FS embed.FS
