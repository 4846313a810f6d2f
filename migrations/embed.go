// migrations содержит SQL-миграции схемы auth-сервиса в формате goose.
package migrations

import "embed"

// FS — встроенные файлы миграций.
//
//go:embed *.sql
var FS embed.FS
