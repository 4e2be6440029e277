package clementine

import "embed"

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var MigrationsFS embed.FS

//go:embed prompts/*.txt
var PromptsFS embed.FS
