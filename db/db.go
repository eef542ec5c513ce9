package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

// SeedFiles holds the CSV import templates served to operators.
//
//go:embed seed/*.csv
var SeedFiles embed.FS
