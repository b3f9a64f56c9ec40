package goosehelper

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// MigrateUp применяет миграции из директории migrationsDir.
// Решение о завершении процесса при ошибке остаётся за вызывающим.
func MigrateUp(db *sql.DB, migrationsDir string) error {
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("ошибка применения миграций из %s: %w", migrationsDir, err)
	}
	return nil
}
