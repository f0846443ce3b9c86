// cmd/migrate/main.go
package main

import (
	"database/sql"
	"flag"
	"os"
	"path/filepath"

	"bayup-finance/internal/config"
	"bayup-finance/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Init(cfg.LogLevel)

	wd, err := os.Getwd()
	if err != nil {
		log.Error("Не удалось получить рабочую директорию", "error", err)
		os.Exit(1)
	}
	dir := flag.String("dir", filepath.Join(wd, "migrations"), "migrations directory")
	command := flag.String("command", "up", "goose command: up, down, status, version")
	flag.Parse()

	db, err := sql.Open("pgx", cfg.DBConn)
	if err != nil {
		log.Error("Не удалось открыть БД", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Error("Неизвестный диалект", "error", err)
		os.Exit(1)
	}

	log.Info("Применяем миграции", "dir", *dir, "command", *command)
	if err := goose.Run(*command, db, *dir); err != nil {
		log.Error("Миграции завершились с ошибкой", "error", err)
		os.Exit(1)
	}
	log.Info("✅ Миграции выполнены")
}
