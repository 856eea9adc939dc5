package main

import (
	"log"
	"os"

	"github.com/UnknownOlympus/athena/internal/config"
	"github.com/UnknownOlympus/athena/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	if cfg.Postgres.Host == "" {
		log.Fatal("DB_HOST is not set, nothing to migrate")
	}

	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	dbpool, dbErr := repository.NewDatabase(
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	dtb := stdlib.OpenDBFromPool(dbpool)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}
	if migrationErr := goose.Up(dtb, dir); migrationErr != nil {
		log.Fatalf("Failed to apply migrations: %v", migrationErr)
	}

	log.Println("✅ Session migrations applied successfully")
}
