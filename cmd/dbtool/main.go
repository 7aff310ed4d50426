package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"hgsvrptw/internal/adapters/store"
	"hgsvrptw/internal/config"
	"hgsvrptw/internal/platform/db"
)

// dbtool initializes the two schemas the solver depends on outside of the
// search process itself: the shared Postgres best-known-solution history
// and the local SQLite search-progress log.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	var skipBKS, skipProgress bool
	flag.BoolVar(&skipBKS, "skip-bks", false, "skip initializing the Postgres BKS history schema")
	flag.BoolVar(&skipProgress, "skip-progress", false, "skip initializing the SQLite search-progress schema")
	flag.Parse()

	ctx := context.Background()

	if !skipBKS {
		if err := initBKSSchema(ctx); err != nil {
			log.Fatal(err)
		}
	}

	if !skipProgress {
		if err := initProgressSchema(); err != nil {
			log.Fatal(err)
		}
	}
}

func initBKSSchema(ctx context.Context) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Println("DATABASE_URL not set, skipping BKS schema initialization")
		return nil
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Println("Initializing Postgres BKS history schema...")
	if err := store.NewPostgresBKSStore(conn).InitSchema(ctx); err != nil {
		return err
	}
	log.Println("BKS schema ready.")
	return nil
}

func initProgressSchema() error {
	progressPath := config.Get("PROGRESS_DB_PATH", "data/search_progress.db")

	conn, err := db.OpenSqlite(progressPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Println("Initializing SQLite search-progress schema...")
	if err := store.NewSqliteProgressStore(conn).InitSchema(); err != nil {
		return err
	}
	log.Println("Search-progress schema ready.")
	return nil
}
