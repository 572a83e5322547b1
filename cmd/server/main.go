package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"quizshow/internal/config"
	"quizshow/internal/db"
	"quizshow/internal/server"

	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg := config.Load()

	conn := openDatabase(cfg)
	srv := server.New(conn, cfg)
	if err := srv.RestoreGames(); err != nil {
		log.Fatalf("restore games: %v", err)
	}

	addr := ":" + port()
	log.Printf("listening addr=%s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// openDatabase connects when DATABASE_URL is set; without it the server runs
// memory-only and games do not survive a restart.
func openDatabase(cfg config.Config) *gorm.DB {
	if os.Getenv("DATABASE_URL") == "" {
		log.Println("DATABASE_URL not set, running without persistence")
		return nil
	}
	conn, err := db.Open()
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	err = db.ConfigurePool(conn,
		cfg.DBMaxOpenConns,
		cfg.DBMaxIdleConns,
		time.Duration(cfg.DBConnMaxLifetimeSeconds)*time.Second,
		time.Duration(cfg.DBConnMaxIdleTimeSeconds)*time.Second,
	)
	if err != nil {
		log.Fatalf("configure pool: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	return conn
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
