package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"gamehub/internal/auth"
	"gamehub/internal/config"
	"gamehub/internal/db"
	"gamehub/internal/handlers"
)

func main() {
	cfg, err := config.Load(os.Getenv("GAMEHUB_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal(err)
		}
	}

	dbc, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer dbc.Close()

	if err := db.Migrate(dbc); err != nil {
		log.Fatal(err)
	}

	sessions := auth.NewManager(dbc, cfg.SessionTTL)
	h := handlers.New(dbc, cfg, sessions)

	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handlers.WithRecover(h.Routes())); err != nil {
		log.Fatal(err)
	}
}
