package main

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/metalagman/arena/internal/config"
	"github.com/metalagman/arena/internal/db"
	"github.com/metalagman/arena/internal/llm"
)

func openDB() (*sql.DB, string, func(), error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", func() {}, err
	}
	arenaDir := filepath.Join(workDir, ".arena")
	if err := os.MkdirAll(arenaDir, 0o755); err != nil {
		return nil, "", func() {}, err
	}
	dbPath := filepath.Join(arenaDir, "arena.db")
	storeDB, err := db.Open(dbPath)
	if err != nil {
		return nil, "", func() {}, err
	}
	return storeDB, workDir, func() { _ = storeDB.Close() }, nil
}

// newGenerator builds the retry-wrapped Ollama client from config.
func newGenerator(cfg config.Config) (*llm.Client, *llm.Retryer) {
	client := llm.NewClient(llm.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Timeout: cfg.Ollama.Timeout,
	}, nil)
	return client, llm.NewRetryer(client)
}
