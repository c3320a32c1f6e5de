package config

import (
	"fmt"
	"os"
	"strings"
)

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return ":8080"
	}
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		port = ":" + port
	}
	return port
}

type Storage string

const (
	MemoryStorage   Storage = "memory"
	PostgresStorage Storage = "postgres"
)

// StorageKind reads STORAGE; sessions and highscores live in memory unless
// it says postgres.
func StorageKind() (Storage, error) {
	s, ok := os.LookupEnv("STORAGE")
	if !ok || s == "" {
		return MemoryStorage, nil
	}
	switch Storage(strings.ToLower(s)) {
	case MemoryStorage:
		return MemoryStorage, nil
	case PostgresStorage:
		return PostgresStorage, nil
	}
	return "", fmt.Errorf("STORAGE must be memory or postgres, got %q", s)
}
