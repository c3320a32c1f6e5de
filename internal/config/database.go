package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	User     string
	Password string
	Host     string
	Port     uint16
	DBName   string
	SSLMode  string
}

func lookup(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("no %s env variable set", key)
	}
	return v, nil
}

// secret reads KEY, falling back to the file named by KEY_FILE.
func secret(key string) (string, error) {
	if v, ok := os.LookupEnv(key); ok {
		return v, nil
	}
	path, ok := os.LookupEnv(key + "_FILE")
	if !ok {
		return "", fmt.Errorf("no %s or %s_FILE env variable set", key, key)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func NewPostgres() (*Postgres, error) {
	var (
		cfg Postgres
		err error
	)
	if cfg.User, err = lookup("POSTGRES_USER"); err != nil {
		return nil, err
	}
	if cfg.Password, err = secret("POSTGRES_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Host, err = lookup("POSTGRES_HOST"); err != nil {
		return nil, err
	}
	if cfg.DBName, err = lookup("POSTGRES_DB"); err != nil {
		return nil, err
	}
	portStr, err := lookup("POSTGRES_PORT")
	if err != nil {
		return nil, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("unable to convert port to int: %w", err)
	}
	cfg.Port = uint16(port)
	cfg.SSLMode = "disable"
	if sslMode, ok := os.LookupEnv("POSTGRES_SSLMODE"); ok {
		cfg.SSLMode = sslMode
	}
	return &cfg, nil
}

func (c Postgres) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

// DatabaseURL prefers DATABASE_URL and falls back to the POSTGRES_* set.
func DatabaseURL() (string, error) {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		return dbURL, nil
	}
	cfg, err := NewPostgres()
	if err != nil {
		return "", fmt.Errorf("no DATABASE_URL set; %w", err)
	}
	return cfg.URL(), nil
}

func NewPgxpoolConfig() (*pgxpool.Config, error) {
	dbURL, err := DatabaseURL()
	if err != nil {
		return nil, err
	}
	return pgxpool.ParseConfig(dbURL)
}
