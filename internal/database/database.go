// Package database prepares the Postgres databases explorer backends index into.
package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"
)

// Config names one database on a server.
type Config struct {
	// ServerURL is the server connection URL without a database path.
	ServerURL string
	Name      string
}

// ExplorerName is the default database name of a chain's explorer backend.
func ExplorerName(l1Network, chain string) string {
	return Slugify(fmt.Sprintf("zksync_explorer_%s_%s", strings.ToLower(l1Network), chain))
}

// Slugify normalizes a database name to lower-case words joined by '_'.
func Slugify(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

// FullURL is the server URL with the database name as path.
func (c Config) FullURL() (string, error) {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return "", fmt.Errorf("invalid database server URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid database server URL %q: no host", u.Redacted())
	}
	u.Path = "/" + c.Name
	return u.String(), nil
}

// ProvisioningError is returned when a database could not be reset.
type ProvisioningError struct {
	Name string
	Step string
	Err  error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("database %s: %s failed: %v", e.Name, e.Step, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// Provisioner drops and recreates databases.
type Provisioner interface {
	Reset(ctx context.Context, cfg Config) error
}

// Postgres resets databases over a maintenance connection to the server.
type Postgres struct{}

func NewPostgres() *Postgres {
	return &Postgres{}
}

func (p *Postgres) Reset(ctx context.Context, cfg Config) error {
	if cfg.Name == "" {
		return &ProvisioningError{Name: cfg.Name, Step: "validate", Err: fmt.Errorf("empty database name")}
	}

	conn, err := pgx.Connect(ctx, cfg.ServerURL)
	if err != nil {
		return &ProvisioningError{Name: cfg.Name, Step: "connect", Err: err}
	}
	defer func() {
		_ = conn.Close(ctx)
	}()

	ident := pgx.Identifier{cfg.Name}.Sanitize()
	if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+ident); err != nil {
		return &ProvisioningError{Name: cfg.Name, Step: "drop", Err: err}
	}
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
		return &ProvisioningError{Name: cfg.Name, Step: "create", Err: err}
	}
	log.Info().Str("database", cfg.Name).Msg("database recreated")
	return nil
}
