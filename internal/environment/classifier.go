// Package environment classifies service environment variables so operator
// facing output can hide credentials.
package environment

import (
	"net/url"
	"strconv"
	"strings"
)

type Type int

const (
	TypeUnknown Type = iota
	TypeSecret
	TypeDatabase
	TypeURL
	TypeBoolean
	TypeNumeric
	TypeConfig
)

func (t Type) String() string {
	switch t {
	case TypeSecret:
		return "secret"
	case TypeDatabase:
		return "database"
	case TypeURL:
		return "url"
	case TypeBoolean:
		return "boolean"
	case TypeNumeric:
		return "numeric"
	case TypeConfig:
		return "config"
	default:
		return "unknown"
	}
}

var secretPatterns = []string{
	"secret", "token", "password", "passwd", "pwd",
	"auth", "credential", "private", "api_key", "apikey",
	"access_key", "signing", "jwt",
}

var databasePatterns = []string{
	"database_url", "db_url", "dsn", "connection_string",
	"postgres_url", "redis_url",
}

// Classify returns the type of a variable and whether its value is sensitive.
func Classify(name, value string) (Type, bool) {
	lower := strings.ToLower(name)

	for _, pattern := range databasePatterns {
		if strings.Contains(lower, pattern) {
			return TypeDatabase, true
		}
	}
	for _, pattern := range secretPatterns {
		if strings.Contains(lower, pattern) {
			return TypeSecret, true
		}
	}

	if u, err := url.Parse(value); err == nil && u.Scheme != "" && u.Host != "" {
		// credentials embedded in any URL
		if _, ok := u.User.Password(); ok {
			return TypeURL, true
		}
		return TypeURL, false
	}
	if strings.Contains(lower, "url") {
		return TypeURL, false
	}
	if value == "true" || value == "false" {
		return TypeBoolean, false
	}
	if _, err := strconv.Atoi(value); err == nil {
		return TypeNumeric, false
	}
	return TypeConfig, false
}

const mask = "********"

// Redact returns value with its secret parts masked. URLs keep everything but
// their password.
func Redact(name, value string) string {
	_, sensitive := Classify(name, value)
	if !sensitive {
		return value
	}
	if u, err := url.Parse(value); err == nil && u.Scheme != "" && u.Host != "" {
		if _, ok := u.User.Password(); ok {
			return u.Redacted()
		}
	}
	return mask
}
