package config

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DatabaseDialectSqlite   = "sqlite"
	DatabaseDialectPostgres = "postgres"
)

type DatabaseConfig struct {
	Url     string `yaml:"url"`
	Dialect string `yaml:"-"`
	Dsn     string `yaml:"-"`
}

func (d *DatabaseConfig) parse() error {
	dialect, dsn, err := ParseDatabaseURL(d.Url)
	if err != nil {
		return err
	}
	d.Dialect = dialect
	d.Dsn = dsn
	return nil
}

// ParseDatabaseURL interprets a database url and returns (dialect, dsn).
// Supported schemes: sqlite, postgres, postgresql.
func ParseDatabaseURL(databaseURL string) (string, string, error) {
	databaseURL = strings.TrimSpace(databaseURL)

	if path, ok := strings.CutPrefix(databaseURL, "sqlite://"); ok {
		if path == "" {
			return "", "", fmt.Errorf("missing sqlite path in DATABASE_URL")
		}
		return DatabaseDialectSqlite, path, nil
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", "", err
	}

	switch strings.ToLower(u.Scheme) {
	case DatabaseDialectPostgres, "postgresql":
		return DatabaseDialectPostgres, databaseURL, nil
	default:
		return "", "", fmt.Errorf("unsupported DATABASE_URL scheme: %q", u.Scheme)
	}
}

func maskDSN(dialect, dsn string) string {
	switch strings.ToLower(dialect) {
	case DatabaseDialectPostgres:
		if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
			if u.User != nil {
				u.User = url.User(u.User.Username())
			}
			return u.String()
		}
		parts := strings.Fields(dsn)
		for i, p := range parts {
			if strings.HasPrefix(strings.ToLower(p), "password=") {
				parts[i] = "password=***"
			}
		}
		return strings.Join(parts, " ")
	default:
		return dsn
	}
}
