package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the process wide connection used by the server and scripts.
var DB *gorm.DB

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options tweaks how a connection is opened.
type Options struct {
	// Silent disables gorm's SQL logging (tests, scripts).
	Silent bool
}

// Init opens the configured database, migrates the schema and stores the
// handle in DB. An empty sqlite path falls back to blogdesk.db.
func Init(driver, source string) error {
	conn, err := Open(driver, source, Options{})
	if err != nil {
		return err
	}
	DB = conn
	return nil
}

// Open connects to sqlite or postgres and runs the schema migration.
func Open(driver, source string, opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(driver, source)
	if err != nil {
		return nil, err
	}

	// Unique violations surface as gorm.ErrDuplicatedKey on every driver.
	cfg := &gorm.Config{TranslateError: true}
	if opts.Silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	conn, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Models lists the tables owned by the application in dependency order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Tag{},
		&Post{},
		&Comment{},
		&PasswordResetToken{},
	}
}

func dialectorFor(driver, source string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		path := strings.TrimSpace(source)
		if path == "" {
			path = "blogdesk.db"
		}
		if !strings.HasPrefix(path, "file:") && path != ":memory:" {
			if err := ensureParentDir(path); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(path), nil
	case DriverPostgres:
		dsn := strings.TrimSpace(source)
		if dsn == "" {
			return nil, errors.New("postgres driver requires DATABASE_DSN")
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
