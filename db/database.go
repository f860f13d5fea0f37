package db

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store owns the single physical database connection. Every read and write
// goes through one exclusive mutex: two calls from different goroutines are
// totally ordered, and no partial write from one caller can interleave with
// another. The lock is held for the duration of a single call only.
type Store struct {
	mu          sync.Mutex
	conn        *gorm.DB
	path        string
	environment string
}

// Open sets up the database connection with WAL mode enabled.
func Open(dbPath string, environment string) (*Store, error) {
	conn, err := openConnection(dbPath, environment)
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established (WAL mode enabled)")
	return &Store{conn: conn, path: dbPath, environment: environment}, nil
}

func openConnection(dbPath string, environment string) (*gorm.DB, error) {
	logLevel := logger.Info
	if environment == "production" {
		logLevel = logger.Warn
	}

	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = dbPath + "?_journal_mode=WAL"
	}

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

// Migrate runs database migrations for the provided models.
func (s *Store) Migrate(models ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// View runs a read-only unit of work under the exclusive lock.
func (s *Store) View(fn func(tx *gorm.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.conn)
}

// Update runs a unit of work inside a transaction under the exclusive lock.
// The transaction commits on a nil return and rolls back completely on any
// error; the lock is released on exit either way.
func (s *Store) Update(fn func(tx *gorm.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Transaction(fn)
}

// Query executes a raw SELECT statement and returns the rows as maps.
func (s *Store) Query(query string, args ...interface{}) ([]map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []map[string]interface{}
	if err := s.conn.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return rows, nil
}

// Exec executes a raw INSERT/UPDATE/DELETE statement and returns the number
// of affected rows. The statement commits immediately.
func (s *Store) Exec(query string, args ...interface{}) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.conn.Exec(query, args...)
	if result.Error != nil {
		return 0, fmt.Errorf("exec failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ExecMany executes one statement for each parameter set inside a single
// transaction, so a batch commits or rolls back as a unit.
func (s *Store) ExecMany(query string, paramSets [][]interface{}) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	err := s.conn.Transaction(func(tx *gorm.DB) error {
		for _, params := range paramSets {
			result := tx.Exec(query, params...)
			if result.Error != nil {
				return result.Error
			}
			affected += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("batch exec failed: %w", err)
	}
	return affected, nil
}

// Backup writes a consistent snapshot of the database to backupPath.
func (s *Store) Backup(backupPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(backupPath); err == nil {
		if err := os.Remove(backupPath); err != nil {
			return fmt.Errorf("failed to clear existing backup: %w", err)
		}
	}

	// VACUUM INTO produces a compacted, transactionally consistent copy.
	if err := s.conn.Exec("VACUUM INTO ?", backupPath).Error; err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	return nil
}

// Restore replaces the live database with the backup at backupPath. The
// current file is parked first and put back if anything fails, so a failed
// restore never leaves the store half-initialized.
func (s *Store) Restore(backupPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup file not found: %w", err)
	}
	if s.path == ":memory:" {
		return fmt.Errorf("cannot restore an in-memory database")
	}

	sqlDB, err := s.conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	parked := s.path + ".old"
	if _, err := os.Stat(s.path); err == nil {
		if err := os.Rename(s.path, parked); err != nil {
			return fmt.Errorf("failed to park current database: %w", err)
		}
	}

	if err := copyFile(backupPath, s.path); err != nil {
		// Put the previous file back before reporting failure.
		os.Remove(s.path)
		os.Rename(parked, s.path)
		conn, openErr := openConnection(s.path, s.environment)
		if openErr == nil {
			s.conn = conn
		}
		return fmt.Errorf("failed to copy backup: %w", err)
	}

	conn, err := openConnection(s.path, s.environment)
	if err != nil {
		return fmt.Errorf("failed to reopen database after restore: %w", err)
	}
	s.conn = conn

	log.Printf("Database restored from %s", backupPath)
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	sqlDB, err := s.conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Path returns the location of the physical database file.
func (s *Store) Path() string {
	return s.path
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
