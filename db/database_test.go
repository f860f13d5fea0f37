package db

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"proselit_go/models"

	"gorm.io/gorm"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(path, "test")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Migrate(&models.Case{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpdateCommits(t *testing.T) {
	store := openTestStore(t, ":memory:")

	err := store.Update(func(tx *gorm.DB) error {
		return tx.Create(&models.Case{Name: "committed", CaseType: "Civil Rights"}).Error
	})
	assert.NoError(t, err)

	var count int64
	err = store.View(func(tx *gorm.DB) error {
		return tx.Model(&models.Case{}).Count(&count).Error
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateRollsBackCompletely(t *testing.T) {
	store := openTestStore(t, ":memory:")

	boom := errors.New("boom")
	err := store.Update(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Case{Name: "first", CaseType: "x"}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Case{Name: "second", CaseType: "x"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Neither write survives: all or nothing.
	var count int64
	err = store.View(func(tx *gorm.DB) error {
		return tx.Model(&models.Case{}).Count(&count).Error
	})
	assert.NoError(t, err)
	assert.Zero(t, count)
}

func TestExecAndQuery(t *testing.T) {
	store := openTestStore(t, ":memory:")

	affected, err := store.Exec(
		"INSERT INTO cases (id, name, case_type, status, last_modified, metadata) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, '{}')",
		"raw-1", "Raw Case", "Employment", "Active")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	rows, err := store.Query("SELECT name, case_type FROM cases WHERE id = ?", "raw-1")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Raw Case", rows[0]["name"])
	assert.Equal(t, "Employment", rows[0]["case_type"])
}

func TestExecManyIsAtomic(t *testing.T) {
	store := openTestStore(t, ":memory:")

	insert := "INSERT INTO cases (id, name, case_type, status, last_modified, metadata) VALUES (?, ?, 'x', 'Active', CURRENT_TIMESTAMP, '{}')"

	affected, err := store.ExecMany(insert, [][]interface{}{
		{"batch-1", "one"},
		{"batch-2", "two"},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	// A duplicate primary key fails the batch; the earlier insert in the
	// same batch rolls back with it.
	_, err = store.ExecMany(insert, [][]interface{}{
		{"batch-3", "three"},
		{"batch-1", "duplicate"},
	})
	assert.Error(t, err)

	rows, err := store.Query("SELECT id FROM cases ORDER BY id")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	store := openTestStore(t, ":memory:")

	const workers = 25
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs[n] = store.Update(func(tx *gorm.DB) error {
				return tx.Create(&models.Case{Name: "worker", CaseType: "x"}).Error
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	var count int64
	err := store.View(func(tx *gorm.DB) error {
		return tx.Model(&models.Case{}).Count(&count).Error
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(workers), count)
}

func TestBackupAndRestoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := openTestStore(t, filepath.Join(dir, "live.db"))

	err := store.Update(func(tx *gorm.DB) error {
		return tx.Create(&models.Case{Name: "precious", CaseType: "Civil Rights"}).Error
	})
	assert.NoError(t, err)

	backupPath := filepath.Join(dir, "backup.db")
	assert.NoError(t, store.Backup(backupPath))

	// Wreck the live data, then restore the snapshot.
	_, err = store.Exec("DELETE FROM cases")
	assert.NoError(t, err)

	assert.NoError(t, store.Restore(backupPath))

	rows, err := store.Query("SELECT name FROM cases")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "precious", rows[0]["name"])

	// The store stays usable after the connection swap.
	err = store.Update(func(tx *gorm.DB) error {
		return tx.Create(&models.Case{Name: "after restore", CaseType: "x"}).Error
	})
	assert.NoError(t, err)
}

func TestRestoreMissingBackupFails(t *testing.T) {
	dir := t.TempDir()
	store := openTestStore(t, filepath.Join(dir, "live.db"))

	err := store.Restore(filepath.Join(dir, "does-not-exist.db"))
	assert.Error(t, err)

	// A failed restore leaves the store working.
	err = store.Update(func(tx *gorm.DB) error {
		return tx.Create(&models.Case{Name: "still alive", CaseType: "x"}).Error
	})
	assert.NoError(t, err)
}

func TestRestoreRefusesInMemoryStore(t *testing.T) {
	dir := t.TempDir()
	backupSource := openTestStore(t, filepath.Join(dir, "source.db"))
	backupPath := filepath.Join(dir, "backup.db")
	assert.NoError(t, backupSource.Backup(backupPath))

	store := openTestStore(t, ":memory:")
	err := store.Restore(backupPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "in-memory")
}

func TestBackupOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	store := openTestStore(t, filepath.Join(dir, "live.db"))

	backupPath := filepath.Join(dir, "backup.db")
	assert.NoError(t, store.Backup(backupPath))

	err := store.Update(func(tx *gorm.DB) error {
		return tx.Create(&models.Case{Name: "newer", CaseType: "x"}).Error
	})
	assert.NoError(t, err)

	// A second backup to the same path replaces the stale snapshot.
	assert.NoError(t, store.Backup(backupPath))

	restored, err := Open(backupPath, "test")
	assert.NoError(t, err)
	defer restored.Close()

	rows, err := restored.Query("SELECT name FROM cases")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
}
