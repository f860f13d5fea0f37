package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferenceRoundTripTypes(t *testing.T) {
	store := setupTestStore(t)

	assert.NoError(t, SetPreference(store, "court_name", "Travis County District Court"))
	assert.NoError(t, SetPreference(store, "filing_deadline_days", 30))
	assert.NoError(t, SetPreference(store, "hourly_value", 42.5))
	assert.NoError(t, SetPreference(store, "auto_backup", true))
	assert.NoError(t, SetPreference(store, "notify_channels", []interface{}{"email", "sms"}))

	value, err := GetPreference(store, "court_name", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Travis County District Court", value)

	value, err = GetPreference(store, "filing_deadline_days", nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(30), value)

	value, err = GetPreference(store, "hourly_value", nil)
	assert.NoError(t, err)
	assert.Equal(t, 42.5, value)

	value, err = GetPreference(store, "auto_backup", nil)
	assert.NoError(t, err)
	assert.Equal(t, true, value)

	value, err = GetPreference(store, "notify_channels", nil)
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{"email", "sms"}, value)
}

func TestGetPreferenceDefault(t *testing.T) {
	store := setupTestStore(t)

	value, err := GetPreference(store, "absent", "fallback")
	assert.NoError(t, err)
	assert.Equal(t, "fallback", value)
}

func TestSetPreferenceReplacesExisting(t *testing.T) {
	store := setupTestStore(t)

	assert.NoError(t, SetPreference(store, "theme", "light"))
	assert.NoError(t, SetPreference(store, "theme", "dark"))

	value, err := GetPreference(store, "theme", nil)
	assert.NoError(t, err)
	assert.Equal(t, "dark", value)

	prefs, err := ListPreferences(store)
	assert.NoError(t, err)
	assert.Len(t, prefs, 1)
}

func TestSetPreferenceTypeChange(t *testing.T) {
	store := setupTestStore(t)

	// Replacing a value with a different type re-tags the row.
	assert.NoError(t, SetPreference(store, "limit", "unlimited"))
	assert.NoError(t, SetPreference(store, "limit", 25))

	value, err := GetPreference(store, "limit", nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(25), value)
}

func TestDeletePreference(t *testing.T) {
	store := setupTestStore(t)

	assert.NoError(t, SetPreference(store, "temp", "x"))

	deleted, err := DeletePreference(store, "temp")
	assert.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = DeletePreference(store, "temp")
	assert.NoError(t, err)
	assert.False(t, deleted)

	value, err := GetPreference(store, "temp", "gone")
	assert.NoError(t, err)
	assert.Equal(t, "gone", value)
}
