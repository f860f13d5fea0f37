package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"proselit_go/db"
	"proselit_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetPreference stores a typed setting. Setting an existing key replaces its
// value and restamps last_modified.
func SetPreference(store *db.Store, key string, value interface{}) error {
	prefType, encoded, err := encodePreference(value)
	if err != nil {
		return err
	}

	pref := models.UserPreference{
		PreferenceKey:   key,
		PreferenceValue: encoded,
		PreferenceType:  prefType,
		LastModified:    time.Now(),
	}

	err = store.Update(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "preference_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"preference_value", "preference_type", "last_modified",
			}),
		}).Create(&pref).Error
	})
	if err != nil {
		return fmt.Errorf("failed to store preference: %w", err)
	}
	return nil
}

// GetPreference returns a setting decoded to its stored type, or the default
// when the key is absent.
func GetPreference(store *db.Store, key string, defaultValue interface{}) (interface{}, error) {
	var pref models.UserPreference
	err := store.View(func(tx *gorm.DB) error {
		return tx.Where("preference_key = ?", key).First(&pref).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultValue, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preference: %w", err)
	}
	return decodePreference(pref)
}

// ListPreferences returns all settings keyed by preference key.
func ListPreferences(store *db.Store) (map[string]interface{}, error) {
	var prefs []models.UserPreference
	err := store.View(func(tx *gorm.DB) error {
		return tx.Order("preference_key ASC").Find(&prefs).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}

	result := make(map[string]interface{}, len(prefs))
	for _, pref := range prefs {
		value, err := decodePreference(pref)
		if err != nil {
			return nil, err
		}
		result[pref.PreferenceKey] = value
	}
	return result, nil
}

// DeletePreference removes a setting. Returns false if the key was absent.
func DeletePreference(store *db.Store, key string) (bool, error) {
	var affected int64
	err := store.Update(func(tx *gorm.DB) error {
		result := tx.Where("preference_key = ?", key).Delete(&models.UserPreference{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete preference: %w", err)
	}
	return affected > 0, nil
}

func encodePreference(value interface{}) (prefType, encoded string, err error) {
	switch v := value.(type) {
	case string:
		return models.PreferenceTypeString, v, nil
	case int:
		return models.PreferenceTypeInt, strconv.Itoa(v), nil
	case int64:
		return models.PreferenceTypeInt, strconv.FormatInt(v, 10), nil
	case float64:
		return models.PreferenceTypeFloat, strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return models.PreferenceTypeBool, strconv.FormatBool(v), nil
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return "", "", fmt.Errorf("failed to encode preference value: %w", err)
		}
		return models.PreferenceTypeJSON, string(raw), nil
	}
}

func decodePreference(pref models.UserPreference) (interface{}, error) {
	switch pref.PreferenceType {
	case models.PreferenceTypeString:
		return pref.PreferenceValue, nil
	case models.PreferenceTypeInt:
		return strconv.ParseInt(pref.PreferenceValue, 10, 64)
	case models.PreferenceTypeFloat:
		return strconv.ParseFloat(pref.PreferenceValue, 64)
	case models.PreferenceTypeBool:
		return strconv.ParseBool(pref.PreferenceValue)
	case models.PreferenceTypeJSON:
		var value interface{}
		if err := json.Unmarshal([]byte(pref.PreferenceValue), &value); err != nil {
			return nil, fmt.Errorf("corrupt preference %q: %w", pref.PreferenceKey, err)
		}
		return value, nil
	default:
		return pref.PreferenceValue, nil
	}
}
