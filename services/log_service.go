package services

import (
	"log"
	"time"

	"proselit_go/db"
	"proselit_go/models"

	"gorm.io/gorm"
)

// LogInfo appends an INFO entry to the system log table. Logging failures
// are reported to stdout only; they never surface to the caller.
func LogInfo(store *db.Store, module, message string, caseID *string, userAction string) {
	entry := models.SystemLog{
		LogLevel:   models.LogLevelInfo,
		Module:     module,
		Message:    message,
		Timestamp:  time.Now(),
		CaseID:     caseID,
		UserAction: ptrIfNotEmpty(userAction),
	}
	writeLog(store, entry)
}

// LogError appends an ERROR entry to the system log table.
func LogError(store *db.Store, module, message string, caseID *string, errorDetails string) {
	entry := models.SystemLog{
		LogLevel:     models.LogLevelError,
		Module:       module,
		Message:      message,
		Timestamp:    time.Now(),
		CaseID:       caseID,
		ErrorDetails: ptrIfNotEmpty(errorDetails),
	}
	writeLog(store, entry)
}

func writeLog(store *db.Store, entry models.SystemLog) {
	err := store.Update(func(tx *gorm.DB) error {
		return tx.Create(&entry).Error
	})
	if err != nil {
		// Can't log the logging error to the database - stdout only.
		log.Printf("[LOG] Failed to write system log: %v", err)
	}
}

// LogAIInteraction records one exchange with the generation collaborator.
func LogAIInteraction(store *db.Store, caseID *string, userQuery, aiResponse, interactionType, modelUsed string, tokensUsed int) {
	interaction := models.AIInteraction{
		CaseID:          caseID,
		Timestamp:       time.Now(),
		UserQuery:       userQuery,
		AIResponse:      aiResponse,
		InteractionType: interactionType,
		TokensUsed:      tokensUsed,
		ModelUsed:       modelUsed,
	}
	err := store.Update(func(tx *gorm.DB) error {
		return tx.Create(&interaction).Error
	})
	if err != nil {
		log.Printf("[LOG] Failed to record AI interaction: %v", err)
	}
}

// GetRecentLogs returns the newest system log entries, optionally filtered
// by level.
func GetRecentLogs(store *db.Store, level string, limit int) ([]models.SystemLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.SystemLog
	err := store.View(func(tx *gorm.DB) error {
		query := tx.Order("timestamp DESC").Limit(limit)
		if level != "" {
			query = query.Where("log_level = ?", level)
		}
		return query.Find(&logs).Error
	})
	return logs, err
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
