package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"proselit_go/db"
	"proselit_go/models"

	"gorm.io/gorm"
)

// CreateCase creates a new case and returns its identifier.
func CreateCase(store *db.Store, name, caseType string) (string, error) {
	c := models.Case{
		Name:         name,
		CaseType:     caseType,
		Status:       models.CaseStatusActive,
		LastModified: time.Now(),
	}

	err := store.Update(func(tx *gorm.DB) error {
		return tx.Create(&c).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to create case: %w", err)
	}

	LogInfo(store, "case_manager", fmt.Sprintf("Created case %q", name), &c.ID, "create_case")
	return c.ID, nil
}

// GetCase returns the case aggregate with its files and documents loaded.
// Returns ErrNotFound if the case does not exist.
func GetCase(store *db.Store, caseID string) (*models.Case, error) {
	var c models.Case
	err := store.View(func(tx *gorm.DB) error {
		return tx.
			Preload("Files").
			Preload("Documents").
			First(&c, "id = ?", caseID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}
	c.DecodedMetadata = c.DecodeMetadata()
	return &c, nil
}

// ListCases returns all cases, most recently touched first. The ordering is
// a user-facing contract: recently active cases surface at the top.
func ListCases(store *db.Store) ([]models.Case, error) {
	var cases []models.Case
	err := store.View(func(tx *gorm.DB) error {
		return tx.Order("last_modified DESC").Find(&cases).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	for i := range cases {
		cases[i].DecodedMetadata = cases[i].DecodeMetadata()
	}
	return cases, nil
}

// CaseUpdates carries the fields UpdateCase may change. Nil fields are left
// untouched.
type CaseUpdates struct {
	Name     *string
	CaseType *string
	Status   *string
	Metadata map[string]interface{}
}

// UpdateCase applies the supplied fields and restamps last_modified
// regardless of which fields changed. Returns false if the case does not
// exist.
func UpdateCase(store *db.Store, caseID string, updates CaseUpdates) (bool, error) {
	fields := map[string]interface{}{
		"last_modified": time.Now(),
	}
	if updates.Name != nil {
		fields["name"] = *updates.Name
	}
	if updates.CaseType != nil {
		fields["case_type"] = *updates.CaseType
	}
	if updates.Status != nil {
		fields["status"] = *updates.Status
	}
	if updates.Metadata != nil {
		c := models.Case{}
		if err := c.EncodeMetadata(updates.Metadata); err != nil {
			return false, fmt.Errorf("failed to encode metadata: %w", err)
		}
		fields["metadata"] = c.Metadata
	}

	var affected int64
	err := store.Update(func(tx *gorm.DB) error {
		result := tx.Model(&models.Case{}).Where("id = ?", caseID).Updates(fields)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to update case: %w", err)
	}
	return affected > 0, nil
}

// DeleteCase removes a case and everything it owns in one transaction:
// evidence, timeline events and statutes of its violations, the violations
// themselves, strategies, files and documents. No owned entity remains
// addressable afterwards. Returns false if the case does not exist.
func DeleteCase(store *db.Store, caseID string) (bool, error) {
	var affected int64
	err := store.Update(func(tx *gorm.DB) error {
		var violationIDs []string
		if err := tx.Model(&models.Violation{}).
			Where("case_id = ?", caseID).
			Pluck("id", &violationIDs).Error; err != nil {
			return err
		}

		if len(violationIDs) > 0 {
			if err := tx.Where("violation_id IN ?", violationIDs).
				Delete(&models.Evidence{}).Error; err != nil {
				return err
			}
			if err := tx.Where("violation_id IN ?", violationIDs).
				Delete(&models.TimelineEvent{}).Error; err != nil {
				return err
			}
			if err := tx.Where("violation_id IN ?", violationIDs).
				Delete(&models.ViolationStatute{}).Error; err != nil {
				return err
			}
		}

		for _, model := range []interface{}{
			&models.Violation{},
			&models.NuclearStrategy{},
			&models.CaseFile{},
			&models.CaseDocument{},
		} {
			if err := tx.Where("case_id = ?", caseID).Delete(model).Error; err != nil {
				return err
			}
		}

		result := tx.Where("id = ?", caseID).Delete(&models.Case{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete case: %w", err)
	}

	if affected > 0 {
		LogInfo(store, "case_manager", "Deleted case and all owned records", &caseID, "delete_case")
	}
	return affected > 0, nil
}

// AddFileToCase attaches a file record to a case and restamps the parent's
// last_modified. Returns ErrNotFound if the case does not exist.
func AddFileToCase(store *db.Store, caseID, filename, fileType string, fileSize int64, filePath *string) (string, error) {
	file := models.CaseFile{
		CaseID:   caseID,
		Filename: filename,
		FileType: fileType,
		FileSize: fileSize,
		FilePath: filePath,
	}

	err := store.Update(func(tx *gorm.DB) error {
		if err := requireCase(tx, caseID); err != nil {
			return err
		}
		if err := tx.Create(&file).Error; err != nil {
			return err
		}
		return touchCase(tx, caseID)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to add file to case: %w", err)
	}
	return file.ID, nil
}

// GetFile returns a single file record, or ErrNotFound.
func GetFile(store *db.Store, fileID string) (*models.CaseFile, error) {
	var file models.CaseFile
	err := store.View(func(tx *gorm.DB) error {
		return tx.First(&file, "id = ?", fileID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file: %w", err)
	}
	return &file, nil
}

// GetCaseFiles returns all files for a case, newest upload first.
func GetCaseFiles(store *db.Store, caseID string) ([]models.CaseFile, error) {
	var files []models.CaseFile
	err := store.View(func(tx *gorm.DB) error {
		return tx.Where("case_id = ?", caseID).
			Order("upload_date DESC").
			Find(&files).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch case files: %w", err)
	}
	return files, nil
}

// RemoveFileFromCase deletes a file record along with its stored content and
// restamps the owning case. Returns ErrNotFound if the file does not exist.
func RemoveFileFromCase(ctx context.Context, store *db.Store, storage StorageProvider, fileID string) error {
	file, err := GetFile(store, fileID)
	if err != nil {
		return err
	}

	if file.FilePath != nil {
		if err := storage.Delete(ctx, *file.FilePath); err != nil {
			return fmt.Errorf("failed to delete stored content: %w", err)
		}
	}

	err = store.Update(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", fileID).Delete(&models.CaseFile{}).Error; err != nil {
			return err
		}
		return touchCase(tx, file.CaseID)
	})
	if err != nil {
		return fmt.Errorf("failed to remove file record: %w", err)
	}

	LogInfo(store, "case_manager", fmt.Sprintf("Removed file %q", file.Filename), &file.CaseID, "remove_file")
	return nil
}

// SetFileAnalysis stores the external analyzer's output on a file, opaquely.
func SetFileAnalysis(store *db.Store, fileID string, analysisJSON string) error {
	var affected int64
	err := store.Update(func(tx *gorm.DB) error {
		result := tx.Model(&models.CaseFile{}).
			Where("id = ?", fileID).
			Update("analysis_data", analysisJSON)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("failed to store file analysis: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddDocumentToCase attaches a generated document to a case and restamps the
// parent's last_modified. Returns ErrNotFound if the case does not exist.
func AddDocumentToCase(store *db.Store, caseID, documentType, title, content string) (string, error) {
	doc := models.CaseDocument{
		CaseID:       caseID,
		DocumentType: documentType,
		Title:        title,
		Content:      content,
	}

	err := store.Update(func(tx *gorm.DB) error {
		if err := requireCase(tx, caseID); err != nil {
			return err
		}
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}
		return touchCase(tx, caseID)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to add document to case: %w", err)
	}
	return doc.ID, nil
}

// GetDocument returns a single document, or ErrNotFound.
func GetDocument(store *db.Store, documentID string) (*models.CaseDocument, error) {
	var doc models.CaseDocument
	err := store.View(func(tx *gorm.DB) error {
		return tx.First(&doc, "id = ?", documentID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	return &doc, nil
}

// GetCaseDocuments returns all documents for a case, newest first.
func GetCaseDocuments(store *db.Store, caseID string) ([]models.CaseDocument, error) {
	var docs []models.CaseDocument
	err := store.View(func(tx *gorm.DB) error {
		return tx.Where("case_id = ?", caseID).
			Order("created_at DESC").
			Find(&docs).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch case documents: %w", err)
	}
	return docs, nil
}

// UpdateDocumentContent replaces a document's content, increments its
// version and restamps the owning case. Returns ErrNotFound if the document
// does not exist.
func UpdateDocumentContent(store *db.Store, documentID, content string) error {
	err := store.Update(func(tx *gorm.DB) error {
		var doc models.CaseDocument
		if err := tx.First(&doc, "id = ?", documentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"content": content,
			"version": doc.Version + 1,
		}
		if err := tx.Model(&doc).Updates(updates).Error; err != nil {
			return err
		}
		return touchCase(tx, doc.CaseID)
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

// MarkDocumentFiled transitions a document from draft to filed.
func MarkDocumentFiled(store *db.Store, documentID string, filingDate time.Time) error {
	err := store.Update(func(tx *gorm.DB) error {
		var doc models.CaseDocument
		if err := tx.First(&doc, "id = ?", documentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"status":      models.DocumentStatusFiled,
			"filing_date": filingDate,
		}
		if err := tx.Model(&doc).Updates(updates).Error; err != nil {
			return err
		}
		return touchCase(tx, doc.CaseID)
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to mark document filed: %w", err)
	}
	return nil
}

// SearchCases matches the query case-insensitively against case name and
// type only, never against file or document content.
func SearchCases(store *db.Store, query string) ([]models.Case, error) {
	pattern := "%" + query + "%"
	var cases []models.Case
	err := store.View(func(tx *gorm.DB) error {
		return tx.Where("LOWER(name) LIKE LOWER(?) OR LOWER(case_type) LIKE LOWER(?)", pattern, pattern).
			Order("last_modified DESC").
			Find(&cases).Error
	})
	if err != nil {
		return nil, fmt.Errorf("case search failed: %w", err)
	}
	for i := range cases {
		cases[i].DecodedMetadata = cases[i].DecodeMetadata()
	}
	return cases, nil
}

// CaseStatistics summarizes a case's contents.
type CaseStatistics struct {
	FileCount     int64     `json:"file_count"`
	DocumentCount int64     `json:"document_count"`
	CreatedAt     time.Time `json:"created_date"`
	DaysActive    int       `json:"days_active"`
}

// GetCaseStatistics counts the case's files and documents. Returns
// ErrNotFound if the case does not exist.
func GetCaseStatistics(store *db.Store, caseID string) (*CaseStatistics, error) {
	stats := CaseStatistics{}
	err := store.View(func(tx *gorm.DB) error {
		var c models.Case
		if err := tx.First(&c, "id = ?", caseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		stats.CreatedAt = c.CreatedAt
		stats.DaysActive = int(time.Since(c.CreatedAt).Hours() / 24)

		if err := tx.Model(&models.CaseFile{}).
			Where("case_id = ?", caseID).
			Count(&stats.FileCount).Error; err != nil {
			return err
		}
		return tx.Model(&models.CaseDocument{}).
			Where("case_id = ?", caseID).
			Count(&stats.DocumentCount).Error
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compute case statistics: %w", err)
	}
	return &stats, nil
}

// requireCase returns ErrNotFound unless the case exists.
func requireCase(tx *gorm.DB, caseID string) error {
	var count int64
	if err := tx.Model(&models.Case{}).Where("id = ?", caseID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// touchCase restamps the owning case's last_modified.
func touchCase(tx *gorm.DB, caseID string) error {
	return tx.Model(&models.Case{}).
		Where("id = ?", caseID).
		Update("last_modified", time.Now()).Error
}
