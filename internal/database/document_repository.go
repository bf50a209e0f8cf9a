package database

import (
	"fmt"

	"github.com/workscheduler/scheduling-backend/internal/models"
)

// DocumentRepository handles user document database operations
type DocumentRepository struct {
	db DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db DB) *DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

// CreateDocument records a document for a user at a company
func (r *DocumentRepository) CreateDocument(userID, compID int64, docName string) (*models.UserDocument, error) {
	document := &models.UserDocument{
		UserID:  userID,
		CompID:  compID,
		DocName: docName,
	}

	query := `
		INSERT INTO user_document (user_id, comp_id, doc_name)
		VALUES ($1, $2, $3)
		RETURNING doc_id
	`

	err := r.db.QueryRow(query, document.UserID, document.CompID, document.DocName).Scan(&document.DocID)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return document, nil
}

// ListDocumentsByUser retrieves all documents of a user
func (r *DocumentRepository) ListDocumentsByUser(userID int64) ([]*models.UserDocument, error) {
	var documents []*models.UserDocument

	query := `
		SELECT doc_id, user_id, comp_id, doc_name
		FROM user_document
		WHERE user_id = $1
		ORDER BY doc_id
	`

	err := r.db.Select(&documents, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return documents, nil
}
