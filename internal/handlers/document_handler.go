package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/workscheduler/scheduling-backend/internal/database"
	"github.com/workscheduler/scheduling-backend/internal/middleware"
)

// DocumentHandler handles user document HTTP requests
type DocumentHandler struct {
	documentRepository   *database.DocumentRepository
	employmentRepository *database.EmploymentRepository
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	documentRepository *database.DocumentRepository,
	employmentRepository *database.EmploymentRepository,
) *DocumentHandler {
	return &DocumentHandler{
		documentRepository:   documentRepository,
		employmentRepository: employmentRepository,
	}
}

// CreateDocumentRequest represents the document creation request body
type CreateDocumentRequest struct {
	CompID  int64  `json:"comp_id" binding:"required"`
	DocName string `json:"doc_name" binding:"required"`
}

// CreateDocument handles POST /api/v1/documents. The document is attached
// to the caller at a company they are employed at.
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "comp_id and doc_name are required",
		})
		return
	}

	docName := strings.TrimSpace(req.DocName)
	if docName == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "doc_name cannot be blank",
		})
		return
	}

	userCtx := middleware.MustGetUserContext(c)

	employment, err := h.employmentRepository.GetActiveEmployment(userCtx.UserID, req.CompID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if employment == nil {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "not employed at this company",
		})
		return
	}

	document, err := h.documentRepository.CreateDocument(userCtx.UserID, req.CompID, docName)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, document)
}

// ListDocuments handles GET /api/v1/documents (the caller's own documents)
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	documents, err := h.documentRepository.ListDocumentsByUser(userCtx.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
	})
}
