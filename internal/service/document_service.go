package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/models"
	appErrors "github.com/talentra/ems-api/pkg/errors"
)

type documentRepository interface {
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Document, error)
	FindByID(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, document *models.Document) error
	Delete(ctx context.Context, id string) error
}

type documentStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

// DocumentService manages employee document uploads.
type DocumentService struct {
	repo      documentRepository
	storage   documentStorage
	validator *validator.Validate
	logger    *zap.Logger
	maxBytes  int64
	now       func() time.Time
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(repo documentRepository, storage documentStorage, validate *validator.Validate, logger *zap.Logger, maxBytes int64) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &DocumentService{
		repo:      repo,
		storage:   storage,
		validator: validate,
		logger:    logger,
		maxBytes:  maxBytes,
		now:       time.Now,
	}
}

// List returns document metadata for one employee.
func (s *DocumentService) List(ctx context.Context, employeeID string) ([]models.Document, error) {
	documents, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}
	return documents, nil
}

// Upload stores the file on disk and records its metadata.
func (s *DocumentService) Upload(ctx context.Context, employeeID, uploadedBy string, req dto.UploadDocumentRequest, fileName, mimeType string, size int64, content io.Reader) (*models.Document, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document payload")
	}
	if size <= 0 || size > s.maxBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file size must be between 1 and %d bytes", s.maxBytes))
	}

	now := s.now().UTC()
	document := &models.Document{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Title:      req.Title,
		Category:   req.Category,
		FileName:   fileName,
		MIMEType:   mimeType,
		SizeBytes:  size,
		UploadedBy: uploadedBy,
		CreatedAt:  now,
	}

	if _, err := s.storage.SaveStream(s.storagePath(document), content); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}
	if err := s.repo.Create(ctx, document); err != nil {
		if removeErr := s.storage.Delete(s.storagePath(document)); removeErr != nil {
			s.logger.Warn("failed to remove orphaned document file", zap.String("document_id", document.ID), zap.Error(removeErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record document")
	}

	s.logger.Info("document uploaded",
		zap.String("document_id", document.ID),
		zap.String("employee_id", employeeID),
		zap.Int64("size_bytes", size),
	)
	return document, nil
}

// Download returns metadata plus an open file handle. The caller closes it.
func (s *DocumentService) Download(ctx context.Context, id string) (*models.Document, *os.File, error) {
	document, err := s.get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	file, err := s.storage.Open(s.storagePath(document))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open document file")
	}
	return document, file, nil
}

// Delete removes both the metadata row and the stored file.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	document, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete document")
	}
	if err := s.storage.Delete(s.storagePath(document)); err != nil {
		s.logger.Warn("failed to delete document file", zap.String("document_id", id), zap.Error(err))
	}
	return nil
}

func (s *DocumentService) get(ctx context.Context, id string) (*models.Document, error) {
	document, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch document")
	}
	return document, nil
}

func (s *DocumentService) storagePath(document *models.Document) string {
	return filepath.Join("documents", document.EmployeeID, document.ID+filepath.Ext(document.FileName))
}
