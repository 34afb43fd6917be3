package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/logging"
	"abstractdesk/internal/port"
)

// FinalUploadInput is the DTO for a final presentation upload.
type FinalUploadInput struct {
	AbstractID int64
	UserID     int64
	FileName   string
	File       io.Reader
}

// FinalUploadStatus reports the final upload state of an abstract.
type FinalUploadStatus struct {
	AbstractID  int64                 `json:"abstract_id"`
	Status      domain.AbstractStatus `json:"status"`
	CanUpload   bool                  `json:"can_upload"`
	Submitted   bool                  `json:"submitted"`
	FileName    string                `json:"file_name,omitempty"`
	FileSize    int64                 `json:"file_size,omitempty"`
	DownloadURL string                `json:"download_url,omitempty"`
}

// FinalUploadConfig holds final upload settings.
type FinalUploadConfig struct {
	Bucket        string
	MaxFileSizeMB int64
	PresignExpiry int64
}

// FinalUploadService handles the approved → final_submitted transition.
type FinalUploadService interface {
	Upload(ctx context.Context, input FinalUploadInput) (*domain.Abstract, error)
	Status(ctx context.Context, abstractID, actorID int64, role domain.UserRole) (*FinalUploadStatus, error)
}

type finalUploadService struct {
	abstractRepo port.AbstractRepository
	storage      port.ObjectStorage
	cfg          FinalUploadConfig
}

// NewFinalUploadService creates a new FinalUploadService implementation.
func NewFinalUploadService(
	abstractRepo port.AbstractRepository,
	storage port.ObjectStorage,
	cfg FinalUploadConfig,
) FinalUploadService {
	return &finalUploadService{
		abstractRepo: abstractRepo,
		storage:      storage,
		cfg:          cfg,
	}
}

func (s *finalUploadService) Upload(ctx context.Context, input FinalUploadInput) (*domain.Abstract, error) {
	logger := logging.LoggerFrom(ctx)

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	current, err := s.abstractRepo.GetByID(ctx, input.AbstractID)
	if err != nil {
		return nil, err
	}
	if current.UserID != input.UserID {
		return nil, domain.ErrForbidden
	}
	if current.Status != domain.StatusApproved {
		return nil, domain.ErrNotApproved
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	data, err := io.ReadAll(io.LimitReader(input.File, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	if fileType == domain.FileTypePDF {
		if _, err := CountPDFPages(data); err != nil {
			return nil, err
		}
	}

	key := fmt.Sprintf("final-uploads/%d/%s.%s", input.AbstractID, uuid.NewString(), ext)
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: domain.ContentTypes[fileType],
		Size:        int64(len(data)),
	})
	if err != nil {
		logger.Error("finalUploadService.Upload: storage upload failed",
			"abstract_id", input.AbstractID, "error", err)
		return nil, domain.ErrUploadFailed
	}

	updated, err := s.abstractRepo.MarkFinalSubmitted(ctx, domain.FinalSubmission{
		AbstractID: input.AbstractID,
		UserID:     input.UserID,
		FileKey:    key,
		FileName:   filepath.Base(input.FileName),
		FileSize:   int64(len(data)),
		At:         time.Now().UTC(),
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, s.cfg.Bucket, key); delErr != nil {
			logger.Warn("finalUploadService.Upload: orphaned object", "key", key, "error", delErr)
		}
		return nil, err
	}

	logger.Info("final presentation uploaded",
		"abstract_id", updated.ID, "file", input.FileName, "size", len(data))
	return updated, nil
}

func (s *finalUploadService) Status(ctx context.Context, abstractID, actorID int64, role domain.UserRole) (*FinalUploadStatus, error) {
	a, err := s.abstractRepo.GetByID(ctx, abstractID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && a.UserID != actorID {
		return nil, domain.ErrForbidden
	}

	status := &FinalUploadStatus{
		AbstractID: a.ID,
		Status:     a.Status,
		CanUpload:  a.Status == domain.StatusApproved,
		Submitted:  a.Status == domain.StatusFinalSubmitted,
	}
	if a.FinalFileName != nil {
		status.FileName = *a.FinalFileName
	}
	if a.FinalFileSize != nil {
		status.FileSize = *a.FinalFileSize
	}
	if a.FinalFileKey != nil {
		url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, *a.FinalFileKey, s.cfg.PresignExpiry)
		if err != nil {
			logging.LoggerFrom(ctx).Warn("finalUploadService.Status: presign failed", "error", err)
		} else {
			status.DownloadURL = url
		}
	}
	return status, nil
}

// CountPDFPages parses data as a PDF and returns its page count. Unreadable or
// empty documents yield domain.ErrInvalidPDF.
func CountPDFPages(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, domain.ErrInvalidPDF
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, domain.ErrInvalidPDF
	}
	n := r.NumPage()
	if n < 1 {
		return 0, domain.ErrInvalidPDF
	}
	return n, nil
}
