package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/port"
	"abstractdesk/internal/repository/memory"
	"abstractdesk/internal/service"
	"abstractdesk/mocks"
)

var uploadCfg = service.FinalUploadConfig{Bucket: "finals", MaxFileSizeMB: 1, PresignExpiry: 60}

func approvedAbstract(t *testing.T, repo *memory.AbstractRepo, owner int64) int64 {
	t.Helper()
	ctx := context.Background()
	a := &domain.Abstract{UserID: owner, Title: "T", Category: domain.CategoryPoster}
	require.NoError(t, repo.Create(ctx, a))
	_, err := repo.UpdateStatus(ctx, domain.StatusChange{AbstractID: a.ID, Status: domain.StatusApproved, At: time.Now()})
	require.NoError(t, err)
	return a.ID
}

func TestFinalUploadService_Upload_Success(t *testing.T) {
	repo := memory.NewAbstractRepo(nil)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFinalUploadService(repo, storage, uploadCfg)
	id := approvedAbstract(t, repo, 7)

	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "finals" &&
			strings.HasPrefix(in.Key, "final-uploads/") &&
			strings.HasSuffix(in.Key, ".pptx") &&
			in.Size == 4
	})).Return(&port.UploadOutput{Location: "s3://finals/x"}, nil)

	updated, err := svc.Upload(context.Background(), service.FinalUploadInput{
		AbstractID: id, UserID: 7, FileName: "talk.pptx", File: bytes.NewReader([]byte("data")),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFinalSubmitted, updated.Status)
	assert.Equal(t, "talk.pptx", *updated.FinalFileName)
	storage.AssertExpectations(t)
}

func TestFinalUploadService_Upload_RequiresApproval(t *testing.T) {
	repo := memory.NewAbstractRepo(nil)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFinalUploadService(repo, storage, uploadCfg)

	a := &domain.Abstract{UserID: 7, Title: "T"}
	require.NoError(t, repo.Create(context.Background(), a))

	_, err := svc.Upload(context.Background(), service.FinalUploadInput{
		AbstractID: a.ID, UserID: 7, FileName: "talk.pdf", File: bytes.NewReader([]byte("%PDF")),
	})
	assert.ErrorIs(t, err, domain.ErrNotApproved)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestFinalUploadService_Upload_Rejections(t *testing.T) {
	repo := memory.NewAbstractRepo(nil)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFinalUploadService(repo, storage, uploadCfg)
	id := approvedAbstract(t, repo, 7)

	tests := []struct {
		name  string
		input service.FinalUploadInput
		want  error
	}{
		{"extension", service.FinalUploadInput{AbstractID: id, UserID: 7, FileName: "talk.exe", File: bytes.NewReader(nil)}, domain.ErrUnsupportedFileType},
		{"owner", service.FinalUploadInput{AbstractID: id, UserID: 8, FileName: "talk.pdf", File: bytes.NewReader(nil)}, domain.ErrForbidden},
		{"size", service.FinalUploadInput{AbstractID: id, UserID: 7, FileName: "talk.pptx", File: bytes.NewReader(make([]byte, 1024*1024+1))}, domain.ErrFileTooLarge},
		{"pdf", service.FinalUploadInput{AbstractID: id, UserID: 7, FileName: "talk.pdf", File: bytes.NewReader([]byte("not a pdf"))}, domain.ErrInvalidPDF},
		{"missing", service.FinalUploadInput{AbstractID: 999, UserID: 7, FileName: "talk.pdf", File: bytes.NewReader(nil)}, domain.ErrAbstractNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestFinalUploadService_Upload_StorageFailure(t *testing.T) {
	repo := memory.NewAbstractRepo(nil)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFinalUploadService(repo, storage, uploadCfg)
	id := approvedAbstract(t, repo, 7)

	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))

	_, err := svc.Upload(context.Background(), service.FinalUploadInput{
		AbstractID: id, UserID: 7, FileName: "talk.ppt", File: bytes.NewReader([]byte("x")),
	})
	assert.ErrorIs(t, err, domain.ErrUploadFailed)

	a, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, a.Status)
}

func TestFinalUploadService_Upload_LostRaceDeletesObject(t *testing.T) {
	repo := new(mocks.MockAbstractRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFinalUploadService(repo, storage, uploadCfg)

	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Abstract{ID: 1, UserID: 7, Status: domain.StatusApproved}, nil)
	repo.On("MarkFinalSubmitted", mock.Anything, mock.Anything).Return(nil, domain.ErrConflictState)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	storage.On("Delete", mock.Anything, "finals", mock.AnythingOfType("string")).Return(nil)

	_, err := svc.Upload(context.Background(), service.FinalUploadInput{
		AbstractID: 1, UserID: 7, FileName: "talk.pptx", File: bytes.NewReader([]byte("x")),
	})
	assert.ErrorIs(t, err, domain.ErrConflictState)
	storage.AssertExpectations(t)
}

func TestFinalUploadService_Status(t *testing.T) {
	repo := new(mocks.MockAbstractRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFinalUploadService(repo, storage, uploadCfg)

	key, name, size := "final-uploads/1/a.pdf", "a.pdf", int64(10)
	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Abstract{
		ID: 1, UserID: 7, Status: domain.StatusFinalSubmitted,
		FinalFileKey: &key, FinalFileName: &name, FinalFileSize: &size,
	}, nil)
	storage.On("GetPresignedURL", mock.Anything, "finals", key, int64(60)).Return("https://signed", nil)

	st, err := svc.Status(context.Background(), 1, 7, domain.RoleDelegate)
	require.NoError(t, err)
	assert.True(t, st.Submitted)
	assert.False(t, st.CanUpload)
	assert.Equal(t, "https://signed", st.DownloadURL)

	_, err = svc.Status(context.Background(), 1, 8, domain.RoleDelegate)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCountPDFPages_Invalid(t *testing.T) {
	_, err := service.CountPDFPages([]byte("%PDF-1.4 garbage"))
	assert.ErrorIs(t, err, domain.ErrInvalidPDF)

	_, err = service.CountPDFPages(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPDF)
}
