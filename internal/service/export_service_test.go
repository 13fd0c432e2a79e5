package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studieplein/presentie-api/internal/dto"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
	"github.com/studieplein/presentie-api/pkg/storage"
)

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()

	reports := newReportFixture(t, reportRecords())
	store, err := storage.NewArchive(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSigner("test-secret", time.Hour)

	svc := NewExportService(reports, store, signer, 1, zap.NewNop())
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)
	return svc
}

func TestExportJobRendersAndDownloads(t *testing.T) {
	svc := newExportFixture(t)

	job, err := svc.Enqueue(context.Background(), "100042", "csv")
	require.NoError(t, err)
	assert.Equal(t, dto.ExportJobPending, job.Status)
	assert.NotEmpty(t, job.Token)

	require.Eventually(t, func() bool {
		status, err := svc.Status(job.JobID)
		return err == nil && status == dto.ExportJobDone
	}, 5*time.Second, 10*time.Millisecond)

	payload, filename, contentType, err := svc.Download(job.Token)
	require.NoError(t, err)
	assert.Equal(t, "attendance-100042.csv", filename)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "date,time,status"))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := newExportFixture(t)

	_, err := svc.Enqueue(context.Background(), "100042", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportDownloadUnknownJob(t *testing.T) {
	reports := newReportFixture(t, reportRecords())
	store, err := storage.NewArchive(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSigner("test-secret", time.Hour)
	svc := NewExportService(reports, store, signer, 1, zap.NewNop())

	// a well-signed token for a job this instance never queued
	token, _, err := signer.Issue("job-1", "job-1/attendance-100042.csv")
	require.NoError(t, err)

	_, _, _, err = svc.Download(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportDownloadBadToken(t *testing.T) {
	svc := newExportFixture(t)

	_, _, _, err := svc.Download("not.a.real.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
