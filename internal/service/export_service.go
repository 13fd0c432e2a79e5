package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studieplein/presentie-api/internal/dto"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
	"github.com/studieplein/presentie-api/pkg/jobs"
	"github.com/studieplein/presentie-api/pkg/storage"
)

// sweepInterval paces the archive cleanup of exports whose download
// tokens have expired.
const sweepInterval = time.Hour

type exportPayload struct {
	JobID   string
	Code    string
	Format  string
	RelPath string
}

// ExportService renders report exports in the background and serves them
// through signed download tokens. Large PDF renders never block the
// request goroutine.
type ExportService struct {
	reports *ReportService
	store   *storage.Archive
	signer  *storage.Signer
	queue   *jobs.Queue[exportPayload]
	logger  *zap.Logger

	cancel context.CancelFunc

	mu       sync.RWMutex
	statuses map[string]string
}

// NewExportService constructs an ExportService with its worker queue.
// Call Start before enqueueing and Stop on shutdown.
func NewExportService(reports *ReportService, store *storage.Archive, signer *storage.Signer, workers int, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		reports:  reports,
		store:    store,
		signer:   signer,
		logger:   logger,
		statuses: make(map[string]string),
	}
	s.queue = jobs.NewQueue("report-exports", s.process, jobs.Options{
		Workers: workers,
		Logger:  logger,
	})
	return s
}

// Start launches the export workers and the periodic archive sweep.
func (s *ExportService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.queue.Start(ctx)
	go s.sweep(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.queue.Stop()
}

// Enqueue schedules a report export and returns the job with its signed
// download token.
func (s *ExportService) Enqueue(ctx context.Context, code, format string) (*dto.ExportJob, error) {
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	jobID := uuid.NewString()
	relPath := fmt.Sprintf("%s/attendance-%s.%s", jobID, code, format)
	token, expiresAt, err := s.signer.Issue(jobID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}

	s.setStatus(jobID, dto.ExportJobPending)
	err = s.queue.Enqueue(jobs.Job[exportPayload]{
		ID: jobID,
		Payload: exportPayload{
			JobID:   jobID,
			Code:    code,
			Format:  format,
			RelPath: relPath,
		},
	})
	if err != nil {
		s.setStatus(jobID, dto.ExportJobFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}

	return &dto.ExportJob{
		JobID:     jobID,
		Code:      code,
		Format:    format,
		Status:    dto.ExportJobPending,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Status reports the lifecycle state of a queued export.
func (s *ExportService) Status(jobID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.statuses[jobID]
	if !ok {
		return "", appErrors.Clone(appErrors.ErrNotFound, "unknown export job")
	}
	return status, nil
}

// Download verifies the token and returns the rendered file, its name,
// and content type. Pending and failed jobs are not downloadable.
func (s *ExportService) Download(token string) ([]byte, string, string, error) {
	ticket, err := s.signer.Verify(token)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}

	status, err := s.Status(ticket.JobID)
	if err != nil {
		return nil, "", "", err
	}
	if status != dto.ExportJobDone {
		return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("export is %s", status))
	}

	file, err := s.store.Open(ticket.Path)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file missing")
	}
	defer file.Close() //nolint:errcheck

	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export file")
	}

	contentType := "text/csv"
	if path.Ext(ticket.Path) == ".pdf" {
		contentType = "application/pdf"
	}
	return payload, path.Base(ticket.Path), contentType, nil
}

func (s *ExportService) process(ctx context.Context, job jobs.Job[exportPayload]) error {
	payload := job.Payload

	var (
		rendered []byte
		err      error
	)
	switch payload.Format {
	case "pdf":
		rendered, _, err = s.reports.ExportPDF(ctx, payload.Code)
	default:
		rendered, _, err = s.reports.ExportCSV(ctx, payload.Code)
	}
	if err != nil {
		s.setStatus(payload.JobID, dto.ExportJobFailed)
		return fmt.Errorf("render export %s: %w", payload.JobID, err)
	}

	if err := s.store.Save(payload.RelPath, rendered); err != nil {
		s.setStatus(payload.JobID, dto.ExportJobFailed)
		return fmt.Errorf("store export %s: %w", payload.JobID, err)
	}

	s.setStatus(payload.JobID, dto.ExportJobDone)
	s.logger.Info("export rendered",
		zap.String("job_id", payload.JobID),
		zap.String("code", payload.Code),
		zap.String("format", payload.Format))
	return nil
}

// sweep removes exports older than the token lifetime; once the token has
// expired nothing can download the file anyway.
func (s *ExportService) sweep(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.store.Sweep(s.signer.TTL())
			if err != nil {
				s.logger.Warn("export archive sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				s.logger.Info("export archive swept", zap.Int("removed", removed))
			}
		}
	}
}

func (s *ExportService) setStatus(jobID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[jobID] = status
}
