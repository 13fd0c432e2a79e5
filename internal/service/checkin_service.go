package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studieplein/presentie-api/internal/dto"
	"github.com/studieplein/presentie-api/internal/models"
	"github.com/studieplein/presentie-api/internal/schedule"
	"github.com/studieplein/presentie-api/internal/vclock"
	"github.com/studieplein/presentie-api/pkg/config"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
)

type checkinStudentRepository interface {
	FindByCode(ctx context.Context, code string) (*models.Student, error)
}

type checkinRecordRepository interface {
	Create(ctx context.Context, record *models.AttendanceRecord) error
	ListForHourOnDate(ctx context.Context, studentID, hourID string, date time.Time) ([]models.AttendanceRecord, error)
	ListCauses(ctx context.Context) ([]models.Cause, error)
}

// CheckinService commits student check-ins against the virtual clock.
type CheckinService struct {
	students   checkinStudentRepository
	records    checkinRecordRepository
	schedules  *ScheduleService
	classifier schedule.Classifier
	validator  *validator.Validate
	logger     *zap.Logger
	metrics    *MetricsService
	attendance config.AttendanceConfig
}

// NewCheckinService constructs a CheckinService.
func NewCheckinService(
	students checkinStudentRepository,
	records checkinRecordRepository,
	schedules *ScheduleService,
	classifier schedule.Classifier,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	attendance config.AttendanceConfig,
) *CheckinService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CheckinService{
		students:   students,
		records:    records,
		schedules:  schedules,
		classifier: classifier,
		validator:  validate,
		logger:     logger,
		metrics:    metrics,
		attendance: attendance,
	}
}

// CheckIn processes one card swipe. The student authenticates with their
// password before anything is committed. Outside any hour nothing is
// committed. A late or absent swipe without a cause is bounced back once
// with the cause list; the resubmission with a cause commits. Outcomes
// follow the classifier, absence winning over lateness.
func (s *CheckinService) CheckIn(ctx context.Context, req dto.CheckinRequest) (*dto.CheckinResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check-in payload")
	}

	student, err := s.students.FindByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown student code")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	instant := s.schedules.Now()
	snapshot, err := s.schedules.SnapshotForGroup(ctx, student.GroupID, instant)
	if err != nil {
		return nil, err
	}

	hour := snapshot.CurrentHour
	if hour == nil {
		return &dto.CheckinResponse{
			Outcome:     dto.CheckinOutcomeNoHour,
			StudentName: student.FullName(),
			Schedule:    snapshot,
		}, nil
	}

	if !s.attendance.DemoMode {
		logged, err := s.hasLogged(ctx, student.ID, hour.ID, instant)
		if err != nil {
			return nil, err
		}
		if logged {
			return nil, appErrors.Clone(appErrors.ErrAlreadyCheckedIn, "")
		}
	}

	late := s.classifier.IsLate(hour, instant)
	absent := s.classifier.IsAbsent(hour, instant)
	delay := s.classifier.MinutesLate(hour, instant)

	if late && req.CauseID == nil {
		causes, err := s.records.ListCauses(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load causes")
		}
		return &dto.CheckinResponse{
			Outcome:     dto.CheckinOutcomeNeedCause,
			StudentName: student.FullName(),
			Hour:        hour,
			MinutesLate: delay,
			Causes:      causes,
			Schedule:    snapshot,
		}, nil
	}

	record := &models.AttendanceRecord{
		StudentID: student.ID,
		HourID:    hour.ID,
		CauseID:   req.CauseID,
		Date:      models.Midnight(instant),
		Time:      vclock.FormatTime(instant),
		Absent:    absent,
		Late:      late,
		Delay:     delay,
		Reasoning: req.Reasoning,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit check-in")
	}

	outcome := dto.CheckinOutcomePresent
	switch {
	case absent:
		outcome = dto.CheckinOutcomeAbsent
	case late:
		outcome = dto.CheckinOutcomeLate
	}
	if s.metrics != nil {
		s.metrics.ObserveCheckin(outcome)
	}

	s.logger.Info("check-in committed",
		zap.String("student_id", student.ID),
		zap.String("hour_id", hour.ID),
		zap.String("outcome", outcome))

	return &dto.CheckinResponse{
		Outcome:     outcome,
		StudentName: student.FullName(),
		Hour:        hour,
		MinutesLate: delay,
		Schedule:    snapshot,
	}, nil
}

// Causes lists the lateness causes a late student may pick from.
func (s *CheckinService) Causes(ctx context.Context) ([]models.Cause, error) {
	causes, err := s.records.ListCauses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load causes")
	}
	return causes, nil
}

// hasLogged reports whether the student already has a record for the hour
// at or before the instant.
func (s *CheckinService) hasLogged(ctx context.Context, studentID, hourID string, instant time.Time) (bool, error) {
	records, err := s.records.ListForHourOnDate(ctx, studentID, hourID, instant)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
	}
	for _, rec := range records {
		if !rec.Datetime().After(instant) {
			return true, nil
		}
	}
	return false, nil
}
