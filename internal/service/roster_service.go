package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/studieplein/presentie-api/internal/dto"
	"github.com/studieplein/presentie-api/internal/models"
	"github.com/studieplein/presentie-api/internal/schedule"
	"github.com/studieplein/presentie-api/internal/vclock"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
)

type rosterStudentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentWithGroup, int, error)
}

type rosterRecordRepository interface {
	ListForHourOnDate(ctx context.Context, studentID, hourID string, date time.Time) ([]models.AttendanceRecord, error)
}

type rosterGroupRepository interface {
	List(ctx context.Context) ([]models.Group, error)
}

// RosterService builds the staff overview: every listed student with a
// freshly derived attendance status at the virtual instant.
type RosterService struct {
	students   rosterStudentRepository
	records    rosterRecordRepository
	groups     rosterGroupRepository
	schedules  *ScheduleService
	classifier schedule.Classifier
	seniorYear int
	logger     *zap.Logger
}

// NewRosterService constructs a RosterService.
func NewRosterService(
	students rosterStudentRepository,
	records rosterRecordRepository,
	groups rosterGroupRepository,
	schedules *ScheduleService,
	classifier schedule.Classifier,
	seniorYear int,
	logger *zap.Logger,
) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		students:   students,
		records:    records,
		groups:     groups,
		schedules:  schedules,
		classifier: classifier,
		seniorYear: seniorYear,
		logger:     logger,
	}
}

// Groups lists all groups for the roster filters.
func (s *RosterService) Groups(ctx context.Context) ([]models.Group, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}
	return groups, nil
}

// Overview lists students matching the query with their statuses derived
// at the virtual instant. Resolvers are built once per group across the
// page, statuses once per student.
func (s *RosterService) Overview(ctx context.Context, query dto.RosterQuery) (*dto.RosterResponse, error) {
	instant := s.schedules.Now()

	filter := models.StudentFilter{
		GroupID:   query.GroupID,
		Year:      query.Year,
		Level:     query.Level,
		Search:    query.Search,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	if query.Seniors && s.seniorYear > 0 {
		senior := s.seniorYear
		filter.MinYear = &senior
	}
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	resolvers := make(map[string]*schedule.Resolver)
	entries := make([]dto.RosterEntry, 0, len(students))
	unconfirmed := 0
	for _, student := range students {
		resolver, ok := resolvers[student.GroupID]
		if !ok {
			resolver, err = s.schedules.ResolverForGroup(ctx, student.GroupID)
			if err != nil {
				return nil, err
			}
			resolvers[student.GroupID] = resolver
		}

		hour := resolver.CurrentHour(instant)
		var records []models.AttendanceRecord
		if hour != nil {
			records, err = s.records.ListForHourOnDate(ctx, student.ID, hour.ID, instant)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
			}
		}

		status := s.classifier.DeriveStatus(hour, records, instant)
		if status != models.StatusNotExpected && !status.Known() {
			unconfirmed++
		}
		entries = append(entries, dto.RosterEntry{
			StudentID:   student.ID,
			Code:        student.Code,
			FullName:    student.FullName(),
			Year:        student.Year,
			Level:       student.Level,
			GroupLabel:  student.GroupLabel,
			Senior:      student.Senior(s.seniorYear),
			Status:      status,
			CurrentHour: hour,
		})
	}

	// status is derived, not stored, so this sort applies within the page
	if query.SortBy == "status" {
		desc := strings.EqualFold(query.SortOrder, "desc")
		sort.SliceStable(entries, func(i, j int) bool {
			if desc {
				return entries[i].Status > entries[j].Status
			}
			return entries[i].Status < entries[j].Status
		})
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}

	return &dto.RosterResponse{
		Entries:     entries,
		Unconfirmed: unconfirmed,
		Pagination: models.Pagination{
			Page:       page,
			PageSize:   size,
			TotalCount: total,
		},
		Instant: instant.Format(vclock.DateLayout + " " + vclock.TimeLayout),
	}, nil
}
