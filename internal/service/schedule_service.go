package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studieplein/presentie-api/internal/dto"
	"github.com/studieplein/presentie-api/internal/models"
	"github.com/studieplein/presentie-api/internal/schedule"
	"github.com/studieplein/presentie-api/internal/vclock"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
)

type timetableRepository interface {
	ListByGroup(ctx context.Context, groupID string) ([]models.Timetable, error)
}

// ScheduleService loads a group's timetables and resolves them against
// the virtual clock. Timetable sets are cached per group; resolvers are
// rebuilt per call since they are cheap wrappers.
type ScheduleService struct {
	timetables timetableRepository
	cache      *CacheService
	clock      *vclock.Clock
	logger     *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(timetables timetableRepository, cache *CacheService, clock *vclock.Clock, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{timetables: timetables, cache: cache, clock: clock, logger: logger}
}

// Now returns the virtual clock's current instant.
func (s *ScheduleService) Now() time.Time {
	return s.clock.Now()
}

// ResolverForGroup builds a validated resolver over the group's
// timetables, reading through the cache. Overlapping timetable ranges
// surface as a conflict, distinct from an empty schedule.
func (s *ScheduleService) ResolverForGroup(ctx context.Context, groupID string) (*schedule.Resolver, error) {
	key := fmt.Sprintf("schedule:group:%s:timetables", groupID)

	var timetables []models.Timetable
	hit, err := s.cache.Get(ctx, key, &timetables)
	if err != nil {
		s.logger.Warn("schedule cache read failed", zap.String("group_id", groupID), zap.Error(err))
	}
	if !hit {
		timetables, err = s.timetables.ListByGroup(ctx, groupID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetables")
		}
		if err := s.cache.Set(ctx, key, timetables, 0); err != nil {
			s.logger.Warn("schedule cache write failed", zap.String("group_id", groupID), zap.Error(err))
		}
	}

	resolver, err := schedule.NewResolver(timetables)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrOverlappingTimetables.Code, appErrors.ErrOverlappingTimetables.Status, err.Error())
	}
	return resolver, nil
}

// SnapshotForGroup resolves the group's schedule at the given instant.
func (s *ScheduleService) SnapshotForGroup(ctx context.Context, groupID string, instant time.Time) (*dto.ScheduleSnapshot, error) {
	resolver, err := s.ResolverForGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	snapshot := &dto.ScheduleSnapshot{
		GroupID:      groupID,
		Instant:      instant.Format(vclock.DateLayout + " " + vclock.TimeLayout),
		HoursToday:   resolver.HoursOnDate(instant),
		CurrentHour:  resolver.CurrentHour(instant),
		NextHour:     resolver.NextHour(instant),
		PreviousHour: resolver.PreviousHour(instant),
		LessonsToday: resolver.HasRemainingLessonsToday(instant),
		Off:          resolver.IsOff(instant),
	}
	if tt := resolver.TimetableFor(instant); tt != nil {
		snapshot.TimetableID = tt.ID
		snapshot.TimetableLabel = tt.Label
	}
	if next := resolver.NextHourDate(instant); next != nil {
		formatted := vclock.FormatDate(*next)
		snapshot.NextHourDate = &formatted
		snapshot.NextHourDay = models.WeekdayNames[models.WeekdayIndex(*next)]
	}
	return snapshot, nil
}
