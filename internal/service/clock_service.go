package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/studieplein/presentie-api/internal/dto"
	"github.com/studieplein/presentie-api/internal/vclock"
)

// scheduleCachePattern matches every cached resolved schedule. Clock
// mutations drop them all: cached payloads embed the evaluation instant.
const scheduleCachePattern = "schedule:*"

// ClockService owns the application's virtual clock. Every mutation
// invalidates the resolved-schedule cache, since cached snapshots are
// only valid for the instant they were computed at.
type ClockService struct {
	clock  *vclock.Clock
	cache  *CacheService
	logger *zap.Logger
}

// NewClockService constructs a ClockService.
func NewClockService(clock *vclock.Clock, cache *CacheService, logger *zap.Logger) *ClockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClockService{clock: clock, cache: cache, logger: logger}
}

// Clock exposes the underlying virtual clock for services that read the
// current instant.
func (s *ClockService) Clock() *vclock.Clock {
	return s.clock
}

// State reports the clock's current position.
func (s *ClockService) State() dto.ClockStateResponse {
	return dto.ClockStateResponse{
		Date:          s.clock.DateString(),
		Time:          s.clock.TimeString(),
		Datetime:      s.clock.Now().Format(vclock.DateLayout + " " + vclock.TimeLayout),
		IsDefault:     s.clock.IsDefault(),
		IsDefaultDate: s.clock.IsDefaultDate(),
		IsDefaultTime: s.clock.IsDefaultTime(),
	}
}

// Update applies raw date and time strings from the operator form.
// Malformed halves silently land on their defaults.
func (s *ClockService) Update(ctx context.Context, req dto.ClockUpdateRequest) dto.ClockStateResponse {
	s.clock.ApplyForm(req.Date, req.Time)
	s.invalidate(ctx)
	s.logger.Info("virtual clock moved",
		zap.String("date", s.clock.DateString()),
		zap.String("time", s.clock.TimeString()))
	return s.State()
}

// Reset returns the clock to its configured defaults.
func (s *ClockService) Reset(ctx context.Context) dto.ClockStateResponse {
	s.clock.Reset()
	s.invalidate(ctx)
	s.logger.Info("virtual clock reset to defaults")
	return s.State()
}

// SetToRealNow aligns the clock with the wall clock.
func (s *ClockService) SetToRealNow(ctx context.Context) dto.ClockStateResponse {
	s.clock.SetDatetimeToRealNow()
	s.invalidate(ctx)
	s.logger.Info("virtual clock aligned with wall clock")
	return s.State()
}

func (s *ClockService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, scheduleCachePattern); err != nil {
		s.logger.Warn("failed to invalidate schedule cache after clock change", zap.Error(err))
	}
}
