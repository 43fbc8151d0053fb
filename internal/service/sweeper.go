package service

import (
	"context"
	"time"

	"room-booking-backend/internal/models"
	"room-booking-backend/internal/schedule"

	"go.uber.org/zap"
)

// SweepStore is the slice of the booking ledger the background sweeper
// touches.
type SweepStore interface {
	ListPendingThrough(date string) ([]models.Booking, error)
	CancelPending(ids []uint, reason string) error
}

// Sweeper periodically cancels expired Pending bookings across all users,
// so stale rows don't linger until their owner happens to list bookings.
// The read-time sweep in BookingService.ListMine remains the authoritative
// path for what a caller sees.
type Sweeper struct {
	bookings SweepStore
	clock    schedule.Clock
	logger   *zap.Logger
	interval time.Duration
}

func NewSweeper(bookings SweepStore, clock schedule.Clock, logger *zap.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		bookings: bookings,
		clock:    clock,
		logger:   logger,
		interval: interval,
	}
}

// Start runs the sweep loop until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("expiry sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	now := s.clock.Now()

	rows, err := s.bookings.ListPendingThrough(now.Format(schedule.DateLayout))
	if err != nil {
		s.logger.Error("sweep: failed to list pending bookings", zap.Error(err))
		return
	}

	dateExpired, timeExpired := schedule.ClassifyExpired(rows, now)
	if len(dateExpired) == 0 && len(timeExpired) == 0 {
		return
	}

	if err := s.bookings.CancelPending(dateExpired, schedule.ReasonDateExpired); err != nil {
		s.logger.Error("sweep: auto-cancel (date) update failed", zap.Error(err))
		return
	}
	if err := s.bookings.CancelPending(timeExpired, schedule.ReasonTimeExpired); err != nil {
		s.logger.Error("sweep: auto-cancel (time) update failed", zap.Error(err))
		return
	}

	s.logger.Info("sweep: cancelled expired bookings",
		zap.Int("date_expired", len(dateExpired)),
		zap.Int("time_expired", len(timeExpired)))
}
