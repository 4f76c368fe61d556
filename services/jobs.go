package services

import (
	"log/slog"

	"github.com/datescare/amora-be/config"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic maintenance jobs: completing elapsed bookings
// and sweeping stale call sessions.
type Scheduler struct {
	cron           *cron.Cron
	bookingService *BookingService
	chatService    *ChatBillingService
	logger         *slog.Logger
	cfg            config.Config
}

func NewScheduler(bookingService *BookingService, chatService *ChatBillingService, logger *slog.Logger, cfg config.Config) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:           c,
		bookingService: bookingService,
		chatService:    chatService,
		logger:         logger,
		cfg:            cfg,
	}
}

func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.cfg.BookingCompleteSchedule, s.completeBookings); err != nil {
		s.logger.Error("failed to schedule booking completion job", "error", err)
	} else {
		s.logger.Info("scheduled booking completion job", "schedule", s.cfg.BookingCompleteSchedule)
	}

	if _, err := s.cron.AddFunc(s.cfg.SessionSweepSchedule, s.sweepSessions); err != nil {
		s.logger.Error("failed to schedule session sweep job", "error", err)
	} else {
		s.logger.Info("scheduled session sweep job", "schedule", s.cfg.SessionSweepSchedule)
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) completeBookings() {
	count, err := s.bookingService.CompleteElapsedBookings()
	if err != nil {
		s.logger.Error("booking completion job failed", "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("completed elapsed bookings", "count", count)
	}
}

func (s *Scheduler) sweepSessions() {
	count, err := s.chatService.SweepStaleSessions()
	if err != nil {
		s.logger.Error("session sweep job failed", "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("ended stale call sessions", "count", count)
	}
}
