// Package menu is the cache engine in front of the weekly cafeteria
// menu page: fetch, parse, judge completeness, cache, and repair
// itself with a bounded deferred-retry loop when upstream returns a
// page recognized as essentially empty.
package menu

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"unigate-backend/lib/scrapers/unisis"
	"unigate-backend/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("unigate.services.menu")

// Fetcher is the upstream dependency: it returns the raw weekly menu
// page. *unisis.Client implements it.
type Fetcher interface {
	FetchWeeklyMenu(ctx context.Context) (string, error)
}

type Options struct {
	// delay before a deferred re-refresh, defaults to 60 seconds
	RetryDelay time.Duration
	// attempt ceiling before the loop gives up until the next
	// external refresh, defaults to 600
	RetryCeiling int
	// overridable clock for tests, defaults to timezone.Now
	Now func() time.Time
}

type Service struct {
	fetcher Fetcher
	// optional snapshot history; nil disables persistence
	history *SnapshotStore
	opts    Options

	group singleflight.Group
	retry *retryScheduler

	mu       sync.RWMutex
	snapshot *unisis.MenuSnapshot
}

func NewService(ctx context.Context, fetcher Fetcher, history *SnapshotStore, opts Options) *Service {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second * 60
	}
	if opts.RetryCeiling <= 0 {
		opts.RetryCeiling = 600
	}
	if opts.Now == nil {
		opts.Now = timezone.Now
	}

	s := &Service{
		fetcher: fetcher,
		history: history,
		opts:    opts,
	}
	s.retry = newRetryScheduler(opts.RetryDelay, opts.RetryCeiling, func() {
		// deferred retries run detached from whichever request
		// originally scheduled them
		_, err := s.Refresh(context.Background())
		if err != nil {
			slog.Warn("deferred menu refresh failed", "err", err)
		}
	})

	if history != nil {
		latest, err := history.Latest(ctx)
		if err != nil {
			slog.WarnContext(ctx, "failed to load persisted menu snapshot", "err", err)
		} else if latest != nil {
			s.snapshot = latest
			slog.InfoContext(ctx, "primed menu cache from history", "last_updated", latest.LastUpdated)
		}
	}

	return s
}

func (s *Service) cached() *unisis.MenuSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// LastUpdated reports the cached snapshot's stamp without triggering a
// fetch; zero when nothing is cached yet.
func (s *Service) LastUpdated() time.Time {
	if snapshot := s.cached(); snapshot != nil {
		return snapshot.LastUpdated
	}
	return time.Time{}
}

// Snapshot is read-through: the cached snapshot when present,
// otherwise a synchronous Refresh whose result is cached before
// returning.
func (s *Service) Snapshot(ctx context.Context) (unisis.MenuSnapshot, error) {
	if snapshot := s.cached(); snapshot != nil {
		return *snapshot, nil
	}
	return s.Refresh(ctx)
}

// Refresh forces a fetch-parse-cache cycle now. Concurrent callers are
// collapsed onto a single upstream fetch and all receive its result;
// no lock is held across the network call.
func (s *Service) Refresh(ctx context.Context) (unisis.MenuSnapshot, error) {
	result, err, _ := s.group.Do("refresh", func() (any, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return unisis.MenuSnapshot{}, err
	}
	return result.(unisis.MenuSnapshot), nil
}

func (s *Service) refresh(ctx context.Context) (unisis.MenuSnapshot, error) {
	ctx, span := tracer.Start(ctx, "menu:refresh")
	defer span.End()

	body, err := s.fetcher.FetchWeeklyMenu(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch weekly menu page")
		s.scheduleRetry(ctx)
		return unisis.MenuSnapshot{}, err
	}

	snapshot, err := unisis.ParseWeeklyMenu(body)
	if err != nil {
		// logged and surfaced, never silently defaulted
		slog.ErrorContext(ctx, "weekly menu page unparseable", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse weekly menu page")
		s.scheduleRetry(ctx)
		return unisis.MenuSnapshot{}, err
	}
	snapshot.LastUpdated = s.opts.Now()

	// the snapshot is cached unconditionally, incomplete or not:
	// callers always see the freshest available data
	s.mu.Lock()
	s.snapshot = &snapshot
	s.mu.Unlock()

	if s.history != nil {
		err := s.history.Append(ctx, snapshot)
		if err != nil {
			slog.WarnContext(ctx, "failed to persist menu snapshot", "err", err)
		}
	}

	if incomplete(snapshot) {
		s.scheduleRetry(ctx)
	} else {
		s.retry.Cancel()
	}

	return snapshot, nil
}

func (s *Service) scheduleRetry(ctx context.Context) {
	if s.retry.Schedule() {
		slog.InfoContext(
			ctx, "menu incomplete, retry scheduled",
			"attempt", s.retry.Attempts(),
			"delay", s.opts.RetryDelay,
		)
		return
	}
	slog.WarnContext(
		ctx, "menu retry ceiling reached, keeping incomplete snapshot until next external refresh",
		"ceiling", s.opts.RetryCeiling,
	)
}

// Cafeteria returns one cafeteria's full week.
func (s *Service) Cafeteria(ctx context.Context, kind unisis.CafeteriaKind) (unisis.WeekSchedule, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Cafeteria(kind), nil
}

// DayMenu is one day across both cafeterias.
type DayMenu struct {
	Day       unisis.Weekday `json:"day"`
	Staff     unisis.Meals   `json:"staff"`
	Dormitory unisis.Meals   `json:"dormitory"`
}

func (s *Service) Day(ctx context.Context, day unisis.Weekday) (DayMenu, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return DayMenu{}, err
	}
	return DayMenu{
		Day:       day,
		Staff:     snapshot.Staff[day],
		Dormitory: snapshot.Dormitory[day],
	}, nil
}

// Today resolves the portal-local weekday from the wall clock.
func (s *Service) Today(ctx context.Context) (DayMenu, error) {
	return s.Day(ctx, unisis.WeekdayFromTime(s.opts.Now()))
}
