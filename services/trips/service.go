// Package trips proxies the portal's trip pages for authenticated
// users: list scraping and apply/withdraw form posts. The portal's own
// business rules (eligibility, quotas) are never reimplemented; its
// HTML responses are parsed and passed along.
package trips

import (
	"context"
	"time"

	"unigate-backend/lib/scrapers/unisis"
	"unigate-backend/services/session"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("unigate.services.trips")

const (
	listCacheSize = 2048
	listCacheTTL  = time.Minute
)

type Service struct {
	sessions session.Service
	client   *unisis.Client
	// parsed trip lists cached briefly per user; bearer verification
	// still runs on every call, so revocation is never bypassed
	listCache *expirable.LRU[string, []unisis.Trip]
}

func NewService(sessions session.Service, client *unisis.Client) *Service {
	return &Service{
		sessions:  sessions,
		client:    client,
		listCache: expirable.NewLRU[string, []unisis.Trip](listCacheSize, nil, listCacheTTL),
	}
}

// List returns the structured trip rows visible to the bearer's user.
func (s *Service) List(ctx context.Context, bearer string) ([]unisis.Trip, error) {
	ctx, span := tracer.Start(ctx, "trips:List")
	defer span.End()

	userID, err := s.sessions.Verify(ctx, bearer)
	if err != nil {
		span.SetStatus(codes.Error, "bearer rejected")
		return nil, err
	}
	if cached, hit := s.listCache.Get(userID); hit {
		return cached, nil
	}

	body, err := s.fetchListing(ctx, bearer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch trips page")
		return nil, err
	}
	trips, err := unisis.ParseTrips(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse trips page")
		return nil, err
	}

	s.listCache.Add(userID, trips)
	return trips, nil
}

// Apply submits the portal's application form for a trip and returns
// the portal's own outcome message.
func (s *Service) Apply(ctx context.Context, bearer, tripID string) (string, error) {
	return s.act(ctx, bearer, tripID, unisis.TripApply)
}

// Withdraw cancels an application the same way.
func (s *Service) Withdraw(ctx context.Context, bearer, tripID string) (string, error) {
	return s.act(ctx, bearer, tripID, unisis.TripWithdraw)
}

func (s *Service) act(ctx context.Context, bearer, tripID string, action unisis.TripAction) (string, error) {
	ctx, span := tracer.Start(ctx, "trips:act")
	defer span.End()

	userID, err := s.sessions.Verify(ctx, bearer)
	if err != nil {
		span.SetStatus(codes.Error, "bearer rejected")
		return "", err
	}
	jar, err := s.sessions.Jar(ctx, bearer)
	if err != nil {
		return "", err
	}

	// the action form (anti-forgery token included) must be rebuilt
	// from a fresh copy of the page
	listing, err := s.client.Get(ctx, unisis.TripsPath, jar)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch trips page")
		return "", err
	}
	path, form, err := unisis.TripActionForm(listing, tripID, action)
	if err != nil {
		span.SetStatus(codes.Error, "trip form not found")
		return "", err
	}

	response, err := s.client.PostForm(ctx, path, jar, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post trip action")
		return "", err
	}

	// the portal's answer changed the listing; drop the cached copy
	s.listCache.Remove(userID)

	return unisis.ParseActionOutcome(response), nil
}

func (s *Service) fetchListing(ctx context.Context, bearer string) (string, error) {
	jar, err := s.sessions.Jar(ctx, bearer)
	if err != nil {
		return "", err
	}
	return s.client.Get(ctx, unisis.TripsPath, jar)
}
