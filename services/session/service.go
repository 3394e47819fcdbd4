// Package session bridges the portal's cookie-based login into opaque
// bearer credentials. The signed token is proof of identity, the vault
// entry is proof of a live session; authorization requires both, so
// revocation is simply deleting the vault entry.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"unigate-backend/lib/scrapers/unisis"
	"unigate-backend/lib/timezone"
	"unigate-backend/services/vault"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("unigate.services.session")

const (
	sessionKeyPrefix = "session:"
	refreshKeyPrefix = "refresh:"

	refreshHandleLength = 48
)

type Options struct {
	SigningKey []byte
	// bearer lifetime, defaults to 15 minutes
	AccessTTL time.Duration
	// refresh handle lifetime, defaults to 30 days
	RefreshTTL time.Duration
}

type Service struct {
	store  vault.Store
	client *unisis.Client
	opts   Options
}

func NewService(store vault.Store, client *unisis.Client, opts Options) Service {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = time.Minute * 15
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = time.Hour * 24 * 30
	}
	return Service{
		store:  store,
		client: client,
		opts:   opts,
	}
}

type Credentials struct {
	Bearer        string
	RefreshHandle string
	// seconds until the bearer expires
	ExpiresIn int64
}

// the refresh handle binds 1:1 to a user identity. No password is ever
// stored: refreshing re-authenticates upstream with a re-supplied
// password, so a stolen handle alone authorizes nothing.
type refreshRecord struct {
	UserID    string `json:"userId"`
	CreatedAt int64  `json:"createdAt"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Login exchanges a username/password with the portal for a bearer
// credential and refresh handle. The portal signals success only via a
// redirect status combined with a non-empty cookie set; any other
// combination (including a plain 200) is an authentication failure,
// never a transport error.
func (s Service) Login(ctx context.Context, userID, password string) (Credentials, error) {
	ctx, span := tracer.Start(ctx, "session:Login")
	defer span.End()

	res, err := s.client.Login(ctx, userID, password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login exchange failed")
		return Credentials{}, err
	}
	if !res.Redirected() || res.Cookies.Empty() {
		span.SetStatus(codes.Error, "portal rejected credentials")
		return Credentials{}, ErrAuthentication
	}

	return s.issue(ctx, userID, res.Cookies)
}

func (s Service) issue(ctx context.Context, userID string, jar unisis.Jar) (Credentials, error) {
	ctx, span := tracer.Start(ctx, "session:issue")
	defer span.End()

	now := timezone.Now()

	// the bearer embeds only the user identity, never the cookies;
	// it is a lookup key, not a data container
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.AccessTTL)),
	}
	bearer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.opts.SigningKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to sign bearer token")
		return Credentials{}, err
	}

	jarJson, err := json.Marshal(jar)
	if err != nil {
		return Credentials{}, err
	}
	err = s.store.Set(ctx, sessionKeyPrefix+bearer, jarJson, s.opts.AccessTTL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to store cookie jar")
		return Credentials{}, err
	}

	handle, err := random.String(refreshHandleLength)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate refresh handle")
		return Credentials{}, err
	}
	recordJson, err := json.Marshal(refreshRecord{
		UserID:    userID,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.opts.RefreshTTL).Unix(),
	})
	if err != nil {
		return Credentials{}, err
	}
	err = s.store.Set(ctx, refreshKeyPrefix+handle, recordJson, s.opts.RefreshTTL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to store refresh record")
		return Credentials{}, err
	}

	return Credentials{
		Bearer:        bearer,
		RefreshHandle: handle,
		ExpiresIn:     int64(s.opts.AccessTTL.Seconds()),
	}, nil
}

// parseBearer checks signature and embedded expiry only; liveness of
// the vault entry is a separate question.
func (s Service) parseBearer(bearer string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		bearer, claims,
		func(*jwt.Token) (any, error) { return s.opts.SigningKey, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", ErrTokenExpired
	}
	if err != nil {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

// Verify resolves a bearer credential to its user identity. A bearer
// is valid iff its signature verifies AND a non-expired vault entry
// still exists for it; signature validity alone is insufficient.
func (s Service) Verify(ctx context.Context, bearer string) (string, error) {
	ctx, span := tracer.Start(ctx, "session:Verify")
	defer span.End()

	userID, err := s.parseBearer(bearer)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	_, ok, err := s.store.Get(ctx, sessionKeyPrefix+bearer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read session entry")
		return "", err
	}
	if !ok {
		span.SetStatus(codes.Error, "session entry gone")
		return "", ErrTokenRevoked
	}

	return userID, nil
}

// Jar resolves a bearer credential back into the portal cookie jar for
// authenticated upstream actions. Same validity rules as Verify.
func (s Service) Jar(ctx context.Context, bearer string) (unisis.Jar, error) {
	ctx, span := tracer.Start(ctx, "session:Jar")
	defer span.End()

	_, err := s.parseBearer(bearer)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	value, ok, err := s.store.Get(ctx, sessionKeyPrefix+bearer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read session entry")
		return nil, err
	}
	if !ok {
		span.SetStatus(codes.Error, "session entry gone")
		return nil, ErrTokenRevoked
	}

	var jar unisis.Jar
	err = json.Unmarshal(value, &jar)
	if err != nil {
		return nil, fmt.Errorf("corrupt session entry: %w", err)
	}
	return jar, nil
}

// Refresh rotates credentials. The handle is single-tenant but not
// single-use; reuse before expiry simply re-authenticates. Because no
// password vault exists, the password must be re-supplied and the full
// login flow re-runs.
func (s Service) Refresh(ctx context.Context, handle, userID, password string) (Credentials, error) {
	ctx, span := tracer.Start(ctx, "session:Refresh")
	defer span.End()

	value, ok, err := s.store.Get(ctx, refreshKeyPrefix+handle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read refresh record")
		return Credentials{}, err
	}
	if !ok {
		span.SetStatus(codes.Error, "refresh handle not found")
		return Credentials{}, ErrRefreshNotFound
	}

	var record refreshRecord
	err = json.Unmarshal(value, &record)
	if err != nil {
		return Credentials{}, fmt.Errorf("corrupt refresh record: %w", err)
	}
	if timezone.Now().Unix() >= record.ExpiresAt {
		// remove the stale entry while we're here
		_ = s.store.Delete(ctx, refreshKeyPrefix+handle)
		span.SetStatus(codes.Error, "refresh handle expired")
		return Credentials{}, ErrRefreshExpired
	}
	if record.UserID != userID {
		span.SetStatus(codes.Error, "refresh handle belongs to another user")
		return Credentials{}, ErrRefreshNotFound
	}

	return s.Login(ctx, userID, password)
}

// Logout deletes both credential entries. Idempotent: logging out
// twice, or with credentials that never existed, is not an error.
func (s Service) Logout(ctx context.Context, bearer, handle string) error {
	ctx, span := tracer.Start(ctx, "session:Logout")
	defer span.End()

	err := errors.Join(
		s.store.Delete(ctx, sessionKeyPrefix+bearer),
		s.store.Delete(ctx, refreshKeyPrefix+handle),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete credential entries")
	}
	return err
}
