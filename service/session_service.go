// file: service/session_service.go

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"service-desk/logger"
	"service-desk/model"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cast"
)

const (
	authKeyPrefix  = "auth:"
	flashKeyPrefix = "flash:"
	flashTTL       = time.Hour
)

// SessionService issues signed auth tokens backed by a revocable server-side
// record, and carries one-shot flash messages per visitor.
type SessionService struct {
	cache  ICacheClient
	secret []byte
	ttl    time.Duration
}

func NewSessionService(cache ICacheClient, secret string, ttl time.Duration) *SessionService {
	return &SessionService{cache: cache, secret: []byte(secret), ttl: ttl}
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// NewVisitorID returns an identifier for an anonymous visitor cookie.
func NewVisitorID() string {
	return uuid.NewString()
}

// Start opens an authenticated session for user and returns the signed token.
func (s *SessionService) Start(ctx context.Context, user *model.User) (string, time.Time, error) {
	sessionID := uuid.NewString()
	expiresAt := time.Now().Add(s.ttl)

	if err := s.cache.Set(ctx, authKeyPrefix+sessionID, user.ID, s.ttl).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("could not store session: %w", err)
	}

	claims := &model.SessionClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to sign session token")
		return "", time.Time{}, fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, expiresAt, nil
}

func (s *SessionService) parse(tokenString string, opts ...jwt.ParserOption) (*model.SessionClaims, error) {
	claims := &model.SessionClaims{}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Resolve returns the user id of a live session.
func (s *SessionService) Resolve(ctx context.Context, tokenString string) (int, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, err
	}
	stored, err := s.cache.Get(ctx, authKeyPrefix+claims.ID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrInvalidSession
	}
	if err != nil {
		return 0, fmt.Errorf("could not look up session: %w", err)
	}
	// the record, not the token, says whose session this is
	owner, err := cast.ToIntE(stored)
	if err != nil || owner != claims.UserID {
		logger.Log.WithField("session_id", claims.ID).Warn("Session token does not match its stored owner")
		return 0, ErrInvalidSession
	}
	return claims.UserID, nil
}

// End revokes the session behind tokenString. Expired tokens are accepted so
// a stale cookie can still be logged out.
func (s *SessionService) End(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString, jwt.WithoutClaimsValidation())
	if err != nil {
		return err
	}
	return s.cache.Del(ctx, authKeyPrefix+claims.ID).Err()
}

// AddFlash queues a message for the visitor's next rendered page.
func (s *SessionService) AddFlash(ctx context.Context, visitorID, level, message string) error {
	if visitorID == "" {
		return nil
	}
	payload, err := json.Marshal(model.Flash{Level: level, Message: message})
	if err != nil {
		return err
	}
	key := flashKeyPrefix + visitorID
	if err := s.cache.RPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("could not queue flash message: %w", err)
	}
	return s.cache.Expire(ctx, key, flashTTL).Err()
}

// PopFlashes returns and clears the visitor's queued messages.
func (s *SessionService) PopFlashes(ctx context.Context, visitorID string) ([]model.Flash, error) {
	flashes := []model.Flash{}
	if visitorID == "" {
		return flashes, nil
	}
	key := flashKeyPrefix + visitorID
	pipe := s.cache.TxPipeline()
	rng := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return flashes, fmt.Errorf("could not pop flash messages: %w", err)
	}
	raw := rng.Val()
	for _, item := range raw {
		var f model.Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			logger.Log.WithError(err).Warn("Dropping malformed flash message")
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}
