package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"answerly/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/hkdf"
)

const (
	sessionKeyPrefix  = "session:"
	sessionIssuer     = "answerly"
	sessionSigningKey = "answerly session signing key v1"
)

var ErrInvalidSessionToken = errors.New("invalid session token")

type SessionStoreConfig struct {
	RedisClient *redis.Client
	SecretKey   string
	TTL         time.Duration
}

// SessionStore keeps session data in Redis. Browsers only hold a signed
// JWT whose ID names the Redis record.
type SessionStore struct {
	client     *redis.Client
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewSessionStore(cfg *SessionStoreConfig) (*SessionStore, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key cannot be empty")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	key, err := deriveKey(cfg.SecretKey, sessionSigningKey)
	if err != nil {
		return nil, err
	}

	return &SessionStore{
		client:     cfg.RedisClient,
		signingKey: key,
		ttl:        cfg.TTL,
		now:        time.Now,
	}, nil
}

func deriveKey(secret, info string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive %q: %w", info, err)
	}
	return key, nil
}

func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// New returns an anonymous session with a fresh ID. It is not persisted
// until Save.
func (s *SessionStore) New() *models.Session {
	return &models.Session{ID: uuid.New().String()}
}

// Sign returns the cookie value for a session.
func (s *SessionStore) Sign(session *models.Session) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        session.ID,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.signingKey)
}

// Parse validates a cookie value and returns the session ID it carries.
func (s *SessionStore) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	if claims.ID == "" {
		return "", ErrInvalidSessionToken
	}
	return claims.ID, nil
}

// Load returns the session named by a cookie value. A missing, forged or
// expired cookie yields a new anonymous session and fresh=true.
func (s *SessionStore) Load(ctx context.Context, tokenString string) (session *models.Session, fresh bool) {
	if tokenString == "" {
		return s.New(), true
	}

	id, err := s.Parse(tokenString)
	if err != nil {
		slog.Debug("discarding session cookie", slog.Any("err", err))
		return s.New(), true
	}

	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("failed to load session", slog.String("session_id", id), slog.Any("err", err))
		}
		return &models.Session{ID: id}, false
	}

	var loaded models.Session
	if err := json.Unmarshal(data, &loaded); err != nil {
		slog.Error("failed to decode session", slog.String("session_id", id), slog.Any("err", err))
		return &models.Session{ID: id}, false
	}
	loaded.ID = id
	return &loaded, false
}

// Save writes the session and slides its expiry.
func (s *SessionStore) Save(ctx context.Context, session *models.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session and session ID cannot be empty")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+session.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
