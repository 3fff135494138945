package service

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/clementroume/holbertonschool-files-manager/internal/kvstore"
	"github.com/clementroume/holbertonschool-files-manager/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const sessionKeyPrefix = "auth_"

// AuthService manages session tokens: opaque random strings mapped to a user
// id in the credential store until they expire or are revoked.
type AuthService struct {
	userRepository repository.UserRepository
	store          kvstore.Store
	sessionTTL     time.Duration
}

func NewAuthService(userRepository repository.UserRepository, store kvstore.Store, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		store:          store,
		sessionTTL:     sessionTTL,
	}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Issue checks the credentials and opens a new session for the user.
func (s *AuthService) Issue(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			sessionsTotal.WithLabelValues("issue", "denied").Inc()
			return "", ErrUnauthenticated
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		sessionsTotal.WithLabelValues("issue", "denied").Inc()
		return "", ErrUnauthenticated
	}

	token, err := GenerateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.store.Set(ctx, sessionKey(token), user.ID, s.sessionTTL)
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	sessionsTotal.WithLabelValues("issue", "ok").Inc()
	slog.Debug("session issued", "user_id", user.ID)

	return token, nil
}

// Resolve returns the id of the user owning token. Unknown, expired or empty
// tokens and tokens whose user no longer exists fail with ErrUnauthenticated.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}

	userID, err := s.store.Get(ctx, sessionKey(token))
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", ErrUnauthenticated
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}

	_, err = s.userRepository.ByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", ErrUnauthenticated
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	return userID, nil
}

// Revoke ends the session. Unknown tokens are ignored.
func (s *AuthService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	err := s.store.Del(ctx, sessionKey(token))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	sessionsTotal.WithLabelValues("revoke", "ok").Inc()
	return nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// ComparePassword accepts bcrypt hashes and legacy unsalted SHA-1 hex digests.
func (s *AuthService) ComparePassword(password, hash string) error {
	if isLegacyDigest(hash) {
		sum := sha1.Sum([]byte(password))
		digest := hex.EncodeToString(sum[:])
		if subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(hash))) != 1 {
			return bcrypt.ErrMismatchedHashAndPassword
		}
		return nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func isLegacyDigest(hash string) bool {
	if len(hash) != sha1.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

func GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
