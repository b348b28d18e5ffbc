package auth

import (
	"context"
	"fmt"
	"time"

	"meal-planner/internal/models"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/repository"
	"meal-planner/internal/telegram"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service exchanges Telegram Mini App init data for an API session.
type Service struct {
	users      repository.UserRepository
	botToken   string
	authMaxAge time.Duration
	jwtSecret  []byte
	tokenTTL   time.Duration
}

// NewService creates a new auth service.
func NewService(users repository.UserRepository, botToken string, authMaxAge time.Duration, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		users:      users,
		botToken:   botToken,
		authMaxAge: authMaxAge,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
	}
}

// Session is the result of a successful login.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Login verifies the init data signature, upserts the Telegram user and
// issues a bearer token.
func (s *Service) Login(ctx context.Context, initData string) (*Session, error) {
	data, err := telegram.VerifyInitData(initData, s.botToken, s.authMaxAge)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		TelegramID: data.User.ID,
		FirstName:  data.User.FirstName,
		Username:   data.User.Username,
		Language:   models.NormalizeLang(data.User.LanguageCode),
	}
	user, err = s.users.UpsertByTelegramID(ctx, user)
	if err != nil {
		return nil, common.NewPersistenceError("user upsert", err)
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	token, err := s.signFor(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	common.LogInfo("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.Int64("telegram_id", user.TelegramID),
	)

	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *Service) signFor(userID uuid.UUID) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ParseToken validates a bearer token and returns the user ID it names.
func (s *Service) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, common.NewAuthorizationError("invalid or expired token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, common.NewAuthorizationError("invalid token claims")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, common.NewAuthorizationError("invalid token subject")
	}
	return userID, nil
}
