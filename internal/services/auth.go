package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sbilibin2017/gw-shoppinglist-api/internal/logger"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Error variables
var (
	ErrMissingCredentials = errors.New("username and password must be provided")
	ErrMissingSecurityQA  = errors.New("security question and answer must be provided")
	ErrWeakPassword       = errors.New("password must be at-least 6 characters")
	ErrUsernameTaken      = errors.New("username is already registered")
	ErrUserDoesNotExist   = errors.New("username does not exist")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrBlankPassword      = errors.New("password must be provided")
	ErrAnswerMismatch     = errors.New("security answer does not match")
)

const minPasswordLength = 6

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID int64) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, passwordHash, securityQuestion, securityAnswer string) (int64, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// TokenGenerator defines an interface for issuing signed tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, userID int64) (string, error)
}

// QuestionCache caches security questions by username.
type QuestionCache interface {
	Get(ctx context.Context, username string) (string, error)
	Set(ctx context.Context, username, question string) error
}

// AuthService handles registration, login and password management.
type AuthService struct {
	reader UserReader
	writer UserWriter
	token  TokenGenerator
	cache  QuestionCache
	events KafkaWriter
}

// NewAuthService creates a new AuthService instance. cache and events may be nil.
func NewAuthService(reader UserReader, writer UserWriter, token TokenGenerator, cache QuestionCache, events KafkaWriter) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		token:  token,
		cache:  cache,
		events: events,
	}
}

// NormalizeUsername case-folds and trims a username the way it is stored.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register creates a new user and returns the assigned id.
func (svc *AuthService) Register(ctx context.Context, username, password, securityQuestion, securityAnswer string) (int64, error) {
	username = NormalizeUsername(username)
	securityQuestion = strings.TrimSpace(securityQuestion)
	securityAnswer = strings.TrimSpace(securityAnswer)

	if username == "" || password == "" {
		return 0, ErrMissingCredentials
	}
	if securityQuestion == "" || securityAnswer == "" {
		return 0, ErrMissingSecurityQA
	}
	if len(password) < minPasswordLength {
		return 0, ErrWeakPassword
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return 0, err
	}
	if user != nil {
		logger.Log.Errorw("user already exists", "username", username)
		return 0, ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return 0, err
	}

	id, err := svc.writer.Save(ctx, username, string(hashedPassword), securityQuestion, securityAnswer)
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return 0, err
	}

	publishEvent(ctx, svc.events, "user.registered", id, id)

	return id, nil
}

// Login authenticates a user and returns a signed token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = NormalizeUsername(username)

	if username == "" || password == "" {
		return "", ErrMissingCredentials
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Errorw("user does not exist", "username", username)
		return "", ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := svc.token.Generate(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", err
	}

	return token, nil
}

// ChangePassword rehashes and persists a new password for an authenticated user.
func (svc *AuthService) ChangePassword(ctx context.Context, userID int64, password string) error {
	if password == "" {
		return ErrBlankPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.writer.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		logger.Log.Errorw("failed to update password", "err", err)
		return err
	}

	return nil
}

// GetSecurityQuestion returns the stored security question for a username.
// Reads go through the cache when one is configured; cache errors are logged
// and ignored.
func (svc *AuthService) GetSecurityQuestion(ctx context.Context, username string) (string, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return "", ErrUserDoesNotExist
	}

	if svc.cache != nil {
		question, err := svc.cache.Get(ctx, username)
		if err != nil {
			logger.Log.Errorw("security question cache read failed", "err", err)
		} else if question != "" {
			return question, nil
		}
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		return "", ErrUserDoesNotExist
	}

	if svc.cache != nil {
		if err := svc.cache.Set(ctx, username, user.SecurityQuestion); err != nil {
			logger.Log.Errorw("security question cache write failed", "err", err)
		}
	}

	return user.SecurityQuestion, nil
}

// ResetPassword sets a new password after a case-insensitive match of the
// stored security answer.
func (svc *AuthService) ResetPassword(ctx context.Context, username, password, answer string) error {
	username = NormalizeUsername(username)
	if username == "" {
		return ErrUserDoesNotExist
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		return ErrUserDoesNotExist
	}

	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	if !strings.EqualFold(strings.TrimSpace(answer), user.SecurityAnswer) {
		logger.Log.Errorw("security answer mismatch", "username", username)
		return ErrAnswerMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.writer.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		logger.Log.Errorw("failed to update password", "err", err)
		return err
	}

	return nil
}
