package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Freeeeeet/study_planner/internal/auth"
	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/repository"
	"go.uber.org/zap"
)

const minPasswordLength = 6

type UserService struct {
	userRepo UserStore
	tokens   TokenIssuer
	logger   *zap.Logger
}

func NewUserService(userRepo UserStore, tokens TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// AuthResult пользователь и выданный ему токен
type AuthResult struct {
	User  *model.User
	Token string
}

// SignUp регистрирует пользователя по email и паролю
func (s *UserService) SignUp(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, validationError("Please fill in all required fields")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("Please provide a valid email")
	}
	if len(password) < minPasswordLength {
		return nil, validationError("Password must be at least %d characters", minPasswordLength)
	}

	// Проверяем существует ли пользователь
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        &email,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", email),
	)

	return s.withToken(user)
}

// Login проверяет email и пароль. Любое несовпадение даёт ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, validationError("Please provide email and password")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Info("Failed login attempt", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	return s.withToken(user)
}

func (s *UserService) withToken(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// RegisterTelegramUser регистрирует или обновляет пользователя, пришедшего из Telegram
func (s *UserService) RegisterTelegramUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	name := strings.TrimSpace(firstName + " " + lastName)

	// Проверяем существует ли пользователь
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	// Если пользователь уже существует, обновляем данные
	if existingUser != nil {
		existingUser.Username = username
		existingUser.LanguageCode = languageCode
		if existingUser.Name == "" {
			existingUser.Name = name
		}

		if err := s.userRepo.Update(ctx, existingUser); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Info("User updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)

		return existingUser, nil
	}

	// Создаём нового пользователя
	user := &model.User{
		Name:         name,
		TelegramID:   &telegramID,
		Username:     username,
		LanguageCode: languageCode,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New telegram user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
	)

	return user, nil
}

// LinkTelegram привязывает Telegram к аккаунту с email и паролем.
// Если Telegram был привязан к другому профилю, привязка переносится.
func (s *UserService) LinkTelegram(ctx context.Context, telegramID int64, email, password string) (*model.User, error) {
	account, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if account == nil || !auth.CheckPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if account.TelegramID != nil && *account.TelegramID == telegramID {
		return account, nil
	}

	previous, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get telegram user: %w", err)
	}
	if previous != nil && previous.ID != account.ID {
		previous.TelegramID = nil
		if err := s.userRepo.Update(ctx, previous); err != nil {
			return nil, fmt.Errorf("unlink previous profile: %w", err)
		}
	}

	account.TelegramID = &telegramID
	if err := s.userRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("link telegram: %w", err)
	}

	s.logger.Info("Telegram linked",
		zap.Int64("user_id", account.ID),
		zap.Int64("telegram_id", telegramID))

	return account, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
