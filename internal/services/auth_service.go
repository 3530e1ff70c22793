package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"shuttlego/internal/auth"
	"shuttlego/internal/clock"
	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/repositories"
	"shuttlego/internal/utils"
)

const minPasswordLength = 6

// AuthResult is returned by register and login.
type AuthResult struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	User      models.User `json:"user"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService signs riders up and in. Accounts live in MySQL, or in the local
// store when no database is configured.
type AuthService struct {
	Users     repositories.UserStore
	Profiles  repositories.ProfileStore
	JWT       *auth.JWTService
	Clock     clock.Clock
	RequestID string
}

func (s AuthService) available() error {
	if s.Users == nil || s.JWT == nil {
		return domain.BackendUnavailableError{Op: "accounts"}
	}
	return nil
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if err := s.available(); err != nil {
		return AuthResult{}, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return AuthResult{}, domain.ValidationError{Field: "email", Msg: "must be a valid email address"}
	}
	if len(in.Password) < minPasswordLength {
		return AuthResult{}, domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	}
	fullName := utils.NormalizeSpace(in.FullName)
	if fullName == "" {
		return AuthResult{}, domain.ValidationError{Field: "full_name", Msg: "is required"}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, domain.InternalError{Msg: "hash password", Err: err}
	}

	clk := s.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	now := clk.Now().UTC()
	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		Role:         domain.RoleStudent,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if domain.IsConflict(err) {
			return AuthResult{}, err
		}
		return AuthResult{}, domain.BackendUnavailableError{Op: "create user", Err: err}
	}

	if s.Profiles != nil {
		_, err := s.Profiles.Upsert(ctx, models.Profile{
			ID: uuid.NewString(), UserID: u.ID, Email: u.Email, FullName: u.FullName,
			CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			utils.LogError(s.RequestID, "auth", "create_profile", err)
		}
	}

	utils.LogEvent(s.RequestID, "auth", "register", "user_id="+u.ID)
	return s.issue(u)
}

func (s AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	if err := s.available(); err != nil {
		return AuthResult{}, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return AuthResult{}, domain.ValidationError{Field: "email", Msg: "is required"}
	}
	if in.Password == "" {
		return AuthResult{}, domain.ValidationError{Field: "password", Msg: "is required"}
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return AuthResult{}, domain.AuthRequiredError{Msg: "invalid email or password"}
		}
		return AuthResult{}, domain.BackendUnavailableError{Op: "get user", Err: err}
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return AuthResult{}, domain.AuthRequiredError{Msg: "invalid email or password"}
	}

	utils.LogEvent(s.RequestID, "auth", "login", "user_id="+u.ID)
	return s.issue(u)
}

// Me returns the account behind the current token.
func (s AuthService) Me(ctx context.Context, rc domain.RequestContext) (models.User, error) {
	if !rc.Authenticated() {
		return models.User{}, domain.AuthRequiredError{}
	}
	if s.Users == nil {
		return models.User{ID: rc.UserID, Email: rc.Email, Role: rc.Role}, nil
	}
	u, err := s.Users.GetByID(ctx, rc.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.User{}, err
		}
		return models.User{}, domain.BackendUnavailableError{Op: "get user", Err: err}
	}
	return u, nil
}

func (s AuthService) issue(u models.User) (AuthResult, error) {
	token, err := s.JWT.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		return AuthResult{}, domain.InternalError{Msg: "sign token", Err: err}
	}
	return AuthResult{Token: token, ExpiresIn: int64(s.JWT.TTL().Seconds()), User: u}, nil
}
