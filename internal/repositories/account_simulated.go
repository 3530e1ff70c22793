package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/localstore"
)

// localUser is the stored form of models.User; the hash is not part of the API shape.
type localUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// SimulatedUserRepository keeps sign-in accounts in the local key-value store
// so register and login work without MySQL.
type SimulatedUserRepository struct {
	store localstore.Store
	mu    sync.Mutex
}

func NewSimulatedUserRepository(store localstore.Store) *SimulatedUserRepository {
	return &SimulatedUserRepository{store: store}
}

func (r *SimulatedUserRepository) Create(ctx context.Context, u models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	email := strings.ToLower(strings.TrimSpace(u.Email))

	r.mu.Lock()
	defer r.mu.Unlock()

	_, taken, err := r.store.Get(ctx, localstore.KeyLocalUserEmailPrefix+email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return domain.ConflictError{Resource: "user", Msg: "email already registered"}
	}

	raw, err := json.Marshal(localUser{
		ID: u.ID, Email: email, FullName: u.FullName, Role: u.Role,
		PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := r.store.Put(ctx, localstore.KeyLocalUserPrefix+u.ID, raw); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return r.store.Put(ctx, localstore.KeyLocalUserEmailPrefix+email, []byte(u.ID))
}

func (r *SimulatedUserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	id, found, err := r.store.Get(ctx, localstore.KeyLocalUserEmailPrefix+strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return r.GetByID(ctx, string(id))
}

func (r *SimulatedUserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	raw, found, err := r.store.Get(ctx, localstore.KeyLocalUserPrefix+id)
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	var lu localUser
	if err := json.Unmarshal(raw, &lu); err != nil {
		return models.User{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	return models.User{
		ID: lu.ID, Email: lu.Email, FullName: lu.FullName, Role: lu.Role,
		PasswordHash: lu.PasswordHash, CreatedAt: lu.CreatedAt,
	}, nil
}

// SimulatedProfileRepository keeps one profile document per user in the local store.
type SimulatedProfileRepository struct {
	store localstore.Store
	mu    sync.Mutex
}

func NewSimulatedProfileRepository(store localstore.Store) *SimulatedProfileRepository {
	return &SimulatedProfileRepository{store: store}
}

func (r *SimulatedProfileRepository) GetByUserID(ctx context.Context, userID string) (models.Profile, error) {
	raw, found, err := r.store.Get(ctx, localstore.KeyLocalProfilePrefix+userID)
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !found {
		return models.Profile{}, domain.NotFoundError{Resource: "profile"}
	}
	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.Profile{}, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return p, nil
}

// Upsert keeps the stored id, email and created_at of an existing profile,
// matching the MySQL ON DUPLICATE KEY UPDATE column list.
func (r *SimulatedProfileRepository) Upsert(ctx context.Context, p models.Profile) (models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	existing, err := r.GetByUserID(ctx, p.UserID)
	switch {
	case err == nil:
		p.ID, p.Email, p.CreatedAt = existing.ID, existing.Email, existing.CreatedAt
	case !domain.IsNotFound(err):
		return p, err
	case p.CreatedAt.IsZero():
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	raw, err := json.Marshal(p)
	if err != nil {
		return p, fmt.Errorf("encode profile: %w", err)
	}
	if err := r.store.Put(ctx, localstore.KeyLocalProfilePrefix+p.UserID, raw); err != nil {
		return p, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}
