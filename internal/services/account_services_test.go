package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shuttlego/internal/auth"
	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/localstore"
	"shuttlego/internal/repositories"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func (m *memUsers) Create(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users == nil {
		m.users = map[string]models.User{}
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.ConflictError{Resource: "user", Msg: "email already registered"}
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func (m *memUsers) GetByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

type memProfiles struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
}

func (m *memProfiles) GetByUserID(_ context.Context, userID string) (models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return models.Profile{}, domain.NotFoundError{Resource: "profile"}
	}
	return p, nil
}

func (m *memProfiles) Upsert(_ context.Context, p models.Profile) (models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profiles == nil {
		m.profiles = map[string]models.Profile{}
	}
	m.profiles[p.UserID] = p
	return p, nil
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	profiles := &memProfiles{}
	svc := AuthService{
		Users:    &memUsers{},
		Profiles: profiles,
		JWT:      auth.NewJWTService("test-secret", time.Hour),
	}

	res, err := svc.Register(ctx, RegisterInput{Email: " Ama@St.UG.edu.gh ", Password: "secret1", FullName: "Ama  Owusu"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ama@st.ug.edu.gh", res.User.Email)
	assert.Equal(t, domain.RoleStudent, res.User.Role)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	p, err := profiles.GetByUserID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ama Owusu", p.FullName)

	_, err = svc.Register(ctx, RegisterInput{Email: "ama@st.ug.edu.gh", Password: "secret1", FullName: "Ama"})
	assert.True(t, domain.IsConflict(err))

	login, err := svc.Login(ctx, LoginInput{Email: "AMA@st.ug.edu.gh", Password: "secret1"})
	require.NoError(t, err)
	uid, role, err := svc.JWT.ExtractUserID(login.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, uid)
	assert.Equal(t, domain.RoleStudent, role)

	_, err = svc.Login(ctx, LoginInput{Email: "ama@st.ug.edu.gh", Password: "wrong"})
	assert.True(t, domain.IsAuthRequired(err))
}

func TestAuthService_ValidationAndUnavailable(t *testing.T) {
	ctx := context.Background()
	svc := AuthService{Users: &memUsers{}, JWT: auth.NewJWTService("k", time.Hour)}

	_, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "secret1", FullName: "A"})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "123", FullName: "A"})
	assert.True(t, domain.IsValidation(err))

	_, err = AuthService{}.Login(ctx, LoginInput{Email: "a@b.co", Password: "x"})
	assert.True(t, domain.IsBackendUnavailable(err))
}

func TestProfileService_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	svc := ProfileService{Profiles: &memProfiles{}}
	rc := domain.RequestContext{UserID: "u1", Email: "kofi@st.ug.edu.gh"}

	blank, err := svc.Get(ctx, rc)
	require.NoError(t, err)
	assert.Equal(t, "kofi@st.ug.edu.gh", blank.Email)

	name, dept, year := "Kofi Mensah", "Computer Science", 3
	prefs := json.RawMessage(`{"email":true,"push":false}`)
	p, err := svc.Update(ctx, rc, models.ProfileUpdate{FullName: &name, Department: &dept, YearOfStudy: &year, NotificationPreferences: &prefs})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 3, p.YearOfStudy)

	phone := "0244000000"
	p, err = svc.Update(ctx, rc, models.ProfileUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Kofi Mensah", p.FullName, "absent fields are untouched")
	assert.Equal(t, "0244000000", p.Phone)

	bad := 12
	_, err = svc.Update(ctx, rc, models.ProfileUpdate{YearOfStudy: &bad})
	assert.True(t, domain.IsValidation(err))
}

func TestFeedbackService_Submit(t *testing.T) {
	ctx := context.Background()
	svc := FeedbackService{Store: repositories.NewSimulatedFeedbackRepository(localstore.NewMemoryStore())}

	f, err := svc.Submit(ctx, student, FeedbackInput{ShuttleID: "s1", Rating: 5, Comment: "On time"})
	require.NoError(t, err)
	assert.Equal(t, "general", f.Category)
	assert.Equal(t, "open", f.Status)

	for _, rating := range []int{0, 6} {
		_, err = svc.Submit(ctx, student, FeedbackInput{Rating: rating})
		assert.True(t, domain.IsValidation(err))
	}

	list, err := svc.List(ctx, student)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSettingsService_RoundTripAndDefaults(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemoryStore()
	svc := SettingsService{Store: store}

	s, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "system", s.Theme)

	_, err = svc.Put(ctx, "u1", Settings{Theme: "Dark", MapProvider: "google"})
	require.NoError(t, err)
	s, err = svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "dark", s.Theme)
	assert.Equal(t, "google", s.MapProvider)
	assert.Equal(t, "en", s.Language)

	_, err = svc.Put(ctx, "u1", Settings{MapProvider: "mapbox"})
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, store.Put(ctx, settingsKey("u2"), []byte("{not json")))
	s, err = svc.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, defaultSettings(), s)
}

func TestTrackingService_UpdateLocationAndMap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 30, 27)
	svc := TrackingService{Store: f.catalog, Cache: f.svc.Cache, Events: f.bus}
	_, err := f.svc.Cache.Load(ctx)
	require.NoError(t, err)

	sub, unsubscribe := f.bus.Subscribe()
	defer unsubscribe()

	sh, err := svc.UpdateLocation(ctx, "s1", 5.6075, -0.1895)
	require.NoError(t, err)
	require.NotNil(t, sh.Location)

	select {
	case e := <-sub:
		assert.Equal(t, "shuttle.updated", string(e.Topic))
		assert.Empty(t, e.UserID)
	case <-time.After(time.Second):
		t.Fatal("expected shuttle.updated")
	}

	_, err = svc.UpdateLocation(ctx, "s1", 95, 0)
	assert.True(t, domain.IsValidation(err))

	positions, err := svc.Shuttles(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "Central Loop", positions[0].RouteName)

	view, err := svc.Map(ctx)
	require.NoError(t, err)
	assert.Equal(t, "osm", view.Provider)
	require.Len(t, view.Markers, 1)
	assert.Equal(t, "red", view.Markers[0].Color)
	assert.Equal(t, "27/30", view.Markers[0].Occupancy)
	assert.Len(t, view.Landmarks, 7)

	google := NewMapProvider("key-123").Render(positions)
	assert.Equal(t, "google", google.Provider)
	assert.Contains(t, google.ScriptURL, "key=key-123")
}
