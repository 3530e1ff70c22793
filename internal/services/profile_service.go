package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"shuttlego/internal/clock"
	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/repositories"
	"shuttlego/internal/utils"
)

type ProfileService struct {
	Profiles  repositories.ProfileStore
	Clock     clock.Clock
	RequestID string
}

// Get returns the stored profile, or a blank one built from the token when
// the rider has not saved anything yet.
func (s ProfileService) Get(ctx context.Context, rc domain.RequestContext) (models.Profile, error) {
	if !rc.Authenticated() {
		return models.Profile{}, domain.AuthRequiredError{}
	}
	if s.Profiles == nil {
		return blankProfile(rc), nil
	}
	p, err := s.Profiles.GetByUserID(ctx, rc.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return blankProfile(rc), nil
		}
		return models.Profile{}, domain.BackendUnavailableError{Op: "get profile", Err: err}
	}
	return p, nil
}

// Update applies the fields present in upd.
func (s ProfileService) Update(ctx context.Context, rc domain.RequestContext, upd models.ProfileUpdate) (models.Profile, error) {
	if !rc.Authenticated() {
		return models.Profile{}, domain.AuthRequiredError{}
	}
	if s.Profiles == nil {
		return models.Profile{}, domain.BackendUnavailableError{Op: "profiles"}
	}
	p, err := s.Get(ctx, rc)
	if err != nil {
		return models.Profile{}, err
	}

	if upd.FullName != nil {
		name := utils.NormalizeSpace(*upd.FullName)
		if name == "" {
			return models.Profile{}, domain.ValidationError{Field: "full_name", Msg: "cannot be empty"}
		}
		p.FullName = name
	}
	if upd.Phone != nil {
		phone := strings.TrimSpace(*upd.Phone)
		if len(phone) > 20 {
			return models.Profile{}, domain.ValidationError{Field: "phone", Msg: "is too long"}
		}
		p.Phone = phone
	}
	if upd.StudentID != nil {
		p.StudentID = strings.TrimSpace(*upd.StudentID)
	}
	if upd.Department != nil {
		p.Department = utils.NormalizeSpace(*upd.Department)
	}
	if upd.YearOfStudy != nil {
		if *upd.YearOfStudy < 0 || *upd.YearOfStudy > 8 {
			return models.Profile{}, domain.ValidationError{Field: "year_of_study", Msg: "must be between 0 and 8"}
		}
		p.YearOfStudy = *upd.YearOfStudy
	}
	if upd.AvatarURL != nil {
		p.AvatarURL = strings.TrimSpace(*upd.AvatarURL)
	}
	if upd.NotificationPreferences != nil {
		if len(*upd.NotificationPreferences) > 0 && !json.Valid(*upd.NotificationPreferences) {
			return models.Profile{}, domain.ValidationError{Field: "notification_preferences", Msg: "must be valid JSON"}
		}
		p.NotificationPreferences = *upd.NotificationPreferences
	}

	clk := s.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	now := clk.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	saved, err := s.Profiles.Upsert(ctx, p)
	if err != nil {
		return models.Profile{}, domain.BackendUnavailableError{Op: "save profile", Err: err}
	}
	utils.LogEvent(s.RequestID, "profile", "update", "user_id="+rc.UserID)
	return saved, nil
}

func blankProfile(rc domain.RequestContext) models.Profile {
	return models.Profile{UserID: rc.UserID, Email: rc.Email}
}
