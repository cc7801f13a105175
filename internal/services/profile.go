package services

import (
	"errors"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

type UpdateProfileRequest struct {
	FullName  *string   `json:"full_name"`
	Bio       *string   `json:"bio"`
	Skills    *[]string `json:"skills"`
	ResumeURL *string   `json:"resume_url"`
	AvatarURL *string   `json:"avatar_url"`
}

// Get returns the caller's profile, creating an empty one for accounts that
// predate profile rows.
func (s *ProfileService) Get(userID uint) (*models.Profile, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	var profile models.Profile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{UserID: userID, Email: user.Email}
		if err := s.db.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update applies partial profile changes, creating the row if missing.
func (s *ProfileService) Update(userID uint, req *UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Skills != nil {
		updates["skills"] = models.JoinSkills(*req.Skills)
	}
	if req.ResumeURL != nil {
		updates["resume_url"] = *req.ResumeURL
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}

	if len(updates) > 0 {
		if err := s.db.Model(profile).Updates(updates).Error; err != nil {
			return nil, err
		}
		if err := s.db.Where("user_id = ?", userID).First(profile).Error; err != nil {
			return nil, err
		}
	}
	return profile, nil
}
