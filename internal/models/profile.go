package models

import (
	"strings"
	"time"
)

// Profile holds the display and matching data attached to a user.
// Created at registration, or lazily on the first profile update.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FullName  string    `gorm:"size:200;not null" json:"full_name"`
	Email     string    `gorm:"size:255" json:"email"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Skills    string    `gorm:"size:1000" json:"skills"` // comma-joined: Python,React,Go
	ResumeURL string    `gorm:"size:500" json:"resume_url"`
	AvatarURL string    `gorm:"size:500" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// SkillList returns the profile skills as a slice.
func (p *Profile) SkillList() []string {
	return SplitSkills(p.Skills)
}

// SplitSkills parses a comma-joined skill column into a slice,
// dropping empty entries.
func SplitSkills(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinSkills serializes a skill slice into the comma-joined column format.
func JoinSkills(skills []string) string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ",")
}
