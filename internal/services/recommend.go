package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/campushub/backend/internal/models"
	"gorm.io/gorm"
)

// Skill-match weighting. Each overlapping skill is worth far more than the
// status bonus so relevance dominates recency of status.
const (
	skillMatchWeight = 10
	activeBonus      = 15
	draftBonus       = 5
)

type RecommendService struct {
	db *gorm.DB
}

func NewRecommendService(db *gorm.DB) *RecommendService {
	return &RecommendService{db: db}
}

// Recommendation is a scored project suggestion.
type Recommendation struct {
	ProjectID     uint     `json:"project_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	Skills        []string `json:"skills"`
	MatchedSkills []string `json:"matched_skills"`
	Score         string   `json:"score"` // two-decimal string
}

// ScoreProject computes the match score for one project against a student's
// skill set (lowercased). Exported for the dashboard's suggestion widget.
func ScoreProject(project *models.Project, skillSet map[string]bool) (float64, []string) {
	matched := []string{}
	for _, skill := range project.SkillList() {
		if skillSet[strings.ToLower(skill)] {
			matched = append(matched, skill)
		}
	}

	score := float64(len(matched) * skillMatchWeight)
	switch project.Status {
	case models.ProjectStatusActive:
		score += activeBonus
	case models.ProjectStatusDraft:
		score += draftBonus
	}
	return score, matched
}

// Recommend ranks open projects for a student by skill overlap and status.
// Projects the student has applied to or joined are excluded. Ties keep the
// candidate query order (newest project first).
func (s *RecommendService) Recommend(studentID uint) ([]Recommendation, error) {
	var profile models.Profile
	skillSet := map[string]bool{}
	if err := s.db.Where("user_id = ?", studentID).First(&profile).Error; err == nil {
		for _, skill := range profile.SkillList() {
			skillSet[strings.ToLower(skill)] = true
		}
	}

	var appliedIDs []uint
	if err := s.db.Model(&models.Application{}).
		Where("student_id = ?", studentID).
		Pluck("project_id", &appliedIDs).Error; err != nil {
		return nil, err
	}
	var memberIDs []uint
	if err := s.db.Model(&models.ProjectMember{}).
		Where("student_id = ?", studentID).
		Pluck("project_id", &memberIDs).Error; err != nil {
		return nil, err
	}

	excluded := map[uint]bool{}
	for _, id := range appliedIDs {
		excluded[id] = true
	}
	for _, id := range memberIDs {
		excluded[id] = true
	}

	var projects []models.Project
	if err := s.db.Where("status IN ?",
		[]string{models.ProjectStatusActive, models.ProjectStatusDraft}).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	type scored struct {
		rec   Recommendation
		score float64
	}
	results := make([]scored, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		if excluded[p.ID] {
			continue
		}
		score, matched := ScoreProject(p, skillSet)
		results = append(results, scored{
			rec: Recommendation{
				ProjectID:     p.ID,
				Title:         p.Title,
				Description:   p.Description,
				Status:        p.Status,
				Skills:        p.SkillList(),
				MatchedSkills: matched,
				Score:         fmt.Sprintf("%.2f", score),
			},
			score: score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	recs := make([]Recommendation, 0, len(results))
	for _, r := range results {
		recs = append(recs, r.rec)
	}
	return recs, nil
}
