package models

import (
	"strings"
	"time"
)

const (
	CandidateStatusNew = "new"
)

type Language struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

func (l Language) Leaves() []string {
	return nonEmpty(l.Name, l.Level)
}

type WorkExperience struct {
	Company          string   `json:"company,omitempty"`
	Period           string   `json:"period,omitempty"`
	Duration         string   `json:"duration,omitempty"`
	Position         string   `json:"position,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

func (w WorkExperience) Leaves() []string {
	leaves := nonEmpty(w.Company, w.Period, w.Duration, w.Position)
	return append(leaves, nonEmpty(w.Responsibilities...)...)
}

// Candidate is a resume after structured extraction.
// A nil list was never populated, an empty non-nil list was declared empty.
type Candidate struct {
	ID                 int64            `json:"id" gorm:"primaryKey"`
	Name               string           `json:"name"`
	Status             string           `json:"status" gorm:"index;default:new"`
	Location           string           `json:"location"`
	DesiredPosition    string           `json:"desired_position"`
	EmploymentType     string           `json:"employment_type"`
	EducationLevel     string           `json:"education_level"`
	Age                Number           `json:"age"`
	DesiredSalary      Number           `json:"desired_salary"`
	Skills             []string         `json:"skills" gorm:"serializer:json"`
	SkillsTechnologies []string         `json:"skills_technologies" gorm:"serializer:json"`
	Languages          []Language       `json:"languages" gorm:"serializer:json"`
	WorkExperience     []WorkExperience `json:"work_experience" gorm:"serializer:json"`
	ExtractedAt        *time.Time       `json:"extracted_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// IsScorable reports whether structured extraction has finished for the candidate.
func (c *Candidate) IsScorable() bool {
	return c.ExtractedAt != nil
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
