package models

import "time"

const (
	VacancyStatusActive = "active"
)

type Vacancy struct {
	ID                 int64          `json:"id" gorm:"primaryKey"`
	Title              string         `json:"title"`
	Status             string         `json:"status" gorm:"index;default:active"`
	Location           string         `json:"location"`
	DesiredPosition    string         `json:"desired_position"`
	EmploymentType     string         `json:"employment_type"`
	EducationLevel     string         `json:"education_level"`
	Age                Number         `json:"age"`
	DesiredSalary      Number         `json:"desired_salary"`
	SalaryMin          Number         `json:"salary_min"`
	SalaryMax          Number         `json:"salary_max"`
	Skills             []string       `json:"skills" gorm:"serializer:json"`
	SkillsTechnologies []string       `json:"skills_technologies" gorm:"serializer:json"`
	Languages          []Language     `json:"languages" gorm:"serializer:json"`
	WorkExperience     WorkExperience `json:"work_experience" gorm:"serializer:json"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// Salary returns the salary the vacancy offers: the desired salary when given,
// otherwise the middle of the range, otherwise whichever bound is present.
func (v *Vacancy) Salary() Number {
	if !v.DesiredSalary.IsEmpty() {
		return v.DesiredSalary
	}

	low, lowOk := v.SalaryMin.Float()
	high, highOk := v.SalaryMax.Float()
	switch {
	case lowOk && highOk:
		return NumberOf((low + high) / 2)
	case !v.SalaryMin.IsEmpty():
		return v.SalaryMin
	default:
		return v.SalaryMax
	}
}

// Position returns the position the vacancy is for, falling back to its title.
func (v *Vacancy) Position() string {
	if v.DesiredPosition != "" {
		return v.DesiredPosition
	}
	return v.Title
}
