package profile

import (
	"errors"
	"fmt"
	"strings"
)

// StorageKey is the fixed key the profile is stored under.
const StorageKey = "studentProfile"

var ErrInvalidProfile = errors.New("invalid profile")

// Profile is the student record captured by the onboarding wizard.
type Profile struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Branch      string   `json:"branch"`
	Year        string   `json:"year"`
	Interests   []string `json:"interests"`
	CareerGoals string   `json:"careerGoals"`
}

// Normalize trims every field and drops blank or repeated interests.
func (p Profile) Normalize() Profile {
	out := Profile{
		Name:        strings.TrimSpace(p.Name),
		Email:       strings.TrimSpace(p.Email),
		Branch:      strings.TrimSpace(p.Branch),
		Year:        strings.TrimSpace(p.Year),
		CareerGoals: strings.TrimSpace(p.CareerGoals),
		Interests:   make([]string, 0, len(p.Interests)),
	}
	seen := make(map[string]struct{}, len(p.Interests))
	for _, interest := range p.Interests {
		interest = strings.TrimSpace(interest)
		if interest == "" {
			continue
		}
		if _, dup := seen[interest]; dup {
			continue
		}
		seen[interest] = struct{}{}
		out.Interests = append(out.Interests, interest)
	}
	return out
}

// Validate applies the wizard's step checks in order: name and email, then
// branch and year, then interests and career goals.
func (p Profile) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	case p.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidProfile)
	case !strings.Contains(p.Email, "@"):
		return fmt.Errorf("%w: email %q is malformed", ErrInvalidProfile, p.Email)
	case p.Branch == "":
		return fmt.Errorf("%w: branch is required", ErrInvalidProfile)
	case p.Year == "":
		return fmt.Errorf("%w: year is required", ErrInvalidProfile)
	case len(p.Interests) == 0:
		return fmt.Errorf("%w: pick at least one interest", ErrInvalidProfile)
	case p.CareerGoals == "":
		return fmt.Errorf("%w: career goals are required", ErrInvalidProfile)
	}
	return nil
}

// Branches lists the branches offered by the onboarding wizard.
func Branches() []string {
	return []string{
		"Computer Science",
		"Information Technology",
		"Electronics",
		"Mechanical Engineering",
		"Electrical Engineering",
		"Chemical Engineering",
		"Civil Engineering",
		"Other",
	}
}

// Years lists the academic years offered by the onboarding wizard.
func Years() []string {
	return []string{"1st Year", "2nd Year", "3rd Year", "4th Year", "Graduated"}
}

// Interest is a selectable area of interest.
type Interest struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Interests lists the interest options offered by the onboarding wizard.
func Interests() []Interest {
	return []Interest{
		{ID: "tech", Label: "Technology"},
		{ID: "ai", Label: "Artificial Intelligence"},
		{ID: "web", Label: "Web Development"},
		{ID: "data", Label: "Data Science"},
		{ID: "cloud", Label: "Cloud Computing"},
		{ID: "mobile", Label: "Mobile Development"},
		{ID: "security", Label: "Cybersecurity"},
		{ID: "ml", Label: "Machine Learning"},
	}
}
