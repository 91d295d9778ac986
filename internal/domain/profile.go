package domain

import (
	"fmt"
	"time"
)

type ProfileStatus string

const (
	ProfileStatusDraft    ProfileStatus = "DRAFT"
	ProfileStatusPending  ProfileStatus = "PENDING"
	ProfileStatusApproved ProfileStatus = "APPROVED"
	ProfileStatusRejected ProfileStatus = "REJECTED"
)

// ParseProfileStatus converts a stored status string into a ProfileStatus.
func ParseProfileStatus(s string) (ProfileStatus, error) {
	switch st := ProfileStatus(s); st {
	case ProfileStatusDraft, ProfileStatusPending, ProfileStatusApproved, ProfileStatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("unknown profile status %q", s)
	}
}

func (s ProfileStatus) Valid() bool {
	switch s {
	case ProfileStatusDraft, ProfileStatusPending, ProfileStatusApproved, ProfileStatusRejected:
		return true
	}
	return false
}

type Language struct {
	Name  string `json:"name" firestore:"name"`
	Level string `json:"level,omitempty" firestore:"level,omitempty"`
}

type PortfolioItem struct {
	Title       string `json:"title" firestore:"title"`
	URL         string `json:"url,omitempty" firestore:"url,omitempty"`
	Description string `json:"description,omitempty" firestore:"description,omitempty"`
}

type EducationEntry struct {
	School    string `json:"school" firestore:"school"`
	Degree    string `json:"degree,omitempty" firestore:"degree,omitempty"`
	Field     string `json:"field,omitempty" firestore:"field,omitempty"`
	StartYear int    `json:"start_year,omitempty" firestore:"startYear,omitempty"`
	EndYear   int    `json:"end_year,omitempty" firestore:"endYear,omitempty"`
}

type ExperienceEntry struct {
	Company     string `json:"company" firestore:"company"`
	Position    string `json:"position,omitempty" firestore:"position,omitempty"`
	StartYear   int    `json:"start_year,omitempty" firestore:"startYear,omitempty"`
	EndYear     int    `json:"end_year,omitempty" firestore:"endYear,omitempty"`
	Description string `json:"description,omitempty" firestore:"description,omitempty"`
}

type Certification struct {
	Name   string `json:"name" firestore:"name"`
	Issuer string `json:"issuer,omitempty" firestore:"issuer,omitempty"`
	Year   int    `json:"year,omitempty" firestore:"year,omitempty"`
}

type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty" firestore:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty" firestore:"twitter,omitempty"`
	GitHub    string `json:"github,omitempty" firestore:"github,omitempty"`
	Instagram string `json:"instagram,omitempty" firestore:"instagram,omitempty"`
}

// AlumniProfile is one directory entry, keyed by the owning account's UID.
// Moderation fields (DateValidation, ValidatedBy, RejectionReason) are owned
// by the lifecycle engine and must never be written by profile owners.
type AlumniProfile struct {
	UID       string `json:"uid" firestore:"uid"`
	Email     string `json:"email" firestore:"email"`
	Name      string `json:"name" firestore:"name"`
	YearPromo int    `json:"year_promo" firestore:"yearPromo"`

	Status          ProfileStatus `json:"status" firestore:"status"`
	DateCreated     time.Time     `json:"date_created" firestore:"dateCreated"`
	DateUpdated     time.Time     `json:"date_updated" firestore:"dateUpdated"`
	DateValidation  *time.Time    `json:"date_validation,omitempty" firestore:"dateValidation,omitempty"`
	ValidatedBy     string        `json:"validated_by,omitempty" firestore:"validatedBy,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty" firestore:"rejectionReason,omitempty"`

	Headline           string            `json:"headline,omitempty" firestore:"headline,omitempty"`
	Bio                string            `json:"bio,omitempty" firestore:"bio,omitempty"`
	Position           string            `json:"position,omitempty" firestore:"position,omitempty"`
	Company            string            `json:"company,omitempty" firestore:"company,omitempty"`
	CompanyDescription string            `json:"company_description,omitempty" firestore:"companyDescription,omitempty"`
	CompanyWebsite     string            `json:"company_website,omitempty" firestore:"companyWebsite,omitempty"`
	PersonalWebsite    string            `json:"personal_website,omitempty" firestore:"personalWebsite,omitempty"`
	City               string            `json:"city,omitempty" firestore:"city,omitempty"`
	Country            string            `json:"country,omitempty" firestore:"country,omitempty"`
	Availability       string            `json:"availability,omitempty" firestore:"availability,omitempty"`
	PhotoURL           string            `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	Sectors            []string          `json:"sectors,omitempty" firestore:"sectors,omitempty"`
	Expertise          []string          `json:"expertise,omitempty" firestore:"expertise,omitempty"`
	Seeking            []string          `json:"seeking,omitempty" firestore:"seeking,omitempty"`
	Offering           []string          `json:"offering,omitempty" firestore:"offering,omitempty"`
	SoftSkills         []string          `json:"soft_skills,omitempty" firestore:"softSkills,omitempty"`
	Services           []string          `json:"services,omitempty" firestore:"services,omitempty"`
	Languages          []Language        `json:"languages,omitempty" firestore:"languages,omitempty"`
	Portfolio          []PortfolioItem   `json:"portfolio,omitempty" firestore:"portfolio,omitempty"`
	Education          []EducationEntry  `json:"education,omitempty" firestore:"education,omitempty"`
	Experience         []ExperienceEntry `json:"experience,omitempty" firestore:"experience,omitempty"`
	Certifications     []Certification   `json:"certifications,omitempty" firestore:"certifications,omitempty"`
	SocialLinks        SocialLinks       `json:"social_links,omitempty" firestore:"socialLinks,omitempty"`
	ShowEmail          bool              `json:"show_email" firestore:"showEmail"`
	ShowLocation       bool              `json:"show_location" firestore:"showLocation"`
}

// CheckModerationInvariants verifies that the moderation fields are consistent
// with the current status: validation stamps exist exactly on APPROVED
// profiles, a rejection reason exists exactly on REJECTED ones.
func (p *AlumniProfile) CheckModerationInvariants() error {
	validated := p.DateValidation != nil || p.ValidatedBy != ""
	switch p.Status {
	case ProfileStatusApproved:
		if p.DateValidation == nil || p.ValidatedBy == "" {
			return fmt.Errorf("approved profile %s is missing validation stamps", p.UID)
		}
		if p.RejectionReason != "" {
			return fmt.Errorf("approved profile %s still carries a rejection reason", p.UID)
		}
	case ProfileStatusRejected:
		if p.RejectionReason == "" {
			return fmt.Errorf("rejected profile %s has no rejection reason", p.UID)
		}
		if validated {
			return fmt.Errorf("rejected profile %s still carries validation stamps", p.UID)
		}
	case ProfileStatusDraft, ProfileStatusPending:
		if validated {
			return fmt.Errorf("%s profile %s carries validation stamps", p.Status, p.UID)
		}
		if p.RejectionReason != "" {
			return fmt.Errorf("%s profile %s carries a rejection reason", p.Status, p.UID)
		}
	default:
		return fmt.Errorf("profile %s has unknown status %q", p.UID, p.Status)
	}
	return nil
}
