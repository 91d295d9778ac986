// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. They back the unit tests and the local development
// mode, mirroring the semantics of the Firestore implementations including
// the status precondition on Transition.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/repository"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.AlumniProfile
	nowFunc  func() time.Time
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles: make(map[string]*domain.AlumniProfile),
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.AlumniProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.UID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *profile
	r.profiles[profile.UID] = &cp
	return nil
}

func (r *ProfileRepository) GetByUID(ctx context.Context, uid string) (*domain.AlumniProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *ProfileRepository) Merge(ctx context.Context, uid string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[uid]
	if !ok {
		return domain.ErrNotFound
	}
	applyProfileFields(p, fields)
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[uid]; !ok {
		return domain.ErrNotFound
	}
	delete(r.profiles, uid)
	return nil
}

func (r *ProfileRepository) ListByStatus(ctx context.Context, st domain.ProfileStatus, srt repository.ProfileSort, limit int) ([]domain.AlumniProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.AlumniProfile
	for _, p := range r.profiles {
		if p.Status == st {
			out = append(out, *p)
		}
	}
	switch srt {
	case repository.ProfileSortCreatedDesc:
		sort.Slice(out, func(i, j int) bool { return out[i].DateCreated.After(out[j].DateCreated) })
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ProfileRepository) Transition(ctx context.Context, uid string, allowed []domain.ProfileStatus, mutate func(*domain.AlumniProfile) error) (*domain.AlumniProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}

	permitted := false
	for _, st := range allowed {
		if p.Status == st {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, domain.ErrConflict
	}

	cp := *p
	if err := mutate(&cp); err != nil {
		return nil, err
	}
	r.profiles[uid] = &cp
	out := cp
	return &out, nil
}

// applyProfileFields applies a field-level merge using the store field names.
// Unknown fields are ignored, matching a schemaless document merge.
func applyProfileFields(p *domain.AlumniProfile, fields map[string]interface{}) {
	for name, v := range fields {
		if _, del := v.(repository.FieldDelete); del {
			deleteProfileField(p, name)
			continue
		}
		setProfileField(p, name, v)
	}
}

func setProfileField(p *domain.AlumniProfile, name string, v interface{}) {
	switch name {
	case "name":
		if s, ok := v.(string); ok {
			p.Name = s
		}
	case "email":
		if s, ok := v.(string); ok {
			p.Email = s
		}
	case "yearPromo":
		if n, ok := v.(int); ok {
			p.YearPromo = n
		}
	case "dateUpdated":
		if t, ok := v.(time.Time); ok {
			p.DateUpdated = t
		}
	case "headline":
		if s, ok := v.(string); ok {
			p.Headline = s
		}
	case "bio":
		if s, ok := v.(string); ok {
			p.Bio = s
		}
	case "position":
		if s, ok := v.(string); ok {
			p.Position = s
		}
	case "company":
		if s, ok := v.(string); ok {
			p.Company = s
		}
	case "companyDescription":
		if s, ok := v.(string); ok {
			p.CompanyDescription = s
		}
	case "companyWebsite":
		if s, ok := v.(string); ok {
			p.CompanyWebsite = s
		}
	case "personalWebsite":
		if s, ok := v.(string); ok {
			p.PersonalWebsite = s
		}
	case "city":
		if s, ok := v.(string); ok {
			p.City = s
		}
	case "country":
		if s, ok := v.(string); ok {
			p.Country = s
		}
	case "availability":
		if s, ok := v.(string); ok {
			p.Availability = s
		}
	case "photoURL":
		if s, ok := v.(string); ok {
			p.PhotoURL = s
		}
	case "sectors":
		if l, ok := v.([]string); ok {
			p.Sectors = l
		}
	case "expertise":
		if l, ok := v.([]string); ok {
			p.Expertise = l
		}
	case "seeking":
		if l, ok := v.([]string); ok {
			p.Seeking = l
		}
	case "offering":
		if l, ok := v.([]string); ok {
			p.Offering = l
		}
	case "softSkills":
		if l, ok := v.([]string); ok {
			p.SoftSkills = l
		}
	case "services":
		if l, ok := v.([]string); ok {
			p.Services = l
		}
	case "languages":
		if l, ok := v.([]domain.Language); ok {
			p.Languages = l
		}
	case "portfolio":
		if l, ok := v.([]domain.PortfolioItem); ok {
			p.Portfolio = l
		}
	case "education":
		if l, ok := v.([]domain.EducationEntry); ok {
			p.Education = l
		}
	case "experience":
		if l, ok := v.([]domain.ExperienceEntry); ok {
			p.Experience = l
		}
	case "certifications":
		if l, ok := v.([]domain.Certification); ok {
			p.Certifications = l
		}
	case "socialLinks":
		if sl, ok := v.(domain.SocialLinks); ok {
			p.SocialLinks = sl
		}
	case "showEmail":
		if b, ok := v.(bool); ok {
			p.ShowEmail = b
		}
	case "showLocation":
		if b, ok := v.(bool); ok {
			p.ShowLocation = b
		}
	}
}

func deleteProfileField(p *domain.AlumniProfile, name string) {
	switch name {
	case "dateValidation":
		p.DateValidation = nil
	case "validatedBy":
		p.ValidatedBy = ""
	case "rejectionReason":
		p.RejectionReason = ""
	case "headline":
		p.Headline = ""
	case "bio":
		p.Bio = ""
	case "availability":
		p.Availability = ""
	case "photoURL":
		p.PhotoURL = ""
	}
}
