package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/repository"
)

// maxDirectoryFetch bounds the working set the directory loads into memory.
// The directory is a full fetch filtered client-side because the store has no
// full-text search; this is the documented scalability ceiling of the design.
const maxDirectoryFetch = 1000

type Directory struct {
	profileRepo repository.ProfileRepository
	cache       *gocache.Cache
	maxFetch    int
}

// DirectoryOption configures the directory service.
type DirectoryOption func(*Directory)

// WithMaxFetch lowers the working-set bound. Values above the hard ceiling
// are clamped.
func WithMaxFetch(n int) DirectoryOption {
	return func(s *Directory) {
		if n > 0 && n <= maxDirectoryFetch {
			s.maxFetch = n
		}
	}
}

// NewDirectoryService creates the read side of the directory: approved
// profiles only, fetched in bulk and filtered in memory, with a short TTL
// cache in front of the fetch.
func NewDirectoryService(profileRepo repository.ProfileRepository, cacheTTL, cleanupInterval time.Duration, opts ...DirectoryOption) *Directory {
	s := &Directory{
		profileRepo: profileRepo,
		cache:       gocache.New(cacheTTL, cleanupInterval),
		maxFetch:    maxDirectoryFetch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Directory) ListApproved(ctx context.Context, srt DirectorySort, limit int) ([]domain.AlumniProfile, error) {
	if limit <= 0 || limit > s.maxFetch {
		limit = s.maxFetch
	}

	key := fmt.Sprintf("approved/%s/%d", srt, limit)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]domain.AlumniProfile), nil
	}

	var storeSort repository.ProfileSort
	switch srt {
	case DirectorySortNewest:
		storeSort = repository.ProfileSortCreatedDesc
	default:
		storeSort = repository.ProfileSortNameAsc
	}

	profiles, err := s.profileRepo.ListByStatus(ctx, domain.ProfileStatusApproved, storeSort, limit)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, profiles, gocache.DefaultExpiration)
	return profiles, nil
}

func (s *Directory) Search(ctx context.Context, filters DirectoryFilters) ([]domain.AlumniProfile, error) {
	profiles, err := s.ListApproved(ctx, DirectorySortNameAsc, s.maxFetch)
	if err != nil {
		return nil, err
	}
	return FilterProfiles(profiles, filters), nil
}

// OnTransition drops the cached working set whenever a profile changes
// status, so moderation outcomes show up without waiting out the TTL.
func (s *Directory) OnTransition(ctx context.Context, event TransitionEvent) {
	if event.StatusChanged {
		s.cache.Flush()
	}
}

// FilterProfiles applies the directory filters to an already-fetched working
// set. Filters are AND-combined; each individual filter matches on
// membership. The result is always re-sorted by name with French collation,
// regardless of the input order.
func FilterProfiles(profiles []domain.AlumniProfile, filters DirectoryFilters) []domain.AlumniProfile {
	out := make([]domain.AlumniProfile, 0, len(profiles))
	for _, p := range profiles {
		if matchesFilters(&p, filters) {
			out = append(out, p)
		}
	}
	SortByName(out)
	return out
}

// SortByName orders profiles by name ascending using locale-aware collation,
// so accented names land where a French reader expects them.
func SortByName(profiles []domain.AlumniProfile) {
	c := collate.New(language.French, collate.IgnoreCase)
	sort.SliceStable(profiles, func(i, j int) bool {
		return c.CompareString(profiles[i].Name, profiles[j].Name) < 0
	})
}

func matchesFilters(p *domain.AlumniProfile, f DirectoryFilters) bool {
	if f.Query != "" && !matchesQuery(p, f.Query) {
		return false
	}
	if len(f.Sectors) > 0 && !intersects(p.Sectors, f.Sectors) {
		return false
	}
	if len(f.Expertise) > 0 && !intersects(p.Expertise, f.Expertise) {
		return false
	}
	if len(f.Seeking) > 0 && !intersects(p.Seeking, f.Seeking) {
		return false
	}
	if len(f.Offering) > 0 && !intersects(p.Offering, f.Offering) {
		return false
	}
	if len(f.SoftSkills) > 0 && !intersects(p.SoftSkills, f.SoftSkills) {
		return false
	}
	if len(f.Languages) > 0 && !intersects(languageNames(p.Languages), f.Languages) {
		return false
	}
	if len(f.YearPromos) > 0 && !containsInt(f.YearPromos, p.YearPromo) {
		return false
	}
	if f.City != "" && !intersects(splitList(p.City), splitList(f.City)) {
		return false
	}
	if f.Country != "" && !intersects(splitList(p.Country), splitList(f.Country)) {
		return false
	}
	if f.Availability != "" && p.Availability != f.Availability {
		return false
	}
	return true
}

// matchesQuery is a case-insensitive substring search across every
// human-readable field of the profile.
func matchesQuery(p *domain.AlumniProfile, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	haystack := []string{
		p.Name, p.Email, p.Bio, p.Headline, p.Position, p.Company,
		p.Availability, p.CompanyDescription, p.CompanyWebsite, p.PersonalWebsite,
	}
	haystack = append(haystack, splitList(p.City)...)
	haystack = append(haystack, splitList(p.Country)...)
	haystack = append(haystack, p.Sectors...)
	haystack = append(haystack, p.Expertise...)
	haystack = append(haystack, p.Seeking...)
	haystack = append(haystack, p.Offering...)
	haystack = append(haystack, p.SoftSkills...)
	haystack = append(haystack, languageNames(p.Languages)...)

	for _, field := range haystack {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// intersects reports whether two string lists share at least one value,
// comparing case-insensitively with surrounding space ignored.
func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[normalize(v)] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[normalize(v)]; ok {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// splitList splits a comma-separated field ("Paris, Lyon") into trimmed parts.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func languageNames(langs []domain.Language) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		out = append(out, l.Name)
	}
	return out
}

// YearRange expands a contiguous promo range into the explicit membership set
// the filters work on.
func YearRange(from, to int) []int {
	if to < from {
		from, to = to, from
	}
	out := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		out = append(out, y)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
