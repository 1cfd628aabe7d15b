// File: internal/parking/view.go
package parking

import (
	"sort"
	"strings"

	"parking_share_backend/internal/geo"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TypeFilter narrows listings by pricing.
type TypeFilter string

const (
	TypeAll  TypeFilter = "all"
	TypeFree TypeFilter = "free"
	TypePaid TypeFilter = "paid"
)

// CategoryFilter narrows listings by category.
type CategoryFilter string

const (
	CategoryAll CategoryFilter = "all"
)

// SortKey selects the ordering of the view.
type SortKey string

const (
	SortDistance      SortKey = "distance"
	SortPrice         SortKey = "price"
	SortRating        SortKey = "rating"
	SortRecent        SortKey = "recent"
	SortName          SortKey = "name"
	SortVerifications SortKey = "verification_count"
	SortRelevance     SortKey = "relevance"
)

// feeSentinel sorts paid listings with an unknown fee behind every paid
// listing with a real fee. Free listings always sort first on price.
const feeSentinel = 999999

// ViewConfig is the full configuration of one aggregation pass.
type ViewConfig struct {
	Type       TypeFilter
	Category   CategoryFilter
	SearchTerm string
	Sort       SortKey
	// Origin is the user position; required only for SortDistance, which
	// degrades to a no-op without it.
	Origin *geo.Point
	// IncludePending bypasses the public visibility gate (admin views).
	IncludePending bool
}

// nameCollator compares listing names locale-aware; Korean listings sort
// by Hangul order rather than raw code points.
var nameCollator = collate.New(language.Korean, collate.IgnoreCase)

// BuildView produces the ordered, filtered view of a listing snapshot.
// It is a pure function: the input slice is never mutated, every input is
// treated permissively, and missing fields degrade to defaults rather
// than erroring. Ties keep their pre-sort relative order.
func BuildView(snapshot []Parking, cfg ViewConfig) []Parking {
	result := make([]Parking, 0, len(snapshot))
	term := strings.ToLower(strings.TrimSpace(cfg.SearchTerm))
	for i := range snapshot {
		p := &snapshot[i]
		if !cfg.IncludePending && !p.Visible() {
			continue
		}
		if cfg.Type == TypeFree && p.Pricing != PricingFree {
			continue
		}
		if cfg.Type == TypePaid && p.Pricing != PricingPaid {
			continue
		}
		if cfg.Category != "" && cfg.Category != CategoryAll && Category(cfg.Category) != p.Category {
			continue
		}
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		result = append(result, *p)
	}

	sortView(result, cfg)
	return result
}

// matchesSearch is a case-insensitive substring match over name, address,
// description and tip. Absent optional fields simply do not match.
func matchesSearch(p *Parking, lowerTerm string) bool {
	if strings.Contains(strings.ToLower(p.Name), lowerTerm) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Address), lowerTerm) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), lowerTerm) {
		return true
	}
	if p.Tip != nil && strings.Contains(strings.ToLower(*p.Tip), lowerTerm) {
		return true
	}
	return false
}

func sortView(listings []Parking, cfg ViewConfig) {
	switch cfg.Sort {
	case SortDistance:
		if cfg.Origin == nil {
			return // no reference point, leave the filtered order as-is
		}
		origin := *cfg.Origin
		sort.SliceStable(listings, func(i, j int) bool {
			return geo.Distance(origin, listings[i].Position()) < geo.Distance(origin, listings[j].Position())
		})
	case SortPrice:
		sort.SliceStable(listings, func(i, j int) bool {
			return EffectivePrice(&listings[i]) < EffectivePrice(&listings[j])
		})
	case SortRating:
		sort.SliceStable(listings, func(i, j int) bool {
			return EffectiveRating(&listings[i]) > EffectiveRating(&listings[j])
		})
	case SortRecent:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].CreatedAt.After(listings[j].CreatedAt)
		})
	case SortName:
		sort.SliceStable(listings, func(i, j int) bool {
			return nameCollator.CompareString(listings[i].Name, listings[j].Name) < 0
		})
	case SortVerifications:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].VerificationCount > listings[j].VerificationCount
		})
	case SortRelevance:
		// Identity order: whatever order the store returned.
	}
}

// EffectivePrice normalizes pricing for comparison: free is 0, paid is the
// hourly fee, and a paid listing with no recorded fee gets the sentinel.
func EffectivePrice(p *Parking) int {
	if p.Pricing == PricingFree {
		return 0
	}
	if p.FeePerHour == nil {
		return feeSentinel
	}
	return *p.FeePerHour
}

// EffectiveRating is the canonical rating precedence: the review-derived
// average when present, else the legacy single-value rating, else zero.
func EffectiveRating(p *Parking) float64 {
	if p.AverageRating > 0 {
		return p.AverageRating
	}
	if p.Rating > 0 {
		return p.Rating
	}
	return 0
}

// ViewConfigFromQuery maps loosely-typed query parameters onto a
// ViewConfig, defaulting anything unrecognized.
func ViewConfigFromQuery(q ViewQuery) ViewConfig {
	cfg := ViewConfig{
		Type:       TypeAll,
		Category:   CategoryAll,
		SearchTerm: q.SearchTerm,
		Sort:       SortRelevance,
	}
	switch TypeFilter(q.Type) {
	case TypeFree, TypePaid:
		cfg.Type = TypeFilter(q.Type)
	}
	switch Category(q.Category) {
	case CategoryOfficial, CategoryHidden, CategoryConditional:
		cfg.Category = CategoryFilter(q.Category)
	}
	switch SortKey(q.Sort) {
	case SortDistance, SortPrice, SortRating, SortRecent, SortName, SortVerifications:
		cfg.Sort = SortKey(q.Sort)
	}
	if q.Latitude != nil && q.Longitude != nil {
		cfg.Origin = &geo.Point{Lat: *q.Latitude, Lng: *q.Longitude}
	}
	return cfg
}
