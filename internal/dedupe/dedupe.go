// Package dedupe removes duplicate subjects that share a website,
// keeping the most complete record in each group.
package dedupe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"partnerscout/internal/scout"
)

// Store is the slice of the subject store the purge job needs.
type Store interface {
	ListAll(ctx context.Context) ([]scout.Subject, error)
	Delete(ctx context.Context, id string) error
}

// Weights score how much each populated field contributes to a record's
// completeness. Higher-scoring records survive a purge.
type Weights struct {
	StatusFound    int
	StatusNotFound int
	AffiliateURL   int
	Commission     int
	CookieDuration int
	PayoutType     int
	ContactEmail   int
	ContactPageURL int
	SocialLinks    int
	Tags           int
	UseCases       int
	Features       int
	Favicon        int
	Logo           int
	Image          int
	Notes          int
}

// DefaultWeights favors resolved discovery outcomes and commercial facts
// over cosmetic fields.
func DefaultWeights() Weights {
	return Weights{
		StatusFound:    10,
		StatusNotFound: 5,
		AffiliateURL:   15,
		Commission:     5,
		CookieDuration: 5,
		PayoutType:     5,
		ContactEmail:   5,
		ContactPageURL: 3,
		SocialLinks:    3,
		Tags:           2,
		UseCases:       2,
		Features:       2,
		Favicon:        1,
		Logo:           1,
		Image:          1,
		Notes:          1,
	}
}

// WeightsFromMap overlays configured weights onto the defaults. Keys match
// the subject store's column names.
func WeightsFromMap(m map[string]int) Weights {
	w := DefaultWeights()
	for key, val := range m {
		switch key {
		case "status_found":
			w.StatusFound = val
		case "status_not_found":
			w.StatusNotFound = val
		case "affiliate_url":
			w.AffiliateURL = val
		case "commission":
			w.Commission = val
		case "cookie_duration":
			w.CookieDuration = val
		case "payout_type":
			w.PayoutType = val
		case "contact_email":
			w.ContactEmail = val
		case "contact_page_url":
			w.ContactPageURL = val
		case "social_links":
			w.SocialLinks = val
		case "tags":
			w.Tags = val
		case "use_cases":
			w.UseCases = val
		case "features":
			w.Features = val
		case "favicon_url":
			w.Favicon = val
		case "logo_url":
			w.Logo = val
		case "image_url":
			w.Image = val
		case "notes":
			w.Notes = val
		}
	}
	return w
}

// Score rates one subject's completeness under the weights.
func (w Weights) Score(sub scout.Subject) int {
	score := 0
	switch sub.Status {
	case scout.StatusFound:
		score += w.StatusFound
	case scout.StatusNotFound:
		score += w.StatusNotFound
	}
	if sub.Facts.AffiliateURL != "" {
		score += w.AffiliateURL
	}
	if sub.Facts.Commission != "" {
		score += w.Commission
	}
	if sub.Facts.CookieDuration != "" {
		score += w.CookieDuration
	}
	if sub.Facts.PayoutType != "" {
		score += w.PayoutType
	}
	if sub.Facts.ContactEmail != "" {
		score += w.ContactEmail
	}
	if sub.Facts.ContactPageURL != "" {
		score += w.ContactPageURL
	}
	if len(sub.Facts.SocialLinks) > 0 {
		score += w.SocialLinks
	}
	if len(sub.Facts.Tags) > 0 {
		score += w.Tags
	}
	if len(sub.Facts.UseCases) > 0 {
		score += w.UseCases
	}
	if len(sub.Facts.Features) > 0 {
		score += w.Features
	}
	if sub.Facts.FaviconURL != "" {
		score += w.Favicon
	}
	if sub.Facts.LogoURL != "" {
		score += w.Logo
	}
	if sub.Facts.ImageURL != "" {
		score += w.Image
	}
	if len(sub.Notes) > 10 {
		score += w.Notes
	}
	return score
}

// NormalizeWebsite reduces a website URL to a comparison key: scheme,
// leading www., and trailing slashes are ignored, and the host is
// lower-cased.
func NormalizeWebsite(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimRight(s, "/")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		host := strings.ToLower(s[:i])
		return host + s[i:]
	}
	return strings.ToLower(s)
}

// Result summarizes one purge run.
type Result struct {
	Groups  int
	Deleted int
	Kept    []string
}

// Purger scans the catalog for subjects sharing a website and deletes all
// but the highest-scoring record in each group.
type Purger struct {
	store   Store
	weights Weights
	logger  *zap.Logger
}

// New builds a Purger.
func New(store Store, weights Weights, logger *zap.Logger) *Purger {
	return &Purger{store: store, weights: weights, logger: logger}
}

// Run performs one purge pass. DryRun reports what would go without
// deleting anything.
func (p *Purger) Run(ctx context.Context, dryRun bool) (Result, error) {
	subjects, err := p.store.ListAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list subjects: %w", err)
	}

	groups := make(map[string][]scout.Subject)
	for _, sub := range subjects {
		key := NormalizeWebsite(sub.Website)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], sub)
	}

	var res Result
	for key, group := range groups {
		if len(group) < 2 {
			continue
		}
		res.Groups++

		// Highest score wins; earlier record breaks ties so a rerun is
		// deterministic.
		sort.SliceStable(group, func(i, j int) bool {
			return p.weights.Score(group[i]) > p.weights.Score(group[j])
		})
		keeper := group[0]
		res.Kept = append(res.Kept, keeper.ID)

		for _, dup := range group[1:] {
			p.logger.Info("duplicate subject",
				zap.String("website", key),
				zap.String("keep", keeper.ID),
				zap.String("delete", dup.ID),
				zap.Int("keep_score", p.weights.Score(keeper)),
				zap.Int("delete_score", p.weights.Score(dup)),
				zap.Bool("dry_run", dryRun),
			)
			if dryRun {
				res.Deleted++
				continue
			}
			if err := p.store.Delete(ctx, dup.ID); err != nil {
				return res, fmt.Errorf("delete subject %s: %w", dup.ID, err)
			}
			res.Deleted++
		}
	}
	return res, nil
}
