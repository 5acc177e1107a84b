// Package merge reconciles freshly extracted affiliate facts against a
// subject's stored record, producing a partial-update payload.
package merge

import (
	"partnerscout/internal/scout"
)

// BuildUpdate produces the store update for one completed discovery pass.
//
// Rules:
//   - status, outreach status, and notes always carry the new classification.
//   - affiliate URL, commission, cookie duration, and payout type are
//     written unconditionally from the pass, so a pass that found nothing
//     explicitly clears them.
//   - contact email, contact page, favicon, logo, and hero image are
//     first-writer-wins: written only when newly found and currently empty.
//   - tags, use-cases, and features grow by capped union.
//   - social links are replaced only when the pass found any.
func BuildUpdate(stored scout.Subject, outcome scout.Outcome) scout.Update {
	upd := scout.Update{
		Status:   &outcome.Status,
		Outreach: &outcome.Outreach,
		Notes:    scout.StrPtr(outcome.Notes),

		AffiliateURL:   scout.StrPtr(outcome.AffiliateURL),
		Commission:     scout.StrPtr(outcome.Facts.Commission),
		CookieDuration: scout.StrPtr(outcome.Facts.CookieDuration),
		PayoutType:     scout.StrPtr(outcome.Facts.PayoutType),
	}

	upd.ContactEmail = protectedScalar(stored.Facts.ContactEmail, outcome.Facts.ContactEmail)
	upd.ContactPageURL = protectedScalar(stored.Facts.ContactPageURL, outcome.Facts.ContactPageURL)
	upd.FaviconURL = protectedScalar(stored.Facts.FaviconURL, outcome.Facts.FaviconURL)
	upd.LogoURL = protectedScalar(stored.Facts.LogoURL, outcome.Facts.LogoURL)
	upd.ImageURL = protectedScalar(stored.Facts.ImageURL, outcome.Facts.ImageURL)

	if merged := unionCapped(stored.Facts.Tags, outcome.Facts.Tags, scout.MaxTags); merged != nil {
		upd.Tags = merged
	}
	if merged := unionCapped(stored.Facts.UseCases, outcome.Facts.UseCases, scout.MaxUseCases); merged != nil {
		upd.UseCases = merged
	}
	if merged := unionCapped(stored.Facts.Features, outcome.Facts.Features, scout.MaxFeatures); merged != nil {
		upd.Features = merged
	}

	if len(outcome.Facts.SocialLinks) > 0 {
		upd.SocialLinks = outcome.Facts.SocialLinks
	}

	return upd
}

// protectedScalar applies first-writer-wins: the update carries the new
// value only when one was found and the stored field is still empty.
func protectedScalar(stored, fresh string) *string {
	if fresh == "" || stored != "" {
		return nil
	}
	return &fresh
}

// unionCapped merges stored and fresh sets, stored values first so
// repeated merges are idempotent, truncated to limit. Returns nil when the
// pass found nothing new to write.
func unionCapped(stored, fresh []string, limit int) []string {
	if len(fresh) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(stored)+len(fresh))
	merged := make([]string, 0, len(stored)+len(fresh))
	for _, lists := range [][]string{stored, fresh} {
		for _, item := range lists {
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			merged = append(merged, item)
			if len(merged) == limit {
				return merged
			}
		}
	}
	return merged
}

// ResetUpdate builds the payload for an explicit reset: all affiliate
// facts cleared, status back to Pending, outreach back to Needs Contact.
func ResetUpdate(reason string) scout.Update {
	pending := scout.StatusPending
	needsContact := scout.OutreachNeedsContact
	empty := ""
	return scout.Update{
		Status:   &pending,
		Outreach: &needsContact,
		Notes:    &reason,

		AffiliateURL:   &empty,
		Commission:     &empty,
		CookieDuration: &empty,
		PayoutType:     &empty,
		ContactEmail:   &empty,
		ContactPageURL: &empty,
		FaviconURL:     &empty,
		LogoURL:        &empty,
		ImageURL:       &empty,

		SocialLinks: []scout.SocialLink{},
		Tags:        []string{},
		UseCases:    []string{},
		Features:    []string{},
	}
}
