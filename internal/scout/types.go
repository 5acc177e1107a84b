// Package scout defines core types shared across subsystems.
package scout

import "time"

// Status represents the discovery lifecycle state of a subject.
type Status string

// Status values persisted in the subject store.
const (
	StatusPending  Status = "Pending"
	StatusFound    Status = "Found"
	StatusNotFound Status = "Not Found"
)

// OutreachStatus tracks what the partnerships team should do next.
type OutreachStatus string

// Outreach status values persisted in the subject store.
const (
	OutreachNeedsContact      OutreachStatus = "Needs Contact"
	OutreachAffiliateFound    OutreachStatus = "Affiliate Found"
	OutreachNeedsVerification OutreachStatus = "Needs Verification"
)

// Caps on set-valued fact fields.
const (
	MaxTags     = 20
	MaxUseCases = 10
	MaxFeatures = 15
)

// SocialLink is one (platform, URL) pair discovered on a subject's site.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// AffiliateFacts is the structured bundle of commercial, contact, and
// branding data attached to a subject. Scalar fields use "" for absent.
type AffiliateFacts struct {
	AffiliateURL   string       `json:"affiliate_url,omitempty"`
	Commission     string       `json:"commission,omitempty"`
	CookieDuration string       `json:"cookie_duration,omitempty"`
	PayoutType     string       `json:"payout_type,omitempty"`
	ContactEmail   string       `json:"contact_email,omitempty"`
	ContactPageURL string       `json:"contact_page_url,omitempty"`
	FaviconURL     string       `json:"favicon_url,omitempty"`
	LogoURL        string       `json:"logo_url,omitempty"`
	ImageURL       string       `json:"image_url,omitempty"`
	SocialLinks    []SocialLink `json:"social_links,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	UseCases       []string     `json:"use_cases,omitempty"`
	Features       []string     `json:"features,omitempty"`
}

// Subject is one catalog entry being researched for an affiliate program.
type Subject struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Website  string         `json:"website"`
	Status   Status         `json:"status"`
	Outreach OutreachStatus `json:"outreach_status"`
	Notes    string         `json:"notes,omitempty"`
	Facts    AffiliateFacts `json:"facts"`
}

// Update is a partial-update payload for one subject row. Nil pointer and
// nil slice fields are left untouched by the store; a pointer to "" clears
// the column, and a non-nil empty slice replaces the column with empty.
type Update struct {
	Status   *Status
	Outreach *OutreachStatus
	Notes    *string

	AffiliateURL   *string
	Commission     *string
	CookieDuration *string
	PayoutType     *string
	ContactEmail   *string
	ContactPageURL *string
	FaviconURL     *string
	LogoURL        *string
	ImageURL       *string

	SocialLinks []SocialLink
	Tags        []string
	UseCases    []string
	Features    []string
}

// DiscoverySource records which stage of the staged search produced the
// affiliate candidate.
type DiscoverySource string

// Discovery sources, in probe order.
const (
	SourceHomepage DiscoverySource = "homepage"
	SourcePath     DiscoverySource = "path"
	SourceSearch   DiscoverySource = "search"
	SourceNone     DiscoverySource = "none"
)

// Outcome is the result of one discovery pass over a subject.
type Outcome struct {
	Status   Status
	Outreach OutreachStatus
	Notes    string
	Source   DiscoverySource

	// AffiliateURL is "" when no program was located. It is always written
	// back, so a pass that found nothing clears a stale URL.
	AffiliateURL string

	Facts AffiliateFacts
}

// Verdict is the answer from the pluggable fallback search oracle.
type Verdict int

// Oracle verdicts. Unknown means the oracle has no real signal and the
// fallback stage must not fabricate a program.
const (
	VerdictUnknown Verdict = iota
	VerdictLikely
	VerdictNone
)

// Page is the raw result of one HTTP fetch.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// StrPtr returns a pointer to s, for building Update payloads.
func StrPtr(s string) *string { return &s }
