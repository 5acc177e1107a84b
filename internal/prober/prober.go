// Package prober runs the staged affiliate-program discovery for one subject.
package prober

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"partnerscout/internal/extract"
	"partnerscout/internal/scout"
)

// Conventional affiliate-program paths, probed in order for an exact 200.
var affiliatePaths = []string{
	"/affiliate", "/affiliates", "/partners", "/partner-program",
	"/referral", "/referrals", "/ambassador", "/affiliate-program",
	"/partner-with-us", "/partnerships",
}

// Conventional contact-page paths, probed with the same discipline.
var contactPaths = []string{
	"/contact", "/contact-us", "/support", "/help", "/about/contact",
	"/about-us/contact", "/get-in-touch", "/reach-us",
}

// Config carries the per-purpose fetch budgets. Path probes must fail
// fast; page fetches get a longer budget.
type Config struct {
	PageTimeout    time.Duration
	ProbeTimeout   time.Duration
	ContactTimeout time.Duration
	SnapshotPrefix string
}

// Prober orchestrates staged discovery, contact discovery, and page
// enrichment for single subjects. It is safe for concurrent use.
type Prober struct {
	fetcher   scout.Fetcher
	oracle    scout.SearchOracle
	snapshots scout.Snapshotter
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Prober. oracle and snapshots may be nil; a nil oracle
// disables the fallback-search stage and a nil snapshots disables page
// archiving.
func New(fetcher scout.Fetcher, oracle scout.SearchOracle, snapshots scout.Snapshotter, cfg Config, logger *zap.Logger) *Prober {
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = 15 * time.Second
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 8 * time.Second
	}
	if cfg.ContactTimeout <= 0 {
		cfg.ContactTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		fetcher:   fetcher,
		oracle:    oracle,
		snapshots: snapshots,
		cfg:       cfg,
		logger:    logger,
	}
}

// Probe runs the full discovery pass for one subject: homepage scan, then
// conventional-path probing, then the fallback search oracle, plus contact
// discovery and page enrichment. It never returns an error; every failure
// downgrades to an absent signal.
func (p *Prober) Probe(ctx context.Context, sub scout.Subject) scout.Outcome {
	website := scout.EnsureScheme(sub.Website)
	log := p.logger.With(zap.String("subject_id", sub.ID), zap.String("website", website))

	homepage, homepageOK := p.fetchPage(ctx, website, p.cfg.PageTimeout, log)

	candidate := ""
	source := scout.SourceNone
	if homepageOK {
		if links := extract.AffiliateLinks(homepage.Body, website); len(links) > 0 {
			candidate = links[0].URL
			source = scout.SourceHomepage
			log.Debug("affiliate link found on homepage", zap.String("url", candidate))
		}
	}
	if candidate == "" {
		if url := p.probePaths(ctx, website, affiliatePaths, p.cfg.ProbeTimeout); url != "" {
			candidate = url
			source = scout.SourcePath
			log.Debug("affiliate page found via path probe", zap.String("url", candidate))
		}
	}

	facts := scout.AffiliateFacts{}
	if homepageOK {
		p.enrichFromHomepage(&facts, homepage.Body, website)
	}
	p.discoverContact(ctx, &facts, website, homepage, homepageOK)

	outcome := scout.Outcome{Source: source, AffiliateURL: candidate, Facts: facts}
	switch {
	case candidate != "":
		outcome.Status = scout.StatusFound
		outcome.Outreach = scout.OutreachAffiliateFound
		outcome.Notes = "Found on website"
		p.enrichFromAffiliatePage(ctx, &outcome, sub, log)
	default:
		p.fallbackSearch(ctx, &outcome, sub, website, log)
	}
	return outcome
}

// fetchPage wraps a fetch, downgrading transport failures and non-200
// responses to an absent page.
func (p *Prober) fetchPage(ctx context.Context, url string, timeout time.Duration, log *zap.Logger) (scout.Page, bool) {
	page, err := p.fetcher.Fetch(ctx, url, timeout)
	if err != nil {
		log.Debug("fetch failed", zap.String("url", url), zap.Error(err))
		return scout.Page{}, false
	}
	if page.StatusCode != http.StatusOK {
		log.Debug("fetch returned non-200", zap.String("url", url), zap.Int("status", page.StatusCode))
		return scout.Page{}, false
	}
	return page, true
}

// probePaths is a short-circuiting ordered search: the first path that
// answers an exact 200 wins. This is a presence probe, not a content check.
func (p *Prober) probePaths(ctx context.Context, website string, paths []string, timeout time.Duration) string {
	for _, path := range paths {
		url, err := scout.JoinPath(website, path)
		if err != nil {
			return ""
		}
		page, err := p.fetcher.Fetch(ctx, url, timeout)
		if err != nil || page.StatusCode != http.StatusOK {
			continue
		}
		return url
	}
	return ""
}

func (p *Prober) enrichFromHomepage(facts *scout.AffiliateFacts, body []byte, base string) {
	facts.FaviconURL = extract.FaviconURL(body, base)
	facts.LogoURL = extract.LogoURL(body, base)
	facts.ImageURL = extract.HeroImageURL(body, base)
	facts.SocialLinks = extract.SocialLinks(body, base)

	taxonomy := extract.PageTaxonomy(body)
	facts.Tags = taxonomy.Tags
	facts.UseCases = taxonomy.UseCases
	facts.Features = taxonomy.Features
}

// discoverContact always runs, independent of affiliate discovery: probe
// conventional contact paths, fall back to a homepage anchor scan, then
// pull an email off the located page.
func (p *Prober) discoverContact(ctx context.Context, facts *scout.AffiliateFacts, website string, homepage scout.Page, homepageOK bool) {
	contactURL := p.probePaths(ctx, website, contactPaths, p.cfg.ContactTimeout)
	if contactURL == "" && homepageOK {
		contactURL = extract.ContactLink(homepage.Body, website)
	}
	if contactURL == "" {
		return
	}
	facts.ContactPageURL = contactURL

	log := p.logger.With(zap.String("website", website))
	if page, ok := p.fetchPage(ctx, contactURL, p.cfg.ProbeTimeout, log); ok {
		facts.ContactEmail = extract.PickContactEmail(extract.Emails(page.Body))
	}
}

// enrichFromAffiliatePage pulls commercial terms off the located program
// page; homepage values already in the outcome backfill anything the
// program page lacks.
func (p *Prober) enrichFromAffiliatePage(ctx context.Context, outcome *scout.Outcome, sub scout.Subject, log *zap.Logger) {
	page, ok := p.fetchPage(ctx, outcome.AffiliateURL, p.cfg.PageTimeout, log)
	if !ok {
		return
	}

	text := extract.VisibleText(page.Body)
	outcome.Facts.Commission = extract.Commission(text)
	outcome.Facts.CookieDuration = extract.CookieWindow(text)
	outcome.Facts.PayoutType = extract.PayoutModel(text)

	if outcome.Facts.ContactEmail == "" {
		outcome.Facts.ContactEmail = extract.PickContactEmail(extract.Emails(page.Body))
	}
	if outcome.Facts.ContactPageURL == "" {
		outcome.Facts.ContactPageURL = extract.ContactLink(page.Body, outcome.AffiliateURL)
	}
	if len(outcome.Facts.SocialLinks) == 0 {
		outcome.Facts.SocialLinks = extract.SocialLinks(page.Body, outcome.AffiliateURL)
	}
	if outcome.Facts.FaviconURL == "" {
		outcome.Facts.FaviconURL = extract.FaviconURL(page.Body, outcome.AffiliateURL)
	}
	if outcome.Facts.LogoURL == "" {
		outcome.Facts.LogoURL = extract.LogoURL(page.Body, outcome.AffiliateURL)
	}
	if outcome.Facts.ImageURL == "" {
		outcome.Facts.ImageURL = extract.HeroImageURL(page.Body, outcome.AffiliateURL)
	}

	taxonomy := extract.PageTaxonomy(page.Body)
	if len(outcome.Facts.Tags) == 0 {
		outcome.Facts.Tags = taxonomy.Tags
	}
	if len(outcome.Facts.UseCases) == 0 {
		outcome.Facts.UseCases = taxonomy.UseCases
	}
	if len(outcome.Facts.Features) == 0 {
		outcome.Facts.Features = taxonomy.Features
	}

	p.archivePage(ctx, sub, page, log)
}

// archivePage stores the decisive program page for later auditing. Never
// on the failure path of a subject.
func (p *Prober) archivePage(ctx context.Context, sub scout.Subject, page scout.Page, log *zap.Logger) {
	if p.snapshots == nil {
		return
	}
	path := fmt.Sprintf("%s/%s.html", p.cfg.SnapshotPrefix, sub.ID)
	if p.cfg.SnapshotPrefix == "" {
		path = sub.ID + ".html"
	}
	uri, err := p.snapshots.Put(ctx, path, "text/html; charset=utf-8", page.Body)
	if err != nil {
		log.Warn("snapshot archive failed", zap.Error(err))
		return
	}
	log.Debug("affiliate page archived", zap.String("uri", uri))
}

// fallbackSearch consults the pluggable oracle after on-site discovery
// found nothing. Only an affirmative verdict synthesizes a placeholder
// program URL, and that result is flagged for human verification.
func (p *Prober) fallbackSearch(ctx context.Context, outcome *scout.Outcome, sub scout.Subject, website string, log *zap.Logger) {
	outcome.Status = scout.StatusNotFound
	outcome.Outreach = scout.OutreachNeedsContact
	outcome.Notes = "No affiliate program found after thorough search"

	if p.oracle == nil {
		return
	}
	verdict, err := p.oracle.Lookup(ctx, sub.Name, scout.Domain(website))
	if err != nil {
		log.Debug("search oracle failed", zap.Error(err))
		return
	}
	if verdict != scout.VerdictLikely {
		return
	}

	placeholder, err := scout.JoinPath(website, "/affiliate")
	if err != nil {
		return
	}
	outcome.AffiliateURL = placeholder
	outcome.Source = scout.SourceSearch
	outcome.Status = scout.StatusFound
	outcome.Outreach = scout.OutreachNeedsVerification
	outcome.Notes = "Potential affiliate program found via search"
	log.Debug("oracle reported likely program", zap.String("url", outcome.AffiliateURL))
}

// StaticOracle is the shipped SearchOracle: it always answers with the
// configured verdict. The default (VerdictUnknown) keeps the fallback
// stage from fabricating programs until a real search integration exists.
type StaticOracle struct {
	Verdict scout.Verdict
}

// Lookup returns the configured verdict.
func (o StaticOracle) Lookup(_ context.Context, _, _ string) (scout.Verdict, error) {
	return o.Verdict, nil
}
