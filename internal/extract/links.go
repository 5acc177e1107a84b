// Package extract implements the pure HTML signal extractors. Every
// function is best-effort: malformed input yields the empty result, never
// an error.
package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"partnerscout/internal/scout"
)

// affiliateKeywords flag an anchor as a program candidate when present in
// its text or href, case-insensitively.
var affiliateKeywords = []string{
	"affiliate", "partner", "referral", "refer-a-friend", "refer a friend",
	"commission", "earn", "rewards", "ambassador", "partnership",
}

// CandidateLink is an anchor that looks like it points at an affiliate
// program page.
type CandidateLink struct {
	URL  string
	Text string
}

// AffiliateLinks scans all anchors for affiliate-intent keywords and
// returns the matches with hrefs normalized against the page base.
func AffiliateLinks(html []byte, base string) []CandidateLink {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}

	var links []CandidateLink
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if !hasAffiliateKeyword(strings.ToLower(text), strings.ToLower(href)) {
			return
		}
		if resolved := scout.ResolveLink(href, base); resolved != "" {
			links = append(links, CandidateLink{URL: resolved, Text: text})
		}
	})
	return links
}

func hasAffiliateKeyword(text, href string) bool {
	for _, kw := range affiliateKeywords {
		if strings.Contains(text, kw) || strings.Contains(href, kw) {
			return true
		}
	}
	return false
}

// ContactLink returns the first anchor whose text or href mentions
// "contact", normalized against the page base, or "" when none exists.
func ContactLink(html []byte, base string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}

	var contact string
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return true
		}
		text := strings.ToLower(sel.Text())
		if strings.Contains(text, "contact") || strings.Contains(strings.ToLower(href), "contact") {
			contact = scout.ResolveLink(href, base)
			return false
		}
		return true
	})
	return contact
}
