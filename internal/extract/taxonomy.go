package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"partnerscout/internal/scout"
)

var tagContainerSelectors = []string{".category", ".categories", ".tags", ".tag"}

var useCaseSelectors = []string{
	".features h3", ".benefits h3", ".use-cases h3",
	".features h4", ".benefits h4", ".use-cases h4",
	".features li", ".benefits li", ".use-cases li",
	".features .title", ".benefits .title", ".use-cases .title",
	".how-it-works h3", ".what-you-can-do h3", ".solutions h3",
}

var featureSelectors = []string{
	".features li", ".feature-list li", ".feature li",
	".features-section li", ".key-features li",
	".features .item", ".feature-list .item",
}

// Plausible text-length window for a single use-case or feature entry.
const (
	minEntryLen       = 5
	maxUseCaseLen     = 100
	maxFeatureLen     = 150
	bulletListLimiter = "ul li"
)

var tagSeparator = regexp.MustCompile(`[,|/]`)
var bulletPrefix = regexp.MustCompile(`^[✓✅•]\s*`)

// Taxonomy is the tag/use-case/feature bundle extracted from one page.
type Taxonomy struct {
	Tags     []string
	UseCases []string
	Features []string
}

// PageTaxonomy gathers tags (keyword metadata plus tag-labelled elements),
// use-cases, and features, de-duplicated and truncated to their caps.
func PageTaxonomy(html []byte) Taxonomy {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return Taxonomy{}
	}

	var tags, useCases, features []string

	if keywords, ok := doc.Find(`meta[name="keywords"]`).Attr("content"); ok {
		tags = append(tags, splitTags(keywords)...)
	}
	for _, selector := range tagContainerSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			tags = append(tags, splitTags(sel.Text())...)
		})
	}

	for _, selector := range useCaseSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if text := plausibleEntry(sel.Text(), maxUseCaseLen); text != "" {
				useCases = append(useCases, text)
			}
		})
	}

	for _, selector := range featureSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if text := plausibleEntry(sel.Text(), maxFeatureLen); text != "" {
				features = append(features, text)
			}
		})
	}
	doc.Find(bulletListLimiter).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if !bulletPrefix.MatchString(text) {
			return
		}
		if text = plausibleEntry(bulletPrefix.ReplaceAllString(text, ""), maxFeatureLen); text != "" {
			features = append(features, text)
		}
	})

	return Taxonomy{
		Tags:     dedupeCap(tags, scout.MaxTags),
		UseCases: dedupeCap(useCases, scout.MaxUseCases),
		Features: dedupeCap(features, scout.MaxFeatures),
	}
}

func splitTags(raw string) []string {
	var out []string
	for _, part := range tagSeparator.Split(raw, -1) {
		if tag := strings.TrimSpace(part); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func plausibleEntry(raw string, maxLen int) string {
	text := strings.TrimSpace(raw)
	// Bounds are inclusive: a 5-char entry and a max-length entry both pass.
	if len(text) < minEntryLen || len(text) > maxLen {
		return ""
	}
	return text
}

func dedupeCap(items []string, limit int) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}
