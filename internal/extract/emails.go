package extract

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Placeholder domains and mailbox shapes that show up in templates and
// documentation rather than real contact addresses.
var emailBlacklist = []string{
	"example.com", "yourdomain", "domain.com", "@email", "@mail",
}

// Static-asset extensions that masquerade as TLDs when the matcher trips
// over filenames like logo@2x.png.
var assetExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "svg": {},
	"webp": {}, "ico": {}, "css": {}, "js": {}, "woff": {}, "woff2": {},
}

// Emails returns every email-shaped token in the raw HTML that survives
// the placeholder blacklist, de-duplicated in document order.
func Emails(html []byte) []string {
	matches := emailPattern.FindAllString(string(html), -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var emails []string
	for _, m := range matches {
		lower := strings.ToLower(m)
		if isPlaceholderEmail(lower) || isAssetFilename(lower) {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		emails = append(emails, m)
	}
	return emails
}

// isAssetFilename reports whether the token is really a retina-style image
// or script path (logo@2x.png) whose extension the matcher read as a TLD.
func isAssetFilename(email string) bool {
	dot := strings.LastIndex(email, ".")
	if dot < 0 {
		return false
	}
	_, asset := assetExtensions[email[dot+1:]]
	return asset
}

func isPlaceholderEmail(email string) bool {
	for _, bad := range emailBlacklist {
		if strings.Contains(email, bad) {
			return true
		}
	}
	return false
}

// PickContactEmail chooses the best outreach address from a candidate
// list, preferring mailboxes that look affiliate-related.
func PickContactEmail(emails []string) string {
	if len(emails) == 0 {
		return ""
	}
	for _, email := range emails {
		local := strings.ToLower(email)
		if at := strings.Index(local, "@"); at > 0 {
			local = local[:at]
		}
		if strings.Contains(local, "affiliate") ||
			strings.Contains(local, "partner") ||
			strings.Contains(local, "referral") {
			return email
		}
	}
	return emails[0]
}
