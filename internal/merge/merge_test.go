package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"partnerscout/internal/scout"
)

func foundOutcome() scout.Outcome {
	return scout.Outcome{
		Status:       scout.StatusFound,
		Outreach:     scout.OutreachAffiliateFound,
		Notes:        "Found on website",
		Source:       scout.SourceHomepage,
		AffiliateURL: "https://acme.test/affiliates",
		Facts: scout.AffiliateFacts{
			Commission:     "30% commission",
			CookieDuration: "90 day cookie",
			PayoutType:     "recurring commission",
			ContactEmail:   "partners@acme.test",
			ContactPageURL: "https://acme.test/contact",
			FaviconURL:     "https://acme.test/favicon.ico",
			LogoURL:        "https://acme.test/logo.png",
			ImageURL:       "https://acme.test/hero.png",
			SocialLinks:    []scout.SocialLink{{Platform: "twitter", URL: "https://x.com/acme"}},
			Tags:           []string{"saas", "marketing"},
			UseCases:       []string{"Email campaigns"},
			Features:       []string{"A/B testing"},
		},
	}
}

func TestBuildUpdateWritesClassificationAlways(t *testing.T) {
	t.Parallel()

	upd := BuildUpdate(scout.Subject{}, foundOutcome())

	require.NotNil(t, upd.Status)
	require.Equal(t, scout.StatusFound, *upd.Status)
	require.NotNil(t, upd.Outreach)
	require.Equal(t, scout.OutreachAffiliateFound, *upd.Outreach)
	require.NotNil(t, upd.Notes)
	require.Equal(t, "Found on website", *upd.Notes)
	require.NotNil(t, upd.AffiliateURL)
	require.Equal(t, "https://acme.test/affiliates", *upd.AffiliateURL)
}

func TestBuildUpdateClearsCommercialTermsOnEmptyPass(t *testing.T) {
	t.Parallel()

	stored := scout.Subject{
		Status: scout.StatusFound,
		Facts: scout.AffiliateFacts{
			AffiliateURL: "https://acme.test/old",
			Commission:   "20% commission",
		},
	}
	outcome := scout.Outcome{
		Status:   scout.StatusNotFound,
		Outreach: scout.OutreachNeedsContact,
		Notes:    "No affiliate program found after thorough search",
	}

	upd := BuildUpdate(stored, outcome)

	// A pass that found nothing explicitly clears the unprotected scalars.
	require.NotNil(t, upd.AffiliateURL)
	require.Equal(t, "", *upd.AffiliateURL)
	require.NotNil(t, upd.Commission)
	require.Equal(t, "", *upd.Commission)
	require.NotNil(t, upd.CookieDuration)
	require.Equal(t, "", *upd.CookieDuration)
	require.NotNil(t, upd.PayoutType)
	require.Equal(t, "", *upd.PayoutType)
}

func TestBuildUpdateFirstWriterWins(t *testing.T) {
	t.Parallel()

	stored := scout.Subject{
		Facts: scout.AffiliateFacts{
			ContactEmail:   "existing@acme.test",
			ContactPageURL: "https://acme.test/old-contact",
			FaviconURL:     "https://acme.test/old-favicon.ico",
			LogoURL:        "https://acme.test/old-logo.png",
			ImageURL:       "https://acme.test/old-hero.png",
		},
	}

	upd := BuildUpdate(stored, foundOutcome())

	// All five protected scalars stay untouched once populated.
	require.Nil(t, upd.ContactEmail)
	require.Nil(t, upd.ContactPageURL)
	require.Nil(t, upd.FaviconURL)
	require.Nil(t, upd.LogoURL)
	require.Nil(t, upd.ImageURL)
}

func TestBuildUpdateProtectedScalarFillsEmpty(t *testing.T) {
	t.Parallel()

	upd := BuildUpdate(scout.Subject{}, foundOutcome())

	require.NotNil(t, upd.ContactEmail)
	require.Equal(t, "partners@acme.test", *upd.ContactEmail)
	require.NotNil(t, upd.FaviconURL)
	require.Equal(t, "https://acme.test/favicon.ico", *upd.FaviconURL)
}

func TestBuildUpdateProtectedScalarAbsentFresh(t *testing.T) {
	t.Parallel()

	outcome := foundOutcome()
	outcome.Facts.ContactEmail = ""

	upd := BuildUpdate(scout.Subject{}, outcome)

	// Nothing found means nothing written, never a clear.
	require.Nil(t, upd.ContactEmail)
}

func TestBuildUpdateUnionKeepsStoredFirst(t *testing.T) {
	t.Parallel()

	stored := scout.Subject{
		Facts: scout.AffiliateFacts{Tags: []string{"saas", "email"}},
	}
	outcome := foundOutcome()
	outcome.Facts.Tags = []string{"marketing", "saas"}

	upd := BuildUpdate(stored, outcome)

	require.Equal(t, []string{"saas", "email", "marketing"}, upd.Tags)
}

func TestBuildUpdateUnionIdempotent(t *testing.T) {
	t.Parallel()

	outcome := foundOutcome()
	first := BuildUpdate(scout.Subject{}, outcome)

	stored := scout.Subject{Facts: scout.AffiliateFacts{Tags: first.Tags}}
	second := BuildUpdate(stored, outcome)

	require.Equal(t, first.Tags, second.Tags)
}

func TestBuildUpdateUnionRespectsCap(t *testing.T) {
	t.Parallel()

	var stored scout.Subject
	for i := 0; i < scout.MaxTags; i++ {
		stored.Facts.Tags = append(stored.Facts.Tags, string(rune('a'+i)))
	}
	outcome := foundOutcome()
	outcome.Facts.Tags = []string{"overflow"}

	upd := BuildUpdate(stored, outcome)

	require.Len(t, upd.Tags, scout.MaxTags)
	require.NotContains(t, upd.Tags, "overflow")
}

func TestBuildUpdateEmptyFreshSetsLeaveStored(t *testing.T) {
	t.Parallel()

	stored := scout.Subject{
		Facts: scout.AffiliateFacts{
			Tags:        []string{"saas"},
			SocialLinks: []scout.SocialLink{{Platform: "twitter", URL: "https://x.com/acme"}},
		},
	}
	outcome := foundOutcome()
	outcome.Facts.Tags = nil
	outcome.Facts.SocialLinks = nil

	upd := BuildUpdate(stored, outcome)

	// Nil means untouched at the store layer.
	require.Nil(t, upd.Tags)
	require.Nil(t, upd.SocialLinks)
}

func TestResetUpdateClearsEverything(t *testing.T) {
	t.Parallel()

	upd := ResetUpdate("Reset to pending")

	require.Equal(t, scout.StatusPending, *upd.Status)
	require.Equal(t, scout.OutreachNeedsContact, *upd.Outreach)
	require.Equal(t, "Reset to pending", *upd.Notes)

	for _, field := range []*string{
		upd.AffiliateURL, upd.Commission, upd.CookieDuration, upd.PayoutType,
		upd.ContactEmail, upd.ContactPageURL, upd.FaviconURL, upd.LogoURL, upd.ImageURL,
	} {
		require.NotNil(t, field)
		require.Equal(t, "", *field)
	}

	// Non-nil empty slices force the columns back to empty.
	require.NotNil(t, upd.SocialLinks)
	require.Empty(t, upd.SocialLinks)
	require.NotNil(t, upd.Tags)
	require.Empty(t, upd.Tags)
	require.NotNil(t, upd.UseCases)
	require.Empty(t, upd.UseCases)
	require.NotNil(t, upd.Features)
	require.Empty(t, upd.Features)
}
