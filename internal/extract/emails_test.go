package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmailsFindsAndDedupes(t *testing.T) {
	t.Parallel()

	html := []byte(`<p>Write to hello@acme.test or hello@acme.test.
	Partnerships: partners@acme.test</p>`)

	require.Equal(t, []string{"hello@acme.test", "partners@acme.test"}, Emails(html))
}

func TestEmailsFiltersPlaceholders(t *testing.T) {
	t.Parallel()

	html := []byte(`user@example.com you@yourdomain.io info@domain.com real@acme.test`)

	require.Equal(t, []string{"real@acme.test"}, Emails(html))
}

func TestEmailsRejectsAssetFilenames(t *testing.T) {
	t.Parallel()

	html := []byte(`<img src="/img/logo@2x.png"> <script src="vendor@1.2.min.js"></script>
	<p>contact@acme.test</p>`)

	require.Equal(t, []string{"contact@acme.test"}, Emails(html))
}

func TestEmailsEmptyInput(t *testing.T) {
	t.Parallel()

	require.Nil(t, Emails(nil))
	require.Nil(t, Emails([]byte("no addresses here")))
}

func TestPickContactEmailPrefersAffiliateMailboxes(t *testing.T) {
	t.Parallel()

	emails := []string{"support@acme.test", "affiliates@acme.test", "sales@acme.test"}
	require.Equal(t, "affiliates@acme.test", PickContactEmail(emails))

	emails = []string{"support@acme.test", "partner-team@acme.test"}
	require.Equal(t, "partner-team@acme.test", PickContactEmail(emails))
}

func TestPickContactEmailFallsBackToFirst(t *testing.T) {
	t.Parallel()

	require.Equal(t, "support@acme.test", PickContactEmail([]string{"support@acme.test", "sales@acme.test"}))
	require.Equal(t, "", PickContactEmail(nil))
}
