package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"partnerscout/internal/scout"
)

func TestPageTaxonomyTagsFromKeywordsMeta(t *testing.T) {
	t.Parallel()

	html := []byte(`<head><meta name="keywords" content="email marketing, automation / saas"></head>`)

	got := PageTaxonomy(html)
	require.Equal(t, []string{"email marketing", "automation", "saas"}, got.Tags)
}

func TestPageTaxonomyTagsFromContainers(t *testing.T) {
	t.Parallel()

	html := []byte(`<div class="tags">analytics, dashboards</div>`)

	got := PageTaxonomy(html)
	require.Equal(t, []string{"analytics", "dashboards"}, got.Tags)
}

func TestPageTaxonomyUseCasesAndFeatures(t *testing.T) {
	t.Parallel()

	html := []byte(`
		<div class="use-cases">
			<h3>Automate your email campaigns</h3>
			<h3>Track campaign performance</h3>
		</div>
		<div class="feature-list">
			<li>Drag and drop editor</li>
			<li>tiny</li>
		</div>
	`)

	got := PageTaxonomy(html)
	require.Equal(t, []string{"Automate your email campaigns", "Track campaign performance"}, got.UseCases)
	require.Contains(t, got.Features, "Drag and drop editor")
	require.NotContains(t, got.Features, "tiny")
}

func TestPageTaxonomyEntryLengthBoundsInclusive(t *testing.T) {
	t.Parallel()

	longest := strings.Repeat("x", maxFeatureLen)
	html := []byte(fmt.Sprintf(`
		<div class="feature-list">
			<li>Syncs</li>
			<li>four</li>
			<li>%s</li>
			<li>%sy</li>
		</div>
	`, longest, longest))

	got := PageTaxonomy(html)
	require.Contains(t, got.Features, "Syncs")
	require.Contains(t, got.Features, longest)
	require.NotContains(t, got.Features, "four")
	require.NotContains(t, got.Features, longest+"y")
}

func TestPageTaxonomyBulletFeatures(t *testing.T) {
	t.Parallel()

	html := []byte(`<ul><li>✓ Unlimited subscribers</li><li>Plain entry without marker</li></ul>`)

	got := PageTaxonomy(html)
	require.Contains(t, got.Features, "Unlimited subscribers")
	require.NotContains(t, got.Features, "Plain entry without marker")
}

func TestPageTaxonomyRespectsCaps(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString(`<meta name="keywords" content="`)
	for i := 0; i < scout.MaxTags+10; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "tag-%d", i)
	}
	sb.WriteString(`">`)

	got := PageTaxonomy([]byte(sb.String()))
	require.Len(t, got.Tags, scout.MaxTags)
}

func TestPageTaxonomyEmptyInput(t *testing.T) {
	t.Parallel()

	got := PageTaxonomy(nil)
	require.Empty(t, got.Tags)
	require.Empty(t, got.UseCases)
	require.Empty(t, got.Features)
}
