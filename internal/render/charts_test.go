package render

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-dashboard/internal/model"
)

func sampleReport() *model.EmailReport {
	report := model.NewEmailReport()
	report.TotalEmails = 10
	report.TotalSizeMB = 20
	report.Newsletters = []model.NewsletterEntry{{Subject: "A", From: "s@d.com", SizeMB: 5}}
	return report
}

func TestDistributionChart(t *testing.T) {
	chart := BuildDistributionChart(sampleReport())

	assert.Equal(t, "doughnut", chart.Type)
	require.Len(t, chart.Segments, 2)
	assert.Equal(t, 1.0, chart.Segments[0].Value)
	assert.Equal(t, 10.0, chart.Segments[0].Percent)
	assert.Equal(t, 9.0, chart.Segments[1].Value)
	assert.Equal(t, 90.0, chart.Segments[1].Percent)
	assert.Equal(t, []string{"Newsletter (10.0%)", "Normale Emails (90.0%)"}, chart.Labels)
	assert.Equal(t, []float64{1, 9}, chart.Datasets[0].Data)
}

func TestStorageChart(t *testing.T) {
	chart := BuildStorageChart(sampleReport())

	assert.Equal(t, "bar", chart.Type)
	require.Len(t, chart.Segments, 2)
	assert.Equal(t, 5.0, chart.Segments[0].Value)
	assert.Equal(t, 25.0, chart.Segments[0].Percent)
	assert.Equal(t, "Newsletter: 5.0 MB (25.0%)", chart.Segments[0].Label)
	assert.Equal(t, 15.0, chart.Segments[1].Value)
	assert.Equal(t, 75.0, chart.Segments[1].Percent)
	assert.Equal(t, "Normale Emails: 15.0 MB (75.0%)", chart.Segments[1].Label)
}

func TestChartsOnEmptyReport(t *testing.T) {
	chart := BuildDistributionChart(model.NewEmailReport())
	assert.Equal(t, []string{"Newsletter (0.0%)", "Normale Emails (0.0%)"}, chart.Labels)

	storage := BuildStorageChart(model.NewEmailReport())
	assert.Equal(t, 0.0, storage.Segments[0].Percent)
}

func TestSenderChartRanksDomains(t *testing.T) {
	chart := BuildSenderChart([]model.NewsletterEntry{
		{From: "a@x.com"}, {From: "b@x.com"}, {From: "c@y.com"},
	})

	require.Len(t, chart.Points, 2)
	assert.Equal(t, Point{Key: "x.com", Label: "x.com", Count: 2}, chart.Points[0])
	assert.Equal(t, Point{Key: "y.com", Label: "y.com", Count: 1}, chart.Points[1])
	assert.Equal(t, "y", chart.Options["indexAxis"])
}

func TestSenderChartTiesKeepDiscoveryOrder(t *testing.T) {
	var newsletters []model.NewsletterEntry
	for _, domain := range []string{"g.com", "b.com", "f.com", "a.com", "e.com", "c.com", "d.com"} {
		newsletters = append(newsletters, model.NewsletterEntry{From: "news@" + domain})
	}
	newsletters = append(newsletters, model.NewsletterEntry{From: "more@d.com"})

	chart := BuildSenderChart(newsletters)

	assert.Equal(t, []string{"d.com", "g.com", "b.com", "f.com", "a.com"}, chart.Labels)
	assert.Len(t, chart.Datasets[0].BackgroundColor, 5)
}

func TestSenderDomain(t *testing.T) {
	tests := map[string]string{
		"a@x.com":                   "x.com",
		"Tech News <tech@News.COM>": "news.com",
		"no-address":                "no-address",
		"":                          "Unbekannt",
		"   ":                       "Unbekannt",
	}
	for in, want := range tests {
		assert.Equal(t, want, SenderDomain(in), in)
	}
}

func TestTimelineKeepsLatestThirtyDays(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var newsletters []model.NewsletterEntry
	// Insert in reverse to make sure ordering comes from the dates.
	for i := 34; i >= 0; i-- {
		newsletters = append(newsletters, model.NewsletterEntry{Date: start.AddDate(0, 0, i).Format("2006-01-02")})
	}

	chart := BuildTimelineChart(newsletters, start)

	require.Len(t, chart.Points, 30)
	assert.Equal(t, start.AddDate(0, 0, 5).Format("2006-01-02"), chart.Points[0].Key)
	assert.Equal(t, start.AddDate(0, 0, 34).Format("2006-01-02"), chart.Points[29].Key)
	for i := 1; i < len(chart.Points); i++ {
		assert.Less(t, chart.Points[i-1].Key, chart.Points[i].Key)
		assert.Equal(t, 1, chart.Points[i].Count)
	}
	assert.Equal(t, "6. Juni", chart.Points[0].Label)
	assert.Equal(t, "5. Juli", chart.Points[29].Label)
}

func TestTimelineCountsAndDefaults(t *testing.T) {
	today := time.Date(2025, 7, 21, 9, 30, 0, 0, time.UTC)
	chart := BuildTimelineChart([]model.NewsletterEntry{
		{Date: "2025-07-20"},
		{Date: "2025-07-20"},
		{Date: "someday"},
		{Date: ""},
		{Date: "2025-03-01"},
	}, today)

	keys := make([]string, len(chart.Points))
	for i, p := range chart.Points {
		keys[i] = p.Key
	}
	assert.Equal(t, []string{"2025-03-01", "2025-07-20", "2025-07-21", "someday"}, keys)
	assert.Equal(t, 2, chart.Points[1].Count)
	assert.Equal(t, "1. März", chart.Points[0].Label)
	assert.Equal(t, "someday", chart.Points[3].Label)
}

func TestParseDateMailHeaderFormat(t *testing.T) {
	parsed, ok := ParseDate("Mon, 21 Jul 2025 08:15:00 +0200")
	require.True(t, ok)
	assert.Equal(t, 21, parsed.Day())

	_, ok = ParseDate("gestern")
	assert.False(t, ok)
}

func TestTimelineProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("timeline is ascending and capped at thirty days", prop.ForAll(
		func(offsets []int) bool {
			newsletters := make([]model.NewsletterEntry, 0, len(offsets))
			distinct := make(map[int]bool)
			for _, o := range offsets {
				distinct[o] = true
				newsletters = append(newsletters, model.NewsletterEntry{Date: start.AddDate(0, 0, o).Format("2006-01-02")})
			}
			chart := BuildTimelineChart(newsletters, start)

			want := len(distinct)
			if want > 30 {
				want = 30
			}
			if len(chart.Points) != want {
				return false
			}
			for i := 1; i < len(chart.Points); i++ {
				if chart.Points[i-1].Key >= chart.Points[i].Key {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 120)),
	))

	properties.Property("sender counts never exceed the newsletter count", prop.ForAll(
		func(domains []int) bool {
			newsletters := make([]model.NewsletterEntry, 0, len(domains))
			for _, d := range domains {
				newsletters = append(newsletters, model.NewsletterEntry{From: fmt.Sprintf("n@d%d.com", d)})
			}
			chart := BuildSenderChart(newsletters)
			sum := 0
			for i, p := range chart.Points {
				sum += p.Count
				if i > 0 && chart.Points[i-1].Count < p.Count {
					return false
				}
			}
			return sum <= len(newsletters) && len(chart.Points) <= 5
		},
		gen.SliceOf(gen.IntRange(0, 9)),
	))

	properties.TestingRun(t)
}
