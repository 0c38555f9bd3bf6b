package render

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"inbox-dashboard/internal/metrics"
	"inbox-dashboard/internal/model"
)

// Canvas ids the dashboard page reserves for each chart.
const (
	DistributionChartID = "emailDistributionChart"
	StorageChartID      = "storageAnalysisChart"
	SenderChartID       = "senderAnalysisChart"
	TimelineChartID     = "timelineChart"
)

const (
	topSenderLimit   = 5
	timelineDayLimit = 30
	unknownSender    = "Unbekannt"
)

var Colors = struct {
	Primary, Secondary, Success, Warning, Info string
}{
	Primary:   "#3498db",
	Secondary: "#e74c3c",
	Success:   "#2ecc71",
	Warning:   "#f39c12",
	Info:      "#17a2b8",
}

// ChartDescriptor is the chart configuration handed to the browser's chart
// library. Segments and Points carry the same numbers in a typed form.
type ChartDescriptor struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Labels   []string               `json:"labels"`
	Datasets []Dataset              `json:"datasets"`
	Options  map[string]interface{} `json:"options,omitempty"`
	Segments []Segment              `json:"segments,omitempty"`
	Points   []Point                `json:"points,omitempty"`
}

type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
	BorderColor     []string  `json:"borderColor,omitempty"`
	BorderWidth     int       `json:"borderWidth"`
	Fill            bool      `json:"fill,omitempty"`
	Tension         float64   `json:"tension,omitempty"`
}

// Segment is one slice of a two-way breakdown.
type Segment struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

// Point is a counted category on a sender or timeline chart.
type Point struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BuildDistributionChart splits the inbox into newsletters and regular
// emails by count.
func BuildDistributionChart(report *model.EmailReport) ChartDescriptor {
	m := metrics.Derive(report)
	segments := []Segment{
		{
			Name:    "Newsletter",
			Value:   float64(m.NewsletterCount),
			Percent: m.NewsletterPercent,
			Label:   fmt.Sprintf("Newsletter (%s)", FormatPercent(m.NewsletterPercent)),
		},
		{
			Name:    "Normale Emails",
			Value:   float64(m.RegularEmailCount),
			Percent: m.RegularPercent,
			Label:   fmt.Sprintf("Normale Emails (%s)", FormatPercent(m.RegularPercent)),
		},
	}

	return ChartDescriptor{
		ID:     DistributionChartID,
		Type:   "doughnut",
		Title:  "Email-Verteilung",
		Labels: segmentLabels(segments),
		Datasets: []Dataset{{
			Data:            segmentValues(segments),
			BackgroundColor: []string{Colors.Secondary, Colors.Primary},
		}},
		Options:  map[string]interface{}{"cutout": "60%"},
		Segments: segments,
	}
}

// BuildStorageChart splits the inbox size into newsletters and regular
// emails, in MB with one decimal.
func BuildStorageChart(report *model.EmailReport) ChartDescriptor {
	m := metrics.Derive(report)
	segments := []Segment{
		{
			Name:    "Newsletter",
			Value:   m.NewsletterSizeMB,
			Percent: m.NewsletterSizePercent,
			Label:   fmt.Sprintf("Newsletter: %s (%s)", FormatMB(m.NewsletterSizeMB), FormatPercent(m.NewsletterSizePercent)),
		},
		{
			Name:    "Normale Emails",
			Value:   m.RegularSizeMB,
			Percent: m.RegularSizePercent,
			Label:   fmt.Sprintf("Normale Emails: %s (%s)", FormatMB(m.RegularSizeMB), FormatPercent(m.RegularSizePercent)),
		},
	}

	colors := []string{Colors.Secondary, Colors.Success}
	return ChartDescriptor{
		ID:     StorageChartID,
		Type:   "bar",
		Title:  "Speicherverbrauch",
		Labels: []string{"Newsletter", "Normale Emails"},
		Datasets: []Dataset{{
			Label:           "Speicherverbrauch (MB)",
			Data:            segmentValues(segments),
			BackgroundColor: colors,
			BorderColor:     colors,
			BorderWidth:     2,
		}},
		Options: map[string]interface{}{
			"yTitle":     "Größe (MB)",
			"hideLegend": true,
		},
		Segments: segments,
	}
}

// BuildSenderChart ranks the top sender domains by newsletter count.
// Domains with equal counts keep the order in which they were first seen.
func BuildSenderChart(newsletters []model.NewsletterEntry) ChartDescriptor {
	counts := make(map[string]int)
	var order []string
	for _, n := range newsletters {
		domain := SenderDomain(n.From)
		if _, seen := counts[domain]; !seen {
			order = append(order, domain)
		}
		counts[domain]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topSenderLimit {
		order = order[:topSenderLimit]
	}

	points := make([]Point, 0, len(order))
	for _, domain := range order {
		points = append(points, Point{Key: domain, Label: domain, Count: counts[domain]})
	}

	palette := []string{Colors.Primary, Colors.Secondary, Colors.Success, Colors.Warning, Colors.Info}
	return ChartDescriptor{
		ID:     SenderChartID,
		Type:   "bar",
		Title:  "Top Absender",
		Labels: pointLabels(points),
		Datasets: []Dataset{{
			Label:           "Anzahl Newsletter",
			Data:            pointValues(points),
			BackgroundColor: palette[:len(points)],
		}},
		Options: map[string]interface{}{"indexAxis": "y"},
		Points:  points,
	}
}

// SenderDomain returns the part after '@' of a sender, the whole sender
// when it has no '@', and "Unbekannt" when it is empty.
func SenderDomain(from string) string {
	from = strings.TrimSpace(from)
	if from == "" {
		return unknownSender
	}
	if addr, err := mail.ParseAddress(from); err == nil {
		from = addr.Address
	}
	if _, domain, ok := strings.Cut(from, "@"); ok && domain != "" {
		return strings.ToLower(domain)
	}
	return from
}

type datedCount struct {
	key    string
	date   time.Time
	parsed bool
	count  int
}

// BuildTimelineChart counts newsletters per date string and keeps the most
// recent days in ascending order. Entries without a date count as today.
func BuildTimelineChart(newsletters []model.NewsletterEntry, today time.Time) ChartDescriptor {
	byKey := make(map[string]*datedCount)
	var days []*datedCount
	for _, n := range newsletters {
		key := strings.TrimSpace(n.Date)
		if key == "" {
			key = today.Format("2006-01-02")
		}
		day, ok := byKey[key]
		if !ok {
			day = &datedCount{key: key}
			day.date, day.parsed = ParseDate(key)
			byKey[key] = day
			days = append(days, day)
		}
		day.count++
	}

	// Unparsable dates sort after every real date.
	sort.SliceStable(days, func(i, j int) bool {
		a, b := days[i], days[j]
		if a.parsed != b.parsed {
			return a.parsed
		}
		if a.parsed && !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		return a.key < b.key
	})
	if len(days) > timelineDayLimit {
		days = days[len(days)-timelineDayLimit:]
	}

	points := make([]Point, 0, len(days))
	for _, day := range days {
		label := day.key
		if day.parsed {
			label = GermanShortDate(day.date)
		}
		points = append(points, Point{Key: day.key, Label: label, Count: day.count})
	}

	return ChartDescriptor{
		ID:     TimelineChartID,
		Type:   "line",
		Title:  "Newsletter-Verlauf",
		Labels: pointLabels(points),
		Datasets: []Dataset{{
			Label:           "Newsletter pro Tag",
			Data:            pointValues(points),
			BackgroundColor: []string{Colors.Primary + "20"},
			BorderColor:     []string{Colors.Primary},
			BorderWidth:     2,
			Fill:            true,
			Tension:         0.4,
		}},
		Options: map[string]interface{}{"yTitle": "Anzahl Newsletter"},
		Points:  points,
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
}

// ParseDate accepts ISO dates and the RFC 5322 forms found in mail headers.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := mail.ParseDate(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

var germanMonths = [...]string{
	"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni",
	"Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez.",
}

// GermanShortDate formats a day like "20. Juli".
func GermanShortDate(t time.Time) string {
	return fmt.Sprintf("%d. %s", t.Day(), germanMonths[t.Month()-1])
}

func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func FormatMB(v float64) string {
	return fmt.Sprintf("%.1f MB", v)
}

func segmentLabels(segments []Segment) []string {
	labels := make([]string, len(segments))
	for i, s := range segments {
		labels[i] = s.Label
	}
	return labels
}

func segmentValues(segments []Segment) []float64 {
	values := make([]float64, len(segments))
	for i, s := range segments {
		values[i] = s.Value
	}
	return values
}

func pointLabels(points []Point) []string {
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = p.Label
	}
	return labels
}

func pointValues(points []Point) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = float64(p.Count)
	}
	return values
}
