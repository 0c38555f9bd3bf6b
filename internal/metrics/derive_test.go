package metrics

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"inbox-dashboard/internal/model"
)

func reportWith(total int, totalSize float64, sizes ...float64) *model.EmailReport {
	report := model.NewEmailReport()
	report.TotalEmails = total
	report.TotalSizeMB = totalSize
	for _, size := range sizes {
		report.Newsletters = append(report.Newsletters, model.NewsletterEntry{From: "s@d.com", SizeMB: size})
	}
	return report
}

func TestDeriveSingleNewsletter(t *testing.T) {
	m := Derive(reportWith(10, 20, 5))

	assert.Equal(t, 1, m.NewsletterCount)
	assert.Equal(t, 9, m.RegularEmailCount)
	assert.Equal(t, 10.0, m.NewsletterPercent)
	assert.Equal(t, 90.0, m.RegularPercent)
	assert.Equal(t, 5.0, m.NewsletterSizeMB)
	assert.Equal(t, 15.0, m.RegularSizeMB)
	assert.Equal(t, 25.0, m.NewsletterSizePercent)
	assert.Equal(t, 75.0, m.RegularSizePercent)
	assert.Equal(t, 5.0, m.PotentialSavingsMB)
}

func TestDeriveEmptyReport(t *testing.T) {
	m := Derive(model.NewEmailReport())

	assert.Equal(t, model.DerivedMetrics{}, m)
	assert.Equal(t, model.DerivedMetrics{}, Derive(nil))
}

func TestDeriveClampsRegularCounts(t *testing.T) {
	m := Derive(reportWith(1, 2, 3, 4))

	assert.Equal(t, 0, m.RegularEmailCount)
	assert.Equal(t, 0.0, m.RegularSizeMB)
	assert.Equal(t, 200.0, m.NewsletterPercent)
	assert.Equal(t, 0.0, m.RegularPercent)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 33.3, Round1(100.0/3))
	assert.Equal(t, 0.3, Round1(0.25))
	assert.Equal(t, 0.0, Round1(0))
	assert.Equal(t, 66.7, Percent(2, 3))
	assert.Equal(t, 0.0, Percent(5, 0))
}

func TestDeriveProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("zero total emails yields zero percentages", prop.ForAll(
		func(sizes []float64) bool {
			m := Derive(reportWith(0, 0, sizes...))
			return m.NewsletterPercent == 0 && m.RegularPercent == 0 &&
				m.NewsletterSizePercent == 0 && m.RegularSizePercent == 0
		},
		gen.SliceOf(gen.Float64Range(0, 50)),
	))

	properties.Property("regular figures never go negative", prop.ForAll(
		func(total int, totalSize float64, sizes []float64) bool {
			m := Derive(reportWith(total, totalSize, sizes...))
			return m.RegularEmailCount >= 0 && m.RegularSizeMB >= 0
		},
		gen.IntRange(0, 20),
		gen.Float64Range(0, 100),
		gen.SliceOf(gen.Float64Range(0, 50)),
	))

	properties.Property("counts add up when newsletters fit the total", prop.ForAll(
		func(extra int, sizes []float64) bool {
			report := reportWith(0, 0, sizes...)
			report.TotalEmails = len(sizes) + extra
			m := Derive(report)
			return m.NewsletterCount+m.RegularEmailCount == m.TotalEmails
		},
		gen.IntRange(0, 1000),
		gen.SliceOf(gen.Float64Range(0, 50)),
	))

	properties.TestingRun(t)
}
