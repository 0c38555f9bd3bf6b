package export

import (
	"strconv"
	"strings"

	"inbox-dashboard/internal/model"
)

var csvHeader = []string{"Betreff", "Absender", "Größe (MB)", "Unsubscribe Link", "Datum"}

// BuildCSV writes one row per newsletter. Every data field is quoted and
// inner quotes are doubled; the header stays unquoted.
func BuildCSV(newsletters []model.NewsletterEntry) string {
	rows := make([]string, 0, len(newsletters)+1)
	rows = append(rows, strings.Join(csvHeader, ","))
	for _, n := range newsletters {
		rows = append(rows, strings.Join([]string{
			quote(n.Subject),
			quote(n.From),
			quote(strconv.FormatFloat(n.SizeMB, 'f', -1, 64)),
			quote(n.UnsubscribeLink),
			quote(n.Date),
		}, ","))
	}
	return strings.Join(rows, "\n")
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
