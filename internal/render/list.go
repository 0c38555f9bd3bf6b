package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"inbox-dashboard/internal/model"
)

const (
	listLimit      = 10
	subjectLimit   = 60
	defaultSubject = "Kein Betreff"
)

var strictPolicy = bluemonday.StrictPolicy()

// ListItem is one newsletter row. Subject and From are HTML-escaped and can
// be inserted into the page as is; ID stays raw for action URLs.
type ListItem struct {
	ID             string `json:"id,omitempty"`
	Subject        string `json:"subject"`
	From           string `json:"from"`
	Size           string `json:"size"`
	HasUnsubscribe bool   `json:"has_unsubscribe"`
	Removed        bool   `json:"removed,omitempty"`
}

type NewsletterList struct {
	Items     []ListItem `json:"items"`
	Remaining int        `json:"remaining"`
	MoreLabel string     `json:"more_label,omitempty"`
}

// RenderNewsletterList returns the first ten newsletters and how many are
// left over.
func RenderNewsletterList(newsletters []model.NewsletterEntry) NewsletterList {
	count := len(newsletters)
	if count > listLimit {
		count = listLimit
	}

	list := NewsletterList{Items: make([]ListItem, 0, count)}
	for _, n := range newsletters[:count] {
		list.Items = append(list.Items, newListItem(n))
	}
	if len(newsletters) > listLimit {
		list.Remaining = len(newsletters) - listLimit
		list.MoreLabel = fmt.Sprintf("... und %d weitere Newsletter", list.Remaining)
	}
	return list
}

func newListItem(n model.NewsletterEntry) ListItem {
	subject := strings.TrimSpace(n.Subject)
	if subject == "" {
		subject = defaultSubject
	}
	from := strings.TrimSpace(n.From)
	if from == "" {
		from = unknownSender
	}
	return ListItem{
		ID:             strings.TrimSpace(n.ID),
		Subject:        EscapeText(Truncate(subject, subjectLimit)),
		From:           EscapeText(from),
		Size:           fmt.Sprintf("%.1f MB", n.SizeMB),
		HasUnsubscribe: n.HasUnsubscribeLink(),
	}
}

// EscapeText escapes untrusted text so embedded markup shows up literally.
// The strict policy pass guarantees no element survives.
func EscapeText(s string) string {
	return strictPolicy.Sanitize(html.EscapeString(s))
}

// Truncate cuts s to limit runes and appends "..." when it was longer.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
