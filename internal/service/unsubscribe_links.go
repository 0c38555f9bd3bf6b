package service

import (
	"net/url"
	"regexp"
	"strings"

	"inbox-dashboard/internal/model"

	"github.com/PuerkitoBio/goquery"
)

var (
	headerURLPattern = regexp.MustCompile(`<(https?://[^>]+)>`)
	hrefPatterns     = []*regexp.Regexp{
		regexp.MustCompile(`(?i)href=["']([^"']*unsubscribe[^"']*)["']`),
		regexp.MustCompile(`(?i)href=["']([^"']*abmelden[^"']*)["']`),
	}
	bareURLPattern = regexp.MustCompile(`(?i)https?://[^\s"'<>]*unsubscribe[^\s"'<>]*`)
)

// HeaderUnsubscribeURL returns the first HTTP(S) URL of a List-Unsubscribe header.
func HeaderUnsubscribeURL(header string) string {
	if m := headerURLPattern.FindStringSubmatch(header); len(m) > 1 {
		return m[1]
	}
	return ""
}

// FindUnsubscribeLink checks the List-Unsubscribe header, then anchors in the
// HTML body, then any unsubscribe URL in the raw text.
func FindUnsubscribeLink(details *model.MessageDetails) string {
	if link := HeaderUnsubscribeURL(details.Header("list-unsubscribe")); link != "" {
		return link
	}

	if details.HTML != "" {
		if link := findAnchorLink(details.HTML); link != "" {
			return link
		}
	}

	for _, body := range []string{details.HTML, details.Body} {
		for _, re := range hrefPatterns {
			if m := re.FindStringSubmatch(body); len(m) > 1 && isValidURL(m[1]) {
				return m[1]
			}
		}
		if m := bareURLPattern.FindString(body); m != "" {
			return m
		}
	}
	return ""
}

func findAnchorLink(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		lowerHref := strings.ToLower(href)
		related := strings.Contains(lowerHref, "unsubscribe") ||
			strings.Contains(lowerHref, "abmelden") ||
			isUnsubscribeRelatedText(s.Text())
		if related && isValidURL(href) {
			found = href
			return false
		}
		return true
	})
	return found
}

func isUnsubscribeRelatedText(text string) bool {
	unsubscribeKeywords := []string{
		"unsubscribe", "opt out", "opt-out", "optout", "abmelden",
		"abbestellen", "newsletter abbestellen", "email preferences",
		"manage preferences", "remove me", "unsub",
	}

	textLower := strings.ToLower(strings.TrimSpace(text))
	for _, keyword := range unsubscribeKeywords {
		if strings.Contains(textLower, keyword) {
			return true
		}
	}
	return false
}

func isValidURL(input string) bool {
	u, err := url.ParseRequestURI(input)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// PlainText strips markup from an HTML body.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}
