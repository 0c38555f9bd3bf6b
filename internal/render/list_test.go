package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-dashboard/internal/model"
)

func TestRenderNewsletterListLimitsToTen(t *testing.T) {
	var newsletters []model.NewsletterEntry
	for i := 0; i < 13; i++ {
		newsletters = append(newsletters, model.NewsletterEntry{Subject: fmt.Sprintf("Issue %d", i), From: "n@d.com", SizeMB: 1.26})
	}

	list := RenderNewsletterList(newsletters)

	assert.Len(t, list.Items, 10)
	assert.Equal(t, 3, list.Remaining)
	assert.Equal(t, "... und 3 weitere Newsletter", list.MoreLabel)
	assert.Equal(t, "1.3 MB", list.Items[0].Size)
}

func TestRenderNewsletterListDefaultsAndTruncation(t *testing.T) {
	long := strings.Repeat("ä", 75)
	list := RenderNewsletterList([]model.NewsletterEntry{
		{Subject: long, From: "a@b.com", UnsubscribeLink: "https://b.com/u", ID: "m1"},
		{},
	})

	require.Len(t, list.Items, 2)
	assert.Equal(t, strings.Repeat("ä", 60)+"...", list.Items[0].Subject)
	assert.True(t, list.Items[0].HasUnsubscribe)
	assert.Equal(t, "m1", list.Items[0].ID)
	assert.Equal(t, "Kein Betreff", list.Items[1].Subject)
	assert.Equal(t, "Unbekannt", list.Items[1].From)
	assert.Equal(t, "0.0 MB", list.Items[1].Size)
	assert.Zero(t, list.Remaining)
	assert.Empty(t, list.MoreLabel)
}

func TestRenderNewsletterListEscapesMarkup(t *testing.T) {
	list := RenderNewsletterList([]model.NewsletterEntry{
		{Subject: "Your <Order #123> shipped", From: "Shop <news@shop.com>"},
		{Subject: "<script>alert(1)</script>", From: "Deals & More <deals@shop.com>"},
	})

	require.Len(t, list.Items, 2)
	assert.Equal(t, "Your &lt;Order #123&gt; shipped", list.Items[0].Subject)
	assert.Equal(t, "Shop &lt;news@shop.com&gt;", list.Items[0].From)
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", list.Items[1].Subject)
	assert.Equal(t, "Deals &amp; More &lt;deals@shop.com&gt;", list.Items[1].From)
	for _, item := range list.Items {
		assert.NotContains(t, item.Subject, "<")
		assert.NotContains(t, item.From, "<")
	}
}

func TestRenderNewsletterListTruncatesBeforeEscaping(t *testing.T) {
	subject := strings.Repeat("a", 58) + "<b>"
	list := RenderNewsletterList([]model.NewsletterEntry{{Subject: subject, From: "a@b.com"}})

	assert.Equal(t, strings.Repeat("a", 58)+"&lt;b...", list.Items[0].Subject)
}

func TestRenderNewsletterListEmpty(t *testing.T) {
	list := RenderNewsletterList(nil)
	assert.NotNil(t, list.Items)
	assert.Empty(t, list.Items)
}
