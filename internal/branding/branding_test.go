package branding

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

func TestFirstConfigured(t *testing.T) {
	b := Branding{Templates: map[string]string{
		"pending_sign":    "<html>p</html>",
		"signed_document": "<html>s</html>",
		"request_expired": "",
	}}

	c, ok := b.FirstConfigured(variables.SignedDocument)
	require.True(t, ok)
	assert.Equal(t, variables.SignedDocument, c)

	c, ok = b.FirstConfigured(variables.SignaturesRequest)
	require.True(t, ok)
	assert.Equal(t, variables.PendingSign, c)

	assert.Equal(t, []variables.Category{variables.PendingSign, variables.SignedDocument}, b.ConfiguredCategories())

	_, ok = Branding{}.FirstConfigured(variables.SignaturesRequest)
	assert.False(t, ok)
}

func TestRequestForms(t *testing.T) {
	create := CreateRequest{
		Name:        "Acme",
		Category:    variables.PendingSign,
		HTML:        "<p>{{sign_button}}</p>",
		TextColor:   "#153643",
		LayoutColor: "#ffffff",
	}.Form()

	assert.Equal(t, "Acme", create.Get("name"))
	assert.Equal(t, "<p>{{sign_button}}</p>", create.Get("templates[pending_sign]"))
	assert.Equal(t, "#153643", create.Get("text_color"))
	assert.Equal(t, "#ffffff", create.Get("layout_color"))

	update := UpdateRequest{Category: variables.EmailsRequest, HTML: "x"}.Form()
	assert.False(t, update.Has("name"))
	assert.Equal(t, "x", update.Get("templates[emails_request]"))
}

func TestPaginate(t *testing.T) {
	items := make([]Branding, 23)
	for i := range items {
		items[i].ID = fmt.Sprint(i)
	}

	p := Paginate(items, 1, 0)
	assert.Equal(t, 3, p.Total)
	assert.Len(t, p.Items, 10)
	assert.Equal(t, "0", p.Items[0].ID)

	p = Paginate(items, 3, 10)
	assert.Len(t, p.Items, 3)
	assert.Equal(t, "20", p.Items[0].ID)

	p = Paginate(items, 9, 10)
	assert.Equal(t, 3, p.Number)

	p = Paginate(items, -1, 10)
	assert.Equal(t, 1, p.Number)

	p = Paginate(nil, 2, 10)
	assert.Equal(t, Page{Items: nil, Number: 1, Total: 1}, p)
}
