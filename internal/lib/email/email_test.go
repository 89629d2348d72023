package email

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/go-cats/internal/config"
)

var sampleCatCreated = map[string]string{
	"CatID":    "1",
	"CatName":  "Tom",
	"CatBreed": "Domestic Shorthair",
	"CatAge":   "3",
}

func TestRender_CatCreated(t *testing.T) {
	html, err := Render(TemplateCatCreated, sampleCatCreated)
	require.NoError(t, err)

	assert.Contains(t, html, "<strong>Tom</strong> (#1)")
	assert.Contains(t, html, "Breed: Domestic Shorthair")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render("missing", nil)
	require.Error(t, err)
}

func TestSendCatCreatedEmail_DisabledOnlyLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	client := NewClient(config.DefaultConfig(), &logger)
	require.False(t, client.Enabled())

	err := client.SendCatCreatedEmail("owner@example.com", CatCreated{ID: 3, Name: "Kit", Breed: "Maine Coon", Age: 1})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "email delivery disabled")
	assert.Contains(t, buf.String(), "New cat: Kit")
}
