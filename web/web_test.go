package web

import (
	"bytes"
	"testing"

	"answerly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"index.html", "dashboard.html", "server.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestServerTemplateEscapesContent(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "server.html", map[string]interface{}{
		"guild":    &models.Guild{ID: "42"},
		"guild_id": "42",
		"questions": []models.Question{
			{ID: "12345678", GuildID: "42", Question: "<script>alert(1)</script>", Answer: "a"},
		},
		"max":     30,
		"flashes": []models.Flash{{Category: models.FlashSuccess, Message: "Question created successfully!"}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "Question created successfully!")
	assert.Contains(t, out, "#1")
}
