package i18n

import (
	"testing"

	"github.com/mark3labs/rentdesk/internal/form"
	"github.com/mark3labs/rentdesk/internal/prefs"
	"github.com/stretchr/testify/require"
)

func TestCatalogCoversLanguages(t *testing.T) {
	t.Parallel()

	c, err := Default()
	require.NoError(t, err)
	require.ElementsMatch(t, prefs.Languages, c.Languages())

	for key := range c.messages[DefaultLanguage] {
		for _, lang := range prefs.Languages {
			_, ok := c.messages[lang][key]
			require.True(t, ok, "%s missing from %s", key, lang)
		}
	}
}

func TestT(t *testing.T) {
	t.Parallel()

	c, err := Default()
	require.NoError(t, err)

	require.Equal(t, "Ce champ est obligatoire", c.T("fr", "validation.required", "", ""))
	require.Equal(t, "Must be at least 1950", c.T("en", "validation.min", "", "1950"))
	require.Equal(t, "This field is required", c.T("de", "validation.required", "", ""), "unknown language falls back to English")
	require.Equal(t, "raw", c.T("fr", "validation.nope", "raw", ""))
}

func TestMessages(t *testing.T) {
	t.Parallel()

	c, err := Default()
	require.NoError(t, err)

	fr := c.Messages("fr")
	require.Equal(t, "Doit être au plus 9", fr(form.Issue{Code: form.CodeMax, Arg: "9", Message: "Must be at most 9"}))
	require.Equal(t, "La date de fin doit être postérieure à la date de début", fr(form.Issue{Code: "end_before_start"}))
	require.Equal(t, "Server says no", fr(form.Issue{Code: "custom", Message: "Server says no"}))
}

func TestMessagesWithController(t *testing.T) {
	t.Parallel()

	c, err := Default()
	require.NoError(t, err)

	schema := &form.Schema{
		Resource: "things",
		Fields:   []form.Field{{Name: "qty", Kind: form.KindNumber, Required: true}},
		Steps:    []form.Step{{Title: "One", Fields: []string{"qty"}}},
	}
	ctl := form.NewController(schema, nil, form.WithMessages(c.Messages("fr")))
	require.NoError(t, ctl.UpdateField("qty", "x"))
	require.False(t, ctl.GoNext())
	require.Equal(t, "Doit être un nombre", ctl.Errors()["qty"])
}
