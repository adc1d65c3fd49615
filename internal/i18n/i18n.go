// Package i18n holds the embedded message catalogues for validation and
// wizard text.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/mark3labs/rentdesk/internal/form"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when a key is missing from the requested
// language.
const DefaultLanguage = "en"

//go:embed locales/*.yaml
var locales embed.FS

// Catalog maps language → dotted key → message.
type Catalog struct {
	messages map[string]map[string]string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalogue, parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = load()
	})
	return defaultCatalog, defaultErr
}

func load() (*Catalog, error) {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("reading locales: %w", err)
	}

	c := &Catalog{messages: make(map[string]map[string]string)}
	for _, e := range entries {
		data, err := locales.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", e.Name(), err)
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		c.messages[strings.TrimSuffix(e.Name(), path.Ext(e.Name()))] = flat
	}
	return c, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch tv := v.(type) {
		case map[string]any:
			flatten(key, tv, out)
		case string:
			out[key] = tv
		default:
			out[key] = fmt.Sprint(tv)
		}
	}
}

// Languages returns the languages the catalogue has messages for.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.messages))
	for lang := range c.messages {
		langs = append(langs, lang)
	}
	return langs
}

// T looks key up in lang, then in DefaultLanguage, then returns fallback.
// "{arg}" in the message is replaced with arg.
func (c *Catalog) T(lang, key, fallback, arg string) string {
	msg, ok := c.lookup(lang, key)
	if !ok {
		msg, ok = c.lookup(DefaultLanguage, key)
	}
	if !ok {
		msg = fallback
	}
	return strings.ReplaceAll(msg, "{arg}", arg)
}

func (c *Catalog) lookup(lang, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	msg, ok := c.messages[lang][key]
	return msg, ok
}

// Messages returns a renderer for form issues in lang, suitable for
// form.WithMessages. Unknown codes keep the issue's own message.
func (c *Catalog) Messages(lang string) func(form.Issue) string {
	return func(is form.Issue) string {
		return c.T(lang, "validation."+is.Code, is.Message, is.Arg)
	}
}
