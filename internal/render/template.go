package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/firefly-engineering/bountybridge/internal/errors"
)

// PathSeparator separates the segments of an attribute path in a key name.
const PathSeparator = "__"

// Attributed is implemented by objects that expose named attributes, such as
// platform reports.
type Attributed interface {
	Attr(name string) (any, bool)
}

// DefaultKeys lists the report attributes made available to issue templates.
var DefaultKeys = []string{
	"title",
	"state",
	"substate",
	"created_at",
	"disclosed_at",
	"severity__rating",
	"severity__score",
	"weakness__name",
	"weakness__external_id",
	"structured_scope__asset_identifier",
	"structured_scope__asset_type",
	"reporter__username",
	"vulnerability_information_html",
}

// Lookup resolves a "__"-delimited attribute path against source. Each segment
// is looked up on the result of the previous one. The first absent segment
// makes the whole path absent.
func Lookup(source any, path string) (any, bool) {
	current := source
	for _, segment := range strings.Split(path, PathSeparator) {
		var ok bool
		switch v := current.(type) {
		case nil:
			return nil, false
		case Attributed:
			current, ok = v.Attr(segment)
		case map[string]any:
			current, ok = v[segment]
		case map[string]string:
			current, ok = v[segment]
		default:
			return nil, false
		}
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// Renderer substitutes report attributes into issue templates.
type Renderer struct {
	// RedirectDomain is the platform domain whose redirect links are
	// rewritten in rich-text attributes. Empty disables rewriting.
	RedirectDomain string
}

// Render executes tmpl against the attributes of source named by keys, with
// overrides taking precedence. Absent attributes render as the empty string.
// Keys containing "html" are link-rewritten and converted to Markdown first.
//
// A placeholder that is neither a key nor an override fails the render.
func (r *Renderer) Render(name, tmpl string, source any, keys []string, overrides map[string]any) (string, error) {
	data := make(map[string]any, len(keys)+len(overrides))
	for _, key := range keys {
		value, ok := Lookup(source, key)
		if !ok {
			data[key] = ""
			continue
		}
		if strings.Contains(key, "html") {
			value = r.richText(value)
		}
		data[key] = value
	}
	for key, value := range overrides {
		data[key] = value
	}

	t, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(tmpl)
	if err != nil {
		return "", errors.RenderFailed(name, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.RenderFailed(name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) richText(value any) string {
	body, ok := value.(string)
	if !ok {
		body = fmt.Sprint(value)
	}
	if r.RedirectDomain != "" {
		body = RewriteRedirects(body, r.RedirectDomain)
	}
	return ToMarkdown(body)
}

// Render executes tmpl with a Renderer that does not rewrite redirect links.
func Render(name, tmpl string, source any, keys []string, overrides map[string]any) (string, error) {
	var r Renderer
	return r.Render(name, tmpl, source, keys, overrides)
}
