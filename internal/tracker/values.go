package tracker

import (
	"fmt"
	"strings"

	"github.com/firefly-engineering/bountybridge/internal/schema"
)

// Template keys shared by every tracker type.
const (
	TitleTemplateKey = "title_template"
	BodyTemplateKey  = "body_template"
)

// DefaultTitleTemplate renders the issue title of a report.
const DefaultTitleTemplate = `[{{ .program }}] {{ .title }} (#{{ .id }})`

// DefaultBodyTemplate renders the issue body of a report.
const DefaultBodyTemplate = `**Report:** [#{{ .id }}]({{ .report_url }})
**Severity:** {{ .severity__rating | default "n/a" }}{{ with .severity__score }} ({{ printf "%.1f" (float64 .) }}){{ end }}
**Weakness:** {{ .weakness__name | default "n/a" }}
**Asset:** {{ .structured_scope__asset_identifier | default "n/a" }}

{{ .vulnerability_information_html }}
`

// TemplateOptions returns the optional template keys every tracker schema carries.
func TemplateOptions() []schema.Optional {
	return []schema.Optional{
		{Key: TitleTemplateKey, Default: DefaultTitleTemplate},
		{Key: BodyTemplateKey, Default: DefaultBodyTemplate},
	}
}

// TemplateDescriptions describes the keys returned by TemplateOptions.
func TemplateDescriptions(desc map[string]string) map[string]string {
	desc[TitleTemplateKey] = "Issue title template"
	desc[BodyTemplateKey] = "Issue body template"
	return desc
}

// String returns values[key] as a string.
func String(values map[string]any, key string) string {
	v, ok := values[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// StringList returns values[key] as a list, accepting either a YAML sequence
// or a comma-separated string.
func StringList(values map[string]any, key string) []string {
	var out []string
	switch v := values[key].(type) {
	case []string:
		out = v
	case []any:
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
	case string:
		out = strings.Split(v, ",")
	}
	var cleaned []string
	for _, s := range out {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned
}

// Bool returns values[key] as a boolean.
func Bool(values map[string]any, key string) bool {
	switch v := values[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "yes" || v == "1"
	}
	return false
}
