// Package render turns platform reports into issue text.
//
// Render substitutes "__"-delimited report attribute paths into text/template
// templates (with the sprig function map). Rich-text attributes have their
// signed redirect links unwrapped by RewriteRedirects and are converted to
// Markdown by ToMarkdown, which keeps fenced code languages.
package render
