package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

const languageClassPrefix = "language-"

// Code blocks emitted for <pre> elements carry these markers on their fence
// lines until tagFences runs, so backtick runs coming from inline code or
// text are never mistaken for fences.
const (
	fenceOpenMark  = "\uE000"
	fenceCloseMark = "\uE001"
)

var stripMarks = strings.NewReplacer(fenceOpenMark, "", fenceCloseMark, "")

// ToMarkdown converts an HTML fragment to Markdown without wrapping lines.
// Fenced code blocks are tagged with the language declared by a
// "language-<lang>" class inside the corresponding <pre> element.
// Unparseable input is returned unchanged.
func ToMarkdown(body string) string {
	doc, err := html.Parse(strings.NewReader(stripMarks.Replace(body)))
	if err != nil {
		return body
	}

	langs := codeLanguages(doc)

	w := &mdWriter{}
	w.children(doc)
	return tagFences(tidy(w.String()), langs)
}

// codeLanguages returns one entry per <pre> element in document order: the
// declared language, or "" when the block has none.
func codeLanguages(doc *html.Node) []string {
	var langs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "pre" {
			langs = append(langs, declaredLanguage(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return langs
}

func declaredLanguage(n *html.Node) string {
	if n.Type == html.ElementNode {
		for _, class := range strings.Fields(attr(n, "class")) {
			if lang, ok := strings.CutPrefix(class, languageClassPrefix); ok && lang != "" {
				return lang
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if lang := declaredLanguage(c); lang != "" {
			return lang
		}
	}
	return ""
}

// tagFences replaces the open markers of md with langs, in order, and drops
// the close markers. Fences beyond the captured languages stay untagged.
func tagFences(md string, langs []string) string {
	lines := strings.Split(md, "\n")
	next := 0
	for i, line := range lines {
		if fence, ok := strings.CutSuffix(line, fenceOpenMark); ok {
			if next < len(langs) {
				fence += langs[next]
			}
			lines[i] = fence
			next++
			continue
		}
		lines[i] = strings.TrimSuffix(line, fenceCloseMark)
	}
	return strings.Join(lines, "\n")
}

// tidy trims trailing spaces and collapses blank-line runs outside of code
// blocks.
func tidy(md string) string {
	var out []string
	open := false
	blank := true
	for _, line := range strings.Split(md, "\n") {
		if open {
			out = append(out, line)
			if strings.HasSuffix(line, fenceCloseMark) {
				open = false
			}
			blank = false
			continue
		}
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		if strings.HasSuffix(line, fenceOpenMark) {
			open = true
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

type listState struct {
	ordered bool
	n       int
}

type mdWriter struct {
	b     strings.Builder
	last  byte
	lists []listState
}

func (w *mdWriter) String() string {
	return w.b.String()
}

func (w *mdWriter) write(s string) {
	if s == "" {
		return
	}
	w.b.WriteString(s)
	w.last = s[len(s)-1]
}

// block separates block-level elements with a blank line.
func (w *mdWriter) block() {
	if w.b.Len() > 0 {
		w.write("\n\n")
	}
}

func (w *mdWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c)
	}
}

func (w *mdWriter) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.DocumentNode:
		w.children(n)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.Data {
	case "head", "script", "style", "noscript", "template":
	case "h1", "h2", "h3", "h4", "h5", "h6":
		w.block()
		w.write(strings.Repeat("#", int(n.Data[1]-'0')) + " ")
		w.children(n)
		w.block()
	case "p", "div", "section", "article", "table":
		w.block()
		w.children(n)
		w.block()
	case "br":
		w.write("\n")
	case "hr":
		w.block()
		w.write("---")
		w.block()
	case "strong", "b":
		w.inline("**", n)
	case "em", "i":
		w.inline("*", n)
	case "del", "s", "strike":
		w.inline("~~", n)
	case "code":
		w.code(n)
	case "pre":
		w.pre(n)
	case "a":
		w.link(n)
	case "img":
		w.write(fmt.Sprintf("![%s](%s)", attr(n, "alt"), attr(n, "src")))
	case "ul", "ol":
		w.list(n)
	case "li":
		w.item(n)
	case "blockquote":
		w.quote(n)
	case "tr":
		w.write("\n|")
		w.children(n)
	case "td", "th":
		w.write(" ")
		w.children(n)
		w.write(" |")
	default:
		w.children(n)
	}
}

func (w *mdWriter) text(data string) {
	text := strings.Join(strings.Fields(data), " ")
	if text == "" {
		if data != "" && w.last != 0 && w.last != ' ' && w.last != '\n' {
			w.write(" ")
		}
		return
	}
	if isSpace(data[0]) && w.last != 0 && w.last != ' ' && w.last != '\n' {
		text = " " + text
	}
	if isSpace(data[len(data)-1]) {
		text += " "
	}
	w.write(text)
}

func (w *mdWriter) inline(marker string, n *html.Node) {
	w.write(marker)
	w.children(n)
	w.write(marker)
}

// code writes an inline code span delimited by one backtick more than the
// longest run in text, padded when text starts or ends with a backtick.
func (w *mdWriter) code(n *html.Node) {
	text := textContent(n)
	tick := strings.Repeat("`", longestRun(text, '`')+1)
	if strings.HasPrefix(text, "`") || strings.HasSuffix(text, "`") {
		text = " " + text + " "
	}
	w.write(tick + text + tick)
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}

func (w *mdWriter) pre(n *html.Node) {
	code := strings.TrimRight(textContent(n), "\n")
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	w.block()
	w.write(fence + fenceOpenMark + "\n" + code + "\n" + fence + fenceCloseMark)
	w.block()
}

func (w *mdWriter) link(n *html.Node) {
	href := attr(n, "href")
	text := strings.Join(strings.Fields(textContent(n)), " ")
	switch {
	case href == "":
		w.write(text)
	case text == "":
		w.write("<" + href + ">")
	default:
		w.write("[" + text + "](" + href + ")")
	}
}

func (w *mdWriter) list(n *html.Node) {
	nested := len(w.lists) > 0
	if !nested {
		w.block()
	}
	w.lists = append(w.lists, listState{ordered: n.Data == "ol"})
	w.children(n)
	w.lists = w.lists[:len(w.lists)-1]
	if !nested {
		w.block()
	}
}

func (w *mdWriter) item(n *html.Node) {
	if len(w.lists) == 0 {
		w.children(n)
		return
	}
	state := &w.lists[len(w.lists)-1]
	state.n++
	marker := "- "
	if state.ordered {
		marker = fmt.Sprintf("%d. ", state.n)
	}
	if w.b.Len() > 0 && w.last != '\n' {
		w.write("\n")
	}
	w.write(strings.Repeat("  ", len(w.lists)-1) + marker)
	w.children(n)
}

func (w *mdWriter) quote(n *html.Node) {
	inner := &mdWriter{}
	inner.children(n)
	lines := strings.Split(tidy(inner.String()), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight("> "+line, " ")
	}
	w.block()
	w.write(strings.Join(lines, "\n"))
	w.block()
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
