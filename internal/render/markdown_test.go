package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "paragraphs and emphasis",
			html: "<p>Hello <b>world</b>!</p>\n<p>Second <em>one</em></p>",
			want: "Hello **world**!\n\nSecond *one*",
		},
		{
			name: "heading",
			html: "<h2>Impact</h2><p>All users.</p>",
			want: "## Impact\n\nAll users.",
		},
		{
			name: "link and inline code",
			html: `<p>Call <code>eval()</code> at <a href="https://a.test/x">the endpoint</a></p>`,
			want: "Call `eval()` at [the endpoint](https://a.test/x)",
		},
		{
			name: "lists",
			html: "<ol><li>first</li><li>second<ul><li>nested</li></ul></li></ol>",
			want: "1. first\n2. second\n  - nested",
		},
		{
			name: "long lines are not wrapped",
			html: "<p>" + strings.Repeat("word ", 40) + "</p>",
			want: strings.TrimSpace(strings.Repeat("word ", 40)),
		},
		{
			name: "block quote",
			html: "<blockquote><p>quoted</p></blockquote>",
			want: "> quoted",
		},
		{
			name: "image",
			html: `<img src="https://a.test/i.png" alt="shot">`,
			want: "![shot](https://a.test/i.png)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToMarkdown(tt.html))
		})
	}
}

func TestToMarkdown_CodeFenceLanguages(t *testing.T) {
	python := `<pre><code class="language-python">print("hi")</code></pre>`
	plain := `<pre><code>ls -la</code></pre>`

	t.Run("python then plain", func(t *testing.T) {
		got := ToMarkdown(python + plain)
		assert.Equal(t, "```python\nprint(\"hi\")\n```\n\n```\nls -la\n```", got)
	})

	t.Run("plain then python", func(t *testing.T) {
		got := ToMarkdown(plain + python)
		assert.Equal(t, "```\nls -la\n```\n\n```python\nprint(\"hi\")\n```", got)
	})

	t.Run("two tagged blocks", func(t *testing.T) {
		got := ToMarkdown(python + `<pre><code class="hljs language-go">x := 1</code></pre>`)
		assert.Equal(t, "```python\nprint(\"hi\")\n```\n\n```go\nx := 1\n```", got)
	})

	t.Run("code keeps blank lines", func(t *testing.T) {
		got := ToMarkdown("<pre><code class=\"language-sh\">a\n\n\nb</code></pre>")
		assert.Equal(t, "```sh\na\n\n\nb\n```", got)
	})
}

func TestTagFences_ExcessFencesUntagged(t *testing.T) {
	md := "```" + fenceOpenMark + "\na\n```" + fenceCloseMark + "\n\n```" + fenceOpenMark + "\nb\n```" + fenceCloseMark
	got := tagFences(md, []string{"js"})
	assert.Equal(t, "```js\na\n```\n\n```\nb\n```", got)
}

func TestToMarkdown_BacktickInlineCode(t *testing.T) {
	t.Run("inline fence before a block", func(t *testing.T) {
		got := ToMarkdown("<p><code>```</code></p><pre><code class=\"language-go\">x</code></pre>")
		assert.Equal(t, "```` ``` ````\n\n```go\nx\n```", got)
	})

	t.Run("backtick line in text", func(t *testing.T) {
		got := ToMarkdown("<p>```</p><p>a</p><p>b</p><pre><code class=\"language-sh\">ls</code></pre>")
		assert.Equal(t, "```\n\na\n\nb\n\n```sh\nls\n```", got)
	})

	t.Run("span with inner backtick", func(t *testing.T) {
		assert.Equal(t, "``a`b``", ToMarkdown("<code>a`b</code>"))
	})
}

func TestToMarkdown_QuotedCodeBlock(t *testing.T) {
	got := ToMarkdown(`<blockquote><pre><code class="language-js">a()</code></pre></blockquote><pre><code class="language-py">b()</code></pre>`)
	assert.Equal(t, "> ```js\n> a()\n> ```\n\n```py\nb()\n```", got)
}
