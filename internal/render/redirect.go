package render

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

// strippedParams are query parameter prefixes that carry link signatures.
var strippedParams = []string{"expires", "token"}

func redirectPattern(domain string) *regexp.Regexp {
	return regexp.MustCompile(`"(https?://` + regexp.QuoteMeta(domain) +
		`/redirect\?(?:signature=[^"&]*(?:&amp;|&))?url=([^"]+))"`)
}

// RewriteRedirects replaces quoted platform redirect links in body with the
// targets they point to, minus the time-limited signing parameters.
// Rewriting already rewritten text is a no-op.
func RewriteRedirects(body, domain string) string {
	if domain == "" {
		return body
	}

	replaced := make(map[string]bool)
	for _, m := range redirectPattern(domain).FindAllStringSubmatch(body, -1) {
		quoted := m[0]
		if replaced[quoted] {
			continue
		}
		target, ok := unwrapTarget(m[2])
		if !ok {
			continue
		}
		body = strings.ReplaceAll(body, quoted, `"`+target+`"`)
		replaced[quoted] = true
	}
	return body
}

// unwrapTarget decodes a doubly percent-encoded redirect target and drops
// signing parameters from its query string.
func unwrapTarget(encoded string) (string, bool) {
	decoded := html.UnescapeString(encoded)
	for range 2 {
		var err error
		if decoded, err = url.PathUnescape(decoded); err != nil {
			return "", false
		}
	}

	base, query, _ := strings.Cut(decoded, "?")
	var kept []string
	for _, param := range strings.Split(query, "&") {
		if param == "" || isSigningParam(param) {
			continue
		}
		kept = append(kept, param)
	}

	target := strings.TrimRight(base, "/") + "/"
	if len(kept) > 0 {
		target += "?" + strings.Join(kept, "&")
	}
	return target, true
}

func isSigningParam(param string) bool {
	for _, prefix := range strippedParams {
		if strings.HasPrefix(param, prefix) {
			return true
		}
	}
	return false
}
