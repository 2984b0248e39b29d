package pipeline

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gorilla/css/scanner"
)

// schemePattern matches references that carry a URL scheme (http:, data:, ...).
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// cssNewlines normalizes line endings the way the CSS tokenizer does, so
// token values can be written back without losing or shifting input.
var cssNewlines = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\f", "\n", "\x00", "�")

// RewriteURLs rewrites relative url() references in css so that they resolve
// from htmlDir instead of cssDir, the directory the stylesheet was read from.
//
// Rewrites:
//   - url(img/x.png), url('img/x.png'), url( "img/x.png" ): relative references
//
// Leaves verbatim:
//   - rooted references (url(/img/x.png)) and references with a scheme
//     (http:, https:, data:, ...)
//   - fragment-only references (url(#id))
//   - url( sequences inside comments and strings
//   - malformed url( tokens
//
// Line endings are normalized to "\n". Everything else is copied byte for byte.
func RewriteURLs(css, cssDir, htmlDir string) string {
	css = cssNewlines.Replace(css)

	var b strings.Builder
	b.Grow(len(css))

	s := scanner.New(css)
	offset := 0
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return b.String()
		case scanner.TokenError:
			// Unclosed comment or string: keep the rest as-is.
			b.WriteString(css[offset:])
			return b.String()
		case scanner.TokenURI:
			b.WriteString(rewriteURLToken(tok.Value, cssDir, htmlDir))
		default:
			b.WriteString(tok.Value)
		}
		offset += len(tok.Value)
	}
}

// rewriteURLToken rewrites a single url(...) token.
func rewriteURLToken(token, cssDir, htmlDir string) string {
	open := strings.IndexByte(token, '(')
	if open < 0 || !strings.HasSuffix(token, ")") {
		return token
	}

	ref := unescapeCSS(unquoteCSS(strings.TrimSpace(token[open+1 : len(token)-1])))
	if !isRelativeRef(ref) {
		return token
	}

	target := filepath.Join(cssDir, filepath.FromSlash(ref))
	rel, err := filepath.Rel(htmlDir, target)
	if err != nil {
		return token
	}

	return "url(" + quoteCSS(filepath.ToSlash(rel)) + ")"
}

// isRelativeRef returns true if the reference moves with the stylesheet.
func isRelativeRef(ref string) bool {
	if ref == "" {
		return false
	}
	if strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "#") {
		return false
	}
	return !schemePattern.MatchString(ref)
}

// unquoteCSS strips one pair of matching quotes.
func unquoteCSS(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// unescapeCSS decodes backslash escapes. A hex escape takes up to six digits
// and swallows one following whitespace character; an escaped newline is
// dropped; any other escaped character stands for itself. Invalid code
// points decode to U+FFFD.
func unescapeCSS(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		i++
		if i == len(s) {
			break
		}

		if isHexDigit(s[i]) {
			j := i
			for j < len(s) && j-i < 6 && isHexDigit(s[j]) {
				j++
			}
			cp, _ := strconv.ParseUint(s[i:j], 16, 32)
			r := rune(cp)
			if r == 0 || r > unicode.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
				r = utf8.RuneError
			}
			b.WriteRune(r)
			i = j
			if i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
				i++
			}
			continue
		}

		if s[i] == '\n' {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// quoteCSS returns s as a double-quoted CSS string.
// Quotes and backslashes are backslash-escaped; control characters use
// hex escapes terminated by a space ("\a " for a newline).
func quoteCSS(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\%x `, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
