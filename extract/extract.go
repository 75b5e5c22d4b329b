// Package extract implements the interpolation extractor: scanning
// template text for "${...}" placeholders, honoring nested braces
// inside the expression body, and replacing each placeholder with a
// stable bare token so the surrounding text can be treated as plain
// data while the expression is evaluated separately. Grounded on
// original_source's nested-brace extractor
// (app/template/dependency/extractor.go equivalent:
// app/template/dependency/extractor.py).
package extract

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/reporttpl/reporttpl/rterr"
)

// Placeholder is one "${expr}" occurrence found in a text: the
// generated token that now stands in its place, and the raw
// expression source that was inside the braces.
type Placeholder struct {
	Token string
	Expr  string
}

// Result is the outcome of extracting a text: the rewritten text with
// every placeholder replaced by its bare token, and the placeholders
// themselves in order of appearance.
type Result struct {
	Text         string
	Placeholders []Placeholder
}

// Extract scans text for "${...}" placeholders. Braces nested inside
// an expression (e.g. a map or composite literal) are counted rather
// than terminating the placeholder early, mirroring the original's
// nested_cnt counter.
func Extract(text string) (Result, error) {
	var out strings.Builder
	var placeholders []Placeholder

	i := 0
	for i < len(text) {
		start := strings.Index(text[i:], "${")
		if start == -1 {
			out.WriteString(text[i:])
			break
		}
		start += i
		out.WriteString(text[i:start])

		exprStart := start + 2
		depth := 1
		j := exprStart
		for j < len(text) && depth > 0 {
			switch text[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				break
			}
			j++
		}
		if depth != 0 {
			return Result{}, &rterr.UnmatchedBraces{Offset: start}
		}

		expr := text[exprStart:j]
		if strings.TrimSpace(expr) == "" {
			return Result{}, &rterr.EmptyExpression{}
		}

		token := makeToken(start, expr)
		out.WriteString(token)
		placeholders = append(placeholders, Placeholder{Token: token, Expr: expr})

		i = j + 1
	}

	return Result{Text: out.String(), Placeholders: placeholders}, nil
}

// makeToken derives a stable, collision-resistant token for an
// expression occurrence. The digest is seeded first with sOffset
// big-endian as 4 bytes, then the UTF-8 bytes of expr, so that two
// identical "${expr}" occurrences at different offsets in the same
// text still produce distinct tokens. The original hashes with 32-bit
// xxhash; the only xxhash implementation present anywhere in the
// example corpus is cespare/xxhash/v2 (64-bit), so the digest is
// truncated to 8 hex digits, a deliberate, documented deviation from
// the literal "xxhash-32" wording.
func makeToken(sOffset int, expr string) string {
	buf := make([]byte, 4+len(expr))
	binary.BigEndian.PutUint32(buf, uint32(sOffset))
	copy(buf[4:], expr)
	sum := xxhash.Sum64(buf)
	return fmt.Sprintf("__x%08x__", uint32(sum))
}
