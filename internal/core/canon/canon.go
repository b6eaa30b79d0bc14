// Package canon provides deterministic canonicalizers for company names and domains
// Pipeline order for names
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove zero-width and combining marks
// 5 Width fold fullwidth to ASCII
// 6 Fold punctuation to spaces and collapse whitespace
// 7 Strip one trailing legal suffix token (inc, ltd, llc, corp, pty, co, the)
package canon

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// legalSuffixes are dropped only when they are the final token of a name.
// Stripping them mid-name would corrupt names like "The Co Operative Bank"
var legalSuffixes = map[string]struct{}{
	"inc":  {},
	"ltd":  {},
	"llc":  {},
	"corp": {},
	"pty":  {},
	"co":   {},
	"the":  {},
}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

func foldChain(s string) string {
	s = strings.ToValidUTF8(s, "")
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	return ns
}

// Name canonicalizes a company name. Total: any input yields a stable output,
// empty in means empty out
func Name(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	s := foldChain(raw)

	// fold anything that is not a letter or digit to a space, then collapse
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	tokens := strings.Fields(b.String())
	if len(tokens) == 0 {
		return ""
	}

	// strip a single trailing legal suffix, never the only token
	if len(tokens) > 1 {
		if _, ok := legalSuffixes[tokens[len(tokens)-1]]; ok {
			tokens = tokens[:len(tokens)-1]
		}
	}
	return strings.Join(tokens, " ")
}

// Domain canonicalizes a domain or URL down to a bare comparable form.
// Scheme and leading www are stripped, everything after the host is dropped,
// then all non-alphanumeric runes are removed. Empty or malformed input
// yields "" which never matches anything
func Domain(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = foldChain(s)

	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
