package reconcile

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// chainPool hands out transformer chains. Transformers carry internal
// state and must not be shared between goroutines.
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,                          // compatibility decomposition
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			norm.NFC,                           // recompose
		)
	},
}

// Normalize returns the canonical matching form of s: case folded,
// accent stripped, compatibility forms mapped to their plain
// equivalents, whitespace collapsed and trimmed. Two values that
// normalize to the same string are considered identical by every
// matching strategy.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	return collapseSpaces(ns)
}

// collapseSpaces converts interior whitespace runs to a single ASCII
// space and trims both edges.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pending = false
		b.WriteRune(r)
	}
	return b.String()
}
