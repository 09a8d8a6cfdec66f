// Package templates implements the placeholder language used by
// computed profile fields. Templates interpolate working values,
// 1-based sequence numbers, and catalog lookups ({color.code},
// {color.hex}) into fixed-width codes and labels. Parsing and
// rendering never fail; unresolvable variables degrade to the empty
// string.
package templates

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/constants"
	"github.com/rowform/rowform/pkg/errors"
	"github.com/rowform/rowform/pkg/reconcile"
)

// EntrySource supplies catalog entries for lookup-backed variables.
// *catalogs.Store satisfies it; callers share one prefetched store
// across all templates of a batch so backing reads stay proportional
// to distinct namespaces, not items times fields.
type EntrySource interface {
	EntriesFor(ctx context.Context, namespace catalogs.Namespace) []catalogs.Entry
}

// Engine renders templates against a variable context.
type Engine interface {
	// Render evaluates a parsed template. It never fails; unknown
	// variables render as empty strings.
	Render(ctx context.Context, tmpl *Template, tc *Context) string

	// Evaluate parses and renders text in one call.
	Evaluate(ctx context.Context, text string, tc *Context) string
}

// engine is the default implementation of Engine.
type engine struct {
	entries    EntrySource
	reconciler reconcile.Reconciler
	logger     zerolog.Logger
}

// Option configures an Engine.
type Option func(*engine) error

// New creates a template Engine reading lookups from entries. A nil
// entries source is allowed; lookup-backed variables then degrade the
// same way an unmatched value does.
func New(entries EntrySource, opts ...Option) (Engine, error) {
	reconciler, err := reconcile.New()
	if err != nil {
		return nil, err
	}

	e := &engine{
		entries:    entries,
		reconciler: reconciler,
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Render evaluates a parsed template against tc.
func (e *engine) Render(ctx context.Context, tmpl *Template, tc *Context) string {
	if tmpl == nil {
		return ""
	}
	if tc == nil {
		tc = &Context{}
	}

	var b strings.Builder
	b.Grow(len(tmpl.text))
	for _, seg := range tmpl.segments {
		if !seg.placeholder {
			b.WriteString(seg.literal)
			continue
		}
		resolved := e.resolve(ctx, seg, tc)
		if seg.width > 0 {
			resolved = applyWidth(resolved, seg.width)
		}
		b.WriteString(resolved)
	}
	return b.String()
}

// Evaluate parses and renders text in one call.
func (e *engine) Evaluate(ctx context.Context, text string, tc *Context) string {
	return e.Render(ctx, Parse(text), tc)
}

// resolve produces the raw substitution for one placeholder, before
// any width modifier is applied.
func (e *engine) resolve(ctx context.Context, seg segment, tc *Context) string {
	if seg.name == constants.SequenceVariable && seg.column == "" {
		return strconv.Itoa(tc.Sequence)
	}

	value, known := tc.Value(seg.name)

	if seg.column != "" {
		return e.resolveColumn(ctx, seg, tc, value, known)
	}

	if !known {
		e.logger.Debug().Str("variable", seg.name).Msg("Unknown template variable")
		return ""
	}

	ns, mapped := tc.Namespace(seg.name)
	if !mapped || value == "" {
		return value
	}

	// Mapped variables substitute the canonical code when the value
	// resolves, and carry the raw value through when it does not.
	res := e.reconciler.Reconcile(value, e.entriesFor(ctx, ns))
	if res.Matched() {
		return res.Code
	}
	return value
}

// resolveColumn handles the dotted form {name.column}: the value is
// reconciled through its namespace, then the column is read off the
// matched entry. The column "code" is the entry's code; any other
// column reads extra data. Unresolvable lookups yield the empty
// string.
func (e *engine) resolveColumn(ctx context.Context, seg segment, tc *Context, value string, known bool) string {
	if !known || value == "" {
		return ""
	}

	ns, mapped := tc.Namespace(seg.name)
	if !mapped {
		e.logger.Debug().
			Str("variable", seg.name).
			Str("column", seg.column).
			Msg("Dotted variable without catalog mapping")
		return ""
	}

	res := e.reconciler.Reconcile(value, e.entriesFor(ctx, ns))
	if !res.Matched() {
		return ""
	}

	if seg.column == "code" {
		return res.Code
	}
	return res.ExtraData[seg.column]
}

func (e *engine) entriesFor(ctx context.Context, ns catalogs.Namespace) []catalogs.Entry {
	if e.entries == nil {
		return nil
	}
	return e.entries.EntriesFor(ctx, ns)
}

// applyWidth fits a resolved value to a fixed width. Purely numeric
// values are left-padded with zeros and never truncated; anything else
// is upper-cased, truncated to width, or right-padded with X.
func applyWidth(value string, width int) string {
	if isNumeric(value) {
		if len(value) >= width {
			return value
		}
		return strings.Repeat(string(constants.TemplateZeroRune), width-len(value)) + value
	}

	upper := strings.ToUpper(value)
	runes := []rune(upper)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return upper + strings.Repeat(string(constants.TemplatePadRune), width-len(runes))
}

// isNumeric reports whether s is a non-empty run of ASCII digits.
func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Option Functions
// ================

// WithReconciler replaces the matcher used for lookup-backed
// variables.
func WithReconciler(r reconcile.Reconciler) Option {
	return func(e *engine) error {
		if r == nil {
			return errors.NewValidationError("reconciler", nil, "cannot be nil")
		}
		e.reconciler = r
		return nil
	}
}

// WithLogger sets the logger used to trace degraded resolutions.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *engine) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "cannot be nil")
		}
		e.logger = *logger
		return nil
	}
}
