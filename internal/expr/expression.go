package expr

import "strings"

// Expression is an opaque holder of a source string and a target type. It
// is either a Literal (the source contains no "${{ ... }}" template) or a
// Templated expression evaluated later against a Scope. The Optional flag
// is a bit alongside the type, not a distinct type hierarchy: an absent
// Opt-expression evaluates to Value{Absent: true} instead of failing.
type Expression struct {
	typ      Type
	optional bool

	absent bool // constructed with no source at all (Opt-only)

	isTemplate bool
	source     string // full original source, for diagnostics
	body       string // template interior, only set when isTemplate
}

// New constructs an Expression from a raw YAML scalar source string.
// Construction is total: it only classifies literal vs. template shape, it
// never coerces or evaluates.
func New(source string, typ Type, optional bool) Expression {
	trimmed := strings.TrimSpace(source)
	if strings.HasPrefix(trimmed, "${{") && strings.HasSuffix(trimmed, "}}") {
		body := strings.TrimSpace(trimmed[3 : len(trimmed)-2])
		return Expression{typ: typ, optional: optional, isTemplate: true, source: source, body: body}
	}
	return Expression{typ: typ, optional: optional, source: source}
}

// Absent constructs an Opt-expression whose source was entirely omitted
// from the YAML document. Only valid for optional expressions.
func Absent(typ Type) Expression {
	return Expression{typ: typ, optional: true, absent: true}
}

// Type returns the expression's declared target type.
func (e Expression) Type() Type { return e.typ }

// Optional reports whether the expression may resolve to "absent".
func (e Expression) Optional() bool { return e.optional }

// IsTemplate reports whether the expression is a "${{ ... }}" template as
// opposed to a literal.
func (e Expression) IsTemplate() bool { return e.isTemplate }

// IsAbsent reports whether the expression was constructed via Absent,
// i.e. the YAML document omitted this key entirely.
func (e Expression) IsAbsent() bool { return e.absent }

// Source returns the original source string (empty for an Absent
// expression).
func (e Expression) Source() string { return e.source }

// Eval resolves the expression to a Value. Literal expressions coerce
// their source string directly; templated expressions evaluate their body
// against sc first, then coerce the result. An absent Opt-expression
// yields Value{Absent: true} without consulting sc.
func (e Expression) Eval(sc Scope) (Value, error) {
	if e.absent {
		return Value{Type: e.typ, Absent: true}, nil
	}

	if e.isTemplate {
		v, err := evalBody(e.body, sc)
		if err != nil {
			return Value{}, err
		}
		return coerceValue(v, e.typ)
	}

	return coerce(e.source, e.typ)
}
