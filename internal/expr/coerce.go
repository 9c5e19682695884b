package expr

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
)

// coerce converts a raw literal string to the Value shape named by typ,
// following spec.md §4.A's literal coercion rules.
func coerce(raw string, typ Type) (Value, error) {
	switch typ {
	case TString:
		return Value{Type: typ, Str: raw}, nil
	case TInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("expr: %q is not a base-10 integer", raw)
		}
		return Value{Type: typ, Int: n}, nil
	case TFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("expr: %q is not a finite decimal", raw)
		}
		return Value{Type: typ, Float: f}, nil
	case TBool:
		switch raw {
		case "true":
			return Value{Type: typ, Bool: true}, nil
		case "false":
			return Value{Type: typ, Bool: false}, nil
		default:
			return Value{}, fmt.Errorf("expr: %q is not exactly \"true\" or \"false\"", raw)
		}
	case TLocalPath:
		return Value{Type: typ, Str: raw}, nil
	case TRemotePath:
		if raw == "" {
			return Value{}, fmt.Errorf("expr: remote-path must be non-empty")
		}
		return Value{Type: typ, Str: raw}, nil
	case TURI:
		u, err := url.Parse(raw)
		if err != nil {
			return Value{}, fmt.Errorf("expr: %q does not parse as a URI: %w", raw, err)
		}
		if u.Scheme == "" {
			return Value{}, fmt.Errorf("expr: %q is missing a URI scheme", raw)
		}
		return Value{Type: typ, Str: raw}, nil
	default:
		return Value{}, fmt.Errorf("expr: unknown target type %v", typ)
	}
}

// coerceValue converts a dynamic Value (typically returned by a Scope
// lookup or a template literal) into the target type, applying the same
// rules coerce applies to raw strings. Values already of the target type
// pass through; a handful of widening conversions (int->float,
// string->path/uri) are permitted since the grammar has no separate path
// or URI literal syntax.
func coerceValue(v Value, typ Type) (Value, error) {
	if v.Absent {
		return Value{Absent: true, Type: typ}, nil
	}
	if v.Type == typ {
		return Value{Type: typ, Str: v.Str, Int: v.Int, Float: v.Float, Bool: v.Bool}, nil
	}

	switch typ {
	case TFloat:
		if v.Type == TInt {
			return Value{Type: typ, Float: float64(v.Int)}, nil
		}
	case TLocalPath, TRemotePath, TURI, TString:
		if v.Type == TString {
			return coerce(v.Str, typ)
		}
	}
	return Value{}, fmt.Errorf("expr: cannot use a %s value where %s is expected", v.Type, typ)
}
