package model

import "strings"

// TypeKind identifies the shape of a type expression.
type TypeKind int

const (
	TypeOther     TypeKind = iota // slices, arrays, fn pointers, impl/dyn, ...
	TypePath                      // a::b::Name<Args>
	TypeReference                 // &'a mut T
	TypeTuple                     // (A, B)
)

// TypeExpr is a parsed type expression.
type TypeExpr struct {
	Kind TypeKind

	// TypePath
	Segments      []string     // full path, last segment is the identifier
	Args          []GenericArg // angle-bracketed arguments of the last segment
	Parenthesized bool         // Fn(A) -> B style arguments on the last segment

	// TypeReference
	Elem *TypeExpr

	// TypeTuple
	Elems []TypeExpr

	// Text is the source text of the expression, kept for diagnostics.
	Text string
}

// Ident returns the last path segment, "" for non-path types.
func (t TypeExpr) Ident() string {
	if t.Kind != TypePath || len(t.Segments) == 0 {
		return ""
	}
	return t.Segments[len(t.Segments)-1]
}

// ArgKind identifies a generic argument.
type ArgKind int

const (
	ArgType ArgKind = iota
	ArgLifetime
	ArgOther // const expressions, associated type bindings
)

// GenericArg is one argument inside <...>.
type GenericArg struct {
	Kind ArgKind
	Type *TypeExpr // ArgType only
	Text string
}

// Path builds a path type, mostly for tests.
func Path(name string, args ...TypeExpr) TypeExpr {
	t := TypeExpr{Kind: TypePath, Segments: strings.Split(name, "::"), Text: name}
	for i := range args {
		a := args[i]
		t.Args = append(t.Args, GenericArg{Kind: ArgType, Type: &a, Text: a.Text})
	}
	return t
}

// Ref builds a reference type.
func Ref(inner TypeExpr) TypeExpr {
	return TypeExpr{Kind: TypeReference, Elem: &inner, Text: "&" + inner.Text}
}

// Tuple builds a tuple type.
func Tuple(elems ...TypeExpr) TypeExpr {
	texts := make([]string, len(elems))
	for i, e := range elems {
		texts[i] = e.Text
	}
	return TypeExpr{Kind: TypeTuple, Elems: elems, Text: "(" + strings.Join(texts, ", ") + ")"}
}

// References reports whether name appears as a path segment anywhere in t.
func (t TypeExpr) References(name string) bool {
	switch t.Kind {
	case TypePath:
		for _, s := range t.Segments {
			if s == name {
				return true
			}
		}
		for _, a := range t.Args {
			if a.Type != nil && a.Type.References(name) {
				return true
			}
		}
	case TypeReference:
		return t.Elem != nil && t.Elem.References(name)
	case TypeTuple:
		for _, e := range t.Elems {
			if e.References(name) {
				return true
			}
		}
	case TypeOther:
		return containsIdent(t.Text, name)
	}
	return false
}

func containsIdent(text, name string) bool {
	isIdent := func(r rune) bool {
		return r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
	}
	for _, w := range strings.FieldsFunc(text, func(r rune) bool { return !isIdent(r) }) {
		if w == name {
			return true
		}
	}
	return false
}
