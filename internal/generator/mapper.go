package generator

import (
	"strings"

	"github.com/cmmoran/tsync/internal/model"
)

const unknownType = "unknown"

// MappedType is a Rust type rendered as TypeScript. Optional is set only when
// the outermost type is Option.
type MappedType struct {
	Text     string
	Optional bool
}

// Inline renders the type for a position that cannot be marked optional
// itself: array elements, tuple slots and record arguments.
func (m MappedType) Inline() string {
	if m.Optional {
		return m.Text + " | undefined"
	}
	return m.Text
}

var primitives = map[string]string{
	"i8":    "number",
	"u8":    "number",
	"i16":   "number",
	"u16":   "number",
	"i32":   "number",
	"u32":   "number",
	"i64":   "number",
	"u64":   "number",
	"i128":  "number",
	"u128":  "number",
	"isize": "number",
	"usize": "number",
	"f32":   "number",
	"f64":   "number",

	"bool": "boolean",

	"char":   "string",
	"str":    "string",
	"String": "string",

	"NaiveDateTime": "Date",
	"DateTime":      "Date",

	"Uuid": "string",
}

// MapType converts a type expression. It never fails: anything it cannot
// express becomes "unknown".
func MapType(t model.TypeExpr) MappedType {
	switch t.Kind {
	case model.TypeReference:
		if t.Elem == nil {
			return MappedType{Text: unknownType}
		}
		return MapType(*t.Elem)
	case model.TypeTuple:
		elems := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = MapType(e).Inline()
		}
		return MappedType{Text: "[" + strings.Join(elems, ", ") + "]"}
	case model.TypePath:
		return mapPath(t)
	}
	return MappedType{Text: unknownType}
}

func mapPath(t model.TypeExpr) MappedType {
	ident := t.Ident()
	if ts, ok := primitives[ident]; ok {
		return MappedType{Text: ts}
	}

	// TODO: match the Cow segment exactly; a substring match also catches
	// unrelated names such as CowboyHat.
	if strings.Contains(ident, "Cow") {
		if arg := firstTypeArg(t); arg != nil {
			return MappedType{Text: MapType(*arg).Text}
		}
		return MappedType{Text: "string"}
	}

	switch ident {
	case "Option":
		m := MappedType{Text: unknownType, Optional: true}
		if arg := firstTypeArg(t); arg != nil && !t.Parenthesized {
			m.Text = MapType(*arg).Text
		}
		return m
	case "Vec":
		arg := firstTypeArg(t)
		if arg == nil || t.Parenthesized {
			return MappedType{Text: unknownType}
		}
		return MappedType{Text: "Array<" + MapType(*arg).Inline() + ">"}
	case "HashMap":
		if len(t.Args) == 0 || t.Parenthesized {
			return MappedType{Text: unknownType}
		}
		return MappedType{Text: "Record<" + mapArgs(t.Args) + ">"}
	}

	if t.Parenthesized {
		return MappedType{Text: unknownType}
	}
	name := stripRaw(ident)
	if args := mapArgs(t.Args); args != "" {
		return MappedType{Text: name + "<" + args + ">"}
	}
	return MappedType{Text: name}
}

func firstTypeArg(t model.TypeExpr) *model.TypeExpr {
	for _, a := range t.Args {
		if a.Kind == model.ArgType && a.Type != nil {
			return a.Type
		}
	}
	return nil
}

// mapArgs renders generic arguments comma separated. Lifetimes are dropped;
// const arguments and bindings have no TypeScript counterpart.
func mapArgs(args []model.GenericArg) string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		switch {
		case a.Kind == model.ArgLifetime:
		case a.Kind == model.ArgType && a.Type != nil:
			out = append(out, MapType(*a.Type).Inline())
		default:
			out = append(out, unknownType)
		}
	}
	return strings.Join(out, ", ")
}

// stripRaw removes the r# prefix of a raw identifier.
func stripRaw(ident string) string {
	return strings.TrimPrefix(ident, "r#")
}
