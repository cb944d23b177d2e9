package generator

import (
	"strconv"

	"github.com/cmmoran/tsync/internal/model"
)

// Representation is how serde lays out an enum, chosen once per enum.
type Representation int

const (
	AllUnitUnion Representation = iota
	NumericEnum
	InternallyTagged
	ExternallyTagged
	Untagged
)

func (r Representation) String() string {
	switch r {
	case AllUnitUnion:
		return "union"
	case NumericEnum:
		return "numeric"
	case InternallyTagged:
		return "internally-tagged"
	case ExternallyTagged:
		return "externally-tagged"
	case Untagged:
		return "untagged"
	}
	return "invalid"
}

// SelectRepresentation applies the serde rules in order: untagged, tag,
// all-unit (numeric when Serialize_repr is derived), external.
func SelectRepresentation(en *model.Enum) Representation {
	switch {
	case HasArg(en.Attrs, "serde", "untagged"):
		return Untagged
	case HasArg(en.Attrs, "serde", "tag"):
		return InternallyTagged
	case allUnit(en.Variants):
		if HasArg(en.Attrs, "derive", "Serialize_repr") {
			return NumericEnum
		}
		return AllUnitUnion
	}
	return ExternallyTagged
}

func allUnit(variants []model.Variant) bool {
	for _, v := range variants {
		if !v.Unit() {
			return false
		}
	}
	return true
}

type enumContext struct {
	name     string
	generics []string
	casing   Case
}

func (e *emitter) writeEnum(en *model.Enum) error {
	ec := enumContext{
		name:     stripRaw(en.Name),
		generics: en.Generics,
		casing:   structCase(en.Attrs),
	}

	e.out.WriteString("\n")
	e.writeComments(Comments(en.Attrs), 0)

	switch SelectRepresentation(en) {
	case Untagged:
		e.writeUntagged(ec, en.Variants)
	case InternallyTagged:
		tag, _ := GetArg(en.Attrs, "serde", "tag")
		content, _ := GetArg(en.Attrs, "serde", "content")
		e.writeInternallyTagged(ec, en.Variants, tag, content)
	case NumericEnum:
		e.writeNumeric(ec, en.Variants)
	case AllUnitUnion:
		e.writeUnion(ec, en.Variants)
	default:
		e.writeExternallyTagged(ec, en.Variants)
	}
	return nil
}

// writeUnion renders an all-unit enum as a union of string literals.
func (e *emitter) writeUnion(ec enumContext, variants []model.Variant) {
	e.printf("%stype %s%s =", e.export(), ec.name, renderGenerics(ec.generics))
	if len(variants) == 0 {
		e.out.WriteString(" never;\n")
		return
	}
	for i, v := range variants {
		docs := Comments(v.Attrs)
		if i == 0 || len(docs) > 0 {
			e.out.WriteString("\n")
			e.writeComments(docs, 2)
			e.out.WriteString("  |")
		} else {
			e.out.WriteString(" |")
		}
		e.printf(" \"%s\"", rename(v.Name, ec.casing))
	}
	e.out.WriteString(";\n")
}

// writeNumeric renders a Serialize_repr enum. The counter starts at 0, an
// explicit base-10 discriminant resets it, and each variant adds one.
func (e *emitter) writeNumeric(ec enumContext, variants []model.Variant) {
	keyword := "export "
	if e.cfg.UsesTypeInterface {
		keyword = "declare "
	}
	if e.cfg.EnableConstEnums {
		keyword += "const "
	}
	e.printf("%senum %s {", keyword, ec.name)

	var num int64
	for _, v := range variants {
		e.out.WriteString("\n")
		e.writeComments(Comments(v.Attrs), 2)
		if v.Discriminant != "" {
			if n, err := strconv.ParseInt(v.Discriminant, 10, 32); err == nil {
				num = n
			}
		}
		e.printf("  %s = %d,", propertyKey(rename(v.Name, ec.casing)), num)
		num++
	}
	e.out.WriteString("\n}\n")
}

// writeInternallyTagged renders one Enum__Variant alias per variant and a
// union of the aliases. With content set, positional variants carry their
// payload under that key; without it only newtype variants are expressible.
func (e *emitter) writeInternallyTagged(ec enumContext, variants []model.Variant, tag, content string) {
	included := make([]model.Variant, 0, len(variants))
	for _, v := range variants {
		if v.Positional() && len(v.Fields) > 1 && content == "" {
			e.skipVariant(stripRaw(v.Name), "tuple variant with more than one field needs serde(content = ...) when tagged")
			continue
		}
		included = append(included, v)
	}

	e.printf("%stype %s%s =", e.export(), ec.name, renderGenerics(ec.generics))
	for _, v := range included {
		e.printf("\n  | %s%s", aliasName(ec, v), renderGenerics(variantGenerics(ec.generics, v)))
	}
	e.out.WriteString(";\n")

	for _, v := range included {
		e.out.WriteString("\n")
		e.writeComments(Comments(v.Attrs), 0)
		e.printf("type %s%s = ", aliasName(ec, v), renderGenerics(variantGenerics(ec.generics, v)))
		value := rename(v.Name, ec.casing)

		switch {
		case v.Positional() && content != "":
			e.printf("{\n  \"%s\": \"%s\";\n  \"%s\": %s;\n};", tag, value, content, tupleFields(v.Fields))
		case v.Positional():
			e.printf("{\n  %s: \"%s\"} & %s", propertyKey(tag), value, MapType(v.Fields[0].Type).Text)
		default:
			e.printf("{\n  %s: \"%s\";\n", propertyKey(tag), value)
			e.writeFields(v.Fields, 2, ec.casing)
			e.out.WriteString("};")
		}
	}
	e.out.WriteString("\n")
}

// writeExternallyTagged follows serde's default: the variant name is the only
// key of an object holding the payload.
func (e *emitter) writeExternallyTagged(ec enumContext, variants []model.Variant) {
	e.printf("%stype %s%s =", e.export(), ec.name, renderGenerics(ec.generics))
	for _, v := range variants {
		e.out.WriteString("\n")
		e.writeComments(Comments(v.Attrs), 2)
		key := rename(v.Name, ec.casing)

		if v.Positional() {
			e.printf("  | { \"%s\": %s }", key, tupleFields(v.Fields))
			continue
		}
		e.printf("  | {\n      \"%s\": {", key)
		if len(v.Fields) == 0 {
			e.out.WriteString("}")
		} else {
			e.out.WriteString("\n")
			e.writeFields(v.Fields, 8, ec.casing)
			e.out.WriteString("      }")
		}
		e.out.WriteString("\n    }")
	}
	e.out.WriteString(";\n")
}

// writeUntagged renders each variant by shape alone.
func (e *emitter) writeUntagged(ec enumContext, variants []model.Variant) {
	e.printf("%stype %s%s =", e.export(), ec.name, renderGenerics(ec.generics))
	for _, v := range variants {
		e.out.WriteString("\n")
		e.writeComments(Comments(v.Attrs), 2)
		switch {
		case v.Unit():
			e.out.WriteString("  | null")
		case v.Positional():
			e.printf("  | %s", tupleFields(v.Fields))
		default:
			e.out.WriteString("  | {\n")
			e.writeFields(v.Fields, 6, ec.casing)
			e.out.WriteString("    }")
		}
	}
	e.out.WriteString(";\n")
}

func aliasName(ec enumContext, v model.Variant) string {
	return ec.name + "__" + stripRaw(v.Name)
}

// variantGenerics keeps the enum generics a variant's fields mention, in
// declaration order.
func variantGenerics(generics []string, v model.Variant) []string {
	var out []string
	for _, g := range generics {
		for _, f := range v.Fields {
			if f.Type.References(g) {
				out = append(out, g)
				break
			}
		}
	}
	return out
}
