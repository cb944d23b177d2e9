package generator

import (
	"strings"

	"github.com/cmmoran/tsync/internal/model"
)

func (e *emitter) writeStruct(s *model.Struct) error {
	casing := structCase(s.Attrs)
	name := stripRaw(s.Name)
	generics := renderGenerics(s.Generics)

	var (
		intersection []string
		body         []model.Field
	)
	for _, f := range s.Fields {
		if HasArg(f.Attrs, "serde", "flatten") {
			intersection = append(intersection, MapType(f.Type).Text)
			continue
		}
		body = append(body, f)
	}

	if s.Positional() {
		if len(intersection) > 0 {
			return unsupported("flatten is not supported on tuple struct fields")
		}
		e.out.WriteString("\n")
		e.writeComments(Comments(s.Attrs), 0)
		e.printf("%stype %s%s = %s\n", e.export(), name, generics, tupleFields(s.Fields))
		return nil
	}

	e.out.WriteString("\n")
	e.writeComments(Comments(s.Attrs), 0)
	if len(intersection) == 0 {
		e.printf("%sinterface %s%s {\n", e.export(), name, generics)
	} else {
		e.printf("%stype %s%s = %s & {\n", e.export(), name, generics, strings.Join(intersection, " & "))
	}
	if len(s.Fields) == 0 {
		e.out.WriteString("  [key: PropertyKey]: never;\n")
	}
	e.writeFields(body, 2, casing)
	e.out.WriteString("}\n")
	return nil
}

func structCase(attrs []model.Attribute) Case {
	v, _ := GetArg(attrs, "serde", "rename_all")
	return ResolveCase(v)
}

// writeFields renders named fields, one per line, with their doc comments.
func (e *emitter) writeFields(fields []model.Field, indent int, casing Case) {
	pad := strings.Repeat(" ", indent)
	for _, f := range fields {
		e.writeComments(Comments(f.Attrs), indent)
		ty := MapType(f.Type)
		optional := ""
		if ty.Optional {
			optional = "?"
		}
		e.printf("%s%s%s: %s;\n", pad, propertyKey(renameField(f.Name, casing)), optional, ty.Text)
	}
}

// tupleFields renders positional fields: the bare type for one field, a
// padded tuple for more.
func tupleFields(fields []model.Field) string {
	if len(fields) == 1 {
		return MapType(fields[0].Type).Inline()
	}
	elems := make([]string, len(fields))
	for i, f := range fields {
		elems[i] = MapType(f.Type).Inline()
	}
	return "[ " + strings.Join(elems, ", ") + " ]"
}
