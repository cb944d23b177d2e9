package generator

import (
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// Case is a serde rename_all convention.
type Case int

const (
	CaseNone Case = iota
	CaseLower
	CaseUpper
	CasePascal
	CaseCamel
	CaseSnake
	CaseScreamingSnake
	CaseKebab
)

var renameRules = map[string]Case{
	"lowercase":            CaseLower,
	"UPPERCASE":            CaseUpper,
	"PascalCase":           CasePascal,
	"camelCase":            CaseCamel,
	"snake_case":           CaseSnake,
	"SCREAMING_SNAKE_CASE": CaseScreamingSnake,
	"kebab-case":           CaseKebab,
}

// ResolveCase maps a rename_all value to a Case. Unknown values, including
// SCREAMING-KEBAB-CASE, resolve to CaseNone.
func ResolveCase(value string) Case {
	return renameRules[value]
}

// Apply converts name, which must already have its r# prefix removed.
// Lower and Upper are word based: "NormalVariant" becomes "normal variant".
func (c Case) Apply(name string) string {
	switch c {
	case CaseLower:
		return strcase.ToDelimited(name, ' ')
	case CaseUpper:
		return strcase.ToScreamingDelimited(name, ' ', "", true)
	case CasePascal:
		return strcase.ToCamel(name)
	case CaseCamel:
		return strcase.ToLowerCamel(name)
	case CaseSnake:
		return strcase.ToSnake(name)
	case CaseScreamingSnake:
		return strcase.ToScreamingSnake(name)
	case CaseKebab:
		return strcase.ToKebab(name)
	}
	return name
}

// ApplyField converts a field name. Fields differ from variants under Lower
// and Upper: lowercase leaves a field as written and UPPERCASE only changes
// letter case, so no separators are inserted.
func (c Case) ApplyField(name string) string {
	switch c {
	case CaseLower:
		return name
	case CaseUpper:
		return strings.ToUpper(name)
	}
	return c.Apply(name)
}

// renameField is rename for struct and variant fields.
func renameField(ident string, c Case) string {
	return c.ApplyField(stripRaw(ident))
}

// propertyKey quotes name unless it is a plain identifier, so kebab-case and
// word-separated names stay valid as object keys and enum members.
func propertyKey(name string) string {
	if isIdentifier(name) {
		return name
	}
	return strconv.Quote(name)
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// rename strips the raw identifier prefix and applies the case.
func rename(ident string, c Case) string {
	return c.Apply(stripRaw(ident))
}
