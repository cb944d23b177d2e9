package model

// Kind identifies the declaration variant.
type Kind int

const (
	KindInvalid   Kind = iota
	KindStruct         // struct Foo { .. } / struct Foo(..) / struct Foo;
	KindEnum           // enum Foo { .. }
	KindTypeAlias      // type Foo = Bar;
	KindConst          // const FOO: T = ..;
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindTypeAlias:
		return "type"
	case KindConst:
		return "const"
	}
	return "invalid"
}

// Declaration is one top-level item read from a source file. The set of
// implementations is closed: *Struct, *Enum, *TypeAlias and *Const.
type Declaration interface {
	Kind() Kind
	Ident() string
	Attributes() []Attribute
	sealed()
}

// Header holds what every declaration carries.
type Header struct {
	Name     string      // identifier as written, may carry the r# prefix
	Generics []string    // type parameter names, lifetimes and const params excluded
	Attrs    []Attribute // outer attributes in source order, doc comments included
	Line     int
}

func (h *Header) Ident() string           { return h.Name }
func (h *Header) Attributes() []Attribute { return h.Attrs }

// Attribute is a raw outer attribute: #[path(args)] or #[path = value].
type Attribute struct {
	Path  []string // path segments, e.g. ["serde"] or ["tsync", "tsync"]
	Args  string   // token text inside the delimiters, "" when absent
	Value string   // token text after "=", "" when absent
}

// HasSegment reports whether any path segment equals name.
func (a Attribute) HasSegment(name string) bool {
	for _, s := range a.Path {
		if s == name {
			return true
		}
	}
	return false
}

// Field is a struct or variant field. Positional fields have no Name.
type Field struct {
	Name  string
	Type  TypeExpr
	Attrs []Attribute
}

// Positional reports whether the field is tuple-style.
func (f Field) Positional() bool { return f.Name == "" }

// Struct is a struct item.
type Struct struct {
	Header
	Fields []Field
}

func (*Struct) Kind() Kind { return KindStruct }
func (*Struct) sealed()    {}

// Positional reports whether the struct is a tuple struct.
func (s *Struct) Positional() bool {
	return len(s.Fields) > 0 && s.Fields[0].Positional()
}

// Variant is one enum variant. A unit variant has no fields.
type Variant struct {
	Name         string
	Fields       []Field
	Discriminant string // token text after "=", "" when absent
	Attrs        []Attribute
}

// Unit reports whether the variant carries no data.
func (v Variant) Unit() bool { return len(v.Fields) == 0 }

// Positional reports whether the variant is tuple-style.
func (v Variant) Positional() bool {
	return len(v.Fields) > 0 && v.Fields[0].Positional()
}

// Enum is an enum item.
type Enum struct {
	Header
	Variants []Variant
}

func (*Enum) Kind() Kind { return KindEnum }
func (*Enum) sealed()    {}

// TypeAlias is a type alias item.
type TypeAlias struct {
	Header
	Type TypeExpr
}

func (*TypeAlias) Kind() Kind { return KindTypeAlias }
func (*TypeAlias) sealed()    {}

// ExprKind classifies a const initializer.
type ExprKind int

const (
	ExprOther   ExprKind = iota
	ExprLiteral          // 0, 1.5, "str", b"bytes", 'c', true
	ExprMacro            // path!(tokens)
)

// ConstExpr is the initializer of a const item. Nothing is evaluated.
type ConstExpr struct {
	Kind      ExprKind
	Text      string   // full token text of the expression
	MacroPath []string // macro path segments for ExprMacro
	MacroBody string   // token text inside the macro delimiters
}

// Const is a const item.
type Const struct {
	Header
	Type  TypeExpr
	Value ConstExpr
}

func (*Const) Kind() Kind { return KindConst }
func (*Const) sealed()    {}

// File is the parsed content of one source file.
type File struct {
	Path         string
	Declarations []Declaration
}
