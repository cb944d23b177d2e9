package parser

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/tsync/internal/model"
)

func TestParseStruct(t *testing.T) {
	src := `
/// Doc for Book
#[tsync]
#[derive(Serialize)]
pub struct Book<'a, T: Clone + 'a, const N: usize> where T: Default {
    /// Name of the book.
    pub name: &'a str,
    #[serde(rename = "reviews")]
    pub(crate) user_reviews: Option<Vec<T>>,
    r#type: std::collections::HashMap<String, (i32, u8)>,
}
`
	f, err := Parse("book.rs", src)
	require.NoError(t, err)
	require.Len(t, f.Declarations, 1)

	s, ok := f.Declarations[0].(*model.Struct)
	require.True(t, ok)
	require.Equal(t, "Book", s.Ident())
	require.Equal(t, []string{"T"}, s.Generics)
	require.Equal(t, 5, s.Line)
	require.Equal(t, []model.Attribute{
		{Path: []string{"doc"}, Value: `" Doc for Book"`},
		{Path: []string{"tsync"}},
		{Path: []string{"derive"}, Args: "Serialize"},
	}, s.Attrs)

	require.Len(t, s.Fields, 3)
	name := s.Fields[0]
	require.Equal(t, "name", name.Name)
	require.Equal(t, model.TypeReference, name.Type.Kind)
	require.Equal(t, "str", name.Type.Elem.Ident())
	require.Equal(t, "&'a str", name.Type.Text)
	require.Equal(t, []model.Attribute{{Path: []string{"doc"}, Value: `" Name of the book."`}}, name.Attrs)

	reviews := s.Fields[1]
	require.Equal(t, "user_reviews", reviews.Name)
	require.Equal(t, "Option", reviews.Type.Ident())
	require.Len(t, reviews.Type.Args, 1)
	require.Equal(t, "Vec", reviews.Type.Args[0].Type.Ident())
	require.Equal(t, `rename = "reviews"`, reviews.Attrs[0].Args)

	raw := s.Fields[2]
	require.Equal(t, "r#type", raw.Name)
	require.Equal(t, []string{"std", "collections", "HashMap"}, raw.Type.Segments)
	require.Len(t, raw.Type.Args, 2)
	require.Equal(t, model.TypeTuple, raw.Type.Args[1].Type.Kind)
	require.Len(t, raw.Type.Args[1].Type.Elems, 2)
	require.Equal(t, "(i32, u8)", raw.Type.Args[1].Text)
}

func TestParseTupleAndUnitStructs(t *testing.T) {
	src := `
#[tsync]
pub struct Pair(pub i32, String);

#[tsync]
struct Unit;

#[tsync]
struct Wrapper<T>(T) where T: Clone;
`
	f, err := Parse("structs.rs", src)
	require.NoError(t, err)
	require.Len(t, f.Declarations, 3)

	pair := f.Declarations[0].(*model.Struct)
	require.True(t, pair.Positional())
	require.Len(t, pair.Fields, 2)
	require.Equal(t, "i32", pair.Fields[0].Type.Ident())
	require.Equal(t, "String", pair.Fields[1].Type.Ident())

	unit := f.Declarations[1].(*model.Struct)
	require.Equal(t, "Unit", unit.Name)
	require.Empty(t, unit.Fields)

	wrapper := f.Declarations[2].(*model.Struct)
	require.Equal(t, []string{"T"}, wrapper.Generics)
	require.True(t, wrapper.Positional())
}

func TestParseEnum(t *testing.T) {
	src := `
#[tsync]
#[derive(Serialize_repr)]
#[serde(tag = "type", content = "value")]
enum Foo<P> {
    Bar,
    Baz = 123,
    /// doc
    Quux,
    Tuple(i32, Vec<P>),
    Named { a: u8 },
}
`
	f, err := Parse("enum.rs", src)
	require.NoError(t, err)
	require.Len(t, f.Declarations, 1)

	e := f.Declarations[0].(*model.Enum)
	require.Equal(t, model.KindEnum, e.Kind())
	require.Equal(t, []string{"P"}, e.Generics)
	require.Equal(t, `tag = "type", content = "value"`, e.Attrs[2].Args)
	require.Len(t, e.Variants, 5)

	require.True(t, e.Variants[0].Unit())
	require.Equal(t, "123", e.Variants[1].Discriminant)
	require.Equal(t, []model.Attribute{{Path: []string{"doc"}, Value: `" doc"`}}, e.Variants[2].Attrs)

	tuple := e.Variants[3]
	require.True(t, tuple.Positional())
	require.Len(t, tuple.Fields, 2)
	require.True(t, tuple.Fields[1].Type.References("P"))

	named := e.Variants[4]
	require.False(t, named.Positional())
	require.Equal(t, "a", named.Fields[0].Name)
}

func TestParseTypeAliasAndConsts(t *testing.T) {
	src := `
#[tsync]
type Ids<T> = Vec<T>;

#[tsync]
const MAX: u32 = 5;

#[tsync]
pub const NAME: &str = "x";

#[tsync]
const CFG: serde_json::Value = serde_json::json!({ "a": "b" });

#[tsync]
const SUM: u32 = 1 + 2;

#[tsync]
const NEG: i32 = -1;
`
	f, err := Parse("items.rs", src)
	require.NoError(t, err)
	require.Len(t, f.Declarations, 6)

	alias := f.Declarations[0].(*model.TypeAlias)
	require.Equal(t, "Ids", alias.Name)
	require.Equal(t, []string{"T"}, alias.Generics)
	require.Equal(t, "Vec<T>", alias.Type.Text)

	tests := []struct {
		name string
		want model.ConstExpr
	}{
		{name: "MAX", want: model.ConstExpr{Kind: model.ExprLiteral, Text: "5"}},
		{name: "NAME", want: model.ConstExpr{Kind: model.ExprLiteral, Text: `"x"`}},
		{name: "CFG", want: model.ConstExpr{
			Kind:      model.ExprMacro,
			Text:      `serde_json::json!({ "a": "b" })`,
			MacroPath: []string{"serde_json", "json"},
			MacroBody: `{ "a": "b" }`,
		}},
		{name: "SUM", want: model.ConstExpr{Kind: model.ExprOther, Text: "1 + 2"}},
		{name: "NEG", want: model.ConstExpr{Kind: model.ExprOther, Text: "-1"}},
	}
	for i, tt := range tests {
		c := f.Declarations[i+1].(*model.Const)
		require.Equal(t, tt.name, c.Name)
		require.Equal(t, tt.want, c.Value, tt.name)
	}
}

func TestParseSkipsOtherItems(t *testing.T) {
	src := `#![allow(dead_code)]
//! crate docs
use std::fmt::{self, Display};
extern crate serde;
mod inner { struct Hidden; }
#[derive(Debug)]
fn helper<T>(x: T) -> Vec<T> { vec![x] }
impl<T> Display for Wrapper<T> where T: Display {
    fn fmt(&self, f: &mut fmt::Formatter<'_>) -> fmt::Result { write!(f, "{}", '}') }
}
macro_rules! m { ($x:expr) => { $x }; }
static GLOBAL: Point = Point { x: 1 };
const fn five() -> u32 { 5 }
lazy_static! { static ref X: u8 = 1; }
trait Shape { fn area(&self) -> f64; }
//// not a doc comment
/* plain */
#[tsync]
struct After;
`
	f, err := Parse("skip.rs", src)
	require.NoError(t, err)
	require.Len(t, f.Declarations, 1)
	require.Equal(t, "After", f.Declarations[0].Ident())
	require.Equal(t, []model.Attribute{{Path: []string{"tsync"}}}, f.Declarations[0].Attributes())
}

func TestParseDocComments(t *testing.T) {
	src := `
/**
 * Multi
 * line
 */
#[tsync]
enum r#enum {
    /** Single */
    r#type,
    #[doc = "explicit"]
    Normal,
}
`
	f, err := Parse("docs.rs", src)
	require.NoError(t, err)
	e := f.Declarations[0].(*model.Enum)
	require.Equal(t, "r#enum", e.Name)
	require.Equal(t, []model.Attribute{
		{Path: []string{"doc"}, Value: `" Multi"`},
		{Path: []string{"doc"}, Value: `" line"`},
		{Path: []string{"tsync"}},
	}, e.Attrs)
	require.Equal(t, "r#type", e.Variants[0].Name)
	require.Equal(t, `" Single "`, e.Variants[0].Attrs[0].Value)
	require.Equal(t, `"explicit"`, e.Variants[1].Attrs[0].Value)
}

func TestParseTypes(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kind  model.TypeKind
		ident string
	}{
		{name: "slice reference", src: "&'a [u8]", kind: model.TypeReference},
		{name: "array", src: "[u8; 4]", kind: model.TypeOther},
		{name: "fn pointer", src: "fn(u8) -> u8", kind: model.TypeOther},
		{name: "boxed closure", src: "Box<dyn Fn(u8) -> u8 + Send>", kind: model.TypePath, ident: "Box"},
		{name: "boxed trait object with bounds", src: "Box<dyn Error + Send + Sync + 'static>", kind: model.TypePath, ident: "Box"},
		{name: "bare trait object with bounds", src: "Box<Error + Send>", kind: model.TypePath, ident: "Box"},
		{name: "closure returning a path with bounds", src: "Arc<dyn Fn() -> Box<u8> + Send>", kind: model.TypePath, ident: "Arc"},
		{name: "impl trait", src: "impl Iterator<Item = u8>", kind: model.TypeOther},
		{name: "unit", src: "()", kind: model.TypeTuple},
		{name: "parenthesized", src: "(u8)", kind: model.TypeOther},
		{name: "fn trait", src: "Fn(u8)", kind: model.TypePath, ident: "Fn"},
		{name: "cow", src: "Cow<'static, str>", kind: model.TypePath, ident: "Cow"},
		{name: "qualified", src: "<T as Trait>::Output", kind: model.TypeOther},
		{name: "raw pointer", src: "*const u8", kind: model.TypeOther},
		{name: "never", src: "!", kind: model.TypeOther},
		{name: "const generic", src: "Matrix<3, { N + 1 }>", kind: model.TypePath, ident: "Matrix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse("types.rs", "type X = "+tt.src+";")
			require.NoError(t, err)
			alias := f.Declarations[0].(*model.TypeAlias)
			require.Equal(t, tt.kind, alias.Type.Kind)
			require.Equal(t, tt.ident, alias.Type.Ident())
			require.Equal(t, tt.src, alias.Type.Text)
		})
	}

	f, err := Parse("cow.rs", "type X = Cow<'static, str>;")
	require.NoError(t, err)
	cow := f.Declarations[0].(*model.TypeAlias).Type
	require.Equal(t, model.ArgLifetime, cow.Args[0].Kind)
	require.Equal(t, model.ArgType, cow.Args[1].Kind)

	f, err = Parse("fn.rs", "type X = Fn(u8);")
	require.NoError(t, err)
	require.True(t, f.Declarations[0].(*model.TypeAlias).Type.Parenthesized)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "missing field type", src: "struct Broken { a: }"},
		{name: "unclosed body", src: "struct S { a: u8"},
		{name: "unclosed skipped item", src: "fn f() { let x = (1, 2; }"},
		{name: "invalid character", src: "struct S { a: u8 } `"},
		{name: "stray delimiter", src: "}"},
		{name: "unterminated nested comment", src: "/* outer /* inner */ struct S;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("broken.rs", tt.src)
			require.Error(t, err)
			require.Truef(t, errors.Is(err, ErrSyntax), "error %v is not a syntax error", err)
		})
	}
}

func TestParseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/lib.rs", []byte("#[tsync]\nstruct A { b: bool }\n"), 0o644))

	f, err := ParseFile(fs, "/src/lib.rs")
	require.NoError(t, err)
	require.Equal(t, "/src/lib.rs", f.Path)
	require.Len(t, f.Declarations, 1)

	_, err = ParseFile(fs, "/src/missing.rs")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrSyntax))
}

func TestParseNestedBlockComments(t *testing.T) {
	src := `
/* outer /* nested */ still a comment struct Hidden { a: u8 } */
#[tsync]
struct After { a: u8 }

/** doc /* with nested */ text */
#[tsync]
struct Documented;
`
	f, err := Parse("nested.rs", src)
	require.NoError(t, err)
	require.Len(t, f.Declarations, 2)
	require.Equal(t, "After", f.Declarations[0].Ident())
	d := f.Declarations[1]
	require.Equal(t, "Documented", d.Ident())
	require.Equal(t, []model.Attribute{
		{Path: []string{"doc"}, Value: `" doc /* with nested */ text "`},
		{Path: []string{"tsync"}},
	}, d.Attributes())
}

func TestParseKeepsItemsAroundTraitObjects(t *testing.T) {
	src := `
struct Hooks {
    cb: Box<dyn Fn(u8) -> u8 + Send>,
    err: Box<dyn std::error::Error + Send + Sync>,
}

#[tsync]
struct Book { name: String }
`
	f, err := Parse("lib.rs", src)
	require.NoError(t, err)
	require.Len(t, f.Declarations, 2)
	require.Equal(t, "Hooks", f.Declarations[0].Ident())
	require.Equal(t, "Book", f.Declarations[1].Ident())
}
