package generator

import "github.com/cmmoran/tsync/internal/model"

// writeConst renders a literal or a json! macro body as an exported const.
// Nothing is evaluated.
func (e *emitter) writeConst(c *model.Const) error {
	var body string
	switch c.Value.Kind {
	case model.ExprLiteral:
		body = c.Value.Text
	case model.ExprMacro:
		if !isJSONMacro(c.Value.MacroPath) {
			return unsupported("macro %s! is not a json literal", c.Value.MacroPath[len(c.Value.MacroPath)-1])
		}
		body = c.Value.MacroBody
	default:
		return unsupported("const value %q is not a literal", c.Value.Text)
	}

	e.out.WriteString("\n")
	e.writeComments(Comments(c.Attrs), 0)
	e.printf("export const %s = %s;\n", stripRaw(c.Name), body)
	return nil
}

func isJSONMacro(path []string) bool {
	for _, s := range path {
		if s == "json" {
			return true
		}
	}
	return false
}
