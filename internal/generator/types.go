package generator

import "github.com/cmmoran/tsync/internal/model"

// writeTypeAlias renders `type Name = T`. Optionality of T is dropped.
func (e *emitter) writeTypeAlias(a *model.TypeAlias) error {
	e.out.WriteString("\n")
	e.writeComments(Comments(a.Attrs), 0)
	e.printf("%stype %s%s = %s\n", e.export(), stripRaw(a.Name), renderGenerics(a.Generics), MapType(a.Type).Text)
	return nil
}
