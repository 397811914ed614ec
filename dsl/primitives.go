package dsl

import (
	edikit "github.com/reoring/edikit"
)

// Component is a leaf builder. Methods return modified copies, so a
// component can be declared once and reused in several composites.
type Component struct {
	def edikit.ComponentDef
}

// Text declares a free-text component.
func Text(name string) Component { return Component{def: edikit.ComponentDef{Name: name}} }

// Numeric declares a numeric component (digits, optional sign and one
// decimal mark).
func Numeric(name string) Component {
	return Component{def: edikit.ComponentDef{Name: name, Numeric: true}}
}

// Coded declares a component whose value space is table.
func Coded(name string, table *edikit.CodeTable) Component {
	return Component{def: edikit.ComponentDef{Name: name, Table: table}}
}

// MaxLen bounds the length (digits for numeric components).
func (c Component) MaxLen(n int) Component {
	c.def.MaxLen = n
	return c
}

// Required marks the component mandatory inside its composite.
func (c Component) Required() Component {
	c.def.Required = true
	return c
}

// Optional marks the component optional inside its composite (default).
func (c Component) Optional() Component {
	c.def.Required = false
	return c
}

// Def returns the built definition.
func (c Component) Def() edikit.ComponentDef { return c.def }

func (c Component) applyTo(f *edikit.FieldDef) {
	d := c.def
	f.Component = &d
}

// Composite declares a composite element from its components in order.
func Composite(name string, comps ...Component) *edikit.CompositeDef {
	cd := &edikit.CompositeDef{Name: name, Components: make([]edikit.ComponentDef, len(comps))}
	for i, c := range comps {
		cd.Components[i] = c.def
	}
	return cd
}

type compositeElem struct{ def *edikit.CompositeDef }

func (c compositeElem) applyTo(f *edikit.FieldDef) { f.Composite = c.def }

// ElementSpec is anything that can fill a segment field: a Component or a
// composite wrapped with Of.
type ElementSpec interface {
	applyTo(f *edikit.FieldDef)
}

// Of adapts a composite definition for use as a segment field.
func Of(cd *edikit.CompositeDef) ElementSpec { return compositeElem{def: cd} }

// Codes builds a code table from alternating key/label pairs. A trailing
// key without label gets an empty label.
func Codes(name string, kv ...string) *edikit.CodeTable {
	m := make(map[string]string, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		label := ""
		if i+1 < len(kv) {
			label = kv[i+1]
		}
		m[kv[i]] = label
	}
	return edikit.NewCodeTable(name, m, "")
}
