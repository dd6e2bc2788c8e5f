// Package model holds the read-only descriptors of annotated command classes
// that the code generator analyzes.
//
// Descriptors are built once per generation run, either by hand or by the
// scanner package, linked together by NewClassSet and never mutated afterwards.
package model

import "strings"

// Field is a field declared directly on a class.
type Field struct {
	Name   string `json:"name"`
	Public bool   `json:"public,omitempty"`
	Static bool   `json:"static,omitempty"`
	Final  bool   `json:"final,omitempty"`
}

// IsConstant reports whether the field is public, static and final.
func (f Field) IsConstant() bool {
	return f.Public && f.Static && f.Final
}

// Method is a getter or setter backing a property.
type Method struct {
	Name        string      `json:"name"`
	Static      bool        `json:"static,omitempty"`
	Annotations Annotations `json:"annotations,omitempty"`
}

// Annotation returns the named annotation on the method, or nil.
func (m *Method) Annotation(name string) *Annotation {
	if m == nil {
		return nil
	}
	return m.Annotations.Get(name)
}

// Property is a bean-style property. Either accessor may be missing.
type Property struct {
	Name   string  `json:"name"`
	Getter *Method `json:"getter,omitempty"`
	Setter *Method `json:"setter,omitempty"`
}

// Class describes one command class.
type Class struct {
	Name           string      `json:"name"` // qualified name
	SuperclassName string      `json:"superclass,omitempty"`
	Interfaces     []string    `json:"interfaces,omitempty"`
	Fields         []Field     `json:"fields,omitempty"`
	Properties     []*Property `json:"properties,omitempty"`
	Annotations    Annotations `json:"annotations,omitempty"`

	// Superclass is linked by NewClassSet when the superclass is part of the set.
	Superclass *Class `json:"-"`
	// Lineage is the class's own name followed by every ancestor name, nearest first.
	// It is computed by NewClassSet.
	Lineage []string `json:"lineage,omitempty"`
}

// SimpleName is the qualified name with its package prefix removed.
func (c *Class) SimpleName() string {
	if c == nil {
		return ""
	}
	if i := strings.LastIndexByte(c.Name, '.'); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

// Annotation returns the named class-level annotation, or nil.
func (c *Class) Annotation(name string) *Annotation {
	if c == nil {
		return nil
	}
	return c.Annotations.Get(name)
}

// Implements reports whether iface is in the class's declared interface list.
func (c *Class) Implements(iface string) bool {
	if c == nil {
		return false
	}
	for _, i := range c.Interfaces {
		if i == iface {
			return true
		}
	}
	return false
}

// DeclaredField returns the field declared on the class itself, if any.
func (c *Class) DeclaredField(name string) (Field, bool) {
	if c == nil {
		return Field{}, false
	}
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Property returns the named property, or nil.
func (c *Class) Property(name string) *Property {
	if c == nil {
		return nil
	}
	for _, p := range c.Properties {
		if p != nil && p.Name == name {
			return p
		}
	}
	return nil
}

// Ancestry returns Lineage when the class went through NewClassSet. For classes
// assembled by hand it follows Superclass links instead; those chains must be
// acyclic, the walk stops at the first repeated class.
func (c *Class) Ancestry() []string {
	if c == nil {
		return nil
	}
	if len(c.Lineage) > 0 {
		return c.Lineage
	}

	var out []string
	seen := map[*Class]bool{}
	cur := c
	for cur != nil && !seen[cur] {
		seen[cur] = true
		out = append(out, cur.Name)
		if cur.Superclass == nil {
			if cur.SuperclassName != "" {
				out = append(out, cur.SuperclassName)
			}
			break
		}
		cur = cur.Superclass
	}
	return out
}
