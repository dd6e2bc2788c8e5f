package model

import (
	"errors"
	"fmt"
)

var (
	// ErrCyclicHierarchy is returned when a class is its own ancestor.
	ErrCyclicHierarchy = errors.New("cyclic superclass chain")
	// ErrDuplicateClass is returned when two descriptors share a qualified name.
	ErrDuplicateClass = errors.New("duplicate class")
)

// ObjectClass is the implicit root of every hierarchy.
const ObjectClass = "java.lang.Object"

// platformSuperclasses covers the platform exception roots command classes
// extend without shipping a descriptor for them.
var platformSuperclasses = map[string]string{
	"java.lang.Throwable":        ObjectClass,
	"java.lang.Exception":        "java.lang.Throwable",
	"java.lang.Error":            "java.lang.Throwable",
	"java.lang.RuntimeException": "java.lang.Exception",
	"java.io.IOException":        "java.lang.Exception",
}

// ClassSet is the arena of every class known to one generation run.
type ClassSet struct {
	classes []*Class
	byName  map[string]*Class
}

// NewClassSet indexes classes by qualified name, links each class to its
// superclass and computes its Lineage. A superclass outside the set ends the
// chain after its name, unless it is one of the platform exception roots,
// whose own ancestors are appended. A cyclic chain is rejected with ErrCyclicHierarchy.
// The descriptors are only modified when no error is returned.
func NewClassSet(classes []*Class) (*ClassSet, error) {
	s := &ClassSet{
		classes: make([]*Class, 0, len(classes)),
		byName:  make(map[string]*Class, len(classes)),
	}

	for _, c := range classes {
		if c == nil {
			continue
		}
		if c.Name == "" {
			return nil, errors.New("class without a name")
		}
		if _, dup := s.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateClass, c.Name)
		}
		s.byName[c.Name] = c
		s.classes = append(s.classes, c)
	}

	lineages := make([][]string, len(s.classes))
	for i, c := range s.classes {
		lineage, err := s.lineage(c)
		if err != nil {
			return nil, err
		}
		lineages[i] = lineage
	}

	for i, c := range s.classes {
		c.Superclass = s.byName[c.SuperclassName]
		c.Lineage = lineages[i]
	}

	return s, nil
}

func (s *ClassSet) lineage(c *Class) ([]string, error) {
	out := []string{c.Name}
	seen := map[string]bool{c.Name: true}

	name := c.SuperclassName
	for name != "" {
		if seen[name] {
			return nil, fmt.Errorf("%w: %s reaches %s again", ErrCyclicHierarchy, c.Name, name)
		}
		seen[name] = true
		out = append(out, name)

		if super, ok := s.byName[name]; ok {
			name = super.SuperclassName
			continue
		}
		name = platformSuperclasses[name]
	}
	return out, nil
}

// Unresolved maps each class whose chain stops at a superclass that is neither
// in the set nor a known platform class to that superclass name.
func (s *ClassSet) Unresolved() map[string]string {
	out := map[string]string{}
	for _, c := range s.classes {
		if len(c.Lineage) < 2 {
			continue
		}
		root := c.Lineage[len(c.Lineage)-1]
		if _, ok := s.byName[root]; ok || root == ObjectClass {
			continue
		}
		out[c.Name] = root
	}
	return out
}

// Classes returns every class in load order.
func (s *ClassSet) Classes() []*Class {
	return s.classes
}

// Lookup finds a class by qualified name.
func (s *ClassSet) Lookup(name string) (*Class, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// LookupSimple finds a class by qualified name, or by simple name when that
// name is unambiguous.
func (s *ClassSet) LookupSimple(name string) (*Class, error) {
	if c, ok := s.byName[name]; ok {
		return c, nil
	}
	var found *Class
	for _, c := range s.classes {
		if c.SimpleName() != name {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("class name %q is ambiguous: %s, %s", name, found.Name, c.Name)
		}
		found = c
	}
	if found == nil {
		return nil, fmt.Errorf("class %q not found", name)
	}
	return found, nil
}

func (s *ClassSet) Len() int {
	return len(s.classes)
}
