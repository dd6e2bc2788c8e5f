// Package meta answers the questions marshaller generation depends on: which
// properties exist on the wire at a protocol version, which are cached, which
// classes are concrete commands, and which need exception or marshal-hook handling.
//
// Every query is a pure function of the descriptors and the Engine's Config, so an
// Engine may be shared freely between goroutines.
package meta

import (
	"github.com/openwire-go/openwire-gen/internal/codegen/model"
)

// Annotation vocabulary.
const (
	AnnotationProperty   = "openwire:property"
	AnnotationMarshaller = "openwire:marshaller"

	ArgVersion = "version"
	ArgCache   = "cache"
	ArgCode    = "code"
)

const (
	// DataStructureTypeField is the wire-type tag constant every concrete command declares.
	DataStructureTypeField = "DATA_STRUCTURE_TYPE"
	// ThrowableClass is the platform's root exception type.
	ThrowableClass = "java.lang.Throwable"
	// MarshallAwareInterface marks classes taking part in pre/post marshal callbacks.
	MarshallAwareInterface = "org.apache.activemq.command.MarshallAware"
	// DefaultOpCode is returned when a class carries no wire dispatch tag.
	DefaultOpCode = "0"
)

// marshallAwareNames are the protocol types that need marshal hooks whatever the
// output target is. Used only in ModeAlternate.
var marshallAwareNames = map[string]bool{
	"ActiveMQMessage": true,
	"WireFormatInfo":  true,
}

// Engine answers generation questions for one Config.
type Engine struct {
	cfg Config
}

// New returns an Engine bound to a copy of cfg.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the configuration the Engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// IsValidProperty reports whether a property takes part in code generation at all:
// it needs a getter and a setter, the getter must not be static and must carry
// openwire:property.
func (e *Engine) IsValidProperty(p *model.Property) bool {
	if p == nil {
		return false
	}
	if p.Getter == nil || p.Setter == nil || p.Getter.Static {
		return false
	}
	return p.Getter.Annotation(AnnotationProperty) != nil
}

// IncludeInThisVersion reports whether an openwire:property annotation puts its
// property on the wire at the configured version. The annotation must carry a
// version argument; one without it is excluded at every version.
func (e *Engine) IncludeInThisVersion(a *model.Annotation) bool {
	v, ok := a.Int(ArgVersion)
	return ok && v <= e.cfg.Version
}

// IsCachedProperty reports whether a valid property asks for wire-level value caching.
func (e *Engine) IsCachedProperty(p *model.Property) bool {
	if !e.IsValidProperty(p) {
		return false
	}
	cached, ok := p.Getter.Annotation(AnnotationProperty).Bool(ArgCache)
	return ok && cached
}

// IsAbstract reports whether a class gets no marshaller of its own. Only classes
// that themselves declare a public static final DATA_STRUCTURE_TYPE are concrete.
func (e *Engine) IsAbstract(c *model.Class) bool {
	if c == nil {
		return true
	}
	for _, f := range c.Fields {
		if f.Static && f.Public && f.Final && f.Name == DataStructureTypeField {
			return false
		}
	}
	return true
}

// IsThrowable reports whether the class is, or descends from, java.lang.Throwable.
func (e *Engine) IsThrowable(c *model.Class) bool {
	for _, name := range c.Ancestry() {
		if name == ThrowableClass {
			return true
		}
	}
	return false
}

// IsMarshallAware reports whether the class needs pre/post marshal hooks.
func (e *Engine) IsMarshallAware(c *model.Class) bool {
	if c == nil {
		return false
	}
	switch e.cfg.Mode {
	case ModeNative:
		return c.Implements(MarshallAwareInterface)
	default:
		return marshallAwareNames[c.SimpleName()]
	}
}

// OpCode returns the wire dispatch tag from openwire:marshaller(code), or "0".
func (e *Engine) OpCode(c *model.Class) string {
	if c == nil {
		return DefaultOpCode
	}
	if code, ok := c.Annotation(AnnotationMarshaller).String(ArgCode); ok {
		return code
	}
	return DefaultOpCode
}
