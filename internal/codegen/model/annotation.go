package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Value is a single typed annotation argument: an integer, a boolean or a string.
// Accessors never fail; the second return value reports whether the argument could
// be read as the requested type.
type Value struct {
	v any
}

func IntValue(n int) Value       { return Value{v: n} }
func BoolValue(b bool) Value     { return Value{v: b} }
func StringValue(s string) Value { return Value{v: s} }

// Int reads the value as an integer. Numeric strings are accepted.
func (v Value) Int() (int, bool) {
	switch x := v.v.(type) {
	case int:
		return x, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Bool reads the value as a boolean. "true"/"false" strings are accepted.
func (v Value) Bool() (bool, bool) {
	switch x := v.v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// String renders any present value as text.
func (v Value) String() (string, bool) {
	switch x := v.v.(type) {
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.v)
}

// Annotation is a named set of arguments attached to a class or a getter,
// e.g. openwire:property(version=3, cache=true).
type Annotation struct {
	Name string           `json:"name"`
	Args map[string]Value `json:"args,omitempty"`
}

func NewAnnotation(name string, args map[string]Value) *Annotation {
	if args == nil {
		args = map[string]Value{}
	}
	return &Annotation{Name: name, Args: args}
}

// Value looks up an argument. A nil annotation has no arguments.
func (a *Annotation) Value(name string) (Value, bool) {
	if a == nil {
		return Value{}, false
	}
	v, ok := a.Args[name]
	return v, ok
}

func (a *Annotation) Int(name string) (int, bool) {
	v, ok := a.Value(name)
	if !ok {
		return 0, false
	}
	return v.Int()
}

func (a *Annotation) Bool(name string) (bool, bool) {
	v, ok := a.Value(name)
	if !ok {
		return false, false
	}
	return v.Bool()
}

func (a *Annotation) String(name string) (string, bool) {
	v, ok := a.Value(name)
	if !ok {
		return "", false
	}
	return v.String()
}

// Tag renders the annotation back into tag-line form with arguments in key order.
func (a *Annotation) Tag() string {
	if a == nil {
		return ""
	}
	keys := make([]string, 0, len(a.Args))
	for k := range a.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(a.Name)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		if s, ok := a.Args[k].v.(string); ok {
			b.WriteString(strconv.Quote(s))
			continue
		}
		s, _ := a.Args[k].String()
		b.WriteString(s)
	}
	return b.String()
}

// Annotations is an ordered annotation list; the first match by name wins.
type Annotations []*Annotation

// Get returns the annotation with the given name, or nil.
func (as Annotations) Get(name string) *Annotation {
	for _, a := range as {
		if a != nil && a.Name == name {
			return a
		}
	}
	return nil
}

// annotationPattern matches: <namespace>:<name> [key=value ...]
var annotationPattern = regexp.MustCompile(`^@?([A-Za-z_][\w.-]*:[A-Za-z_][\w.-]*)(?:\s+(.*))?$`)

// argPattern matches a single key=value pair, value optionally double-quoted.
// Pairs are separated by whitespace or a comma.
var argPattern = regexp.MustCompile(`([A-Za-z_]\w*)\s*=\s*("(?:[^"\\]|\\.)*"|[^\s",]+)`)

// bareWordPattern is the only untyped unquoted value accepted.
var bareWordPattern = regexp.MustCompile(`^[A-Za-z_][\w.-]*$`)

// ParseAnnotation parses a tag line such as
//
//	openwire:property version=3 cache=true
//	openwire:marshaller code="7"
//
// Arguments may be separated by commas. Quoted values are strings. Unquoted
// values must be an integer, true/false or a bare identifier.
func ParseAnnotation(text string) (*Annotation, error) {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "//"))
	text = strings.TrimSpace(strings.TrimPrefix(text, "*"))

	m := annotationPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("malformed annotation %q", text)
	}

	a := NewAnnotation(m[1], nil)
	rest := m[2]
	if strings.TrimSpace(rest) == "" {
		return a, nil
	}

	var leftover strings.Builder
	last := 0
	for i, loc := range argPattern.FindAllStringSubmatchIndex(rest, -1) {
		gap := rest[last:loc[0]]
		if i > 0 && gap == "" {
			return nil, fmt.Errorf("annotation %s: missing separator before %q", a.Name, rest[loc[0]:loc[1]])
		}
		if i == 0 || strings.TrimSpace(gap) != "," {
			leftover.WriteString(gap)
		}
		last = loc[1]

		key := rest[loc[2]:loc[3]]
		raw := rest[loc[4]:loc[5]]
		if _, dup := a.Args[key]; dup {
			return nil, fmt.Errorf("annotation %s: duplicate argument %q", a.Name, key)
		}
		v, err := parseArg(raw)
		if err != nil {
			return nil, fmt.Errorf("annotation %s: argument %s: %w", a.Name, key, err)
		}
		a.Args[key] = v
	}
	leftover.WriteString(rest[last:])
	if junk := strings.TrimSpace(leftover.String()); junk != "" {
		return nil, fmt.Errorf("annotation %s: unexpected text %q", a.Name, junk)
	}
	return a, nil
}

func parseArg(raw string) (Value, error) {
	if strings.HasPrefix(raw, `"`) {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return Value{}, fmt.Errorf("bad quoted value %s: %w", raw, err)
		}
		return StringValue(s), nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return IntValue(n), nil
	}
	if raw == "true" || raw == "false" {
		return BoolValue(raw == "true"), nil
	}
	if !bareWordPattern.MatchString(raw) {
		return Value{}, fmt.Errorf("unquoted value %q is not an integer, boolean or identifier", raw)
	}
	return StringValue(raw), nil
}
