package meta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwire-go/openwire-gen/internal/codegen/meta"
	"github.com/openwire-go/openwire-gen/internal/codegen/model"
)

func propertyAnnotation(t *testing.T, tag string) *model.Annotation {
	t.Helper()
	a, err := model.ParseAnnotation(tag)
	require.NoError(t, err)
	return a
}

func property(getter, setter *model.Method) *model.Property {
	return &model.Property{Name: "bar", Getter: getter, Setter: setter}
}

func getter(static bool, anns ...*model.Annotation) *model.Method {
	return &model.Method{Name: "getBar", Static: static, Annotations: anns}
}

func TestIsValidProperty(t *testing.T) {
	type testCase struct {
		name     string
		property *model.Property
		expected bool
	}

	ann := propertyAnnotation(t, "openwire:property version=1")
	other := propertyAnnotation(t, "openwire:marshaller code=1")
	setter := &model.Method{Name: "setBar"}

	testCases := []testCase{
		{name: "Nil property", property: nil, expected: false},
		{name: "Missing getter", property: property(nil, setter), expected: false},
		{name: "Missing setter", property: property(getter(false, ann), nil), expected: false},
		{name: "Static getter", property: property(getter(true, ann), setter), expected: false},
		{name: "No annotation", property: property(getter(false), setter), expected: false},
		{name: "Unrelated annotation only", property: property(getter(false, other), setter), expected: false},
		{name: "Valid", property: property(getter(false, ann), setter), expected: true},
		{name: "Valid without version", property: property(getter(false, propertyAnnotation(t, "openwire:property")), setter), expected: true},
	}

	e := meta.New(meta.DefaultConfig(1))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, e.IsValidProperty(tc.property))
		})
	}
}

func TestIncludeInThisVersion(t *testing.T) {
	type testCase struct {
		name     string
		tag      string
		target   int
		expected bool
	}

	testCases := []testCase{
		{name: "Below target", tag: "openwire:property version=1", target: 3, expected: true},
		{name: "Equal to target", tag: "openwire:property version=3", target: 3, expected: true},
		{name: "Above target", tag: "openwire:property version=4", target: 3, expected: false},
		{name: "Quoted numeric version", tag: `openwire:property version="2"`, target: 2, expected: true},
		{name: "Non numeric version", tag: "openwire:property version=latest", target: 99, expected: false},
		{name: "Comma separated arguments", tag: "openwire:property version=3, cache=true", target: 3, expected: true},
		{name: "Version zero at target zero", tag: "openwire:property version=0", target: 0, expected: true},
		// A property without a version argument never reaches the wire.
		{name: "Missing version", tag: "openwire:property cache=true", target: 1000, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := meta.New(meta.DefaultConfig(tc.target))
			assert.Equal(t, tc.expected, e.IncludeInThisVersion(propertyAnnotation(t, tc.tag)))
		})
	}

	t.Run("Nil annotation", func(t *testing.T) {
		assert.False(t, meta.New(meta.DefaultConfig(12)).IncludeInThisVersion(nil))
	})
}

func TestIncludeInThisVersionIsMonotonic(t *testing.T) {
	for declared := 0; declared <= 12; declared++ {
		ann := model.NewAnnotation(meta.AnnotationProperty, map[string]model.Value{
			meta.ArgVersion: model.IntValue(declared),
		})
		seen := false
		for target := 0; target <= 14; target++ {
			included := meta.New(meta.DefaultConfig(target)).IncludeInThisVersion(ann)
			if seen {
				assert.True(t, included, "declared %d dropped out at target %d", declared, target)
			}
			seen = seen || included
			assert.Equal(t, declared <= target, included)
		}
	}
}

func TestIsCachedProperty(t *testing.T) {
	type testCase struct {
		name     string
		property *model.Property
		expected bool
	}

	setter := &model.Method{Name: "setBar"}
	cached := propertyAnnotation(t, "openwire:property version=1 cache=true")
	notCached := propertyAnnotation(t, "openwire:property version=1 cache=false")
	noCache := propertyAnnotation(t, "openwire:property version=1")
	badCache := propertyAnnotation(t, "openwire:property version=1 cache=maybe")

	testCases := []testCase{
		{name: "Cached", property: property(getter(false, cached), setter), expected: true},
		{name: "Explicitly not cached", property: property(getter(false, notCached), setter), expected: false},
		{name: "Cache absent", property: property(getter(false, noCache), setter), expected: false},
		{name: "Cache not a boolean", property: property(getter(false, badCache), setter), expected: false},
		{name: "Invalid property with cache", property: property(getter(false, cached), nil), expected: false},
		{name: "Static getter with cache", property: property(getter(true, cached), setter), expected: false},
		{name: "Nil property", property: nil, expected: false},
	}

	e := meta.New(meta.DefaultConfig(1))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, e.IsCachedProperty(tc.property))
		})
	}
}

func TestIsAbstract(t *testing.T) {
	type testCase struct {
		name     string
		fields   []model.Field
		expected bool
	}

	testCases := []testCase{
		{name: "No fields", fields: nil, expected: true},
		{
			name:     "Public static final tag",
			fields:   []model.Field{{Name: "DATA_STRUCTURE_TYPE", Public: true, Static: true, Final: true}},
			expected: false,
		},
		{
			name:     "Not final",
			fields:   []model.Field{{Name: "DATA_STRUCTURE_TYPE", Public: true, Static: true}},
			expected: true,
		},
		{
			name:     "Not public",
			fields:   []model.Field{{Name: "DATA_STRUCTURE_TYPE", Static: true, Final: true}},
			expected: true,
		},
		{
			name:     "Not static",
			fields:   []model.Field{{Name: "DATA_STRUCTURE_TYPE", Public: true, Final: true}},
			expected: true,
		},
		{
			name:     "Different name",
			fields:   []model.Field{{Name: "DATA_STRUCTURE", Public: true, Static: true, Final: true}},
			expected: true,
		},
		{
			name:     "Case matters",
			fields:   []model.Field{{Name: "data_structure_type", Public: true, Static: true, Final: true}},
			expected: true,
		},
		{
			name: "Among other fields",
			fields: []model.Field{
				{Name: "commandId", Public: false},
				{Name: "DATA_STRUCTURE_TYPE", Public: true, Static: true, Final: true},
			},
			expected: false,
		},
	}

	e := meta.New(meta.DefaultConfig(1))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, e.IsAbstract(&model.Class{Name: "a.B", Fields: tc.fields}))
		})
	}

	t.Run("Inherited tag does not count", func(t *testing.T) {
		base := &model.Class{
			Name:   "a.Base",
			Fields: []model.Field{{Name: "DATA_STRUCTURE_TYPE", Public: true, Static: true, Final: true}},
		}
		child := &model.Class{Name: "a.Child", SuperclassName: "a.Base"}
		_, err := model.NewClassSet([]*model.Class{base, child})
		require.NoError(t, err)

		assert.False(t, e.IsAbstract(base))
		assert.True(t, e.IsAbstract(child))
	})

	t.Run("Nil class", func(t *testing.T) {
		assert.True(t, e.IsAbstract(nil))
	})
}

func TestIsThrowable(t *testing.T) {
	throwable := &model.Class{Name: "java.lang.Throwable"}
	exception := &model.Class{Name: "java.lang.Exception", SuperclassName: "java.lang.Throwable"}
	brokerErr := &model.Class{Name: "org.apache.activemq.openwire.commands.BrokerError", SuperclassName: "java.lang.Exception"}
	external := &model.Class{Name: "x.IOError", SuperclassName: "java.lang.Throwable"}
	plain := &model.Class{Name: "x.Plain"}
	child := &model.Class{Name: "x.Child", SuperclassName: "x.Plain"}

	_, err := model.NewClassSet([]*model.Class{throwable, exception, brokerErr, plain, child})
	require.NoError(t, err)

	type testCase struct {
		name     string
		class    *model.Class
		expected bool
	}

	testCases := []testCase{
		{name: "Root exception type", class: throwable, expected: true},
		{name: "Direct subclass", class: exception, expected: true},
		{name: "Indirect subclass", class: brokerErr, expected: true},
		{name: "Superclass outside the set", class: external, expected: true},
		{name: "No superclass", class: plain, expected: false},
		{name: "Plain hierarchy", class: child, expected: false},
		{name: "Nil class", class: nil, expected: false},
	}

	e := meta.New(meta.DefaultConfig(1))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, e.IsThrowable(tc.class))
		})
	}

	t.Run("Platform exception without descriptor", func(t *testing.T) {
		lone := &model.Class{Name: "org.apache.activemq.openwire.commands.BrokerError", SuperclassName: "java.lang.Exception"}
		_, err := model.NewClassSet([]*model.Class{lone})
		require.NoError(t, err)
		assert.True(t, e.IsThrowable(lone))
	})

	t.Run("Hand linked chain", func(t *testing.T) {
		root := &model.Class{Name: "java.lang.Throwable"}
		mid := &model.Class{Name: "x.Mid", Superclass: root, SuperclassName: root.Name}
		leaf := &model.Class{Name: "x.Leaf", Superclass: mid, SuperclassName: mid.Name}
		assert.True(t, e.IsThrowable(leaf))
	})
}

func TestIsMarshallAware(t *testing.T) {
	type testCase struct {
		name     string
		mode     meta.OutputMode
		class    *model.Class
		expected bool
	}

	aware := &model.Class{
		Name:       "org.apache.activemq.openwire.commands.Message",
		Interfaces: []string{"java.io.Serializable", "org.apache.activemq.command.MarshallAware"},
	}
	activeMQMessage := &model.Class{Name: "org.apache.activemq.openwire.commands.ActiveMQMessage"}
	wireFormatInfo := &model.Class{Name: "org.apache.activemq.openwire.commands.WireFormatInfo"}
	textMessage := &model.Class{Name: "org.apache.activemq.openwire.commands.ActiveMQTextMessage"}

	testCases := []testCase{
		{name: "Native implements interface", mode: meta.ModeNative, class: aware, expected: true},
		{name: "Native name alone is not enough", mode: meta.ModeNative, class: activeMQMessage, expected: false},
		{name: "Native nil class", mode: meta.ModeNative, class: nil, expected: false},
		{name: "Alternate message envelope", mode: meta.ModeAlternate, class: activeMQMessage, expected: true},
		{name: "Alternate wire format info", mode: meta.ModeAlternate, class: wireFormatInfo, expected: true},
		{name: "Alternate ignores interfaces", mode: meta.ModeAlternate, class: aware, expected: false},
		{name: "Alternate subclass name not listed", mode: meta.ModeAlternate, class: textMessage, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := meta.DefaultConfig(1)
			cfg.Mode = tc.mode
			assert.Equal(t, tc.expected, meta.New(cfg).IsMarshallAware(tc.class))
		})
	}
}

func TestOpCode(t *testing.T) {
	type testCase struct {
		name     string
		class    *model.Class
		expected string
	}

	withTag := func(tag string) *model.Class {
		return &model.Class{Name: "a.B", Annotations: model.Annotations{propertyAnnotation(t, tag)}}
	}

	testCases := []testCase{
		{name: "Nil class", class: nil, expected: "0"},
		{name: "Quoted code", class: withTag(`openwire:marshaller code="7"`), expected: "7"},
		{name: "Bare code", class: withTag("openwire:marshaller code=120"), expected: "120"},
		{name: "Annotation without code", class: withTag("openwire:marshaller"), expected: "0"},
		{name: "No annotation", class: &model.Class{Name: "a.B"}, expected: "0"},
		{name: "Code on another annotation", class: withTag("openwire:property code=5"), expected: "0"},
	}

	e := meta.New(meta.DefaultConfig(1))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, e.OpCode(tc.class))
		})
	}
}

func TestParseOutputMode(t *testing.T) {
	m, err := meta.ParseOutputMode("alternate")
	require.NoError(t, err)
	assert.Equal(t, meta.ModeAlternate, m)

	m, err = meta.ParseOutputMode("Native")
	require.NoError(t, err)
	assert.Equal(t, meta.ModeNative, m)

	_, err = meta.ParseOutputMode("csharp")
	assert.Error(t, err)

	m, err = meta.ParseOutputMode(".java")
	require.NoError(t, err)
	assert.Equal(t, meta.ModeNative, m)

	m, err = meta.ParseOutputMode(".cs")
	require.NoError(t, err)
	assert.Equal(t, meta.ModeAlternate, m)

	_, err = meta.ParseOutputMode(".")
	assert.Error(t, err)

	assert.Equal(t, meta.ModeNative, meta.ModeForFileSuffix(".java"))
	assert.Equal(t, meta.ModeAlternate, meta.ModeForFileSuffix(".cs"))
	assert.Equal(t, "alternate", meta.ModeAlternate.String())
}
