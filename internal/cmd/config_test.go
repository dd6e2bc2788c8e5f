package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func TestConfigKey(t *testing.T) {
	type sample struct {
		Source          string
		CommandsPackage string
		NoColor         bool
		TraceFile       string `name:"trace-file"`
		HTTPPort        int
	}

	expected := []string{"source", "commands_package", "no_color", "trace_file", "http_port"}
	typ := reflect.TypeOf(sample{})
	for i, want := range expected {
		assert.Equal(t, want, configKey(typ.Field(i)))
	}
}

func TestBuildMapFromGenerate(t *testing.T) {
	m := buildMapFromStruct(reflect.TypeOf(Generate{}))

	assert.Equal(t, "./descriptors", m["source"])
	assert.Equal(t, int64(1), m["from"])
	assert.Equal(t, int64(12), m["to"])
	assert.Equal(t, "native", m["mode"])
	assert.Equal(t, "org.apache.activemq.openwire.commands", m["commands_package"])
	assert.Equal(t, "org.apache.activemq.openwire.codec", m["codec_package_root"])
}

func TestBuildMapSkipsPositionalArgs(t *testing.T) {
	m := buildMapFromStruct(reflect.TypeOf(Inspect{}))

	assert.NotContains(t, m, "class")
	assert.Equal(t, int64(12), m["version"])
	assert.Equal(t, false, m["no_color"])
}

func TestBuildMapSkipsUnsupportedKinds(t *testing.T) {
	type sample struct {
		Name    string  `default:"x"`
		Ratio   float64 `default:"0.5"`
		Hidden  string  `kong:"-"`
		Retries int
	}

	m := buildMapFromStruct(reflect.TypeOf(sample{}))
	assert.Equal(t, map[string]any{"name": "x", "retries": int64(0)}, m)
}

func TestConfigInit(t *testing.T) {
	type testCase struct {
		name    string
		command string
		format  string
	}

	testCases := []testCase{
		{name: "Generate JSON", command: "generate", format: "json"},
		{name: "Generate YAML", command: "generate", format: "yaml"},
		{name: "Inspect TOML", command: "inspect", format: "toml"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "nested", tc.command+"."+tc.format)
			c := &ConfigInit{Command: tc.command, Format: tc.format, Output: dest}
			require.NoError(t, c.Run())

			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			assert.Contains(t, string(data), "source")

			err = c.Run()
			assert.ErrorContains(t, err, "destination exists")

			c.Force = true
			assert.NoError(t, c.Run())
		})
	}

	t.Run("Decodes back", func(t *testing.T) {
		dir := t.TempDir()
		jsonDest := filepath.Join(dir, "generate.json")
		require.NoError(t, (&ConfigInit{Command: "generate", Format: "json", Output: jsonDest}).Run())
		yamlDest := filepath.Join(dir, "generate.yaml")
		require.NoError(t, (&ConfigInit{Command: "generate", Format: "yml", Output: yamlDest}).Run())

		var fromJSON, fromYAML map[string]any
		data, err := os.ReadFile(jsonDest)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &fromJSON))
		data, err = os.ReadFile(yamlDest)
		require.NoError(t, err)
		require.NoError(t, yaml.Unmarshal(data, &fromYAML))

		assert.Equal(t, fromJSON["output"], fromYAML["output"])
		assert.Equal(t, "./generated", fromYAML["output"])
	})

	t.Run("Unknown format", func(t *testing.T) {
		err := (&ConfigInit{Command: "generate", Format: "ini"}).Run()
		assert.ErrorContains(t, err, "unsupported format")
	})
}
