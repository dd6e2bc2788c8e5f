package scanner

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml"
	"golang.org/x/crypto/blake2b"
	yaml "gopkg.in/yaml.v3"

	"github.com/openwire-go/openwire-gen/internal/codegen/common"
	"github.com/openwire-go/openwire-gen/internal/codegen/model"
)

// ErrUnsupportedFormat is returned for descriptor files that are not JSON, YAML or TOML.
var ErrUnsupportedFormat = errors.New("unsupported descriptor format")

// Descriptors is the result of one scan: every class found plus a fingerprint
// of the raw bytes they were read from.
type Descriptors struct {
	Classes     []*model.Class
	Files       []string
	Fingerprint string // hex BLAKE2b-256 over the files in scan order
}

type document struct {
	Classes []classDoc `json:"classes" yaml:"classes" toml:"classes"`
}

type classDoc struct {
	Name        string        `json:"name" yaml:"name" toml:"name"`
	Superclass  string        `json:"superclass" yaml:"superclass" toml:"superclass"`
	Interfaces  []string      `json:"interfaces" yaml:"interfaces" toml:"interfaces"`
	Annotations []string      `json:"annotations" yaml:"annotations" toml:"annotations"`
	Fields      []fieldDoc    `json:"fields" yaml:"fields" toml:"fields"`
	Properties  []propertyDoc `json:"properties" yaml:"properties" toml:"properties"`
}

type fieldDoc struct {
	Name      string   `json:"name" yaml:"name" toml:"name"`
	Modifiers []string `json:"modifiers" yaml:"modifiers" toml:"modifiers"`
}

type propertyDoc struct {
	Name   string     `json:"name" yaml:"name" toml:"name"`
	Getter *methodDoc `json:"getter" yaml:"getter" toml:"getter"`
	Setter *methodDoc `json:"setter" yaml:"setter" toml:"setter"`
}

type methodDoc struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Static      bool     `json:"static" yaml:"static" toml:"static"`
	Annotations []string `json:"annotations" yaml:"annotations" toml:"annotations"`
}

var knownModifiers = map[string]bool{
	"public":    true,
	"protected": true,
	"private":   true,
	"static":    true,
	"final":     true,
	"transient": true,
	"volatile":  true,
}

// Scan loads descriptors from a single file or from every descriptor file in a directory.
func Scan(path string) (*Descriptors, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return ScanDescriptorsInDir(path)
	}
	return ScanDescriptors(path)
}

// ScanDescriptors loads one descriptor file. The format follows the extension.
func ScanDescriptors(filePath string) (*Descriptors, error) {
	h, _ := blake2b.New256(nil)
	classes, err := scanFile(filePath, h)
	if err != nil {
		return nil, err
	}
	return &Descriptors{
		Classes:     classes,
		Files:       []string{filePath},
		Fingerprint: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// ScanDescriptorsInDir loads every .json, .yaml, .yml and .toml file in dir
// (non-recursively) in lexical order. Other files are ignored.
func ScanDescriptorsInDir(dir string) (*Descriptors, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || common.FormatForPath(entry.Name()) == "" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	h, _ := blake2b.New256(nil)
	out := &Descriptors{Files: files}
	for _, file := range files {
		classes, err := scanFile(file, h)
		if err != nil {
			return nil, err
		}
		out.Classes = append(out.Classes, classes...)
	}
	out.Fingerprint = hex.EncodeToString(h.Sum(nil))
	return out, nil
}

func scanFile(filePath string, h hash.Hash) ([]*model.Class, error) {
	format := common.FormatForPath(filePath)
	if format == "" {
		return nil, fmt.Errorf("%s: %w", filePath, ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	_, _ = h.Write(data)

	var doc document
	switch format {
	case "json":
		err = json.Unmarshal(data, &doc)
	case "yaml":
		err = yaml.Unmarshal(data, &doc)
	case "toml":
		err = toml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}

	classes := make([]*model.Class, 0, len(doc.Classes))
	for i, cd := range doc.Classes {
		c, err := cd.toClass()
		if err != nil {
			return nil, fmt.Errorf("%s: class #%d: %w", filePath, i, err)
		}
		classes = append(classes, c)
	}
	return classes, nil
}

func (cd classDoc) toClass() (*model.Class, error) {
	name := strings.TrimSpace(cd.Name)
	if name == "" {
		return nil, errors.New("missing class name")
	}

	anns, err := parseAnnotations(cd.Annotations)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	c := &model.Class{
		Name:           name,
		SuperclassName: strings.TrimSpace(cd.Superclass),
		Interfaces:     cd.Interfaces,
		Annotations:    anns,
	}

	for _, fd := range cd.Fields {
		f, err := fd.toField()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		c.Fields = append(c.Fields, f)
	}

	for _, pd := range cd.Properties {
		p, err := pd.toProperty()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		c.Properties = append(c.Properties, p)
	}

	return c, nil
}

func (fd fieldDoc) toField() (model.Field, error) {
	f := model.Field{Name: fd.Name}
	if f.Name == "" {
		return f, errors.New("field without a name")
	}
	for _, m := range fd.Modifiers {
		m = strings.ToLower(strings.TrimSpace(m))
		if !knownModifiers[m] {
			return f, fmt.Errorf("field %s: unknown modifier %q", fd.Name, m)
		}
		switch m {
		case "public":
			f.Public = true
		case "static":
			f.Static = true
		case "final":
			f.Final = true
		}
	}
	return f, nil
}

// toProperty converts a property entry. Accessors without an explicit name get
// the conventional get/set name; a missing accessor stays nil.
func (pd propertyDoc) toProperty() (*model.Property, error) {
	if pd.Name == "" {
		return nil, errors.New("property without a name")
	}
	p := &model.Property{Name: pd.Name}

	var err error
	if pd.Getter != nil {
		if p.Getter, err = pd.Getter.toMethod(common.GetterName(pd.Name)); err != nil {
			return nil, fmt.Errorf("property %s getter: %w", pd.Name, err)
		}
	}
	if pd.Setter != nil {
		if p.Setter, err = pd.Setter.toMethod(common.SetterName(pd.Name)); err != nil {
			return nil, fmt.Errorf("property %s setter: %w", pd.Name, err)
		}
	}
	return p, nil
}

func (md methodDoc) toMethod(defaultName string) (*model.Method, error) {
	anns, err := parseAnnotations(md.Annotations)
	if err != nil {
		return nil, err
	}
	name := md.Name
	if name == "" {
		name = defaultName
	}
	return &model.Method{Name: name, Static: md.Static, Annotations: anns}, nil
}

func parseAnnotations(tags []string) (model.Annotations, error) {
	var out model.Annotations
	for _, tag := range tags {
		a, err := model.ParseAnnotation(tag)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
