package generator

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	toml "github.com/pelletier/go-toml"
	"github.com/samber/lo"
	yaml "gopkg.in/yaml.v3"

	"github.com/openwire-go/openwire-gen/internal/codegen/meta"
)

// Manifest lists the concrete marshallers of one protocol version.
type Manifest struct {
	Tool             string           `json:"tool" yaml:"tool" toml:"tool"`
	ProtocolVersion  int              `json:"protocolVersion" yaml:"protocolVersion" toml:"protocolVersion"`
	Mode             string           `json:"mode" yaml:"mode" toml:"mode"`
	CommandsPackage  string           `json:"commandsPackage" yaml:"commandsPackage" toml:"commandsPackage"`
	CodecPackageRoot string           `json:"codecPackageRoot" yaml:"codecPackageRoot" toml:"codecPackageRoot"`
	Fingerprint      string           `json:"fingerprint" yaml:"fingerprint" toml:"fingerprint"`
	Marshallers      []meta.ClassPlan `json:"marshallers" yaml:"marshallers" toml:"marshallers"`
}

// buildManifest keeps the concrete classes, trims each to its included
// properties and orders them by op-code.
func buildManifest(cfg meta.Config, plans []meta.ClassPlan) *Manifest {
	marshallers := lo.FilterMap(plans, func(p meta.ClassPlan, _ int) (meta.ClassPlan, bool) {
		if p.Abstract {
			return meta.ClassPlan{}, false
		}
		p.Properties = p.IncludedProperties()
		return p, true
	})

	slices.SortStableFunc(marshallers, func(a, b meta.ClassPlan) int {
		if c := cmp.Compare(opCodeOrder(a.OpCode), opCodeOrder(b.OpCode)); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return &Manifest{
		ProtocolVersion:  cfg.Version,
		Mode:             cfg.Mode.String(),
		CommandsPackage:  cfg.CommandsPackage,
		CodecPackageRoot: cfg.CodecPackageRoot,
		Marshallers:      marshallers,
	}
}

// opCodeOrder sorts non-numeric op-codes last.
func opCodeOrder(code string) int {
	n, err := strconv.Atoi(code)
	if err != nil {
		return math.MaxInt
	}
	return n
}

// duplicateOpCodes maps each op-code used by more than one marshaller to the
// class names sharing it.
func duplicateOpCodes(marshallers []meta.ClassPlan) map[string][]string {
	byCode := lo.GroupBy(marshallers, func(p meta.ClassPlan) string {
		return p.OpCode
	})
	dups := map[string][]string{}
	for code, group := range byCode {
		if len(group) < 2 {
			continue
		}
		dups[code] = lo.Map(group, func(p meta.ClassPlan, _ int) string {
			return p.Name
		})
	}
	return dups
}

func encodeManifest(format string, m *Manifest) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "toml":
		return toml.Marshal(*m)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// DecodeManifest reads a manifest previously written in the given format.
func DecodeManifest(format string, data []byte) (*Manifest, error) {
	var m Manifest
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, &m)
	case "yaml":
		err = yaml.Unmarshal(data, &m)
	case "toml":
		err = toml.Unmarshal(data, &m)
	default:
		err = fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
