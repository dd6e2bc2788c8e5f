package meta

import (
	"fmt"
	"strings"
)

// OutputMode selects how marshall-awareness is decided.
type OutputMode int

const (
	// ModeNative generates in the source model's own object-oriented form, where
	// interface metadata is available.
	ModeNative OutputMode = iota
	// ModeAlternate covers every other output target.
	ModeAlternate
)

func (m OutputMode) String() string {
	switch m {
	case ModeNative:
		return "native"
	case ModeAlternate:
		return "alternate"
	default:
		return fmt.Sprintf("OutputMode(%d)", int(m))
	}
}

// ParseOutputMode accepts "native", "alternate" or a generated-file suffix
// starting with a dot, such as ".java" or ".cs".
func ParseOutputMode(s string) (OutputMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "native", s == "":
		return ModeNative, nil
	case s == "alternate":
		return ModeAlternate, nil
	case strings.HasPrefix(s, ".") && len(s) > 1:
		return ModeForFileSuffix(s), nil
	default:
		return ModeNative, fmt.Errorf("unknown output mode %q (expected native, alternate or a file suffix such as .java)", s)
	}
}

// ModeForFileSuffix picks the mode from a generated-file suffix: suffixes ending
// in "java" are native, everything else is alternate.
func ModeForFileSuffix(suffix string) OutputMode {
	if strings.HasSuffix(suffix, "java") {
		return ModeNative
	}
	return ModeAlternate
}

const (
	DefaultCommandsPackage  = "org.apache.activemq.openwire.commands"
	DefaultCodecPackageRoot = "org.apache.activemq.openwire.codec"
)

// Config is the per-run configuration. It is copied into an Engine and never
// changed afterwards.
type Config struct {
	Version          int
	Mode             OutputMode
	CommandsPackage  string
	CodecPackageRoot string
}

// DefaultConfig returns a native-mode configuration for the given protocol version.
func DefaultConfig(version int) Config {
	return Config{
		Version:          version,
		Mode:             ModeNative,
		CommandsPackage:  DefaultCommandsPackage,
		CodecPackageRoot: DefaultCodecPackageRoot,
	}
}
