package cmd

import (
	"context"
	"log/slog"

	"github.com/openwire-go/openwire-gen/internal/codegen/generator"
	"github.com/openwire-go/openwire-gen/internal/codegen/meta"
	"github.com/openwire-go/openwire-gen/internal/log"
)

type Generate struct {
	Source           string `help:"Command descriptor file or directory (json, yaml or toml)" default:"./descriptors" env:"OPENWIRE_GEN_SOURCE"`
	Output           string `help:"Output directory for per-version marshaller manifests" default:"./generated" env:"OPENWIRE_GEN_OUTPUT"`
	From             int    `help:"First protocol version to generate" default:"1" env:"OPENWIRE_GEN_FROM"`
	To               int    `help:"Last protocol version to generate" default:"12" env:"OPENWIRE_GEN_TO"`
	Mode             string `help:"Output mode: native, alternate, or a generated-file suffix such as .java or .cs" default:"native" env:"OPENWIRE_GEN_MODE"`
	Format           string `help:"Manifest format" default:"json" enum:"json,yaml,toml" env:"OPENWIRE_GEN_FORMAT"`
	CommandsPackage  string `help:"Package holding the command classes" default:"org.apache.activemq.openwire.commands" env:"OPENWIRE_GEN_COMMANDS_PACKAGE"`
	CodecPackageRoot string `help:"Root package of the generated codecs" default:"org.apache.activemq.openwire.codec" env:"OPENWIRE_GEN_CODEC_PACKAGE_ROOT"`
}

func (g *Generate) options() (generator.Options, error) {
	mode, err := meta.ParseOutputMode(g.Mode)
	if err != nil {
		return generator.Options{}, err
	}
	return generator.Options{
		Source:           g.Source,
		OutputDir:        g.Output,
		FromVersion:      g.From,
		ToVersion:        g.To,
		Mode:             mode,
		Format:           g.Format,
		CommandsPackage:  g.CommandsPackage,
		CodecPackageRoot: g.CodecPackageRoot,
	}, nil
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger, trace log.TraceLogger) error {
	opts, err := g.options()
	if err != nil {
		return err
	}

	logger.Info("Starting marshaller generation",
		"source", g.Source,
		"output", g.Output,
		"from", g.From,
		"to", g.To,
		"mode", opts.Mode)

	gen := generator.New(opts, logger, trace)
	return gen.GenAll(context.Background())
}
