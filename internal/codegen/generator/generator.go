package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/samber/lo"

	"github.com/openwire-go/openwire-gen/internal/codegen/common"
	"github.com/openwire-go/openwire-gen/internal/codegen/meta"
	"github.com/openwire-go/openwire-gen/internal/codegen/model"
	"github.com/openwire-go/openwire-gen/internal/codegen/scanner"
	"github.com/openwire-go/openwire-gen/internal/log"
)

// Options configures one generation run.
type Options struct {
	Source           string // descriptor file or directory
	OutputDir        string
	FromVersion      int
	ToVersion        int
	Mode             meta.OutputMode
	Format           string // json, yaml or toml
	CommandsPackage  string
	CodecPackageRoot string
}

type Generator struct {
	opts   Options
	logger *slog.Logger
	trace  log.TraceLogger

	classes     *model.ClassSet
	fingerprint string
}

func New(opts Options, logger *slog.Logger, trace log.TraceLogger) *Generator {
	if trace == nil {
		trace = log.NewTrace(nil)
	}
	if opts.CommandsPackage == "" {
		opts.CommandsPackage = meta.DefaultCommandsPackage
	}
	if opts.CodecPackageRoot == "" {
		opts.CodecPackageRoot = meta.DefaultCodecPackageRoot
	}
	return &Generator{
		opts:   opts,
		logger: logger,
		trace:  trace,
	}
}

// Scan loads the descriptors and links the class hierarchy.
func (g *Generator) Scan() error {
	if g.opts.Source == "" {
		return errors.New("no descriptor source configured")
	}

	g.logger.Info("Scanning command descriptors", "source", g.opts.Source)
	d, err := scanner.Scan(g.opts.Source)
	if err != nil {
		return fmt.Errorf("failed to scan descriptors: %w", err)
	}

	set, err := model.NewClassSet(d.Classes)
	if err != nil {
		return fmt.Errorf("failed to link class hierarchy: %w", err)
	}

	for _, c := range set.Classes() {
		g.logger.Debug("Loaded class",
			"class", c.Name,
			"superclass", c.SuperclassName,
			"annotations", lo.Map(c.Annotations, func(a *model.Annotation, _ int) string { return a.Tag() }))
	}

	unresolved := set.Unresolved()
	for _, name := range slices.Sorted(maps.Keys(unresolved)) {
		g.logger.Warn("Superclass chain ends at an unknown class", "class", name, "superclass", unresolved[name])
	}

	g.classes = set
	g.fingerprint = d.Fingerprint
	g.logger.Info("Found command classes", "count", set.Len(), "files", len(d.Files))
	return nil
}

// Classes returns the scanned class set, scanning first if needed.
func (g *Generator) Classes() (*model.ClassSet, error) {
	if g.classes == nil {
		if err := g.Scan(); err != nil {
			return nil, err
		}
	}
	return g.classes, nil
}

// Engine builds the decision engine for one protocol version.
func (g *Generator) Engine(version int) *meta.Engine {
	return meta.New(meta.Config{
		Version:          version,
		Mode:             g.opts.Mode,
		CommandsPackage:  g.opts.CommandsPackage,
		CodecPackageRoot: g.opts.CodecPackageRoot,
	})
}

func (g *Generator) GenAll(ctx context.Context) error {
	if g.opts.FromVersion < 0 || g.opts.ToVersion < g.opts.FromVersion {
		return fmt.Errorf("invalid version range %d..%d", g.opts.FromVersion, g.opts.ToVersion)
	}
	for v := g.opts.FromVersion; v <= g.opts.ToVersion; v++ {
		if _, err := g.GenerateVersion(ctx, v); err != nil {
			return fmt.Errorf("generate version %d: %w", v, err)
		}
	}
	return nil
}

// GenerateVersion writes the marshaller manifest for one protocol version and
// returns its path.
func (g *Generator) GenerateVersion(ctx context.Context, version int) (string, error) {
	format := common.NormalizeFormat(g.opts.Format)
	if format == "" {
		return "", fmt.Errorf("unsupported manifest format '%s' (supported: json, yaml, toml)", g.opts.Format)
	}

	g.logger.Info("Generating marshaller manifest", "version", version)

	m, err := g.Plan(ctx, version)
	if err != nil {
		return "", err
	}

	data, err := encodeManifest(format, m)
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}

	outputPath := filepath.Join(g.opts.OutputDir, fmt.Sprintf("v%d", version))
	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputPath, err)
	}
	file := filepath.Join(outputPath, "marshallers."+format)
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", file, err)
	}

	g.logger.Info("Marshaller manifest complete", "version", version, "marshallers", len(m.Marshallers), "output", file)
	return file, nil
}

// Plan analyzes every class at the given version and assembles the manifest.
func (g *Generator) Plan(ctx context.Context, version int) (*Manifest, error) {
	set, err := g.Classes()
	if err != nil {
		return nil, err
	}

	engine := g.Engine(version)
	plans, err := engine.AnalyzeAll(ctx, set.Classes())
	if err != nil {
		return nil, fmt.Errorf("analyze classes: %w", err)
	}

	for _, p := range plans {
		g.trace.Log(version, p.Name, summarize(p))
		g.logger.Log(ctx, log.LevelTrace, "Analyzed class",
			"version", version,
			"class", p.Name,
			"abstract", p.Abstract,
			"opcode", p.OpCode)
	}

	tool, err := common.GetVersion()
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}

	m := buildManifest(engine.Config(), plans)
	m.Tool = tool
	m.Fingerprint = g.fingerprint

	for code, names := range duplicateOpCodes(m.Marshallers) {
		g.logger.Warn("Op-code shared by several commands", "version", version, "opcode", code, "classes", names)
	}
	return m, nil
}

func summarize(p meta.ClassPlan) string {
	return fmt.Sprintf("opcode=%s abstract=%t throwable=%t marshallAware=%t properties=%d/%d cached=%d",
		p.OpCode, p.Abstract, p.Throwable, p.MarshallAware,
		len(p.IncludedProperties()), len(p.Properties), len(p.CachedProperties()))
}
