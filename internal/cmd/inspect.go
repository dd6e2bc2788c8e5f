package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/openwire-go/openwire-gen/internal/codegen/generator"
	"github.com/openwire-go/openwire-gen/internal/codegen/meta"
	"github.com/openwire-go/openwire-gen/internal/codegen/model"
)

// Inspect prints every decision the engine makes about one class.
type Inspect struct {
	Class   string `arg:"" name:"class" help:"Fully qualified or simple class name"`
	Source  string `help:"Command descriptor file or directory (json, yaml or toml)" default:"./descriptors" env:"OPENWIRE_GEN_SOURCE"`
	Version int    `help:"Protocol version to evaluate" default:"12" env:"OPENWIRE_GEN_VERSION"`
	Mode    string `help:"Output mode: native, alternate, or a generated-file suffix such as .java or .cs" default:"native" env:"OPENWIRE_GEN_MODE"`
	NoColor bool   `help:"Disable colored output" env:"NO_COLOR"`
}

func (i *Inspect) Run(logger *slog.Logger) error {
	mode, err := meta.ParseOutputMode(i.Mode)
	if err != nil {
		return err
	}

	gen := generator.New(generator.Options{Source: i.Source, Mode: mode}, logger, nil)
	set, err := gen.Classes()
	if err != nil {
		return err
	}

	class, err := findClass(set, i.Class)
	if err != nil {
		return err
	}

	plan := gen.Engine(i.Version).Analyze(class)

	noColor, width := i.NoColor, 0
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	} else {
		noColor = true
	}

	render(os.Stdout, i.Version, class.Ancestry(), plan, width, noColor)
	return nil
}

func findClass(set *model.ClassSet, name string) (*model.Class, error) {
	if c, ok := set.Lookup(name); ok {
		return c, nil
	}
	return set.LookupSimple(name)
}

// render writes the class summary and its property table. Lines are cut to
// width when width > 0.
func render(w io.Writer, version int, ancestry []string, plan meta.ClassPlan, width int, noColor bool) {
	key := color.New(color.Bold, color.FgCyan)
	yes := color.New(color.FgGreen)
	no := color.New(color.FgHiBlack)
	if noColor {
		key.DisableColor()
		yes.DisableColor()
		no.DisableColor()
	}
	flag := func(b bool) string {
		if b {
			return yes.Sprint("yes")
		}
		return no.Sprint("no")
	}

	summary := [][2]string{
		{"Class", plan.Name},
		{"Version", strconv.Itoa(version)},
		{"Op-code", plan.OpCode},
		{"Abstract", flag(plan.Abstract)},
		{"Throwable", flag(plan.Throwable)},
		{"MarshallAware", flag(plan.MarshallAware)},
		{"Ancestry", strings.Join(ancestry, " > ")},
	}
	for _, kv := range summary {
		line := key.Sprint(padRight(kv[0], 14)) + kv[1]
		_, _ = fmt.Fprintln(w, clip(line, width))
	}
	_, _ = fmt.Fprintln(w)

	if len(plan.Properties) == 0 {
		_, _ = fmt.Fprintln(w, "No wire properties.")
		return
	}

	headers := []string{"PROPERTY", "GETTER", "SETTER", "SINCE", "CACHED", "INCLUDED"}
	rows := make([][]string, 0, len(plan.Properties))
	for _, p := range plan.Properties {
		since := "-"
		if p.HasVersion {
			since = strconv.Itoa(p.Version)
		}
		rows = append(rows, []string{p.Name, p.Getter, p.Setter, since, boolText(p.Cached), boolText(p.Included)})
	}

	widths := make([]int, len(headers))
	for c, h := range headers {
		widths[c] = len(h)
	}
	for _, row := range rows {
		for c, cell := range row {
			widths[c] = max(widths[c], utf8.RuneCountInString(cell))
		}
	}

	var b strings.Builder
	for c, h := range headers {
		b.WriteString(key.Sprint(padRight(h, widths[c])))
		if c < len(headers)-1 {
			b.WriteString("  ")
		}
	}
	_, _ = fmt.Fprintln(w, clip(b.String(), width))

	for r, row := range rows {
		b.Reset()
		for c, cell := range row {
			cell = padRight(cell, widths[c])
			switch {
			case c == len(row)-1 && plan.Properties[r].Included:
				cell = yes.Sprint(cell)
			case c == len(row)-1:
				cell = no.Sprint(cell)
			}
			b.WriteString(cell)
			if c < len(row)-1 {
				b.WriteString("  ")
			}
		}
		_, _ = fmt.Fprintln(w, clip(b.String(), width))
	}
}

func boolText(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// clip cuts plain lines to width runes. Colored lines are left alone since
// escape sequences would be split.
func clip(s string, width int) string {
	if width <= 0 || strings.Contains(s, "\x1b[") || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}
