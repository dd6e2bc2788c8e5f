package config

import "github.com/openwire-go/openwire-gen/internal/cmd"

type LogConfig struct {
	Level     string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error" env:"OPENWIRE_GEN_LOG_LEVEL"`
	File      string `help:"Also write logs to this file" env:"OPENWIRE_GEN_LOG_FILE"`
	TraceFile string `name:"trace-file" help:"Write one line per engine decision to this file" env:"OPENWIRE_GEN_LOG_TRACE_FILE"`
}

// CLI is the root command tree.
type CLI struct {
	ConfigFile string    `name:"config" help:"Path to a json, yaml or toml config file" env:"OPENWIRE_GEN_CONFIG" type:"path"`
	Log        LogConfig `embed:"" prefix:"log."`

	Generate cmd.Generate      `cmd:"" help:"Generate marshaller manifests for a range of protocol versions"`
	Inspect  cmd.Inspect       `cmd:"" help:"Show every generation decision for one command class"`
	Config   cmd.ConfigCommand `cmd:"" help:"Configuration helpers"`
}
