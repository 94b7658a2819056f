package main

import (
	"os"
	"strings"

	"github.com/Alia5/macropad/internal/cmd"
	"github.com/Alia5/macropad/internal/config"
	"github.com/Alia5/macropad/internal/configpaths"
	"github.com/Alia5/macropad/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

// CLI is the root command line.
type CLI struct {
	Config string     `help:"Configuration file (json, yaml or toml)" type:"path" env:"MACROPAD_CONFIG"`
	Log    config.Log `embed:"" prefix:"log."`

	Serve      cmd.Serve         `cmd:"" help:"Run the keypad firmware loop on a command channel (input lines stay released; use sim to press keys)"`
	Sim        cmd.Sim           `cmd:"" help:"Run the keypad in a terminal simulator"`
	Send       cmd.Send          `cmd:"" help:"Send one command to a running keypad"`
	Image      cmd.ImageCommand  `cmd:"" help:"Inspect or reset an EEPROM image"`
	Descriptor cmd.Descriptor    `cmd:"" help:"Print the HID report descriptor"`
	Cfg        cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}

func main() {

	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("macropad"),
		kong.Description("Programmable macro keypad"),
		kong.UsageOnError(),
		// Flags and env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	// serve and send answer on stdout, sim owns the terminal.
	opts := log.Options{Level: cli.Log.Level, File: cli.Log.File, Console: os.Stderr}
	if strings.HasPrefix(ctx.Command(), "sim") && cli.Log.File == "" {
		opts.NoConsole = true
	}
	logger, closeFiles, err := log.SetupLogger(opts)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	var rawLogger log.RawLogger
	if cli.Log.RawFile != "" {
		f, err := os.OpenFile(cli.Log.RawFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open raw log file", "file", cli.Log.RawFile, "error", err)
			rawLogger = log.NewRaw(nil)
		} else {
			rawLogger = log.NewRaw(f)
			closeFiles = append(closeFiles, f)
		}
	} else if cli.Log.Level == "trace" && !opts.NoConsole {
		rawLogger = log.NewRaw(os.Stderr)
	} else {
		rawLogger = log.NewRaw(nil)
	}

	ctx.Bind(logger)
	ctx.BindTo(rawLogger, (*log.RawLogger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("MACROPAD_CONFIG"); v != "" {
		return v
	}
	return ""
}
