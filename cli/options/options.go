/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nspcc-dev/binrw/pkg/config"
	gio "github.com/nspcc-dev/binrw/pkg/io"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stdin is used by commands when no input file is given. It can be replaced
// in tests.
var Stdin io.Reader = os.Stdin

// ConfigFile is a flag for commands that use configuration file.
var ConfigFile = cli.StringFlag{
	Name:  "config-file",
	Usage: "path to the configuration file (in-memory DB and default limits are used if not specified)",
}

// Debug is a flag for commands that allow debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (overrides configuration)",
}

// Type is a flag for the type expression describing the data.
var Type = cli.StringFlag{
	Name:  "type, t",
	Usage: "type expression, e.g. 'map[string][]u32' (u8, u16, u32, u64, size, bool, string, bytes, []T, map[K]V, ?T, *T)",
}

// In is a flag for the input file.
var In = cli.StringFlag{
	Name:  "in, i",
	Usage: "input file (stdin if not specified)",
}

// Out is a flag for the output file.
var Out = cli.StringFlag{
	Name:  "out, o",
	Usage: "output file (stdout if not specified)",
}

// Hex is a flag for hex-encoded binary data.
var Hex = cli.BoolFlag{
	Name:  "hex",
	Usage: "use hex encoding for binary data",
}

// GetConfigFromContext loads the configuration file specified in the context
// or returns the default configuration if there is none.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	var configFile = ctx.String("config-file")
	if len(configFile) != 0 {
		return config.LoadFile(configFile)
	}
	return config.Default(), nil
}

// GetInput returns the contents of the file given with the --in flag or the
// whole Stdin.
func GetInput(ctx *cli.Context) ([]byte, error) {
	if path := ctx.String("in"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// GetBinaryInput is similar to GetInput, but hex-decodes the data if the
// --hex flag is set.
func GetBinaryInput(ctx *cli.Context) ([]byte, error) {
	data, err := GetInput(ctx)
	if err != nil || !ctx.Bool("hex") {
		return data, err
	}
	data, err = hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(string(data)), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

// WriteOutput writes data to the file given with the --out flag or to the
// application's Writer.
func WriteOutput(ctx *cli.Context, data []byte) error {
	if path := ctx.String("out"); path != "" {
		if err := gio.MakeDirForFile(path, "output"); err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	}
	_, err := ctx.App.Writer.Write(data)
	return err
}

// HandleLoggingParams reads logging parameters.
// If a user selected debug level -- function enables it.
// If logPath is configured -- function creates a dir and a file for logging.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	if logPath := cfg.LogPath; logPath != "" {
		if err := gio.MakeDirForFile(logPath, "logger"); err != nil {
			return nil, err
		}
		cc.OutputPaths = []string{logPath}
	}

	return cc.Build()
}
