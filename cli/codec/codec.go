package codec

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/nspcc-dev/binrw/cli/options"
	"github.com/nspcc-dev/binrw/pkg/schema"
	"github.com/urfave/cli"
)

var errNoType = errors.New("no type specified, use '--type' or '-t' option")

// NewCommands returns data conversion commands.
func NewCommands() []cli.Command {
	return []cli.Command{
		{
			Name:      "encode",
			Usage:     "Encode YAML value into binary form",
			UsageText: "binrw encode --type <type> [--in <file.yaml>] [--out <file>] [--hex]",
			Description: `Reads the YAML value of the given type and outputs its binary encoding.
   Integers can be given in decimal, hex (0x) or octal (0o) form, byte
   slices are hex strings, absent optional values are 'null'.
`,
			Action: encode,
			Flags:  []cli.Flag{options.Type, options.In, options.Out, options.Hex},
		},
		{
			Name:      "decode",
			Usage:     "Decode binary data into YAML",
			UsageText: "binrw decode --type <type> [--in <file>] [--out <file.yaml>] [--hex] [--config-file <file>]",
			Description: `Reads the binary encoding of the value of the given type and outputs it
   as YAML. The whole input must be consumed by decoding. Sizes of sequences
   are limited by MaxArraySize from the configuration.
`,
			Action: decode,
			Flags:  []cli.Flag{options.Type, options.In, options.Out, options.Hex, options.ConfigFile},
		},
		{
			Name:      "size",
			Usage:     "Print the size of the binary encoding of YAML value",
			UsageText: "binrw size --type <type> [--in <file.yaml>]",
			Action:    size,
			Flags:     []cli.Flag{options.Type, options.In},
		},
	}
}

// GetType parses the type expression given with the --type flag.
func GetType(ctx *cli.Context) (*schema.Type, error) {
	expr := ctx.String("type")
	if expr == "" {
		return nil, errNoType
	}
	return schema.Parse(expr)
}

func readValue(ctx *cli.Context) (*schema.Type, any, error) {
	typ, err := GetType(ctx)
	if err != nil {
		return nil, nil, err
	}
	data, err := options.GetInput(ctx)
	if err != nil {
		return nil, nil, err
	}
	v, err := typ.ParseYAML(data)
	if err != nil {
		return nil, nil, err
	}
	return typ, v, nil
}

func encode(ctx *cli.Context) error {
	typ, v, err := readValue(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	data, err := typ.Marshal(v)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to encode %s: %w", typ, err), 1)
	}
	if ctx.Bool("hex") {
		data = []byte(hex.EncodeToString(data) + "\n")
	}
	if err := options.WriteOutput(ctx, data); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func decode(ctx *cli.Context) error {
	typ, err := GetType(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	data, err := options.GetBinaryInput(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	v, err := typ.Unmarshal(data, cfg.ApplicationConfiguration.MaxArraySize)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to decode %s: %w", typ, err), 1)
	}
	out, err := typ.FormatYAML(v)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := options.WriteOutput(ctx, out); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func size(ctx *cli.Context) error {
	typ, v, err := readValue(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	n, err := typ.EncodedSize(v)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to encode %s: %w", typ, err), 1)
	}
	fmt.Fprintln(ctx.App.Writer, n)
	return nil
}
