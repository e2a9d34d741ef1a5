package db

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/binrw/cli/codec"
	"github.com/nspcc-dev/binrw/cli/options"
	"github.com/nspcc-dev/binrw/pkg/config"
	"github.com/nspcc-dev/binrw/pkg/schema"
	"github.com/nspcc-dev/binrw/pkg/storage"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// recordPrefix is prepended to all the record keys in the store.
var recordPrefix = []byte("rec:")

var errNoKey = errors.New("no key specified, use '--key' or '-k' option")

var keyFlag = cli.StringFlag{
	Name:  "key, k",
	Usage: "record key",
}

// NewCommands returns 'db' command.
func NewCommands() []cli.Command {
	dbFlags := []cli.Flag{options.ConfigFile, options.Debug}
	return []cli.Command{
		{
			Name:  "db",
			Usage: "Store typed records in the configured database",
			Subcommands: []cli.Command{
				{
					Name:      "put",
					Usage:     "Encode YAML value and store it under the given key",
					UsageText: "binrw db put --key <key> --type <type> [--in <file.yaml>] [--config-file <file>] [--debug]",
					Action:    put,
					Flags:     append([]cli.Flag{keyFlag, options.Type, options.In}, dbFlags...),
				},
				{
					Name:      "get",
					Usage:     "Print the record stored under the given key as YAML",
					UsageText: "binrw db get --key <key> [--config-file <file>] [--debug]",
					Action:    get,
					Flags:     append([]cli.Flag{keyFlag}, dbFlags...),
				},
				{
					Name:      "delete",
					Usage:     "Delete the record stored under the given key",
					UsageText: "binrw db delete --key <key> [--config-file <file>] [--debug]",
					Action:    del,
					Flags:     append([]cli.Flag{keyFlag}, dbFlags...),
				},
				{
					Name:      "list",
					Usage:     "Print all records (with the given key prefix) as YAML",
					UsageText: "binrw db list [--prefix <prefix>] [--config-file <file>] [--debug]",
					Action:    list,
					Flags: append([]cli.Flag{cli.StringFlag{
						Name:  "prefix, p",
						Usage: "key prefix",
					}}, dbFlags...),
				},
			},
		},
	}
}

type records struct {
	cfg   config.ApplicationConfiguration
	log   *zap.Logger
	store storage.Store
	coll  *storage.Collection[schema.Record, *schema.Record]
}

func openRecords(ctx *cli.Context) (*records, error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return nil, err
	}
	appCfg := cfg.ApplicationConfiguration
	log, err := options.HandleLoggingParams(ctx.Bool("debug"), appCfg)
	if err != nil {
		return nil, err
	}
	store, err := storage.NewStore(appCfg.DBConfiguration)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("could not open store: %w", err)
	}
	log.Debug("store opened", zap.String("type", appCfg.DBConfiguration.Type))
	coll := storage.NewCollection[schema.Record](store, recordPrefix, appCfg.CacheSize, log)
	coll.SetMaxSize(appCfg.MaxArraySize)
	return &records{
		cfg:   appCfg,
		log:   log,
		store: store,
		coll:  coll,
	}, nil
}

func (r *records) Close() {
	if err := r.store.Close(); err != nil {
		r.log.Error("failed to close store", zap.Error(err))
	}
	_ = r.log.Sync()
}

// check validates the record data against its type.
func (r *records) check(key string, rec schema.Record) error {
	if _, err := rec.Value(r.cfg.MaxArraySize); err != nil {
		return fmt.Errorf("record %q: %w", key, err)
	}
	return nil
}

func getKey(ctx *cli.Context) (string, error) {
	key := ctx.String("key")
	if key == "" {
		return "", errNoKey
	}
	return key, nil
}

func put(ctx *cli.Context) error {
	key, err := getKey(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	typ, err := codec.GetType(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	data, err := options.GetInput(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	v, err := typ.ParseYAML(data)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	r, err := openRecords(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer r.Close()
	rec, err := schema.NewRecord(typ, v, r.cfg.MaxArraySize)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to encode %s: %w", typ, err), 1)
	}
	if err := r.coll.Put([]byte(key), rec); err != nil {
		return cli.NewExitError(err, 1)
	}
	r.log.Info("record stored", zap.String("key", key), zap.Stringer("type", typ), zap.Int("size", len(rec.Data)))
	return nil
}

func get(ctx *cli.Context) error {
	key, err := getKey(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	r, err := openRecords(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer r.Close()

	rec, err := r.coll.Get([]byte(key))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to get %q: %w", key, err), 1)
	}
	if err := r.check(key, rec); err != nil {
		return cli.NewExitError(err, 1)
	}
	out, err := yaml.Marshal(rec)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	_, _ = ctx.App.Writer.Write(out)
	return nil
}

func del(ctx *cli.Context) error {
	key, err := getKey(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	r, err := openRecords(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer r.Close()

	if _, err := r.coll.Get([]byte(key)); err != nil {
		return cli.NewExitError(fmt.Errorf("failed to get %q: %w", key, err), 1)
	}
	if err := r.coll.Delete([]byte(key)); err != nil {
		return cli.NewExitError(err, 1)
	}
	r.log.Info("record deleted", zap.String("key", key))
	return nil
}

func list(ctx *cli.Context) error {
	r, err := openRecords(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer r.Close()

	var (
		res  = make(map[string]schema.Record)
		errs []error
	)
	err = r.coll.ForEach([]byte(ctx.String("prefix")), func(k []byte, rec schema.Record) bool {
		key := string(k)
		if err := r.check(key, rec); err != nil {
			errs = append(errs, err)
			return true
		}
		res[key] = rec
		return true
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if len(res) != 0 {
		out, err := yaml.Marshal(res)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		_, _ = ctx.App.Writer.Write(out)
	}
	if len(errs) != 0 {
		return cli.NewExitError(errors.Join(errs...), 1)
	}
	return nil
}
