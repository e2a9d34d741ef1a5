package config

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/binrw/pkg/storage/dbconfig"
	"go.uber.org/zap/zapcore"
)

// ApplicationConfiguration config specific to the tool.
type ApplicationConfiguration struct {
	LogLevel string `yaml:"LogLevel"`
	LogPath  string `yaml:"LogPath"`
	// MaxArraySize limits length prefixes of decoded sequences, strings
	// and byte slices.
	MaxArraySize    int                      `yaml:"MaxArraySize"`
	CacheSize       int                      `yaml:"CacheSize"`
	DBConfiguration dbconfig.DBConfiguration `yaml:"DBConfiguration"`
}

// Validate checks ApplicationConfiguration for internal consistency and returns
// an error if any invalid settings are found.
func (a *ApplicationConfiguration) Validate() error {
	if a.LogLevel != "" {
		if _, err := zapcore.ParseLevel(a.LogLevel); err != nil {
			return fmt.Errorf("invalid LogLevel: %w", err)
		}
	}
	if a.MaxArraySize <= 0 {
		return fmt.Errorf("MaxArraySize must be positive, got %d", a.MaxArraySize)
	}
	if a.CacheSize < 0 {
		return fmt.Errorf("CacheSize can't be negative, got %d", a.CacheSize)
	}
	switch a.DBConfiguration.Type {
	case dbconfig.InMemoryDB:
	case dbconfig.LevelDB:
		if a.DBConfiguration.LevelDBOptions.DataDirectoryPath == "" {
			return errors.New("LevelDBOptions.DataDirectoryPath is required for leveldb")
		}
	case dbconfig.BoltDB:
		if a.DBConfiguration.BoltDBOptions.FilePath == "" {
			return errors.New("BoltDBOptions.FilePath is required for boltdb")
		}
	default:
		return fmt.Errorf("unknown DB type: %q", a.DBConfiguration.Type)
	}
	return nil
}
