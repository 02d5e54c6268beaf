package geometry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override the geometry.
const (
	EnvSize          = "CACHEPRIME_SIZE"
	EnvAssociativity = "CACHEPRIME_ASSOC"
	EnvLineSize      = "CACHEPRIME_LINE_SIZE"
)

// LoadEnvFile loads variables from a dotenv file into the process
// environment without overwriting variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}

	return nil
}

// FromEnv returns base with any CACHEPRIME_* variables applied.
func FromEnv(base Config) (Config, error) {
	return fromLookup(base, os.LookupEnv)
}

func fromLookup(
	base Config,
	lookup func(string) (string, bool),
) (Config, error) {
	fields := []struct {
		name string
		dst  *int
	}{
		{EnvSize, &base.Size},
		{EnvAssociativity, &base.Associativity},
		{EnvLineSize, &base.LineSize},
	}

	for _, f := range fields {
		raw, ok := lookup(f.name)
		if !ok || raw == "" {
			continue
		}

		v, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q is not an integer",
				ErrInvalidGeometry, f.name, raw)
		}
		*f.dst = v
	}

	return base, nil
}

// Resolve layers the configuration sources: Default, then the JSON file at
// path (skipped when path is empty), then CACHEPRIME_* variables. The result
// is not validated; command-line flags are applied on top by the caller.
func Resolve(path string) (Config, error) {
	c := Default()
	if path != "" {
		var err error
		if c, err = Load(path); err != nil {
			return Config{}, err
		}
	}

	return FromEnv(c)
}
