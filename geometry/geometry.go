// Package geometry describes the cache the workload primes.
package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/bits"
	"os"
)

// ErrInvalidGeometry is returned when a Config cannot describe a cache.
var ErrInvalidGeometry = errors.New("invalid cache geometry")

// Config holds the cache geometry. It must match the cache the simulator is
// configured with (for gem5: --l1d_size, --l1d_assoc, --cacheline_size).
type Config struct {
	// Size is the total capacity in bytes.
	Size int `json:"size"`

	// Associativity is the number of ways. It only affects the prediction
	// model; the workload itself touches every line regardless.
	Associativity int `json:"associativity"`

	// LineSize is the cache line size in bytes.
	LineSize int `json:"line_size"`
}

// Default returns the reference geometry: a 16KB direct-mapped cache with
// 64-byte lines, 256 lines in total.
func Default() Config {
	return Config{
		Size:          16 * 1024,
		Associativity: 1,
		LineSize:      64,
	}
}

// New builds a direct-mapped geometry and validates it.
func New(size, lineSize int) (Config, error) {
	c := Config{Size: size, Associativity: 1, LineSize: lineSize}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// LineCount returns the number of cache lines, Size / LineSize. LineSize must
// be non-zero; call Validate first on untrusted input.
func (c Config) LineCount() int {
	return c.Size / c.LineSize
}

// NumSets returns the number of sets. LineSize and Associativity must be
// non-zero.
func (c Config) NumSets() int {
	return c.LineCount() / c.Associativity
}

// Validate checks that the geometry describes whole lines in whole sets and
// that the capacity can serve as an alignment.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be > 0, got %d", ErrInvalidGeometry, c.Size)
	}
	if c.LineSize <= 0 {
		return fmt.Errorf("%w: line size must be > 0, got %d",
			ErrInvalidGeometry, c.LineSize)
	}
	if bits.OnesCount(uint(c.LineSize)) != 1 {
		return fmt.Errorf("%w: line size must be a power of two, got %d",
			ErrInvalidGeometry, c.LineSize)
	}
	if c.Size%c.LineSize != 0 {
		return fmt.Errorf("%w: size %d is not a multiple of line size %d",
			ErrInvalidGeometry, c.Size, c.LineSize)
	}
	if bits.OnesCount(uint(c.Size)) != 1 {
		return fmt.Errorf("%w: size must be a power of two, got %d",
			ErrInvalidGeometry, c.Size)
	}
	if c.Associativity <= 0 {
		return fmt.Errorf("%w: associativity must be > 0, got %d",
			ErrInvalidGeometry, c.Associativity)
	}
	if c.LineCount()%c.Associativity != 0 {
		return fmt.Errorf("%w: %d lines do not split into %d ways",
			ErrInvalidGeometry, c.LineCount(), c.Associativity)
	}

	return nil
}

// String formats the geometry the way gem5 command lines spell it. Derived
// counts are omitted when the geometry cannot produce them.
func (c Config) String() string {
	if c.LineSize <= 0 || c.Associativity <= 0 {
		return fmt.Sprintf("%dB/%d-way/%dB lines (invalid)",
			c.Size, c.Associativity, c.LineSize)
	}
	return fmt.Sprintf("%dB/%d-way/%dB lines (%d lines, %d sets)",
		c.Size, c.Associativity, c.LineSize, c.LineCount(), c.NumSets())
}

// Load reads a Config from a JSON file. Keys missing from the file keep
// their Default values. The result is not validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read geometry file: %w", err)
	}

	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse geometry file: %w", err)
	}

	return c, nil
}

// Save writes the Config to a JSON file.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize geometry: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write geometry file: %w", err)
	}

	return nil
}
