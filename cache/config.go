package cache

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxLevels is the deepest hierarchy supported.
const MaxLevels = 2

// Config holds the geometry of one cache level. Sizes are measured in
// memory words.
type Config struct {
	// Name labels the level in logs, e.g. "L1".
	Name string
	// Size is the total capacity in words, excluding metadata.
	Size int
	// Associativity is the number of blocks per row.
	Associativity int
	// BlockSize is the number of words per block.
	BlockSize int
}

// MaxFieldValue bounds size, associativity, and blocksize. Addresses are
// 16 bits wide, so larger geometries cannot be told apart.
const MaxFieldValue = 1 << 16

// ConfigError reports an unusable cache configuration.
type ConfigError struct {
	Level  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Level == "" {
		return fmt.Sprintf("invalid cache config: %s", e.Reason)
	}
	return fmt.Sprintf("invalid cache config for %s: %s", e.Level, e.Reason)
}

// Rows returns the number of rows, size / (associativity * blocksize).
// It is only meaningful for a validated config.
func (c Config) Rows() int {
	return c.Size / (c.Associativity * c.BlockSize)
}

// Validate checks that every field is positive and that the size divides
// evenly into rows.
func (c Config) Validate() error {
	switch {
	case c.Size <= 0:
		return &ConfigError{Level: c.Name, Reason: "size must be > 0"}
	case c.Associativity <= 0:
		return &ConfigError{Level: c.Name, Reason: "associativity must be > 0"}
	case c.BlockSize <= 0:
		return &ConfigError{Level: c.Name, Reason: "blocksize must be > 0"}
	case c.Size > MaxFieldValue, c.Associativity > MaxFieldValue, c.BlockSize > MaxFieldValue:
		return &ConfigError{
			Level:  c.Name,
			Reason: fmt.Sprintf("size, associativity, and blocksize must be <= %d", MaxFieldValue),
		}
	}

	// Checked before multiplying so the product cannot exceed Size.
	if c.Associativity > c.Size/c.BlockSize || c.Size%(c.Associativity*c.BlockSize) != 0 {
		return &ConfigError{
			Level: c.Name,
			Reason: fmt.Sprintf("size %d is not divisible by associativity %d * blocksize %d",
				c.Size, c.Associativity, c.BlockSize),
		}
	}

	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("%s(size=%d, assoc=%d, blocksize=%d)",
		c.Name, c.Size, c.Associativity, c.BlockSize)
}

// ParseConfig parses "size,assoc,blocksize" for one level or
// "size,assoc,blocksize,size,assoc,blocksize" for two. Levels are named
// L1 and L2. Every returned config has been validated.
func ParseConfig(s string) ([]Config, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 3*MaxLevels {
		return nil, &ConfigError{
			Reason: fmt.Sprintf("expected 3 or 6 comma-separated values, got %d", len(parts)),
		}
	}

	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("value %q is not an integer", p)}
		}
		values[i] = v
	}

	configs := make([]Config, 0, len(values)/3)
	for i := 0; i < len(values); i += 3 {
		c := Config{
			Name:          fmt.Sprintf("L%d", i/3+1),
			Size:          values[i],
			Associativity: values[i+1],
			BlockSize:     values[i+2],
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}

	return configs, nil
}

// FormatConfig renders configs back into the flag syntax.
func FormatConfig(configs []Config) string {
	parts := make([]string, 0, len(configs)*3)
	for _, c := range configs {
		parts = append(parts,
			strconv.Itoa(c.Size),
			strconv.Itoa(c.Associativity),
			strconv.Itoa(c.BlockSize))
	}
	return strings.Join(parts, ",")
}
