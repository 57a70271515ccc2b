package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration values and returns an error describing every
// invalid field at once.
func Validate(cfg Config) error {
	var problems []string

	if cfg.Benchpath == "" {
		problems = append(problems, "benchpath must not be empty")
	}
	if cfg.Repeat <= 0 {
		problems = append(problems, fmt.Sprintf("repeat must be positive, got: %d", cfg.Repeat))
	}
	if cfg.Number <= 0 {
		problems = append(problems, fmt.Sprintf("number must be positive, got: %d", cfg.Number))
	}
	if cfg.Warmups < 0 {
		problems = append(problems, fmt.Sprintf("warmups must not be negative, got: %d", cfg.Warmups))
	}
	for _, key := range cfg.PartitionBy {
		if key == "" {
			problems = append(problems, "partition_by contains an empty key")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
