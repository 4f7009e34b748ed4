package config

import "github.com/Dicklesworthstone/maglab/internal/output"

// Diff compares the printed forms of two configs.
func Diff(baseName string, base *Config, otherName string, other *Config) *output.DiffResult {
	return output.ComputeDiff(baseName, base.String(), otherName, other.String())
}
