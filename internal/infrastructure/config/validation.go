package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig runs struct-tag validation over the loaded tree and
// folds every violation into one error, so a misconfigured daemon
// reports all problems at once instead of one per restart.
func ValidateConfig(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	lines := make([]string, 0, len(verrs))
	for _, e := range verrs {
		lines = append(lines, fmt.Sprintf("%s: failed %q (got %v)",
			e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(lines, "\n  "))
}
