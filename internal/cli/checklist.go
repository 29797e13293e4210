package cli

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/octobees/presence-audit/internal/entity"
)

// ChecklistFile is the layout of a self-audit answers file (YAML, JSON or
// TOML, chosen by extension).
type ChecklistFile struct {
	Checklist entity.Checklist       `mapstructure:"checklist"`
	Inputs    entity.SelfAuditInputs `mapstructure:"inputs"`
}

// LoadChecklist reads a self-audit answers file.
func LoadChecklist(path string) (*ChecklistFile, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read checklist file: %w", err)
	}

	var file ChecklistFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse checklist file: %w", err)
	}
	return &file, nil
}
