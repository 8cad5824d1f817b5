package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"db-fanout/internal/schema"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// TableConfig is one entry of the config file's tables list: the parent
// table plus the delimited list columns to normalize.
type TableConfig struct {
	Name   string                  `mapstructure:"name"`
	Schema string                  `mapstructure:"schema"`
	Lists  []schema.ListColumnSpec `mapstructure:"lists"`
}

// Spec converts the config entry into a TableSpec, falling back to the
// connection's default schema when the entry does not name one.
func (tc TableConfig) Spec(defaultSchema string) schema.TableSpec {
	s := tc.Schema
	if s == "" {
		s = defaultSchema
	}
	return schema.TableSpec{Name: tc.Name, Schema: s, Lists: tc.Lists}
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return activeConfig, nil
}

// GetTableConfigs returns the tables list from the config file.
func GetTableConfigs() ([]TableConfig, error) {
	var configs []TableConfig

	if err := viper.UnmarshalKey("tables", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse tables config: %w", err)
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("no tables configured (add a tables: list to the config file)")
	}
	return configs, nil
}
