package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dsn        string
	DB         *sql.DB
	SchemaName string // current database (mysql) or schema (postgres/mssql); unused for oracle
	cfgFile    string
	DriverName string // "mysql", "postgres", "sqlserver" or "oracle"
)

var RootCmd = &cobra.Command{
	Use:   "db-fanout",
	Short: "Surrogate id and list-column normalization for uploaded tables",
	Long: `
  ____  ____    _____ _    _   _  ___  _   _ _____
 |  _ \| __ )  |  ___/ \  | \ | |/ _ \| | | |_   _|
 | | | |  _ \  | |_ / _ \ |  \| | | | | | | | | |
 | |_| | |_) | |  _/ ___ \| |\  | |_| | |_| | | |
 |____/|____/  |_|/_/   \_\_| \_|\___/ \___/  |_|

DB FANOUT - retrofits a surrogate id onto a table and installs the
triggers that fan its delimited list columns out into child tables.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Use Viper to get DSN (Flag > Config > Default); fall back to
		// the active entry of the databases list.
		connStr := viper.GetString("database.dsn")
		configDriver := viper.GetString("database.driver")
		if connStr == "" {
			active, err := GetActiveDBConfig()
			if err != nil {
				return fmt.Errorf("database.dsn is required (via flag, config, or an active databases entry): %w", err)
			}
			connStr = active.DSN
			if configDriver == "" {
				configDriver = active.Driver
			}
		}

		// Explicit driver from config wins; otherwise guess from the DSN shape.
		if configDriver != "" {
			DriverName = configDriver
		} else {
			switch {
			case strings.HasPrefix(connStr, "oracle://"):
				DriverName = "oracle"
			case strings.HasPrefix(connStr, "sqlserver://"), strings.Contains(connStr, "database="):
				DriverName = "sqlserver"
			case strings.Contains(connStr, "postgres"), strings.Contains(connStr, "sslmode"):
				DriverName = "postgres"
			default:
				DriverName = "mysql"
			}
		}

		var err error
		DB, err = sql.Open(DriverName, connStr)
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		if err := DB.Ping(); err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}

		// Default schema for catalog lookups
		switch DriverName {
		case "mysql":
			if err := DB.QueryRow("SELECT DATABASE()").Scan(&SchemaName); err != nil {
				return fmt.Errorf("failed to get database name: %w", err)
			}
			if SchemaName == "" {
				return fmt.Errorf("no database selected in DSN")
			}
		case "sqlserver", "mssql":
			SchemaName = "dbo"
		case "oracle":
			SchemaName = "" // USER_* catalog views, no schema argument
		default:
			SchemaName = "public"
		}

		return nil
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-fanout.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN)")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			exePath := filepath.Dir(ex)
			viper.AddConfigPath(exePath)
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-fanout")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
