package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"db-fanout/internal/dialect"
	"db-fanout/internal/engine"
)

var planTables []string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the statements apply would run, without executing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := dialect.GetDialect(DriverName)
		log.Printf("Using Dialect: %s (%s id plan, %s normalization)\n", d.Name(), d.IDPlan(), d.SplitStrategy())

		targets, err := targetTableConfigs(planTables)
		if err != nil {
			return err
		}

		for _, tc := range targets {
			spec := tc.Spec(SchemaName)
			plan, err := engine.BuildPlan(d, spec)
			if err != nil {
				return err
			}

			fmt.Printf("\n== Table %s (%d steps)\n", spec.Name, len(plan))
			for i, step := range plan {
				fmt.Printf("\n-- [%02d] %s\n", i+1, step.Name)
				for _, stmt := range step.Statements {
					fmt.Printf("%s;\n", stmt)
				}
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(planCmd)

	planCmd.Flags().StringSliceVarP(&planTables, "tables", "t", []string{}, "Specific tables to plan (comma-separated)")
}
