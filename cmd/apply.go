package cmd

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"db-fanout/internal/dialect"
	"db-fanout/internal/engine"
	"db-fanout/internal/schema"
)

var applyTables []string

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply surrogate id and normalization objects to the configured tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := dialect.GetDialect(DriverName)
		log.Printf("Using Dialect: %s (%s id plan, %s normalization)\n", d.Name(), d.IDPlan(), d.SplitStrategy())

		targets, err := targetTableConfigs(applyTables)
		if err != nil {
			return err
		}

		// Build every plan up front: identifier validation failures are
		// fatal and must abort before any statement runs anywhere.
		var specs []schema.TableSpec
		total := 0
		for _, tc := range targets {
			spec := tc.Spec(SchemaName)
			plan, err := engine.BuildPlan(d, spec)
			if err != nil {
				return err
			}
			total += len(plan)
			specs = append(specs, spec)
		}

		log.Printf("Applying %d steps across %d table(s)...", total, len(specs))
		start := time.Now()

		uiprogress.Start()
		bar := uiprogress.AddBar(total).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Applying: "
		})

		var results []*schema.ApplyResult
		for _, spec := range specs {
			res, err := engine.Apply(DB, d, spec, func() {
				bar.Incr()
			})
			if err != nil {
				// The plan for this table is partially applied and safe
				// to retry; keep going with the remaining tables.
				log.Printf("Warning: apply failed for %s: %v (continuing...)\n", spec.Name, err)
			}
			if res != nil {
				results = append(results, res)
			}
		}
		uiprogress.Stop()

		elapsed := time.Since(start)

		fmt.Println("\nSummary Report:")
		for i, r := range results {
			icon := "✓"
			if r.Status != "OK" {
				icon = "!"
			}
			fmt.Printf("[%s] [%02d/%02d] %-20s : %d steps applied, %d skipped (already present) - %s\n",
				icon, i+1, len(results), r.TableName, len(r.Executed), len(r.Skipped), r.Status)
			if r.FailedStep != "" {
				fmt.Printf("    └ Failed step: %s (%s) - re-run apply to resume\n", r.FailedStep, r.ErrorMsg)
			}
		}
		fmt.Println("--------------------------------------------------")
		log.Printf("Apply Done! Time Elapsed: %s", elapsed)

		return nil
	},
}

func init() {
	RootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringSliceVarP(&applyTables, "tables", "t", []string{}, "Specific tables to apply (comma-separated)")
}

// targetTableConfigs filters the configured tables by the --tables flag;
// an empty filter selects everything.
func targetTableConfigs(filter []string) ([]TableConfig, error) {
	configs, err := GetTableConfigs()
	if err != nil {
		return nil, err
	}
	if len(filter) == 0 {
		return configs, nil
	}

	requested := make(map[string]bool)
	for _, t := range filter {
		requested[strings.ToLower(t)] = true
	}

	var targets []TableConfig
	for _, tc := range configs {
		if requested[strings.ToLower(tc.Name)] {
			targets = append(targets, tc)
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no matching tables found for inputs: %v", filter)
	}
	return targets, nil
}
