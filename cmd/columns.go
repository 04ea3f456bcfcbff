package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/npidgeon/Heatmap/internal/boundary"
)

var columnsCmd = &cobra.Command{
	Use:   "columns <shapefile.shp>",
	Short: "List a shapefile's column names",
	Long: `Prints the attribute columns of a shapefile plus the first record's
values, for validating lat/long column configuration before a render run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		info, err := boundary.Inspect(args[0])
		if err != nil {
			return err
		}

		fmt.Println("Available columns:")
		for _, name := range info.Fields {
			fmt.Printf("  %s\n", name)
		}

		if len(info.FirstRow) > 0 {
			fmt.Println("\nFirst record:")
			for i, name := range info.Fields {
				if i < len(info.FirstRow) {
					fmt.Printf("  %s = %s\n", name, info.FirstRow[i])
				}
			}
		}

		return nil
	},
}

func init() { rootCmd.AddCommand(columnsCmd) }
