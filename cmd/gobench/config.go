package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved project configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFunc(cfgFile)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintf(tw, "benchpath\t%s\n", cfg.Benchpath)
		fmt.Fprintf(tw, "repeat\t%d\n", cfg.Repeat)
		fmt.Fprintf(tw, "number\t%d\n", cfg.Number)
		fmt.Fprintf(tw, "warmups\t%d\n", cfg.Warmups)
		fmt.Fprintf(tw, "garbage_collection\t%t\n", cfg.GarbageCollection)
		fmt.Fprintf(tw, "partition_by\t%s\n", strings.Join(cfg.PartitionBy, ", "))
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
