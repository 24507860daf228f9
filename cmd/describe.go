package cmd

import (
	"fmt"

	"github.com/KaramelBytes/premiumlens/internal/utils"
	"github.com/spf13/cobra"
)

var descOutputPath string

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarize the dataset as markdown",
	Long: `Prints per-column statistics for the loaded dataset: counts, missing values,
numeric min/max/mean/std/median with MAD outliers, and top categories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable()
		if err != nil {
			return err
		}
		sum, err := table.Summarize()
		if err != nil {
			return err
		}
		md := sum.Markdown()
		if descOutputPath != "" {
			if err := utils.SafeWriteFile(descOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", descOutputPath)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "write the markdown summary to a file")
}
