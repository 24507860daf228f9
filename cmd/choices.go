package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/premiumlens/internal/predict"
	"github.com/KaramelBytes/premiumlens/internal/utils"
	"github.com/spf13/cobra"
)

var choicesJSON bool

var choicesCmd = &cobra.Command{
	Use:   "choices",
	Short: "List the values the prediction form accepts",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable()
		if err != nil {
			return err
		}
		ch, err := predict.ChoicesFrom(table)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if choicesJSON {
			b, err := utils.PrettyJSON(ch)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		kids := make([]string, len(ch.Children))
		for i, c := range ch.Children {
			kids[i] = fmt.Sprint(c)
		}
		fmt.Fprintf(out, "region:   %s\n", strings.Join(ch.Region, ", "))
		fmt.Fprintf(out, "sex:      %s\n", strings.Join(ch.Sex, ", "))
		fmt.Fprintf(out, "smoker:   %s\n", strings.Join(ch.Smoker, ", "))
		fmt.Fprintf(out, "children: %s\n", strings.Join(kids, ", "))
		fmt.Fprintf(out, "age:      %d..%d\n", ch.AgeMin, ch.AgeMax)
		fmt.Fprintf(out, "bmi:      %.2f..%.2f\n", ch.BMIMin, ch.BMIMax)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(choicesCmd)
	choicesCmd.Flags().BoolVar(&choicesJSON, "json", false, "print as JSON")
}
