package cmd

import (
	"fmt"

	"github.com/KaramelBytes/premiumlens/internal/predict"
	"github.com/KaramelBytes/premiumlens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	predAge      int
	predSex      string
	predBMI      float64
	predChildren int
	predSmoker   string
	predRegion   string
	predJSON     bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate charges for one person",
	Long: `Estimates insurance charges from six fields. Fields left unset take the
dashboard defaults: the first observed category and the minimum age and bmi.
Values outside the observed categories or ranges are rejected.`,
	Example: `  premiumlens predict --region southeast --sex male --age 30 --smoker no --children 1 --bmi 25`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable()
		if err != nil {
			return err
		}
		pipeline, err := loadPipeline()
		if err != nil {
			return err
		}
		choices, err := predict.ChoicesFrom(table)
		if err != nil {
			return err
		}
		rec := choices.Default()
		f := cmd.Flags()
		if f.Changed("age") {
			rec.Age = predAge
		}
		if f.Changed("sex") {
			rec.Sex = predSex
		}
		if f.Changed("bmi") {
			rec.BMI = predBMI
		}
		if f.Changed("children") {
			rec.Children = predChildren
		}
		if f.Changed("smoker") {
			rec.Smoker = predSmoker
		}
		if f.Changed("region") {
			rec.Region = predRegion
		}
		if err := choices.Validate(rec); err != nil {
			return err
		}
		y, err := pipeline.Predict(rec)
		if err != nil {
			return err
		}
		log.Debug("prediction", "record", rec.String(), "charges", y)
		if predJSON {
			b, err := utils.PrettyJSON(map[string]any{"record": rec, "charges": y, "message": predict.FormatCharges(y)})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), predict.FormatCharges(y))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().IntVar(&predAge, "age", 0, "age in years")
	predictCmd.Flags().StringVar(&predSex, "sex", "", "sex as recorded in the dataset")
	predictCmd.Flags().Float64Var(&predBMI, "bmi", 0, "body mass index")
	predictCmd.Flags().IntVar(&predChildren, "children", 0, "number of children covered")
	predictCmd.Flags().StringVar(&predSmoker, "smoker", "", "smoker status (yes|no)")
	predictCmd.Flags().StringVar(&predRegion, "region", "", "residential region")
	predictCmd.Flags().BoolVar(&predJSON, "json", false, "print the record and estimate as JSON")
}
