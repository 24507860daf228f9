package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/premiumlens/internal/render"
	"github.com/KaramelBytes/premiumlens/internal/utils"
	"github.com/KaramelBytes/premiumlens/internal/views"
	"github.com/spf13/cobra"
)

var (
	renderOutput string
	renderNoSVG  bool
)

var renderCmd = &cobra.Command{
	Use:   "render [page...]",
	Short: "Render analysis pages to SVG files and an HTML report",
	Long: `Renders the univariate, bivariate and multivariate pages (all three when no
page is named). Each page becomes <output>/<page>.html plus one SVG per panel
under <output>/<page>/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := parsePages(args)
		if err != nil {
			return err
		}
		out := cfg.OutputDir
		if cmd.Flags().Changed("output") && renderOutput != "" {
			out = renderOutput
		}
		table, err := loadTable()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(out); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		size := figureSize()
		for _, p := range pages {
			sections, err := views.Build(table, p)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := render.Report(&buf, string(p), sections, size); err != nil {
				return err
			}
			report := filepath.Join(out, p.Slug()+".html")
			if err := utils.SafeWriteFile(report, buf.Bytes()); err != nil {
				return err
			}
			n := 0
			if !renderNoSVG {
				paths, err := render.WriteSVGs(filepath.Join(out, p.Slug()), sections, size)
				if err != nil {
					return err
				}
				n = len(paths)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %s (%d panels)\n", p, report, n)
		}
		return nil
	},
}

// parsePages maps page arguments to analysis pages; no arguments means all.
func parsePages(args []string) ([]views.Page, error) {
	if len(args) == 0 {
		var all []views.Page
		for _, p := range views.Pages {
			if p.IsAnalysis() {
				all = append(all, p)
			}
		}
		return all, nil
	}
	pages := make([]views.Page, 0, len(args))
	for _, a := range args {
		p, err := views.ParsePage(a)
		if err != nil {
			return nil, err
		}
		if !p.IsAnalysis() {
			return nil, fmt.Errorf("%s has no figures; use the predict command", p)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output directory (overrides output_dir)")
	renderCmd.Flags().BoolVar(&renderNoSVG, "no-svg", false, "write only the HTML reports")
}
