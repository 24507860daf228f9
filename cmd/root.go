package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/premiumlens/internal/config"
	"github.com/KaramelBytes/premiumlens/internal/dataset"
	"github.com/KaramelBytes/premiumlens/internal/logging"
	"github.com/KaramelBytes/premiumlens/internal/predict"
	"github.com/KaramelBytes/premiumlens/internal/render"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Resource paths (override config if set)
	flagDataPath        string
	flagTransformerPath string
	flagModelPath       string

	// Loaded configuration
	cfg *cfgpkg.Global
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "premiumlens",
	Short: "PremiumLens: explore an insurance dataset and estimate charges",
	Long: `PremiumLens loads an insurance CSV, renders univariate, bivariate and multivariate
figures, and estimates charges with a pre-fitted transformer and regression model.
Run "premiumlens serve" for the dashboard or use the offline commands.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here: loadConfig reads rootCmd's flags.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return loadConfig() }
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.premiumlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataPath, "data", "", "insurance CSV path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagTransformerPath, "transformer", "", "transformer artifact path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagModelPath, "model", "", "model artifact path (overrides config)")
}

func loadConfig() error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagDataPath != "" {
		cfg.DataPath = flagDataPath
	}
	if f.Changed("transformer") && flagTransformerPath != "" {
		cfg.TransformerPath = flagTransformerPath
	}
	if f.Changed("model") && flagModelPath != "" {
		cfg.ModelPath = flagModelPath
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	l, err := logging.New(os.Stderr, level, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v, using defaults\n", err)
		l, _ = logging.New(os.Stderr, "info", "text")
	}
	log = l
	slog.SetDefault(log)
	return nil
}

// loadTable reads the dataset named by the effective configuration.
func loadTable() (*dataset.Table, error) {
	l := dataset.NewLoader(cfg.DataPath)
	t, err := l.Load()
	if err != nil {
		return nil, err
	}
	log.Debug("dataset loaded", "path", l.Path(), "name", t.Name(), "rows", t.Nrow())
	return t, nil
}

// loadPipeline reads and cross-checks the transformer and model artifacts.
func loadPipeline() (*predict.Pipeline, error) {
	p, err := predict.NewArtifacts(cfg.TransformerPath, cfg.ModelPath).Pipeline()
	if err != nil {
		return nil, err
	}
	log.Debug("artifacts loaded", "transformer", cfg.TransformerPath, "model", cfg.ModelPath,
		"kind", p.Model.Kind(), "features", p.Transformer.Width())
	return p, nil
}

func figureSize() render.Size {
	return render.Size{Width: cfg.FigureWidth, Height: cfg.FigureHeight}
}
