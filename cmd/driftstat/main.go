package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"semdrift/app"
	"semdrift/internal"
	"semdrift/internal/api"
	"semdrift/internal/config"
)

const version = "0.1.0"

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "driftstat",
		Short: "Statistical validation of semantic drift experiments",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var resultsFile string
	var outputDir string
	var seed int64

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full statistical analysis over an experiment artifact",
		Long: `Run distance metrics, information theory, resampling inference and
stochastic resonance detection over one experiment artifact, then write
the JSON report, Markdown summary and XLSX workbook.

Example: driftstat analyze --results experiment_results.json --out analysis_output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if resultsFile != "" {
				cfg.Paths.ResultsFile = resultsFile
			}
			if outputDir != "" {
				cfg.Paths.OutputDir = outputDir
			}
			if cmd.Flags().Changed("seed") {
				cfg.Analysis.Seed = seed
			}

			run, err := app.NewAnalysisService(cfg).Run(cmd.Context())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(run, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&resultsFile, "results", "", "Experiment artifact path (default from RESULTS_FILE)")
	cmd.Flags().StringVar(&outputDir, "out", "", "Output directory (default from OUTPUT_DIR)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic operations")

	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve finished reports over HTTP",
		Long: `Start a read-only HTTP server over the analysis output directory.

Endpoints: /healthz, /api/reports, /api/reports/{name}, /summary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			if cfg.Profiling.Enabled {
				go func() {
					addr := ":" + cfg.Profiling.Port
					internal.DefaultLogger.Info("pprof listening on %s", addr)
					if err := http.ListenAndServe(addr, nil); err != nil {
						internal.DefaultLogger.Error("pprof server: %v", err)
					}
				}()
			}

			return api.NewServer(cfg.Paths.OutputDir).ListenAndServe(cfg.Server.Port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "HTTP port (default from PORT)")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the driftstat version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("driftstat %s\n", version)
		},
	}
}
