package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/cwbudde/scriptengine/internal/diagnostics"
	"github.com/cwbudde/scriptengine/internal/modules"
	"github.com/cwbudde/scriptengine/internal/scope"
	"github.com/cwbudde/scriptengine/pkg/script"
)

var (
	runEvalExpr  string
	runConfig    string
	runSearchDir []string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a script file or inline expression",
	Long: `Execute a script program from a file or inline expression.

Examples:
  script run program.script
  script run -e "1 + 1;"
  script run --config engine.yaml program.script`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runEvalExpr, "eval", "e", "", "evaluate inline code instead of reading from a file")
	runCmd.Flags().StringVar(&runConfig, "config", "", "YAML config file setting maxCallDepth and pre-bound globals")
	runCmd.Flags().StringSliceVar(&runSearchDir, "import-path", nil, "additional directory searched for import(...) targets")
}

// runConfigFile is the shape of --config: a host-side knob and a table
// of globals bound into scope before the script runs. This configures
// the embedding host, never script-level data.
type runConfigFile struct {
	MaxCallDepth int            `yaml:"maxCallDepth"`
	Globals      map[string]any `yaml:"globals"`
}

func loadRunConfig(path string) (runConfigFile, error) {
	var cfg runConfigFile
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func runRun(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(runEvalExpr, args)
	if err != nil {
		return err
	}

	cfg, err := loadRunConfig(runConfig)
	if err != nil {
		return err
	}

	searchPaths := append([]string{}, runSearchDir...)
	if filename != "<eval>" {
		searchPaths = append(searchPaths, filepath.Dir(filename))
	}
	opts := []script.Option{script.WithLoader(modules.NewFileLoader(searchPaths...))}
	if cfg.MaxCallDepth > 0 {
		opts = append(opts, script.WithMaxCallDepth(cfg.MaxCallDepth))
	}

	engine, err := script.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to construct engine: %w", err)
	}

	sc := scope.New()
	for name, val := range cfg.Globals {
		engine.Bind(sc, name, val)
	}

	_, err = script.EvalWithScope[any](engine, sc, input)
	if err != nil {
		if de, ok := err.(*diagnostics.Error); ok {
			fmt.Fprint(os.Stderr, de.Format(input))
			return fmt.Errorf("execution of %s failed", filename)
		}
		return err
	}
	return nil
}
