package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lloydzhou/tika-parser/pkg/pipeline"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective pipeline configuration as YAML",
	Long: `Print the pipeline configuration that convert and batch would use,
after applying the config file's "pipeline" section and the flags.

The output can be saved as the "pipeline" section of ~/.tika-md.yaml:

  tika-md config > pipeline.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	addPipelineFlags(configCmd)
}

// addPipelineFlags registers the flags that tune the conversion passes.
func addPipelineFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSlice("prune", nil, "extra CSS selectors to drop before conversion (can be repeated)")
	flags.Bool("skip-tables", false, "keep tables without a header row as they are")
	flags.Bool("skip-images", false, "leave img alt text and sources untouched")
	flags.Bool("no-inline", false, "do not embed attachment images as data URIs")
	flags.Int("min-page-repeat", 0, "pages a header/footer must repeat on to be removed (0 = config default)")
}

// loadPipelineConfig builds the pipeline config from defaults, the config
// file's "pipeline" section and the command's flags, then validates it.
func loadPipelineConfig(cmd *cobra.Command) (*pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	defaults := cfg.PruneSelectors

	// Decode onto the defaults so absent keys keep their default values.
	cfg.PruneSelectors = nil
	if viper.IsSet("pipeline") {
		if err := viper.UnmarshalKey("pipeline", cfg); err != nil {
			return nil, fmt.Errorf("reading pipeline config: %w", err)
		}
	}
	if cfg.PruneSelectors == nil {
		cfg.PruneSelectors = defaults
	}

	flags := cmd.Flags()
	extra, _ := flags.GetStringSlice("prune")
	overrides := &pipeline.Config{PruneSelectors: extra}
	overrides.SkipTables, _ = flags.GetBool("skip-tables")
	overrides.SkipImages, _ = flags.GetBool("skip-images")
	overrides.Noise.MinPageRepeat, _ = flags.GetInt("min-page-repeat")
	overrides.Images.SkipInline, _ = flags.GetBool("no-inline")
	cfg = cfg.Merge(overrides)


	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	setupLogging()

	cfg, err := loadPipelineConfig(cmd)
	if err != nil {
		logError("%v", err)
		return err
	}

	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(map[string]any{"pipeline": cfg}); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return encoder.Close()
}
