package cmd

import (
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/andrewsinnovations/apialize-sub000/internal/config"
)

const envPrefix = "APIALIZE"

// Execute builds the command tree and runs it. Environment variables
// prefixed with APIALIZE_ preset any flag not given on the command
// line, so APIALIZE_SERVER_HTTP_PORT=9000 and --server-http-port=9000
// are equivalent.
func Execute() error {
	cfg := config.NewConfigurationWithOptionsAndDefaults()

	rootCmd := &cobra.Command{
		Use:          "apialize",
		Short:        "Relational listing API over DuckDB",
		SilenceUsage: true,
	}

	runCmd := NewRunCommand(cfg)
	runCmd.PreRun = func(cmd *cobra.Command, args []string) {
		viper.AutomaticEnv()
		viper.SetEnvPrefix(envPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		cobraflags.PresetRequiredFlags(envPrefix, make(map[*pflag.Flag]bool), cmd)
	}
	rootCmd.AddCommand(runCmd)

	return rootCmd.Execute()
}
