package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	cdfPath    string
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "cdf-validate",
	Short: "Integrity and authorization gate for CDF artifact directories",
	Long: `cdf-validate is a point-in-time gate for directories of Composable
Deployment Framework (CDF) artifacts. It reconciles the files found under
a pattern root against the files declared in the cdf-meta.json manifest:
Terraform entrypoints must be authorized, declared files must match their
recorded SHA-256 digests, and attestations must carry valid signatures
(verified by an external cosign executable).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cdf-validate %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "cdf-validate.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&cdfPath, "cdf-path", "", "CDF pattern root (default: discover cdf-meta.json)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
