package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bianoble/cdf-validate/internal/discover"
	"github.com/bianoble/cdf-validate/internal/manifest"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the manifest and discovered artifacts without validating",
	Long: `Displays the pattern root, the manifest entries (including placeholders),
the discovered Terraform entrypoints, and the attestation documents.
Read-only; never fails the gate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		root, err := effectiveRoot(cfg)
		if err != nil {
			return err
		}
		if root == "" {
			info("No CDF path found")
			return nil
		}

		fmt.Printf("pattern root: %s\n", root)

		count, err := discover.CountArtifacts(root, cfg.ArtifactPatterns)
		if err != nil {
			return err
		}
		fmt.Printf("  artifacts:    %d\n", count)

		mf, err := loadManifest(root)
		if err != nil {
			fmt.Printf("  manifest:     unreadable (%s)\n", err)
			return nil
		}
		if mf.Version != "" {
			fmt.Printf("  version:      %s\n", mf.Version)
		}

		placeholders := 0
		for _, e := range mf.Files {
			if strings.HasPrefix(e.SHA256, manifest.PlaceholderPrefix) {
				placeholders++
			}
		}
		fmt.Printf("  declared:     %d file(s), %d placeholder(s)\n", len(mf.Files), placeholders)

		entrypoints, err := discover.TerraformFiles(root)
		if err != nil {
			return err
		}
		if len(entrypoints) > 0 {
			fmt.Println("\nTerraform entrypoints:")
			declared := mf.Names()
			for _, tf := range entrypoints {
				marker := " "
				if declared[tf] {
					marker = "✓"
				}
				fmt.Printf("  %s %s\n", marker, tf)
			}
		}

		attestations, err := discover.Attestations(root)
		if err != nil {
			return err
		}
		if len(attestations) > 0 {
			fmt.Println("\nAttestations:")
			for _, att := range attestations {
				fmt.Printf("    %s\n", att)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
