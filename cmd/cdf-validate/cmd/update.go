package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/cdf-validate/internal/engine"
	"github.com/bianoble/cdf-validate/internal/manifest"
)

var (
	updateAdd    bool
	updateDryRun bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Recompute manifest digests from the files on disk",
	Long: `Hashes every file declared in cdf-meta.json and rewrites the manifest with
the current digests, replacing placeholder values. With --add, discovered
Terraform entrypoints missing from the manifest are declared as well.
The manifest is rewritten atomically.`,
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
			return fmt.Errorf("no cdf-meta.json found — nothing to update")
		}

		mf, err := loadManifest(root)
		if err != nil {
			return err
		}

		eng := &engine.UpdateEngine{Root: root}
		result, err := eng.Update(cmd.Context(), *mf, engine.UpdateOptions{
			AddUndeclared: updateAdd,
		})
		if err != nil {
			return err
		}

		for _, name := range result.Updated {
			info("  updated    %s", name)
		}
		for _, name := range result.Added {
			info("  added      %s", name)
		}
		for _, name := range result.Unchanged {
			detail("unchanged  %s", name)
		}
		for _, issue := range result.Errors {
			errorf("%s", issue.Error())
		}

		if updateDryRun {
			info("\nDry run — manifest not modified.")
		} else if len(result.Updated) > 0 || len(result.Added) > 0 {
			if err := manifest.Save(root, result.Manifest); err != nil {
				return err
			}
			info("\nManifest updated.")
		} else {
			info("Manifest already up to date.")
		}

		if len(result.Errors) > 0 {
			return fmt.Errorf("%d file(s) could not be hashed", len(result.Errors))
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateAdd, "add", false, "declare discovered Terraform entrypoints missing from the manifest")
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "show what would change without rewriting the manifest")
	rootCmd.AddCommand(updateCmd)
}
