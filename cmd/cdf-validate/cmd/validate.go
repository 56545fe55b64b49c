package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/cdf-validate/internal/config"
	"github.com/bianoble/cdf-validate/internal/engine"
	"github.com/bianoble/cdf-validate/internal/output"
	"github.com/bianoble/cdf-validate/internal/signing"
)

var (
	validationLevel    string
	failOnUnauthorized bool
	skipSignatures     bool
	certIdentityRegexp string
	certIssuerRegexp   string
	insecureIgnoreTlog bool
	publicKey          string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a CDF pattern directory against its manifest",
	Long: `Reconciles the files found under the pattern root against cdf-meta.json:
Terraform entrypoints must be declared, declared files must match their
recorded digests, and attestation documents must pass cosign verification.
All errors are accumulated and itemized. Emits validation_status,
error_count and file_count on the CI output channel (GITHUB_OUTPUT or
stdout). Exit 0 when validation passes or nothing was found to validate;
exit non-zero when any error was recorded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		mergeFlags(cmd, cfg)
		if errs := config.Validate(cfg); len(errs) > 0 {
			return &config.ValidationError{Errors: errs}
		}

		out := output.New()

		root, err := effectiveRoot(cfg)
		if err != nil {
			return err
		}
		if root == "" {
			info("No CDF path found to validate")
			if err := out.Summary(engine.StatusSkipped, 0, 0); err != nil {
				return err
			}
			return nil
		}
		detail("pattern root: %s", root)

		// Public key material is optional; without it cosign falls back to
		// certificate/keyless verification.
		keyPath := ""
		if material := signing.ResolveKeyMaterial(cfg.PublicKey, ".", root, warnf); material != "" {
			keyPath, err = signing.WriteKeyFile(material)
			if err != nil {
				warnf("%s", err)
				keyPath = ""
			} else {
				info("Using public key from inputs/env/repo for verification")
			}
		}

		eng := &engine.ValidateEngine{
			Root:     root,
			Verifier: &signing.CosignCLI{},
		}

		result, err := eng.Validate(cmd.Context(), engine.Options{
			Level:              cfg.Level,
			FailOnUnauthorized: cfg.FailOnUnauthorized,
			SkipSignatures:     cfg.SkipSignatures,
			CertIdentityRegexp: cfg.CertIdentityRegexp,
			CertIssuerRegexp:   cfg.CertIssuerRegexp,
			IgnoreTlog:         cfg.IgnoreTlog,
			KeyPath:            keyPath,
			ArtifactPatterns:   cfg.ArtifactPatterns,
		})
		if err != nil {
			return err
		}

		for _, name := range result.Authorized {
			info("  ✓ authorized  %s", name)
		}
		for _, name := range result.Verified {
			info("  ✓ digest ok   %s", name)
		}
		for _, issue := range result.Integrity {
			errorf("%s", issue.Error())
		}
		for _, issue := range result.Signature {
			errorf("%s", issue.Error())
		}
		if result.AttestationsTotal > 0 {
			info("cosign verified %d/%d attestation(s)", result.AttestationsPassed, result.AttestationsTotal)
		}

		if err := out.Summary(result.Status, result.ErrorCount(), result.FileCount); err != nil {
			return err
		}

		if result.ErrorCount() > 0 {
			return fmt.Errorf("validation failed: %d error(s)", result.ErrorCount())
		}

		info("\nValidation passed.")
		return nil
	},
}

// mergeFlags applies explicitly-set command flags over the file config.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("validation-level") {
		cfg.Level = validationLevel
	}
	if cmd.Flags().Changed("fail-on-unauthorized-tf") {
		cfg.FailOnUnauthorized = failOnUnauthorized
	}
	if cmd.Flags().Changed("skip-signature-validation") {
		cfg.SkipSignatures = skipSignatures
	}
	if cmd.Flags().Changed("cert-identity-regex") {
		cfg.CertIdentityRegexp = certIdentityRegexp
	}
	if cmd.Flags().Changed("cert-issuer-regex") {
		cfg.CertIssuerRegexp = certIssuerRegexp
	}
	if cmd.Flags().Changed("insecure-ignore-tlog") {
		cfg.IgnoreTlog = insecureIgnoreTlog
	}
	if cmd.Flags().Changed("public-key") {
		cfg.PublicKey = publicKey
	}

	if config.EnvSkipSignatures() {
		cfg.SkipSignatures = true
	}
}

func init() {
	validateCmd.Flags().StringVar(&validationLevel, "validation-level", "full", "validation level: full, integrity, or authorization")
	validateCmd.Flags().BoolVar(&failOnUnauthorized, "fail-on-unauthorized-tf", true, "fail when a Terraform entrypoint is not declared in the manifest")
	validateCmd.Flags().BoolVar(&skipSignatures, "skip-signature-validation", false, "skip attestation and signature checks")
	validateCmd.Flags().StringVar(&certIdentityRegexp, "cert-identity-regex", ".*", "certificate identity regexp for cosign")
	validateCmd.Flags().StringVar(&certIssuerRegexp, "cert-issuer-regex", ".*", "certificate OIDC issuer regexp for cosign")
	validateCmd.Flags().BoolVar(&insecureIgnoreTlog, "insecure-ignore-tlog", true, "pass --insecure-ignore-tlog to cosign")
	validateCmd.Flags().StringVar(&publicKey, "public-key", "", "inline PEM public key for verification")

	rootCmd.AddCommand(validateCmd)
}
