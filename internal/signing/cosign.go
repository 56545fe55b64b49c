package signing

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Verifier checks a detached signature over a blob using external tooling.
// The gate never verifies cryptographic material itself; it delegates to
// a verification executable.
type Verifier interface {
	// Available reports whether the verification tool can be invoked.
	Available() bool

	// VerifyBlob verifies the detached signature over the blob at path.
	VerifyBlob(ctx context.Context, blob string, opts VerifyOptions) error
}

// VerifyOptions carries the artifacts and constraints for one verification.
type VerifyOptions struct {
	// SignaturePath is the detached signature file (required).
	SignaturePath string

	// CertificatePath, when set, enables certificate verification with the
	// identity/issuer constraints below.
	CertificatePath    string
	CertIdentityRegexp string
	CertIssuerRegexp   string

	// IgnoreTlog disables transparency-log verification.
	IgnoreTlog bool

	// KeyPath is an optional PEM public key file.
	KeyPath string
}

// CosignCLI invokes the cosign executable for blob verification.
type CosignCLI struct {
	// Binary overrides the executable name. Empty means "cosign".
	Binary string
}

func (c *CosignCLI) binary() string {
	if c.Binary == "" {
		return "cosign"
	}
	return c.Binary
}

// Available reports whether the cosign executable is on PATH.
func (c *CosignCLI) Available() bool {
	_, err := exec.LookPath(c.binary())
	return err == nil
}

// VerifyBlob runs `cosign verify-blob` against the blob. The command's
// combined output is folded into the returned error on failure.
func (c *CosignCLI) VerifyBlob(ctx context.Context, blob string, opts VerifyOptions) error {
	args := verifyBlobArgs(blob, opts)
	out, err := exec.CommandContext(ctx, c.binary(), args...).CombinedOutput()
	if err != nil {
		return &VerifyError{Blob: blob, Output: strings.TrimSpace(string(out)), Err: err}
	}
	return nil
}

func verifyBlobArgs(blob string, opts VerifyOptions) []string {
	args := []string{"verify-blob", "--signature", opts.SignaturePath}

	if opts.CertificatePath != "" {
		args = append(args,
			"--certificate", opts.CertificatePath,
			"--certificate-identity-regexp", opts.CertIdentityRegexp,
			"--certificate-oidc-issuer-regexp", opts.CertIssuerRegexp,
		)
	}
	if opts.IgnoreTlog {
		args = append(args, "--insecure-ignore-tlog")
	}
	if opts.KeyPath != "" {
		args = append(args, "--key", opts.KeyPath)
	}

	return append(args, blob)
}

// VerifyError reports a failed verification, including the tool's output.
type VerifyError struct {
	Blob   string
	Output string
	Err    error
}

func (e *VerifyError) Error() string {
	msg := fmt.Sprintf("signature verification failed for %s: %s", e.Blob, e.Err)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *VerifyError) Unwrap() error {
	return e.Err
}
