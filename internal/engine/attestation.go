package engine

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/bianoble/cdf-validate/internal/discover"
	"github.com/bianoble/cdf-validate/internal/sandbox"
	"github.com/bianoble/cdf-validate/internal/signing"
)

// requiredAttestationFields are the in-toto statement fields every
// attestation document must carry.
var requiredAttestationFields = []string{"_type", "subject", "predicateType", "predicate"}

// checkSignatures enumerates attestation documents under the root,
// validates their structure, and delegates signature verification to the
// external verifier.
func (e *ValidateEngine) checkSignatures(ctx context.Context, result *Result, opts Options) error {
	if e.Verifier == nil || !e.Verifier.Available() {
		result.Signature = append(result.Signature, Issue{
			Category: CategorySignature,
			Reason:   "cosign not available",
			Detail:   "signature validation required but the verification tool is missing",
		})
		return nil
	}

	attestations, err := discover.Attestations(e.Root)
	if err != nil {
		return err
	}

	for _, rel := range attestations {
		result.AttestationsTotal++

		path, resolveErr := sandbox.Resolve(e.Root, rel)
		if resolveErr != nil {
			result.Signature = append(result.Signature, Issue{
				Category: CategorySignature,
				Path:     rel,
				Reason:   "path escapes pattern root",
				Detail:   resolveErr.Error(),
			})
			continue
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			result.Signature = append(result.Signature, Issue{
				Category: CategorySignature,
				Path:     rel,
				Reason:   "unreadable attestation",
				Detail:   readErr.Error(),
			})
			continue
		}

		missing, parseErr := missingAttestationFields(data)
		if parseErr != nil {
			result.Signature = append(result.Signature, Issue{
				Category: CategorySignature,
				Path:     rel,
				Reason:   "invalid attestation JSON",
				Detail:   parseErr.Error(),
			})
			continue // unparseable documents are not submitted for verification
		}
		// Missing fields are each an error, but the signature is still
		// checked — a malformed statement with a valid signature and a
		// well-formed statement with a bad signature both need reporting.
		for _, field := range missing {
			result.Signature = append(result.Signature, Issue{
				Category: CategorySignature,
				Path:     rel,
				Reason:   "attestation missing field",
				Detail:   field,
			})
		}

		sigPath := siblingPath(path, ".sig")
		if _, statErr := os.Stat(sigPath); statErr != nil {
			result.Signature = append(result.Signature, Issue{
				Category: CategorySignature,
				Path:     rel,
				Reason:   "signature file missing",
			})
			continue
		}

		verifyOpts := signing.VerifyOptions{
			SignaturePath: sigPath,
			IgnoreTlog:    opts.IgnoreTlog,
			KeyPath:       opts.KeyPath,
		}
		certPath := siblingPath(path, ".cert")
		if _, statErr := os.Stat(certPath); statErr == nil {
			verifyOpts.CertificatePath = certPath
			verifyOpts.CertIdentityRegexp = opts.CertIdentityRegexp
			verifyOpts.CertIssuerRegexp = opts.CertIssuerRegexp
		}

		if verifyErr := e.Verifier.VerifyBlob(ctx, path, verifyOpts); verifyErr != nil {
			result.Signature = append(result.Signature, Issue{
				Category: CategorySignature,
				Path:     rel,
				Reason:   "signature verification failed",
				Detail:   verifyErr.Error(),
			})
			continue
		}

		result.AttestationsPassed++
	}

	return nil
}

// missingAttestationFields decodes the attestation document and returns
// the required statement fields it lacks.
func missingAttestationFields(data []byte) ([]string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var missing []string
	for _, field := range requiredAttestationFields {
		if _, ok := doc[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing, nil
}

// siblingPath swaps the final extension: x.attestation.json becomes
// x.attestation.sig or x.attestation.cert.
func siblingPath(attestation, ext string) string {
	return strings.TrimSuffix(attestation, ".json") + ext
}
