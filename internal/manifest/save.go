package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/bianoble/cdf-validate/internal/sandbox"
)

// Save writes the manifest to root/cdf-meta.json atomically.
func Save(root string, mf *Manifest) error {
	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	data = append(data, '\n')

	if err := sandbox.SafeWrite(root, FileName, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
