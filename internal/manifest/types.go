// Package manifest reads, validates, and writes the cdf-meta.json
// manifest that declares the files of a CDF pattern directory.
package manifest

import "strings"

// FileName is the manifest filename at the pattern root.
const FileName = "cdf-meta.json"

// PlaceholderPrefix marks a digest value that has not been computed yet.
// Entries carrying it are declared but exempt from content verification.
const PlaceholderPrefix = "placeholder_"

// Manifest is the parsed cdf-meta.json document.
type Manifest struct {
	// Version is an optional semantic version of the manifest format.
	Version string `json:"version,omitempty"`

	// Files lists the declared files. A nil slice means the document had
	// no files key at all, which is distinct from an empty list.
	Files []Entry `json:"files"`
}

// Entry declares a single file and its expected content digest.
type Entry struct {
	Name   string `json:"name,omitempty"`
	SHA256 string `json:"sha256,omitempty"`

	// Signature optionally names a detached signature file for the entry.
	Signature string `json:"signature,omitempty"`
}

// Checkable reports whether the entry's content digest should be
// verified. The manifest's own entry and placeholder digests are exempt.
func (e Entry) Checkable() bool {
	if e.Name == "" || e.SHA256 == "" {
		return false
	}
	if e.Name == FileName {
		return false
	}
	if strings.HasPrefix(e.SHA256, PlaceholderPrefix) {
		return false
	}
	return true
}

// Names returns the set of declared file names.
func (m *Manifest) Names() map[string]bool {
	names := make(map[string]bool, len(m.Files))
	for _, e := range m.Files {
		if e.Name != "" {
			names[e.Name] = true
		}
	}
	return names
}
