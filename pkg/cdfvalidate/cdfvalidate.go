// Package cdfvalidate provides the public Go library API for cdf-validate.
//
// cdf-validate is a point-in-time gate for directories of Composable
// Deployment Framework (CDF) artifacts. It reconciles the files found
// under a pattern root against the files declared in the cdf-meta.json
// manifest, verifies content digests, and delegates signature checks to
// an external cosign executable.
//
// # Basic Usage
//
//	client, err := cdfvalidate.New(cdfvalidate.Options{
//	    Root: "/path/to/patterns",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Validate(ctx, cdfvalidate.ValidateOptions{
//	    Level:              cdfvalidate.LevelFull,
//	    FailOnUnauthorized: true,
//	})
package cdfvalidate

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bianoble/cdf-validate/internal/discover"
	"github.com/bianoble/cdf-validate/internal/engine"
	"github.com/bianoble/cdf-validate/internal/manifest"
	"github.com/bianoble/cdf-validate/internal/signing"
)

// Options configures a cdf-validate client.
type Options struct {
	// Root is the CDF pattern root. If empty, the first directory
	// containing cdf-meta.json under WorkDir is used.
	Root string

	// WorkDir is the search base for root discovery. Default: ".".
	WorkDir string

	// CosignBinary overrides the verification executable name.
	CosignBinary string
}

// Client is the main entry point for the cdf-validate library.
type Client struct {
	root     string
	verifier signing.Verifier
}

// ErrNoRoot is returned by New when no pattern root can be located.
var ErrNoRoot = fmt.Errorf("no CDF path found to validate")

// New creates a new cdf-validate Client.
func New(opts Options) (*Client, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}

	root, err := discover.FindRoot(opts.Root, workDir)
	if err != nil {
		return nil, fmt.Errorf("locating pattern root: %w", err)
	}
	if root == "" {
		return nil, ErrNoRoot
	}

	return &Client{
		root:     root,
		verifier: &signing.CosignCLI{Binary: opts.CosignBinary},
	}, nil
}

// Root returns the resolved pattern root.
func (c *Client) Root() string {
	return c.root
}

// Validate runs the gate against the pattern root.
func (c *Client) Validate(ctx context.Context, opts ValidateOptions) (*Result, error) {
	if opts.Level == "" {
		opts.Level = LevelFull
	}
	eng := &engine.ValidateEngine{Root: c.root, Verifier: c.verifier}
	return eng.Validate(ctx, opts)
}

// Update recomputes manifest digests from disk and saves the manifest.
func (c *Client) Update(ctx context.Context, opts UpdateOptions) (*UpdateResult, error) {
	mf, err := manifest.Load(filepath.Join(c.root, manifest.FileName))
	if err != nil {
		return nil, err
	}

	eng := &engine.UpdateEngine{Root: c.root}
	result, err := eng.Update(ctx, *mf, opts)
	if err != nil {
		return nil, err
	}

	if result.Manifest != nil {
		if err := manifest.Save(c.root, result.Manifest); err != nil {
			return nil, fmt.Errorf("saving manifest: %w", err)
		}
	}
	return result, nil
}
