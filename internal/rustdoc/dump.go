package rustdoc

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// rustdocFlags makes rustdoc emit JSON and document hidden items, so the
// dump covers the full surface and not just what renders in HTML.
const rustdocFlags = "-Z unstable-options --document-hidden-items --output-format=json"

// Dumper runs cargo-doc against a manifest and produces the raw rustdoc
// JSON document for its package.
type Dumper struct {
	// Deps includes dependencies in the dump.
	//
	// Reasons to have this disabled:
	// - Faster extraction
	// - Less likely to hit rustdoc defects on dependency code
	//
	// Reasons to have this enabled:
	// - Check for accidental inclusion of dependencies in your API
	// - Detect breaking changes leaking in from dependencies
	Deps bool

	// TargetDir overrides the staging directory for the dump. When empty
	// it is derived from the manifest's own build-output location.
	TargetDir string
}

// DumpRaw builds the documentation for the package at manifestPath and
// returns the raw JSON bytes.
func (d Dumper) DumpRaw(ctx context.Context, manifestPath string) ([]byte, error) {
	jsonPath, err := d.dump(ctx, manifestPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, parseErr(jsonPath, err)
	}
	return data, nil
}

// Load builds and decodes the document for the package at manifestPath.
func (d Dumper) Load(ctx context.Context, manifestPath string) (*Crate, error) {
	data, err := d.DumpRaw(ctx, manifestPath)
	if err != nil {
		return nil, err
	}

	crate, err := Decode(data)
	if err != nil {
		return nil, parseErr(manifestPath, err)
	}
	return crate, nil
}

func (d Dumper) dump(ctx context.Context, manifestPath string) (string, error) {
	name, err := PackageName(manifestPath)
	if err != nil {
		return "", err
	}

	targetDir := d.TargetDir
	if targetDir == "" {
		base, err := cargoTargetDir(ctx, manifestPath)
		if err != nil {
			return "", err
		}
		// Dedicated staging dir: avoids compilation conflicts between the
		// nightly dump build and the package's regular builds.
		targetDir = filepath.Join(base, "crategraph")
	}

	args := []string{"+nightly", "doc", "--all-features", "--manifest-path", manifestPath}
	if !d.Deps {
		args = append(args, "--no-deps")
	}

	cmd := exec.CommandContext(ctx, "cargo", args...)
	cmd.Env = append(os.Environ(),
		"RUSTDOCFLAGS="+rustdocFlags,
		"CARGO_TARGET_DIR="+targetDir,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", parseErrf(manifestPath, "running cargo doc: %v: %s", err, stderr.String())
	}

	return filepath.Join(targetDir, "doc", DumpFileName(name)), nil
}

// DumpFileName is the fixed naming convention for a package's document
// under the staging directory's doc/ subdirectory.
func DumpFileName(packageName string) string {
	return strings.ReplaceAll(packageName, "-", "_") + ".json"
}
