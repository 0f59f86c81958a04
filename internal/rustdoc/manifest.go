package rustdoc

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"

	"github.com/BurntSushi/toml"
)

type manifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

// PackageName reads the package name from a Cargo.toml manifest.
func PackageName(manifestPath string) (string, error) {
	var m manifest
	if _, err := toml.DecodeFile(manifestPath, &m); err != nil {
		return "", parseErr(manifestPath, err)
	}
	if m.Package.Name == "" {
		return "", parseErrf(manifestPath, "manifest has no package name")
	}
	return m.Package.Name, nil
}

// cargoTargetDir asks cargo-metadata for the build-output directory of the
// workspace the manifest belongs to.
func cargoTargetDir(ctx context.Context, manifestPath string) (string, error) {
	cmd := exec.CommandContext(ctx, "cargo", "metadata",
		"--no-deps", "--format-version", "1",
		"--manifest-path", manifestPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", parseErrf(manifestPath, "running cargo metadata: %v: %s", err, stderr.String())
	}

	var metadata struct {
		TargetDirectory string `json:"target_directory"`
	}
	if err := json.Unmarshal(out, &metadata); err != nil {
		return "", parseErrf(manifestPath, "decoding cargo metadata: %v", err)
	}
	if metadata.TargetDirectory == "" {
		return "", parseErrf(manifestPath, "cargo metadata reported no target directory")
	}
	return metadata.TargetDirectory, nil
}
