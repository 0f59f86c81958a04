package rustdoc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jcdickinson/crategraph/internal/config"
	"github.com/klauspost/compress/zstd"
)

func cachePath(name, version string) string {
	return filepath.Join(config.JSONCacheDir(), name+"_"+version+".json.zst")
}

// SaveCache compresses and saves rustdoc JSON bytes to disk.
func SaveCache(data []byte, name, version string) error {
	dir := config.JSONCacheDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating json cache dir: %w", err)
	}

	f, err := os.Create(cachePath(name, version))
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer f.Close()

	w, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("writing compressed data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	return nil
}

// LoadCache loads and decompresses cached rustdoc JSON from disk.
func LoadCache(name, version string) (*Crate, error) {
	path := cachePath(name, version)

	f, err := os.Open(path)
	if err != nil {
		return nil, parseErr(path, err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, parseErr(path, err)
	}

	crate, err := Decode(data)
	if err != nil {
		return nil, parseErr(path, err)
	}
	return crate, nil
}

// HasCache checks whether a cached rustdoc JSON file exists on disk.
func HasCache(name, version string) bool {
	_, err := os.Stat(cachePath(name, version))
	return err == nil
}
