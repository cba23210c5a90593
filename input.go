package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/mkor/wildstream/log"
)

// materializeDataset returns a path the streaming reader can open
// directly. Plain files pass through. Compressed exports are inflated into
// a temporary file first: the reader needs to seek, and none of the
// compressed formats support that.
func materializeDataset(path string) (datasetPath string, cleanup func() error, err error) {
	noop := func() error { return nil }

	decompress := decompressorFor(path)
	if decompress == nil {
		return path, noop, nil
	}

	in, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer in.Close()

	log.Infof("decompressing %q through a temporary file", path)
	tempWriter, err := os.CreateTemp("", "wildstream-*.json")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempPath := tempWriter.Name()
	cleanup = func() error {
		closeErr := tempWriter.Close()
		if removeErr := os.Remove(tempPath); removeErr != nil && !os.IsNotExist(removeErr) {
			return removeErr
		}
		if closeErr != nil && !strings.HasSuffix(closeErr.Error(), "file already closed") {
			return closeErr
		}
		return nil
	}

	src, err := decompress(in)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to read compressed input %q: %w", path, err)
	}

	n, err := io.Copy(tempWriter, src)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to decompress %q: %w", path, err)
	}
	if err := tempWriter.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to flush temporary file: %w", err)
	}

	log.Infof("decompressed %d bytes to %q", n, tempPath)
	return tempPath, cleanup, nil
}

// decompressorFor picks a decompressor by file extension, or nil for plain
// input.
func decompressorFor(path string) func(io.Reader) (io.Reader, error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r)
		}
	case strings.HasSuffix(path, ".zst"):
		return func(r io.Reader) (io.Reader, error) {
			zr, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return zr.IOReadCloser(), nil
		}
	case strings.HasSuffix(path, ".lz4"):
		return func(r io.Reader) (io.Reader, error) {
			return lz4.NewReader(r), nil
		}
	default:
		return nil
	}
}
