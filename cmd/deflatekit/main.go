// Command deflatekit is a small CLI front end over the deflatekit,
// zlib, and gzip packages: it reads stdin (or a -glob of files for batch
// mode), compresses or decompresses at a chosen level and container, and
// writes to stdout (or one sibling file per glob match).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	deflatekit "github.com/elliotnunn/deflatekit"
	"github.com/elliotnunn/deflatekit/gzip"
	"github.com/elliotnunn/deflatekit/zlib"
)

func main() {
	decompress := flag.Bool("d", false, "decompress instead of compress")
	container := flag.String("container", "gzip", "container format: deflate, zlib, or gzip")
	level := flag.Int("level", 6, "compression level, 0-12")
	glob := flag.String("glob", "", "glob pattern selecting input files for batch mode (stdin/stdout used if empty)")
	flag.Parse()

	if *glob == "" {
		if err := runOne(os.Stdin, os.Stdout, *decompress, *container, *level); err != nil {
			os.Stdout.WriteString(err.Error() + "\n")
			os.Exit(1)
		}
		return
	}

	paths, err := doublestar.FilepathGlob(*glob)
	if err != nil {
		os.Stdout.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	if err := runBatch(paths, *decompress, *container, *level); err != nil {
		os.Stdout.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func runOne(in io.Reader, out io.Writer, decompress bool, container string, level int) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	result, err := process(data, decompress, container, level)
	if err != nil {
		return err
	}

	_, err = out.Write(result)
	return err
}

func runBatch(paths []string, decompress bool, container string, level int) error {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		result, err := process(data, decompress, container, level)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		outPath := p + outSuffix(decompress, container)
		if err := os.WriteFile(outPath, result, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
	}
	return nil
}

func outSuffix(decompress bool, container string) string {
	if decompress {
		return ".out"
	}
	switch container {
	case "zlib":
		return ".zlib"
	case "gzip":
		return ".gz"
	default:
		return ".deflate"
	}
}

func process(data []byte, decompress bool, container string, level int) ([]byte, error) {
	if decompress {
		// A CLI reading a self-describing stream from an untrusted source
		// has no independently-known expected size; use the input length
		// itself as the ratio-check basis and accept the default limits.
		expectedSize := len(data) * deflatekit.DefaultRatioLimit
		switch container {
		case "deflate":
			return deflatekit.DecompressDeflate(data, expectedSize, deflatekit.Limits{})
		case "zlib":
			return zlib.Decompress(data, expectedSize, deflatekit.Limits{})
		case "gzip":
			return gzip.Decompress(data, expectedSize, deflatekit.Limits{})
		default:
			return nil, fmt.Errorf("unknown container %q", container)
		}
	}

	switch container {
	case "deflate":
		return deflatekit.CompressDeflate(data, level)
	case "zlib":
		return zlib.Compress(data, level)
	case "gzip":
		return gzip.Compress(data, level)
	default:
		return nil, fmt.Errorf("unknown container %q", container)
	}
}
