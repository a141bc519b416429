// Package archive packages a built toolchain directory into a compressed
// archive and emits checksum sidecar files. The input directory is split
// into parent and base name so the archive's internal root entry is the
// final path component only.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/schollz/progressbar/v3"
	"github.com/ulikunitz/xz"

	"github.com/sbogolepov/kotlin-llvm-builder/internal/ctxlog"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/fsutil"
)

// Format names a supported archive layout.
type Format string

const (
	Zip   Format = "zip"
	GzTar Format = "gztar"
	XzTar Format = "xztar"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case Zip, GzTar, XzTar:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unknown archive format %q (expected zip, gztar or xztar)", name)
	}
}

// Suffix is the file name suffix appended to the output prefix.
func (f Format) Suffix() string {
	switch f {
	case Zip:
		return ".zip"
	case GzTar:
		return ".tar.gz"
	case XzTar:
		return ".tar.xz"
	default:
		return ""
	}
}

// Options configures archive creation.
type Options struct {
	// InputDir is the directory to package.
	InputDir string

	// OutputPrefix is the archive path without the format suffix.
	OutputPrefix string

	Format Format

	// DryRun computes the archive path without performing any I/O.
	DryRun bool

	// Progress receives the progress bar rendering; nil disables drawing.
	Progress io.Writer
}

// Create packages opts.InputDir and returns the path of the written archive.
func Create(ctx context.Context, opts Options) (string, error) {
	archivePath := opts.OutputPrefix + opts.Format.Suffix()
	logger := ctxlog.FromContext(ctx)

	if opts.DryRun {
		logger.Info("Dry run, skipping archive creation.", "path", archivePath)
		return archivePath, nil
	}

	parent, base := fsutil.SplitArchiveRoot(opts.InputDir)
	entries, err := collectEntries(parent, base)
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", opts.InputDir, err)
	}
	logger.Info("Creating archive.", "path", archivePath, "format", opts.Format, "entries", len(entries))

	out, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}

	bar := newBar(opts.Progress, len(entries), "Archiving "+base)
	switch opts.Format {
	case Zip:
		err = writeZip(out, parent, entries, bar)
	case GzTar:
		gz := gzip.NewWriter(out)
		if err = writeTar(gz, parent, entries, bar); err == nil {
			err = gz.Close()
		}
	case XzTar:
		var xzw *xz.Writer
		if xzw, err = xz.NewWriter(out); err == nil {
			if err = writeTar(xzw, parent, entries, bar); err == nil {
				err = xzw.Close()
			}
		}
	default:
		err = fmt.Errorf("unknown archive format %q", opts.Format)
	}
	if err != nil {
		out.Close()
		return "", fmt.Errorf("failed to create %s: %w", archivePath, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return archivePath, nil
}

// entry is one filesystem object to be archived, with its path inside the
// archive already computed.
type entry struct {
	fsPath  string
	arcPath string
	info    os.FileInfo
}

// collectEntries walks parent/base and records every directory, regular file
// and symlink under it. Knowing the count up front sizes the progress bar.
func collectEntries(parent, base string) ([]entry, error) {
	root := filepath.Join(parent, base)
	var entries []entry
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}
		entries = append(entries, entry{
			fsPath:  path,
			arcPath: filepath.ToSlash(rel),
			info:    info,
		})
		return nil
	})
	return entries, err
}

func writeTar(w io.Writer, parent string, entries []entry, bar *progressbar.ProgressBar) error {
	tw := tar.NewWriter(w)
	for _, e := range entries {
		link := ""
		if e.info.Mode()&os.ModeSymlink != 0 {
			target, err := os.Readlink(e.fsPath)
			if err != nil {
				return err
			}
			link = target
		}
		header, err := tar.FileInfoHeader(e.info, link)
		if err != nil {
			return err
		}
		header.Name = e.arcPath
		if e.info.IsDir() {
			header.Name += "/"
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if e.info.Mode().IsRegular() {
			if err := copyFile(tw, e.fsPath); err != nil {
				return err
			}
		}
		_ = bar.Add(1)
	}
	return tw.Close()
}

func writeZip(w io.Writer, parent string, entries []entry, bar *progressbar.ProgressBar) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		// Zip carries no symlink semantics we care about; skip links.
		if e.info.Mode()&os.ModeSymlink != 0 {
			_ = bar.Add(1)
			continue
		}
		header, err := zip.FileInfoHeader(e.info)
		if err != nil {
			return err
		}
		header.Name = e.arcPath
		if e.info.IsDir() {
			header.Name += "/"
		} else {
			header.Method = zip.Deflate
		}
		dst, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		if e.info.Mode().IsRegular() {
			if err := copyFile(dst, e.fsPath); err != nil {
				return err
			}
		}
		_ = bar.Add(1)
	}
	return zw.Close()
}

func copyFile(dst io.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(dst, src)
	return err
}

func newBar(out io.Writer, total int, description string) *progressbar.ProgressBar {
	if out == nil {
		out = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionClearOnFinish(),
	)
}
