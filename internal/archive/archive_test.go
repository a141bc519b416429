package archive

import (
	"archive/tar"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// makeDistDir builds a small fake distribution tree and returns its path.
func makeDistDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dist := filepath.Join(root, "llvm-dist")
	require.NoError(t, os.MkdirAll(filepath.Join(dist, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "bin", "clang"), []byte("#!/bin/true\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "README"), []byte("llvm distribution\n"), 0o644))
	return dist
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"zip", "gztar", "xztar"} {
		format, err := ParseFormat(valid)
		require.NoError(t, err)
		require.Equal(t, Format(valid), format)
	}

	_, err := ParseFormat("rar")
	require.Error(t, err)
}

func TestCreate_DryRunPerformsNoIO(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dist := makeDistDir(t)
	prefix := filepath.Join(t.TempDir(), "llvm-out")

	// --- Act ---
	path, err := Create(context.Background(), Options{
		InputDir:     dist,
		OutputPrefix: prefix,
		Format:       Zip,
		DryRun:       true,
	})

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, prefix+".zip", path)
	require.NoFileExists(t, path, "dry run must not write the archive")
}

func TestCreate_ZipRootEntryIsBaseName(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dist := makeDistDir(t)
	prefix := filepath.Join(t.TempDir(), "llvm-out")

	// --- Act ---
	path, err := Create(context.Background(), Options{
		InputDir:     dist,
		OutputPrefix: prefix,
		Format:       Zip,
	})

	// --- Assert ---
	require.NoError(t, err)
	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	require.NotEmpty(t, reader.File)
	var sawClang bool
	for _, f := range reader.File {
		require.True(t, strings.HasPrefix(f.Name, "llvm-dist"),
			"entry %q must live under the base name, not the full input path", f.Name)
		if f.Name == "llvm-dist/bin/clang" {
			sawClang = true
			rc, err := f.Open()
			require.NoError(t, err)
			content, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			require.Equal(t, "#!/bin/true\n", string(content))
		}
	}
	require.True(t, sawClang)
}

func TestCreate_GzTar(t *testing.T) {
	t.Parallel()

	dist := makeDistDir(t)
	prefix := filepath.Join(t.TempDir(), "llvm-out")

	path, err := Create(context.Background(), Options{
		InputDir:     dist,
		OutputPrefix: prefix,
		Format:       GzTar,
	})

	require.NoError(t, err)
	require.Equal(t, prefix+".tar.gz", path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	requireTarContains(t, tar.NewReader(gz), "llvm-dist/README")
}

func TestCreate_XzTar(t *testing.T) {
	t.Parallel()

	dist := makeDistDir(t)
	prefix := filepath.Join(t.TempDir(), "llvm-out")

	path, err := Create(context.Background(), Options{
		InputDir:     dist,
		OutputPrefix: prefix,
		Format:       XzTar,
	})

	require.NoError(t, err)
	require.Equal(t, prefix+".tar.xz", path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	xzr, err := xz.NewReader(f)
	require.NoError(t, err)
	requireTarContains(t, tar.NewReader(xzr), "llvm-dist/bin/clang")
}

func requireTarContains(t *testing.T, tr *tar.Reader, want string) {
	t.Helper()
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if header.Name == want {
			return
		}
	}
	t.Fatalf("expected archive entry %q", want)
}

func TestWriteChecksum(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "dist.zip")
	content := []byte("not really a zip, the digest does not care")
	require.NoError(t, os.WriteFile(archivePath, content, 0o644))
	expected := sha256.Sum256(content)

	// --- Act ---
	sum, err := WriteChecksum(archivePath)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(expected[:]), sum)

	sidecar, err := os.ReadFile(archivePath + ChecksumSuffix)
	require.NoError(t, err)
	require.Equal(t, sum+"\n", string(sidecar), "the digest is the sole line of the sidecar file")
}

func TestWriteChecksum_MissingInput(t *testing.T) {
	t.Parallel()

	_, err := WriteChecksum(filepath.Join(t.TempDir(), "absent.zip"))

	require.Error(t, err)
}
