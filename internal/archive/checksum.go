package archive

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/minio/sha256-simd"
)

// ChecksumSuffix is appended to the archive path to name the sidecar file.
const ChecksumSuffix = ".sha256"

// checksumChunkSize is the read granularity for streaming the archive
// through the digest.
const checksumChunkSize = 4096

// Checksum stream-reads the file at path and returns the lowercase
// hexadecimal SHA-256 digest of its contents.
func Checksum(path string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	digest := sha256.New()
	buf := make([]byte, checksumChunkSize)
	if _, err := io.CopyBuffer(digest, in, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

// WriteChecksum computes the digest of archivePath and writes it, followed
// by a newline, as the sole content of the sibling checksum file. Returns
// the hex digest.
func WriteChecksum(archivePath string) (string, error) {
	sum, err := Checksum(archivePath)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(archivePath+ChecksumSuffix, []byte(sum+"\n"), 0o644); err != nil {
		return "", err
	}
	return sum, nil
}
