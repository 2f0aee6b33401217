package file

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// ValidateByHash compares the file at the given path against the expected hash string
// (of the form "<algorithm>:<digest>") and reports the actual hash in the same form.
func ValidateByHash(fs afero.Fs, path, hashStr string) (bool, string, error) {
	var hasher hash.Hash
	var hashFn string
	switch {
	case strings.HasPrefix(hashStr, "sha256:"):
		hashFn = "sha256"
		hasher = sha256.New()
	default:
		return false, "", fmt.Errorf("hasher not supported or specified (given: %s)", hashStr)
	}

	expected := strings.TrimPrefix(hashStr, hashFn+":")

	actual, err := HashFile(fs, path, hasher)
	if err != nil {
		return false, "", err
	}

	return actual == expected, hashFn + ":" + actual, nil
}

func HashFile(fs afero.Fs, path string, hasher hash.Hash) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file '%s': %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("failed to hash file '%s': %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
