package helper

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// GenerateUUID creates a random unique UUID string
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID: %v", err)
	}
	return id.String(), nil
}

// EnsureDirs creates the given directories if needed. Idempotent.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create folder %s: %v", dir, err)
		}
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename keeps alphanumerics, dash, underscore and dot, replacing
// everything else with underscores.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(filepath.Base(name), "_")
}

// MakeUniquePath returns a path in destDir for the sanitized base name that
// does not collide with an existing file, appending _1, _2, ... as needed.
func MakeUniquePath(destDir, baseName string) string {
	baseName = SanitizeFilename(baseName)
	full := filepath.Join(destDir, baseName)
	if _, err := os.Stat(full); os.IsNotExist(err) {
		return full
	}
	ext := filepath.Ext(baseName)
	root := baseName[:len(baseName)-len(ext)]
	for i := 1; ; i++ {
		candidate := filepath.Join(destDir, fmt.Sprintf("%s_%d%s", root, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// CopyFile copies src to dst, creating or truncating dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// pretty print
func PrettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Msg("Error pretty printing")
	}
	fmt.Println(string(b))
}
