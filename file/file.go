package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const DefaultExt = ".mid"

// Stem is the file name without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ArtifactPath names the output for one level: <outDir>/<stem>_<level><ext>,
// keeping the source extension.
func ArtifactPath(src, outDir, level string) string {
	ext := filepath.Ext(src)
	if ext == "" {
		ext = DefaultExt
	}
	return filepath.Join(outDir, fmt.Sprintf("%s_%s%s", Stem(src), level, ext))
}

// WriteAtomic writes data to a uniquely named file next to path, then renames
// it over path. Readers see either the old file or the complete new one.
func WriteAtomic(path string, data []byte) (e error) {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+uuid.New().String()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("could not create temp file in %v: %w", dir, err)
	}
	defer func() {
		if e != nil {
			os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write failed for %v: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync failed for %v: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close failed for %v: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not publish %v: %w", path, err)
	}
	return nil
}

// IsArtifact reports whether path looks like an output of ArtifactPath for
// one of levels.
func IsArtifact(path string, levels []string) bool {
	stem := Stem(path)
	for _, l := range levels {
		if strings.HasSuffix(stem, "_"+l) {
			return true
		}
	}
	return false
}
