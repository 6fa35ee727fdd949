package corpus

import (
	"io/fs"
	"os"
	"path/filepath"

	"usdshot/internal/model"
)

// ReadTextFiles snapshots every text layer under root, keyed by its
// slash-separated path relative to root. Paths matched by the ignore
// patterns are left out.
func ReadTextFiles(root string) ([]model.TextFile, error) {
	ignores := LoadIgnorePatterns(root)

	var out []model.TextFile
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && MatchesIgnore(rel, ignores) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsTextLayer(d.Name()) {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out = append(out, model.TextFile{Path: rel, Text: string(data)})
		return nil
	})
	return out, err
}
