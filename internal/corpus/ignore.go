package corpus

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// IgnoreFile lists extra patterns excluded from the text layer snapshot.
const IgnoreFile = ".usdshotignore"

// LoadIgnorePatterns returns the patterns listed in root/.usdshotignore.
// Blank lines and # comments are skipped. Without the file nothing is
// excluded.
func LoadIgnorePatterns(root string) []string {
	var patterns []string

	f, err := os.Open(filepath.Join(root, IgnoreFile))
	if err != nil {
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns
}

// MatchesIgnore reports whether the slash-separated relPath is excluded.
// "dir/" matches any path segment, a glob matches the base name and
// anything else is a path prefix.
func MatchesIgnore(relPath string, patterns []string) bool {
	parts := strings.Split(relPath, "/")

	for _, p := range patterns {
		if dir, ok := strings.CutSuffix(p, "/"); ok {
			for _, part := range parts {
				if part == dir {
					return true
				}
			}
			continue
		}
		if matched, _ := path.Match(p, path.Base(relPath)); matched {
			return true
		}
		if relPath == p || strings.HasPrefix(relPath, p+"/") {
			return true
		}
	}
	return false
}
