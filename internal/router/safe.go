package router

import (
	"fmt"
	"path/filepath"
	"strings"

	"usdshot/internal/model"
)

// SafeResolve joins rel onto root and refuses results that leave root.
// Backslashes in rel are treated as separators.
func SafeResolve(root, rel string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	relFs := filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/"))

	var abs string
	if filepath.IsAbs(relFs) {
		abs = filepath.Clean(relFs)
	} else {
		abs = filepath.Join(rootAbs, relFs)
	}

	prefix := rootAbs
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(abs, prefix) {
		return "", fmt.Errorf("%s escapes %s: %w", rel, rootAbs, model.ErrPathForbidden)
	}
	return abs, nil
}
