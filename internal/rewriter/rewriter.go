// Package rewriter replaces image references inside HTML templates.
//
// Matching is literal: "../assets/images/a.jpg" only matches that exact
// text, so references written with a different relative prefix are left
// alone.
package rewriter

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// DefaultVariants are the template variant directories searched beneath
// each industry directory.
var DefaultVariants = []string{"template-1", "template-2", "template-3", "modern", "classic", "minimal"}

// Rewrite applies mappings to html in order and returns the new text with
// the total number of replacements.
func Rewrite(html string, mappings models.ReferenceMapping) (string, int) {
	total := 0
	for _, m := range mappings {
		if m.Old == "" {
			continue
		}
		n := strings.Count(html, m.Old)
		if n == 0 {
			continue
		}
		html = strings.ReplaceAll(html, m.Old, m.New)
		total += n
	}
	return html, total
}

// CountFile reports how many replacements RewriteFile would make.
func CountFile(path string, mappings models.ReferenceMapping) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, apperrors.NewIOError("cannot read template", err).WithDetails(path)
	}
	_, n := Rewrite(string(data), mappings)
	return n, nil
}

// RewriteFile rewrites the template at path. The file is only written when
// at least one replacement was made.
func RewriteFile(path string, mappings models.ReferenceMapping) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, apperrors.NewIOError("cannot stat template", err).WithDetails(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, apperrors.NewIOError("cannot read template", err).WithDetails(path)
	}

	out, n := Rewrite(string(data), mappings)
	if n == 0 {
		return 0, nil
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return 0, apperrors.NewIOError("cannot write template", err).WithDetails(path)
	}
	return n, nil
}

// DiscoverTemplates lists <root>/<industry>/<variant>/*.html for every
// directory directly under root and every name in variants. Results are
// sorted.
func DiscoverTemplates(root string, variants []string) ([]string, error) {
	if len(variants) == 0 {
		return nil, nil
	}
	if _, err := os.Stat(root); err != nil {
		return nil, apperrors.NewIOError("cannot open template root", err).WithDetails(root)
	}

	pattern := "*/{" + strings.Join(variants, ",") + "}/*.html"
	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, apperrors.NewValidationError("invalid template variant list", err).WithDetails(pattern)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(m)))
	}
	sort.Strings(paths)
	return paths, nil
}
