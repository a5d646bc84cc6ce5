package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
)

// WriteReports writes the JSON inventory and the Markdown report into dir,
// plus an HTML rendering of the Markdown when withHTML is set. It returns
// the written paths.
func WriteReports(inv *Inventory, dir string, withHTML bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewIOError("cannot create report directory", err).WithDetails(dir)
	}

	jsonPath := filepath.Join(dir, JSONFile)
	if err := WriteJSON(inv, jsonPath); err != nil {
		return nil, err
	}

	md := Markdown(inv)
	mdPath := filepath.Join(dir, MarkdownFile)
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return nil, apperrors.NewIOError("cannot write report", err).WithDetails(mdPath)
	}
	paths := []string{jsonPath, mdPath}

	if withHTML {
		htmlPath := filepath.Join(dir, HTMLFile)
		if err := WriteHTMLReport(md, htmlPath); err != nil {
			return nil, err
		}
		paths = append(paths, htmlPath)
	}
	return paths, nil
}

// WriteJSON writes inv as indented JSON.
func WriteJSON(inv *Inventory, path string) error {
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return apperrors.NewInternalError("cannot encode inventory", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return apperrors.NewIOError("cannot write inventory", err).WithDetails(path)
	}
	return nil
}

// Load reads an inventory written by WriteJSON.
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("no inventory has been generated", err).WithDetails(path)
		}
		return nil, apperrors.NewIOError("cannot read inventory", err).WithDetails(path)
	}
	var inv Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, apperrors.NewDecodeError("inventory file is corrupt", err).WithDetails(path)
	}
	return &inv, nil
}

// Markdown renders inv as a human-readable report.
func Markdown(inv *Inventory) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Asset report\n\n")
	fmt.Fprintf(&b, "Generated %s (run `%s`).\n\n", inv.GeneratedAt.Format("2006-01-02 15:04:05 MST"), inv.RunID)
	fmt.Fprintf(&b, "%d image references across %d templates, %d missing.\n\n", inv.Total, len(inv.Templates), inv.Missing)

	b.WriteString("## Industries\n\n")
	if len(inv.Industries) == 0 {
		b.WriteString("No industry directories found.\n\n")
	} else {
		b.WriteString("| Industry | Assets | Referenced | Missing | Unreferenced |\n")
		b.WriteString("|---|---:|---:|---:|---:|\n")
		for _, ind := range inv.Industries {
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %d |\n",
				ind.Industry, ind.Assets, ind.Referenced, len(ind.Missing), len(ind.Unreferenced))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Missing assets\n\n")
	wrote := false
	for _, tpl := range inv.Templates {
		for _, ref := range tpl.References {
			if ref.Path != "" && !ref.Exists {
				fmt.Fprintf(&b, "- `%s` references `%s`\n", tpl.Path, ref.Ref)
				wrote = true
			}
		}
	}
	if !wrote {
		b.WriteString("None.\n")
	}
	b.WriteString("\n")

	b.WriteString("## Unreferenced assets\n\n")
	wrote = false
	for _, ind := range inv.Industries {
		for _, a := range ind.Unreferenced {
			fmt.Fprintf(&b, "- `%s`\n", a)
			wrote = true
		}
	}
	if !wrote {
		b.WriteString("None.\n")
	}

	return b.String()
}

// WriteHTMLReport converts the Markdown report to HTML.
func WriteHTMLReport(markdown, path string) error {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Asset report</title></head><body>\n")
	if err := goldmark.New(goldmark.WithExtensions(extension.GFM)).Convert([]byte(markdown), &buf); err != nil {
		return apperrors.NewEncodeError("cannot render report", err)
	}
	buf.WriteString("</body></html>\n")

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return apperrors.NewIOError("cannot write report", err).WithDetails(path)
	}
	return nil
}
