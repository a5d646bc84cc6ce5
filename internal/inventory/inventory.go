// Package inventory scans template HTML for image references and reports
// which referenced assets exist on disk.
package inventory

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/filename"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/rewriter"
)

// Report file names written under the report directory.
const (
	JSONFile     = "asset-inventory.json"
	MarkdownFile = "asset-report.md"
	HTMLFile     = "asset-report.html"
)

var cssURL = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)

// Reference is one image URL found in a template.
type Reference struct {
	Ref    string `json:"ref"`
	Path   string `json:"path,omitempty"`
	Exists bool   `json:"exists"`
}

// TemplateEntry lists the image references of one template page.
type TemplateEntry struct {
	Path       string      `json:"path"`
	Industry   string      `json:"industry"`
	Variant    string      `json:"variant"`
	References []Reference `json:"references"`
	Missing    int         `json:"missing"`
}

// IndustryEntry summarizes one industry's asset directory.
type IndustryEntry struct {
	Industry     string   `json:"industry"`
	Assets       int      `json:"assets"`
	Referenced   int      `json:"referenced"`
	Missing      []string `json:"missing,omitempty"`
	Unreferenced []string `json:"unreferenced,omitempty"`
}

// Inventory is the full scan result.
type Inventory struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Root        string          `json:"root"`
	Industries  []IndustryEntry `json:"industries"`
	Templates   []TemplateEntry `json:"templates"`
	Total       int             `json:"total_references"`
	Missing     int             `json:"missing_references"`
}

// Scanner builds inventories for a repository root.
type Scanner struct {
	root     string
	variants []string
	newID    func() string
	now      func() time.Time
}

// NewScanner creates a Scanner over the given template variants.
func NewScanner(root string, variants []string) *Scanner {
	return &Scanner{
		root:     root,
		variants: variants,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Scan reads every discovered template and every industry asset directory.
func (s *Scanner) Scan(ctx context.Context) (*Inventory, error) {
	templates, err := rewriter.DiscoverTemplates(s.root, s.variants)
	if err != nil {
		return nil, err
	}

	inv := &Inventory{
		RunID:       s.newID(),
		GeneratedAt: s.now().UTC(),
		Root:        s.root,
	}

	referenced := make(map[string]map[string]bool)
	missing := make(map[string]map[string]bool)

	for _, tpl := range templates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, err := s.scanTemplate(tpl)
		if err != nil {
			return nil, err
		}
		for _, ref := range entry.References {
			inv.Total++
			if ref.Path == "" {
				continue
			}
			if referenced[entry.Industry] == nil {
				referenced[entry.Industry] = make(map[string]bool)
				missing[entry.Industry] = make(map[string]bool)
			}
			referenced[entry.Industry][ref.Path] = true
			if !ref.Exists {
				inv.Missing++
				missing[entry.Industry][ref.Path] = true
			}
		}
		inv.Templates = append(inv.Templates, entry)
	}

	industries, err := s.industries()
	if err != nil {
		return nil, err
	}
	for _, industry := range industries {
		assets, err := s.assets(industry)
		if err != nil {
			return nil, err
		}
		entry := IndustryEntry{
			Industry:   industry,
			Assets:     len(assets),
			Referenced: len(referenced[industry]),
			Missing:    sortedKeys(missing[industry]),
		}
		for _, a := range assets {
			if !referenced[industry][a] {
				entry.Unreferenced = append(entry.Unreferenced, a)
			}
		}
		inv.Industries = append(inv.Industries, entry)
	}

	return inv, nil
}

func (s *Scanner) scanTemplate(path string) (TemplateEntry, error) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	entry := TemplateEntry{Path: filepath.ToSlash(rel)}
	if len(parts) >= 3 {
		entry.Industry = parts[0]
		entry.Variant = parts[1]
	}

	f, err := os.Open(path)
	if err != nil {
		return entry, apperrors.NewIOError("cannot open template", err).WithDetails(path)
	}
	defer f.Close()

	refs, err := ExtractReferences(f)
	if err != nil {
		return entry, apperrors.NewDecodeError("cannot parse template", err).WithDetails(path)
	}

	dir := filepath.Dir(path)
	for _, ref := range refs {
		r := Reference{Ref: ref}
		if local, ok := localPath(ref); ok {
			abs := filepath.Join(dir, filepath.FromSlash(local))
			if p, err := filepath.Rel(s.root, abs); err == nil {
				r.Path = filepath.ToSlash(p)
			}
			if _, err := os.Stat(abs); err == nil {
				r.Exists = true
			} else {
				entry.Missing++
			}
		}
		entry.References = append(entry.References, r)
	}
	return entry, nil
}

func (s *Scanner) industries() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, apperrors.NewIOError("cannot list asset root", err).WithDetails(s.root)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && filename.IsKnown(e.Name()) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// assets lists image files under <industry>/assets/images as root-relative
// slash paths.
func (s *Scanner) assets(industry string) ([]string, error) {
	dir := filepath.Join(s.root, industry, "assets", "images")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewIOError("cannot list images", err).WithDetails(dir)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(e.Name())), ".")
		if ext != "svg" && !filename.IsSupportedExtension(ext) {
			continue
		}
		out = append(out, industry+"/assets/images/"+e.Name())
	}
	return out, nil
}

// ExtractReferences returns image URLs from img/source src and srcset
// attributes and from inline style url() values, in document order.
func ExtractReferences(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var refs []string
	doc.Find("img, source, [style]").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok && strings.TrimSpace(src) != "" {
			refs = append(refs, strings.TrimSpace(src))
		}
		if srcset, ok := sel.Attr("srcset"); ok {
			refs = append(refs, parseSrcset(srcset)...)
		}
		if style, ok := sel.Attr("style"); ok {
			for _, m := range cssURL.FindAllStringSubmatch(style, -1) {
				refs = append(refs, strings.TrimSpace(m[1]))
			}
		}
	})
	return refs, nil
}

func parseSrcset(srcset string) []string {
	var out []string
	for _, candidate := range strings.Split(srcset, ",") {
		fields := strings.Fields(candidate)
		if len(fields) > 0 {
			out = append(out, fields[0])
		}
	}
	return out
}

// localPath strips query and fragment from ref and reports whether it
// points into the repository.
func localPath(ref string) (string, bool) {
	if strings.HasPrefix(ref, "//") || strings.HasPrefix(ref, "/") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Path == "" {
		return "", false
	}
	return u.Path, true
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
