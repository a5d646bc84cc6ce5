package inventory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
)

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write(t, filepath.Join(root, "fitness", "assets", "images", "fitness-hero-gym_hero.webp"), "x")
	write(t, filepath.Join(root, "fitness", "assets", "images", "fitness-team-coach.jpg"), "x")
	write(t, filepath.Join(root, "fitness", "assets", "images", "readme.txt"), "x")
	write(t, filepath.Join(root, "fitness", "template-1", "index.html"), `<html><body>
<img src="../assets/images/fitness-hero-gym_hero.webp?v=3">
<picture><source srcset="../assets/images/fitness-avatar-a.webp 1x, ../assets/images/fitness-hero-gym_hero.webp 2x"></picture>
<div style="background-image: url('../assets/images/fitness-bg.jpg')"></div>
<img src="https://cdn.example.com/logo.png">
</body></html>`)
	return root
}

func newTestScanner(root string) *Scanner {
	s := NewScanner(root, []string{"template-1"})
	s.newID = func() string { return "run-1" }
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestExtractReferences(t *testing.T) {
	html := `<img src=" a.jpg "><img srcset="b.webp 480w, c.webp 800w"><section style="background:url(d.png)"></section><img alt="none">`
	refs, err := ExtractReferences(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.webp", "c.webp", "d.png"}, refs)
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		ref   string
		want  string
		local bool
	}{
		{"../assets/images/a.jpg?v=1#x", "../assets/images/a.jpg", true},
		{"assets/images/a.jpg", "assets/images/a.jpg", true},
		{"https://cdn.example.com/a.jpg", "", false},
		{"//cdn.example.com/a.jpg", "", false},
		{"/static/a.jpg", "", false},
		{"data:image/png;base64,AAAA", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := localPath(tt.ref)
			assert.Equal(t, tt.local, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScan(t *testing.T) {
	root := fixture(t)
	inv, err := newTestScanner(root).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", inv.RunID)
	require.Len(t, inv.Templates, 1)
	tpl := inv.Templates[0]
	assert.Equal(t, "fitness/template-1/index.html", tpl.Path)
	assert.Equal(t, "fitness", tpl.Industry)
	assert.Equal(t, "template-1", tpl.Variant)
	assert.Len(t, tpl.References, 5)
	assert.Equal(t, 2, tpl.Missing)

	assert.Equal(t, 5, inv.Total)
	assert.Equal(t, 2, inv.Missing)

	require.Len(t, inv.Industries, 1)
	ind := inv.Industries[0]
	assert.Equal(t, 2, ind.Assets)
	assert.Equal(t, 3, ind.Referenced)
	assert.Equal(t, []string{
		"fitness/assets/images/fitness-avatar-a.webp",
		"fitness/assets/images/fitness-bg.jpg",
	}, ind.Missing)
	assert.Equal(t, []string{"fitness/assets/images/fitness-team-coach.jpg"}, ind.Unreferenced)
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := newTestScanner(filepath.Join(t.TempDir(), "nope")).Scan(context.Background())
	assert.Error(t, err)
}

func TestWriteReportsAndLoad(t *testing.T) {
	root := fixture(t)
	inv, err := newTestScanner(root).Scan(context.Background())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "reports")
	paths, err := WriteReports(inv, out, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(out, JSONFile),
		filepath.Join(out, MarkdownFile),
		filepath.Join(out, HTMLFile),
	}, paths)

	loaded, err := Load(filepath.Join(out, JSONFile))
	require.NoError(t, err)
	assert.Equal(t, inv.RunID, loaded.RunID)
	assert.Equal(t, inv.Missing, loaded.Missing)

	md, err := os.ReadFile(filepath.Join(out, MarkdownFile))
	require.NoError(t, err)
	assert.Contains(t, string(md), "| fitness | 2 | 3 | 2 | 1 |")
	assert.Contains(t, string(md), "`fitness/template-1/index.html` references `../assets/images/fitness-bg.jpg`")

	html, err := os.ReadFile(filepath.Join(out, HTMLFile))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<table>")
	assert.Contains(t, string(html), "<h1>Asset report</h1>")
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, JSONFile))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	bad := filepath.Join(dir, "bad.json")
	write(t, bad, "{")
	_, err = Load(bad)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDecode))
}

func TestMarkdown_Empty(t *testing.T) {
	md := Markdown(&Inventory{RunID: "r"})
	assert.Contains(t, md, "No industry directories found.")
	assert.Contains(t, md, "## Missing assets\n\nNone.")
}
