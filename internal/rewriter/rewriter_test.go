package rewriter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

const page = `<section class="hero">
  <img src="../assets/images/a.jpg" alt="Hero">
  <picture><source srcset="../assets/images/a.jpg"></picture>
</section>`

func TestRewrite(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		mappings models.ReferenceMapping
		want     string
		count    int
	}{
		{
			name:     "two occurrences",
			html:     `<img src="../assets/images/a.jpg"><img src="../assets/images/a.jpg">`,
			mappings: models.ReferenceMapping{{Old: "a.jpg", New: "a_hero.webp"}},
			want:     `<img src="../assets/images/a_hero.webp"><img src="../assets/images/a_hero.webp">`,
			count:    2,
		},
		{
			name:     "no match",
			html:     `<img src="b.png">`,
			mappings: models.ReferenceMapping{{Old: "a.jpg", New: "a_hero.webp"}},
			want:     `<img src="b.png">`,
			count:    0,
		},
		{
			name:     "literal not regex",
			html:     `<img src="a.jpg"><img src="aXjpg">`,
			mappings: models.ReferenceMapping{{Old: "a.jpg", New: "z.webp"}},
			want:     `<img src="z.webp"><img src="aXjpg">`,
			count:    1,
		},
		{
			name:     "prefix must match verbatim",
			html:     `<img src="./assets/images/a.jpg">`,
			mappings: models.ReferenceMapping{{Old: "../assets/images/a.jpg", New: "../assets/images/a_hero.webp"}},
			want:     `<img src="./assets/images/a.jpg">`,
			count:    0,
		},
		{
			name: "applied in order",
			html: `a.jpg b.jpg`,
			mappings: models.ReferenceMapping{
				{Old: "a.jpg", New: "b.jpg"},
				{Old: "b.jpg", New: "c.webp"},
			},
			want:  `c.webp c.webp`,
			count: 3,
		},
		{
			name:     "empty old ignored",
			html:     `x`,
			mappings: models.ReferenceMapping{{Old: "", New: "y"}},
			want:     `x`,
			count:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := Rewrite(tt.html, tt.mappings)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, n)
		})
	}
}

func TestRewriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o644))

	mappings := models.ReferenceMapping{{Old: "a.jpg", New: "a_hero.webp"}}

	preview, err := CountFile(path, mappings)
	require.NoError(t, err)
	assert.Equal(t, 2, preview)

	n, err := RewriteFile(path, mappings)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "a.jpg")
	assert.Contains(t, string(data), "../assets/images/a_hero.webp")
}

func TestRewriteFile_NoMatchLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o644))

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, past, past))

	n, err := RewriteFile(path, models.ReferenceMapping{{Old: "missing.jpg", New: "x.webp"}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past), "mtime changed on a zero-match file")
}

func TestRewriteFile_Missing(t *testing.T) {
	_, err := RewriteFile(filepath.Join(t.TempDir(), "nope.html"), nil)
	assert.Error(t, err)
}

func TestDiscoverTemplates(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"fitness/template-1/index.html",
		"fitness/template-1/about.html",
		"fitness/modern/index.html",
		"legal/classic/index.html",
		"legal/classic/styles.css",
		"legal/drafts/index.html",
		"legal/classic/nested/deep.html",
		"top.html",
	}
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("<html></html>"), 0o644))
	}

	got, err := DiscoverTemplates(root, []string{"template-1", "modern", "classic"})
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "fitness", "modern", "index.html"),
		filepath.Join(root, "fitness", "template-1", "about.html"),
		filepath.Join(root, "fitness", "template-1", "index.html"),
		filepath.Join(root, "legal", "classic", "index.html"),
	}
	assert.Equal(t, want, got)
}

func TestDiscoverTemplates_EmptyVariants(t *testing.T) {
	got, err := DiscoverTemplates(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscoverTemplates_MissingRoot(t *testing.T) {
	_, err := DiscoverTemplates(filepath.Join(t.TempDir(), "absent"), DefaultVariants)
	assert.Error(t, err)
}
