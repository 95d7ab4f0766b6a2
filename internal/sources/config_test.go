package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBlogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blogs.yaml")
	content := `blogs:
  - https://deepmind.google/discover/blog/
  - https://huggingface.co/blog
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	blogs, err := LoadBlogs(path)
	if err != nil {
		t.Fatalf("LoadBlogs: %v", err)
	}
	if len(blogs) != 2 {
		t.Fatalf("got %d blogs, want 2", len(blogs))
	}
	if blogs[0] != "https://deepmind.google/discover/blog/" {
		t.Errorf("first blog = %q", blogs[0])
	}
}

func TestLoadBlogs_MissingFile(t *testing.T) {
	if _, err := LoadBlogs(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
