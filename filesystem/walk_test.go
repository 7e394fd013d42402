package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// createTestTree creates files (and their parent directories) below root
func createTestTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func relPaths(t *testing.T, root string, opts WalkOptions) []string {
	t.Helper()
	var got []string
	err := Walk(root, opts, func(path string, info os.FileInfo, depth int) error {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		got = append(got, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	sort.Strings(got)
	return got
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestWalk_SkipsDefaultIgnoreDirs(t *testing.T) {
	tmpDir := t.TempDir()
	createTestTree(t, tmpDir,
		"src/main.rs",
		"target/debug/app",
		"node_modules/pkg/index.js",
	)

	got := relPaths(t, tmpDir, WalkOptions{})
	want := []string{"src", "src/main.rs"}
	if !equalStrings(got, want) {
		t.Errorf("Walk() visited %v, want %v", got, want)
	}
}

func TestWalk_Hidden(t *testing.T) {
	tmpDir := t.TempDir()
	createTestTree(t, tmpDir, ".env", ".config/settings.json", "visible.txt")

	got := relPaths(t, tmpDir, WalkOptions{})
	if !equalStrings(got, []string{"visible.txt"}) {
		t.Errorf("Walk() without hidden = %v", got)
	}

	got = relPaths(t, tmpDir, WalkOptions{IncludeHidden: true})
	want := []string{".config", ".config/settings.json", ".env", "visible.txt"}
	if !equalStrings(got, want) {
		t.Errorf("Walk() with hidden = %v, want %v", got, want)
	}
}

func TestWalk_MaxDepth(t *testing.T) {
	tmpDir := t.TempDir()
	createTestTree(t, tmpDir, "a/b/c/d.txt", "top.txt")

	depths := map[string]int{}
	err := Walk(tmpDir, WalkOptions{MaxDepth: 2}, func(path string, info os.FileInfo, depth int) error {
		rel, _ := filepath.Rel(tmpDir, path)
		depths[filepath.ToSlash(rel)] = depth
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]int{"a": 1, "a/b": 2, "top.txt": 1}
	if len(depths) != len(want) {
		t.Fatalf("Walk() visited %v, want %v", depths, want)
	}
	for k, v := range want {
		if depths[k] != v {
			t.Errorf("depth[%s] = %d, want %d", k, depths[k], v)
		}
	}
}

func TestWalk_IgnorePatterns(t *testing.T) {
	tmpDir := t.TempDir()
	createTestTree(t, tmpDir,
		"keep.go",
		"scratch.tmp",
		"nested/deep/old.tmp",
		"nested/deep/keep.md",
		"docs/guide.md",
	)

	got := relPaths(t, tmpDir, WalkOptions{IgnorePatterns: []string{"*.tmp", "docs"}})
	want := []string{"keep.go", "nested", "nested/deep", "nested/deep/keep.md"}
	if !equalStrings(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}

func TestWalk_InvalidPattern(t *testing.T) {
	err := Walk(t.TempDir(), WalkOptions{IgnorePatterns: []string{"src/[abc"}}, func(string, os.FileInfo, int) error {
		return nil
	})
	if err == nil {
		t.Error("expected error for invalid glob pattern")
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	err := Walk(filepath.Join(t.TempDir(), "nope"), WalkOptions{}, func(string, os.FileInfo, int) error {
		return nil
	})
	if err == nil {
		t.Error("expected error for missing root")
	}
}

func TestCompilePatterns_MatchAtAnyDepth(t *testing.T) {
	patterns, err := CompilePatterns([]string{"*.tmp", "docs/*.md"})
	if err != nil {
		t.Fatalf("CompilePatterns() error = %v", err)
	}

	tests := []struct {
		rel  string
		want bool
	}{
		{"a.tmp", true},
		{"nested/old.tmp", true},
		{"nested/deep/old.tmp", true},
		{"nested/deep/old.tmp.go", false},
		{"docs/guide.md", true},
		{"nested/docs/guide.md", false},
		{"keep.go", false},
	}
	for _, tt := range tests {
		matched := false
		for _, p := range patterns {
			if p.Match(tt.rel) {
				matched = true
			}
		}
		if matched != tt.want {
			t.Errorf("ignored(%q) = %v, want %v", tt.rel, matched, tt.want)
		}
	}
}
