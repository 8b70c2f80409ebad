package nifwalk

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestCollectFilesFindsNifFilesSorted(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "b.nif"), "(.nif26)(x)")
	writeTestFile(t, filepath.Join(dir, "a.nif"), "(.nif26)(y)")
	writeTestFile(t, filepath.Join(dir, "readme.txt"), "not nif")

	files, err := CollectFiles(dir, Options{})
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 .nif files, got %d: %+v", len(files), files)
	}
	if files[0].RelPath != "a.nif" || files[1].RelPath != "b.nif" {
		t.Fatalf("expected sorted order a.nif,b.nif, got %s,%s", files[0].RelPath, files[1].RelPath)
	}
	if files[0].SHA256Hex == "" {
		t.Fatalf("expected a computed sha256 hash")
	}
}

func TestCollectFilesExcludesDirByBaseName(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "keep.nif"), "(.nif26)(x)")
	writeTestFile(t, filepath.Join(dir, ".git", "skip.nif"), "(.nif26)(x)")

	files, err := CollectFiles(dir, Options{Exclude: map[string]struct{}{".git": {}}})
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "keep.nif" {
		t.Fatalf("expected only keep.nif, got %+v", files)
	}
}

func TestCollectFilesHonorsMaxFileBytes(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "big.nif"), "(.nif26)(0123456789)")

	files, err := CollectFiles(dir, Options{MaxFileBytes: 4})
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected big.nif to be skipped, got %+v", files)
	}
}

func TestCollectFilesHonorsGitignore(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "keep.nif"), "(.nif26)(x)")
	writeTestFile(t, filepath.Join(dir, "ignored.nif"), "(.nif26)(x)")
	writeTestFile(t, filepath.Join(dir, ".gitignore"), "ignored.nif\n")

	files, err := CollectFiles(dir, Options{UseGitignore: true})
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "keep.nif" {
		t.Fatalf("expected only keep.nif after gitignore filtering, got %+v", files)
	}
}
