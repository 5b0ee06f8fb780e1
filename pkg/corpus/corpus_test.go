package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDirLoader(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "diabetes.txt", "糖尿病是一种常见的代谢性疾病。")
	writeFile(t, dir, "nested/insulin.txt", "胰岛素用于治疗糖尿病。")
	writeFile(t, dir, "single.json", `{"text": "二甲双胍是口服降糖药。"}`)
	writeFile(t, dir, "batch.json", `[{"text": "多饮是糖尿病的症状。"}, {"title": "no text"}, {"text": "多尿也是。"}]`)
	writeFile(t, dir, "ignored.csv", "a,b,c")
	writeFile(t, dir, "broken.json", "{not json")

	loader := NewDirLoader(dir)
	texts, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := map[string]string{
		"diabetes.txt":                   "糖尿病是一种常见的代谢性疾病。",
		filepath.Join("nested", "insulin.txt"): "胰岛素用于治疗糖尿病。",
		"single.json":                    "二甲双胍是口服降糖药。",
		"batch.json#0":                   "多饮是糖尿病的症状。",
		"batch.json#2":                   "多尿也是。",
	}

	if len(texts) != len(want) {
		t.Fatalf("loaded %d documents, want %d: %v", len(texts), len(want), texts)
	}
	for id, text := range want {
		if texts[id] != text {
			t.Errorf("texts[%q] = %q, want %q", id, texts[id], text)
		}
	}
}

func TestDirLoaderMissingDir(t *testing.T) {
	loader := NewDirLoader(filepath.Join(t.TempDir(), "does-not-exist"))
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("Load() error = nil, want error for missing directory")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
