package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDirName(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/a/b/c/file.py", "b_c_file_py"},
		{"a/b/c.py", "a_b_c_py"},
		{"one/two/three/four/file.py", "three_four_file_py"},
		{"main.go", "main_go"},
		{"pkg/server.tar.gz", "pkg_server_tar_gz"},
	}

	for _, tc := range cases {
		if got := DirName(tc.path); got != tc.want {
			t.Errorf("DirName(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestWriteSkipsEmptyBuckets(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reviews", "x")

	buckets := Buckets(
		[]string{"junior note"},
		[]string{"senior note"},
		[]string{"manager note"},
		nil, // planner empty
	)

	results, err := Write(dir, buckets)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	for _, name := range []string{"junior_review.md", "senior_review.md", "manager_review.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "planner_review.md")); !os.IsNotExist(err) {
		t.Error("empty planner bucket must not produce a file")
	}

	var skipped int
	for _, r := range results {
		if r.Skipped {
			skipped++
		}
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped bucket, got %d", skipped)
	}
}

func TestWriteContentAndOrder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "r")

	_, err := Write(dir, []Bucket{
		{Name: "junior", Title: "Junior Developer Review", File: "junior_review.md",
			Notes: []string{"first", "second"}},
	})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "junior_review.md"))
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}

	got := string(data)
	want := "# Junior Developer Review\n\nfirst\n\nsecond\n\n"
	if got != want {
		t.Errorf("report content = %q, want %q", got, want)
	}
	if strings.Index(got, "first") > strings.Index(got, "second") {
		t.Error("note order not preserved")
	}
}

func TestWriteIdempotentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "r")
	buckets := Buckets([]string{"a"}, nil, nil, nil)

	if _, err := Write(dir, buckets); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := Write(dir, buckets); err != nil {
		t.Fatalf("second write against existing directory: %v", err)
	}
}

func TestWriteIsolatesBucketFailures(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "r")
	// Occupy the junior report path with a directory so that write fails.
	if err := os.MkdirAll(filepath.Join(dir, "junior_review.md"), 0o755); err != nil {
		t.Fatal(err)
	}

	results, err := Write(dir, Buckets(
		[]string{"junior"}, []string{"senior"}, nil, nil,
	))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var juniorErr, seniorOK bool
	for _, r := range results {
		switch r.Bucket {
		case "junior":
			juniorErr = r.Err != nil
		case "senior":
			seniorOK = r.Err == nil && !r.Skipped
		}
	}
	if !juniorErr {
		t.Error("expected junior bucket to fail")
	}
	if !seniorOK {
		t.Error("junior failure must not prevent the senior bucket")
	}
	if _, err := os.Stat(filepath.Join(dir, "senior_review.md")); err != nil {
		t.Errorf("senior report missing: %v", err)
	}
}
