package flatfile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func readRaw(t *testing.T, s *Store, file string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(s.Dir(), file))
	if err != nil {
		t.Fatalf("read raw: %v", err)
	}
	return string(b)
}

func TestReadAllCreatesMissingFile(t *testing.T) {
	s := newTestStore(t)

	records, err := s.ReadAll("users.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty table, got %d records", len(records))
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "users.txt")); err != nil {
		t.Fatalf("expected file to be created: %v", err)
	}
}

func TestReadAllSkipsBlankLines(t *testing.T) {
	s := newTestStore(t)
	content := "A | 90 | 100\n\n   \nB | 80 | 89\r\n\n"
	if err := os.WriteFile(filepath.Join(s.Dir(), "grading.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := s.ReadAll("grading.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Record{{"A", "90", "100"}, {"B", "80", "89"}}
	if !reflect.DeepEqual(records, want) {
		t.Fatalf("expected %v, got %v", want, records)
	}
}

func TestAppendThenFindFirst(t *testing.T) {
	s := newTestStore(t)
	fields := []string{"MOD001", "Programming Fundamentals", "AL10001", "LC20001"}

	if err := s.Append("modules.txt", fields...); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := s.FindFirst("modules.txt", 0, "MOD001")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !reflect.DeepEqual([]string(got), fields) {
		t.Fatalf("expected %v, got %v", fields, got)
	}
	if raw := readRaw(t, s, "modules.txt"); raw != "MOD001 | Programming Fundamentals | AL10001 | LC20001\n" {
		t.Fatalf("unexpected file content %q", raw)
	}
}

func TestFindFirstReturnsFirstMatch(t *testing.T) {
	s := newTestStore(t)
	mustAppend(t, s, "results.txt", "RES00001", "ASS001", "TP30001", "70", "ok")
	mustAppend(t, s, "results.txt", "RES00002", "ASS001", "TP30002", "80", "good")

	got, err := s.FindFirst("results.txt", 1, "ASS001")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Field(0) != "RES00001" {
		t.Fatalf("expected first match RES00001, got %s", got.Field(0))
	}

	if _, err := s.FindFirst("results.txt", 1, "ASS999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.FindFirst("results.txt", 9, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for out of range column, got %v", err)
	}
}

func TestFindAll(t *testing.T) {
	s := newTestStore(t)
	mustAppend(t, s, "classes.txt", "CLS001", "MOD001", "2024")
	mustAppend(t, s, "classes.txt", "CLS002", "MOD002", "2024")
	mustAppend(t, s, "classes.txt", "CLS003", "MOD001", "2025")

	got, err := s.FindAll("classes.txt", 1, "MOD001")
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(got) != 2 || got[0].Field(0) != "CLS001" || got[1].Field(0) != "CLS003" {
		t.Fatalf("unexpected matches %v", got)
	}

	none, err := s.FindAll("classes.txt", 1, "MOD404")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty result, got %v, %v", none, err)
	}
}

func TestUpdateReplacesOnlyMatchingRecord(t *testing.T) {
	s := newTestStore(t)
	mustAppend(t, s, "grading.txt", "A", "90", "100")
	mustAppend(t, s, "grading.txt", "B", "80", "89")
	mustAppend(t, s, "grading.txt", "F", "0", "79")

	if err := s.Update("grading.txt", 0, "B", "B", "75", "89"); err != nil {
		t.Fatalf("update: %v", err)
	}

	want := "A | 90 | 100\nB | 75 | 89\nF | 0 | 79\n"
	if raw := readRaw(t, s, "grading.txt"); raw != want {
		t.Fatalf("expected %q, got %q", want, raw)
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	mustAppend(t, s, "grading.txt", "A", "90", "100")
	mustAppend(t, s, "grading.txt", "B", "80", "89")

	if err := s.Update("grading.txt", 0, "A", "A", "85", "100"); err != nil {
		t.Fatalf("first update: %v", err)
	}
	once := readRaw(t, s, "grading.txt")
	if err := s.Update("grading.txt", 0, "A", "A", "85", "100"); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if twice := readRaw(t, s, "grading.txt"); once != twice {
		t.Fatalf("expected identical content, got %q then %q", once, twice)
	}
}

func TestUpdateMissingKey(t *testing.T) {
	s := newTestStore(t)
	mustAppend(t, s, "grading.txt", "A", "90", "100")
	before := readRaw(t, s, "grading.txt")

	if err := s.Update("grading.txt", 0, "Z", "Z", "0", "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if after := readRaw(t, s, "grading.txt"); after != before {
		t.Fatalf("file changed on failed update: %q", after)
	}
}

func TestDeleteRemovesFirstMatchOnly(t *testing.T) {
	s := newTestStore(t)
	mustAppend(t, s, "enrollments.txt", "E1", "TP30001", "CLS001")
	mustAppend(t, s, "enrollments.txt", "E2", "TP30001", "CLS002")
	mustAppend(t, s, "enrollments.txt", "E3", "TP30002", "CLS001")

	if err := s.Delete("enrollments.txt", 1, "TP30001"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	records, err := s.ReadAll("enrollments.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Field(0) != "E2" || records[1].Field(0) != "E3" {
		t.Fatalf("unexpected remaining records %v", records)
	}
}

func TestDeleteMissingKeyLeavesFileUnchanged(t *testing.T) {
	s := newTestStore(t)
	mustAppend(t, s, "classes.txt", "CLS001", "MOD001", "2024")
	before := readRaw(t, s, "classes.txt")

	if err := s.Delete("classes.txt", 0, "CLS999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if after := readRaw(t, s, "classes.txt"); after != before {
		t.Fatalf("file changed on failed delete: %q", after)
	}
}

func TestRewriteLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	mustAppend(t, s, "classes.txt", "CLS001", "MOD001", "2024")
	mustAppend(t, s, "classes.txt", "CLS002", "MOD001", "2024")
	if err := s.Update("classes.txt", 0, "CLS001", "CLS001", "MOD001", "2025"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("classes.txt", 0, "CLS002"); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestAppendRejectsInvalidFields(t *testing.T) {
	s := newTestStore(t)
	cases := []string{"a | b", "line\nbreak", "carriage\rreturn", "trailing |"}
	for _, field := range cases {
		if err := s.Append("feedback.txt", "FB1", field); !errors.Is(err, ErrInvalidField) {
			t.Fatalf("expected ErrInvalidField for %q, got %v", field, err)
		}
	}
	records, err := s.ReadAll("feedback.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("expected nothing written, got %v", records)
	}
}

func TestUpdateRejectsInvalidFields(t *testing.T) {
	s := newTestStore(t)
	mustAppend(t, s, "classes.txt", "CLS001", "MOD001", "2024")
	if err := s.Update("classes.txt", 0, "CLS001", "CLS001", "MOD001", "a | b"); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	mustAppend(t, s, "classes.txt", "CLS001", "MOD001", "2024")
	if err := s.Clear("classes.txt"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if raw := readRaw(t, s, "classes.txt"); raw != "" {
		t.Fatalf("expected empty file, got %q", raw)
	}
}

func TestIOErrorIsDistinguishable(t *testing.T) {
	s := newTestStore(t)
	// A directory where a table file is expected cannot be opened for reading lines.
	if err := os.Mkdir(filepath.Join(s.Dir(), "broken.txt"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := s.ReadAll("broken.txt")
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("I/O failure must not look like not-found")
	}
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *StoreError, got %T", err)
	}
	if storeErr.File != "broken.txt" {
		t.Fatalf("unexpected file in error: %s", storeErr.File)
	}
}

func TestRecordField(t *testing.T) {
	r := Record{"a", "b"}
	if r.Field(1) != "b" || r.Field(2) != "" || r.Field(-1) != "" {
		t.Fatalf("unexpected field access results")
	}
}

func mustAppend(t *testing.T, s *Store, file string, fields ...string) {
	t.Helper()
	if err := s.Append(file, fields...); err != nil {
		t.Fatalf("append %v: %v", fields, err)
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"plain":                 "plain",
		"two\nlines\r\nhere":    "two lines here",
		"a | b":                 "a / b",
		"  ends with pipe | ":   "ends with pipe",
		"ends with bare pipe |": "ends with bare pipe",
	}
	for in, want := range cases {
		got := Sanitize(in)
		if got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
		}
		if _, err := Format(got); err != nil {
			t.Fatalf("sanitized %q still rejected: %v", got, err)
		}
	}
}
