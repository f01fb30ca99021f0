// Package flatfile stores homogeneous tabular records in newline-delimited
// text files, one record per line, fields joined by " | ".
//
// Every table is addressed by file name relative to the store directory and
// every lookup is a linear scan keyed by column index. Typed repositories
// sit on top of this package; nothing outside them should index records by
// position.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Delimiter separates fields on disk. Reads and writes share it.
const Delimiter = " | "

var (
	// ErrNotFound is returned when no record matches a key.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidField is returned when a field cannot be stored without
	// corrupting the line layout.
	ErrInvalidField = errors.New("field contains delimiter or line break")
)

// StoreError wraps an I/O failure on a table file.
type StoreError struct {
	Op   string
	File string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("flatfile %s %s: %v", e.Op, e.File, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Record is one line of a table split into fields.
type Record []string

// Field returns the field at i, or "" when the record is shorter.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

func (r Record) matches(column int, value string) bool {
	return column >= 0 && column < len(r) && r[column] == value
}

// Store is a directory of table files. A Store serialises its own writers;
// other processes writing the same files are not coordinated.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// New returns a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StoreError{Op: "init", File: dir, Err: err}
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(file string) string {
	return filepath.Join(s.dir, file)
}

// ReadAll returns every non-blank line of file split into fields. A missing
// file is created under the write lock and reads as an empty table.
func (s *Store) ReadAll(file string) ([]Record, error) {
	s.mu.RLock()
	if _, err := os.Stat(s.path(file)); err == nil {
		defer s.mu.RUnlock()
		return s.readAll(file)
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll(file)
}

func (s *Store) readAll(file string) ([]Record, error) {
	lines, err := s.readLines(file)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		records = append(records, Parse(line))
	}
	return records, nil
}

// readLines returns the non-blank lines of file verbatim.
func (s *Store) readLines(file string) ([]string, error) {
	f, err := os.OpenFile(s.path(file), os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, s.fail("read", file, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, s.fail("read", file, err)
	}
	return lines, nil
}

// Append writes fields as one new line at the end of file. It does not
// check keys for uniqueness; use Tx when a check must precede the write.
func (s *Store) Append(file string, fields ...string) error {
	line, err := Format(fields...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLine(file, line)
}

func (s *Store) appendLine(file, line string) error {
	f, err := os.OpenFile(s.path(file), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return s.fail("append", file, err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return s.fail("append", file, err)
	}
	if err := f.Close(); err != nil {
		return s.fail("append", file, err)
	}
	return nil
}

// FindFirst returns the first record whose field at column equals value.
func (s *Store) FindFirst(file string, column int, value string) (Record, error) {
	records, err := s.ReadAll(file)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.matches(column, value) {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

// FindAll returns every record whose field at column equals value, in file
// order. No match is an empty slice, not an error.
func (s *Store) FindAll(file string, column int, value string) ([]Record, error) {
	records, err := s.ReadAll(file)
	if err != nil {
		return nil, err
	}
	matched := make([]Record, 0)
	for _, r := range records {
		if r.matches(column, value) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// Update replaces the first record whose field at column equals value with
// fields and rewrites the file. Other lines are kept byte for byte.
func (s *Store) Update(file string, column int, value string, fields ...string) error {
	line, err := Format(fields...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLine(file, column, value, line)
}

func (s *Store) updateLine(file string, column int, value, line string) error {
	lines, err := s.readLines(file)
	if err != nil {
		return err
	}
	idx := indexOf(lines, column, value)
	if idx < 0 {
		return ErrNotFound
	}
	lines[idx] = line
	return s.rewrite(file, lines)
}

// Delete removes the first record whose field at column equals value and
// rewrites the file. The file is untouched when nothing matches.
func (s *Store) Delete(file string, column int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.readLines(file)
	if err != nil {
		return err
	}
	idx := indexOf(lines, column, value)
	if idx < 0 {
		return ErrNotFound
	}
	lines = append(lines[:idx], lines[idx+1:]...)
	return s.rewrite(file, lines)
}

// Clear truncates file to an empty table.
func (s *Store) Clear(file string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewrite(file, nil)
}

func indexOf(lines []string, column int, value string) int {
	for i, line := range lines {
		if Parse(line).matches(column, value) {
			return i
		}
	}
	return -1
}

// rewrite replaces file with lines through a temp file and rename so a
// crash leaves either the old or the new content.
func (s *Store) rewrite(file string, lines []string) error {
	target := s.path(file)
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(file)+".*.tmp")
	if err != nil {
		return s.fail("rewrite", file, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			cleanup()
			return s.fail("rewrite", file, err)
		}
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return s.fail("rewrite", file, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return s.fail("rewrite", file, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return s.fail("rewrite", file, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return s.fail("rewrite", file, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return s.fail("rewrite", file, err)
	}
	return nil
}

func (s *Store) fail(op, file string, err error) error {
	storeErr := &StoreError{Op: op, File: file, Err: err}
	log.Printf("[flatfile] %v", storeErr)
	return storeErr
}

// Parse splits a stored line into fields.
func Parse(line string) Record {
	return Record(strings.Split(line, Delimiter))
}

// Format joins fields into a stored line. Fields holding the delimiter or a
// line break are rejected because the format has no escaping, as are fields
// ending in " |", which would merge with the following delimiter.
func Format(fields ...string) (string, error) {
	for _, f := range fields {
		if strings.Contains(f, Delimiter) || strings.HasSuffix(f, " |") || strings.ContainsAny(f, "\r\n") {
			return "", fmt.Errorf("%w: %q", ErrInvalidField, f)
		}
	}
	return strings.Join(fields, Delimiter), nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Sanitize rewrites free text so that Format accepts it: line breaks become
// spaces and embedded delimiters become " / ".
func Sanitize(s string) string {
	s = strings.TrimSpace(lineBreaks.Replace(s))
	s = strings.ReplaceAll(s, Delimiter, " / ")
	return strings.TrimRight(s, " |")
}
