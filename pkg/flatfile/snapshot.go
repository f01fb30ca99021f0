package flatfile

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Snapshot copies every table file of the store into dst, which is created
// if needed. Writers are held off for the duration of the copy so the
// snapshot is consistent across tables.
func (s *Store) Snapshot(dst string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, s.fail("snapshot", dst, err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, s.fail("snapshot", s.dir, err)
	}

	var copied []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") || strings.HasPrefix(name, ".") {
			continue
		}
		if err := copyFile(filepath.Join(s.dir, name), filepath.Join(dst, name)); err != nil {
			return copied, s.fail("snapshot", name, err)
		}
		copied = append(copied, name)
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
