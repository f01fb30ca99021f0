package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"anoa.com/academicrecords/pkg/flatfile"
)

// None marks an absent optional reference on disk.
const None = "N/A"

// ErrMalformedRecord is returned when a stored line cannot be mapped to an
// entity.
var ErrMalformedRecord = errors.New("malformed record")

func malformed(kind string, r flatfile.Record, reason string) error {
	return fmt.Errorf("%w: %s %q: %s", ErrMalformedRecord, kind, strings.Join(r, flatfile.Delimiter), reason)
}

func requireFields(kind string, r flatfile.Record, n int) error {
	if len(r) < n {
		return malformed(kind, r, fmt.Sprintf("expected %d fields, got %d", n, len(r)))
	}
	return nil
}

func parseInt(kind string, r flatfile.Record, i int, name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(r.Field(i)))
	if err != nil {
		return 0, malformed(kind, r, name+" is not a number")
	}
	return v, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == None {
		return nil
	}
	return &s
}

func orNone(s *string) string {
	if s == nil || *s == "" {
		return None
	}
	return *s
}
