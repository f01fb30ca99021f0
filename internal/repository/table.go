// Package repository maps flat-file records to entities. Repositories in
// internal/modules embed a Table for their file and never index records by
// position themselves.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"anoa.com/academicrecords/pkg/apperror"
	"anoa.com/academicrecords/pkg/flatfile"
)

// Entity is anything that can be written as one record.
type Entity interface {
	Record() []string
}

// Decoder maps a stored record to an entity.
type Decoder[T any] func(flatfile.Record) (*T, error)

// Table is a typed view over one file of a store.
type Table[T any] struct {
	store  *flatfile.Store
	file   string
	kind   string
	decode Decoder[T]
}

func NewTable[T any](store *flatfile.Store, file, kind string, decode Decoder[T]) *Table[T] {
	return &Table[T]{store: store, file: file, kind: kind, decode: decode}
}

// File returns the table file name.
func (t *Table[T]) File() string {
	return t.file
}

// Records returns the raw records of the table.
func (t *Table[T]) Records(ctx context.Context) ([]flatfile.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.store.ReadAll(t.file)
}

// All returns every decodable record. Malformed lines are logged and skipped.
func (t *Table[T]) All(ctx context.Context) ([]*T, error) {
	records, err := t.Records(ctx)
	if err != nil {
		return nil, err
	}
	return t.decodeAll(records), nil
}

// Where returns every entity whose field at column equals value.
func (t *Table[T]) Where(ctx context.Context, column int, value string) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := t.store.FindAll(t.file, column, value)
	if err != nil {
		return nil, err
	}
	return t.decodeAll(records), nil
}

// First returns the first entity whose field at column equals value.
func (t *Table[T]) First(ctx context.Context, column int, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := t.store.FindFirst(t.file, column, value)
	if err != nil {
		return nil, t.translate(err, value)
	}
	v, err := t.decode(r)
	if err != nil {
		log.Printf("[repository] %s: %v", t.file, err)
		return nil, fmt.Errorf("%s %s: %w", t.kind, value, apperror.ErrInternal)
	}
	return v, nil
}

// Count returns the number of records in the table.
func (t *Table[T]) Count(ctx context.Context) (int, error) {
	records, err := t.Records(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Insert appends e. Column 0 is the primary key; a second record with the
// same key is refused with apperror.ErrConflict.
func (t *Table[T]) Insert(ctx context.Context, e Entity) error {
	return t.Atomic(ctx, func(tx *Tx[T]) error {
		return tx.Insert(e)
	})
}

// InsertNext builds an entity around the next sequential id for prefix and
// appends it, both under one lock. An error from build aborts the insert.
func (t *Table[T]) InsertNext(ctx context.Context, prefix string, width, floor int, build func(id string) (Entity, error)) error {
	return t.Atomic(ctx, func(tx *Tx[T]) error {
		e, err := build(tx.NextID(prefix, width, floor))
		if err != nil {
			return err
		}
		return tx.Insert(e)
	})
}

// Append writes e without a key check. Only for tables without a primary
// key, such as logs.
func (t *Table[T]) Append(ctx context.Context, e Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.translate(t.store.Append(t.file, e.Record()...), "")
}

// Replace overwrites the first record keyed by value at column.
func (t *Table[T]) Replace(ctx context.Context, column int, value string, e Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.translate(t.store.Update(t.file, column, value, e.Record()...), value)
}

// Remove deletes the first record keyed by value at column.
func (t *Table[T]) Remove(ctx context.Context, column int, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.translate(t.store.Delete(t.file, column, value), value)
}

// Tx is a table view inside a store transaction.
type Tx[T any] struct {
	table   *Table[T]
	tx      *flatfile.Tx
	records []flatfile.Record
}

// Atomic runs fn with exclusive access to the store, so a uniqueness check
// and the write that depends on it cannot interleave with another writer.
func (t *Table[T]) Atomic(ctx context.Context, fn func(tx *Tx[T]) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.store.Tx(func(ftx *flatfile.Tx) error {
		records, err := ftx.ReadAll(t.file)
		if err != nil {
			return err
		}
		return fn(&Tx[T]{table: t, tx: ftx, records: records})
	})
}

// All returns the decodable entities as of the start of the transaction.
func (tx *Tx[T]) All() []*T {
	return tx.table.decodeAll(tx.records)
}

// Find returns the first entity satisfying match, or nil.
func (tx *Tx[T]) Find(match func(*T) bool) *T {
	for _, v := range tx.All() {
		if match(v) {
			return v
		}
	}
	return nil
}

// NextID returns the next sequential id for prefix in column 0.
func (tx *Tx[T]) NextID(prefix string, width, floor int) string {
	return flatfile.NextID(tx.records, prefix, width, floor)
}

// Insert appends e unless its primary key is already taken.
func (tx *Tx[T]) Insert(e Entity) error {
	fields := e.Record()
	key := flatfile.Record(fields).Field(0)
	for _, r := range tx.records {
		if r.Field(0) == key {
			return tx.Conflict(key)
		}
	}
	if err := tx.tx.Append(tx.table.file, fields...); err != nil {
		return tx.table.translate(err, "")
	}
	tx.records = append(tx.records, flatfile.Record(fields))
	return nil
}

// Replace overwrites the first record keyed by value at column.
func (tx *Tx[T]) Replace(column int, value string, e Entity) error {
	fields := e.Record()
	if err := tx.tx.Update(tx.table.file, column, value, fields...); err != nil {
		return tx.table.translate(err, value)
	}
	for i, r := range tx.records {
		if r.Field(column) == value {
			tx.records[i] = flatfile.Record(fields)
			break
		}
	}
	return nil
}

// ReplaceAll rewrites the table with entities, in order.
func (tx *Tx[T]) ReplaceAll(entities ...Entity) error {
	rows := make([][]string, 0, len(entities))
	records := make([]flatfile.Record, 0, len(entities))
	for _, e := range entities {
		fields := e.Record()
		rows = append(rows, fields)
		records = append(records, flatfile.Record(fields))
	}
	if err := tx.tx.Rewrite(tx.table.file, rows...); err != nil {
		return tx.table.translate(err, "")
	}
	tx.records = records
	return nil
}

// Conflict reports a duplicate key on the table.
func (tx *Tx[T]) Conflict(key string) error {
	return fmt.Errorf("%s %s already exists: %w", tx.table.kind, key, apperror.ErrConflict)
}

// InsertUnique appends e unless a stored entity satisfies conflicts.
func (t *Table[T]) InsertUnique(ctx context.Context, key string, e Entity, conflicts func(*T) bool) error {
	return t.Atomic(ctx, func(tx *Tx[T]) error {
		if tx.Find(conflicts) != nil {
			return tx.Conflict(key)
		}
		return tx.Insert(e)
	})
}

func (t *Table[T]) decodeAll(records []flatfile.Record) []*T {
	out := make([]*T, 0, len(records))
	for _, r := range records {
		v, err := t.decode(r)
		if err != nil {
			log.Printf("[repository] %s: skipping %v", t.file, err)
			continue
		}
		out = append(out, v)
	}
	return out
}

func (t *Table[T]) translate(err error, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, flatfile.ErrNotFound):
		return fmt.Errorf("%s %s: %w", t.kind, key, apperror.ErrNotFound)
	case errors.Is(err, flatfile.ErrInvalidField):
		return apperror.New(http.StatusBadRequest, err.Error(), apperror.ErrInvalidInput)
	default:
		return err
	}
}
