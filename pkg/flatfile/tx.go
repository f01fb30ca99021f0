package flatfile

// Tx gives one caller exclusive access to the store so that a read, a
// check and a write happen without another writer in between. A Tx is only
// valid inside the function passed to Store.Tx.
type Tx struct {
	s *Store
}

// Tx runs fn while holding the store's write lock. Nothing written by fn is
// rolled back when fn returns an error; callers validate before writing.
func (s *Store) Tx(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{s: s})
}

// ReadAll returns every record of file as seen inside the transaction.
func (tx *Tx) ReadAll(file string) ([]Record, error) {
	return tx.s.readAll(file)
}

// Append writes fields as one new line at the end of file.
func (tx *Tx) Append(file string, fields ...string) error {
	line, err := Format(fields...)
	if err != nil {
		return err
	}
	return tx.s.appendLine(file, line)
}

// Update replaces the first record whose field at column equals value.
func (tx *Tx) Update(file string, column int, value string, fields ...string) error {
	line, err := Format(fields...)
	if err != nil {
		return err
	}
	return tx.s.updateLine(file, column, value, line)
}

// Rewrite replaces the whole content of file with rows, one line each.
// Nothing is written when any row fails to format.
func (tx *Tx) Rewrite(file string, rows ...[]string) error {
	lines := make([]string, 0, len(rows))
	for _, fields := range rows {
		line, err := Format(fields...)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}
	return tx.s.rewrite(file, lines)
}
