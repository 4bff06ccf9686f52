package repo

import (
	"slices"
	"sync"
)

// table is the storage behind every in-memory repository: rows keyed by id,
// with ids handed out by the table itself and never reused.
type table[T any] struct {
	mu     sync.RWMutex
	rows   map[int]T
	nextID int
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[int]T{}, nextID: 1}
}

// insert builds the row for the next id. If conflict matches an existing row
// nothing is stored and ErrDuplicatedValueUnique is returned.
func (t *table[T]) insert(conflict func(T) bool, build func(id int) T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if conflict != nil {
		for _, row := range t.rows {
			if conflict(row) {
				var zero T
				return zero, ErrDuplicatedValueUnique
			}
		}
	}

	id := t.nextID
	t.nextID++
	row := build(id)
	t.rows[id] = row
	return row, nil
}

func (t *table[T]) get(id int) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return row, nil
}

// find returns the lowest-id row matching match.
func (t *table[T]) find(match func(T) bool) (T, error) {
	rows := t.list(match)
	if len(rows) == 0 {
		var zero T
		return zero, ErrNotFound
	}
	return rows[0], nil
}

// replace swaps the row stored under id. conflict is checked against every other row.
func (t *table[T]) replace(id int, row T, conflict func(T) bool) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		var zero T
		return zero, ErrNotFound
	}
	if conflict != nil {
		for otherID, other := range t.rows {
			if otherID != id && conflict(other) {
				var zero T
				return zero, ErrDuplicatedValueUnique
			}
		}
	}
	t.rows[id] = row
	return row, nil
}

// modify applies fn to the stored row under the write lock.
func (t *table[T]) modify(id int, fn func(T) (T, error)) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	updated, err := fn(row)
	if err != nil {
		var zero T
		return zero, err
	}
	t.rows[id] = updated
	return updated, nil
}

func (t *table[T]) delete(id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

// list returns copies of the matching rows in id order.
func (t *table[T]) list(match func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]int, 0, len(t.rows))
	for id, row := range t.rows {
		if match == nil || match(row) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

// clear drops every row. Ids keep increasing.
func (t *table[T]) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = map[int]T{}
}
