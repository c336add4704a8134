// Package listops implements the editor operations applied to list-valued
// content: append with a generated id, remove and replace by id, and manual
// ordering through a mutable displayOrder field.
package listops

import (
	"errors"
	"slices"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no element carries the requested id.
var ErrNotFound = errors.New("list item not found")

// Direction for Move.
type Direction int

const (
	Up Direction = iota
	Down
)

// ParseDirection maps "up"/"down" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	}
	return Up, false
}

// Accessors tell the generic helpers where an element keeps its id and order.
// Order may be nil for lists without manual ordering.
type Accessors[T any] struct {
	ID    func(*T) *string
	Order func(*T) *int
}

// NewID returns a fresh element id.
func NewID() string {
	return uuid.NewString()
}

// IndexOf returns the position of the element with id, or -1.
func (a Accessors[T]) IndexOf(items []T, id string) int {
	for i := range items {
		if *a.ID(&items[i]) == id {
			return i
		}
	}
	return -1
}

// Append adds item with a new id. On ordered lists it is placed last.
// The input slice is not modified.
func (a Accessors[T]) Append(items []T, item T) ([]T, T) {
	*a.ID(&item) = NewID()
	if a.Order != nil {
		*a.Order(&item) = a.NextOrder(items)
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	out = append(out, item)
	return out, item
}

// NextOrder is one past the highest displayOrder in items.
func (a Accessors[T]) NextOrder(items []T) int {
	next := 1
	for i := range items {
		if o := *a.Order(&items[i]); o >= next {
			next = o + 1
		}
	}
	return next
}

// Remove drops the element with id. Other elements keep their ids and order.
func (a Accessors[T]) Remove(items []T, id string) ([]T, error) {
	idx := a.IndexOf(items, id)
	if idx < 0 {
		return items, ErrNotFound
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...), nil
}

// Replace overwrites the element with id in place. The stored id wins over
// whatever id item carries.
func (a Accessors[T]) Replace(items []T, id string, item T) ([]T, error) {
	idx := a.IndexOf(items, id)
	if idx < 0 {
		return items, ErrNotFound
	}
	*a.ID(&item) = id
	out := slices.Clone(items)
	out[idx] = item
	return out, nil
}

// SortByOrder sorts by displayOrder. Equal orders keep their current relative position.
func (a Accessors[T]) SortByOrder(items []T) {
	if a.Order == nil {
		return
	}
	slices.SortStableFunc(items, func(x, y T) int {
		return *a.Order(&x) - *a.Order(&y)
	})
}

// SwapOrder exchanges the displayOrder values of items[i] and items[j] and
// their positions, then re-sorts. The multiset of orders is unchanged.
func (a Accessors[T]) SwapOrder(items []T, i, j int) {
	if i == j || i < 0 || j < 0 || i >= len(items) || j >= len(items) {
		return
	}
	oi, oj := a.Order(&items[i]), a.Order(&items[j])
	*oi, *oj = *oj, *oi
	items[i], items[j] = items[j], items[i]
	a.SortByOrder(items)
}

// Move swaps the element with id and its neighbour in display order.
// Moving past either end is a no-op.
func (a Accessors[T]) Move(items []T, id string, dir Direction) ([]T, error) {
	out := slices.Clone(items)
	a.SortByOrder(out)

	idx := a.IndexOf(out, id)
	if idx < 0 {
		return items, ErrNotFound
	}
	other := idx - 1
	if dir == Down {
		other = idx + 1
	}
	if other < 0 || other >= len(out) {
		return out, nil
	}
	a.SwapOrder(out, idx, other)
	return out, nil
}

// Filter returns the elements for which keep reports true.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
