package deviceinfo

import "iter"

// Iterator walks a list of T exactly once.
//
// Count reports the number of entries the traversal expects to visit. Next
// stores the following entry in out and returns true, or returns false when
// the list is exhausted or the traversal ended. Release ends the traversal;
// Next returns false afterwards.
type Iterator[T any] interface {
	Count() int
	Next(out *T) bool
	Release()
}

// All adapts it to a range-over-func sequence. The iterator is released when
// the loop finishes or breaks.
func All[T any](it Iterator[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		defer it.Release()
		var v T
		for it.Next(&v) {
			if !yield(v) {
				return
			}
		}
	}
}

// sliceIterator iterates a compiled-in table.
type sliceIterator[T any] struct {
	items    []T
	index    int
	released bool
}

func (it *sliceIterator[T]) Count() int {
	return len(it.items)
}

func (it *sliceIterator[T]) Next(out *T) bool {
	if it.released || it.index >= len(it.items) {
		return false
	}
	*out = it.items[it.index]
	it.index++
	return true
}

func (it *sliceIterator[T]) Release() {
	it.released = true
}

// FixedLabelIterator iterates the fixed labels of an endpoint.
type FixedLabelIterator struct {
	sliceIterator[Label]
}

// LocaleIterator iterates the supported locales.
type LocaleIterator struct {
	sliceIterator[string]
}

// CalendarTypeIterator iterates the supported calendar types.
type CalendarTypeIterator struct {
	sliceIterator[CalendarType]
}

var (
	_ Iterator[Label]        = (*FixedLabelIterator)(nil)
	_ Iterator[Label]        = (*UserLabelIterator)(nil)
	_ Iterator[string]       = (*LocaleIterator)(nil)
	_ Iterator[CalendarType] = (*CalendarTypeIterator)(nil)
)
