package typedarray

// IterationKind selects what an Iterator yields.
type IterationKind uint8

// The iteration kinds of %ArrayIteratorPrototype%.
const (
	IterateValues IterationKind = iota
	IterateKeys
	IterateEntries
)

// Iterator walks a view without snapshotting its length: every call to Next
// evaluates the view again, so growing the buffer during iteration extends it
// and shrinking it ends it early. A view that goes out of bounds mid-iteration
// is a TypeError.
type Iterator struct {
	view  *View
	kind  IterationKind
	index int
	done  bool
}

// Values returns an iterator over the elements.
func (v *View) Values() (*Iterator, error) {
	return v.iterator("%TypedArray%.prototype.values", IterateValues)
}

// Keys returns an iterator over the indices.
func (v *View) Keys() (*Iterator, error) {
	return v.iterator("%TypedArray%.prototype.keys", IterateKeys)
}

// Entries returns an iterator over [index, value] pairs.
func (v *View) Entries() (*Iterator, error) {
	return v.iterator("%TypedArray%.prototype.entries", IterateEntries)
}

func (v *View) iterator(method string, kind IterationKind) (*Iterator, error) {
	if _, err := v.Validate(method); err != nil {
		return nil, err
	}
	return &Iterator{view: v, kind: kind}, nil
}

// Next returns the next result. The bool is true once the iterator is
// exhausted, after which it stays exhausted. Entries are returned as a
// two-element ArrayLike.
func (it *Iterator) Next() (Value, bool, error) {
	if it.done {
		return Undefined, true, nil
	}
	state, err := it.view.Validate("%ArrayIteratorPrototype%.next")
	if err != nil {
		return nil, false, err
	}
	if it.index >= state.Length {
		it.done = true
		return Undefined, true, nil
	}

	k := it.index
	it.index++
	switch it.kind {
	case IterateKeys:
		return float64(k), false, nil
	case IterateEntries:
		return ArrayLike{float64(k), it.view.read(k)}, false, nil
	default:
		return it.view.read(k), false, nil
	}
}
