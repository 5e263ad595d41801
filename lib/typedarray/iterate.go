package typedarray

// Callback is called for each visited element by the iteration methods. It
// may run user code, including code that resizes the view's buffer.
type Callback func(value Value, index int) (Value, error)

// Reducer is the callback of Reduce and ReduceRight.
type Reducer func(accumulator, value Value, index int) (Value, error)

func notCallable(method string) error {
	return newTypeError("%s: callback is not a function", method)
}

// each visits the indices [0, length) in order, where length is taken when
// the view is validated at the start of the call. Elements that became
// unreachable read as undefined. Visiting stops when visit returns false.
func (v *View) each(method string, cb Callback, visit func(k int, value, result Value) bool) error {
	state, err := v.Validate(method)
	if err != nil {
		return err
	}
	if cb == nil {
		return notCallable(method)
	}
	for k := range state.Length {
		value := v.Get(k)
		result, err := cb(value, k)
		if err != nil {
			return err
		}
		if !visit(k, value, result) {
			return nil
		}
	}
	return nil
}

// Every reports whether cb returns a truthy value for every element.
func (v *View) Every(cb Callback) (bool, error) {
	all := true
	err := v.each("%TypedArray%.prototype.every", cb, func(_ int, _, result Value) bool {
		all = ToBoolean(result)
		return all
	})
	return all, err
}

// Some reports whether cb returns a truthy value for any element.
func (v *View) Some(cb Callback) (bool, error) {
	found := false
	err := v.each("%TypedArray%.prototype.some", cb, func(_ int, _, result Value) bool {
		found = ToBoolean(result)
		return !found
	})
	return found, err
}

// ForEach calls cb for every element.
func (v *View) ForEach(cb Callback) error {
	return v.each("%TypedArray%.prototype.forEach", cb, func(int, Value, Value) bool {
		return true
	})
}

// Find returns the first element for which cb returns a truthy value, or
// undefined.
func (v *View) Find(cb Callback) (Value, error) {
	var found Value = Undefined
	err := v.each("%TypedArray%.prototype.find", cb, func(_ int, value, result Value) bool {
		if ToBoolean(result) {
			found = value
			return false
		}
		return true
	})
	return found, err
}

// FindIndex returns the index of the first element for which cb returns a
// truthy value, or -1.
func (v *View) FindIndex(cb Callback) (int, error) {
	index := -1
	err := v.each("%TypedArray%.prototype.findIndex", cb, func(k int, _, result Value) bool {
		if ToBoolean(result) {
			index = k
			return false
		}
		return true
	})
	return index, err
}

// eachReverse is each, visiting from the last index down.
func (v *View) eachReverse(method string, cb Callback, visit func(k int, value, result Value) bool) error {
	state, err := v.Validate(method)
	if err != nil {
		return err
	}
	if cb == nil {
		return notCallable(method)
	}
	for k := state.Length - 1; k >= 0; k-- {
		value := v.Get(k)
		result, err := cb(value, k)
		if err != nil {
			return err
		}
		if !visit(k, value, result) {
			return nil
		}
	}
	return nil
}

// FindLast returns the last element for which cb returns a truthy value, or
// undefined.
func (v *View) FindLast(cb Callback) (Value, error) {
	var found Value = Undefined
	err := v.eachReverse("%TypedArray%.prototype.findLast", cb, func(_ int, value, result Value) bool {
		if ToBoolean(result) {
			found = value
			return false
		}
		return true
	})
	return found, err
}

// FindLastIndex returns the index of the last element for which cb returns a
// truthy value, or -1.
func (v *View) FindLastIndex(cb Callback) (int, error) {
	index := -1
	err := v.eachReverse("%TypedArray%.prototype.findLastIndex", cb, func(k int, _, result Value) bool {
		if ToBoolean(result) {
			index = k
			return false
		}
		return true
	})
	return index, err
}

// Map returns a new array of the same kind and of the length taken at the
// start of the call, holding the results of cb.
func (v *View) Map(cb Callback) (*View, error) {
	const method = "%TypedArray%.prototype.map"

	state, err := v.Validate(method)
	if err != nil {
		return nil, err
	}
	if cb == nil {
		return nil, notCallable(method)
	}
	result, err := NewArray(v.kind, state.Length, v.buffer.inherited()...)
	if err != nil {
		return nil, err
	}
	for k := range state.Length {
		mapped, err := cb(v.Get(k), k)
		if err != nil {
			return nil, err
		}
		if err := result.Set(k, mapped); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Filter returns a new array of the same kind holding the elements for which
// cb returns a truthy value.
func (v *View) Filter(cb Callback) (*View, error) {
	var kept []Value
	err := v.each("%TypedArray%.prototype.filter", cb, func(_ int, value, result Value) bool {
		if ToBoolean(result) {
			kept = append(kept, value)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	result, err := NewArray(v.kind, len(kept), v.buffer.inherited()...)
	if err != nil {
		return nil, err
	}
	for k, value := range kept {
		if err := result.Set(k, value); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Reduce folds the elements from the left. Without an initial value the first
// element is used, and an empty view is a TypeError.
func (v *View) Reduce(reducer Reducer, initial ...Value) (Value, error) {
	return v.reduce("%TypedArray%.prototype.reduce", reducer, initial, false)
}

// ReduceRight folds the elements from the right.
func (v *View) ReduceRight(reducer Reducer, initial ...Value) (Value, error) {
	return v.reduce("%TypedArray%.prototype.reduceRight", reducer, initial, true)
}

func (v *View) reduce(method string, reducer Reducer, initial []Value, fromRight bool) (Value, error) {
	state, err := v.Validate(method)
	if err != nil {
		return nil, err
	}
	if reducer == nil {
		return nil, notCallable(method)
	}
	length := state.Length

	k, step, stop := 0, 1, length
	if fromRight {
		k, step, stop = length-1, -1, -1
	}

	var acc Value
	switch {
	case len(initial) > 0:
		acc = initial[0]
	case length == 0:
		return nil, newTypeError("%s: reduce of empty array with no initial value", method)
	default:
		acc = v.Get(k)
		k += step
	}

	for ; k != stop; k += step {
		if acc, err = reducer(acc, v.Get(k), k); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// ArrayEvery applies the generic Array.prototype.every algorithm to the view:
// the length is read like any array-like's (0 when out of bounds) and indices
// that are no longer present are skipped. It never fails on bounds, so an
// out-of-bounds view is vacuously true.
func (v *View) ArrayEvery(cb Callback) (bool, error) {
	all := true
	err := v.arrayEach("Array.prototype.every", cb, func(result Value) bool {
		all = ToBoolean(result)
		return all
	})
	return all, err
}

// ArraySome applies the generic Array.prototype.some algorithm to the view.
// An out-of-bounds view yields false.
func (v *View) ArraySome(cb Callback) (bool, error) {
	found := false
	err := v.arrayEach("Array.prototype.some", cb, func(result Value) bool {
		found = ToBoolean(result)
		return !found
	})
	return found, err
}

// ArrayForEach applies the generic Array.prototype.forEach algorithm to the view.
func (v *View) ArrayForEach(cb Callback) error {
	return v.arrayEach("Array.prototype.forEach", cb, func(Value) bool { return true })
}

func (v *View) arrayEach(method string, cb Callback, visit func(result Value) bool) error {
	length := v.Length()
	if cb == nil {
		return notCallable(method)
	}
	for k := range length {
		if !v.HasIndex(k) {
			continue
		}
		result, err := cb(v.read(k), k)
		if err != nil {
			return err
		}
		if !visit(result) {
			return nil
		}
	}
	return nil
}
