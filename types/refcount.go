package types

// refCount is a single-owner, non-atomic reference count. release runs when
// the count drops to zero.
type refCount struct {
	release func()
	n       int
}

func newRefCount() refCount {
	return refCount{n: 1}
}

// Ref takes an additional reference.
func (r *refCount) Ref() {
	if r.n <= 0 {
		panic("types: ref of released object")
	}
	r.n++
}

// Unref drops a reference, releasing the object when none remain.
func (r *refCount) Unref() {
	if r.n <= 0 {
		panic("types: unref of released object")
	}
	r.n--
	if r.n == 0 && r.release != nil {
		r.release()
	}
}

// RefCount returns the number of live references.
func (r *refCount) RefCount() int {
	return r.n
}
