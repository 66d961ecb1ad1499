package deferred

type indexedResult[T any] struct {
	idx int
	res Result[T]
}

// gather delivers the settled result of every member to sink, tagged with
// its position, in settlement order. Already-settled members are delivered
// first, in position order.
func gather[T any](ds []*Deferred[T]) <-chan indexedResult[T] {
	sink := make(chan indexedResult[T], len(ds))
	for i, d := range ds {
		if d.Settled() {
			sink <- indexedResult[T]{idx: i, res: d.res}
			continue
		}
		go func() {
			<-d.done
			sink <- indexedResult[T]{idx: i, res: d.res}
		}()
	}
	return sink
}

// All settles with every member's value at its position once all members
// succeed. It fails with the first member failure to arrive, without
// waiting for the remaining members, which keep running unobserved.
func All[T any](ds []*Deferred[T]) *Deferred[[]T] {
	values := make([]T, len(ds))
	if len(ds) == 0 {
		return Resolved(values)
	}

	out, settle := New[[]T]()
	sink := gather(ds)
	collect := func() {
		for range ds {
			r := <-sink
			if r.res.Err != nil {
				settle(nil, r.res.Err)
				return
			}
			values[r.idx] = r.res.Value
		}
		settle(values, nil)
	}

	if len(sink) == len(ds) {
		collect()
	} else {
		go collect()
	}
	return out
}

// AllSettled waits for every member and settles with all results in
// position order. It never fails.
func AllSettled[T any](ds []*Deferred[T]) *Deferred[[]Result[T]] {
	results := make([]Result[T], len(ds))
	if len(ds) == 0 {
		return Resolved(results)
	}

	out, settle := New[[]Result[T]]()
	sink := gather(ds)
	collect := func() {
		for range ds {
			r := <-sink
			results[r.idx] = r.res
		}
		settle(results, nil)
	}

	if len(sink) == len(ds) {
		collect()
	} else {
		go collect()
	}
	return out
}
