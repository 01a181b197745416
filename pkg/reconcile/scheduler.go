package reconcile

// enqueue marks c dirty and schedules a flush when the dirty queue was empty.
func (r *Reconciler) enqueue(c *Base) {
	if c.dirty {
		return
	}
	c.dirty = true
	r.dirty = append(r.dirty, c)
	if len(r.dirty) == 1 {
		if r.opts.Debounce != nil {
			r.opts.Debounce(r.Rerender)
		} else {
			r.QueueMicrotask(r.Rerender)
		}
	}
}

// Rerender flushes the dirty queue, rendering every component still marked
// dirty. Components queued while flushing wait for the next flush.
func (r *Reconciler) Rerender() {
	list := r.dirty
	r.dirty = nil
	for len(list) > 0 {
		c := list[len(list)-1]
		list = list[:len(list)-1]
		if c.dirty {
			r.renderComponent(c, renderAsync, false, false, scope{})
		}
	}
}

// Pending returns the number of components waiting for a flush.
func (r *Reconciler) Pending() int {
	return len(r.dirty)
}

// QueueMicrotask schedules fn to run at the next microtask checkpoint: after
// the current loop task, or on the next RunMicrotasks call.
func (r *Reconciler) QueueMicrotask(fn func()) {
	r.microtasks = append(r.microtasks, fn)
}

// RunMicrotasks drains the microtask queue, including microtasks queued
// while draining.
func (r *Reconciler) RunMicrotasks() {
	for len(r.microtasks) > 0 {
		fn := r.microtasks[0]
		r.microtasks[0] = nil
		r.microtasks = r.microtasks[1:]
		fn()
	}
	r.microtasks = nil
}
