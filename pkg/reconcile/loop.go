package reconcile

import (
	"context"
	"fmt"

	"github.com/vango-dev/retained/internal/errors"
)

// Post queues fn to run on the goroutine executing Run. It is safe to call
// from any goroutine. After Run has returned Post fails with R002.
func (r *Reconciler) Post(fn func()) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return errors.New("R002")
	}
	r.ingress = append(r.ingress, fn)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run executes posted tasks one at a time until ctx is done. Microtasks,
// including scheduled re-renders, are drained after every task. A panic
// escaping a task stops the loop and is returned as an R003 error.
func (r *Reconciler) Run(ctx context.Context) error {
	defer func() {
		r.mu.Lock()
		r.closed = true
		r.ingress = nil
		r.mu.Unlock()
	}()

	var batch []func()
	for {
		r.mu.Lock()
		batch, r.ingress = r.ingress, batch[:0]
		r.mu.Unlock()

		for i, fn := range batch {
			batch[i] = nil
			if err := r.runTask(fn); err != nil {
				return err
			}
		}
		if len(batch) > 0 && r.opts.OnIdle != nil {
			if err := r.runTask(r.opts.OnIdle); err != nil {
				return err
			}
		}

		r.mu.Lock()
		idle := len(r.ingress) == 0
		r.mu.Unlock()
		if !idle {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.wake:
		}
	}
}

func (r *Reconciler) runTask(fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if pe, ok := p.(error); ok {
				err = errors.New("R003").Wrap(pe)
			} else {
				err = errors.New("R003").WithDetail(fmt.Sprint(p))
			}
		}
	}()
	fn()
	r.RunMicrotasks()
	return nil
}
