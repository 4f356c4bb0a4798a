package httpctx

import (
	"errors"
	"io"
	"sync"
)

// CloserFunc adapts a plain function to [io.Closer].
type CloserFunc func() error

func (f CloserFunc) Close() error { return f() }

// Disposables collects request-scoped resources and releases them exactly
// once, in reverse order of registration.
//
// A resource added after Release has run is closed immediately.
type Disposables struct {
	mu       sync.Mutex
	items    []io.Closer
	released bool
}

// Add registers c for release. Nil closers are ignored.
func (d *Disposables) Add(c io.Closer) {
	if c == nil {
		return
	}

	d.mu.Lock()
	if d.released {
		d.mu.Unlock()
		_ = c.Close()
		return
	}
	d.items = append(d.items, c)
	d.mu.Unlock()
}

// AddFunc registers fn for release.
func (d *Disposables) AddFunc(fn func() error) {
	if fn == nil {
		return
	}
	d.Add(CloserFunc(fn))
}

// Len returns the number of resources waiting for release.
func (d *Disposables) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Release closes every registered resource, last registered first, and
// returns the joined close errors. Subsequent calls return nil.
func (d *Disposables) Release() error {
	d.mu.Lock()
	if d.released {
		d.mu.Unlock()
		return nil
	}
	d.released = true
	items := d.items
	d.items = nil
	d.mu.Unlock()

	var errs []error
	for i := len(items) - 1; i >= 0; i-- {
		if err := items[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
