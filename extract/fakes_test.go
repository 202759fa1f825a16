package extract

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type fakeSettings map[string]string

func (f fakeSettings) Get(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

// fakeInvoker records every command line and replies per file name.
type fakeInvoker struct {
	mu       sync.Mutex
	calls    []string
	results  map[string]Result
	errs     map[string]error
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeInvoker) Invoke(spec Spec) (Result, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, strings.Join(append([]string{spec.Executable}, spec.Args...), " "))
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	file := spec.Args[len(spec.Args)-1]
	if err, ok := f.errs[file]; ok {
		return Result{}, err
	}
	return f.results[file], nil
}

func (f *fakeInvoker) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
