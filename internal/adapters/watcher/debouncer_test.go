package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depgraph/internal/adapters/watcher"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) record(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, paths)
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func TestDebouncer_CoalescesAndSorts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec recorder
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/project/src/b.js")
		d.Add("/project/src/a.js")
		d.Add("/project/src/b.js")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		calls := rec.snapshot()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/project/src/a.js", "/project/src/b.js"}, calls[0])
	})
}

func TestDebouncer_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec recorder
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/project/a.js")
		time.Sleep(60 * time.Millisecond)
		d.Add("/project/b.js")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		assert.Empty(t, rec.snapshot(), "second add restarts the window")

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		calls := rec.snapshot()
		require.Len(t, calls, 1)
		assert.Len(t, calls[0], 2)
	})
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec recorder
		d := watcher.NewDebouncer(50*time.Millisecond, rec.record)

		d.Add("/project/a.js")
		time.Sleep(100 * time.Millisecond)
		d.Add("/project/b.js")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/project/a.js"}, {"/project/b.js"}}, rec.snapshot())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec recorder
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/project/a.js")
		d.Flush()
		require.Len(t, rec.snapshot(), 1, "flush runs the callback synchronously")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, rec.snapshot(), 1, "the stopped timer does not fire again")
	})
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	var rec recorder
	d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

	d.Flush()
	assert.Empty(t, rec.snapshot())
}

func TestDebouncer_Flush_AfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec recorder
		d := watcher.NewDebouncer(50*time.Millisecond, rec.record)

		d.Add("/project/a.js")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Flush()
		assert.Len(t, rec.snapshot(), 1)
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec recorder
		d := watcher.NewDebouncer(50*time.Millisecond, rec.record)

		d.Add("/project/a.js")
		d.Stop()
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Flush()
		assert.Empty(t, rec.snapshot())
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/project/a.js")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Add("/project/b.js")
		d.Flush()
	})
}
