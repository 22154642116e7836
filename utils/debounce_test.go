package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDebouncerCoalescesTriggers(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDebouncer(30 * time.Millisecond)
	var calls int64
	var last atomic.Value

	for _, kw := range []string{"玫", "玫瑰", "玫瑰花"} {
		kw := kw
		d.Trigger(func() {
			atomic.AddInt64(&calls, 1)
			last.Store(kw)
		})
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return atomic.LoadInt64(&calls) == 1 },
		time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
	assert.Equal(t, "玫瑰花", last.Load())
	assert.False(t, d.Pending())
}

func TestDebouncerSeparatedTriggersBothRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDebouncer(10 * time.Millisecond)
	var calls int64

	d.Trigger(func() { atomic.AddInt64(&calls, 1) })
	require.Eventually(t, func() bool { return atomic.LoadInt64(&calls) == 1 },
		time.Second, 2*time.Millisecond)

	d.Trigger(func() { atomic.AddInt64(&calls, 1) })
	require.Eventually(t, func() bool { return atomic.LoadInt64(&calls) == 2 },
		time.Second, 2*time.Millisecond)
}

func TestDebouncerCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDebouncer(20 * time.Millisecond)
	var calls int64

	d.Trigger(func() { atomic.AddInt64(&calls, 1) })
	assert.True(t, d.Pending())
	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())

	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt64(&calls))
}

func TestDebouncerFlushRunsImmediately(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDebouncer(time.Hour)
	ran := false
	d.Trigger(func() { ran = true })
	d.Flush()

	assert.True(t, ran)
	assert.False(t, d.Pending())
}

func TestNewDebouncerClampsNegativeDelay(t *testing.T) {
	assert.Equal(t, time.Duration(0), NewDebouncer(-time.Second).Delay())
}
