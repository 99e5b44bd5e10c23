package future

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPromise_complete(t *testing.T) {
	p := NewPromise[int]()

	go func() { p.Complete(42) }()

	v, err := p.Future().Result(t.Context())
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestPromise_fail(t *testing.T) {
	p := NewPromise[int]()
	p.Fail(fmt.Errorf("uups"))

	_, err := p.Future().Result(t.Context())
	require.ErrorContains(t, err, "uups")
}

func TestPromise_first_settle_wins(t *testing.T) {
	p := NewPromise[string]()

	require.True(t, p.Complete("first"))
	require.False(t, p.Complete("second"))
	require.False(t, p.Fail(fmt.Errorf("late")))

	v, err := p.Future().Result(t.Context())
	require.NoError(t, err)
	require.Equal(t, "first", v)
}

func TestFuture_on_complete_exactly_once(t *testing.T) {
	p := NewPromise[int]()

	var calls atomic.Int32
	p.Future().OnComplete(func(v int, err error) {
		calls.Add(1)
	})

	p.Complete(1)
	p.Complete(2)
	p.Fail(fmt.Errorf("late"))

	require.Equal(t, int32(1), calls.Load())
}

func TestFuture_on_complete_after_settle(t *testing.T) {
	f := Completed("hello")

	var got string
	f.OnComplete(func(v string, err error) {
		require.NoError(t, err)
		got = v
	})
	require.Equal(t, "hello", got)
}

func TestFuture_result_context_cancel(t *testing.T) {
	p := NewPromise[int]()

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Future().Result(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The future itself is still pending and can settle later.
	p.Complete(7)
	v, err := p.Future().Result(t.Context())
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestConvert(t *testing.T) {
	p := NewPromise[any]()
	f := Convert(p.Future(), func(v any) (string, error) {
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("not a string: %T", v)
		}
		return s, nil
	})

	p.Complete("pong")

	v, err := f.Result(t.Context())
	require.NoError(t, err)
	require.Equal(t, "pong", v)
}

func TestConvert_conversion_failure(t *testing.T) {
	p := NewPromise[any]()
	f := Convert(p.Future(), func(v any) (string, error) {
		return "", fmt.Errorf("bad value")
	})

	p.Complete(123)

	_, err := f.Result(t.Context())
	require.ErrorContains(t, err, "bad value")
}

func TestConvert_failure_passthrough(t *testing.T) {
	cause := fmt.Errorf("upstream gone")
	f := Convert(Failed[any](cause), func(v any) (int, error) { return 0, nil })

	_, err := f.Result(t.Context())
	require.ErrorIs(t, err, cause)
}
