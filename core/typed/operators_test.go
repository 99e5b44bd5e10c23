package typed

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/tref-go/core/future"
	"github.com/codewandler/tref-go/core/runtime"
)

func TestSender_defaults_to_no_sender(t *testing.T) {
	require.Nil(t, runtime.SenderFrom(t.Context()))
}

func TestTell_reads_sender_from_context(t *testing.T) {
	r := newStubRef("/user/worker")
	caller := newStubRef("/user/caller")

	ctx := runtime.WithSender(t.Context(), caller)
	Tell(ctx, Wrap[ping](r), ping{Seq: 7})

	got := r.recorded()
	require.Len(t, got, 1)
	require.Equal(t, ping{Seq: 7}, got[0].msg)
	require.Same(t, caller, got[0].sender)
}

func TestTell_without_sender_context(t *testing.T) {
	r := newStubRef("/user/worker")

	Tell(t.Context(), Wrap[ping](r), ping{Seq: 1})

	got := r.recorded()
	require.Len(t, got, 1)
	require.Nil(t, got[0].sender)
}

func TestPipeResult_success(t *testing.T) {
	r := newStubRef("/user/collector")
	sender := newStubRef("/user/origin")

	p := future.NewPromise[pong]()
	PipeResult(p.Future(), Wrap[pong](r), sender)

	// Nothing delivered until the computation settles.
	require.Empty(t, r.recorded())

	p.Complete(pong{Seq: 3})
	p.Complete(pong{Seq: 4}) // late settle is ignored
	p.Fail(fmt.Errorf("late"))

	got := r.recorded()
	require.Len(t, got, 1, "exactly one message per computation")
	require.Equal(t, pong{Seq: 3}, got[0].msg)
	require.Same(t, sender, got[0].sender)
}

func TestPipeResult_failure_wrapped(t *testing.T) {
	r := newStubRef("/user/collector")
	cause := fmt.Errorf("computation exploded")

	p := future.NewPromise[pong]()
	PipeResult(p.Future(), Wrap[pong](r), runtime.NoSender)
	p.Fail(cause)

	got := r.recorded()
	require.Len(t, got, 1)

	failure, ok := got[0].msg.(Failure)
	require.True(t, ok, "failure must arrive as a wrapped message, got %T", got[0].msg)
	require.ErrorIs(t, failure, cause)
}

func TestPipeResult_cancellation_is_a_failure(t *testing.T) {
	r := newStubRef("/user/collector")

	ctx, cancel := context.WithCancel(t.Context())
	p := future.NewPromise[pong]()
	go func() {
		<-ctx.Done()
		p.Fail(ctx.Err())
	}()

	PipeResult(p.Future(), Wrap[pong](r), runtime.NoSender)
	cancel()

	<-p.Future().Done()
	got := r.recorded()
	require.Len(t, got, 1)
	failure, ok := got[0].msg.(Failure)
	require.True(t, ok)
	require.ErrorIs(t, failure, context.Canceled)
}

func TestPipeTo_and_PipeInto_use_no_sender(t *testing.T) {
	r1 := newStubRef("/user/a")
	r2 := newStubRef("/user/b")

	PipeTo(future.Completed(pong{Seq: 1}), Wrap[pong](r1))
	PipeInto(Wrap[pong](r2), future.Completed(pong{Seq: 2}))

	got1 := r1.recorded()
	require.Len(t, got1, 1)
	require.Equal(t, pong{Seq: 1}, got1[0].msg)
	require.Nil(t, got1[0].sender)

	got2 := r2.recorded()
	require.Len(t, got2, 1)
	require.Equal(t, pong{Seq: 2}, got2[0].msg)
	require.Nil(t, got2[0].sender)
}
