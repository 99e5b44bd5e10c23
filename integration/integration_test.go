package integration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/tref-go/adapters/nats"
	"github.com/codewandler/tref-go/core/codec"
	"github.com/codewandler/tref-go/core/runtime"
	"github.com/codewandler/tref-go/core/system"
	"github.com/codewandler/tref-go/core/typed"
)

type (
	add struct {
		A int `json:"a"`
		B int `json:"b"`
	}
	sum struct {
		V int `json:"v"`
	}
	note struct {
		Text string `json:"text"`
	}
)

func newRegistry() *codec.Registry {
	r := codec.NewRegistry()
	codec.Register[add](r)
	codec.Register[sum](r)
	codec.Register[note](r)
	return r
}

// Full wire round trip: a local actor bound to NATS, driven from a second
// connection through typed references, selections, and surrogates.
func TestNATS_typed_round_trip(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test, starts a container")
	}

	connect := nats.ReuseConnection(nats.NewTestContainer(t))
	registry := newRegistry()

	// Server side.
	sys := system.New(system.Options{Name: "integration"})
	t.Cleanup(sys.Shutdown)

	serverRT, err := nats.New(nats.Options{Connect: connect, Codec: registry})
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverRT.Close() })

	notes := make(chan note, 4)
	_, err = sys.Spawn("/user/adder", system.HandlerFunc(func(c *system.Context) {
		switch m := c.Message().(type) {
		case add:
			c.Reply(sum{V: m.A + m.B})
		case note:
			notes <- m
		}
	}))
	require.NoError(t, err)

	_, err = nats.Bind(serverRT, sys, "/user/adder")
	require.NoError(t, err)

	// Client side.
	clientRT, err := nats.New(nats.Options{Connect: connect, Codec: registry})
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientRT.Close() })

	adder := typed.Wrap[add](clientRT.Ref("/user/adder"))

	t.Run("ask", func(t *testing.T) {
		got, err := typed.Ask[sum](t.Context(), adder, add{A: 2, B: 3}, 5*time.Second).Result(t.Context())
		require.NoError(t, err)
		require.Equal(t, sum{V: 5}, got)
	})

	t.Run("ask with wrong expectation", func(t *testing.T) {
		_, err := typed.Ask[note](t.Context(), adder, add{A: 1, B: 1}, 5*time.Second).Result(t.Context())
		require.ErrorIs(t, err, typed.ErrUnexpectedReply)
	})

	t.Run("tell", func(t *testing.T) {
		retyped := typed.Switch[note](adder)
		typed.Tell(t.Context(), retyped, note{Text: "fire and forget"})

		select {
		case got := <-notes:
			require.Equal(t, "fire and forget", got.Text)
		case <-time.After(5 * time.Second):
			t.Fatal("note never arrived")
		}
	})

	t.Run("selection resolve and ask", func(t *testing.T) {
		sel := typed.Select[add](clientRT, "/user/add*")
		resolved, err := sel.ResolveOne(t.Context(), 5*time.Second).Result(t.Context())
		require.NoError(t, err)
		require.Equal(t, "/user/adder", resolved.Path())

		got, err := typed.Ask[sum](t.Context(), resolved, add{A: 4, B: 6}, 5*time.Second).Result(t.Context())
		require.NoError(t, err)
		require.Equal(t, sum{V: 10}, got)
	})

	t.Run("selection send fans out over wildcard", func(t *testing.T) {
		typed.Select[note](clientRT, "/user/*").Tell(note{Text: "broadcast"}, runtime.NoSender)

		select {
		case got := <-notes:
			require.Equal(t, "broadcast", got.Text)
		case <-time.After(5 * time.Second):
			t.Fatal("broadcast never arrived")
		}
	})

	t.Run("surrogate crosses the wire as json", func(t *testing.T) {
		sur, err := typed.Export(adder, clientRT)
		require.NoError(t, err)

		data, err := json.Marshal(sur)
		require.NoError(t, err)
		require.JSONEq(t, `{"ref":{"path":"/user/adder"}}`, string(data))

		var decoded struct {
			Ref nats.RefSurrogate `json:"ref"`
		}
		require.NoError(t, json.Unmarshal(data, &decoded))

		restored, err := typed.Restore[add](typed.Surrogate{Ref: &decoded.Ref}, clientRT)
		require.NoError(t, err)
		require.True(t, adder.Equal(restored))

		got, err := typed.Ask[sum](t.Context(), restored, add{A: 7, B: 8}, 5*time.Second).Result(t.Context())
		require.NoError(t, err)
		require.Equal(t, sum{V: 15}, got)
	})

	t.Run("resolve timeout when nothing answers", func(t *testing.T) {
		_, err := clientRT.Selection("/user/nothing").ResolveOne(t.Context(), time.Second).Result(t.Context())
		require.ErrorIs(t, err, runtime.ErrResolveTimeout)
	})
}
