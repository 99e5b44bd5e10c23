package system_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/tref-go/core/runtime"
	"github.com/codewandler/tref-go/core/system"
)

func TestSelection_send_broadcasts_to_matches(t *testing.T) {
	sys := newTestSystem(t)

	hits := make(chan string, 3)
	for _, name := range []string{"a", "b", "c"} {
		_, err := sys.Spawn("/user/worker-"+name, system.HandlerFunc(func(*system.Context) {
			hits <- name
		}))
		require.NoError(t, err)
	}
	_, err := sys.Spawn("/other/worker-x", system.HandlerFunc(func(*system.Context) {
		t.Error("pattern must not match across the first element")
	}))
	require.NoError(t, err)

	sys.Selection("/user/worker-*").Send(ping{}, runtime.NoSender)

	got := map[string]bool{}
	for range 3 {
		select {
		case name := <-hits:
			got[name] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of 3 workers hit", len(got))
		}
	}
	require.Len(t, got, 3)
}

func TestSelection_request_requires_unique_match(t *testing.T) {
	sys := newTestSystem(t)
	spawnEcho(t, sys, "/user/echo-1")
	spawnEcho(t, sys, "/user/echo-2")

	_, err := sys.Selection("/user/echo-*").Request(t.Context(), ping{}, time.Second).Result(t.Context())
	require.ErrorIs(t, err, runtime.ErrNotUnique)

	_, err = sys.Selection("/user/missing").Request(t.Context(), ping{}, time.Second).Result(t.Context())
	require.ErrorIs(t, err, runtime.ErrNoRecipient)

	got, err := sys.Selection("/user/echo-1").Request(t.Context(), ping{Seq: 3}, time.Second).Result(t.Context())
	require.NoError(t, err)
	require.Equal(t, pong{Seq: 3}, got)
}

func TestSelection_resolve_one(t *testing.T) {
	sys := newTestSystem(t)
	spawnEcho(t, sys, "/user/echo")

	ref, err := sys.Selection("/user/e*").ResolveOne(t.Context(), time.Second).Result(t.Context())
	require.NoError(t, err)
	require.Equal(t, "/user/echo", ref.Path())
}

func TestSelection_resolve_waits_for_late_spawn(t *testing.T) {
	sys := newTestSystem(t)

	f := sys.Selection("/user/late").ResolveOne(t.Context(), time.Second)
	go func() {
		time.Sleep(50 * time.Millisecond)
		spawnEcho(t, sys, "/user/late")
	}()

	ref, err := f.Result(t.Context())
	require.NoError(t, err)
	require.Equal(t, "/user/late", ref.Path())
}

func TestSelection_resolve_timeout(t *testing.T) {
	sys := newTestSystem(t)

	_, err := sys.Selection("/user/never").ResolveOne(t.Context(), 30*time.Millisecond).Result(t.Context())
	require.ErrorIs(t, err, runtime.ErrResolveTimeout)
}

func TestSelection_identity(t *testing.T) {
	sys := newTestSystem(t)

	a := sys.Selection("/user/w-*")
	b := sys.Selection("/user/w-*")
	c := sys.Selection("/user/v-*")

	require.True(t, a.Equal(b))
	require.Equal(t, a.Hash(), b.Hash())
	require.False(t, a.Equal(c))

	require.Equal(t, []string{"user", "w-*"}, a.Path())
	require.Equal(t, "/user/w-*", a.PathString())

	a.SetPath([]string{"user", "v-*"})
	require.True(t, a.Equal(c))
}

func TestRefSurrogate_json_round_trip(t *testing.T) {
	sys := newTestSystem(t)
	ref := spawnEcho(t, sys, "/user/echo")

	sur, err := ref.Surrogate(sys)
	require.NoError(t, err)

	data, err := json.Marshal(sur)
	require.NoError(t, err)
	require.JSONEq(t, `{"path":"/user/echo"}`, string(data))

	var decoded system.RefSurrogate
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := decoded.Restore(sys)
	require.NoError(t, err)
	require.True(t, ref.Equal(restored))

	got, err := restored.Request(t.Context(), ping{Seq: 8}, time.Second).Result(t.Context())
	require.NoError(t, err)
	require.Equal(t, pong{Seq: 8}, got)
}
