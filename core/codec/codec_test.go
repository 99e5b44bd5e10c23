package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type order struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}

type cancel struct {
	ID string `json:"id"`
}

func TestRegistry_round_trip(t *testing.T) {
	r := NewRegistry()
	Register[order](r)

	msgType, data, err := r.Marshal(order{ID: "o-1", Total: 9.5})
	require.NoError(t, err)
	require.Contains(t, msgType, "order")

	got, err := r.Unmarshal(msgType, data)
	require.NoError(t, err)
	require.Equal(t, order{ID: "o-1", Total: 9.5}, got)
}

func TestRegistry_pointer_samples_normalize_to_value(t *testing.T) {
	r := NewRegistry()
	r.Register(&order{})

	msgType, data, err := r.Marshal(&order{ID: "o-2"})
	require.NoError(t, err)

	got, err := r.Unmarshal(msgType, data)
	require.NoError(t, err)
	require.Equal(t, order{ID: "o-2"}, got)
}

func TestRegistry_unknown_type(t *testing.T) {
	r := NewRegistry()
	Register[order](r)

	_, _, err := r.Marshal(cancel{ID: "o-3"})
	require.ErrorIs(t, err, ErrUnknownType)

	_, err = r.Unmarshal("github.com/nowhere.missing", []byte(`{}`))
	require.ErrorIs(t, err, ErrUnknownType)
}
