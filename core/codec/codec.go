// Package codec maps Go message types to stable wire names and back, so
// remote runtime bindings can tag payloads with a type and reconstruct the
// concrete value on the receiving side.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/codewandler/tref-go/internal/reflector"
)

var ErrUnknownType = errors.New("codec: unknown message type")

// Registry holds the known message types. Both ends of a wire must
// register the same set. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]reflect.Type)}
}

// Register adds the message types of the given sample values. Pointer
// samples are registered as their element type; the wire always carries
// the value form.
func (r *Registry) Register(samples ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range samples {
		t := reflect.TypeOf(s)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		r.types[reflector.TypeInfoForType(t).Name] = t
	}
}

// Register adds T to the registry.
func Register[T any](r *Registry) {
	var zero T
	r.Register(zero)
}

// Marshal encodes v as JSON and returns its wire type name. The type must
// have been registered.
func (r *Registry) Marshal(v any) (msgType string, data []byte, err error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return "", nil, fmt.Errorf("codec: cannot marshal nil message")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	msgType = reflector.TypeInfoForType(t).Name

	r.mu.RLock()
	_, known := r.types[msgType]
	r.mu.RUnlock()
	if !known {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownType, msgType)
	}

	data, err = json.Marshal(v)
	if err != nil {
		return "", nil, fmt.Errorf("codec: marshal %s: %w", msgType, err)
	}
	return msgType, data, nil
}

// Unmarshal reconstructs a value of the named type from data.
func (r *Registry) Unmarshal(msgType string, data []byte) (any, error) {
	r.mu.RLock()
	t, known := r.types[msgType]
	r.mu.RUnlock()
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, msgType)
	}

	ptr := reflect.New(t)
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("codec: unmarshal %s: %w", msgType, err)
	}
	return ptr.Elem().Interface(), nil
}
