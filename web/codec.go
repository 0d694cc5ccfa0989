package web

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned when bytes are not a valid envelope or its
	// data does not match the advertised type.
	ErrMalformed = errors.New("web: malformed message")

	// ErrUnknownType is returned when an envelope advertises a type that the
	// codec does not know.
	ErrUnknownType = errors.New("web: unknown message type")
)

// A Typed value knows the name it travels under.
type Typed interface {
	TypeName() string
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// A Codec encodes and decodes one family of tagged values, for example all
// the requests a personality understands.
type Codec[T Typed] struct {
	family   string
	decoders map[string]func(json.RawMessage) (T, error)
}

// NewCodec creates an empty codec. The family name only appears in errors.
func NewCodec[T Typed](family string) *Codec[T] {
	return &Codec[T]{
		family:   family,
		decoders: make(map[string]func(json.RawMessage) (T, error)),
	}
}

// Register teaches the codec to decode values of type V. V must belong to the
// family T.
func Register[V Typed, T Typed](c *Codec[T]) {
	var zero V
	if _, ok := any(zero).(T); !ok {
		panic(fmt.Sprintf("%T is not a %s", zero, c.family))
	}

	name := zero.TypeName()
	if _, found := c.decoders[name]; found {
		panic(fmt.Sprintf("%s type %q registered twice", c.family, name))
	}

	c.decoders[name] = func(raw json.RawMessage) (T, error) {
		var v V
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &v); err != nil {
				var t T
				return t, fmt.Errorf("%w: %s %s: %w",
					ErrMalformed, c.family, name, err)
			}
		}

		return any(v).(T), nil
	}
}

// Types returns the number of registered types.
func (c *Codec[T]) Types() int {
	return len(c.decoders)
}

// Encode wraps v into an envelope.
func (c *Codec[T]) Encode(v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s %s: %w", c.family, v.TypeName(), err)
	}

	return json.Marshal(envelope{Type: v.TypeName(), Data: data})
}

// Decode parses an envelope into a value of the family.
func (c *Codec[T]) Decode(b []byte) (T, error) {
	var (
		zero T
		env  envelope
	)

	if err := json.Unmarshal(b, &env); err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrMalformed, c.family, err)
	}

	if env.Type == "" {
		return zero, fmt.Errorf("%w: %s without type", ErrMalformed, c.family)
	}

	decode, found := c.decoders[env.Type]
	if !found {
		return zero, fmt.Errorf("%w: %s %q", ErrUnknownType, c.family, env.Type)
	}

	return decode(env.Data)
}
