package edikit

// Codec binds one message type to a typed domain value. Implementations
// map between the generic value tree and T; the engines do the text work.
type Codec[T any] interface {
	// Definition is the message definition the codec is written against.
	Definition() *MessageDef
	// Decode converts a parsed value tree into T.
	Decode(msg *Message) (T, error)
	// Encode converts T into a value tree ready for Format.
	Encode(v T) (*Message, error)
}

// Unmarshal parses text with c's definition and decodes it into T.
// Refiner[T] is applied when c implements it.
func Unmarshal[T any](c Codec[T], text string, opts ...ParseOpt) (T, error) {
	var zero T
	msg, err := Parse(c.Definition(), text, opts...)
	if err != nil {
		return zero, err
	}
	v, err := c.Decode(msg)
	if err != nil {
		return zero, err
	}
	if err := ApplyRefine(v, c); err != nil {
		return zero, err
	}
	return v, nil
}

// Marshal refines and encodes v with c, then formats the value tree.
func Marshal[T any](c Codec[T], v T, opts ...FormatOpt) (string, error) {
	if err := ApplyRefine(v, c); err != nil {
		return "", err
	}
	msg, err := c.Encode(v)
	if err != nil {
		return "", err
	}
	return Format(c.Definition(), msg, opts...)
}

// Refiner provides an optional hook for cross-field checks on the typed
// value. If it is not implemented, the phase is skipped.
type Refiner[T any] interface {
	Refine(v T) error
}

// SafeParse parses text against def, returning (nil, false) on any issue.
func SafeParse(def *MessageDef, text string, opts ...ParseOpt) (*Message, bool) {
	msg, err := Parse(def, text, opts...)
	if err != nil {
		return nil, false
	}
	return msg, true
}

// Is reports whether text parses against def.
func Is(def *MessageDef, text string, opts ...ParseOpt) bool {
	_, ok := SafeParse(def, text, opts...)
	return ok
}
