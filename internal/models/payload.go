package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Button payload namespaces.
const (
	NSPet     = "pet"
	NSPets    = "pets"
	NSEntry   = "entry"
	NSVrem    = "vrem"
	NSMrem    = "mrem"
	NSSpecies = "species"
	NSSummary = "summary"
	NSFile    = "file"
	NSHistory = "history"
	NSBreed   = "breed"
)

// PayloadSeparator delimits payload tokens.
const PayloadSeparator = ":"

// ErrInvalidPayload is returned when a button payload has the wrong shape.
var ErrInvalidPayload = errors.New("invalid callback payload")

// Payload is a parsed colon-delimited button payload such as "pet:set_active:42".
type Payload struct {
	Raw    string
	Tokens []string
}

// ParsePayload splits a raw payload into tokens.
func ParsePayload(raw string) Payload {
	return Payload{Raw: raw, Tokens: strings.Split(raw, PayloadSeparator)}
}

// EncodePayload joins tokens into a payload string.
func EncodePayload(tokens ...any) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = fmt.Sprint(t)
	}
	return strings.Join(parts, PayloadSeparator)
}

// Namespace returns the first token.
func (p Payload) Namespace() string {
	return p.Tokens[0]
}

// Expect checks the payload has exactly n tokens.
func (p Payload) Expect(n int) error {
	if len(p.Tokens) != n {
		return fmt.Errorf("%w: %q has %d tokens, want %d", ErrInvalidPayload, p.Raw, len(p.Tokens), n)
	}
	return nil
}

// Arg returns token i, requiring the payload to have exactly n tokens.
func (p Payload) Arg(n, i int) (string, error) {
	if err := p.Expect(n); err != nil {
		return "", err
	}
	if i < 0 || i >= n {
		return "", fmt.Errorf("%w: token %d out of range", ErrInvalidPayload, i)
	}
	return p.Tokens[i], nil
}

// ID parses token i as a positive entity id, requiring exactly n tokens.
func (p Payload) ID(n, i int) (int64, error) {
	raw, err := p.Arg(n, i)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not an id", ErrInvalidPayload, raw)
	}
	return id, nil
}

// Int parses token i as an integer, requiring exactly n tokens.
func (p Payload) Int(n, i int) (int, error) {
	raw, err := p.Arg(n, i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidPayload, raw)
	}
	return v, nil
}
