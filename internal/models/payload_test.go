package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadID(t *testing.T) {
	p := ParsePayload("pet:set_active:42")
	assert.Equal(t, NSPet, p.Namespace())

	id, err := p.ID(3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestPayloadMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing id", raw: "pet:set_active"},
		{name: "extra token", raw: "pet:set_active:42:1"},
		{name: "non numeric", raw: "pet:set_active:abc"},
		{name: "negative", raw: "pet:set_active:-1"},
		{name: "zero", raw: "pet:set_active:0"},
		{name: "empty", raw: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload(tt.raw).ID(3, 2)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestPayloadInt(t *testing.T) {
	v, err := ParsePayload("vrem:delay:90").Int(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 90, v)

	_, err = ParsePayload("vrem:delay:custom").Int(3, 2)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestEncodePayload(t *testing.T) {
	assert.Equal(t, "entry:view:7", EncodePayload(NSEntry, "view", int64(7)))
	assert.Equal(t, "summary:days:30", EncodePayload(NSSummary, "days", 30))
}
