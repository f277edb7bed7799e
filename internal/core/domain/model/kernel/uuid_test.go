package kernel_test

import (
	"encoding/json"
	"testing"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canonical = "550e8400-e29b-41d4-a716-446655440000"

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	require.NoError(t, id1.Validate())
	assert.False(t, id1.IsEqual(id2))
	assert.True(t, id1.IsEqual(id1))
}

func TestUUIDFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "canonical", input: canonical},
		{name: "braces", input: "{" + canonical + "}"},
		{name: "urn", input: "urn:uuid:" + canonical},
		{name: "no hyphens", input: "550e8400e29b41d4a716446655440000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := kernel.UUIDFromString(tt.input)

			require.NoError(t, err)
			assert.Equal(t, canonical, id.String())
		})
	}

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := kernel.UUIDFromString("bob")
		require.Error(t, err)
	})

	t.Run("nil uuid is rejected", func(t *testing.T) {
		_, err := kernel.UUIDFromString(uuid.Nil.String())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestUUIDFromGoogle(t *testing.T) {
	raw := uuid.MustParse(canonical)

	id, err := kernel.UUIDFromGoogle(raw)

	require.NoError(t, err)
	assert.Equal(t, raw, id.Google())
}

func TestUUID_ZeroValue(t *testing.T) {
	var id kernel.UUID

	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
}

func TestUUID_MarshalJSON(t *testing.T) {
	id, err := kernel.UUIDFromString(canonical)
	require.NoError(t, err)

	payload, err := json.Marshal(struct {
		CourierID kernel.UUID `json:"courierId"`
	}{CourierID: id})

	require.NoError(t, err)
	assert.JSONEq(t, `{"courierId":"`+canonical+`"}`, string(payload))
}
