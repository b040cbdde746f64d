package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHash(t *testing.T) {
	assert.Equal(t, "d66eb761b706ef34aa53510ac80fea0d130b85dd",
		GenerateHash("secret", "20240101120000", "merchant", "order-1"))
	assert.Equal(t, "e5e9fa1ba31ecd1ae84f75caaa474f3a663f05f4", GenerateHash("secret"))
}

func TestGenerateHashIsOrderSensitive(t *testing.T) {
	assert.Equal(t, "eeea0f5068048b61da668bb09220f8c131ff1092", GenerateHash("s", "a", "b"))
	assert.Equal(t, "c6ddaccabf467305644cff37cfbe67ff7ea3725e", GenerateHash("s", "b", "a"))
}

func TestGenerateOrderID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := GenerateOrderID()
		assert.Len(t, id, 48)
		assert.False(t, strings.ContainsAny(id, "+/="), id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestGenerateRecurringKey(t *testing.T) {
	key := GenerateRecurringKey()
	assert.Len(t, key, 36)
	assert.Equal(t, strings.ToLower(key), key)
}

func TestEncodeDecodeString(t *testing.T) {
	assert.Equal(t, "c2VjcmV0", EncodeString("secret"))

	decoded, err := DecodeString("c2VjcmV0")
	require.NoError(t, err)
	assert.Equal(t, "secret", decoded)

	_, err = DecodeString("not base64!")
	assert.Error(t, err)
}
