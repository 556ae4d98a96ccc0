package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpeakerKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"title case", "Jane Doe", "jane_doe"},
		{"lower case", "jane doe", "jane_doe"},
		{"surrounding whitespace", " jane doe ", "jane_doe"},
		{"upper case", "JANE DOE", "jane_doe"},
		{"double space is not collapsed", "Jane  Doe", "jane__doe"},
		{"single word", "Guido", "guido"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSpeakerKey(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeSpeakerKey(got), "normalization must be idempotent")
		})
	}
}

func TestNormalizeSpeakerKey_Collisions(t *testing.T) {
	assert.Equal(t, NormalizeSpeakerKey("Jane Doe"), NormalizeSpeakerKey("jane doe "))
	assert.NotEqual(t, NormalizeSpeakerKey("Jane Doe"), NormalizeSpeakerKey("Jane  Doe"))
}
