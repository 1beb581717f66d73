package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"24562313", "24562313"},
		{float64(24562313), "24562313"},
		{float64(1.5), "1.5"},
		{json.Number("99"), "99"},
		{[]byte("x"), "x"},
		{int64(7), "7"},
		{nil, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToString(tt.in), "%#v", tt.in)
	}
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 5, ToInt("5"))
	assert.Equal(t, 5, ToInt(" 5 "))
	assert.Equal(t, 0, ToInt("five"))
	assert.Equal(t, 3, ToInt(float64(3)))
	assert.Equal(t, 12, ToInt(json.Number("12")))
	assert.Equal(t, 0, ToInt(struct{}{}))
}

func TestToBool(t *testing.T) {
	for _, v := range []any{true, 1, "1", "true", "TRUE", []byte("true"), float64(1)} {
		assert.True(t, ToBool(v), "%#v", v)
	}
	for _, v := range []any{false, 0, "", "no", nil, float64(0)} {
		assert.False(t, ToBool(v), "%#v", v)
	}
}
