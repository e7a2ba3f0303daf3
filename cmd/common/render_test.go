package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	v := map[string]int{"count": 2}

	tests := []struct {
		format string
		want   string
	}{
		{"json", "{\n  \"count\": 2\n}\n"},
		{"yaml", "count: 2\n"},
		{"text", "two\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := Render(tt.format, "two\n", v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}

	_, err := Render("xml", "", v)
	assert.Error(t, err)
}
