package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tourism-api/internal/utils"
)

func TestParseOrdering(t *testing.T) {
	tests := []struct {
		raw   string
		field string
		desc  bool
	}{
		{"name", "name", false},
		{"-entrance_fee", "entrance_fee", true},
		{" -name ", "name", true},
		{"", "", false},
		{"-", "", true},
	}

	for _, tt := range tests {
		field, desc := utils.ParseOrdering(tt.raw)
		assert.Equal(t, tt.field, field, "raw %q", tt.raw)
		assert.Equal(t, tt.desc, desc, "raw %q", tt.raw)
	}
}
