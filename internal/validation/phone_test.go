package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("+71234567890"))
	assert.NoError(t, ValidatePhone("81234567890"))
	assert.Error(t, ValidatePhone(""))
	assert.Error(t, ValidatePhone("   "))
	assert.Error(t, ValidatePhone(strings.Repeat("1", 21)))
}

func TestPhoneAlternate(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"leading 8 rewrites to +7", "81234567890", "+71234567890"},
		{"plus form unchanged", "+71234567890", "+71234567890"},
		{"short 8 number unchanged", "8123456", "8123456"},
		{"foreign number unchanged", "+4912345678901", "+4912345678901"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhoneAlternate(tt.phone))
		})
	}
}
