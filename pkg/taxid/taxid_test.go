package taxid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRUC(t *testing.T) {
	tests := []struct {
		ruc   string
		valid bool
	}{
		{"20100070970", true},
		{"20000000001", true},
		{"10445566778", true},
		{"20601234565", true},
		{"20601234564", false},
		{"30100070970", false},
		{"2010007097", false},
		{"2010007097A", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.ruc, func(t *testing.T) {
			err := ValidateRUC(tt.ruc)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestComputeRUCCheckDigit(t *testing.T) {
	assert.Equal(t, byte('0'), ComputeRUCCheckDigit("2010007097"))
	assert.Equal(t, byte('1'), ComputeRUCCheckDigit("2000000000"))
}

func TestValidateDocument(t *testing.T) {
	assert.NoError(t, ValidateDocument("DNI", "44556677"))
	assert.Error(t, ValidateDocument("DNI", "4455667"))
	assert.NoError(t, ValidateDocument("ruc", "20100070970"))
	assert.NoError(t, ValidateDocument("CE", "X0012345"))
	assert.Error(t, ValidateDocument("CE", "12-45"))
	assert.Error(t, ValidateDocument("PAS", "123"))
}
