package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type convertForm struct {
	ConvertTo string `binding:"required,docext"`
}

func TestDocext(t *testing.T) {
	binding.Validator = NewCustomValidator()
	RegisterCustom()

	tests := []struct {
		in string
		ok bool
	}{
		{"pdf", true},
		{"DOCX", true},
		{".txt", true},
		{"exe", false},
		{"", false},
	}
	for _, tt := range tests {
		err := binding.Validator.ValidateStruct(&convertForm{ConvertTo: tt.in})
		assert.Equal(t, tt.ok, err == nil, tt.in)
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	v := NewCustomValidator()
	assert.NoError(t, v.ValidateStruct("plain string"))
	assert.NotNil(t, v.Engine())
}
