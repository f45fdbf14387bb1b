package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "plomero urgente", "plomero urgente"},
		{"percent", "descuento 50%", `descuento 50\%`},
		{"underscore", "baño_chico", `baño\_chico`},
		{"backslash", `C:\obras`, `C:\\obras`},
		{"backslash then percent", `\%`, `\\\%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.in))
		})
	}
}

func TestTagJSON(t *testing.T) {
	assert.Equal(t, `["urgente"]`, tagJSON("urgente"))
	assert.Equal(t, `["caño"]`, tagJSON("caño"))
}
