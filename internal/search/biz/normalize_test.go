package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "PALERMO", "palermo"},
		{"strips punctuation", "Palermo, CABA", "palermo caba"},
		{"collapses whitespace", "palermo   \t caba", "palermo caba"},
		{"trims", "  palermo ", "palermo"},
		{"empty input", "", ""},
		{"punctuation only", ".,;:()!#", ""},
		{"mixed", "San-Telmo / C.A.B.A.", "santelmo caba"},
		{"keeps accents", "Belén de Escobar", "belén de escobar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLocation(tt.input))
		})
	}
}

func TestNormalizeLocation_Equivalence(t *testing.T) {
	assert.Equal(t, NormalizeLocation("Palermo, CABA"), NormalizeLocation("palermo caba"))
}
