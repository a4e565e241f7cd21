package budget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cghidalgos/presupuesto/internal/budget"
)

func TestGroupKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Energia", "energia"},
		{"  Energía  ", "energia"},
		{"ADMINISTRACIÓN", "administracion"},
		{"Gas   natural\t hogar", "gas natural hogar"},
		{"Ñandú", "nandu"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := budget.GroupKey(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, budget.GroupKey(got), "re-normalizing must be stable")
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Administración Edificio", budget.DisplayName("  Administración   Edificio "))
}
