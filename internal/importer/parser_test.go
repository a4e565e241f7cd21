package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/cghidalgos/presupuesto/internal/household"
	"github.com/cghidalgos/presupuesto/internal/importer"
)

func TestParse_Semicolon(t *testing.T) {
	sheet := `Presupuesto hogar octubre;;
;;
Área;Concepto;Presupuesto
Servicios;Agua;135.860
Servicios;Energía;95200
Servicios;  Gas  natural ;1.234,56
;TOTAL;232.294,56
`

	rows, err := importer.Parse(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Servicios", rows[0].Area)
	assert.Equal(t, "Agua", rows[0].Concept)
	assert.Equal(t, "135860", rows[0].Amount.String())

	assert.Equal(t, "Energía", rows[1].Concept)
	assert.Equal(t, "Gas natural", rows[2].Concept)
	assert.Equal(t, "1234.56", rows[2].Amount.String())
}

func TestParse_CommaWithQuotes(t *testing.T) {
	sheet := "Concept,Budget\n\"Internet, fibra\",\"80,000\"\nAgua,45000.5\n"

	rows, err := importer.Parse(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Internet, fibra", rows[0].Concept)
	assert.Equal(t, "80000", rows[0].Amount.String())
	assert.Equal(t, "45000.5", rows[1].Amount.String())
	assert.Empty(t, rows[0].Area)
}

func TestParse_Windows1252(t *testing.T) {
	utf8Sheet := "Concepto;Valor presupuestado\nAdministración;250.000\n"

	encoded, err := charmap.Windows1252.NewEncoder().String(utf8Sheet)
	require.NoError(t, err)

	rows, err := importer.Parse(bytes.NewReader([]byte(encoded)))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Administración", rows[0].Concept)
	assert.Equal(t, "250000", rows[0].Amount.String())
}

func TestParse_UTF8BOM(t *testing.T) {
	sheet := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Concepto;Presupuesto\nAgua;10\n")...)

	rows, err := importer.Parse(bytes.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Agua", rows[0].Concept)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		sheet     string
		wantField string
	}{
		{"NoHeader", "Nombre;Cantidad\nAgua;10\n", "file"},
		{"BadAmount", "Concepto;Presupuesto\nAgua;diez\n", "row 2"},
		{"Negative", "Concepto;Presupuesto\nAgua;10\nGas;-5\n", "row 3"},
		{"OnlyTotals", "Concepto;Presupuesto\nTotal;10\n", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importer.Parse(strings.NewReader(tt.sheet))
			require.ErrorIs(t, err, household.ErrValidation)

			var verr *household.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}
