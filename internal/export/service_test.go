package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cghidalgos/presupuesto/internal/budget"
)

type reportSourceFunc func(ctx context.Context, p budget.Period) (*budget.Report, error)

func (f reportSourceFunc) Report(ctx context.Context, p budget.Period) (*budget.Report, error) {
	return f(ctx, p)
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleReport() *budget.Report {
	return &budget.Report{
		Period: budget.Period{Year: 2025, Month: time.October},
		Rows: []*budget.Row{
			{
				Name:      "Agua",
				AreaName:  "Servicios",
				Budgeted:  d("100000.5"),
				Actual:    d("135860.49"),
				Remaining: d("-35859.99"),
				Excess:    d("35859.99"),
				Status:    budget.StatusRed,
			},
			{
				Name:      "Energia",
				AreaName:  "Servicios",
				Budgeted:  d("108000"),
				Actual:    d("95200"),
				Remaining: d("12800"),
				Excess:    decimal.Zero,
				Status:    budget.StatusOrange,
			},
		},
		Totals: budget.Totals{
			Budgeted:  d("208000.5"),
			Actual:    d("231060.49"),
			Remaining: d("-23059.99"),
			Excess:    d("35859.99"),
		},
		Contributions: []budget.Contribution{
			{Name: "Ana", Percent: d("50"), Expected: d("104000.25"), Paid: d("231060.49")},
		},
	}
}

func TestLines(t *testing.T) {
	lines := Lines(sampleReport())

	require.Len(t, lines, 3)
	assert.Equal(t, Line{
		Year: 2025, Month: 10, Area: "Servicios", Concept: "Agua",
		Budgeted: 100001, Actual: 135860, Remaining: -35860, Excess: 35860,
	}, lines[0])
	assert.Equal(t, "TOTAL", lines[2].Concept)
	assert.Equal(t, int64(208001), lines[2].Budgeted)
	assert.Equal(t, int64(-23060), lines[2].Remaining)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Lines(sampleReport())))

	want := strings.Join([]string{
		"year,month,area,concept,budgeted,actual,remaining,excess",
		"2025,10,Servicios,Agua,100001,135860,-35860,35860",
		"2025,10,Servicios,Energia,108000,95200,12800,0",
		"2025,10,,TOTAL,208001,231060,-23060,35860",
		"",
	}, "\n")

	assert.Equal(t, want, buf.String())
}

func TestService_Export(t *testing.T) {
	oct := budget.Period{Year: 2025, Month: time.October}

	t.Run("Success", func(t *testing.T) {
		svc := NewService(reportSourceFunc(func(_ context.Context, p budget.Period) (*budget.Report, error) {
			assert.Equal(t, oct, p)
			return sampleReport(), nil
		}))

		lines, report, err := svc.Export(context.Background(), oct)
		require.NoError(t, err)
		assert.Len(t, lines, 3)
		assert.Equal(t, oct, report.Period)
	})

	t.Run("SourceError", func(t *testing.T) {
		svc := NewService(reportSourceFunc(func(context.Context, budget.Period) (*budget.Report, error) {
			return nil, errors.New("db down")
		}))

		_, _, err := svc.Export(context.Background(), oct)
		assert.Error(t, err)
	})
}

func TestService_GenerateSummary(t *testing.T) {
	summary := NewService(nil).GenerateSummary(sampleReport())

	assert.Contains(t, summary, "Presupuesto 2025-10")
	assert.Contains(t, summary, "* Servicios | Agua | 135860 / 100001 | red")
	assert.Contains(t, summary, "Total: 231060 / 208001 (excess 35860)")
	assert.Contains(t, summary, "- Ana (50.00%): expected 104000, paid 231060")
}

func TestService_WriteArchive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewService(nil).WriteArchive(&buf, sampleReport()))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	assert.Equal(t, "presupuesto_2025-10.csv", zr.File[0].Name)
	assert.Equal(t, "presupuesto_2025-10_resumen.txt", zr.File[1].Name)

	f, err := zr.File[0].Open()
	require.NoError(t, err)
	defer f.Close()

	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "year,month,area"))
}
