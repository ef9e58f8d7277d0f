package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// WriteXLSX saves the sheets as a real .xlsx file at path
func WriteXLSX(t testing.TB, path string, sheets ...*SheetBuilder) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, b := range sheets {
		sheet := b.Build()
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet.Name()))
		} else {
			_, err := f.NewSheet(sheet.Name())
			require.NoError(t, err)
		}
		for r := 0; r < sheet.Rows(); r++ {
			for c := 0; c < sheet.Cols(); c++ {
				cell := sheet.Cell(r, c)
				if cell.IsEmpty() {
					continue
				}
				name, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				if cell.Kind == domain.CellNumber {
					require.NoError(t, f.SetCellValue(sheet.Name(), name, cell.Number))
				} else {
					require.NoError(t, f.SetCellValue(sheet.Name(), name, cell.Text))
				}
			}
		}
	}
	require.NoError(t, f.SaveAs(path))
}
