package dataprocessing

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/errors"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/shared/testutil"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

func TestLoadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "25-402.xlsx")
	testutil.WriteXLSX(t, path,
		testutil.NewSheetBuilder("Application").
			Text(0, 0, "Total Units").Num(0, 1, 45).
			Text(3, 0, "Amount").Text(3, 1, "1,250.50").Num(3, 2, 1234.56),
		testutil.NewSheetBuilder("Sources and Uses").Text(1, 1, "Taxes"),
	)

	wb, err := LoadWorkbook(path)
	require.NoError(t, err)

	assert.Equal(t, "25-402.xlsx", wb.Name())
	assert.Equal(t, []string{"Application", "Sources and Uses"}, wb.SheetNames())

	app, err := wb.Sheet("Application")
	require.NoError(t, err)
	assert.Equal(t, 4, app.Rows())
	assert.Equal(t, 3, app.Cols())

	assert.Equal(t, domain.CellText, app.Cell(0, 0).Kind)
	assert.Equal(t, domain.CellNumber, app.Cell(0, 1).Kind)
	assert.Equal(t, 45.0, app.Cell(0, 1).Number)
	assert.Equal(t, 1234.56, app.Cell(3, 2).Number)
	assert.Equal(t, "1,250.50", app.Cell(3, 1).Text)
	assert.True(t, app.Cell(1, 0).IsEmpty())
	assert.True(t, app.Cell(50, 50).IsEmpty())

	_, err = wb.Sheet("Missing")
	assert.ErrorIs(t, err, domain.ErrSheetNotFound)
}

func TestLoadWorkbookReader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 2024))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := LoadWorkbookReader("upload.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, "upload.xlsx", wb.Name())
	assert.Equal(t, 2024.0, wb.Cell("Sheet1", 1, 1).Number)
}

func TestLoadWorkbook_Errors(t *testing.T) {
	_, err := LoadWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeLoad))

	_, err = LoadWorkbookReader("junk.xlsx", bytes.NewReader([]byte("junk")))
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeLoad))
}

func TestTypedCell(t *testing.T) {
	tests := []struct {
		raw  string
		kind domain.CellKind
	}{
		{"", domain.CellEmpty},
		{"45", domain.CellNumber},
		{"-12.5", domain.CellNumber},
		{"1.5E+3", domain.CellNumber},
		{"$1,000", domain.CellText},
		{"9.", domain.CellText},
		{"Total Units", domain.CellText},
		{"   ", domain.CellEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.kind, typedCell(tt.raw).Kind)
		})
	}
}

func TestExtractFile_EndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "25-401.xlsx")
	testutil.WriteXLSX(t, path, standardApplication(), standardSources())

	rec := newTestExtractor().ExtractFile(context.Background(), path)

	assert.Equal(t, "25-401.xlsx", rec.FileName)
	assert.Equal(t, "45", rec.TotalUnits.Decimal.String())
	assert.Equal(t, "42000", rec.TotalSF.Decimal.String())
	assert.Equal(t, "Perm Variance ($50)", rec.FlagText())
}

func TestLoadWorkbook_DateCellsAreNotNumbers(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Application"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))

	isoDate := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &isoDate})
	require.NoError(t, err)
	money := `"$"#,##0`
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &money})
	require.NoError(t, err)

	require.NoError(t, f.SetCellValue(sheet, "A1", "Total Square Footage"))
	require.NoError(t, f.SetCellValue(sheet, "B1", 30000))
	require.NoError(t, f.SetCellValue(sheet, "A2", "Date Prepared"))
	require.NoError(t, f.SetCellValue(sheet, "B2", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue(sheet, "A3", "Revised"))
	require.NoError(t, f.SetCellValue(sheet, "B3", 45717))
	require.NoError(t, f.SetCellStyle(sheet, "B3", "B3", dateStyle))
	require.NoError(t, f.SetCellValue(sheet, "A11", "Land Cost"))
	require.NoError(t, f.SetCellValue(sheet, "B11", 46000))
	require.NoError(t, f.SetCellStyle(sheet, "B11", "B11", moneyStyle))

	path := filepath.Join(t.TempDir(), "dated.xlsx")
	require.NoError(t, f.SaveAs(path))

	wb, err := LoadWorkbook(path)
	require.NoError(t, err)
	app, err := wb.Sheet(sheet)
	require.NoError(t, err)

	assert.Equal(t, domain.CellNumber, app.Cell(0, 1).Kind)
	assert.Equal(t, domain.CellText, app.Cell(1, 1).Kind, "built-in date format")
	assert.Equal(t, domain.CellText, app.Cell(2, 1).Kind, "custom date format")
	assert.Equal(t, "2025-03-01", app.Cell(2, 1).Text)
	assert.Equal(t, domain.CellNumber, app.Cell(10, 1).Kind, "currency format stays numeric")
	assert.Equal(t, 46000.0, app.Cell(10, 1).Number)

	area := NewAreaScanner(defaultCfg()).Scan(wb)
	require.True(t, area.Value.Valid)
	assert.Equal(t, "30000", area.Value.Decimal.String())

	rec := newTestExtractor().ExtractFile(context.Background(), path)
	assert.Equal(t, "30000", rec.TotalSF.Decimal.String())
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{"yyyy-mm-dd", true},
		{"m/d/yy", true},
		{"[$-409]mmmm d, yyyy", true},
		{"h:mm AM/PM", true},
		{"General", false},
		{"#,##0.00", false},
		{`"$"#,##0`, false},
		{`#,##0 "sq ft"`, false},
		{`[$$-409]#,##0.00`, false},
		{"0.00E+00", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormat(tt.format))
		})
	}
}
