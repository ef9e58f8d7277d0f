// Package shared holds helpers used by more than one package's tests.
//
// The testutil subpackage provides:
//
//   - SheetBuilder and Workbook for in-memory cell grids
//   - WriteXLSX for writing the same grids to real workbook files
//   - BufferedSlogHandler for asserting on structured log output
//
// Example usage:
//
//	sheet := testutil.NewSheetBuilder("Sources and Uses").
//		Text(0, 0, "PERMANENT FINANCING").
//		Text(1, 0, "Loan Origination Fee").Num(1, 2, 30000)
//	testutil.WriteXLSX(t, filepath.Join(dir, "app.xlsx"), sheet)
//
// Nothing here may be imported by non-test code.
package shared
