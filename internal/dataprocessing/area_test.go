package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/shared/testutil"
)

func TestAreaScanner_TakesGlobalMaximum(t *testing.T) {
	res := NewAreaScanner(defaultCfg()).Scan(testutil.Workbook("a.xlsx", standardApplication()))

	require.True(t, res.Value.Valid)
	assert.Equal(t, "42000", res.Value.Decimal.String())
	assert.False(t, res.NonApp)
}

func TestAreaScanner(t *testing.T) {
	tests := []struct {
		name       string
		sheets     []*testutil.SheetBuilder
		want       string
		wantFound  bool
		wantNonApp bool
	}{
		{
			name: "maximum across sheets",
			sheets: []*testutil.SheetBuilder{
				testutil.NewSheetBuilder("Application").Text(0, 0, "Gross Building Area").Num(0, 1, 50000),
				testutil.NewSheetBuilder("Site").Text(0, 0, "GBA").Num(0, 1, 65000),
			},
			want:       "65000",
			wantFound:  true,
			wantNonApp: true,
		},
		{
			name: "budget sheets are skipped",
			sheets: []*testutil.SheetBuilder{
				testutil.NewSheetBuilder("Application").Text(0, 0, "Square Feet").Num(0, 1, 30000),
				testutil.NewSheetBuilder("Sources and Uses").Text(0, 0, "Cost per sq. ft.").Num(0, 1, 90000),
				testutil.NewSheetBuilder("Dev Budget").Text(0, 0, "Square Footage").Num(0, 1, 95000),
			},
			want:      "30000",
			wantFound: true,
		},
		{
			name: "values outside the window are ignored",
			sheets: []*testutil.SheetBuilder{
				testutil.NewSheetBuilder("Application").
					Text(0, 0, "Square Footage").Num(0, 1, 1500).Num(0, 2, 3000000),
			},
		},
		{
			name: "numeric text",
			sheets: []*testutil.SheetBuilder{
				testutil.NewSheetBuilder("Application").Text(0, 0, "Net Rentable").Text(0, 1, "48,250"),
			},
			want:      "48250",
			wantFound: true,
		},
		{
			name: "no label",
			sheets: []*testutil.SheetBuilder{
				testutil.NewSheetBuilder("Application").Text(0, 0, "Units").Num(0, 1, 45000),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewAreaScanner(defaultCfg()).Scan(testutil.Workbook("a.xlsx", tt.sheets...))

			assert.Equal(t, tt.wantFound, res.Value.Valid)
			if tt.wantFound {
				assert.Equal(t, tt.want, res.Value.Decimal.String())
				assert.Equal(t, tt.wantNonApp, res.NonApp)
			}
		})
	}
}
