// Package dataprocessing extracts financing cost data from CTCAC
// application workbooks. Workbooks from different applicants do not share
// a schema, so every field is located heuristically and every record
// carries flags describing how far the result can be trusted.
//
// # Architecture
//
// The per-document pipeline is made of independent stages:
//
//  1. Loader: reads .xlsx/.xlsm files with excelize into a domain.Workbook
//  2. UnitsLocator: finds Total Units, rejecting question indexes and years
//  3. AreaScanner: takes the largest plausible square footage in the workbook
//  4. SectionParser: reads Sources & Uses sections with a small state machine
//  5. HardCostCalculator: reported total, else the component sum
//  6. Reconcile: compares line items against reported section totals
//  7. ComputeBenchmarks: cost per unit, per SF and as % of hard costs
//
// Extractor chains the stages and guarantees one record per document.
//
// # Usage
//
//	ex := dataprocessing.NewExtractor(cfg.Extraction, logger)
//	rec := ex.ExtractFile(ctx, "Downloaded files/25-401.xlsx")
//	fmt.Println(rec.FlagText())
//
// # Numbers
//
// Amounts are shopspring/decimal values so that sums and reconciliation
// deltas are exact and identical across runs.
package dataprocessing
