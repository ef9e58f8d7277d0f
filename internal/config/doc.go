// Package config provides centralized configuration management for the
// benchmarker. It loads defaults, an optional YAML file and environment
// overrides, then validates the result.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (config.yaml, configs/config.yaml or --config)
//	3. Default values (lowest priority)
//
// A .env file in the working directory is loaded by the CLI before Load
// runs, so its entries behave like environment variables.
//
// # Environment Variables
//
// All environment variables follow the pattern CTCAC_<SECTION>_<FIELD>:
//
//	CTCAC_LOGGING_LEVEL=debug
//	CTCAC_BATCH_WORKERS=8
//	CTCAC_EXTRACTION_TOLERANCE=5
//	CTCAC_EXTRACTION_UNIT_LABELS="total units,unit count"
//	CTCAC_SERVER_ADDR=:9090
//
// Section layouts (anchors, totals and category dictionaries) are only
// configurable through the YAML file.
//
// # Extraction Heuristics
//
// ExtractionConfig carries every tunable used by the extraction engine:
//
//	extraction:
//	  row_window: 3
//	  col_window: 30
//	  tolerance: 1.00
//	  amount_columns: [17, 2]
//	  sections:
//	    - kind: construction
//	      anchors: ["Construction Interest & Fees"]
//	      totals: ["Total Construction Interest & Fees"]
//	      categories:
//	        - name: Const Loan Interest
//	          synonyms: ["Construction Loan Interest"]
//
// # Validation
//
// Struct constraints use go-playground/validator tags, including
// cross-field bounds such as unit_max > unit_min. ExtractionConfig.Validate
// adds checks tags cannot express, like duplicate section kinds.
package config
