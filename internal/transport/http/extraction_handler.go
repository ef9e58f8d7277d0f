package http

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/render"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/config"
	apierrors "github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/errors"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/exporter"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/middleware"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

const (
	// UploadField is the multipart field carrying the workbook
	UploadField = "file"

	// multipart parts beyond this are spooled to disk
	maxMemory = 32 << 20
)

// extractionQuery holds the query parameters of an upload
type extractionQuery struct {
	Format   string `json:"format" validate:"omitempty,oneof=json csv"`
	Detailed bool   `json:"detailed"`
}

type uploadName struct {
	Name string `json:"file" validate:"required,workbook"`
}

// ExtractionResponse is the JSON body of a successful extraction
type ExtractionResponse struct {
	Record   domain.ExtractionRecord `json:"record"`
	FlagText string                  `json:"flag_text"`
	Report   map[string]string       `json:"report"`
}

// ColumnsResponse lists the report columns
type ColumnsResponse struct {
	Columns  []string `json:"columns"`
	Detailed bool     `json:"detailed"`
	Version  string   `json:"version"`
}

// ExtractionHandler handles workbook uploads and report layout queries
type ExtractionHandler struct {
	service      ExtractionServiceInterface
	reports      map[bool]*exporter.ReportExporter // keyed by detailed
	validator    *middleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExtractionHandler creates a new extraction handler
func NewExtractionHandler(service ExtractionServiceInterface, cfg config.ExtractionConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExtractionHandler {
	return &ExtractionHandler{
		service: service,
		reports: map[bool]*exporter.ReportExporter{
			false: exporter.NewReportExporter(nil, exporter.NewReportLayout(cfg, false), false, logger),
			true:  exporter.NewReportExporter(nil, exporter.NewReportLayout(cfg, true), false, logger),
		},
		validator:    middleware.NewRequestValidator(),
		logger:       logger.With(slog.String("handler", "extraction")),
		errorHandler: errorHandler,
	}
}

func (h *ExtractionHandler) parseQuery(r *http.Request) (extractionQuery, error) {
	q := extractionQuery{Format: r.URL.Query().Get("format")}
	if raw := r.URL.Query().Get("detailed"); raw != "" {
		detailed, err := strconv.ParseBool(raw)
		if err != nil {
			return q, apierrors.ErrValidation("detailed", "must be true or false")
		}
		q.Detailed = detailed
	}
	return q, h.validator.ValidateStruct(q)
}

// GetColumns handles GET /api/v1/report/columns
func (h *ExtractionHandler) GetColumns(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, ColumnsResponse{
		Columns:  h.reports[q.Detailed].Layout().Headers(),
		Detailed: q.Detailed,
		Version:  contracts.ReportFormatVersion,
	})
}

// Extract handles POST /api/v1/extractions. The workbook arrives in the
// multipart "file" field. The response is the extracted record as JSON,
// or the report header plus one row with ?format=csv.
func (h *ExtractionHandler) Extract(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(UploadField, "a workbook upload is required"))
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if err := h.validator.ValidateStruct(uploadName{Name: name}); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrUnsupportedFile)
		return
	}

	rec, err := h.service.ExtractUpload(r.Context(), name, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	reports := h.reports[q.Detailed]
	if q.Format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := reports.WriteTo(w, rec); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to write csv response",
				slog.String("file", name),
				slog.String("error", err.Error()))
		}
		return
	}

	layout := reports.Layout()
	row := layout.Row(rec)
	report := make(map[string]string, len(row))
	for i, col := range layout.Headers() {
		report[col] = row[i]
	}
	render.JSON(w, r, ExtractionResponse{
		Record:   rec,
		FlagText: rec.FlagText(),
		Report:   report,
	})
}
