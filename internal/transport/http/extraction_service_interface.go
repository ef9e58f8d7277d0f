package http

import (
	"context"
	"io"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// ExtractionServiceInterface defines the methods the extraction handler needs
type ExtractionServiceInterface interface {
	ExtractUpload(ctx context.Context, name string, r io.Reader) (domain.ExtractionRecord, error)
}
