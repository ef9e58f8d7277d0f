package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/config"
	apierrors "github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/errors"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/files"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/infrastructure"
)

// Download results, also used as the metric label
const (
	ResultDownloaded = "downloaded"
	ResultSkipped    = "skipped"
	ResultFailed     = "failed"
)

// FailedDownload is a link that could not be saved
type FailedDownload struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
	Error    string `json:"error"`
}

// FetchResult summarizes one fetch run
type FetchResult struct {
	IndexURL   string           `json:"index_url"`
	Found      int              `json:"found"`
	Downloaded []string         `json:"downloaded"`
	Skipped    []string         `json:"skipped"`
	Failed     []FailedDownload `json:"failed"`
	Duration   time.Duration    `json:"duration"`
}

// Fetcher mirrors the workbooks linked from an application index page
// into a local directory
type Fetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	store      *files.Manager
	extensions []string
	userAgent  string
	metrics    *infrastructure.ExtractionMetrics
	logger     *slog.Logger
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithMetrics records one download metric per link
func WithMetrics(m *infrastructure.ExtractionMetrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// NewFetcher creates a fetcher saving into store
func NewFetcher(cfg config.FetchConfig, store *files.Manager, logger *slog.Logger, opts ...Option) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		store:      store,
		extensions: cfg.Extensions,
		userAgent:  cfg.UserAgent,
		logger:     logger.With(slog.String("component", "fetcher")),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads every workbook linked from indexURL that is not already
// in the store. A failed download is recorded and the run continues; only
// an unreachable index page or cancellation returns an error.
func (f *Fetcher) Fetch(ctx context.Context, indexURL string) (*FetchResult, error) {
	start := time.Now()
	base, err := url.Parse(indexURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, apierrors.NewAppValidationError("invalid index URL").WithContext("url", indexURL)
	}
	if err := f.store.EnsureDirectory(); err != nil {
		return nil, err
	}

	resp, err := f.get(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	links, err := ExtractWorkbookLinks(resp.Body, base, f.extensions)
	resp.Body.Close()
	if err != nil {
		return nil, apierrors.NewParsingError("failed to read index page", err).WithContext("url", indexURL)
	}

	f.logger.InfoContext(ctx, "workbook links found",
		slog.String("index_url", indexURL),
		slog.Int("count", len(links)))

	result := &FetchResult{
		IndexURL:   indexURL,
		Found:      len(links),
		Downloaded: []string{},
		Skipped:    []string{},
		Failed:     []FailedDownload{},
	}

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("fetch cancelled after %d of %d links: %w", i, len(links), err)
		}

		if f.store.FileExists(link.FileName) {
			f.logger.DebugContext(ctx, "already downloaded", slog.String("file", link.FileName))
			result.Skipped = append(result.Skipped, link.FileName)
			f.metrics.RecordDownload(ctx, ResultSkipped)
			continue
		}

		if err := f.download(ctx, link); err != nil {
			f.logger.WarnContext(ctx, "download failed",
				slog.String("file", link.FileName),
				slog.String("url", link.URL),
				slog.String("error", err.Error()))
			result.Failed = append(result.Failed, FailedDownload{
				FileName: link.FileName,
				URL:      link.URL,
				Error:    err.Error(),
			})
			f.metrics.RecordDownload(ctx, ResultFailed)
			continue
		}
		result.Downloaded = append(result.Downloaded, link.FileName)
		f.metrics.RecordDownload(ctx, ResultDownloaded)
	}

	result.Duration = time.Since(start)
	f.logger.InfoContext(ctx, "fetch finished",
		slog.Int("found", result.Found),
		slog.Int("downloaded", len(result.Downloaded)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("failed", len(result.Failed)),
		slog.Duration("duration", result.Duration))
	return result, nil
}

func (f *Fetcher) download(ctx context.Context, link Link) error {
	resp, err := f.get(ctx, link.URL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	n, err := f.store.Save(link.FileName, resp.Body)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierrors.NewNetworkError("empty response body", nil).WithContext("url", link.URL)
	}
	return nil
}

// get waits for the rate limiter and returns a 200 response. The caller
// closes the body.
func (f *Fetcher) get(ctx context.Context, target string) (*http.Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apierrors.NewAppValidationError("invalid URL").WithContext("url", target)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError("request failed", err).WithContext("url", target)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, apierrors.NewNetworkError(fmt.Sprintf("unexpected status %s", resp.Status), nil).
			WithContext("url", target).
			WithContext("status", resp.StatusCode)
	}
	return resp, nil
}
