package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultURL is the ReceiptLine print server endpoint for the TM-T20III.
const DefaultURL = "http://127.0.0.1:8080/tm_t20iii"

// JobHeader carries a unique id for each print job.
const JobHeader = "X-Receipt-Job"

// Printer hands a rendered receipt to a print service.
type Printer interface {
	// Print sends the receipt document. It returns the job id on success.
	Print(ctx context.Context, document []byte) (string, error)
	// Name describes the destination for logs.
	Name() string
}

// --- HTTP Printer (POSTs the document to a ReceiptLine print server) ---

type httpPrinter struct {
	url    string
	client *http.Client
}

// NewHTTPPrinter creates a printer that POSTs documents to url.
func NewHTTPPrinter(url string, timeout time.Duration) Printer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpPrinter{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *httpPrinter) Print(ctx context.Context, document []byte) (string, error) {
	jobID := uuid.New().String()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("printer: failed to build request for %s: %w", p.url, err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set(JobHeader, jobID)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("printer: failed to send to %s: %w", p.url, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("printer: %s returned %s: %s", p.url, resp.Status, bytes.TrimSpace(body))
	}
	return jobID, nil
}

func (p *httpPrinter) Name() string {
	return p.url
}

// --- Null Printer (no-op, used when printing is disabled) ---

type nullPrinter struct{}

// NewNullPrinter creates a printer that accepts and discards documents.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Print(ctx context.Context, document []byte) (string, error) {
	return "", nil
}

func (p *nullPrinter) Name() string {
	return "none"
}

// NewPrinterFromConfig creates the HTTP printer when enabled, otherwise the
// null printer.
func NewPrinterFromConfig(enabled bool, url string, timeout time.Duration) (Printer, error) {
	if !enabled {
		return NewNullPrinter(), nil
	}
	if url == "" {
		return nil, fmt.Errorf("printer: url is required when printing is enabled")
	}
	return NewHTTPPrinter(url, timeout), nil
}
