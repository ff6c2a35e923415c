package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable is returned when no conversion service is configured.
var ErrUnavailable = errors.New("pdf conversion not configured")

// Converter turns rendered DOCX bytes into PDF bytes.
type Converter interface {
	ConvertDocx(ctx context.Context, docx []byte) ([]byte, error)
}

// Client calls a Gotenberg-compatible LibreOffice conversion service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a converter against the given service URL.
func NewClient(baseURL string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("CONVERT_URL is required")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// ConvertDocx uploads the document and returns the produced PDF.
func (c *Client) ConvertDocx(ctx context.Context, docx []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", "document.docx")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(docx); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forms/libreoffice/convert", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("convert request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("convert status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("convert returned empty body")
	}
	return pdf, nil
}

// Disabled is a Converter that always reports ErrUnavailable.
type Disabled struct{}

func (Disabled) ConvertDocx(ctx context.Context, docx []byte) ([]byte, error) {
	_ = ctx
	_ = docx
	return nil, ErrUnavailable
}

var _ Converter = (*Client)(nil)
var _ Converter = Disabled{}
