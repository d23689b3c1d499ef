package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/trunov/imgconvert/internal/entities"
)

const convertPath = "/api/convert"

// HTTPError is a non-2xx answer from the conversion endpoint.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("conversion endpoint returned %d", e.StatusCode)
	}
	return fmt.Sprintf("conversion endpoint returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to POST /api/convert.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request. Zero keeps the default of no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert sends one image. Transport failures and non-2xx answers are both
// returned as errors; an *HTTPError carries the server's message.
func (c *Client) Convert(ctx context.Context, req entities.ConversionRequest) (entities.ConversionResult, error) {
	body, contentType, err := buildBody(req)
	if err != nil {
		return entities.Failed(err), err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+convertPath, body)
	if err != nil {
		return entities.Failed(err), err
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = fmt.Errorf("convert %s: %w", req.SourceName, err)
		return entities.Failed(err), err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := decodeError(resp)
		return entities.Failed(err), err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("read converted %s: %w", req.SourceName, err)
		return entities.Failed(err), err
	}

	return entities.ConversionResult{Data: data, MIMEType: resp.Header.Get("Content-Type")}, nil
}

func buildBody(req entities.ConversionRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	name := req.SourceName
	if name == "" {
		name = "image"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	h.Set("Content-Type", mimetype.Detect(req.Source).String())

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Source); err != nil {
		return nil, "", err
	}

	if err := mw.WriteField("convertTo", req.Format.String()); err != nil {
		return nil, "", err
	}
	if req.Quality != nil {
		if err := mw.WriteField("compressionLevel", strconv.Itoa(*req.Quality)); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err != nil {
		body.Error = strings.TrimSpace(string(raw))
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: body.Error}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
