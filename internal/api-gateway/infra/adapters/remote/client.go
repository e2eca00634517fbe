// Package remote talks to the work order server: work order folders, media
// uploads and the parts/travel catalogs.
package remote

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/domain/entity"
	"github.com/allstar-electrical/workorders/internal/api-gateway/core/ports"
	"github.com/allstar-electrical/workorders/internal/pkg/interceptors"
	"github.com/allstar-electrical/workorders/internal/pkg/interceptors/constants"
	"github.com/allstar-electrical/workorders/internal/workorder/domain"
)

// placeholderPDF is attached to every new work order; the server requires a
// pdf_file part but the rendered report is produced elsewhere.
//
//go:embed assets/placeholder.pdf
var placeholderPDF []byte

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 4 << 10

// Ensure Client implements the ports at compile time.
var _ ports.Backend = (*Client)(nil)

// Client is the HTTP adapter for the remote work order server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for baseURL (e.g. "http://10.0.0.63:8000").
// Every request is bounded by timeout and traced through otelhttp.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// --- Work orders ---

func (c *Client) CreateWorkOrder(ctx context.Context, wo *domain.WorkOrder) error {
	folder := wo.FolderName
	if folder == "" {
		return errors.New("remote: create work order: empty folder name")
	}
	doc, err := encodeDocument(wo)
	if err != nil {
		return err
	}

	body, contentType, err := buildMultipart(
		map[string]string{"folder_name": folder},
		[]filePart{
			{field: "json_file", name: folder + ".json", contentType: "application/json", data: doc},
			{field: "pdf_file", name: "workorder.pdf", contentType: "application/pdf", data: placeholderPDF},
		},
	)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/create-workorder/", nil, body, contentType, nil)
}

func (c *Client) UpdateWorkOrder(ctx context.Context, wo *domain.WorkOrder) error {
	folder := wo.FolderName
	if folder == "" {
		return errors.New("remote: update work order: empty folder name")
	}
	doc, err := encodeDocument(wo)
	if err != nil {
		return err
	}

	body, contentType, err := buildMultipart(
		map[string]string{"folder_name": folder},
		[]filePart{{field: "updated_json", name: folder + ".json", contentType: "application/json", data: doc}},
	)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/workorder/", nil, body, contentType, nil)
}

func (c *Client) GetWorkOrder(ctx context.Context, folder string) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	if err := c.do(ctx, http.MethodGet, "/workorder/"+url.PathEscape(folder), nil, nil, "", &wo); err != nil {
		return nil, err
	}
	wo.FolderName = folder
	return &wo, nil
}

func (c *Client) DeleteWorkOrder(ctx context.Context, folder string) error {
	return c.do(ctx, http.MethodDelete, "/workorder/"+url.PathEscape(folder), nil, nil, "", nil)
}

func (c *Client) ListFolders(ctx context.Context) ([]string, error) {
	var res struct {
		WorkOrders []string `json:"workorders"`
	}
	if err := c.do(ctx, http.MethodGet, "/workorders", nil, nil, "", &res); err != nil {
		return nil, err
	}
	return res.WorkOrders, nil
}

func (c *Client) SearchWorkOrders(ctx context.Context, query string) ([]entity.SearchMatch, error) {
	var res struct {
		Matches []entity.SearchMatch `json:"matches"`
	}
	q := url.Values{"query": {query}}
	if err := c.do(ctx, http.MethodGet, "/search-workorders/", q, nil, "", &res); err != nil {
		return nil, err
	}
	return res.Matches, nil
}

// Ping checks that the server answers, for health reporting.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListFolders(ctx)
	return err
}

// --- Media ---

func (c *Client) UploadMedia(ctx context.Context, folder string, files []entity.MediaFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	parts := make([]filePart, len(files))
	for i, f := range files {
		ct := f.ContentType
		if ct == "" {
			ct = entity.ContentTypeFor(f.Filename)
		}
		parts[i] = filePart{field: "files", name: f.Filename, contentType: ct, data: f.Data}
	}
	body, contentType, err := buildMultipart(map[string]string{"folder_name": folder}, parts)
	if err != nil {
		return nil, err
	}

	var res struct {
		Files []string `json:"files"`
	}
	if err := c.do(ctx, http.MethodPost, "/upload-images/", nil, body, contentType, &res); err != nil {
		return nil, err
	}
	return res.Files, nil
}

func (c *Client) ListMedia(ctx context.Context, folder string) ([]entity.MediaItem, error) {
	var res struct {
		Media []string `json:"media"`
	}
	q := url.Values{"folder_name": {folder}}
	if err := c.do(ctx, http.MethodGet, "/list-Images", q, nil, "", &res); err != nil {
		return nil, err
	}
	items := make([]entity.MediaItem, len(res.Media))
	for i, p := range res.Media {
		items[i] = entity.NewMediaItem(p)
	}
	return items, nil
}

func (c *Client) DeleteMedia(ctx context.Context, folder, filename string) error {
	q := url.Values{"folder_name": {folder}, "filename": {filename}}
	return c.do(ctx, http.MethodDelete, "/delete-Image", q, nil, "", nil)
}

// --- Catalog ---

func (c *Client) SearchParts(ctx context.Context, partName string) ([]entity.CatalogPart, error) {
	var parts []entity.CatalogPart
	q := url.Values{"part_name": {partName}}
	if err := c.do(ctx, http.MethodGet, "/parts/", q, nil, "", &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

func (c *Client) SearchTravel(ctx context.Context, location string) ([]entity.TravelTime, error) {
	var travel []entity.TravelTime
	q := url.Values{"location": {location}}
	if err := c.do(ctx, http.MethodGet, "/travel-time/", q, nil, "", &travel); err != nil {
		return nil, err
	}
	return travel, nil
}

// --- Plumbing ---

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("remote: build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if id := interceptors.RequestID(ctx); id != "" {
		req.Header.Set(constants.HeaderXRequestId, id)
	}
	if key := interceptors.IdempotencyKey(ctx); key != "" {
		req.Header.Set(constants.HeaderXIdempotencyKey, key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s %s: %w", method, path, err)
	}
	return nil
}

// encodeDocument marshals the stored form of wo; the folder name is not part
// of the document.
func encodeDocument(wo *domain.WorkOrder) ([]byte, error) {
	doc := *wo
	doc.FolderName = ""
	b, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("remote: encode work order %s: %w", wo.FolderName, err)
	}
	return b, nil
}

type filePart struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func buildMultipart(fields map[string]string, files []filePart) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("remote: multipart field %s: %w", k, err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", f.contentType)
		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("remote: multipart file %s: %w", f.name, err)
		}
		if _, err := pw.Write(f.data); err != nil {
			return nil, "", fmt.Errorf("remote: multipart file %s: %w", f.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("remote: close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
