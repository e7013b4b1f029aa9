// Package api is the HTTP client for the student REST backend.
//
// List and search responses are wrapped in an envelope
// {success, message, data}. Single-record responses may be raw records or
// the same envelope; both are accepted. Delete is judged by status alone.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"studentdesk/internal/jsonutil"
	"studentdesk/internal/student"
)

// DefaultTimeout applies when no HTTP client is supplied.
const DefaultTimeout = 10 * time.Second

// RequestIDHeader carries a per-call id for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds response reads; list payloads carry base64 photos.
const maxBodyBytes = 64 << 20

// Client talks to the students endpoint rooted at baseURL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	tracer  oteltrace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger for request outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTracer sets the tracer used to open one span per call.
func WithTracer(t oteltrace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// New creates a client for the students collection at baseURL
// (e.g. http://localhost:8080/api/students).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
		tracer:  noop.NewTracerProvider().Tracer("studentdesk/api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the list/search response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// List fetches every student.
func (c *Client) List(ctx context.Context) ([]student.Record, error) {
	var records []student.Record
	err := c.do(ctx, "list", http.MethodGet, c.baseURL, nil, func(data []byte) (err error) {
		records, err = decodeList("list", data, "Failed to load students")
		return err
	})
	return records, err
}

// Search fetches students whose name contains term.
func (c *Client) Search(ctx context.Context, term string) ([]student.Record, error) {
	u := c.baseURL + "/search?" + url.Values{"name": {term}}.Encode()
	var records []student.Record
	err := c.do(ctx, "search", http.MethodGet, u, nil, func(data []byte) (err error) {
		records, err = decodeList("search", data, "Search failed")
		return err
	})
	return records, err
}

// Get fetches one student. A response without an id is a KindShape error.
func (c *Client) Get(ctx context.Context, id int64) (student.Record, error) {
	var rec student.Record
	err := c.do(ctx, "get", http.MethodGet, c.recordURL(id), nil, func(data []byte) error {
		r, err := decodeRecord("get", data)
		if err != nil {
			return err
		}
		if r.ID == 0 {
			return shapeError("get", "Invalid student data received", nil)
		}
		rec = r
		return nil
	})
	return rec, err
}

// Create posts a new student and returns the stored record.
func (c *Client) Create(ctx context.Context, p student.Payload) (student.Record, error) {
	return c.saveRecord(ctx, "create", http.MethodPost, c.baseURL, p)
}

// Update replaces the student with the given id.
func (c *Client) Update(ctx context.Context, id int64, p student.Payload) (student.Record, error) {
	return c.saveRecord(ctx, "update", http.MethodPut, c.recordURL(id), p)
}

// Delete removes the student with the given id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, "delete", http.MethodDelete, c.recordURL(id), nil, nil)
}

func (c *Client) saveRecord(ctx context.Context, op, method, target string, p student.Payload) (student.Record, error) {
	var rec student.Record
	err := c.do(ctx, op, method, target, p, func(data []byte) (err error) {
		rec, err = decodeRecord(op, data)
		return err
	})
	if err != nil {
		return student.Record{}, err
	}
	return rec, nil
}

func (c *Client) recordURL(id int64) string {
	return c.baseURL + "/" + strconv.FormatInt(id, 10)
}

// do performs one request and hands the body of a 2xx response to decode
// (nil skips decoding). Transport, status and decode failures are all
// stamped with the request id, logged and recorded on the span.
func (c *Client) do(ctx context.Context, op, method, target string, body interface{}, decode func([]byte) error) error {
	reqID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "students."+op,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", target),
			attribute.String("studentdesk.request_id", reqID),
		),
	)
	defer span.End()

	start := time.Now()
	data, status, err := c.roundTrip(ctx, op, method, target, reqID, body)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err == nil && decode != nil {
		err = decode(data)
	}

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", status),
		zap.String("request_id", reqID),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			apiErr.RequestID = reqID
			fields = append(fields, zap.Stringer("kind", apiErr.Kind))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("api request failed", append(fields, zap.Error(err))...)
		return err
	}
	c.logger.Debug("api request", fields...)
	return nil
}

func (c *Client) roundTrip(ctx context.Context, op, method, target, reqID string, body interface{}) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodGet {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &Error{Op: op, Kind: KindTransport, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, &Error{Op: op, Kind: KindTransport, Status: resp.StatusCode, Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, statusError(op, resp.StatusCode, serverMessage(data))
	}
	return data, resp.StatusCode, nil
}

// serverMessage extracts {"message": "..."} from an error body, if present.
func serverMessage(data []byte) string {
	if !jsonutil.HasKeys(data, "message") {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Message
}

func decodeList(op string, data []byte, fallback string) ([]student.Record, error) {
	var env envelope
	if err := jsonutil.UnmarshalWithContext(data, &env, "decode envelope"); err != nil {
		return nil, shapeError(op, "Unexpected response", err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		return nil, &Error{Op: op, Kind: KindEnvelope, Message: msg}
	}
	records, err := jsonutil.UnmarshalArrayAllowEmpty[student.Record](env.Data, "decode students")
	if err != nil {
		return nil, shapeError(op, "Unexpected response", err)
	}
	return records, nil
}

// decodeRecord accepts a raw record or an enveloped one. An empty body
// yields the zero record.
func decodeRecord(op string, data []byte) (student.Record, error) {
	var rec student.Record
	if len(bytes.TrimSpace(data)) == 0 {
		return rec, nil
	}
	if jsonutil.HasKeys(data, "success", "data") {
		var env envelope
		if err := jsonutil.UnmarshalWithContext(data, &env, "decode envelope"); err != nil {
			return rec, shapeError(op, "Unexpected response", err)
		}
		if !env.Success {
			msg := env.Message
			if msg == "" {
				msg = "Request failed"
			}
			return rec, &Error{Op: op, Kind: KindEnvelope, Message: msg}
		}
		data = env.Data
		if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
			return rec, nil
		}
	}
	if !jsonutil.IsObject(data) {
		return rec, shapeError(op, "Invalid student data received", nil)
	}
	if err := jsonutil.UnmarshalWithContext(data, &rec, "decode student"); err != nil {
		return rec, shapeError(op, "Invalid student data received", err)
	}
	return rec, nil
}
