package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/sensei/internal/store"
)

// LoggingTransport is an http.RoundTripper decorator that records every
// request as a request event and writes a structured log line.
type LoggingTransport struct {
	inner   http.RoundTripper
	service string
	repo    store.RequestRepo
	logger  *zap.Logger
}

// WithLogging wraps inner (http.DefaultTransport when nil) so that calls to
// service are recorded in repo. Either repo or logger may be nil.
func WithLogging(inner http.RoundTripper, service string, repo store.RequestRepo, logger *zap.Logger) *LoggingTransport {
	if inner == nil {
		inner = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingTransport{inner: inner, service: service, repo: repo, logger: logger}
}

func (l *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	reqBody := captureRequest(req)

	resp, err := l.inner.RoundTrip(req)
	latency := time.Since(start)

	data := store.RequestEventData{
		Service:     l.service,
		Method:      req.Method,
		Path:        req.URL.Path,
		LatencyMs:   latency.Milliseconds(),
		RequestBody: reqBody,
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	} else {
		data.StatusCode = resp.StatusCode
		data.Success = resp.StatusCode >= 200 && resp.StatusCode <= 299
		data.ResponseBody = captureResponse(resp)
		if !data.Success {
			data.ErrorMessage = ParseDetail([]byte(data.ResponseBody))
		}
	}

	fields := []zap.Field{
		zap.String("service", l.service),
		zap.String("method", data.Method),
		zap.String("path", data.Path),
		zap.Int("status", data.StatusCode),
		zap.Duration("latency", latency),
	}
	if data.Success {
		l.logger.Debug("request", fields...)
	} else {
		l.logger.Warn("request failed", append(fields, zap.String("error", data.ErrorMessage))...)
	}

	// Log the event but don't fail the request if logging fails.
	if l.repo != nil {
		if logErr := l.repo.Append(context.WithoutCancel(req.Context()), data); logErr != nil {
			l.logger.Error("record request event", zap.Error(logErr))
		}
	}

	return resp, err
}

// captureRequest returns a printable copy of the request body and rewinds
// it for the inner transport. Multipart uploads are summarized.
func captureRequest(req *http.Request) string {
	if req.Body == nil || req.Body == http.NoBody {
		return ""
	}
	raw, err := io.ReadAll(req.Body)
	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/") {
		return fmt.Sprintf("[multipart body, %d bytes]", len(raw))
	}
	return redact(string(raw))
}

func captureResponse(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	return redact(string(raw))
}

var secretField = regexp.MustCompile(`("(?:password|access_token|refresh_token|code_verifier)"\s*:\s*")[^"]*"`)

// redact hides credentials that appear in auth payloads.
func redact(body string) string {
	return secretField.ReplaceAllString(body, `${1}***"`)
}
