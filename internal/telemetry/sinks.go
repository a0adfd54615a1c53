package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPSink posts analytics events as JSON to a webhook URL.
type HTTPSink struct {
	URL  string
	http *http.Client
}

// NewHTTPSink builds a sink, or nil when no URL is configured.
func NewHTTPSink(url string) *HTTPSink {
	if url == "" {
		return nil
	}
	return &HTTPSink{URL: url, http: &http.Client{Timeout: 5 * time.Second}}
}

func (s *HTTPSink) Record(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("analytics sink returned status %d", resp.StatusCode)
	}
	return nil
}

// HTTPAlertSink posts failure messages to a webhook URL.
type HTTPAlertSink struct {
	URL  string
	http *http.Client
}

// NewHTTPAlertSink builds a sink, or nil when no URL is configured.
func NewHTTPAlertSink(url string) *HTTPAlertSink {
	if url == "" {
		return nil
	}
	return &HTTPAlertSink{URL: url, http: &http.Client{Timeout: 5 * time.Second}}
}

func (s *HTTPAlertSink) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert sink returned status %d", resp.StatusCode)
	}
	return nil
}
