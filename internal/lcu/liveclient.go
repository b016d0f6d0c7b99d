package lcu

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LiveClient reads the in-game telemetry API. Unlike the control API it is
// unauthenticated, lives on a fixed port and only answers while a match is
// actually running.
type LiveClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewLiveClient creates a telemetry reader. baseURL defaults to the fixed
// local endpoint when empty.
func NewLiveClient(baseURL string, timeout time.Duration) *LiveClient {
	if baseURL == "" {
		baseURL = "https://127.0.0.1:2999"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LiveClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

// GetLiveGameData fetches the full telemetry snapshot. ErrUnavailable means
// no match is running, which callers treat as a normal condition.
func (lc *LiveClient) GetLiveGameData() (map[string]any, error) {
	resp, err := lc.httpClient.Get(lc.baseURL + "/liveclientdata/allgamedata")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: decode telemetry: %v", ErrUnavailable, err)
	}
	return out, nil
}

// IsGameRunning reports whether the telemetry endpoint is answering.
func (lc *LiveClient) IsGameRunning() bool {
	_, err := lc.GetLiveGameData()
	return err == nil
}
