package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ternarybob/auspex/internal/app"
	"github.com/ternarybob/auspex/internal/common"
	"github.com/ternarybob/auspex/internal/server"
)

// TestEnvironment wraps an in-process service instance for API tests.
type TestEnvironment struct {
	App    *app.App
	Server *httptest.Server
}

// SetupTestEnvironment starts the service in-process with the deterministic
// engine and returns the running environment. Callers must Cleanup.
func SetupTestEnvironment() (*TestEnvironment, error) {
	config := common.NewDefaultConfig()
	config.Logging.Level = "error"

	application, err := app.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	srv := server.New(application)
	ts := httptest.NewServer(srv.Handler())

	return &TestEnvironment{
		App:    application,
		Server: ts,
	}, nil
}

// Cleanup releases the environment's resources.
func (env *TestEnvironment) Cleanup() {
	env.Server.Close()
	env.App.Close()
}

// HTTPTestHelper provides request helpers against the test server.
type HTTPTestHelper struct {
	t       *testing.T
	baseURL string
	client  *http.Client
}

// NewHTTPTestHelper creates a helper bound to the environment's server.
func (env *TestEnvironment) NewHTTPTestHelper(t *testing.T) *HTTPTestHelper {
	return &HTTPTestHelper{
		t:       t,
		baseURL: env.Server.URL,
		client:  env.Server.Client(),
	}
}

// GET performs a GET request against the given path.
func (h *HTTPTestHelper) GET(path string) (*http.Response, error) {
	return h.client.Get(h.baseURL + path)
}

// POST performs a POST request with a JSON body against the given path.
func (h *HTTPTestHelper) POST(path string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return h.client.Post(h.baseURL+path, "application/json", bytes.NewReader(data))
}

// ParseJSONResponse decodes the response body into target and closes the body.
func (h *HTTPTestHelper) ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse response body %q: %w", string(data), err)
	}
	return nil
}

// AssertStatusCode fails the test when the response status differs.
func (h *HTTPTestHelper) AssertStatusCode(resp *http.Response, expected int) {
	h.t.Helper()
	if resp.StatusCode != expected {
		h.t.Errorf("unexpected status code: got %d, want %d", resp.StatusCode, expected)
	}
}
