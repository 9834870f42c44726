package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealthCheck verifies that the service starts with default configuration
// and responds to both health endpoints.
func TestHealthCheck(t *testing.T) {
	env, err := SetupTestEnvironment()
	require.NoError(t, err, "Failed to setup test environment")
	defer env.Cleanup()

	helper := env.NewHTTPTestHelper(t)

	for _, path := range []string{"/health", "/api/health"} {
		resp, err := helper.GET(path)
		require.NoError(t, err, "Failed to call %s", path)

		helper.AssertStatusCode(resp, http.StatusOK)

		var result map[string]string
		err = helper.ParseJSONResponse(resp, &result)
		require.NoError(t, err, "Failed to parse health response")

		assert.Equal(t, "ok", result["status"], "Health status should be 'ok'")
		assert.NotEmpty(t, result["timestamp"], "Health response should carry a timestamp")
	}
}

func TestVersionEndpoint(t *testing.T) {
	env, err := SetupTestEnvironment()
	require.NoError(t, err, "Failed to setup test environment")
	defer env.Cleanup()

	helper := env.NewHTTPTestHelper(t)

	resp, err := helper.GET("/api/version")
	require.NoError(t, err, "Failed to call version endpoint")

	helper.AssertStatusCode(resp, http.StatusOK)

	var result map[string]string
	err = helper.ParseJSONResponse(resp, &result)
	require.NoError(t, err, "Failed to parse version response")

	assert.NotEmpty(t, result["version"], "Version should be populated")
}
