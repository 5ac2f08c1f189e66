package tests

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertJSONResponse checks the status code and the JSON body of a recorded response.
func AssertJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, status int, expected any) {
	t.Helper()
	assert.Equal(t, status, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	want, err := json.Marshal(expected)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), recorder.Body.String())
}

// AssertErrorResponse checks that a recorded response is an API error with the given codes.
func AssertErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder, status int, codes ...string) {
	t.Helper()
	AssertJSONResponse(t, recorder, status, models.Error{Status: status, Error: codes})
}
