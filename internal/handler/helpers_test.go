package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learnhub-api/internal/middleware"
	"github.com/noah-isme/learnhub-api/internal/models"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *envelopeError         `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newTestContext(method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var payload []byte
	if body != nil {
		switch v := body.(type) {
		case string:
			payload = []byte(v)
		default:
			payload, _ = json.Marshal(v)
		}
	}
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func withClaims(c *gin.Context, userID string, role models.UserRole) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: userID, Role: role, Name: "Test " + string(role)})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	envelope := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}
