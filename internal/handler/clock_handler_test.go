package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studieplein/presentie-api/internal/dto"
	"github.com/studieplein/presentie-api/internal/service"
	"github.com/studieplein/presentie-api/internal/vclock"
	"github.com/studieplein/presentie-api/pkg/response"
)

func newClockHandler(t *testing.T) *ClockHandler {
	t.Helper()
	clock, err := vclock.New(vclock.Defaults{Date: "2022/01/20", Time: "15:30"})
	require.NoError(t, err)
	cache := service.NewCacheService(nil, nil, 0, zap.NewNop(), false)
	return NewClockHandler(service.NewClockService(clock, cache, zap.NewNop()))
}

func decodeClockState(t *testing.T, w *httptest.ResponseRecorder) dto.ClockStateResponse {
	t.Helper()
	var envelope struct {
		Data dto.ClockStateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestClockHandlerState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClockHandler(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/clock", nil)

	handler.State(c)
	require.Equal(t, http.StatusOK, w.Code)

	state := decodeClockState(t, w)
	assert.Equal(t, "2022/01/20", state.Date)
	assert.Equal(t, "15:30", state.Time)
	assert.True(t, state.IsDefault)
}

func TestClockHandlerUpdateFallsBackOnBadInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClockHandler(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.ClockUpdateRequest{Date: "not-a-date", Time: "08:05"})
	req, _ := http.NewRequest(http.MethodPut, "/clock", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)

	state := decodeClockState(t, w)
	assert.Equal(t, "2022/01/20", state.Date, "bad date lands on the default")
	assert.Equal(t, "08:05", state.Time)
	assert.False(t, state.IsDefaultTime)
}

func TestClockHandlerReset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClockHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.ClockUpdateRequest{Date: "2022/03/01", Time: "09:00"})
	req, _ := http.NewRequest(http.MethodPut, "/clock", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/clock/reset", nil)
	handler.Reset(c)
	require.Equal(t, http.StatusOK, w.Code)

	state := decodeClockState(t, w)
	assert.True(t, state.IsDefault)
}

func TestCheckinHandlerInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCheckinHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/checkin", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.CheckIn(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
}
