package heater

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	got []Result
	err error
}

func (f *fakeRecorder) Record(_ context.Context, r Result) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.got = append(f.got, r)
	return len(f.got), nil
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/heater/calc", strings.NewReader(body))
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestHandlerCalc(t *testing.T) {
	runs := &fakeRecorder{}
	h := &Handler{Lookup: refPsat, Runs: runs}

	w := post(h.Calc, `{"values": {"steam_mass_flow": 4200}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.ID)
	require.Len(t, resp.Rows, 5)
	assert.Equal(t, 73.81, resp.Rows[2].Value)
	assert.Len(t, runs.got, 1)
}

func TestHandlerRecorderFailureStillAnswers(t *testing.T) {
	h := &Handler{Lookup: refPsat, Runs: &fakeRecorder{err: errors.New("db down")}}
	w := post(h.Calc, `{}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.ID)
}

func TestHandlerErrors(t *testing.T) {
	h := &Handler{Lookup: refPsat}
	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{"values":`, http.StatusBadRequest},
		{"unknown key", `{"values": {"chimney": 3}}`, http.StatusBadRequest},
		{"invalid value", `{"values": {"fuel_mass_flow": 0}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, post(h.Calc, tt.body).Code)
		})
	}

	w := post((&Handler{}).Calc, `{}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandlerFields(t *testing.T) {
	h := &Handler{}
	w := httptest.NewRecorder()
	h.Fields(w, httptest.NewRequest(http.MethodGet, "/api/heater/fields", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out []struct {
		Key     string  `json:"key"`
		Default float64 `json:"default"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, len(Fields()))
	assert.Equal(t, "ambient_temperature", out[0].Key)
	assert.Equal(t, 26.7, out[0].Default)
}
