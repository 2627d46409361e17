package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteError_Taxonomy(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{ValidationError("username and password required", nil), http.StatusBadRequest, "username and password required"},
		{ConflictError("username already exists"), http.StatusBadRequest, "username already exists"},
		{AuthError("invalid username or password"), http.StatusUnauthorized, "invalid username or password"},
		{NotFoundError("post not found"), http.StatusNotFound, "post not found"},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, ErrMessageInternal},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		writeError(rr, httptest.NewRequest("GET", "/", nil), tc.err)
		if rr.Code != tc.code {
			t.Errorf("%v: status got %d, want %d", tc.err, rr.Code, tc.code)
		}
		if msg := decodeMsg(t, rr); msg != tc.msg {
			t.Errorf("%v: msg got %q, want %q", tc.err, msg, tc.msg)
		}
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/posts", strings.NewReader(`{"title":"`+strings.Repeat("a", 64)+`"}`))
	req.Body = http.MaxBytesReader(rr, req.Body, 16)

	var dst postInput
	err := decodeJSON(req, &dst)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 APIError, got %v", err)
	}
}
