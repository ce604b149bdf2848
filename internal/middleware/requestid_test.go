// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		raw      bool // bypass Header.Set so control characters survive
		wantKeep bool
	}{
		{name: "no header", incoming: ""},
		{name: "upstream id kept", incoming: "edge-7f3a_01.b", wantKeep: true},
		{name: "newline rejected", incoming: "abc\nforged=1", raw: true},
		{name: "space rejected", incoming: "abc def"},
		{name: "too long rejected", incoming: strings.Repeat("a", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			switch {
			case tt.raw:
				req.Header["X-Request-Id"] = []string{tt.incoming}
			case tt.incoming != "":
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			if got := req.Header.Get(RequestIDHeader); got != tt.incoming {
				t.Fatalf("request header = %q, want %q", got, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			echoed := rec.Header().Get(RequestIDHeader)
			if echoed != seen {
				t.Errorf("response header %q != context value %q", echoed, seen)
			}
			if tt.wantKeep {
				if seen != tt.incoming {
					t.Errorf("request ID = %q, want %q", seen, tt.incoming)
				}
				return
			}
			if tt.incoming != "" && seen == tt.incoming {
				t.Errorf("invalid upstream ID %q was kept", tt.incoming)
			}
			if _, err := uuid.Parse(seen); err != nil {
				t.Errorf("generated request ID %q is not a UUID", seen)
			}
		})
	}
}
