// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompression(t *testing.T) {
	payload := strings.Repeat(`{"name":"Hades","genres":["Roguelike"]}`, 50)
	handler := Compression(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	})

	tests := []struct {
		name         string
		method       string
		acceptEnc    string
		wantEncoding string
	}{
		{name: "gzip accepted", method: http.MethodGet, acceptEnc: "gzip, deflate", wantEncoding: "gzip"},
		{name: "gzip with q", method: http.MethodGet, acceptEnc: "br;q=1.0, gzip;q=0.8", wantEncoding: "gzip"},
		{name: "gzip refused", method: http.MethodGet, acceptEnc: "gzip;q=0"},
		{name: "no header", method: http.MethodGet},
		{name: "head request", method: http.MethodHead, acceptEnc: "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/recommendations", nil)
			if tt.acceptEnc != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEnc)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if got := rec.Header().Get("Content-Encoding"); got != tt.wantEncoding {
				t.Fatalf("Content-Encoding = %q, want %q", got, tt.wantEncoding)
			}
			if rec.Header().Get("Vary") != "Accept-Encoding" {
				t.Errorf("Vary = %q", rec.Header().Get("Vary"))
			}
			if tt.wantEncoding == "" {
				return
			}

			zr, err := gzip.NewReader(rec.Body)
			if err != nil {
				t.Fatalf("gzip.NewReader() error = %v", err)
			}
			body, err := io.ReadAll(zr)
			if err != nil {
				t.Fatalf("read gzip body: %v", err)
			}
			if string(body) != payload {
				t.Error("decompressed body does not match payload")
			}
		})
	}
}
