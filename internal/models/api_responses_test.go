// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gamematch/internal/recommend/interest"
)

func TestNewInterestsResponse(t *testing.T) {
	stamp := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		vector    *interest.Vector
		wantLen   int
		wantStamp time.Time
	}{
		{name: "nil vector", vector: nil},
		{name: "empty vector", vector: interest.NewVector()},
		{
			name:      "populated",
			vector:    interest.FromEntries([]interest.Entry{{Label: "RPG", Weight: 2}, {Label: "Puzzle", Weight: 1}}, stamp),
			wantLen:   2,
			wantStamp: stamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewInterestsResponse(tt.vector)
			if got.Interests == nil {
				t.Fatal("Interests must be a list, not nil")
			}
			if len(got.Interests) != tt.wantLen {
				t.Errorf("len(Interests) = %d, want %d", len(got.Interests), tt.wantLen)
			}
			if !got.LastDecayedAt.Equal(tt.wantStamp) {
				t.Errorf("LastDecayedAt = %v, want %v", got.LastDecayedAt, tt.wantStamp)
			}
		})
	}
}

func TestAPIResponse_ErrorShape(t *testing.T) {
	data, err := json.Marshal(&APIResponse{
		Status: "error",
		Error:  &APIError{Code: ErrCodeUserNotFound, Message: "user not found"},
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	body := string(data)
	for _, want := range []string{`"status":"error"`, `"data":null`, `"code":"USER_NOT_FOUND"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body %s missing %s", body, want)
		}
	}
	if strings.Contains(body, "details") || strings.Contains(body, "request_id") {
		t.Errorf("body %s should omit empty optional fields", body)
	}
}
