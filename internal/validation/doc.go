// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package validation validates decoded API request bodies with
go-playground/validator v10.

A single validator instance is shared by all handlers; it caches struct
metadata, reports fields by their JSON names and registers the notblank tag
for labels that must contain more than whitespace.

	type saveRequest struct {
	    ItemID string   `json:"item_id" validate:"required,notblank,max=64"`
	    Genres []string `json:"genres" validate:"max=32,dive,notblank,max=64"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    // respond 400 with apiErr.Code / apiErr.Message / apiErr.Details
	}

Nested fields are reported with their path relative to the request, for
example "interests[2].weight".
*/
package validation
