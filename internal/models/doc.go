// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package models defines the HTTP API's request and response bodies.

Every response uses the APIResponse envelope. Engine types
(recommend.Response, interest.Vector) travel in its Data field unchanged;
this package only adds what the wire needs around them: the envelope,
error codes and validated request bodies.
*/
package models
