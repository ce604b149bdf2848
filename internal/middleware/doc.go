// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package middleware provides the HTTP middleware shared by all API routes.

Components:

  - RequestID: accepts or generates X-Request-ID and stores it where both the
    logger and the recommendation engine find it
  - PrometheusMetrics: request counts, latency and in-flight gauge, labelled
    by chi route pattern so path parameters cannot explode cardinality
  - Compression: gzip for clients that accept it
  - PerformanceMonitor: in-process latency percentiles per route and slow
    request logging

All middleware here has the http.HandlerFunc shape; internal/api adapts them
to chi with a one-line wrapper.
*/
package middleware
