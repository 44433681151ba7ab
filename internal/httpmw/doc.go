// Package httpmw provides the HTTP middleware chain for the API
// server.
//
// Middleware is composed in a specific order in httpserver.NewHandler:
// request ID assignment, client IP extraction, OTEL tracing, rate
// limiting, error translation, request-scoped logging, access logging,
// metrics, credential decoding, and the chi router. The order is load
// bearing: the error translator sits outside the access logger so the
// logger observes the request's outcome before the envelope is
// written, and the credential decoder sits inside both so its identity
// is available to handlers and to the terminal event.
//
// Each middleware is an independent function that can be tested on its
// own. Credential material (Authorization, Cookie, X-Api-Key) is never
// written to logs.
package httpmw
