// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - RayID: generates a unique request id for every incoming request,
//     injecting it into the context and response headers for tracing.
package middleware
