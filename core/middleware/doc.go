// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: rejects requests that do not carry the configured API key in the
//     X-API-Key header. Swagger and health routes are left open.
//   - rayid: assigns every request a ray ID, stores it in the context under
//     "ray_id" and echoes it in the X-Ray-ID response header.
//
// Both are registered globally in the start command.
package middleware
