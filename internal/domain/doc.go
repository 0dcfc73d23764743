// Package domain defines the core business types for the bootcamp service.
//
// Types in this package are pure value objects with no behavior beyond
// validation helpers. They are the shared language between handlers,
// services, and repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON/DB tags are allowed (they're metadata, not behavior)
//   - Pure functions on the types are allowed
package domain
