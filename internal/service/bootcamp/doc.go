// Package bootcamp implements bootcamp lifecycle orchestration.
//
// The service layer enforces every business invariant before touching
// storage: local validation first (no I/O), then the capacity service,
// then storage. It depends only on the interfaces defined in this package
// and should never import from api/.
//
// Repository implementations live in repository/postgres/; the capacity
// client lives in internal/capacity/.
package bootcamp
