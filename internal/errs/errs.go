// Package errs defines the closed error taxonomy shared by both
// orchestrators.
//
// Two kinds exist. Business errors are client-caused (validation, not-found,
// conflicts, limits) and surface to the caller with their registry message.
// Technical errors are infrastructure failures; the cause is logged and the
// caller only ever sees a generic internal-error message.
package errs

import (
	"errors"
	"fmt"
)

// Code identifies one entry of the business error registry.
type Code string

const (
	NameRequired          Code = "BOOTCAMP_NAME_REQUIRED"
	DescriptionRequired   Code = "BOOTCAMP_DESCRIPTION_REQUIRED"
	NameTooLong           Code = "BOOTCAMP_NAME_TOO_LONG"
	DescriptionTooLong    Code = "BOOTCAMP_DESCRIPTION_TOO_LONG"
	LaunchDateRequired    Code = "BOOTCAMP_LAUNCH_DATE_REQUIRED"
	LaunchDatePast        Code = "BOOTCAMP_LAUNCH_DATE_PAST"
	DurationInvalid       Code = "BOOTCAMP_DURATION_INVALID"
	CapacitiesRequired    Code = "BOOTCAMP_CAPACITIES_REQUIRED"
	CapacitiesMax         Code = "BOOTCAMP_CAPACITIES_MAX"
	CapacitiesDuplicated  Code = "BOOTCAMP_CAPACITIES_DUPLICATED"
	CapacitiesNotFound    Code = "CAPACITIES_NOT_FOUND"
	BootcampAlreadyExists Code = "BOOTCAMP_ALREADY_EXISTS"
	BootcampNotFound      Code = "BOOTCAMP_NOT_FOUND"
	UserNotFound          Code = "USER_NOT_FOUND"
	UserAlreadyEnrolled   Code = "USER_ALREADY_ENROLLED"
	MaxBootcampsReached   Code = "MAX_BOOTCAMPS_REACHED"
	DateConflict          Code = "BOOTCAMP_DATE_CONFLICT"
	EnrollmentNotFound    Code = "ENROLLMENT_NOT_FOUND"
)

// entry holds the fixed message and offending field for a registry code.
type entry struct {
	message string
	field   string
}

var registry = map[Code]entry{
	NameRequired:          {"Bootcamp name is required", "name"},
	DescriptionRequired:   {"Bootcamp description is required", "description"},
	NameTooLong:           {"Bootcamp name cannot exceed 50 characters", "name"},
	DescriptionTooLong:    {"Bootcamp description cannot exceed 90 characters", "description"},
	LaunchDateRequired:    {"Bootcamp launch date is required", "launchDate"},
	LaunchDatePast:        {"Bootcamp launch date cannot be in the past", "launchDate"},
	DurationInvalid:       {"Bootcamp duration must be at least 1 day", "duration"},
	CapacitiesRequired:    {"Bootcamp must have at least 1 capacity", "capacityIds"},
	CapacitiesMax:         {"Bootcamp cannot have more than 4 capacities", "capacityIds"},
	CapacitiesDuplicated:  {"Bootcamp cannot have duplicate capacities", "capacityIds"},
	CapacitiesNotFound:    {"Some capacities do not exist", "capacityIds"},
	BootcampAlreadyExists: {"Bootcamp with this name already exists", "name"},
	BootcampNotFound:      {"Bootcamp not found", "id"},
	UserNotFound:          {"User not found", "userId"},
	UserAlreadyEnrolled:   {"User is already enrolled in this bootcamp", "userId"},
	MaxBootcampsReached:   {"User has reached the maximum of 5 active bootcamps", "userId"},
	DateConflict:          {"Bootcamp dates conflict with an existing enrollment", "launchDate"},
	EnrollmentNotFound:    {"Enrollment not found", "userId"},
}

// Business is a client-caused error drawn from the registry.
type Business struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *Business) Error() string { return string(e.Code) + ": " + e.Message }

// NewBusiness returns the registry error for the given code. Unknown codes
// panic: the registry is closed and a miss is a programming error.
func NewBusiness(code Code) *Business {
	ent, ok := registry[code]
	if !ok {
		panic(fmt.Sprintf("errs: unknown business code %q", code))
	}
	return &Business{Code: code, Message: ent.message, Field: ent.field}
}

// BusinessFrom unwraps err into a *Business, or nil if err is not one.
func BusinessFrom(err error) *Business {
	var b *Business
	if errors.As(err, &b) {
		return b
	}
	return nil
}

// IsCode reports whether err is the business error with the given code.
func IsCode(err error, code Code) bool {
	b := BusinessFrom(err)
	return b != nil && b.Code == code
}

// Technical is an infrastructure failure. Service identifies the failing
// collaborator ("capacity-service", "user-service", "storage"); Cause is
// for logs only and must never reach a client.
type Technical struct {
	Service string
	Cause   error
}

func (e *Technical) Error() string {
	if e.Cause != nil {
		return e.Service + " error: " + e.Cause.Error()
	}
	return e.Service + " error"
}

func (e *Technical) Unwrap() error { return e.Cause }

// NewTechnical wraps cause as a technical failure of the named service.
func NewTechnical(service string, cause error) *Technical {
	return &Technical{Service: service, Cause: cause}
}

// IsTechnical reports whether err carries a technical error.
func IsTechnical(err error) bool {
	var t *Technical
	return errors.As(err, &t)
}
