package service

import "errors"

// Sentinel errors returned by services. Handlers map these onto HTTP
// status codes and response error codes.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("not allowed to access this resource")
	ErrAlreadySubmitted = errors.New("exam already submitted")
	ErrAlreadyEnrolled  = errors.New("student already enrolled")
	ErrEmailTaken       = errors.New("email already registered")
	ErrNoQuestions      = errors.New("exam has no questions")
)
