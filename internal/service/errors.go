package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                 = errors.New("not found")
	ErrConflict                 = errors.New("username or email already registered")
	ErrCaptchaRequired          = errors.New("captcha verification required")
	ErrCaptchaFailed            = errors.New("captcha verification failed")
	ErrCaptchaVerification      = errors.New("captcha could not be verified")
	ErrInvalidPassword          = errors.New("incorrect password")
	ErrPrivacyPolicyNotAccepted = errors.New("privacy policy must be accepted")
	ErrInvalidRole              = errors.New("invalid role")
	ErrInvalidInput             = errors.New("invalid input")
	ErrForbidden                = errors.New("forbidden")
	ErrImageRequired            = fmt.Errorf("%w: image is required", ErrInvalidInput)

	ErrCannotDeleteSelf  = fmt.Errorf("%w: cannot delete own account", ErrForbidden)
	ErrCannotDeleteAdmin = fmt.Errorf("%w: cannot delete an administrator", ErrForbidden)
	ErrNotRegularUser    = fmt.Errorf("%w: target is not a regular user", ErrForbidden)
)
