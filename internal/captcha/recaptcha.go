// Package captcha verifies CAPTCHA challenge responses against an external service.
package captcha

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNotConfigured is returned when verification is attempted without a secret key.
var ErrNotConfigured = errors.New("captcha verifier is not configured")

// Verifier checks a client's CAPTCHA response.
// Verify returns false with a nil error when the service rejects the response,
// and a non-nil error when the service could not be reached or answered garbage.
type Verifier interface {
	Verify(ctx context.Context, response string) (bool, error)
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Recaptcha is a Verifier backed by Google's siteverify endpoint.
type Recaptcha struct {
	client    *resty.Client
	secret    string
	verifyURL string
}

// NewRecaptcha creates a verifier. Every call is bounded by timeout.
func NewRecaptcha(secret, verifyURL string, timeout time.Duration) *Recaptcha {
	return &Recaptcha{
		client:    resty.New().SetTimeout(timeout),
		secret:    secret,
		verifyURL: verifyURL,
	}
}

// Verify forwards response to the siteverify endpoint.
func (r *Recaptcha) Verify(ctx context.Context, response string) (bool, error) {
	if r.secret == "" {
		return false, ErrNotConfigured
	}

	var result siteVerifyResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"secret":   r.secret,
			"response": response,
		}).
		SetResult(&result).
		Get(r.verifyURL)
	if err != nil {
		return false, fmt.Errorf("captcha verification request failed: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("captcha verification returned status %d", resp.StatusCode())
	}
	return result.Success, nil
}
