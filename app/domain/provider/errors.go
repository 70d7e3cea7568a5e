package provider

import (
	"errors"
	"net/http"

	"github.com/scholarfed/engine/app/domain/document"
)

// ClassifyHTTPStatus maps an HTTP status code (and optional Retry-After
// seconds) to a classified ProviderError, per spec §4.2/§6: 429 and 5xx
// are transient and retry-permitted; 404 is not-found; other 4xx are
// permanent.
func ClassifyHTTPStatus(tag document.ProviderTag, status int, retryAfterSeconds *int, cause error) *document.ProviderError {
	switch {
	case status == http.StatusTooManyRequests || status >= 500:
		perr := &document.ProviderError{
			Kind:           document.ErrorTransient,
			Provider:       tag,
			Cause:          cause,
			RetryPermitted: true,
		}
		if retryAfterSeconds != nil {
			ms := int64(*retryAfterSeconds) * 1000
			perr.RetryAfterMs = &ms
		}
		return perr
	case status == http.StatusNotFound:
		return &document.ProviderError{
			Kind:           document.ErrorNotFound,
			Provider:       tag,
			Cause:          cause,
			RetryPermitted: false,
		}
	case status >= 400:
		return &document.ProviderError{
			Kind:           document.ErrorPermanent,
			Provider:       tag,
			Cause:          cause,
			RetryPermitted: false,
		}
	default:
		return nil
	}
}

// MalformedError builds a classified parse-failure error, logging an
// excerpt of the offending payload at the call site's discretion (spec
// §4.2).
func MalformedError(tag document.ProviderTag, cause error) *document.ProviderError {
	return &document.ProviderError{
		Kind:           document.ErrorMalformed,
		Provider:       tag,
		Cause:          cause,
		RetryPermitted: false,
	}
}

// CapabilityMismatchError builds the error an adapter returns when an
// intent requires a capability it lacks and cannot best-effort encode.
func CapabilityMismatchError(tag document.ProviderTag, missing document.ProviderCapability) *document.ProviderError {
	return &document.ProviderError{
		Kind:           document.ErrorCapabilityMismatch,
		Provider:       tag,
		Cause:          errors.New("capability not supported: " + string(missing)),
		RetryPermitted: false,
	}
}

// TransportError classifies a network-level failure (connection refused,
// timeout) as transient per spec §5 ("A timeout is classified as
// transient").
func TransportError(tag document.ProviderTag, cause error) *document.ProviderError {
	return &document.ProviderError{
		Kind:           document.ErrorTransient,
		Provider:       tag,
		Cause:          cause,
		RetryPermitted: true,
	}
}
