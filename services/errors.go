package services

import "errors"

// Error kinds for the two pipelines. Every fatal failure wraps exactly one of
// these so controllers can map kinds to status codes with errors.Is.
var (
	// ErrEmptyResponse - the inference call returned no usable text.
	ErrEmptyResponse = errors.New("inference returned empty response")
	// ErrMalformedPayload - response text did not contain the expected JSON
	// shape after fence stripping.
	ErrMalformedPayload = errors.New("malformed inference payload")
	// ErrMissingImagePart - a visualization response carried no inline image.
	ErrMissingImagePart = errors.New("no image part in inference response")
	// ErrUpstreamUnavailable - weather, store or inference transport failed or
	// timed out.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	// ErrUnknownArticle - strict mode only: a recommended article id does not
	// exist in the catalog snapshot.
	ErrUnknownArticle = errors.New("recommended article not found in closet")
)
