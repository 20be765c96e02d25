package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/shopfront/shopfront-server/internal/errors"
	"github.com/shopfront/shopfront-server/internal/http/response"
)

// EnvelopeVersion is the envelope format version sent as "v".
const EnvelopeVersion = response.Version

// EnvelopeTransformer wraps every huma response body in the API envelope.
// Errors become {"success":false,"error":...,"code":...}; anything else is
// returned as data.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	err, isErr := v.(error)
	if !isErr {
		return response.Success(v), nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return response.Failure(apiErr.Code, apiErr.Message, apiErr.Details), nil
	}

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return response.Failure(string(domainErr.Code), domainErr.Message, domainErr.Details), nil
	}

	return response.Failure("", err.Error(), nil), nil
}
