package finmind

import (
	"errors"
	"strings"
)

// ErrCredentialNotFound is returned by credential lookups with no stored row
var ErrCredentialNotFound = errors.New("credential not found")

// ErrUnableToDecodeToken unable to decode the access token claims
var ErrUnableToDecodeToken = errors.New("unable to decode token")

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims")

// IsTokenMalformedError will check for error message
func IsTokenMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "token contains an invalid number of segments")
}
