package fleet

import (
	"crypto/subtle"
	"strings"
)

const bearerPrefix = "Bearer "

// Authorizer checks bearer credentials against the configured API key.
type Authorizer struct {
	APIKey string
}

func (a Authorizer) Check(authorization string) error {
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return ErrInvalidAuthorization
	}

	key := strings.TrimPrefix(authorization, bearerPrefix)
	if a.APIKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(a.APIKey)) != 1 {
		return ErrInvalidAPIKey
	}
	return nil
}

func BearerToken(apiKey string) string {
	return bearerPrefix + apiKey
}
