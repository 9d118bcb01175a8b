package domains

import (
	"errors"
	"net/url"
)

var ErrInvalidHost = errors.New("value is not a valid URL or hostname")

// NormalizeHost reduces a URL to its host[:port] form:
//
//	NormalizeHost("http://localhost")      == "localhost"
//	NormalizeHost("http://localhost:3000") == "localhost:3000"
//
// Values that already lack a scheme ("example.com", "example.com:3000") are
// returned unchanged, so re-applying the function is a no-op.
func NormalizeHost(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidHost
	}

	u, err := url.Parse(raw)
	if err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https") {
		return u.Host, nil
	}

	// No scheme: accept the value if it parses as a bare host[:port].
	u, err = url.Parse("http://" + raw)
	if err != nil || u.Host != raw || u.Path != "" {
		return "", ErrInvalidHost
	}

	return raw, nil
}
