package connection

import (
	"context"
	"fmt"
	"strings"
)

// SchemeRouter dispatches Dial to the dialer registered for the URI scheme.
//
//	router := connection.SchemeRouter{
//	    "mongodb":     mongoDialer,
//	    "mongodb+srv": mongoDialer,
//	    "postgres":    pgDialer,
//	}
type SchemeRouter map[string]Dialer

// Dial implements Dialer.
func (r SchemeRouter) Dial(ctx context.Context, uri string, opts Options) (Handle, error) {
	scheme := Scheme(uri)
	d, ok := r[scheme]
	if !ok || d == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	return d.Dial(ctx, uri, opts)
}

// Scheme returns the lower-cased scheme of uri, or "" when it has none.
// Multi-host URIs such as mongodb://a,b/db are not valid for net/url, so the
// scheme is cut textually.
func Scheme(uri string) string {
	scheme, _, found := strings.Cut(strings.TrimSpace(uri), "://")
	if !found {
		return ""
	}
	return strings.ToLower(scheme)
}
