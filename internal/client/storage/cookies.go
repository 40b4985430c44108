package storage

import (
	"context"
	"net/http"
	"time"
)

// CookieStorage persists cookies issued by the API (refresh token side channel)
// so that the session can be refreshed after the client restarts.
type CookieStorage interface {
	// SaveCookies replaces all cookies stored for host
	SaveCookies(ctx context.Context, host string, cookies []*http.Cookie) error

	// LoadCookies returns cookies stored for host (empty slice if none)
	LoadCookies(ctx context.Context, host string) ([]*http.Cookie, error)
}

// StoredCookie is the serialized form of http.Cookie.
// Only fields the jar needs to reconstruct the cookie are kept.
type StoredCookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Path     string `json:"path,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Expires  int64  `json:"expires,omitempty"` // unix seconds
	Secure   bool   `json:"secure,omitempty"`
	HTTPOnly bool   `json:"http_only,omitempty"`
}

// FromHTTPCookies converts cookies to their stored form
func FromHTTPCookies(cookies []*http.Cookie) []StoredCookie {
	out := make([]StoredCookie, 0, len(cookies))
	for _, c := range cookies {
		sc := StoredCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		}
		if !c.Expires.IsZero() {
			sc.Expires = c.Expires.Unix()
		}
		out = append(out, sc)
	}
	return out
}

// ToHTTPCookies converts stored cookies back to http.Cookie
func ToHTTPCookies(stored []StoredCookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		c := &http.Cookie{
			Name:     sc.Name,
			Value:    sc.Value,
			Path:     sc.Path,
			Domain:   sc.Domain,
			Secure:   sc.Secure,
			HttpOnly: sc.HTTPOnly,
		}
		if sc.Expires != 0 {
			c.Expires = time.Unix(sc.Expires, 0)
		}
		out = append(out, c)
	}
	return out
}
