package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/iudanet/modify/internal/client/storage"
)

var _ http.CookieJar = (*PersistentJar)(nil)

// PersistentJar cookie jar, сохраняющий cookie API (в т.ч. refresh token)
// в локальное хранилище, чтобы refresh работал после перезапуска клиента.
type PersistentJar struct {
	inner  *cookiejar.Jar
	store  storage.CookieStorage
	logger *slog.Logger
	saved  map[string]map[string]*http.Cookie // host -> name|path -> cookie
	now    func() time.Time
	mu     sync.Mutex
}

// NewPersistentJar создает jar и восстанавливает cookie, сохраненные для baseURL
func NewPersistentJar(ctx context.Context, store storage.CookieStorage, baseURL string, logger *slog.Logger) (*PersistentJar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	j := &PersistentJar{
		inner:  inner,
		store:  store,
		logger: logger,
		saved:  make(map[string]map[string]*http.Cookie),
		now:    time.Now,
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	cookies, err := store.LoadCookies(ctx, u.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to load cookies: %w", err)
	}

	now := j.now()
	bucket := make(map[string]*http.Cookie, len(cookies))
	live := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			continue
		}
		bucket[cookieKey(c)] = c
		live = append(live, c)
	}
	j.saved[u.Host] = bucket

	if len(live) > 0 {
		// Путь cookie должен совпасть с URL, иначе jar подставит путь по умолчанию
		inner.SetCookies(&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, live)
	}

	return j, nil
}

// SetCookies implements http.CookieJar
func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)

	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	bucket, ok := j.saved[u.Host]
	if !ok {
		bucket = make(map[string]*http.Cookie)
		j.saved[u.Host] = bucket
	}

	for _, c := range cookies {
		cc := *c
		if cc.Path == "" {
			cc.Path = "/"
		}
		key := cookieKey(&cc)

		switch {
		case cc.MaxAge < 0:
			delete(bucket, key)
			continue
		case cc.MaxAge > 0:
			cc.Expires = now.Add(time.Duration(cc.MaxAge) * time.Second)
			cc.MaxAge = 0
		}
		if !cc.Expires.IsZero() && !cc.Expires.After(now) {
			delete(bucket, key)
			continue
		}
		bucket[key] = &cc
	}

	list := make([]*http.Cookie, 0, len(bucket))
	for _, c := range bucket {
		list = append(list, c)
	}

	if err := j.store.SaveCookies(context.Background(), u.Host, list); err != nil {
		j.logger.Warn("failed to persist cookies", "host", u.Host, "error", err)
	}
}

// Cookies implements http.CookieJar
func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

func cookieKey(c *http.Cookie) string {
	return c.Name + "|" + c.Path
}
