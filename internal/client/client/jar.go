package client

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// resettableJar is an http.CookieJar that can drop all cookies at once,
// which net/http/cookiejar does not offer.
type resettableJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newCookieJar() (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

func newResettableJar() (*resettableJar, error) {
	jar, err := newCookieJar()
	if err != nil {
		return nil, err
	}
	return &resettableJar{jar: jar}, nil
}

func (r *resettableJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.jar.SetCookies(u, cookies)
}

func (r *resettableJar) Cookies(u *url.URL) []*http.Cookie {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.jar.Cookies(u)
}

// Reset replaces the underlying jar with an empty one.
func (r *resettableJar) Reset() {
	jar, err := newCookieJar()
	if err != nil {
		// cookiejar.New only fails on bad options; ours are fixed.
		panic(err)
	}
	r.mu.Lock()
	r.jar = jar
	r.mu.Unlock()
}
