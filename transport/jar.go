package transport

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// storedCookie is the on-disk form of a session cookie.
type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"httpOnly,omitempty"`
}

// fileJar is an http.CookieJar persisted to disk, so the console can resume
// a backend session across process runs. The jar file's presence is also the
// local indicator consulted before the startup session check.
type fileJar struct {
	mu      sync.Mutex
	path    string
	cookies map[string]map[string]storedCookie // host -> name -> cookie
}

func newFileJar(path string) (*fileJar, error) {
	j := &fileJar{path: path, cookies: make(map[string]map[string]storedCookie)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return j, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &j.cookies); err != nil {
		// A corrupt jar means no usable session; start clean.
		j.cookies = make(map[string]map[string]storedCookie)
	}
	j.dropExpiredLocked(time.Now())
	return j, nil
}

func (j *fileJar) dropExpiredLocked(now time.Time) {
	for host, byName := range j.cookies {
		for name, c := range byName {
			if !c.Expires.IsZero() && c.Expires.Before(now) {
				delete(byName, name)
			}
		}
		if len(byName) == 0 {
			delete(j.cookies, host)
		}
	}
}

// SetCookies implements http.CookieJar.
func (j *fileJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	host := u.Hostname()
	byName := j.cookies[host]
	if byName == nil {
		byName = make(map[string]storedCookie)
		j.cookies[host] = byName
	}
	now := time.Now()
	for _, c := range cookies {
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || (!expires.IsZero() && expires.Before(now)) {
			delete(byName, c.Name)
			continue
		}
		byName[c.Name] = storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  expires,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		}
	}
	j.saveLocked()
}

// Cookies implements http.CookieJar.
func (j *fileJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.dropExpiredLocked(time.Now())
	var out []*http.Cookie
	for _, c := range j.cookies[u.Hostname()] {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// HasSession reports whether any unexpired cookie is held.
func (j *fileJar) HasSession() bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.dropExpiredLocked(time.Now())
	return len(j.cookies) > 0
}

// Clear wipes all cookies and removes the jar file.
func (j *fileJar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.cookies = make(map[string]map[string]storedCookie)
	if j.path == "" {
		return nil
	}
	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (j *fileJar) saveLocked() {
	if j.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o750); err != nil {
		return
	}
	data, err := json.Marshal(j.cookies)
	if err != nil {
		return
	}
	// Session cookies are credentials: owner read/write only.
	_ = os.WriteFile(j.path, data, 0o600)
}
