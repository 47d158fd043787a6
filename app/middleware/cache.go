package middleware

import (
	"bytes"
	"net/http"
	"time"

	"yatube/app/cache"
)

// recordingWriter keeps a copy of the body on top of the status.
type recordingWriter struct {
	statusWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.statusWriter.Write(b)
}

// CacheKey identifies a cached page. The viewer is part of the key
// because pages render differently for each logged in user.
func CacheKey(r *http.Request) string {
	username := ""
	if user := CurrentUser(r.Context()); user != nil {
		username = user.Username
	}
	return r.URL.RequestURI() + "|" + username
}

// CachePage serves successful GET responses of next from pc for ttl.
// JSON requests always reach next.
func CachePage(pc *cache.PageCache, ttl time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.Header.Get("Accept") == "application/json" {
				next(w, r)
				return
			}
			key := CacheKey(r)
			if resp, ok := pc.Get(key); ok {
				for name, values := range resp.Header {
					w.Header()[name] = append([]string(nil), values...)
				}
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(resp.Status)
				_, _ = w.Write(resp.Body)
				return
			}

			rw := &recordingWriter{statusWriter: statusWriter{ResponseWriter: w}}
			next(rw, r)
			if rw.status != http.StatusOK {
				return
			}
			header := w.Header().Clone()
			header.Del("Set-Cookie")
			pc.Set(key, &cache.Response{
				Status: rw.status,
				Header: header,
				Body:   bytes.Clone(rw.body.Bytes()),
			}, ttl)
		}
	}
}
