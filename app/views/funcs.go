package views

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// DateLayout is the default layout of the date template func.
const DateLayout = "02 Jan 2006"

// Funcs returns the template functions. url reverses named routes of router;
// loginURL is exposed as login_url.
func Funcs(router *mux.Router, loginURL string) template.FuncMap {
	return template.FuncMap{
		"url":           URLFunc(router),
		"login_url":     func() string { return loginURL },
		"linebreaksbr":  LineBreaksBR,
		"truncatechars": TruncateChars,
		"date":          Date,
	}
}

// URLFunc builds the url template func: {{ url "posts:profile" "username" .Username }}.
func URLFunc(router *mux.Router) func(name string, pairs ...any) (string, error) {
	return func(name string, pairs ...any) (string, error) {
		if router == nil {
			return "", errors.New("url: no router")
		}
		route := router.Get(name)
		if route == nil {
			return "", fmt.Errorf("url: no route named %q", name)
		}
		values := make([]string, len(pairs))
		for i, p := range pairs {
			values[i] = fmt.Sprint(p)
		}
		u, err := route.URL(values...)
		if err != nil {
			return "", fmt.Errorf("url %s: %w", name, err)
		}
		return u.String(), nil
	}
}

// LineBreaksBR escapes s and turns newlines into <br>.
func LineBreaksBR(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
}

// TruncateChars shortens s to n runes, the last one being an ellipsis.
func TruncateChars(n int, s string) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n < 1 {
		return ""
	}
	return string(runes[:n-1]) + "…"
}

// Date formats t with layout, DateLayout when layout is empty.
func Date(layout string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DateLayout
	}
	return t.Format(layout)
}
