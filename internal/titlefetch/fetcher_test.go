package titlefetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{name: "simple", html: `<html><head><title>Hello</title></head></html>`, want: "Hello"},
		{name: "attributes on tag", html: `<title data-x="1">Hello</title>`, want: "Hello"},
		{name: "case insensitive", html: `<TITLE>Hello</TITLE>`, want: "Hello"},
		{name: "entities unescaped", html: `<title>A &amp; B &lt;3 &quot;q&quot; &#39;s&#39;</title>`, want: `A & B <3 "q" 's'`},
		{name: "whitespace trimmed", html: "<title>\n  Hello  \n</title>", want: "Hello"},
		{name: "no title", html: `<html><body>x</body></html>`, want: ""},
		{name: "empty title", html: `<title>   </title>`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.html); got != tt.want {
				t.Errorf("ExtractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTitleFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Fetched Page</title></head></html>`))
	}))
	defer srv.Close()

	f := New(2 * time.Second)
	if got := f.Title(context.Background(), srv.URL); got != "Fetched Page" {
		t.Errorf("Title() = %q, want %q", got, "Fetched Page")
	}
}

func TestTitleFallsBackToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New(2 * time.Second)
	if got := f.Title(context.Background(), srv.URL); got != srv.URL {
		t.Errorf("Title() on server error = %q, want the url back", got)
	}

	unreachable := "http://127.0.0.1:1/nope"
	if got := f.Title(context.Background(), unreachable); got != unreachable {
		t.Errorf("Title() on connect error = %q, want the url back", got)
	}
}
