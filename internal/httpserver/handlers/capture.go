package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
)

type captureRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"` // empty = fetch best effort
}

// QuickSave files a single link into today's quick-save session.
func QuickSave(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req captureRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		link, err := d.Capture.QuickSave(r.Context(), req.URL, req.Title)
		if err != nil {
			writeCaptureError(w, err)
			return
		}
		notifySync(d)
		writeJSON(w, http.StatusCreated, link)
	}
}

// NewSession saves a single link into a freshly minted session.
func NewSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req captureRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		link, err := d.Capture.NewSession(r.Context(), req.URL, req.Title)
		if err != nil {
			writeCaptureError(w, err)
			return
		}
		notifySync(d)
		writeJSON(w, http.StatusCreated, link)
	}
}

type addToSessionRequest struct {
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
	SessionKey string `json:"sessionKey"`
}

// AddToSession saves a single link into an existing session.
func AddToSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addToSessionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		link, err := d.Capture.AddToSession(r.Context(), req.URL, req.Title, req.SessionKey)
		if err != nil {
			writeCaptureError(w, err)
			return
		}
		notifySync(d)
		writeJSON(w, http.StatusCreated, link)
	}
}

type createSessionRequest struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// CreateSession mints a named session seeded with one link.
func CreateSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		link, err := d.Capture.CreateSession(r.Context(), req.Name, req.URL, req.Title)
		if err != nil {
			writeCaptureError(w, err)
			return
		}
		notifySync(d)
		writeJSON(w, http.StatusCreated, link)
	}
}

func writeCaptureError(w http.ResponseWriter, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		writeError(w, http.StatusNotFound, err)
	case strings.Contains(msg, "must not be empty"):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
