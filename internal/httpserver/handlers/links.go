package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
)

// ListLinks serves the raw link log from the memory index, optionally
// filtered. Filters are conjunctive: ?q= text match on title/url,
// ?category= exact category, ?session= exact session label.
func ListLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := domain.LinkFilter{
			Text:         q.Get("q"),
			Category:     q.Get("category"),
			SessionLabel: q.Get("session"),
		}

		if filter == (domain.LinkFilter{}) {
			writeJSON(w, http.StatusOK, d.MemoryIndex.Links())
			return
		}
		writeJSON(w, http.StatusOK, d.MemoryIndex.Filter(filter))
	}
}
