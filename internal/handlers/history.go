package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/csg33k/paycalc/internal/domain"
)

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	f, err := filterFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.history.List(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) saveHistory(w http.ResponseWriter, r *http.Request) {
	var item domain.HistoryItem
	if err := decode(w, r, &item); err != nil {
		h.fail(w, r, err)
		return
	}
	saved, err := h.history.Save(r.Context(), &item)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) clearHistory(w http.ResponseWriter, r *http.Request) {
	f, err := filterFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	n, err := h.history.Clear(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	item, err := h.history.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) updateHistory(w http.ResponseWriter, r *http.Request) {
	var patch domain.HistoryPatch
	if err := decode(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.history.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	item, err := h.history.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type tagsRequest struct {
	Tags []string `json:"tags"`
}

func (h *Handler) addTags(w http.ResponseWriter, r *http.Request) {
	var req tagsRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.history.AddTags(r.Context(), chi.URLParam(r, "id"), req.Tags...)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) removeTags(w http.ResponseWriter, r *http.Request) {
	var req tagsRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.history.RemoveTags(r.Context(), chi.URLParam(r, "id"), req.Tags...)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) duplicate(w http.ResponseWriter, r *http.Request) {
	item, err := h.history.Duplicate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type shareRequest struct {
	Public   bool    `json:"public"`
	TTLHours float64 `json:"ttlHours,omitempty"`
}

func (h *Handler) share(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if r.ContentLength != 0 {
		if err := decode(w, r, &req); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	ttl := time.Duration(req.TTLHours * float64(time.Hour))
	link, err := h.history.Share(r.Context(), chi.URLParam(r, "id"), req.Public, ttl)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.history.Analytics(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) exportArchive(w http.ResponseWriter, r *http.Request) {
	f, err := filterFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	a, err := h.history.Export(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="paycalc-history-`+a.ExportedAt.Format(time.DateOnly)+`.json"`)
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) importArchive(w http.ResponseWriter, r *http.Request) {
	var a domain.HistoryArchive
	if err := decode(w, r, &a); err != nil {
		h.fail(w, r, err)
		return
	}
	rep, err := h.history.Import(r.Context(), &a, r.URL.Query().Get("overwrite") == "true")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
