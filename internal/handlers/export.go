package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/csg33k/paycalc/internal/domain"
)

func (h *Handler) format(r *http.Request) (domain.ExportFormat, error) {
	f := r.URL.Query().Get("format")
	if f == "" {
		return domain.FormatPDF, nil
	}
	return domain.ParseExportFormat(f)
}

// exportCalculation renders an unsaved calculation from the request body.
func (h *Handler) exportCalculation(w http.ResponseWriter, r *http.Request) {
	format, err := h.format(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var c domain.Calculation
	if err := decode(w, r, &c); err != nil {
		h.fail(w, r, err)
		return
	}
	a, err := h.exports.Export(r.Context(), &c, format)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, a)
}

func (h *Handler) exportItem(w http.ResponseWriter, r *http.Request) {
	format, err := h.format(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.history.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	a, err := h.exports.ExportItem(r.Context(), item, format)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, a)
}

type exportManyRequest struct {
	IDs []string `json:"ids"`
}

// exportedItem carries the artifact bytes, base64 encoded by encoding/json.
type exportedItem struct {
	Index    int              `json:"index"`
	ID       string           `json:"id"`
	Artifact *domain.Artifact `json:"artifact,omitempty"`
	Content  []byte           `json:"content,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type exportManyResponse struct {
	Items     []exportedItem `json:"items"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
}

// exportMany renders several saved items. Unknown IDs are reported per item.
func (h *Handler) exportMany(w http.ResponseWriter, r *http.Request) {
	format, err := h.format(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req exportManyRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if len(req.IDs) == 0 {
		h.fail(w, r, domain.Invalid("ids", domain.ErrEmptyInputSet, "at least one id is required"))
		return
	}

	resp := exportManyResponse{Items: make([]exportedItem, len(req.IDs))}
	var found []*domain.HistoryItem
	var slots []int
	for i, id := range req.IDs {
		resp.Items[i] = exportedItem{Index: i, ID: id}
		item, err := h.history.Get(r.Context(), id)
		if err != nil {
			resp.Items[i].Error = err.Error()
			continue
		}
		found = append(found, item)
		slots = append(slots, i)
	}

	rep := h.exports.ExportMany(r.Context(), found, format)
	for j, o := range rep.Outcomes {
		it := &resp.Items[slots[j]]
		if o.Err != nil {
			it.Error = o.Err.Error()
			continue
		}
		it.Artifact, it.Content = o.Value, o.Value.Content
	}
	for _, it := range resp.Items {
		if it.Error != "" {
			resp.Failed++
		} else {
			resp.Succeeded++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
