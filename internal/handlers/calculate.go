package handlers

import (
	"net/http"

	"github.com/csg33k/paycalc/internal/compare"
	"github.com/csg33k/paycalc/internal/domain"
)

func (h *Handler) calculateContract(w http.ResponseWriter, r *http.Request) {
	var in domain.ContractInput
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.contracts.Calculate(in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) calculatePaycheck(w http.ResponseWriter, r *http.Request) {
	var in domain.PaycheckInput
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.paychecks.Calculate(in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) compareContracts(w http.ResponseWriter, r *http.Request) {
	var in []domain.ContractInput
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.compare.CompareContracts(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) comparePaychecks(w http.ResponseWriter, r *http.Request) {
	var in []domain.PaycheckInput
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.compare.ComparePaychecks(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type optimalRequest struct {
	Contracts   []domain.ContractInput `json:"contracts"`
	Constraints compare.Constraints    `json:"constraints"`
}

func (h *Handler) optimalContract(w http.ResponseWriter, r *http.Request) {
	var req optimalRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.compare.OptimalContract(r.Context(), req.Contracts, req.Constraints)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type breakEvenRequest struct {
	Current   domain.ContractInput     `json:"current"`
	Candidate domain.ContractInput     `json:"candidate"`
	Options   compare.BreakEvenOptions `json:"options"`
}

func (h *Handler) breakEven(w http.ResponseWriter, r *http.Request) {
	var req breakEvenRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	current, err := h.offer(req.Current)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	candidate, err := h.offer(req.Candidate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := compare.BreakEven(current, candidate, req.Options)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) offer(in domain.ContractInput) (compare.Offer, error) {
	res, err := h.contracts.Calculate(in)
	if err != nil {
		return compare.Offer{}, err
	}
	return compare.FromContract(in, res), nil
}

func (h *Handler) quarterly(w http.ResponseWriter, r *http.Request) {
	var p domain.QuarterlyParams
	if err := decode(w, r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.tax.QuarterlyEstimates(p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
