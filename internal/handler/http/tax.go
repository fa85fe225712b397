package http

import (
	"net/http"

	"github.com/gajihub/payroll-engine-go/internal/domain/tax"
	"github.com/gajihub/payroll-engine-go/internal/handler/http/response"
	taxService "github.com/gajihub/payroll-engine-go/internal/service/tax"
)

type TaxHandler interface {
	ListPTKP(w http.ResponseWriter, r *http.Request)
	ListBrackets(w http.ResponseWriter, r *http.Request)
	ListTERBands(w http.ResponseWriter, r *http.Request)
}

type taxHandlerImpl struct {
	engine *taxService.Engine
}

func NewTaxHandler(engine *taxService.Engine) TaxHandler {
	return &taxHandlerImpl{engine: engine}
}

func (h *taxHandlerImpl) ListPTKP(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.PTKPTable(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) ListBrackets(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.Brackets(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) ListTERBands(w http.ResponseWriter, r *http.Request) {
	category := tax.TERCategory(r.URL.Query().Get("category"))
	switch category {
	case tax.TERCategoryA, tax.TERCategoryB, tax.TERCategoryC:
	default:
		response.BadRequest(w, "category must be A, B or C", nil)
		return
	}

	result, err := h.engine.TERBands(r.Context(), category)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
