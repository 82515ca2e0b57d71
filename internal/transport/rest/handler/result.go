package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"quizstorm/internal/service"
	"quizstorm/internal/transport/rest/middleware"
)

// ResultHandler serves finished games and player profiles
type ResultHandler struct {
	resultSvc *service.ResultService
}

func NewResultHandler(resultSvc *service.ResultService) *ResultHandler {
	return &ResultHandler{resultSvc: resultSvc}
}

// GetByRoom handles GET /v1/results/{code}
func (h *ResultHandler) GetByRoom(w http.ResponseWriter, r *http.Request) {
	result, err := h.resultSvc.GetByRoom(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// MyResults handles GET /v1/me/results?limit=
func (h *ResultHandler) MyResults(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	results, err := h.resultSvc.History(r.Context(), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// Me handles GET /v1/me
func (h *ResultHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.resultSvc.Profile(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
