package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type JournalHandler interface {
	ListBySource(w http.ResponseWriter, r *http.Request)
}

type journalHandlerImpl struct {
	journalService journal.JournalService
}

func NewJournalHandler(journalService journal.JournalService) JournalHandler {
	return &journalHandlerImpl{journalService: journalService}
}

// ListBySource implements JournalHandler.
func (h *journalHandlerImpl) ListBySource(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		var errs validator.ValidationErrors
		errs.Add("source", "is required")
		response.HandleError(w, errs)
		return
	}

	entries, err := h.journalService.ListBySource(r.Context(), source)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, entries, listMeta(len(entries)))
}
