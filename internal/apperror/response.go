package apperror

import (
	"encoding/json"
	"net/http"

	"github.com/fekuna/omnipos-catalog-sync/pkg/i18n"
)

type errorBody struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	Details        string `json:"details,omitempty"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamBody   string `json:"upstream_body,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write translates err to {"error": {...}} with a localized message.
func Write(w http.ResponseWriter, r *http.Request, tr *i18n.Translator, err error) {
	appErr := As(err)
	WriteJSON(w, appErr.StatusCode, map[string]errorBody{
		"error": {
			Code:           appErr.Code,
			Message:        tr.Message(r.Header.Get("Accept-Language"), appErr.Code, appErr.Message),
			Details:        appErr.Details,
			UpstreamStatus: appErr.UpstreamStatus,
			UpstreamBody:   appErr.UpstreamBody,
		},
	})
}
