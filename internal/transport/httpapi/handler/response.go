package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/kislikjeka/txfeed/internal/shared/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondWithJSON writes payload as JSON with the given status
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError writes a plain error message
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithAppError writes err using its AppError code, or a generic 500
func respondWithAppError(w http.ResponseWriter, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		respondWithJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  apperrors.ErrCodeInternal,
		})
		return
	}
	message := appErr.Message
	if appErr.HTTPStatus() >= http.StatusInternalServerError {
		message = http.StatusText(appErr.HTTPStatus())
	}
	respondWithJSON(w, appErr.HTTPStatus(), ErrorResponse{Error: message, Code: appErr.Code})
}

// decodeJSON reads a JSON body of at most maxBytes into v
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.BadRequest("invalid request body: " + err.Error())
	}
	return nil
}
