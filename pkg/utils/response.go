package utils

import (
	"encoding/json"
	"net/http"

	"invoicely-backend/internal/errs"
)

// JSON writes data as a JSON response with the given status
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error writes a structured error response, mapping the error taxonomy
// to its HTTP status code
func Error(w http.ResponseWriter, err error) {
	JSON(w, errs.HTTPStatus(err), map[string]string{
		"message": errs.PublicMessage(err),
	})
}

// BadRequest writes a 400 with the given message
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, map[string]string{"message": message})
}
