package resp

import (
	"encoding/json"
	"log"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSONResponse пишет статус и тело в формате JSON
func WriteJSONResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

// WriteError ответ с текстом ошибки
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSONResponse(w, status, errorBody{Error: msg})
}
