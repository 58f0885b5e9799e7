package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Status is the status field of an API response.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Response is the envelope of every JSON response.
type Response struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

// Success wraps a result.
func Success(result any) Response {
	return Response{Status: StatusOK, Result: result}
}

// Error wraps an error message.
func Error(message string) Response {
	return Response{Status: StatusError, Message: message}
}

// Pre-marshaled fallback responses to avoid runtime JSON encoding failures
var fallbackErrorResponse []byte

func init() {
	var err error
	fallbackErrorResponse, err = json.Marshal(Error("Internal server error"))
	if err != nil {
		panic(fmt.Sprintf("Failed to marshal fallback error response at startup: %v", err))
	}
}

// writeJSONResponse writes a JSON response to the http.ResponseWriter with the given status code.
func writeJSONResponse(w http.ResponseWriter, statusCode int, response any) {
	// Marshal first so encoding errors are caught before headers are written
	jsonData, err := json.Marshal(response)
	if err != nil {
		slog.Error("Server.writeJSONResponse: failed to marshal JSON response", "error", err)
		jsonData = fallbackErrorResponse
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, writeErr := w.Write(jsonData); writeErr != nil {
		slog.Error("Server.writeJSONResponse: failed to write JSON response", "error", writeErr)
	}
}
