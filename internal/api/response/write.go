package response

import (
	"encoding/json"
	"net/http"
)

// StatusAccepted is the body of every 202. The operation was admitted by the
// session's engine and its outcome arrives on the event stream.
const StatusAccepted = "accepted"

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Accepted acknowledges an admitted engine operation
func Accepted(w http.ResponseWriter) {
	JSON(w, http.StatusAccepted, AcceptedBody{Status: StatusAccepted})
}

// NoContent writes a 204 for operations that complete synchronously
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
