package util

import (
	"log"
	"net/http"

	"github.com/dense-analysis/stockwarp/internal/template"
)

// ApologyData feeds the uniform error page.
type ApologyData struct {
	Status  int
	Message string
}

// RespondApology renders the uniform error page with a message and status code.
//
// Every validation failure and HTTP-level error goes through here.
func RespondApology(writer http.ResponseWriter, message string, status int) {
	writer.WriteHeader(status)
	template.Render(template.Apology, writer, ApologyData{Status: status, Message: message})
}

func RespondInternalServerError(writer http.ResponseWriter, err error) {
	log.Printf("internal error: %+v\n", err)
	RespondApology(writer, "internal server error", http.StatusInternalServerError)
}

func RespondValidationError(writer http.ResponseWriter, message string) {
	RespondApology(writer, message, http.StatusBadRequest)
}

func RespondNotFound(writer http.ResponseWriter) {
	RespondApology(writer, "not found", http.StatusNotFound)
}

func RespondForbidden(writer http.ResponseWriter) {
	RespondApology(writer, "forbidden", http.StatusForbidden)
}

// HandleNotFound serves the apology page for unknown routes.
func HandleNotFound(writer http.ResponseWriter, _ *http.Request) {
	RespondNotFound(writer)
}

// HandleMethodNotAllowed serves the apology page for unsupported methods.
func HandleMethodNotAllowed(writer http.ResponseWriter, _ *http.Request) {
	RespondApology(writer, "method not allowed", http.StatusMethodNotAllowed)
}
