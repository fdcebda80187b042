// Package httpjson writes the API's JSON envelope:
//
//	{ "success": true,  "data": ... }
//	{ "success": false, "message": "...", "error": "..." }
//
// Handlers map errors onto the taxonomy (400 validation, 401 auth,
// 403 authorization, 404 not found, 500 everything else). Internal errors
// are logged in full by the caller and returned with a generic message so
// database details never reach the client.
package httpjson

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func write(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 success envelope with data.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 success envelope with data.
func Created(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// Message writes a 200 success envelope with a message and no data.
func Message(w http.ResponseWriter, msg string) {
	write(w, http.StatusOK, envelope{Success: true, Message: msg})
}

// BadRequest writes a 400 failure envelope with a validation message.
func BadRequest(w http.ResponseWriter, msg string) {
	write(w, http.StatusBadRequest, envelope{Success: false, Message: msg})
}

// Unauthorized writes a 401 failure envelope.
func Unauthorized(w http.ResponseWriter) {
	write(w, http.StatusUnauthorized, envelope{Success: false, Message: "no autorizado"})
}

// Forbidden writes a 403 failure envelope.
func Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "acceso denegado"
	}
	write(w, http.StatusForbidden, envelope{Success: false, Message: msg})
}

// NotFound writes a 404 failure envelope.
func NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "no encontrado"
	}
	write(w, http.StatusNotFound, envelope{Success: false, Message: msg})
}

// Internal writes a 500 failure envelope with a generic message. The
// caller logs the underlying error; it is never sent to the client.
func Internal(w http.ResponseWriter) {
	write(w, http.StatusInternalServerError, envelope{Success: false, Message: "error interno del servidor"})
}
