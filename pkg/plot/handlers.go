package plot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/raykavin/chartwise/pkg/upload"
)

// handleHealth handles health check requests
func (b *Board) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		b.log.WithError(err).Error("failed to write health status")
	}
}

// handleScript serves the transpiled page script
func (b *Board) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	fmt.Fprint(w, b.scriptContent)
}

// handleIndex handles the main page request
func (b *Board) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := b.indexHTML.Execute(w, b.newPage(b.controller.State())); err != nil {
		b.log.WithError(err).Error("template execution failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleState writes the controller state with its rendered charts
func (b *Board) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	b.writeJSON(w, http.StatusOK, newStateView(b.controller.State()))
}

// handleUpload forwards the posted file to the controller and waits for the outcome
func (b *Board) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		b.writeError(w, http.StatusBadRequest, "Invalid upload form")
		return
	}

	file, header, err := r.FormFile(upload.FileField)
	if err != nil {
		b.writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	defer file.Close()

	state := b.controller.Submit(r.Context(), upload.File{Name: header.Filename, Body: file})

	if wantsJSON(r) {
		b.writeJSON(w, http.StatusOK, newStateView(state))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleReset clears the current result
func (b *Board) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	b.controller.Reset()

	if wantsJSON(r) {
		b.writeJSON(w, http.StatusOK, newStateView(b.controller.State()))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (b *Board) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		b.log.WithError(err).Error("JSON encoding failed")
	}
}

func (b *Board) writeError(w http.ResponseWriter, status int, detail string) {
	b.writeJSON(w, status, map[string]string{"detail": detail})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
