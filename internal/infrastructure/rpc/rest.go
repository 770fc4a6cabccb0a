package rpc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"ModelScout/internal/domain"
	"ModelScout/internal/tools"
)

// Envelope codes for the REST mirror.
const (
	CodeSuccess       = 0
	CodeBadParams     = 1000
	CodeMissingParams = 1001
	CodeUnknownTool   = 1002
	CodeServerError   = 2000
)

var codeMessages = map[int]string{
	CodeSuccess:       "success",
	CodeBadParams:     "invalid parameters",
	CodeMissingParams: "missing required parameters",
	CodeUnknownTool:   "unknown tool",
	CodeServerError:   "internal server error",
}

// APIResponse is the REST envelope.
type APIResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, APIResponse{Code: CodeSuccess, Message: codeMessages[CodeSuccess], Data: data})
}

func writeFailure(w http.ResponseWriter, status, code int, detail string) {
	message := codeMessages[code]
	if detail != "" {
		message += ": " + detail
	}
	writeJSON(w, status, APIResponse{Code: code, Message: message, Data: map[string]any{}})
}

// handleListTools godoc
// @Summary List tools
// @Description Returns every registered tool with its input schema.
// @Tags tools
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/tools [get]
func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, s.registry.List())
}

// handleCallTool godoc
// @Summary Call a tool
// @Description Runs search_model, generate_summary or generate_installation_instructions.
// @Tags tools
// @Accept json
// @Produce json
// @Param name path string true "Tool name"
// @Param X-Session-ID header string false "Chat session id"
// @Param args body tools.Args true "Tool arguments"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/tools/{name} [post]
func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var args tools.Args
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&args); err != nil {
		writeFailure(w, http.StatusBadRequest, CodeBadParams, err.Error())
		return
	}
	if strings.TrimSpace(args.Query) == "" {
		writeFailure(w, http.StatusBadRequest, CodeMissingParams, "query")
		return
	}

	res, err := s.invoke(r.Context(), name, args)
	switch {
	case errors.Is(err, domain.ErrUnknownTool):
		writeFailure(w, http.StatusNotFound, CodeUnknownTool, name)
		return
	case err != nil:
		writeFailure(w, http.StatusInternalServerError, CodeServerError, err.Error())
		return
	}

	writeSuccess(w, res)
}

// handleSessionHistory godoc
// @Summary Session history
// @Description Returns the most recent tool invocations of a session, oldest first.
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Param limit query int false "Maximum number of entries"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /api/sessions/{id} [get]
func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	limit := s.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeFailure(w, http.StatusBadRequest, CodeBadParams, "limit must be a positive integer")
			return
		}
		limit = v
	}

	if s.sessions == nil {
		writeSuccess(w, []domain.SessionEntry{})
		return
	}
	entries, err := s.sessions.History(r.Context(), id, limit)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, CodeServerError, err.Error())
		return
	}
	writeSuccess(w, entries)
}
