// Package api provides HTTP handlers for the messageboard server REST API.
//
// Every endpoint is a thin binding onto the command gateway: requests are
// translated into gateway commands and the gateway's envelope is returned
// verbatim, with the HTTP status derived from the domain error code.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coregx/messageboard"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	gateway *messageboard.Gateway
	logger  messageboard.Logger
}

// NewHandler creates a new API handler.
func NewHandler(gateway *messageboard.Gateway, logger messageboard.Logger) *Handler {
	return &Handler{gateway: gateway, logger: logger}
}

// HandleCommand handles POST /api/v1/command with a raw gateway envelope.
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondStatus(w, http.StatusMethodNotAllowed, errorResponse("METHOD_NOT_ALLOWED", "Method not allowed"))
		return
	}

	var req messageboard.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondStatus(w, http.StatusBadRequest, errorResponse("INVALID_JSON", "Invalid JSON"))
		return
	}

	h.dispatch(w, r, req)
}

// HandleMessages handles /api/v1/messages:
//
//	GET  list messages + config snapshot (get_messages)
//	POST add a message (add_message)
func (h *Handler) HandleMessages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.dispatch(w, r, messageboard.CommandRequest{Command: messageboard.CommandGetMessages})
	case http.MethodPost:
		h.dispatchWithBody(w, r, messageboard.CommandAddMessage)
	default:
		h.respondStatus(w, http.StatusMethodNotAllowed, errorResponse("METHOD_NOT_ALLOWED", "Method not allowed"))
	}
}

// HandleMessageByUUID handles DELETE /api/v1/messages/{uuid} and
// PUT /api/v1/messages/{uuid} (replace_message).
func (h *Handler) HandleMessageByUUID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/messages/")
	if id == "" || strings.Contains(id, "/") {
		h.respondStatus(w, http.StatusNotFound, errorResponse(messageboard.ErrCodeNotFound, "missing message uuid"))
		return
	}

	switch r.Method {
	case http.MethodDelete:
		params, _ := json.Marshal(messageboard.DeleteMessageParams{UUID: id})
		h.dispatch(w, r, messageboard.CommandRequest{Command: messageboard.CommandDeleteMessage, Params: params})
	case http.MethodPut:
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.respondStatus(w, http.StatusBadRequest, errorResponse("INVALID_JSON", "Invalid JSON"))
			return
		}
		params, _ := json.Marshal(messageboard.ReplaceMessageParams{UUID: id, Message: body.Message})
		h.dispatch(w, r, messageboard.CommandRequest{Command: messageboard.CommandReplaceMessage, Params: params})
	default:
		h.respondStatus(w, http.StatusMethodNotAllowed, errorResponse("METHOD_NOT_ALLOWED", "Method not allowed"))
	}
}

// HandleConfiguration handles PUT /api/v1/configuration (save_configuration).
func (h *Handler) HandleConfiguration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		h.respondStatus(w, http.StatusMethodNotAllowed, errorResponse("METHOD_NOT_ALLOWED", "Method not allowed"))
		return
	}
	h.dispatchWithBody(w, r, messageboard.CommandSaveConfiguration)
}

// HandleBoard handles /api/v1/board:
//
//	GET  board on/off state (is_on)
func (h *Handler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondStatus(w, http.StatusMethodNotAllowed, errorResponse("METHOD_NOT_ALLOWED", "Method not allowed"))
		return
	}
	h.dispatch(w, r, messageboard.CommandRequest{Command: messageboard.CommandIsOn})
}

// HandleBoardOn handles POST /api/v1/board/on (turn_on).
func (h *Handler) HandleBoardOn(w http.ResponseWriter, r *http.Request) {
	h.handleToggle(w, r, messageboard.CommandTurnOn)
}

// HandleBoardOff handles POST /api/v1/board/off (turn_off).
func (h *Handler) HandleBoardOff(w http.ResponseWriter, r *http.Request) {
	h.handleToggle(w, r, messageboard.CommandTurnOff)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request, command string) {
	if r.Method != http.MethodPost {
		h.respondStatus(w, http.StatusMethodNotAllowed, errorResponse("METHOD_NOT_ALLOWED", "Method not allowed"))
		return
	}
	h.dispatch(w, r, messageboard.CommandRequest{Command: command})
}

// HandleHealth handles GET /api/v1/health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondStatus(w, http.StatusMethodNotAllowed, errorResponse("METHOD_NOT_ALLOWED", "Method not allowed"))
		return
	}
	h.respondStatus(w, http.StatusOK, messageboard.CommandResponse{Success: true, Data: map[string]string{"status": "ok"}})
}

func (h *Handler) dispatchWithBody(w http.ResponseWriter, r *http.Request, command string) {
	var params json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		h.respondStatus(w, http.StatusBadRequest, errorResponse("INVALID_JSON", "Invalid JSON"))
		return
	}
	h.dispatch(w, r, messageboard.CommandRequest{Command: command, Params: params})
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, req messageboard.CommandRequest) {
	resp := h.gateway.Dispatch(r.Context(), req)
	h.respondStatus(w, statusFor(resp), resp)
}

// statusFor maps the envelope onto an HTTP status code.
func statusFor(resp messageboard.CommandResponse) int {
	if resp.Success {
		return http.StatusOK
	}
	if resp.Error == nil {
		return http.StatusInternalServerError
	}
	switch resp.Error.Code {
	case messageboard.ErrCodeValidation, messageboard.ErrCodeUnknownCommand:
		return http.StatusBadRequest
	case messageboard.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondStatus(w http.ResponseWriter, status int, resp messageboard.CommandResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Errorf("Failed to encode response: %v", err)
	}
}

func errorResponse(code, message string) messageboard.CommandResponse {
	return messageboard.CommandResponse{
		Success: false,
		Error:   &messageboard.CommandError{Code: code, Message: message},
	}
}
