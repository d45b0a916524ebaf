package messageboard

import (
	"context"
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/coregx/messageboard/model"
)

// Command names accepted by the gateway.
const (
	CommandAddMessage        = "add_message"
	CommandDeleteMessage     = "delete_message"
	CommandReplaceMessage    = "replace_message"
	CommandGetMessages       = "get_messages"
	CommandSaveConfiguration = "save_configuration"
	CommandTurnOn            = "turn_on"
	CommandTurnOff           = "turn_off"
	CommandIsOn              = "is_on"
)

// ErrCodeUnknownCommand is returned for command names the gateway does not map.
const ErrCodeUnknownCommand = "UNKNOWN_COMMAND"

// CommandRequest is the transport-agnostic inbound command envelope.
type CommandRequest struct {
	Command string          `json:"command"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// CommandError carries a domain error across the gateway boundary.
type CommandError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CommandResponse is the uniform success/error envelope. Domain errors are
// caught at this boundary and returned in the envelope; they never
// propagate past it.
type CommandResponse struct {
	Success bool          `json:"success"`
	Data    interface{}   `json:"data,omitempty"`
	Error   *CommandError `json:"error,omitempty"`
}

// AddMessageParams are the parameters for add_message.
type AddMessageParams struct {
	Message string `json:"message"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
}

// Validate implements request validation for add_message.
func (p AddMessageParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Message, validation.Required),
		validation.Field(&p.End, validation.Required),
	)
}

// DeleteMessageParams are the parameters for delete_message.
type DeleteMessageParams struct {
	UUID string `json:"uuid"`
}

// Validate implements request validation for delete_message.
func (p DeleteMessageParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.UUID, validation.Required),
	)
}

// ReplaceMessageParams are the parameters for replace_message.
type ReplaceMessageParams struct {
	UUID    string `json:"uuid"`
	Message string `json:"message"`
}

// Validate implements request validation for replace_message.
func (p ReplaceMessageParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.UUID, validation.Required),
		validation.Field(&p.Message, validation.Required),
	)
}

// SaveConfigurationParams are the parameters for save_configuration.
type SaveConfigurationParams struct {
	Duration float64 `json:"duration"`
	Speed    float64 `json:"speed"`
}

// Validate implements request validation for save_configuration.
func (p SaveConfigurationParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Duration, validation.Required),
		validation.Field(&p.Speed, validation.Required),
	)
}

// AddMessageResult is the data payload of a successful add_message.
type AddMessageResult struct {
	UUID string `json:"uuid"`
}

// ReplaceMessageResult is the data payload of a successful replace_message.
type ReplaceMessageResult struct {
	UUID     string `json:"uuid"`
	Replaced bool   `json:"replaced"`
}

// BoardStatus mirrors the board on/off state plus the active uuids.
type BoardStatus struct {
	Off    bool     `json:"off"`
	Active []string `json:"active"`
}

// GetMessagesResult is the data payload of get_messages: all stored
// messages plus a snapshot of the configuration and board status.
type GetMessagesResult struct {
	Messages []model.Message `json:"messages"`
	Duration float64         `json:"duration"`
	Speed    float64         `json:"speed"`
	Status   BoardStatus     `json:"status"`
}

// IsOnResult is the data payload of is_on.
type IsOnResult struct {
	On bool `json:"on"`
}

// Gateway is the single validated entry point mapping named commands onto
// board operations. It is stateless: each command is handled independently
// and all board-wide state lives behind the Board.
type Gateway struct {
	board  *Board
	logger Logger
}

// NewGateway creates a command gateway for the given board.
// A nil logger falls back to NoopLogger.
func NewGateway(board *Board, logger Logger) (*Gateway, error) {
	if board == nil {
		return nil, NewError(ErrCodeConfiguration, "Board is required")
	}
	if logger == nil {
		logger = &NoopLogger{}
	}
	return &Gateway{board: board, logger: logger}, nil
}

// Dispatch validates and routes a command, returning the uniform envelope.
func (g *Gateway) Dispatch(ctx context.Context, req CommandRequest) CommandResponse {
	switch req.Command {
	case CommandAddMessage:
		return g.addMessage(ctx, req.Params)
	case CommandDeleteMessage:
		return g.deleteMessage(ctx, req.Params)
	case CommandReplaceMessage:
		return g.replaceMessage(ctx, req.Params)
	case CommandGetMessages:
		return g.getMessages()
	case CommandSaveConfiguration:
		return g.saveConfiguration(ctx, req.Params)
	case CommandTurnOn:
		return g.turn(ctx, true)
	case CommandTurnOff:
		return g.turn(ctx, false)
	case CommandIsOn:
		return respondData(IsOnResult{On: g.board.IsOn()})
	default:
		return respondError(ErrCodeUnknownCommand, fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (g *Gateway) addMessage(ctx context.Context, raw json.RawMessage) CommandResponse {
	var p AddMessageParams
	if resp, ok := decodeParams(raw, &p); !ok {
		return resp
	}

	msg, err := g.board.AddMessage(ctx, p.Message, p.Start, p.End)
	if err != nil {
		return g.respondDomainError(CommandAddMessage, err)
	}
	return respondData(AddMessageResult{UUID: msg.UUID})
}

func (g *Gateway) deleteMessage(ctx context.Context, raw json.RawMessage) CommandResponse {
	var p DeleteMessageParams
	if resp, ok := decodeParams(raw, &p); !ok {
		return resp
	}

	if err := g.board.DeleteMessage(ctx, p.UUID); err != nil {
		return g.respondDomainError(CommandDeleteMessage, err)
	}
	return respondData(nil)
}

func (g *Gateway) replaceMessage(ctx context.Context, raw json.RawMessage) CommandResponse {
	var p ReplaceMessageParams
	if resp, ok := decodeParams(raw, &p); !ok {
		return resp
	}

	msg, replaced, err := g.board.ReplaceMessage(ctx, p.UUID, p.Message)
	if err != nil {
		return g.respondDomainError(CommandReplaceMessage, err)
	}
	return respondData(ReplaceMessageResult{UUID: msg.UUID, Replaced: replaced})
}

func (g *Gateway) getMessages() CommandResponse {
	cfg := g.board.Configuration()
	active := g.board.Active()
	activeIDs := make([]string, len(active))
	for i := range active {
		activeIDs[i] = active[i].UUID
	}

	return respondData(GetMessagesResult{
		Messages: g.board.Messages(),
		Duration: cfg.Duration,
		Speed:    cfg.Speed,
		Status: BoardStatus{
			Off:    cfg.Off,
			Active: activeIDs,
		},
	})
}

func (g *Gateway) saveConfiguration(ctx context.Context, raw json.RawMessage) CommandResponse {
	var p SaveConfigurationParams
	if resp, ok := decodeParams(raw, &p); !ok {
		return resp
	}

	if err := g.board.SaveConfiguration(ctx, p.Duration, p.Speed); err != nil {
		return g.respondDomainError(CommandSaveConfiguration, err)
	}
	return respondData(nil)
}

func (g *Gateway) turn(ctx context.Context, on bool) CommandResponse {
	command, op := CommandTurnOff, g.board.TurnOff
	if on {
		command, op = CommandTurnOn, g.board.TurnOn
	}
	if err := op(ctx); err != nil {
		return g.respondDomainError(command, err)
	}
	return respondData(IsOnResult{On: g.board.IsOn()})
}

// decodeParams unmarshals and validates command parameters. The second
// return value is false when the response already carries the error.
func decodeParams(raw json.RawMessage, params interface{ Validate() error }) (CommandResponse, bool) {
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, params); err != nil {
			return respondError(ErrCodeValidation, "invalid params: "+err.Error()), false
		}
	}
	if err := params.Validate(); err != nil {
		return respondError(ErrCodeValidation, err.Error()), false
	}
	return CommandResponse{}, true
}

func (g *Gateway) respondDomainError(command string, err error) CommandResponse {
	code := ErrorCode(err)
	if code == "" {
		code = ErrCodePersistence
	}
	if code == ErrCodePersistence {
		g.logger.Errorf("Command %s failed: %v", command, err)
	} else {
		g.logger.Debugf("Command %s rejected: %v", command, err)
	}
	return respondError(code, err.Error())
}

func respondData(data interface{}) CommandResponse {
	return CommandResponse{Success: true, Data: data}
}

func respondError(code, message string) CommandResponse {
	return CommandResponse{Success: false, Error: &CommandError{Code: code, Message: message}}
}
