package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"quiz-leaderboard/internal/app"
	"quiz-leaderboard/internal/domain"
	"quiz-leaderboard/internal/logger"
)

type WSHandler struct {
	service  *app.LeaderboardService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.LeaderboardService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades HTTP requests to websockets. Each inbound message is
// answered in order on the same connection:
//
//	{"type":"submit","payload":{...submission}}  -> {"type":"recorded","payload":{...record}}
//	{"type":"leaderboard","payload":{...query}}  -> {"type":"leaderboard","payload":{"text":"..."}}
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.C(r.Context()).Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				logger.C(r.Context()).Debug().Err(err).Msg("ws read ended")
			}
			return
		}
		if err := conn.WriteJSON(h.handle(r, inbound)); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("ws write error")
			return
		}
	}
}

func (h *WSHandler) handle(r *http.Request, inbound inboundMessage) any {
	ctx := r.Context()
	switch inbound.Type {
	case "submit":
		var sub domain.Submission
		if err := json.Unmarshal(inbound.Payload, &sub); err != nil {
			return wsError("invalid result payload")
		}
		record, err := h.service.Submit(ctx, sub)
		if err != nil {
			return wsServiceError(r, err)
		}
		return outboundMessage[domain.ResultRecord]{Type: "recorded", Payload: record}
	case "leaderboard":
		var query domain.LeaderboardQuery
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &query); err != nil {
				return wsError("invalid leaderboard payload")
			}
		}
		text, err := h.service.Leaderboard(ctx, query)
		if err != nil {
			return wsServiceError(r, err)
		}
		return outboundMessage[leaderboardPayload]{Type: "leaderboard", Payload: leaderboardPayload{Text: text}}
	default:
		return wsError("unsupported message type")
	}
}

func wsError(msg string) outboundMessage[errorPayload] {
	return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: msg}}
}

func wsServiceError(r *http.Request, err error) outboundMessage[errorPayload] {
	if statusFor(err) == http.StatusInternalServerError {
		logger.C(r.Context()).Error().Err(err).Msg("ws request failed")
		return wsError("result could not be recorded")
	}
	return wsError(err.Error())
}
