package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// Handle is the API Gateway proxy entry point.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(event.Headers)
	path := strings.TrimRight(event.Path, "/")
	body := []byte(event.Body)

	switch {
	case event.HTTPMethod == http.MethodOptions:
		return respond(http.StatusNoContent, corrID, nil), nil
	case event.HTTPMethod == http.MethodGet && path == "/health":
		status, payload := h.health()
		return respond(status, corrID, payload), nil
	case event.HTTPMethod == http.MethodPost && path == "/chat":
		status, payload := h.chatTurn(ctx, corrID, body)
		return respond(status, corrID, payload), nil
	case event.HTTPMethod == http.MethodPost && path == "/portfolio/messages":
		status, payload := h.portfolioMessage(body)
		return respond(status, corrID, payload), nil
	case event.HTTPMethod == http.MethodPost && path == "/portfolio/items":
		status, payload := h.portfolioAdd(ctx, corrID, body)
		return respond(status, corrID, payload), nil
	case event.HTTPMethod == http.MethodGet && path == "/portfolio/items":
		status, payload := h.portfolioList(ctx)
		return respond(status, corrID, payload), nil
	case event.HTTPMethod == http.MethodGet && path == "/portfolio":
		status, page, payload := h.portfolioPage(ctx)
		if page == nil {
			return respond(status, corrID, payload), nil
		}
		return events.APIGatewayProxyResponse{
			StatusCode: status,
			Headers: map[string]string{
				"Content-Type":    "text/html; charset=utf-8",
				correlationHeader: corrID,
			},
			Body: string(page),
		}, nil
	}
	return respond(http.StatusNotFound, corrID, errorResponse{Error: msgNotFound}), nil
}

func respond(status int, corrID string, payload any) events.APIGatewayProxyResponse {
	resp := events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: corrID,
		},
	}
	if payload == nil {
		return resp
	}
	b, err := json.Marshal(payload)
	if err != nil {
		resp.StatusCode = http.StatusInternalServerError
		resp.Body = `{"error":"internal error"}`
		return resp
	}
	resp.Body = string(b)
	return resp
}
