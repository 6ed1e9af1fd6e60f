package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/chessarchive/internal/model"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown player", &model.RetrievalError{Target: "ghost", StatusCode: 404}, http.StatusNotFound, CodePlayerNotFound},
		{"missing month", &model.RetrievalError{Target: "https://api.chess.com/pub/player/alice/games/2024/01", StatusCode: 404}, http.StatusNotFound, CodeArchiveNotFound},
		{"upstream failure", &model.RetrievalError{Target: "x", StatusCode: 500}, http.StatusBadGateway, CodeUpstreamError},
		{"transport failure", &model.RetrievalError{Target: "x", Err: errors.New("refused")}, http.StatusBadGateway, CodeUpstreamError},
		{"timeout", fmt.Errorf("scan: %w", &model.RetrievalError{Target: "x", Timeout: true}), http.StatusGatewayTimeout, CodeUpstreamTimeout},
		{"bad name", model.ErrInvalidPlayerName, http.StatusBadRequest, CodeInvalidRequest},
		{"malformed url", fmt.Errorf("%w: x", model.ErrMalformedMonthURL), http.StatusBadGateway, CodeUpstreamError},
		{"invalid record", fmt.Errorf("%w: x", model.ErrInvalidRecord), http.StatusBadGateway, CodeUpstreamError},
		{"not in game", model.ErrPlayerNotInGame, http.StatusUnprocessableEntity, CodePlayerNotInGame},
		{"invalid request", NewInvalidRequestError("count must be a number"), http.StatusBadRequest, CodeInvalidRequest},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tc.err)

			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.status, StatusOf(tc.err))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestInternalDetailsAreNotLeaked(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("redis: connection refused at 10.0.0.3"))
	assert.NotContains(t, rr.Body.String(), "10.0.0.3")
}
