package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/setgame/internal/dependencies/mocks"
	"github.com/mcoot/setgame/internal/metrics"
	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/services/session"
	"github.com/mcoot/setgame/internal/storage"
	"github.com/mcoot/setgame/internal/storage/memory"
	"github.com/mcoot/setgame/internal/testutil"
	"github.com/mcoot/setgame/internal/web/handler"
	"github.com/mcoot/setgame/internal/web/sse"
	"github.com/mcoot/setgame/internal/web/ws"
)

type failingStorage struct {
	*memory.Storage
}

func (failingStorage) SaveSession(context.Context, *model.Session) error {
	return errors.New("connection refused")
}

func newGameHandler(t *testing.T, saveFails bool) *handler.GameHandler {
	t.Helper()
	logger := testutil.NopLogger()

	var store storage.Storage = memory.New()
	if saveFails {
		store = failingStorage{Storage: memory.New()}
	}

	sessions := session.New(store,
		mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
		mocks.NewMockRandom(),
		metrics.New(prometheus.NewRegistry()),
		session.Config{TokenCost: bcrypt.MinCost},
		logger,
	)
	t.Cleanup(func() { _ = sessions.Shutdown(context.Background()) })

	hubs := sse.NewHubManager(logger)
	t.Cleanup(hubs.Close)
	return handler.NewGameHandler(sessions, hubs, ws.NewManager(logger), logger)
}

func postCreate(h *handler.GameHandler, mode string) *httptest.ResponseRecorder {
	form := url.Values{"mode": {mode}}
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.Create(rr, req)
	return rr
}

func flashMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == "setgame_flash" {
			value, err := url.QueryUnescape(c.Value)
			require.NoError(t, err)
			return value
		}
	}
	t.Fatal("no flash cookie set")
	return ""
}

func TestCreateFlashesUnknownMode(t *testing.T) {
	rr := postCreate(newGameHandler(t, false), "bogus")

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Equal(t, "error:Unknown timer mode", flashMessage(t, rr))
}

func TestCreateStorageFailureIsNotReportedAsBadMode(t *testing.T) {
	rr := postCreate(newGameHandler(t, true), string(model.ModeNormal))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	msg := flashMessage(t, rr)
	assert.NotContains(t, msg, "Unknown timer mode")
	assert.Contains(t, msg, "Could not start a game")
}
