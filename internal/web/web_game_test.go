package web_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/setgame/internal/model"
)

func TestGamePageShowsBoard(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame(model.Mode90Plus10)

	rr := ts.get(path)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "#game")
	assertContainsElement(t, doc, "#board .board")
	assert.Equal(t, model.NominalBoardSize, doc.Find("#board button.card").Length())
	assertContainsText(t, doc, "#score", "0")
	assertContainsText(t, doc, "#remaining", "81")
	assertContainsText(t, doc, "#timer", "90")
	assertContainsElement(t, doc, `[sse-connect="`+path+`/events"]`)
	assertNotContainsElement(t, doc, "#game-over .overlay")
}

func TestBoardFragment(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame("")

	rr := ts.request(http.MethodGet, path+"/board", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "#game")
	assertNotContainsElement(t, doc, "html head script")
}

func TestSelectHighlightsCard(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame("")

	rr := ts.postHTMX(path+"/select", url.Values{"card_id": {firstTriple[0]}})
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, `button.card.selected[data-card-id="`+firstTriple[0]+`"]`)
	assert.Equal(t, 1, doc.Find("button.card.selected").Length())
}

func TestSelectValidTripleScores(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame(model.Mode90Plus10)

	var doc *goquery.Document
	for _, id := range firstTriple {
		rr := ts.postHTMX(path+"/select", url.Values{"card_id": {id}})
		require.Equal(t, http.StatusOK, rr.Code)
		doc = parseHTML(rr.Body)
	}

	assertContainsText(t, doc, "#score", "1")
	assertContainsText(t, doc, "#timer", "100")
	assertContainsElement(t, doc, "#notification .notification-valid")
	assertNotContainsElement(t, doc, "button.card.selected")
	for _, id := range firstTriple {
		assertNotContainsElement(t, doc, `[data-card-id="`+id+`"]`)
	}
}

func TestHintHighlightsTriple(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame("")

	rr := ts.postHTMX(path+"/hint", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assert.Equal(t, 3, doc.Find("button.card.hinted").Length())
}

func TestPauseDisablesBoard(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame("")

	rr := ts.postHTMX(path+"/pause", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".controls", "Resume")
	assert.Equal(t, model.NominalBoardSize, doc.Find("button.card[disabled]").Length())

	rr = ts.postHTMX(path+"/pause", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	doc = parseHTML(rr.Body)
	assertContainsText(t, doc, ".controls", "Pause")
	assertNotContainsElement(t, doc, "button.card[disabled]")
}

func TestModeSwitchResetsTimer(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame(model.ModeNormal)

	rr := ts.postHTMX(path+"/mode", url.Values{"mode": {string(model.Mode180Plus5)}})
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "#timer", "180")
	assertContainsText(t, doc, ".mode", string(model.Mode180Plus5))
	assertContainsText(t, doc, ".modes button.active", string(model.Mode180Plus5))
}

func TestShuffleAndRestart(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame("")
	for _, id := range firstTriple {
		ts.postHTMX(path+"/select", url.Values{"card_id": {id}})
	}

	rr := ts.postHTMX(path+"/shuffle", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assert.Equal(t, model.NominalBoardSize, doc.Find("#board button.card").Length())
	assertContainsText(t, doc, "#score", "1")

	rr = ts.postHTMX(path+"/restart", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	doc = parseHTML(rr.Body)
	assertContainsText(t, doc, "#score", "0")
	assertContainsText(t, doc, "#remaining", "81")
}

func TestGameOverShowsOverlay(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame(model.ModeNormal)

	ts.app.MockClock.Advance(90 * time.Second)

	rr := ts.get(path)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "#game-over .overlay", "Final score: 0")
	assert.Equal(t, model.NominalBoardSize, doc.Find("button.card[disabled]").Length())
}
