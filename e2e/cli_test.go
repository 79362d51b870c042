package e2e_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/setgame/internal/api"
	"github.com/mcoot/setgame/internal/api/response"
	"github.com/mcoot/setgame/internal/config"
	"github.com/mcoot/setgame/internal/factory"
	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/testutil"
	"github.com/mcoot/setgame/internal/web"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	stateFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "setgame-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/setgame")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		stateFile:  filepath.Join(t.TempDir(), "session.json"),
	}
}

func (r *cliRunner) command(args ...string) *exec.Cmd {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--state-file", r.stateFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	// Keep the caller's SETGAME_* settings out of the test
	cmd.Env = append(os.Environ(), "SETGAME_SESSION=", "SETGAME_TOKEN=")
	return cmd
}

func (r *cliRunner) run(args ...string) (string, error) {
	output, err := r.command(args...).CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.App
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// E2E tests use the production factory with a real clock and random source
	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		SessionService: app.SessionService,
		Metrics:        app.Metrics,
		Gatherer:       app.Registry,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		SessionService: app.SessionService,
		HubManager:     app.HubManager,
		WSManager:      app.WSManager,
		Metrics:        app.Metrics,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	cfg := config.Defaults()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = 5 * time.Second
	server := api.NewServer(mux, cfg, logger)
	server.BeforeDrain("close event streams", func(context.Context) error {
		app.HubManager.Close()
		return nil
	})
	server.AfterDrain("persist sessions", app.SessionService.Shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	select {
	case <-server.Ready():
	case err := <-done:
		t.Fatalf("server failed to start: %v", err)
	}

	serverURL := "http://" + server.Addr()
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			cancel()
			if err := <-done; err != nil {
				t.Logf("server shutdown: %v", err)
			}
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// decodeLast decodes a stream of JSON documents and returns the last one
func decodeLast[T any](t *testing.T, output string) T {
	t.Helper()

	var last T
	dec := json.NewDecoder(strings.NewReader(output))
	decoded := 0
	for {
		var v T
		if err := dec.Decode(&v); err == io.EOF {
			break
		} else {
			require.NoError(t, err, "output: %s", output)
		}
		last = v
		decoded++
	}
	require.NotZero(t, decoded, "no JSON in output: %s", output)
	return last
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	resp := decodeLast[response.Health](t, output)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.LiveSessions)
}

func TestCLI_Modes(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("modes")
	require.NoError(t, err, "output: %s", output)

	modes := decodeLast[[]response.Mode](t, output)
	assert.Len(t, modes, len(model.Modes()))
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Start a game; the session is saved in the state file
	output, err := cli.run("new", "--mode", string(model.Mode90Plus10))
	require.NoError(t, err, "output: %s", output)
	created := decodeLast[response.CreatedSession](t, output)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, model.NominalBoardSize, created.Game.Board.Cards)
	t.Logf("Created session: %s", created.ID)

	output, err = cli.run("state")
	require.NoError(t, err, "output: %s", output)
	state := decodeLast[response.Session](t, output)
	assert.Equal(t, created.ID, state.ID)

	// Ask for a set and play it
	output, err = cli.run("hint")
	require.NoError(t, err, "output: %s", output)
	hint := decodeLast[response.Hint](t, output)
	require.True(t, hint.Found)
	require.Len(t, hint.Cards, 3)

	args := []string{"select"}
	for _, c := range hint.Cards {
		args = append(args, c.ID)
	}
	output, err = cli.run(args...)
	require.NoError(t, err, "output: %s", output)
	sel := decodeLast[response.Selection](t, output)
	require.NotNil(t, sel.Resolution)
	assert.True(t, sel.Resolution.Valid)
	assert.Equal(t, 1, sel.Game.Score)

	// Pause blocks shuffling until resumed
	output, err = cli.run("pause")
	require.NoError(t, err, "output: %s", output)
	assert.True(t, decodeLast[response.Pause](t, output).Paused)

	output, err = cli.run("shuffle")
	require.NoError(t, err, "output: %s", output)
	assert.False(t, decodeLast[response.Shuffle](t, output).Shuffled)

	output, err = cli.run("pause")
	require.NoError(t, err, "output: %s", output)
	assert.False(t, decodeLast[response.Pause](t, output).Paused)

	// Switching mode starts a new game
	output, err = cli.run("mode", string(model.Mode180Plus5))
	require.NoError(t, err, "output: %s", output)
	state = decodeLast[response.Session](t, output)
	assert.Equal(t, string(model.Mode180Plus5), state.Game.Timer.Mode)
	assert.Equal(t, 0, state.Game.Score)

	output, err = cli.run("restart")
	require.NoError(t, err, "output: %s", output)
	state = decodeLast[response.Session](t, output)
	assert.Equal(t, model.DeckSize, state.Game.RemainingCards)

	// Quit closes the session and forgets it
	output, err = cli.run("quit")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, decodeLast[messageResponse](t, output).Message, created.ID)

	_, err = os.Stat(cli.stateFile)
	assert.True(t, os.IsNotExist(err))

	output, err = cli.run("--session", created.ID, "--token", created.Token, "state")
	assert.Error(t, err)
	assert.Contains(t, output, "SESSION_NOT_FOUND")
}

func TestCLI_Events(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("new", "--mode", string(model.ModeNormal))
	require.NoError(t, err, "output: %s", output)
	created := decodeLast[response.CreatedSession](t, output)

	// Stream events in the background
	cmd := cli.command("events", "--json")
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	require.Eventually(t, func() bool {
		hub := ts.app.HubManager.GetHub(model.SessionID(created.ID))
		return hub != nil && hub.ClientCount() == 1
	}, 5*time.Second, 50*time.Millisecond)

	output, err = cli.run("quit")
	require.NoError(t, err, "output: %s", output)

	var events []string
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		var evt struct {
			Event string `json:"event"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &evt))
		events = append(events, evt.Event)
	}

	assert.Contains(t, events, "connected")
	assert.NotContains(t, events, "fragment")
	require.NotEmpty(t, events)
	assert.Equal(t, "session_closed", events[len(events)-1])
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// No saved session
	output, err := cli.run("state")
	assert.Error(t, err)
	assert.Contains(t, output, "no session")

	output, err = cli.run("new", "--mode", "bogus")
	assert.Error(t, err)
	assert.Contains(t, output, "UNKNOWN_MODE")

	output, err = cli.run("new")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("select", "not-a-card")
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_CARD")

	output, err = cli.run("--token", "wrong", "state")
	assert.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}
