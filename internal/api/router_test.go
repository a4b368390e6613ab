package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Rrens/notebooklm/internal/agent"
	"github.com/Rrens/notebooklm/internal/api"
	"github.com/Rrens/notebooklm/internal/config"
	"github.com/Rrens/notebooklm/internal/llm"
	"github.com/Rrens/notebooklm/internal/repository"
	"github.com/Rrens/notebooklm/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingProvider answers every request with a fixed reply and remembers
// the last user message it saw
type recordingProvider struct {
	mu   sync.Mutex
	last string
}

func (p *recordingProvider) Name() string              { return "fake" }
func (p *recordingProvider) AvailableModels() []string { return []string{"fake-1"} }
func (p *recordingProvider) DefaultModel() string      { return "fake-1" }
func (p *recordingProvider) IsConfigured() bool        { return true }

func (p *recordingProvider) record(req llm.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = req.Messages[len(req.Messages)-1].Content
}

func (p *recordingProvider) lastMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *recordingProvider) Chat(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.record(req)
	return &llm.Response{Content: "Mitosis is cell division.", Model: req.Model, TokensUsed: 9}, nil
}

func (p *recordingProvider) ChatStream(ctx context.Context, req llm.Request, onChunk llm.ChunkFunc) (*llm.Response, error) {
	p.record(req)
	for _, chunk := range []string{"Mitosis ", "is cell division."} {
		if err := onChunk(chunk); err != nil {
			return nil, err
		}
	}
	return &llm.Response{Content: "Mitosis is cell division.", Model: req.Model, TokensUsed: 9}, nil
}

type testServer struct {
	handler  http.Handler
	provider *recordingProvider
	agents   *agent.Handle
	store    *repository.Store
}

func newTestServer(t *testing.T, ready bool, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:   "sqlite",
			Database: filepath.Join(t.TempDir(), "api.db"),
		},
		Agent: config.AgentConfig{Name: "NotebookLM", ID: "notebooklm-os", Provider: "fake"},
	}
	for _, m := range mutate {
		m(cfg)
	}

	require.NoError(t, repository.RunMigrations(cfg.Database, repository.Up))
	store, err := repository.Open(context.Background(), cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	provider := &recordingProvider{}
	llmRouter := llm.NewRouter("fake")
	llmRouter.RegisterProvider(provider)

	agents := &agent.Handle{}
	if ready {
		rt, err := api.NewRuntime(cfg, llmRouter, store.Runs)
		require.NoError(t, err)
		require.NoError(t, agents.Set(rt))
	}

	h := api.NewRouter(api.Dependencies{
		Config:    cfg,
		Notebooks: store.Notebooks,
		Sessions:  store.Sessions,
		DB:        store,
		Agents:    agents,
		LLM:       llmRouter,
	})

	return &testServer{handler: h, provider: provider, agents: agents, store: store}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func (s *testServer) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) doJSON(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return s.do(t, req)
}

func (s *testServer) doForm(t *testing.T, path string, form url.Values) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(t, req)
}

type notebookJSON struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Instructions *string    `json:"instructions"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestNotebookLifecycle(t *testing.T) {
	s := newTestServer(t, true)

	rec, env := s.doJSON(t, http.MethodPost, "/notebooks", `{}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[notebookJSON](t, env.Data)
	assert.Equal(t, "Untitled notebook", created.Title)
	assert.Nil(t, created.UpdatedAt)

	rec, env = s.doJSON(t, http.MethodPost, "/notebooks",
		`{"title":"Biology 101","description":"Cells","instructions":"Be brief"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	bio := decode[notebookJSON](t, env.Data)

	// PUT with only a title leaves the other fields untouched
	rec, env = s.doJSON(t, http.MethodPut, "/notebooks/"+itoa(bio.ID), `{"title":"Biology 102"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[notebookJSON](t, env.Data)
	assert.Equal(t, "Biology 102", updated.Title)
	assert.Equal(t, "Cells", *updated.Description)
	assert.Equal(t, "Be brief", *updated.Instructions)
	require.NotNil(t, updated.UpdatedAt)

	// explicit null clears
	rec, env = s.doJSON(t, http.MethodPatch, "/notebooks/"+itoa(bio.ID), `{"description":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[notebookJSON](t, env.Data).Description)

	rec, _ = s.doJSON(t, http.MethodPut, "/notebooks/"+itoa(bio.ID), `{"title":null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.doJSON(t, http.MethodGet, "/notebooks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]notebookJSON](t, env.Data)
	require.Len(t, list, 2)
	assert.Equal(t, bio.ID, list[0].ID, "most recently updated first")

	rec, _ = s.doJSON(t, http.MethodDelete, "/notebooks/"+itoa(bio.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = s.doJSON(t, http.MethodGet, "/notebooks/"+itoa(bio.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.doJSON(t, http.MethodDelete, "/notebooks/"+itoa(bio.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotebookValidation(t *testing.T) {
	s := newTestServer(t, true)

	rec, _ := s.doJSON(t, http.MethodPost, "/notebooks", `{"title":"`+strings.Repeat("x", 256)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.doJSON(t, http.MethodPost, "/notebooks", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.doJSON(t, http.MethodGet, "/notebooks/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type runOutputJSON struct {
	RunID     string `json:"run_id"`
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	TeamID    string `json:"team_id"`
}

func TestRun_Biology101(t *testing.T) {
	s := newTestServer(t, true)

	_, env := s.doJSON(t, http.MethodPost, "/notebooks",
		`{"title":"Biology 101","description":"Cells","instructions":"Be brief"}`)
	bio := decode[notebookJSON](t, env.Data)

	rec, env := s.doForm(t, "/notebooks/"+itoa(bio.ID)+"/run", url.Values{
		"message": {"What is mitosis?"},
		"stream":  {"false"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[runOutputJSON](t, env.Data)
	assert.Equal(t, "Mitosis is cell division.", out.Content)
	assert.Equal(t, "notebooklm", out.TeamID)
	assert.NotEmpty(t, out.SessionID)
	assert.Equal(t, out.SessionID, rec.Header().Get("X-Session-ID"))

	assert.Equal(t,
		"[Notebook: Biology 101]\n[Description: Cells]\n[Instructions: Be brief]\n\nWhat is mitosis?",
		s.provider.lastMessage(),
	)

	rec, env = s.doJSON(t, http.MethodGet, "/notebooks/"+itoa(bio.ID)+"/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sessions := decode[[]map[string]any](t, env.Data)
	require.Len(t, sessions, 1)
	assert.Equal(t, out.SessionID, sessions[0]["session_id"])
}

func TestRun_SessionReuseIsIdempotent(t *testing.T) {
	s := newTestServer(t, true)
	_, env := s.doJSON(t, http.MethodPost, "/notebooks", `{"title":"T"}`)
	nb := decode[notebookJSON](t, env.Data)
	path := "/notebooks/" + itoa(nb.ID) + "/run"

	first, _ := s.doForm(t, path, url.Values{"message": {"a"}, "stream": {"false"}})
	second, _ := s.doForm(t, path, url.Values{"message": {"b"}, "stream": {"false"}})
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.NotEqual(t, first.Header().Get("X-Session-ID"), second.Header().Get("X-Session-ID"))

	for i := 0; i < 2; i++ {
		rec, _ := s.doForm(t, path, url.Values{"message": {"again"}, "stream": {"false"}, "session_id": {"S"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "S", rec.Header().Get("X-Session-ID"))
	}

	_, env = s.doJSON(t, http.MethodGet, "/notebooks/"+itoa(nb.ID)+"/sessions", "")
	sessions := decode[[]map[string]any](t, env.Data)
	assert.Len(t, sessions, 3)
}

func TestRun_Stream(t *testing.T) {
	s := newTestServer(t, true)
	_, env := s.doJSON(t, http.MethodPost, "/notebooks", `{"title":"T"}`)
	nb := decode[notebookJSON](t, env.Data)

	rec, _ := s.doForm(t, "/notebooks/"+itoa(nb.ID)+"/run", url.Values{
		"message":    {"hi"},
		"session_id": {"stream-session"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	var names []string
	var contents []string
	err := llm.ReadSSE(rec.Body, func(event, data string) error {
		names = append(names, event)
		var ev agent.Event
		require.NoError(t, json.Unmarshal([]byte(data), &ev))
		assert.Equal(t, "stream-session", ev.SessionID)
		if ev.Event == agent.EventTeamRunContent {
			contents = append(contents, ev.Content)
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"TeamRunStarted", "TeamRunContent", "TeamRunContent", "TeamRunCompleted"}, names)
	assert.Equal(t, []string{"Mitosis ", "is cell division."}, contents)
}

func TestRun_Errors(t *testing.T) {
	t.Run("runtime not initialized", func(t *testing.T) {
		s := newTestServer(t, false)
		_, env := s.doJSON(t, http.MethodPost, "/notebooks", `{"title":"T"}`)
		nb := decode[notebookJSON](t, env.Data)

		rec, _ := s.doForm(t, "/notebooks/"+itoa(nb.ID)+"/run", url.Values{"message": {"hi"}, "session_id": {"S"}})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		// nothing was linked
		link, err := s.store.Sessions.GetBySessionID(context.Background(), "S")
		require.NoError(t, err)
		assert.Nil(t, link)
	})

	t.Run("unknown notebook", func(t *testing.T) {
		s := newTestServer(t, true)
		rec, _ := s.doForm(t, "/notebooks/999/run", url.Values{"message": {"hi"}, "session_id": {"S"}})
		assert.Equal(t, http.StatusNotFound, rec.Code)

		link, err := s.store.Sessions.GetBySessionID(context.Background(), "S")
		require.NoError(t, err)
		assert.Nil(t, link)
	})

	t.Run("missing message", func(t *testing.T) {
		s := newTestServer(t, true)
		_, env := s.doJSON(t, http.MethodPost, "/notebooks", `{}`)
		nb := decode[notebookJSON](t, env.Data)

		rec, _ := s.doForm(t, "/notebooks/"+itoa(nb.ID)+"/run", url.Values{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad stream flag", func(t *testing.T) {
		s := newTestServer(t, true)
		_, env := s.doJSON(t, http.MethodPost, "/notebooks", `{}`)
		nb := decode[notebookJSON](t, env.Data)

		rec, _ := s.doForm(t, "/notebooks/"+itoa(nb.ID)+"/run", url.Values{"message": {"x"}, "stream": {"maybe"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNonPositiveNotebookIDIsNotFound(t *testing.T) {
	s := newTestServer(t, true)

	for _, id := range []string{"0", "-1"} {
		t.Run(id, func(t *testing.T) {
			rec, _ := s.doJSON(t, http.MethodGet, "/notebooks/"+id, "")
			assert.Equal(t, http.StatusNotFound, rec.Code)

			rec, _ = s.doJSON(t, http.MethodPut, "/notebooks/"+id, `{"title":"X"}`)
			assert.Equal(t, http.StatusNotFound, rec.Code)

			rec, _ = s.doJSON(t, http.MethodDelete, "/notebooks/"+id, "")
			assert.Equal(t, http.StatusNotFound, rec.Code)

			rec, _ = s.doJSON(t, http.MethodGet, "/notebooks/"+id+"/sessions", "")
			assert.Equal(t, http.StatusNotFound, rec.Code)

			rec, _ = s.doForm(t, "/notebooks/"+id+"/run", url.Values{"message": {"hi"}, "stream": {"false"}})
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestSessions_UnknownNotebook(t *testing.T) {
	s := newTestServer(t, true)
	rec, _ := s.doJSON(t, http.MethodGet, "/notebooks/404/sessions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthReadyConfig(t *testing.T) {
	notReady := newTestServer(t, false)

	rec, env := notReady.doJSON(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = notReady.doJSON(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ready := newTestServer(t, true)
	rec, _ = ready.doJSON(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = ready.doJSON(t, http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decode[map[string]any](t, env.Data)
	assert.Equal(t, "notebooklm-os", cfg["id"])
	assert.Equal(t, []any{"notebooklm"}, cfg["teams"])
	assert.Equal(t, true, cfg["ready"])
}

func TestAuthRequiredWhenSecretSet(t *testing.T) {
	const secret = "test-secret-key-with-32-chars!!"
	s := newTestServer(t, true, func(cfg *config.Config) {
		cfg.Auth = config.AuthConfig{JWTSecret: secret, AccessTokenTTL: time.Minute}
	})

	rec, _ := s.doJSON(t, http.MethodGet, "/notebooks", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// health stays public
	rec, _ = s.doJSON(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	token, err := security.NewJWTManager(secret, time.Minute).GenerateAccessToken("alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/notebooks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, _ = s.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
