package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	chatHandler "recipe-chat/internal/api/handlers/chat"
	"recipe-chat/internal/core/ai/gemini"
	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// testRouter builds the full engine with no corpus file (sample fallback), no
// API key (mock generation), cache and rate limiting off.
func testRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		App:    config.AppConfig{Env: "test", Version: "test"},
		Server: config.ServerConfig{Port: 8080},
		Corpus: config.CorpusConfig{Path: filepath.Join(t.TempDir(), "missing.csv")},
		Retrieval: config.RetrievalConfig{
			MinScore:    0.01,
			DefaultTopN: 1,
			MaxTopN:     3,
		},
		Gemini: config.GeminiConfig{Model: "gemini-2.5-flash", Timeout: time.Second},
	}

	router, err := SetupRouter(cfg, nil)
	require.NoError(t, err)
	return router
}

func postChat(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/recipe", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatHappyPath(t *testing.T) {
	router := testRouter(t)

	w := postChat(t, router, chatHandler.RecipeChatRequest{
		Message: "chicken, bell pepper, onion",
		TopN:    1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp chatHandler.RecipeChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// No API key configured: generation serves the fixed mock response.
	assert.Equal(t, gemini.MockResponse, resp.Generated)
	assert.Equal(t, string(gemini.SourceMock), resp.Source)
	assert.NotEmpty(t, resp.SessionID)

	require.Len(t, resp.RetrievedRecipes, 1)
	assert.Equal(t, "Chicken Stir-fry", resp.RetrievedRecipes[0].Recipe.Title)
	assert.Greater(t, resp.RetrievedRecipes[0].Score, 0.05)
}

func TestChatEmptyMessage(t *testing.T) {
	router := testRouter(t)

	for _, message := range []string{"", "   "} {
		w := postChat(t, router, map[string]any{"message": message})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), common.ErrCodeEmptyInput)
	}
}

func TestChatNoMatch(t *testing.T) {
	router := testRouter(t)

	w := postChat(t, router, chatHandler.RecipeChatRequest{Message: "xyzzy quux"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp chatHandler.RecipeChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.RetrievedRecipes)
	assert.NotEmpty(t, resp.Generated)
}

func TestChatClampsTopN(t *testing.T) {
	router := testRouter(t)

	w := postChat(t, router, chatHandler.RecipeChatRequest{
		Message: "pasta carrot onion tomato chicken",
		TopN:    5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp chatHandler.RecipeChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.LessOrEqual(t, len(resp.RetrievedRecipes), 3)
}

func TestChatHistory(t *testing.T) {
	router := testRouter(t)

	w := postChat(t, router, chatHandler.RecipeChatRequest{Message: "chicken and onion"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp chatHandler.RecipeChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history/"+resp.SessionID, nil)
	hw := httptest.NewRecorder()
	router.ServeHTTP(hw, req)
	require.Equal(t, http.StatusOK, hw.Code)

	var history struct {
		SessionID string `json:"session_id"`
		Turns     []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(hw.Body.Bytes(), &history))
	require.Len(t, history.Turns, 2)
	assert.Equal(t, "user", history.Turns[0].Role)
	assert.Equal(t, "chicken and onion", history.Turns[0].Content)
	assert.Equal(t, "assistant", history.Turns[1].Role)
}

func TestHealthEndpoints(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/health", "/ready", "/live"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestReadinessReportsCorpus(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
		Corpus struct {
			Recipes    int  `json:"recipes"`
			IndexBuilt bool `json:"index_built"`
		} `json:"corpus"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, 5, resp.Corpus.Recipes)
	assert.True(t, resp.Corpus.IndexBuilt)
}
