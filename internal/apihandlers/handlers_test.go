package apihandlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scribe/internal/models"
	"scribe/pkg/intent"
)

func doJSON(t *testing.T, env *testEnv, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})

	rec := doJSON(t, env, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})

	rec := doJSON(t, env, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "admin",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["expires_at"])
}

func TestLoginHandlerRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})

	rec := doJSON(t, env, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})

	rec := doJSON(t, env, http.MethodPost, "/api/articles", "", map[string]string{
		"title": "t", "content": "c",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, env, http.MethodPost, "/api/articles", "not-a-token", map[string]string{
		"title": "t", "content": "c",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestArticleLifecycle(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})
	token := env.adminToken()

	rec := doJSON(t, env, http.MethodPost, "/api/categories", token, map[string]string{
		"name": "Tech", "description": "technology news",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, env, http.MethodPost, "/api/articles", token, map[string]any{
		"title":    "First Post",
		"content":  "<p>Hello world</p>",
		"category": "tech",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Article
	decodeBody(t, rec, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Tech", created.Category)
	assert.Equal(t, "Admin", created.Author)
	assert.True(t, created.Published)
	assert.Zero(t, created.Views)

	// Each public read counts a view.
	for i := int64(1); i <= 2; i++ {
		rec = doJSON(t, env, http.MethodGet, "/api/articles/"+created.ID, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var fetched models.Article
		decodeBody(t, rec, &fetched)
		assert.Equal(t, i, fetched.Views)
	}

	rec = doJSON(t, env, http.MethodPost, "/api/articles/"+created.ID+"/share", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var shared map[string]any
	decodeBody(t, rec, &shared)
	assert.Equal(t, float64(1), shared["shares"])

	rec = doJSON(t, env, http.MethodPut, "/api/articles/"+created.ID, token, map[string]string{
		"title": "Updated Post",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Article
	decodeBody(t, rec, &updated)
	assert.Equal(t, "Updated Post", updated.Title)

	rec = doJSON(t, env, http.MethodDelete, "/api/articles/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env, http.MethodGet, "/api/articles/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateArticleUnknownCategory(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})
	token := env.adminToken()

	rec := doJSON(t, env, http.MethodPost, "/api/articles", token, map[string]string{
		"title": "Orphan", "content": "body", "category": "nope",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, env, http.MethodPost, "/api/articles", token, map[string]string{
		"title": "Uncategorized", "content": "body",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListArticlesFilters(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})
	token := env.adminToken()

	for _, name := range []string{"Tech", "Sports"} {
		rec := doJSON(t, env, http.MethodPost, "/api/categories", token, map[string]string{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	for i, category := range []string{"Tech", "Tech", "Sports"} {
		rec := doJSON(t, env, http.MethodPost, "/api/articles", token, map[string]string{
			"title":    fmt.Sprintf("Article %d", i),
			"content":  "body",
			"category": category,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, env, http.MethodGet, "/api/articles?category=tech", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []models.Article
	decodeBody(t, rec, &listed)
	require.Len(t, listed, 2)
	for _, a := range listed {
		assert.Equal(t, "Tech", a.Category)
	}

	rec = doJSON(t, env, http.MethodGet, "/api/articles?limit=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed = nil
	decodeBody(t, rec, &listed)
	assert.Len(t, listed, 1)
}

func TestListArticlesRejectsBadQuery(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})

	rec := doJSON(t, env, http.MethodGet, "/api/articles?published=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, env, http.MethodGet, "/api/articles?limit=zero", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, env, http.MethodGet, "/api/articles?limit=-3", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareLinksHandler(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})
	token := env.adminToken()

	rec := doJSON(t, env, http.MethodPost, "/api/categories", token, map[string]string{"name": "News"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, env, http.MethodPost, "/api/articles", token, map[string]string{
		"title": "Linkable", "content": "body", "category": "News",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Article
	decodeBody(t, rec, &created)

	rec = doJSON(t, env, http.MethodGet, "/api/articles/"+created.ID+"/share-links?base_url=https://example.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Links map[string]string `json:"links"`
	}
	decodeBody(t, rec, &body)
	for _, platform := range []string{"twitter", "facebook", "linkedin", "whatsapp", "email"} {
		assert.Contains(t, body.Links, platform)
	}
	assert.Contains(t, body.Links["facebook"], "example.com")
}

func TestCategoryEndpoints(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})
	token := env.adminToken()

	rec := doJSON(t, env, http.MethodPost, "/api/categories", token, map[string]string{
		"name": "Tech", "description": "technology",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Category
	decodeBody(t, rec, &created)
	assert.Equal(t, "tech", created.Slug)

	rec = doJSON(t, env, http.MethodPost, "/api/categories", token, map[string]string{"name": "Tech"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, env, http.MethodPost, "/api/articles", token, map[string]string{
		"title": "Tagged", "content": "body", "category": "Tech",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, env, http.MethodPut, "/api/categories/rename", token, map[string]string{
		"old_name": "tech", "new_name": "Technology",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var renamed struct {
		Category        models.Category `json:"category"`
		ArticlesUpdated int64           `json:"articles_updated"`
	}
	decodeBody(t, rec, &renamed)
	assert.Equal(t, "Technology", renamed.Category.Name)
	assert.Equal(t, int64(1), renamed.ArticlesUpdated)

	rec = doJSON(t, env, http.MethodPut, "/api/categories/rename", token, map[string]string{
		"old_name": "missing", "new_name": "Anything",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, env, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []models.Category
	decodeBody(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Technology", listed[0].Name)
}

func TestStatusEndpoints(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})

	rec := doJSON(t, env, http.MethodPost, "/api/status", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, env, http.MethodPost, "/api/status", "", map[string]string{"client_name": "probe"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var check models.StatusCheck
	decodeBody(t, rec, &check)
	assert.NotEmpty(t, check.ID)
	assert.Equal(t, "probe", check.ClientName)

	rec = doJSON(t, env, http.MethodGet, "/api/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var checks []models.StatusCheck
	decodeBody(t, rec, &checks)
	assert.Len(t, checks, 1)
}

func uploadRequest(t *testing.T, token string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "image.bin")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadImageHandler(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})
	token := env.adminToken()

	pngHeader := append([]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 64)...)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, uploadRequest(t, token, pngHeader))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "image/png", body["content_type"])
	assert.Contains(t, body["image_data"], "data:image/png;base64,")

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, uploadRequest(t, token, []byte("plain text, not an image")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadImageHandlerRejectsOversize(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})
	env.app.Config.Upload.MaxBytes = 32
	token := env.adminToken()

	pngHeader := append([]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 64)...)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, uploadRequest(t, token, pngHeader))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssistantChatHandler(t *testing.T) {
	extractor := &scriptedExtractor{extraction: intent.Extraction{
		Intent: intent.IntentCreateCategory,
		Name:   "Tech",
	}}
	env := newTestEnv(extractor, &scriptedCompletion{})
	token := env.adminToken()

	rec := doJSON(t, env, http.MethodPost, "/api/admin/assistant/chat", token, map[string]any{
		"message": "make a tech category",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "create_category", body["action_taken"])
	assert.Contains(t, body["response"], "Tech")

	result, ok := body["action_result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Tech", result["name"])
}

func TestAssistantChatHandlerRequiresMessage(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{})

	rec := doJSON(t, env, http.MethodPost, "/api/admin/assistant/chat", env.adminToken(), map[string]any{
		"history": []map[string]string{{"role": "user", "content": "hi"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssistantChatHandlerDependencyFailure(t *testing.T) {
	extractor := &scriptedExtractor{err: fmt.Errorf("provider timeout: %w", models.ErrDependency)}
	env := newTestEnv(extractor, &scriptedCompletion{})

	rec := doJSON(t, env, http.MethodPost, "/api/admin/assistant/chat", env.adminToken(), map[string]any{
		"message": "make a tech category",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "assistant_unavailable", body["error"])
	assert.Contains(t, body["response"], "encountered an error")
}

func TestPublicChatHandler(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{reply: "hello there"})

	rec := doJSON(t, env, http.MethodPost, "/api/chat", "", map[string]any{
		"message": "hi",
		"history": []map[string]string{{"role": "assistant", "content": "earlier"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "hello there", body["response"])
}

func TestPublicChatHandlerUnavailable(t *testing.T) {
	env := newTestEnv(&scriptedExtractor{}, &scriptedCompletion{err: models.ErrDependency})

	rec := doJSON(t, env, http.MethodPost, "/api/chat", "", map[string]any{"message": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "chat_unavailable", body["error"])
}
