package router

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genlog-api/internal/interfaces/http/dto"
	"genlog-api/pkg/errors"
)

func doRequest(env *testEnv, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestListGenerationsPaginatesWithCursor(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(env, http.MethodGet, "/api/generations?appId=pro-app&limit=2&models=gpt-4,claude-3&tags=prod&search=hi", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	resp := decode[dto.Response[dto.GenerationListResponse]](t, w)
	require.Len(t, resp.Data.Items, 2)
	assert.Equal(t, "g3", resp.Data.Items[0].ID)
	assert.Equal(t, 15, resp.Data.Items[0].TotalTokens)
	require.NotNil(t, resp.Meta)
	assert.True(t, resp.Meta.HasMore)
	assert.NotEmpty(t, resp.Meta.NextCursor)

	filter := env.repo.filters[0]
	assert.Equal(t, "pro-app", filter.AppID)
	assert.Equal(t, []string{"gpt-4", "claude-3"}, filter.Models)
	assert.Equal(t, []string{"prod"}, filter.Tags)
	require.NotNil(t, filter.Search)
	assert.Equal(t, "hi", *filter.Search)
}

func TestListGenerationsValidation(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(env, http.MethodGet, "/api/generations", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(env, http.MethodGet, "/api/generations?appId=pro-app&cursor=%21%21", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGeneration(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(env, http.MethodGet, "/api/generations/g2?appId=pro-app", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "g2", decode[dto.Response[dto.GenerationResponse]](t, w).Data.ID)

	// 其他应用的记录不可见
	w = doRequest(env, http.MethodGet, "/api/generations/g2?appId=free-app", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngestGenerationAccepted(t *testing.T) {
	env := newTestEnv(t)

	body := `{"app_id":"pro-app","name":"gpt-4","prompt_tokens":3,"completion_tokens":4,"tags":["prod"," prod ",""]}`
	w := doRequest(env, http.MethodPost, "/api/generations", body)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	resp := decode[dto.Response[dto.IngestGenerationResponse]](t, w)
	assert.Equal(t, "1-0", resp.Data.MessageID)
	require.NotNil(t, env.submitter.got)
	assert.Equal(t, []string{"prod"}, []string(env.submitter.got.Tags))
	assert.False(t, env.submitter.got.CreatedAt.IsZero())
	assert.Equal(t, w.Header().Get("X-Request-ID"), env.submitter.requestID)
}

func TestIngestGenerationErrors(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(env, http.MethodPost, "/api/generations", `{"name":"gpt-4"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.submitter.err = errors.ErrAppNotFound.WithDetail("ghost")
	w = doRequest(env, http.MethodPost, "/api/generations", `{"app_id":"ghost","name":"gpt-4"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	resp := decode[dto.ErrorResponse](t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(errors.CodeAppNotFound), resp.Error.ErrorCode)
}

func TestExportDownloadsCSVForProPlan(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(env, http.MethodGet, "/api/generation/export?appId=pro-app&models=gpt-4", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="generations-pro-app.csv"`, w.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "g3", records[1][0])

	require.Len(t, env.audit.logs, 1)
	assert.Equal(t, "generation.export", env.audit.logs[0].Action)
	assert.Equal(t, http.StatusOK, env.audit.logs[0].StatusCode)
}

func TestExportRequiresProPlan(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(env, http.MethodGet, "/api/generation/export?appId=free-app", "")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	resp := decode[dto.ErrorResponse](t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(errors.CodePlanUpgradeRequired), resp.Error.ErrorCode)
	assert.Equal(t, "PLAN_UPGRADE_REQUIRED", resp.Error.Details)
	assert.Empty(t, env.audit.logs)
}

func TestExportIsRateLimitedPerApp(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 2; i++ {
		w := doRequest(env, http.MethodGet, "/api/generation/export?appId=pro-app", "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := doRequest(env, http.MethodGet, "/api/generation/export?appId=pro-app", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestExportFailureBeforeFirstRowReturnsJSON(t *testing.T) {
	env := newTestEnv(t)
	env.repo.scanErr = assert.AnError

	w := doRequest(env, http.MethodGet, "/api/generation/export?appId=pro-app", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	require.Len(t, env.audit.logs, 1)
	assert.Equal(t, http.StatusInternalServerError, env.audit.logs[0].StatusCode)
}

func TestWorkspaceAndOptions(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(env, http.MethodGet, "/api/apps/free-app", "")
	require.Equal(t, http.StatusOK, w.Code)
	ws := decode[dto.Response[dto.WorkspaceResponse]](t, w).Data
	assert.True(t, ws.Activated)
	assert.False(t, ws.CanExport)

	w = doRequest(env, http.MethodGet, "/api/apps/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(env, http.MethodGet, "/api/apps/pro-app/models", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"claude-3", "gpt-4"}, decode[dto.Response[dto.OptionsResponse]](t, w).Data.Items)

	w = doRequest(env, http.MethodGet, "/api/apps/pro-app/tags", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"prod"}, decode[dto.Response[dto.OptionsResponse]](t, w).Data.Items)
}

func TestRenderPageActivatedProWorkspace(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(env, http.MethodGet, "/api/apps/pro-app/generations/page?models=gpt-4&search=hi&selected=g2", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	view := decode[dto.Response[dto.PageViewResponse]](t, w).Data
	assert.Equal(t, "Generations", view.Title)
	assert.Nil(t, view.EmptyState)

	require.NotNil(t, view.Export)
	assert.Equal(t, "download", string(view.Export.Kind))
	assert.Equal(t, "https://app.genlog.dev/api/generation/export?appId=pro-app&search=hi&models=gpt-4", view.Export.URL)

	require.NotNil(t, view.Filters)
	assert.Equal(t, []string{"gpt-4"}, view.Filters.Models)
	assert.Equal(t, []string{"claude-3", "gpt-4"}, view.Filters.ModelOptions)

	require.NotNil(t, view.Table)
	assert.False(t, view.Table.Loading)
	assert.True(t, view.Table.HasMore)
	require.Len(t, view.Table.Rows, 2)

	require.NotNil(t, view.Drawer)
	assert.Equal(t, "g2", view.Drawer.ID)
}

func TestRenderPageFreePlanGetsUpgradePrompt(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(env, http.MethodGet, "/api/apps/free-app/generations/page", "")
	require.Equal(t, http.StatusOK, w.Code)

	view := decode[dto.Response[dto.PageViewResponse]](t, w).Data
	require.NotNil(t, view.Export)
	assert.Equal(t, "upgrade", string(view.Export.Kind))
	assert.Empty(t, view.Export.URL)
	assert.Equal(t, 800, view.Export.ModalSize)
}

func TestRenderPageNotActivatedShowsEmptyState(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(env, http.MethodGet, "/api/apps/new-app/generations/page", "")
	require.Equal(t, http.StatusOK, w.Code)

	view := decode[dto.Response[dto.PageViewResponse]](t, w).Data
	require.NotNil(t, view.EmptyState)
	assert.Equal(t, "requests", view.EmptyState.What)
	assert.Nil(t, view.Export)
	assert.Nil(t, view.Filters)
	assert.Nil(t, view.Table)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, doRequest(env, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(env, http.MethodGet, "/live", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(env, http.MethodGet, "/ready", "").Code)
}
