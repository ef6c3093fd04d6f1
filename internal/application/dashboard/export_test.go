package dashboard

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genlog-api/internal/domain/entity"
)

func mustOrigin(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("https://app.genlog.dev")
	require.NoError(t, err)
	return u
}

func TestBuildExportURLOnlyAppID(t *testing.T) {
	got := BuildExportURL(mustOrigin(t), "w1", nil, nil, nil)
	assert.Equal(t, "https://app.genlog.dev/api/generation/export?appId=w1", got)

	empty := ""
	assert.Equal(t, got, BuildExportURL(mustOrigin(t), "w1", &empty, []string{}, []string{}))
}

func TestBuildExportURLParameterOrder(t *testing.T) {
	got := BuildExportURL(mustOrigin(t), "w1", strPtr("gpt"), []string{"gpt-4"}, []string{"prod", "eval"})

	assert.Equal(t, "https://app.genlog.dev/api/generation/export?appId=w1&search=gpt&models=gpt-4&tags=prod%2Ceval", got)

	iApp := strings.Index(got, "appId=")
	iSearch := strings.Index(got, "search=")
	iModels := strings.Index(got, "models=")
	iTags := strings.Index(got, "tags=")
	assert.True(t, iApp < iSearch && iSearch < iModels && iModels < iTags)
}

func TestBuildExportURLIsDeterministicAndParsable(t *testing.T) {
	search := "refund request & more"
	models := []string{"gpt-4o", "claude 3"}
	tags := []string{"a,b", "c"}

	first := BuildExportURL(mustOrigin(t), "app/1", &search, models, tags)
	second := BuildExportURL(mustOrigin(t), "app/1", &search, models, tags)
	assert.Equal(t, first, second)

	u, err := url.Parse(first)
	require.NoError(t, err)
	assert.True(t, u.IsAbs())
	assert.Equal(t, ExportPath, u.Path)
	q := u.Query()
	assert.Equal(t, "app/1", q.Get("appId"))
	assert.Equal(t, search, q.Get("search"))
	assert.Equal(t, "gpt-4o,claude 3", q.Get("models"))
	assert.Equal(t, "a,b,c", q.Get("tags"))
}

func TestBuildExportURLIgnoresOriginPath(t *testing.T) {
	origin, err := url.Parse("http://localhost:3000/generations?x=1#frag")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/api/generation/export?appId=w1", BuildExportURL(origin, "w1", nil, nil, nil))
	assert.Equal(t, "/api/generation/export?appId=w1", BuildExportURL(nil, "w1", nil, nil, nil))
}

func TestDecideExportActionPro(t *testing.T) {
	action := DecideExportAction(entity.PlanPro, "https://x/api/generation/export?appId=w1")

	dl, ok := action.(DirectDownload)
	require.True(t, ok)
	assert.Equal(t, ExportDirect, dl.Kind())
	assert.Equal(t, "https://x/api/generation/export?appId=w1", dl.URL)
	assert.Equal(t, ExportLabel, dl.Label)
}

func TestDecideExportActionNonPro(t *testing.T) {
	for _, plan := range []entity.PlanTier{entity.PlanFree, "", "enterprise-trial"} {
		action := DecideExportAction(plan, "https://x/api/generation/export?appId=w1")

		prompt, ok := action.(UpgradePrompt)
		require.True(t, ok, "plan %q", plan)
		assert.Equal(t, ExportUpgrade, prompt.Kind())
		assert.Equal(t, "upgrade", prompt.Modal)
		assert.Equal(t, 800, prompt.Size)
	}
}
