package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genlog-api/internal/domain/entity"
)

func TestColumnsTolerateMissingOptionalFields(t *testing.T) {
	g := &entity.Generation{ID: "bare", Name: "gpt-4o"}

	rows := BuildRows(Columns(), []*entity.Generation{g})
	require.Len(t, rows, 1)
	cells := rows[0].Cells

	assert.Equal(t, "gpt-4o", cells["name"])
	assert.Equal(t, 0, cells["tokens"])
	for _, id := range []string{"user", "cost", "feedback", "tags", "input", "output"} {
		assert.Nil(t, cells[id], id)
	}
}

func TestColumnsOrderAndHeaders(t *testing.T) {
	var headers []string
	for _, c := range Columns() {
		headers = append(headers, c.Header)
	}
	assert.Equal(t, []string{"Time", "Model", "Duration", "User", "Tokens", "Cost", "Feedback", "Tags", "Prompt", "Result"}, headers)
}

func TestTokensColumnSharesComparator(t *testing.T) {
	var tokens Column
	for _, c := range Columns() {
		if c.ID == "tokens" {
			tokens = c
		}
	}
	require.NotNil(t, tokens.Compare)

	a, b := gen("a", 10, 5), gen("b", 3, 8)
	assert.Equal(t, 15, tokens.Cell(a))
	assert.Equal(t, CompareTokens(a, b), tokens.Compare(a, b))
}

func TestOutputColumnPrefersError(t *testing.T) {
	g := gen("e", 1, 0)
	g.Output = entity.JSON(`"partial"`)
	g.Error = entity.JSON(`{"message":"rate limited"}`)

	cells := BuildRows(Columns(), []*entity.Generation{g})[0].Cells
	assert.Equal(t, entity.JSON(`{"message":"rate limited"}`), cells["output"])
}

func TestDetailView(t *testing.T) {
	assert.Nil(t, NewDetailView(nil))

	g := gen("d", 12, 34)
	g.Input = entity.JSON(`[{"role":"user","content":"hi"}]`)
	g.Output = entity.JSON(`"hello"`)

	v := NewDetailView(g)
	assert.Equal(t, "May 1, 2024, 09:00:00", v.Title)
	assert.Equal(t, "gpt-4o", v.Model)
	assert.Nil(t, v.Temperature)
	assert.Equal(t, 12, v.PromptTokens)
	assert.Equal(t, "Output", v.OutputLabel)
	assert.Equal(t, entity.JSON(`"hello"`), v.Output)
	assert.Equal(t, 34, v.CompletionTokens)

	temp := 0.2
	g.Params = &entity.Params{Temperature: &temp}
	g.Error = entity.JSON(`{"message":"boom"}`)
	v = NewDetailView(g)
	require.NotNil(t, v.Temperature)
	assert.Equal(t, 0.2, *v.Temperature)
	assert.Equal(t, "Error", v.OutputLabel)
	assert.Equal(t, entity.JSON(`{"message":"boom"}`), v.Output)
}
