package intake

import (
	"testing"

	"fhfa-go/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v int) *int { return &v }

func texts(statements []models.Statement) []string {
	out := make([]string, len(statements))
	for i, s := range statements {
		out[i] = s.Text
	}
	return out
}

func sampleSources() RawSources {
	return RawSources{
		Questionnaire: &QuestionnaireResponse{
			DifficultThoughts: []string{"I'm stupid", "  ", "Nobody likes me"},
		},
		Scale: &ScaleResponse{Items: []ScaleItemResponse{
			{ItemID: "s1", Text: "I always mess things up", Score: score(4)},
			{ItemID: "s2", Text: "If I try, I will fail", Score: score(2)},
		}},
		Parent: &ParentReport{Text: "nobody likes me, It's not fair ,, I can't do math"},
	}
}

func TestExtractStatementsRuleOrder(t *testing.T) {
	got := ExtractStatements(sampleSources())

	require.Len(t, got, 5)
	assert.Equal(t, []string{
		"I'm stupid",
		"Nobody likes me",
		"I always mess things up",
		"It's not fair",
		"I can't do math",
	}, texts(got))

	assert.Equal(t, models.SourceQuestionnaire, got[0].Source)
	assert.Equal(t, models.SourceQuestionnaire, got[1].Source)
	assert.Equal(t, models.SourceScale, got[2].Source)
	assert.Equal(t, models.SourceParent, got[3].Source)
	assert.Equal(t, models.SourceParent, got[4].Source)

	for _, s := range got {
		assert.Empty(t, s.ID)
		assert.Equal(t, models.StatusUnclassified, s.Classification.Status)
	}
}

func TestExtractStatementsDeterministic(t *testing.T) {
	first := ExtractStatements(sampleSources())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ExtractStatements(sampleSources()))
	}
}

func TestExtractStatementsScaleThreshold(t *testing.T) {
	raw := RawSources{Scale: &ScaleResponse{Items: []ScaleItemResponse{
		{ItemID: "a", Text: "Included at three", Score: score(3)},
		{ItemID: "b", Text: "Excluded at two", Score: score(2)},
	}}}

	got := ExtractStatements(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "Included at three", got[0].Text)
	assert.Equal(t, "a", got[0].ScaleItemID)
	assert.Equal(t, 3, *got[0].ScaleScore)
}

func TestExtractStatementsSkipsMalformedScaleItems(t *testing.T) {
	scale := &models.Scale{Items: []models.ScaleItem{{ID: "def", Text: "From the definition"}}}
	raw := RawSources{Scale: &ScaleResponse{Items: []ScaleItemResponse{
		{ItemID: "none", Text: "No score"},
		{ItemID: "high", Text: "Out of range", Score: score(9)},
		{ItemID: "blank", Score: score(4)},
		{ItemID: "def", Score: score(3)},
	}}}

	got := NewExtractor(scale, 0).ExtractStatements(raw)
	assert.Equal(t, []string{"From the definition"}, texts(got))
}

func TestExtractStatementsParentDedupeIsCaseInsensitive(t *testing.T) {
	raw := RawSources{
		Questionnaire: &QuestionnaireResponse{DifficultThoughts: []string{"I Am Bad"}},
		Parent:        &ParentReport{Text: "i am bad, I AM BAD , new worry, New Worry"},
	}

	got := ExtractStatements(raw)
	assert.Equal(t, []string{"I Am Bad", "new worry"}, texts(got))
}

func TestExtractStatementsEmptyInput(t *testing.T) {
	got := ExtractStatements(RawSources{})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = ExtractStatements(RawSources{
		Questionnaire: &QuestionnaireResponse{},
		Scale:         &ScaleResponse{},
		Parent:        &ParentReport{Text: " , ,"},
	})
	assert.Empty(t, got)
}

func TestExtractorCustomThreshold(t *testing.T) {
	raw := RawSources{Scale: &ScaleResponse{Items: []ScaleItemResponse{
		{ItemID: "a", Text: "Three", Score: score(3)},
		{ItemID: "b", Text: "Four", Score: score(4)},
	}}}
	got := NewExtractor(nil, 4).ExtractStatements(raw)
	assert.Equal(t, []string{"Four"}, texts(got))
}

func TestDecodeSources(t *testing.T) {
	payload := `{
		"questionnaire": {"difficult_thoughts": ["I'm a failure", 42, null]},
		"scale": {"items": [
			{"id": "s1", "text": "Bad things always happen", "score": 4},
			{"id": "s2", "text": "Half point", "score": 3.5},
			{"id": "s3", "text": "As string", "score": "3"},
			"not-an-object"
		]},
		"parent": "worried about school, I'm a FAILURE"
	}`

	raw := DecodeSources([]byte(payload))
	require.NotNil(t, raw.Questionnaire)
	assert.Equal(t, []string{"I'm a failure"}, raw.Questionnaire.DifficultThoughts)
	require.NotNil(t, raw.Scale)
	require.Len(t, raw.Scale.Items, 3)
	assert.Nil(t, raw.Scale.Items[1].Score)
	assert.Equal(t, 3, *raw.Scale.Items[2].Score)

	got := ExtractStatements(raw)
	assert.Equal(t, []string{
		"I'm a failure",
		"Bad things always happen",
		"As string",
		"worried about school",
	}, texts(got))
}

func TestDecodeSourcesSkipsMalformedSources(t *testing.T) {
	raw := DecodeSources([]byte(`{"questionnaire": "oops", "scale": 7, "parent": {"text": "can't sleep"}}`))
	assert.Nil(t, raw.Questionnaire)
	assert.Nil(t, raw.Scale)
	require.NotNil(t, raw.Parent)
	assert.Equal(t, "can't sleep", raw.Parent.Text)

	assert.Equal(t, RawSources{}, DecodeSources([]byte(`{not json`)))
}
