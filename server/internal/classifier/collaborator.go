package classifier

import (
	"context"
	"errors"
	"strings"

	"fhfa-go/server/internal/models"

	"github.com/tidwall/gjson"
)

// ErrMalformedResponse is returned when a collaborator reply carries no
// usable scripts.
var ErrMalformedResponse = errors.New("malformed collaborator response")

// Request is what the AI collaborator receives for one statement.
type Request struct {
	Text        string `json:"text"`
	Context     string `json:"context"`
	SubjectName string `json:"subjectName"`
}

// Result is the canonical collaborator output. Every response shape is
// normalized into this record before it reaches the rest of the engine.
type Result struct {
	ValidatingScripts   []string `json:"validatingScripts"`
	ChallengingScripts  []string `json:"challengingScripts"`
	RelationType        string   `json:"relationType"`
	RelationExplanation string   `json:"relationExplanation"`
	SuggestedTitle      string   `json:"suggestedTitle"`
}

// Collaborator generates scripts for a statement. Implementations own their
// transport and timeout.
type Collaborator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// Field-name variants seen in collaborator replies, most preferred first.
var (
	validatingKeys  = []string{"validatingScripts", "validating_scripts", "validating", "validatingScript", "validating_script", "validationScripts", "scripts.validating"}
	challengingKeys = []string{"challengingScripts", "challenging_scripts", "challenging", "challengingScript", "challenging_script", "defusionScripts", "defusion_scripts", "scripts.challenging"}
	relationKeys    = []string{"relationType", "relation_type", "rftType", "rft_type", "frameType", "relation"}
	explanationKeys = []string{"relationExplanation", "relation_explanation", "rftExplanation", "explanation"}
	titleKeys       = []string{"suggestedTitle", "suggested_title", "shortTitle", "short_title", "title"}
)

// Normalize parses a raw collaborator reply into a Result. Code fences
// around the JSON are tolerated. A reply without any script is malformed.
func Normalize(raw []byte) (Result, error) {
	body := stripFences(string(raw))
	if !gjson.Valid(body) {
		return Result{}, ErrMalformedResponse
	}
	root := gjson.Parse(body)
	if !root.IsObject() {
		return Result{}, ErrMalformedResponse
	}

	res := Result{
		ValidatingScripts:   stringList(firstOf(root, validatingKeys...)),
		ChallengingScripts:  stringList(firstOf(root, challengingKeys...)),
		RelationType:        strings.TrimSpace(firstOf(root, relationKeys...).String()),
		RelationExplanation: strings.TrimSpace(firstOf(root, explanationKeys...).String()),
		SuggestedTitle:      strings.TrimSpace(firstOf(root, titleKeys...).String()),
	}
	if len(res.ValidatingScripts) == 0 && len(res.ChallengingScripts) == 0 {
		return Result{}, ErrMalformedResponse
	}
	return res, nil
}

// stringList accepts a string, a list of strings, or a list of objects with
// a text or script field.
func stringList(r gjson.Result) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch {
	case r.Type == gjson.String:
		add(r.Str)
	case r.IsArray():
		for _, item := range r.Array() {
			switch {
			case item.Type == gjson.String:
				add(item.Str)
			case item.IsObject():
				add(firstOf(item, "text", "script", "content").String())
			}
		}
	}
	return out
}

func firstOf(r gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

// Merge folds a collaborator result into a classification. Non-empty fields
// replace the rule-based ones.
func Merge(c models.Classification, res Result) models.Classification {
	if len(res.ValidatingScripts) > 0 {
		c.ValidatingScripts = append([]string(nil), res.ValidatingScripts...)
	}
	if len(res.ChallengingScripts) > 0 {
		c.ChallengingScripts = append([]string(nil), res.ChallengingScripts...)
	}
	if res.RelationType != "" {
		c.RelationType = res.RelationType
	}
	if res.RelationExplanation != "" {
		c.RelationExplanation = res.RelationExplanation
	}
	c.Status = models.StatusComplete
	c.UsedDefault = false
	return c
}

// MarkFailed keeps the rule-based output and flags that it was used.
func MarkFailed(c models.Classification) models.Classification {
	c.Status = models.StatusFallback
	c.UsedDefault = true
	return c
}
