package intake

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// DecodeSources reads a raw JSON payload of the shape
//
//	{"questionnaire": {...}, "scale": {...}, "parent": {...}}
//
// Each source is decoded on its own. A source or entry that cannot be read
// is dropped, the rest of the payload is kept.
func DecodeSources(data []byte) RawSources {
	var raw RawSources
	if !gjson.ValidBytes(data) {
		return raw
	}
	root := gjson.ParseBytes(data)

	raw.Questionnaire = decodeQuestionnaire(root.Get("questionnaire"))
	raw.Scale = decodeScale(root.Get("scale"))
	raw.Parent = decodeParent(root.Get("parent"))
	return raw
}

func decodeQuestionnaire(r gjson.Result) *QuestionnaireResponse {
	if !r.IsObject() {
		return nil
	}
	thoughts := firstOf(r, "difficultThoughts", "difficult_thoughts", "thoughts")
	out := &QuestionnaireResponse{}
	switch {
	case thoughts.IsArray():
		for _, t := range thoughts.Array() {
			if t.Type == gjson.String {
				out.DifficultThoughts = append(out.DifficultThoughts, t.String())
			}
		}
	case thoughts.Type == gjson.String:
		out.DifficultThoughts = []string{thoughts.String()}
	default:
		return nil
	}
	return out
}

func decodeScale(r gjson.Result) *ScaleResponse {
	items := r
	if r.IsObject() {
		items = firstOf(r, "items", "responses")
	}
	if !items.IsArray() {
		return nil
	}

	out := &ScaleResponse{}
	for _, item := range items.Array() {
		if !item.IsObject() {
			continue
		}
		out.Items = append(out.Items, ScaleItemResponse{
			ItemID: firstOf(item, "id", "itemId", "item_id").String(),
			Text:   firstOf(item, "text", "item", "prompt").String(),
			Score:  decodeScore(firstOf(item, "score", "value", "response")),
		})
	}
	return out
}

// decodeScore accepts integral numbers and numeric strings. Anything else
// yields nil, which the extractor treats as a malformed item.
func decodeScore(r gjson.Result) *int {
	switch r.Type {
	case gjson.Number:
		if r.Num != math.Trunc(r.Num) {
			return nil
		}
		v := int(r.Num)
		return &v
	case gjson.String:
		v, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return nil
		}
		return &v
	}
	return nil
}

func decodeParent(r gjson.Result) *ParentReport {
	switch {
	case r.Type == gjson.String:
		return &ParentReport{Text: r.String()}
	case r.IsObject():
		text := firstOf(r, "text", "report", "concerns")
		if text.Type != gjson.String {
			return nil
		}
		return &ParentReport{Text: text.String()}
	}
	return nil
}

func firstOf(r gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}
