// Package classifier labels the verbal relation a statement expresses and
// produces the validating and challenging probe scripts for it. A fixed rule
// table is always available; an external AI collaborator can refine it.
package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"fhfa-go/server/internal/models"
)

// Rule is one row of the fallback dispatch table. Templates take the quoted
// statement as %[1]s and the context clause (possibly empty) as %[2]s.
type Rule struct {
	Name                string
	Pattern             *regexp.Regexp
	RelationType        string
	RelationExplanation string
	ValidatingTemplate  string
	ChallengingTemplate string
}

// Matches reports whether the rule applies to text. A nil pattern matches
// everything.
func (r Rule) Matches(text string) bool {
	return r.Pattern == nil || r.Pattern.MatchString(text)
}

// Rules is evaluated in order; the first match wins. The last row has no
// pattern and always matches.
var Rules = []Rule{
	{
		Name:                "self-as-content",
		Pattern:             regexp.MustCompile(`(?i)\b(i am|i'm|i’m|im|i will never be|i'll never be)\b`),
		RelationType:        "Self-as-content (deictic I-frame)",
		RelationExplanation: "The statement places the self in a frame of coordination with an evaluation, so the label is experienced as who the person is rather than as a thought about them.",
		ValidatingTemplate:  "It makes sense that you feel %[1]s%[2]s. That thought shows up for a lot of people when things get hard.",
		ChallengingTemplate: "Notice that your mind is telling you %[1]s%[2]s. Can you say \"I'm having the thought that...\" before it and see if anything shifts?",
	},
	{
		Name:                "temporal-absolute",
		Pattern:             regexp.MustCompile(`(?i)\b(always|never|forever|every time|everyone|everybody|nobody|no one|nothing ever|anymore)\b`),
		RelationType:        "Temporal (absolute)",
		RelationExplanation: "Absolute time or quantity words frame the experience as permanent and universal, collapsing past, present and future into one relation.",
		ValidatingTemplate:  "When it feels like %[1]s%[2]s, it really can seem like it will be that way forever.",
		ChallengingTemplate: "Your mind says %[1]s%[2]s. Can you think of one time, even a small one, when it went a little differently?",
	},
	{
		Name:                "conditional-rule",
		Pattern:             regexp.MustCompile(`(?i)\b(if|unless|should|shouldn't|must|have to|has to|got to|need to|supposed to)\b`),
		RelationType:        "Conditional (if-then rule)",
		RelationExplanation: "The statement states a rule linking an action or condition to a required consequence, so behavior is governed by the rule rather than by what actually happens.",
		ValidatingTemplate:  "It sounds like the rule %[1]s%[2]s has been really important to you.",
		ChallengingTemplate: "What would happen if you noticed the rule %[1]s%[2]s and chose what to do anyway?",
	},
	{
		Name:                "causal",
		Pattern:             regexp.MustCompile(`(?i)\b(because|since|so that|therefore|makes me|made me|caused|causes)\b`),
		RelationType:        "Causal",
		RelationExplanation: "The statement relates two events as cause and effect, so the feeling or outcome is treated as forced by the cause.",
		ValidatingTemplate:  "I can see why %[1]s%[2]s feels true. When one thing follows another it's natural to connect them.",
		ChallengingTemplate: "Your mind links these together: %[1]s%[2]s. Is it possible for one to happen without the other?",
	},
	{
		Name:                "coordination",
		RelationType:        "Coordination",
		RelationExplanation: "The statement treats the thought and the situation as the same thing, a frame of sameness between words and events.",
		ValidatingTemplate:  "Thank you for sharing %[1]s%[2]s. It makes sense that this thought feels real and important.",
		ChallengingTemplate: "Let's hold %[1]s%[2]s lightly for a moment. What do you notice if you treat it as words your mind is saying?",
	},
}

// Match returns the first rule that applies to text.
func Match(text string) Rule {
	for _, r := range Rules {
		if r.Matches(text) {
			return r
		}
	}
	return Rules[len(Rules)-1]
}

// Fallback builds the rule-based classification for a statement.
func Fallback(text, context string) models.Classification {
	rule := Match(text)
	quoted := quote(text)
	clause := contextClause(context)
	return models.Classification{
		RelationType:        rule.RelationType,
		RelationExplanation: rule.RelationExplanation,
		ValidatingScripts:   []string{fmt.Sprintf(rule.ValidatingTemplate, quoted, clause)},
		ChallengingScripts:  []string{fmt.Sprintf(rule.ChallengingTemplate, quoted, clause)},
		Status:              models.StatusFallback,
	}
}

func quote(text string) string {
	return `"` + strings.TrimRight(strings.TrimSpace(text), ".!?,; ") + `"`
}

var leadingPrepositions = []string{"when ", "while ", "at ", "in ", "during ", "after ", "before ", "around ", "with ", "on "}

func contextClause(context string) string {
	context = strings.TrimRight(strings.TrimSpace(context), ".!?,; ")
	if context == "" {
		return ""
	}
	lower := strings.ToLower(context)
	for _, p := range leadingPrepositions {
		if strings.HasPrefix(lower, p) {
			return " " + context
		}
	}
	return " when " + context
}
