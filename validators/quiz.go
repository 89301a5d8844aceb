package validators

import (
	"strings"

	"github.com/vnkhanh/learnpath-backend/models"
)

type QuizInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Rank        *string `json:"rank"`
}

// Validate checks a quiz payload. With requireAll set (create) title and
// description must be present; otherwise only the given fields are checked.
func (in QuizInput) Validate(requireAll bool) Result {
	if requireAll && (!present(in.Title) || !present(in.Description)) {
		return Fail("title", "Title and description are required.")
	}
	if in.Title != nil {
		if n := length(*in.Title); n < 3 || n > 100 {
			return Fail("title", "Title must be between 3 and 100 characters.")
		}
	}
	if in.Description != nil {
		if words := len(strings.Fields(*in.Description)); words < 5 || words > 50 {
			return Fail("description", "Description must be between 5 and 50 words.")
		}
	}
	if in.Rank != nil && !validRank(*in.Rank) {
		return Fail("rank", "Rank must be one of: Beginner, Intermediate, Advanced, Expert, Master")
	}
	return OK()
}

func validRank(rank string) bool {
	for _, r := range models.QuizRanks {
		if string(r) == strings.TrimSpace(rank) {
			return true
		}
	}
	return false
}

type QuestionInput struct {
	Question *string  `json:"question"`
	Answer   *string  `json:"answer"`
	Options  []string `json:"options"`
}

func (in QuestionInput) Validate(requireAll bool) Result {
	if requireAll && (in.Question == nil || in.Answer == nil || in.Options == nil) {
		return Fail("question", "Question, answer and options are required.")
	}
	if in.Question != nil && length(*in.Question) < 5 {
		return Fail("question", "Question must be a valid text with at least 5 characters.")
	}
	if in.Answer != nil && strings.TrimSpace(*in.Answer) == "" {
		return Fail("answer", "Answer is required and must be a valid string.")
	}
	if in.Options != nil {
		if len(in.Options) != 4 {
			return Fail("options", "Each question must have 4 options with the answer")
		}
		seen := make(map[string]struct{}, len(in.Options))
		for _, o := range in.Options {
			key := strings.ToLower(strings.TrimSpace(o))
			if _, dup := seen[key]; dup {
				return Fail("options", "Options must be unique.")
			}
			seen[key] = struct{}{}
		}
	}
	if in.Answer != nil && in.Options != nil && !contains(in.Options, *in.Answer) {
		return Fail("answer", "Answer must be one of the options.")
	}
	return OK()
}

func contains(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
