package validators

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vnkhanh/learnpath-backend/models"
)

var (
	numericOnly     = regexp.MustCompile(`^\d+$`)
	resourceURLRule = regexp.MustCompile(`(?i)^(https?://)[\w\-]+(\.[\w\-]+)+[/#?]?.*$`)
)

func RoadmapData(title, description string) Result {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return Fail("title", "Title and description are required.")
	}
	if n := length(title); n > 100 {
		return Fail("title", "Title must be less than 100 characters.")
	} else if n < 3 {
		return Fail("title", "Title must be more than 3 characters.")
	}
	if n := length(description); n < 10 {
		return Fail("description", "Description must be at least 10 characters long.")
	} else if n > 1000 {
		return Fail("description", "Description cannot exceed 1000 characters.")
	}
	return OK()
}

// NormalizeDifficulty turns "expert" or "EXPERT" into "Expert".
func NormalizeDifficulty(difficulty string) string {
	d := strings.TrimSpace(difficulty)
	if d == "" {
		return d
	}
	return strings.ToUpper(d[:1]) + strings.ToLower(d[1:])
}

func SectionData(title, description, difficulty string) Result {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		return Fail("title", "title is required.")
	}
	if n := length(title); n < 3 {
		return Fail("title", "Title must be at least 3 characters long.")
	} else if n > 100 {
		return Fail("title", "Title cannot exceed 100 characters.")
	}
	if numericOnly.MatchString(title) {
		return Fail("title", "Title cannot contain numbers only.")
	}
	if description == "" {
		return Fail("description", "description is required.")
	}
	if n := length(description); n < 10 {
		return Fail("description", "Description must be at least 10 characters long.")
	} else if n > 1000 {
		return Fail("description", "Description cannot exceed 1000 characters.")
	}
	if strings.TrimSpace(difficulty) == "" {
		return Fail("difficulty", "difficulty is required.")
	}
	normalized := models.Difficulty(NormalizeDifficulty(difficulty))
	for _, d := range models.Difficulties {
		if d == normalized {
			return OK()
		}
	}
	return Fail("difficulty", fmt.Sprintf("Difficulty must be one of: %s", joinDifficulties()))
}

func joinDifficulties() string {
	names := make([]string, len(models.Difficulties))
	for i, d := range models.Difficulties {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

func ResourceData(url, title, resourceType string) Result {
	url = strings.TrimSpace(url)
	title = strings.TrimSpace(title)
	resourceType = strings.TrimSpace(resourceType)

	if url == "" {
		return Fail("url", "URL is required")
	}
	if title == "" {
		return Fail("title", "Title is required")
	}
	if resourceType == "" {
		return Fail("type", "Type is required")
	}

	valid := false
	for _, t := range models.ResourceTypes {
		if string(t) == resourceType {
			valid = true
			break
		}
	}
	if !valid {
		return Fail("type", "Type must be one of: video, article, course")
	}
	if !resourceURLRule.MatchString(url) {
		return Fail("url", "Invalid URL format")
	}
	if n := length(title); n < 3 {
		return Fail("title", "Title must be at least 3 characters long")
	} else if n > 150 {
		return Fail("title", "Title cannot exceed 150 characters")
	}
	if models.ResourceType(resourceType) == models.ResourceVideo &&
		!strings.Contains(url, "youtube.com") && !strings.Contains(url, "youtu.be") {
		return Fail("url", "Video resources must be valid YouTube links")
	}
	return OK()
}
