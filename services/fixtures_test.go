package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vnkhanh/learnpath-backend/models"
)

func seedUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		Username: name,
		Email:    name + "@example.com",
		Password: "hash",
		ImageURL: models.DefaultImageURL,
		Bio:      models.DefaultBio,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// seedQuiz creates a quiz with one question per answer, in order.
func seedQuiz(t *testing.T, db *gorm.DB, answers ...string) (models.Quiz, []models.Question) {
	t.Helper()
	quiz := models.Quiz{
		Title:       "Quiz " + uuid.NewString()[:8],
		Description: "a quiz used by the tests",
		Rank:        models.RankBeginner,
	}
	require.NoError(t, db.Create(&quiz).Error)

	questions := make([]models.Question, 0, len(answers))
	for i, a := range answers {
		q := models.Question{
			QuizID:   quiz.ID,
			Question: fmt.Sprintf("Question number %d?", i+1),
			Answer:   a,
			Options:  datatypes.JSONSlice[string]{a, "x1", "x2", "x3"},
			Position: i,
		}
		require.NoError(t, db.Create(&q).Error)
		questions = append(questions, q)
	}
	return quiz, questions
}

// seedRoadmap creates a roadmap with the given number of sections, each
// holding resourcesPerSection resources.
func seedRoadmap(t *testing.T, db *gorm.DB, sections, resourcesPerSection int) (models.Roadmap, []models.Section) {
	t.Helper()
	roadmap := models.Roadmap{
		Title:       "Roadmap " + uuid.NewString()[:8],
		Description: "a roadmap used by the tests",
	}
	require.NoError(t, db.Create(&roadmap).Error)

	out := make([]models.Section, 0, sections)
	for i := 0; i < sections; i++ {
		s := models.Section{
			RoadmapID:   roadmap.ID,
			Title:       fmt.Sprintf("Section %d", i+1),
			Description: "a section used by the tests",
			Difficulty:  models.DifficultyBeginner,
			Position:    i,
		}
		require.NoError(t, db.Create(&s).Error)
		for j := 0; j < resourcesPerSection; j++ {
			r := models.Resource{
				SectionID: s.ID,
				URL:       "https://go.dev/doc",
				Title:     fmt.Sprintf("Resource %d", j+1),
				Type:      models.ResourceArticle,
				Position:  j,
			}
			require.NoError(t, db.Create(&r).Error)
		}
		out = append(out, s)
	}
	return roadmap, out
}

func countProgress(t *testing.T, db *gorm.DB, userID, quizID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.QuizProgress{}).Where("user_id = ? AND quiz_id = ?", userID, quizID).Count(&n).Error)
	return n
}

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
