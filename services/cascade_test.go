package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/learnpath-backend/models"
	"github.com/vnkhanh/learnpath-backend/testutil"
)

func TestDeleteRoadmapCascades(t *testing.T) {
	db := testutil.OpenDB(t)
	user := seedUser(t, db, "jack")
	roadmap, sections := seedRoadmap(t, db, 2, 1)
	keep, keepSections := seedRoadmap(t, db, 1, 1)

	_, err := ToggleSection(db, user.ID, sections[0].ID)
	require.NoError(t, err)
	_, err = ToggleSection(db, user.ID, keepSections[0].ID)
	require.NoError(t, err)

	require.NoError(t, DeleteRoadmap(db, roadmap.ID))

	ids := []uuid.UUID{sections[0].ID, sections[1].ID}
	assert.Equal(t, int64(0), count(t, db, &models.Section{}, "roadmap_id = ?", roadmap.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Resource{}, "section_id IN ?", ids))
	assert.Equal(t, int64(0), count(t, db, &models.Roadmap{}, "id = ?", roadmap.ID))
	assert.Equal(t, int64(0), count(t, db, &models.RoadmapProgress{}, "roadmap_id = ?", roadmap.ID))
	assert.Equal(t, int64(0), count(t, db, &models.CompletedSection{}, "roadmap_id = ?", roadmap.ID))

	assert.Equal(t, int64(1), count(t, db, &models.Section{}, "roadmap_id = ?", keep.ID))
	assert.Equal(t, int64(1), count(t, db, &models.Resource{}, "section_id = ?", keepSections[0].ID))
	assert.Equal(t, int64(1), count(t, db, &models.RoadmapProgress{}, "roadmap_id = ?", keep.ID))

	assert.ErrorIs(t, DeleteRoadmap(db, roadmap.ID), ErrRoadmapNotFound)
}

func TestDeleteSectionScrubsCompletedSets(t *testing.T) {
	db := testutil.OpenDB(t)
	user := seedUser(t, db, "kate")
	roadmap, sections := seedRoadmap(t, db, 2, 2)

	_, err := ToggleSection(db, user.ID, sections[0].ID)
	require.NoError(t, err)
	_, err = ToggleSection(db, user.ID, sections[1].ID)
	require.NoError(t, err)

	assert.ErrorIs(t, DeleteSection(db, uuid.New(), sections[0].ID), ErrSectionNotFound)
	require.NoError(t, DeleteSection(db, roadmap.ID, sections[0].ID))

	assert.Equal(t, int64(0), count(t, db, &models.Resource{}, "section_id = ?", sections[0].ID))
	assert.Equal(t, int64(2), count(t, db, &models.Resource{}, "section_id = ?", sections[1].ID))
	assert.Equal(t, int64(0), count(t, db, &models.CompletedSection{}, "section_id = ?", sections[0].ID))

	view, err := RoadmapProgress(db, user.ID, roadmap.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Total)
	assert.Equal(t, 1, view.Completed)
	assert.Equal(t, 100, view.ProgressPercentage)
}

func TestDeleteQuizCascades(t *testing.T) {
	db := testutil.OpenDB(t)
	user := seedUser(t, db, "leo")
	quiz, questions := seedQuiz(t, db, "Paris", "42")

	_, err := SubmitQuiz(db, user.ID, quiz.ID, []AnswerSubmission{{QuestionID: questions[0].ID, Answer: "Paris"}})
	require.NoError(t, err)

	require.NoError(t, DeleteQuiz(db, quiz.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Question{}, "quiz_id = ?", quiz.ID))
	assert.Equal(t, int64(0), countProgress(t, db, user.ID, quiz.ID))
	assert.ErrorIs(t, DeleteQuiz(db, quiz.ID), ErrQuizNotFound)
}

func TestQuestionNumbering(t *testing.T) {
	db := testutil.OpenDB(t)
	quiz, questions := seedQuiz(t, db, "a", "b", "c")

	q, err := QuestionByNumber(db, quiz.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, questions[1].ID, q.ID)

	_, err = QuestionByNumber(db, quiz.ID, 4)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	_, err = QuestionByNumber(db, quiz.ID, 0)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	_, err = QuestionByNumber(db, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	next, err := NextPosition(db, &models.Question{}, "quiz_id", quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	removed, err := DeleteQuestion(db, quiz.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, questions[0].ID, removed.ID)

	q, err = QuestionByNumber(db, quiz.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, questions[1].ID, q.ID, "later questions move up")

	empty, _ := seedQuiz(t, db)
	next, err = NextPosition(db, &models.Question{}, "quiz_id", empty.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, next)
}

func TestDeleteUser(t *testing.T) {
	db := testutil.OpenDB(t)
	user := seedUser(t, db, "mia")
	quiz, questions := seedQuiz(t, db, "Paris")
	_, sections := seedRoadmap(t, db, 1, 0)

	_, err := SubmitQuiz(db, user.ID, quiz.ID, []AnswerSubmission{{QuestionID: questions[0].ID, Answer: "Paris"}})
	require.NoError(t, err)
	_, err = ToggleSection(db, user.ID, sections[0].ID)
	require.NoError(t, err)

	require.NoError(t, DeleteUser(db, user.ID))
	assert.Equal(t, int64(0), count(t, db, &models.User{}, "id = ?", user.ID))
	assert.Equal(t, int64(0), count(t, db, &models.QuizProgress{}, "user_id = ?", user.ID))
	assert.Equal(t, int64(0), count(t, db, &models.RoadmapProgress{}, "user_id = ?", user.ID))
	assert.Equal(t, int64(0), count(t, db, &models.CompletedSection{}, "user_id = ?", user.ID))

	assert.ErrorIs(t, DeleteUser(db, user.ID), ErrUserNotFound)
}
