package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/learnpath-backend/models"
	"github.com/vnkhanh/learnpath-backend/testutil"
)

func TestToggleSectionIsInvolutive(t *testing.T) {
	db := testutil.OpenDB(t)
	user := seedUser(t, db, "erin")
	roadmap, sections := seedRoadmap(t, db, 3, 0)

	first, err := ToggleSection(db, user.ID, sections[0].ID)
	require.NoError(t, err)
	assert.True(t, first.IsCompleted)
	assert.Equal(t, 1, first.Completed)
	assert.Equal(t, 3, first.Total)
	assert.Equal(t, roadmap.ID, first.RoadmapID)

	second, err := ToggleSection(db, user.ID, sections[0].ID)
	require.NoError(t, err)
	assert.False(t, second.IsCompleted)
	assert.Equal(t, 0, second.Completed)
	assert.Equal(t, int64(0), count(t, db, &models.CompletedSection{}, "user_id = ?", user.ID))

	// the progress entry survives with its snapshot
	assert.Equal(t, int64(1), count(t, db, &models.RoadmapProgress{}, "user_id = ? AND roadmap_id = ?", user.ID, roadmap.ID))
}

func TestToggleSectionKeepsSnapshot(t *testing.T) {
	db := testutil.OpenDB(t)
	user := seedUser(t, db, "frank")
	roadmap, sections := seedRoadmap(t, db, 2, 0)

	_, err := ToggleSection(db, user.ID, sections[0].ID)
	require.NoError(t, err)

	extra := models.Section{RoadmapID: roadmap.ID, Title: "Extra", Description: "added later on", Difficulty: models.DifficultyExpert, Position: 2}
	require.NoError(t, db.Create(&extra).Error)

	res, err := ToggleSection(db, user.ID, sections[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Completed)
	assert.Equal(t, 2, res.Total, "section count is the snapshot from the first toggle")

	view, err := RoadmapProgress(db, user.ID, roadmap.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Total, "the read path uses the live section count")
	assert.Equal(t, 2, view.Completed)
	assert.Equal(t, 67, view.ProgressPercentage)
}

func TestToggleSectionIsPerUser(t *testing.T) {
	db := testutil.OpenDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	_, sections := seedRoadmap(t, db, 1, 0)

	_, err := ToggleSection(db, alice.ID, sections[0].ID)
	require.NoError(t, err)
	res, err := ToggleSection(db, bob.ID, sections[0].ID)
	require.NoError(t, err)
	assert.True(t, res.IsCompleted)
	assert.Equal(t, 1, res.Completed)
}

func TestToggleSectionErrors(t *testing.T) {
	db := testutil.OpenDB(t)
	user := seedUser(t, db, "gina")

	_, err := ToggleSection(db, user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrSectionNotFound)

	orphan := models.Section{RoadmapID: uuid.New(), Title: "Orphan", Description: "no roadmap here", Difficulty: models.DifficultyBeginner}
	require.NoError(t, db.Create(&orphan).Error)
	_, err = ToggleSection(db, user.ID, orphan.ID)
	assert.ErrorIs(t, err, ErrRoadmapNotFound)
}

func TestRoadmapProgress(t *testing.T) {
	db := testutil.OpenDB(t)
	user := seedUser(t, db, "hank")

	t.Run("empty roadmap", func(t *testing.T) {
		roadmap, _ := seedRoadmap(t, db, 0, 0)
		view, err := RoadmapProgress(db, user.ID, roadmap.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, view.Total)
		assert.Equal(t, 0, view.ProgressPercentage)
		assert.Empty(t, view.Sections)
	})

	t.Run("partial completion", func(t *testing.T) {
		roadmap, sections := seedRoadmap(t, db, 3, 1)
		_, err := ToggleSection(db, user.ID, sections[1].ID)
		require.NoError(t, err)

		view, err := RoadmapProgress(db, user.ID, roadmap.ID)
		require.NoError(t, err)
		assert.Equal(t, roadmap.Title, view.Roadmap.Title)
		require.Len(t, view.Sections, 3)
		assert.False(t, view.Sections[0].Completed)
		assert.True(t, view.Sections[1].Completed)
		assert.False(t, view.Sections[2].Completed)
		assert.Equal(t, 1, view.Completed)
		assert.Equal(t, 33, view.ProgressPercentage)
	})

	t.Run("missing roadmap", func(t *testing.T) {
		_, err := RoadmapProgress(db, user.ID, uuid.New())
		assert.ErrorIs(t, err, ErrRoadmapNotFound)
	})
}

func TestCompletionPercentage(t *testing.T) {
	assert.Equal(t, 0, CompletionPercentage(0, 0))
	assert.Equal(t, 50, CompletionPercentage(1, 2))
	assert.Equal(t, 67, CompletionPercentage(2, 3))
	assert.Equal(t, 100, CompletionPercentage(4, 4))
}

func TestUserProgress(t *testing.T) {
	db := testutil.OpenDB(t)
	user := seedUser(t, db, "iris")
	quiz, questions := seedQuiz(t, db, "Paris")
	roadmap, sections := seedRoadmap(t, db, 2, 0)

	_, err := SubmitQuiz(db, user.ID, quiz.ID, []AnswerSubmission{{QuestionID: questions[0].ID, Answer: "Paris"}})
	require.NoError(t, err)
	_, err = ToggleSection(db, user.ID, sections[1].ID)
	require.NoError(t, err)

	data, err := UserProgress(db, user.ID)
	require.NoError(t, err)
	require.Len(t, data.Quiz, 1)
	assert.Equal(t, quiz.ID, data.Quiz[0].QuizID)
	require.Len(t, data.Roadmap, 1)
	assert.Equal(t, roadmap.ID, data.Roadmap[0].RoadmapID)
	assert.Equal(t, []uuid.UUID{sections[1].ID}, data.Roadmap[0].CompletedSections)
	assert.Equal(t, 2, data.Roadmap[0].NumberOfAllSections)
}
