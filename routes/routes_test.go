package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vnkhanh/learnpath-backend/config"
	"github.com/vnkhanh/learnpath-backend/models"
	"github.com/vnkhanh/learnpath-backend/routes"
	"github.com/vnkhanh/learnpath-backend/testutil"
	"github.com/vnkhanh/learnpath-backend/utils"
)

const password = "Passw0rd!"

func init() {
	gin.SetMode(gin.TestMode)
}

type client struct {
	t      *testing.T
	router http.Handler
}

func newClient(t *testing.T, db *gorm.DB, apiKey string) *client {
	cfg := &config.Config{AppEnv: "test", JWTSecret: "test-secret", APIKey: apiKey}
	return &client{t: t, router: routes.NewRouter(db, cfg, nil)}
}

// do sends a JSON request and decodes the JSON envelope of the response.
func (c *client) do(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func tokenFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "token" {
			assert.True(t, ck.HttpOnly)
			assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
			return ck.Value
		}
	}
	t.Fatalf("no token cookie in response")
	return ""
}

func (c *client) signUp(name string) string {
	c.t.Helper()
	w, body := c.do(http.MethodPost, "/api/auth/signup", gin.H{
		"username": name,
		"email":    name + "@example.com",
		"password": password,
	}, "")
	require.Equal(c.t, http.StatusCreated, w.Code, body)
	return tokenFrom(c.t, w)
}

func (c *client) login(name string) string {
	c.t.Helper()
	w, body := c.do(http.MethodPost, "/api/auth/login", gin.H{
		"email":    name + "@example.com",
		"password": password,
	}, "")
	require.Equal(c.t, http.StatusOK, w.Code, body)
	return tokenFrom(c.t, w)
}

func (c *client) admin(db *gorm.DB, name string) string {
	c.t.Helper()
	c.signUp(name)
	require.NoError(c.t, db.Model(&models.User{}).Where("username = ?", name).Update("is_admin", true).Error)
	return c.login(name)
}

func object(t *testing.T, body map[string]interface{}, key string) map[string]interface{} {
	t.Helper()
	v, ok := body[key].(map[string]interface{})
	require.True(t, ok, "missing object %q in %v", key, body)
	return v
}

func TestAuthFlow(t *testing.T) {
	db := testutil.OpenDB(t)
	c := newClient(t, db, "")

	token := c.signUp("alice")

	w, body := c.do(http.MethodPost, "/api/auth/signup", gin.H{
		"username": "alice2",
		"email":    "ALICE@example.com",
		"password": password,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exist please login", body["message"])

	w, body = c.do(http.MethodPost, "/api/auth/login", gin.H{"email": "alice@example.com", "password": "Wr0ngpass!"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Incorrect password", body["message"])

	w, body = c.do(http.MethodPost, "/api/auth/login", gin.H{"email": "nobody@example.com", "password": password}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", body["message"])

	w, body = c.do(http.MethodGet, "/api/auth/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, "alice", object(t, body, "user")["username"])

	w, _ = c.do(http.MethodGet, "/api/auth/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminGate(t *testing.T) {
	db := testutil.OpenDB(t)
	c := newClient(t, db, "")

	user := c.signUp("bob")
	quiz := gin.H{"title": "Gated Quiz", "description": "only admins may create this quiz"}

	w, body := c.do(http.MethodPost, "/api/quiz", quiz, user)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, false, body["success"])

	admin := c.admin(db, "root")
	w, body = c.do(http.MethodPost, "/api/quiz", quiz, admin)
	assert.Equal(t, http.StatusCreated, w.Code, body)
	assert.Equal(t, "Quiz created successfully.", body["message"])

	w, body = c.do(http.MethodGet, "/api/users", nil, admin)
	assert.Equal(t, http.StatusOK, w.Code, body)
}

func TestQuizSubmission(t *testing.T) {
	db := testutil.OpenDB(t)
	c := newClient(t, db, "")
	admin := c.admin(db, "quizmaster")
	player := c.signUp("player")

	w, body := c.do(http.MethodPost, "/api/quiz", gin.H{
		"title":       "World Facts",
		"description": "A short quiz about capitals and numbers",
		"rank":        "Beginner",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, body)
	quizID := object(t, body, "quiz")["id"].(string)

	questions := []gin.H{
		{"question": "What is the capital of France?", "answer": "Paris", "options": []string{"Paris", "Rome", "Berlin", "Madrid"}},
		{"question": "What is six times seven?", "answer": "42", "options": []string{"40", "41", "42", "43"}},
	}
	ids := make([]string, 0, len(questions))
	for i, q := range questions {
		w, body = c.do(http.MethodPost, "/api/quiz/"+quizID+"/questions", q, admin)
		require.Equal(t, http.StatusCreated, w.Code, body)
		assert.Equal(t, float64(i+1), body["questionNumber"])
		ids = append(ids, object(t, body, "question")["id"].(string))
	}

	w, body = c.do(http.MethodGet, "/api/quiz/"+quizID+"/questions/2", nil, player)
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.NotContains(t, object(t, body, "question"), "answer")

	w, body = c.do(http.MethodPost, "/api/quiz/"+quizID+"/questions/submit", gin.H{
		"answers": []gin.H{
			{"questionId": ids[0], "answer": "Paris"},
			{"questionId": ids[1], "answer": "41"},
		},
	}, player)
	require.Equal(t, http.StatusOK, w.Code, body)
	progress := object(t, body, "progress")
	assert.Equal(t, float64(2), progress["totalQuestions"])
	assert.Equal(t, float64(1), progress["correctAnswers"])
	assert.Equal(t, float64(1), progress["wrongAnswers"])
	assert.Equal(t, float64(50), progress["percentage"])
	assert.Equal(t, "D", progress["grade"])
	assert.Equal(t, "Passed", progress["status"])

	w, body = c.do(http.MethodPost, "/api/quiz/"+quizID+"/questions/submit", gin.H{"answers": []gin.H{}}, player)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Answers are required", body["message"])

	w, body = c.do(http.MethodGet, "/api/quiz/"+quizID+"/questions/restart", nil, player)
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, float64(1), body["removed"])

	w, body = c.do(http.MethodDelete, "/api/quiz/"+quizID, nil, admin)
	require.Equal(t, http.StatusOK, w.Code, body)
	w, _ = c.do(http.MethodGet, "/api/quiz/"+quizID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSectionToggle(t *testing.T) {
	db := testutil.OpenDB(t)
	c := newClient(t, db, "")
	admin := c.admin(db, "mapper")
	learner := c.signUp("learner")

	w, body := c.do(http.MethodPost, "/api/roadmap", gin.H{
		"title":       "Backend Path",
		"description": "Everything a backend developer needs",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, body)
	roadmapID := object(t, body, "roadmap")["id"].(string)

	w, body = c.do(http.MethodPost, "/api/roadmap/"+roadmapID+"/sections", gin.H{
		"title":       "Databases",
		"description": "Relational storage basics",
		"difficulty":  "beginner",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, body)
	section := object(t, body, "section")
	assert.Equal(t, "Beginner", section["difficulty"])
	togglePath := "/api/roadmap/" + roadmapID + "/sections/" + section["id"].(string) + "/complete"

	w, body = c.do(http.MethodPost, togglePath, nil, learner)
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, "Section marked as complete", body["message"])
	assert.Equal(t, float64(1), object(t, body, "progress")["completed"])
	assert.Equal(t, float64(1), object(t, body, "progress")["total"])

	w, body = c.do(http.MethodGet, "/api/roadmap/"+roadmapID+"/progress", nil, learner)
	require.Equal(t, http.StatusOK, w.Code, body)

	w, body = c.do(http.MethodPost, togglePath, nil, learner)
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, "Section marked as incomplete", body["message"])
	assert.Equal(t, float64(0), object(t, body, "progress")["completed"])
}

func TestRequestGuards(t *testing.T) {
	db := testutil.OpenDB(t)

	t.Run("unknown route", func(t *testing.T) {
		c := newClient(t, db, "")
		w, body := c.do(http.MethodGet, "/api/nope", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Route GET /api/nope not found", body["message"])
	})

	t.Run("malformed id", func(t *testing.T) {
		c := newClient(t, db, "")
		w, body := c.do(http.MethodGet, "/api/quiz/not-a-uuid", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid Id", body["message"])
	})

	t.Run("api key", func(t *testing.T) {
		c := newClient(t, db, "k3y")
		w, body := c.do(http.MethodGet, "/api/roadmap", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized: no api key provided", body["message"])

		w, _ = c.do(http.MethodGet, "/api/roadmap?key=k3y", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		w, _ = c.do(http.MethodGet, "/api/quiz", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code, "quiz routes are not behind the key")
	})

	t.Run("health", func(t *testing.T) {
		c := newClient(t, db, "")
		w, _ := c.do(http.MethodGet, "/api/health", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// useImageStore points the profile image store at a fake Supabase that
// records every DELETE it receives.
func useImageStore(t *testing.T) (*utils.SupabaseStore, *[]string) {
	t.Helper()
	var mu sync.Mutex
	deleted := []string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			mu.Lock()
			deleted = append(deleted, r.URL.Path)
			mu.Unlock()
		}
		w.WriteHeader(http.StatusOK)
	}))
	store, err := utils.NewSupabaseStore(srv.URL, "service-role-key", "uploads")
	require.NoError(t, err)

	previous := utils.Images
	utils.Images = store
	t.Cleanup(func() {
		utils.Images = previous
		srv.Close()
	})
	return store, &deleted
}

func TestProfileDeleteOnlyRemovesOwnImage(t *testing.T) {
	db := testutil.OpenDB(t)
	c := newClient(t, db, "")
	store, deleted := useImageStore(t)

	t.Run("foreign url", func(t *testing.T) {
		token := c.signUp("mallory")
		foreign := []string{
			"https://anything.example/storage/v1/object/public/private-bucket/invoices/victim.pdf",
			store.PublicURL("profiles/someone-else.png"),
		}
		for _, imageURL := range foreign {
			w, body := c.do(http.MethodPut, "/api/users/profile", gin.H{"imageURL": imageURL}, token)
			require.Equal(t, http.StatusOK, w.Code, body)
		}

		w, body := c.do(http.MethodDelete, "/api/users/profile", nil, token)
		require.Equal(t, http.StatusOK, w.Code, body)
		assert.Empty(t, *deleted, "no storage object outside the user's own prefix is deleted")
	})

	t.Run("own image", func(t *testing.T) {
		token := c.signUp("owner")
		w, body := c.do(http.MethodGet, "/api/users/profile", nil, token)
		require.Equal(t, http.StatusOK, w.Code, body)
		userID := object(t, body, "user")["id"].(string)

		own := store.PublicURL("profiles/" + userID + "-avatar.png")
		w, body = c.do(http.MethodPut, "/api/users/profile", gin.H{"imageURL": own}, token)
		require.Equal(t, http.StatusOK, w.Code, body)

		w, body = c.do(http.MethodDelete, "/api/users/profile", nil, token)
		require.Equal(t, http.StatusOK, w.Code, body)
		assert.Equal(t, []string{"/storage/v1/object/uploads/profiles/" + userID + "-avatar.png"}, *deleted)
	})
}

// interleave runs write once, on the same connection, just before the next
// create or update of table. It stands in for a concurrent request that
// commits between a handler's uniqueness check and its own write.
func interleave(t *testing.T, db *gorm.DB, op, table string, write func(tx *gorm.DB) error) {
	t.Helper()
	fired := false
	hook := func(tx *gorm.DB) {
		if fired || tx.Statement.Table != table {
			return
		}
		fired = true
		require.NoError(t, write(tx.Session(&gorm.Session{NewDB: true})))
	}
	name := "test:interleave:" + op
	switch op {
	case "create":
		require.NoError(t, db.Callback().Create().Before("gorm:create").Register(name, hook))
	case "update":
		require.NoError(t, db.Callback().Update().Before("gorm:update").Register(name, hook))
	default:
		t.Fatalf("unknown op %q", op)
	}
}

func TestUniqueConflictsAreBadRequests(t *testing.T) {
	t.Run("signup", func(t *testing.T) {
		db := testutil.OpenDB(t)
		c := newClient(t, db, "")
		interleave(t, db, "create", "users", func(tx *gorm.DB) error {
			return tx.Create(&models.User{Username: "first", Email: "racer@example.com", Password: "hash"}).Error
		})

		w, body := c.do(http.MethodPost, "/api/auth/signup", gin.H{
			"username": "racer",
			"email":    "racer@example.com",
			"password": password,
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "User already exist please login", body["message"])
	})

	t.Run("profile update", func(t *testing.T) {
		db := testutil.OpenDB(t)
		c := newClient(t, db, "")
		token := c.signUp("renamer")
		interleave(t, db, "update", "users", func(tx *gorm.DB) error {
			return tx.Create(&models.User{Username: "wanted", Email: "wanted@example.com", Password: "hash"}).Error
		})

		w, body := c.do(http.MethodPut, "/api/users/profile", gin.H{"username": "wanted"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Username or email already in use", body["message"])
	})
}
