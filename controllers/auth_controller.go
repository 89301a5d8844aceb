package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/auth/credentials/idtoken"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vnkhanh/learnpath-backend/models"
	"github.com/vnkhanh/learnpath-backend/services"
	"github.com/vnkhanh/learnpath-backend/utils"
	"github.com/vnkhanh/learnpath-backend/validators"
)

var googleClientID string

// Configure sets values the handlers read at request time.
func Configure(clientID string) {
	googleClientID = clientID
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userSummary(user models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"isAdmin":  user.IsAdmin,
	}
}

func Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}
	if r := validators.LoginCredentials(input.Email, input.Password); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	db := getDB(c)
	var user models.User
	if err := db.Where("email = ?", validators.NormalizeEmail(input.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		respondServiceError(c, err)
		return
	}

	if !utils.CheckPassword(user.Password, input.Password) {
		respondError(c, http.StatusBadRequest, "Incorrect password")
		return
	}

	if _, err := utils.SetTokenCookie(c, user.ID.String(), user.IsAdmin); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successfully",
		"user":    userSummary(user),
	})
}

func SignUp(c *gin.Context) {
	var input SignUpInput
	if !bindJSON(c, &input) {
		return
	}
	if r := validators.SignUpCredentials(input.Email, input.Password, input.Username); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	db := getDB(c)
	email := validators.NormalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if count > 0 {
		respondError(c, http.StatusBadRequest, "User already exist please login")
		return
	}
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if count > 0 {
		respondError(c, http.StatusBadRequest, "Username already taken")
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		ImageURL: models.DefaultImageURL,
		Bio:      models.DefaultBio,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent signup
			respondError(c, http.StatusBadRequest, "User already exist please login")
			return
		}
		respondServiceError(c, fmt.Errorf("create user: %w", err))
		return
	}

	if _, err := utils.SetTokenCookie(c, user.ID.String(), user.IsAdmin); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"user":    userSummary(user),
	})
}

func Logout(c *gin.Context) {
	utils.ClearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout successfully"})
}

// Profile returns the caller's account with its progress data.
func Profile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	db := getDB(c)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondServiceError(c, services.ErrUserNotFound)
			return
		}
		respondServiceError(c, err)
		return
	}

	progress, err := services.UserProgress(db, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"email":        user.Email,
			"isAdmin":      user.IsAdmin,
			"imageURL":     user.ImageURL,
			"bio":          user.Bio,
			"progressData": progress,
			"createdAt":    user.CreatedAt,
			"updatedAt":    user.UpdatedAt,
		},
	})
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleLogin signs a user in with a Google ID token, creating the account
// on first use.
func GoogleLogin(c *gin.Context) {
	var input GoogleLoginInput
	if !bindJSON(c, &input) {
		return
	}
	if googleClientID == "" {
		respondError(c, http.StatusServiceUnavailable, "Google login is not configured")
		return
	}

	payload, err := idtoken.Validate(c.Request.Context(), input.IDToken, googleClientID)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid Google token")
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	email = validators.NormalizeEmail(email)
	if email == "" {
		respondError(c, http.StatusBadRequest, "Google account has no email")
		return
	}

	db := getDB(c)
	var user models.User
	err = db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = createGoogleUser(db, email, name, picture)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if _, err := utils.SetTokenCookie(c, user.ID.String(), user.IsAdmin); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successfully",
		"user":    userSummary(user),
	})
}

func createGoogleUser(db *gorm.DB, email, name, picture string) (models.User, error) {
	base := name
	if base == "" {
		base = strings.SplitN(email, "@", 2)[0]
	}
	username, err := availableUsername(db, base)
	if err != nil {
		return models.User{}, err
	}

	// Google accounts get an unusable random password.
	hashed, err := utils.HashPassword(uuid.NewString())
	if err != nil {
		return models.User{}, err
	}
	if picture == "" {
		picture = models.DefaultImageURL
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		ImageURL: picture,
		Bio:      models.DefaultBio,
	}
	if err := db.Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("create google user: %w", err)
	}
	return user, nil
}

// availableUsername derives a valid, unused username from a display name.
func availableUsername(db *gorm.DB, base string) (string, error) {
	name := strings.ReplaceAll(slug.Make(base), "-", "_")
	if len(name) > 40 {
		name = name[:40]
	}
	if len(name) < 3 {
		name = "user_" + name
	}

	candidate := name
	for i := 0; i < 5; i++ {
		var count int64
		if err := db.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%s", name, uuid.NewString()[:6])
	}
	return "", errors.New("could not find a free username")
}
