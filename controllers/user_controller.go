package controllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/learnpath-backend/models"
	"github.com/vnkhanh/learnpath-backend/services"
	"github.com/vnkhanh/learnpath-backend/utils"
	"github.com/vnkhanh/learnpath-backend/validators"
)

const usersPerPage = 10

func findUser(db *gorm.DB, id interface{}) (models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, services.ErrUserNotFound
		}
		return user, err
	}
	return user, nil
}

func UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input validators.ProfileUpdate
	if !bindJSON(c, &input) {
		return
	}
	if r := input.Validate(); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	db := getDB(c)
	updates := map[string]interface{}{}

	if input.Username != nil && strings.TrimSpace(*input.Username) != "" {
		username := strings.TrimSpace(*input.Username)
		if taken, err := fieldTaken(db, "username", username, userID); err != nil {
			respondServiceError(c, err)
			return
		} else if taken {
			respondError(c, http.StatusBadRequest, "Username already taken")
			return
		}
		updates["username"] = username
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		email := validators.NormalizeEmail(*input.Email)
		if taken, err := fieldTaken(db, "email", email, userID); err != nil {
			respondServiceError(c, err)
			return
		} else if taken {
			respondError(c, http.StatusBadRequest, "Email already in use")
			return
		}
		updates["email"] = email
	}
	if input.ImageURL != nil && strings.TrimSpace(*input.ImageURL) != "" {
		updates["image_url"] = strings.TrimSpace(*input.ImageURL)
	}
	if input.Bio != nil && strings.TrimSpace(*input.Bio) != "" {
		updates["bio"] = strings.TrimSpace(*input.Bio)
	}

	user, err := findUser(db, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondError(c, http.StatusBadRequest, "Username or email already in use")
				return
			}
			respondServiceError(c, fmt.Errorf("update profile: %w", err))
			return
		}
		if user, err = findUser(db, userID); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

func fieldTaken(db *gorm.DB, column, value string, self interface{}) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where(column+" = ? AND id <> ?", value, self).Count(&count).Error
	return count > 0, err
}

// DeleteProfile removes the caller's account, its progress and its uploaded
// image, then clears the session cookie.
func DeleteProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	db := getDB(c)

	user, err := findUser(db, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := services.DeleteUser(db, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	if utils.Images != nil && user.ImageURL != models.DefaultImageURL {
		if err := utils.Images.DeleteProfileImage(user.ImageURL, userID.String()); err != nil {
			log.Printf("delete profile image of %s: %v", userID, err)
		}
	}

	utils.ClearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input ChangePasswordInput
	if !bindJSON(c, &input) {
		return
	}
	if r := validators.ChangePassword(input.CurrentPassword, input.Password, input.ConfirmPassword); !r.Valid {
		respondError(c, http.StatusBadRequest, r.Message)
		return
	}

	db := getDB(c)
	user, err := findUser(db, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !utils.CheckPassword(user.Password, input.CurrentPassword) {
		respondError(c, http.StatusUnauthorized, "Current password is incorrect.")
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := db.Model(&user).Update("password", hashed).Error; err != nil {
		respondServiceError(c, fmt.Errorf("update password: %w", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully."})
}

// UploadProfileImage expects ImageUpload to have run first.
func UploadProfileImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if utils.Images == nil {
		respondError(c, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}
	fileHeader := c.MustGet("image").(*multipart.FileHeader)

	db := getDB(c)
	user, err := findUser(db, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	imageURL, err := utils.Images.UploadProfileImage(fileHeader, userID.String())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := db.Model(&user).Update("image_url", imageURL).Error; err != nil {
		respondServiceError(c, fmt.Errorf("update image url: %w", err))
		return
	}

	if user.ImageURL != "" && user.ImageURL != models.DefaultImageURL && user.ImageURL != imageURL {
		if err := utils.Images.DeleteProfileImage(user.ImageURL, userID.String()); err != nil {
			log.Printf("delete old profile image of %s: %v", userID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Profile image updated successfully",
		"imageURL": imageURL,
	})
}

// GetAllUsers lists users newest first, ten per page. Supports ?q= search on
// email and username, ?isAdmin=true|false and ?page=.
func GetAllUsers(c *gin.Context) {
	db := getDB(c)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	query := db.Model(&models.User{})
	if isAdmin, ok := c.GetQuery("isAdmin"); ok {
		query = query.Where("is_admin = ?", isAdmin == "true")
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(username) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	var users []models.User
	if err := query.Order("created_at DESC").
		Limit(usersPerPage).
		Offset((page - 1) * usersPerPage).
		Find(&users).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"page":       page,
		"totalUsers": total,
		"totalPages": int(math.Ceil(float64(total) / usersPerPage)),
		"users":      users,
	})
}

func GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := findUser(getDB(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// ToggleRole flips the admin flag of a user. The change applies to tokens
// issued after it.
func ToggleRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	db := getDB(c)
	user, err := findUser(db, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	isAdmin := !user.IsAdmin
	if err := db.Model(&user).Update("is_admin", isAdmin).Error; err != nil {
		respondServiceError(c, fmt.Errorf("toggle role: %w", err))
		return
	}

	role := "a regular user"
	if isAdmin {
		role = "an admin"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("User role updated successfully. %s is now %s.", user.Username, role),
	})
}
