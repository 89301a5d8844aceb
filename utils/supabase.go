package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// ImageStore keeps user profile images.
type ImageStore interface {
	UploadProfileImage(fileHeader *multipart.FileHeader, userID string) (string, error)
	DeleteProfileImage(publicURL, userID string) error
}

var ErrStorageNotConfigured = errors.New("SUPABASE_URL or SUPABASE_KEY is not configured")

// Images is the store used by the profile handlers. It stays nil when
// Supabase is not configured.
var Images ImageStore

type SupabaseStore struct {
	baseURL string
	key     string
	bucket  string
	client  *storage.Client
	http    *http.Client
}

func NewSupabaseStore(baseURL, key, bucket string) (*SupabaseStore, error) {
	if baseURL == "" || key == "" {
		return nil, ErrStorageNotConfigured
	}
	baseURL = strings.TrimRight(baseURL, "/")
	return &SupabaseStore{
		baseURL: baseURL,
		key:     key,
		bucket:  bucket,
		client:  storage.NewClient(baseURL+"/storage/v1", key, nil),
		http:    &http.Client{},
	}, nil
}

// UploadProfileImage stores the image under profiles/<userID>-<random>.<ext>
// and returns its public URL.
func (s *SupabaseStore) UploadProfileImage(fileHeader *multipart.FileHeader, userID string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	objectPath := fmt.Sprintf("profiles/%s-%s%s", userID, uuid.NewString(), ext)

	contentType := fileHeader.Header.Get("Content-Type")
	options := storage.FileOptions{
		ContentType: &contentType,
	}
	if _, err := s.client.UploadFile(s.bucket, objectPath, &buf, options); err != nil {
		return "", fmt.Errorf("upload to supabase: %w", err)
	}

	return s.PublicURL(objectPath), nil
}

func (s *SupabaseStore) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
}

// DeleteProfileImage removes an image previously stored by
// UploadProfileImage for userID. URLs outside this store's bucket or outside
// the user's own prefix are ignored.
func (s *SupabaseStore) DeleteProfileImage(publicURL, userID string) error {
	object, ok := s.ownedObject(publicURL, userID)
	if !ok {
		return nil
	}

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, object)
	req, err := http.NewRequest(http.MethodDelete, deleteURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("apikey", s.key)

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	// 200 or 204 on success
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete supabase object failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

// ownedObject returns the object path of publicURL when it is a profile
// image of userID in this store.
func (s *SupabaseStore) ownedObject(publicURL, userID string) (string, bool) {
	if userID == "" {
		return "", false
	}
	if q := strings.IndexAny(publicURL, "?#"); q != -1 {
		publicURL = publicURL[:q]
	}
	prefix := s.PublicURL("")
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	object, err := url.PathUnescape(strings.TrimPrefix(publicURL, prefix))
	if err != nil {
		return "", false
	}
	owner := "profiles/" + userID + "-"
	name := strings.TrimPrefix(object, owner)
	if !strings.HasPrefix(object, owner) || name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return "", false
	}
	return object, true
}
