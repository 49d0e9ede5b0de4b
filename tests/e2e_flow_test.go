package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gharseva/gharseva-api/internal/config"
	"github.com/gharseva/gharseva-api/internal/server"
)

func TestGoldenPath(t *testing.T) {
	// 1. Setup Infrastructure
	// MongoDB (Container)
	db, cleanupDB := SetupTestDB(t)
	defer cleanupDB()

	// Redis (Miniredis for speed/simplicity)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	// Content repository (httptest-backed)
	assetStore, contentRepo := SetupAssetStore(t)

	// Config (Minimal)
	cfg := &config.Config{}
	cfg.Server.MaxUploadSizeMB = 10
	cfg.JWT.Secret = "test-secret-key-123"
	cfg.JWT.ExpiryHours = 1

	// 2. Initialize App
	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     db,
		RedisClient: redisClient,
		AssetStore:  assetStore,
	})

	// Helper for JSON requests
	request := func(method, path, token string, body interface{}) *http.Response {
		var bodyReader io.Reader
		if body != nil {
			jsonBytes, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(jsonBytes)
		}
		req, _ := http.NewRequest(method, path, bodyReader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	decode := func(resp *http.Response) map[string]interface{} {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body
	}

	// Helper for multipart uploads. fileField repeats once per file; fields
	// may repeat per key.
	upload := func(method, path, token, fileField string, fileNames []string, fields map[string][]string) *http.Response {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, name := range fileNames {
			part, err := w.CreateFormFile(fileField, name)
			require.NoError(t, err)
			_, err = part.Write([]byte("fake image bytes for " + name))
			require.NoError(t, err)
		}
		for key, values := range fields {
			for _, v := range values {
				require.NoError(t, w.WriteField(key, v))
			}
		}
		require.NoError(t, w.Close())

		req, _ := http.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	// ==========================================
	// STEP 1: Partner Registration & Login
	// ==========================================
	resp := request("POST", "/v1/auth/partners/register", "", map[string]interface{}{
		"name":          "Ravi Kumar",
		"email":         "ravi@example.com",
		"phone":         "+919812345678",
		"password":      "hunter2secret",
		"business_name": "Kumar Electricals",
		"business_type": "individual",
		"location":      map[string]interface{}{"type": "Point", "coordinates": []float64{77.5946, 12.9716}},
		"services": []map[string]interface{}{
			{"name": "Fan Installation", "category": "electrical", "price": 299, "duration": 45, "is_active": true},
		},
	})
	require.Equal(t, 201, resp.StatusCode)

	registerData := decode(resp)["data"].(map[string]interface{})
	partnerToken := registerData["token"].(string)
	require.NotEmpty(t, partnerToken)
	account := registerData["account"].(map[string]interface{})
	partnerID := account["id"].(string)
	require.NotEmpty(t, partnerID)
	_, hasPassword := account["password"]
	assert.False(t, hasPassword, "password must never be serialized")

	fmt.Println("✓ Partner registered")

	// Duplicate registration is rejected
	resp = request("POST", "/v1/auth/partners/register", "", map[string]interface{}{
		"name": "Clone", "email": "ravi@example.com", "phone": "+919812345678", "password": "whatever123",
	})
	assert.Equal(t, 409, resp.StatusCode)

	// Fresh login works
	resp = request("POST", "/v1/auth/partners/login", "", map[string]string{
		"email": "ravi@example.com", "password": "hunter2secret",
	})
	require.Equal(t, 200, resp.StatusCode)
	partnerToken = decode(resp)["data"].(map[string]interface{})["token"].(string)

	// Wrong password is a 401
	resp = request("POST", "/v1/auth/partners/login", "", map[string]string{
		"email": "ravi@example.com", "password": "wrong",
	})
	assert.Equal(t, 401, resp.StatusCode)

	fmt.Println("✓ Partner logged in")

	// ==========================================
	// STEP 2: Profile
	// ==========================================
	resp = request("GET", "/v1/partners/me", partnerToken, nil)
	require.Equal(t, 200, resp.StatusCode)

	// Unauthenticated access to the same route is rejected
	resp = request("GET", "/v1/partners/me", "", nil)
	assert.Equal(t, 401, resp.StatusCode)

	resp = request("PUT", "/v1/partners/me", partnerToken, map[string]interface{}{
		"description": "Licensed electrician, 10 years of experience",
	})
	require.Equal(t, 200, resp.StatusCode)
	profile := decode(resp)["data"].(map[string]interface{})
	assert.Equal(t, "Licensed electrician, 10 years of experience", profile["description"])

	fmt.Println("✓ Profile updated")

	// ==========================================
	// STEP 3: Avatar Upload & Replace
	// ==========================================
	resp = upload("PUT", "/v1/partners/me/avatar", partnerToken, "avatar", []string{"face-v1.jpg"}, nil)
	require.Equal(t, 200, resp.StatusCode)
	avatar := decode(resp)["data"].(map[string]interface{})
	firstAvatarPath := avatar["file_path"].(string)
	require.NotEmpty(t, avatar["sha"])
	assert.Equal(t, 1, contentRepo.Count())

	// Replacing the avatar uploads the new file and removes the old one
	resp = upload("PUT", "/v1/partners/me/avatar", partnerToken, "avatar", []string{"face-v2.jpg"}, nil)
	require.Equal(t, 200, resp.StatusCode)
	avatar = decode(resp)["data"].(map[string]interface{})
	assert.NotEqual(t, firstAvatarPath, avatar["file_path"])
	assert.Equal(t, 1, contentRepo.Count(), "old avatar should be deleted after replace")

	fmt.Println("✓ Avatar uploaded and replaced")

	// ==========================================
	// STEP 4: Portfolio Batch
	// ==========================================
	resp = upload("POST", "/v1/partners/me/portfolio", partnerToken, "images",
		[]string{"before.jpg", "after.jpg"},
		map[string][]string{
			"kinds":     {"before", "after"},
			"captions":  {"Old wiring", "New switchboard"},
			"locations": {`{"coordinates":[77.5946,12.9716]}`, ""},
		})
	require.Equal(t, 200, resp.StatusCode)
	batchBody := decode(resp)
	assert.EqualValues(t, 2, batchBody["count"])
	items := batchBody["data"].([]interface{})
	require.Len(t, items, 2)
	firstItem := items[0].(map[string]interface{})
	itemID := firstItem["id"].(string)
	require.NotEmpty(t, itemID)
	assert.Equal(t, "before", firstItem["kind"])
	assert.Equal(t, 3, contentRepo.Count(), "avatar + two portfolio images")

	// Patch the caption only
	resp = request("PATCH", "/v1/partners/me/portfolio/"+itemID, partnerToken, map[string]string{
		"caption": "Old aluminium wiring",
	})
	require.Equal(t, 200, resp.StatusCode)
	patched := decode(resp)["data"].(map[string]interface{})
	assert.Equal(t, "Old aluminium wiring", patched["caption"])
	assert.Equal(t, "before", patched["kind"], "kind must survive a caption-only patch")

	// Delete one item; its backing object goes too
	resp = request("DELETE", "/v1/partners/me/portfolio/"+itemID, partnerToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 2, contentRepo.Count())

	// Deleting it again is a 404
	resp = request("DELETE", "/v1/partners/me/portfolio/"+itemID, partnerToken, nil)
	assert.Equal(t, 404, resp.StatusCode)

	fmt.Println("✓ Portfolio lifecycle complete")

	// ==========================================
	// STEP 5: Directory Search
	// ==========================================
	// Only verified partners are discoverable; verification is an operator
	// action, so flip the flag directly.
	objectID, err := primitive.ObjectIDFromHex(partnerID)
	require.NoError(t, err)
	_, err = db.Collection("partners").UpdateOne(context.Background(),
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"is_verified": true}},
	)
	require.NoError(t, err)

	resp = request("GET", "/v1/directory/nearby?lng=77.5946&lat=12.9716&max_distance=5000", "", nil)
	require.Equal(t, 200, resp.StatusCode)
	nearby := decode(resp)
	assert.EqualValues(t, 1, nearby["count"])
	hit := nearby["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Kumar Electricals", hit["business_name"])
	_, hasPassword = hit["password"]
	assert.False(t, hasPassword)

	// A point across the country finds nothing
	resp = request("GET", "/v1/directory/nearby?lng=72.8777&lat=19.0760&max_distance=5000", "", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 0, decode(resp)["count"])

	// Category browse
	resp = request("GET", "/v1/directory/categories/electrical", "", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 1, decode(resp)["count"])

	// Service name search, case-insensitive substring
	resp = request("GET", "/v1/directory/search?service_name=fan", "", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 1, decode(resp)["count"])

	// The category catalogue is public
	resp = request("GET", "/v1/directory/categories", "", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 15, decode(resp)["count"])

	// A malformed radius is rejected, not silently defaulted
	resp = request("GET", "/v1/directory/nearby?lng=77.5946&lat=12.9716&max_distance=abc", "", nil)
	assert.Equal(t, 400, resp.StatusCode)

	fmt.Println("✓ Directory search works")

	// ==========================================
	// STEP 6: Seeker Account
	// ==========================================
	resp = request("POST", "/v1/auth/users/register", "", map[string]interface{}{
		"name": "Meena Patel", "email": "meena@example.com", "phone": "+919800000000", "password": "s3cretpass",
		"location": map[string]interface{}{"type": "Point", "coordinates": []float64{77.5946, 12.9716}},
	})
	require.Equal(t, 201, resp.StatusCode)
	userToken := decode(resp)["data"].(map[string]interface{})["token"].(string)

	resp = request("GET", "/v1/users/me", userToken, nil)
	require.Equal(t, 200, resp.StatusCode)

	// A seeker token cannot reach partner self-service routes
	resp = request("GET", "/v1/partners/me", userToken, nil)
	assert.Equal(t, 403, resp.StatusCode)

	// Public partner details remain open
	resp = request("GET", "/v1/partners/"+partnerID, "", nil)
	require.Equal(t, 200, resp.StatusCode)

	fmt.Println("✓ Seeker account and role separation verified")

	// ==========================================
	// STEP 7: Seeker Avatar & Profile
	// ==========================================
	beforeUserAvatar := contentRepo.Count()
	resp = upload("PUT", "/v1/users/me/avatar", userToken, "avatar", []string{"meena-v1.jpg"}, nil)
	require.Equal(t, 200, resp.StatusCode)
	userAvatar := decode(resp)["data"].(map[string]interface{})
	firstUserAvatarPath := userAvatar["file_path"].(string)
	assert.Equal(t, beforeUserAvatar+1, contentRepo.Count())

	resp = upload("PUT", "/v1/users/me/avatar", userToken, "avatar", []string{"meena-v2.jpg"}, nil)
	require.Equal(t, 200, resp.StatusCode)
	userAvatar = decode(resp)["data"].(map[string]interface{})
	assert.NotEqual(t, firstUserAvatarPath, userAvatar["file_path"])
	assert.Equal(t, beforeUserAvatar+1, contentRepo.Count(), "old seeker avatar should be deleted after replace")

	resp = request("DELETE", "/v1/users/me/avatar", userToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, beforeUserAvatar, contentRepo.Count())

	// Deleting with nothing set is a 400
	resp = request("DELETE", "/v1/users/me/avatar", userToken, nil)
	assert.Equal(t, 400, resp.StatusCode)

	resp = request("PUT", "/v1/users/me", userToken, map[string]interface{}{
		"name": "Meena P",
	})
	require.Equal(t, 200, resp.StatusCode)
	seekerProfile := decode(resp)["data"].(map[string]interface{})
	assert.Equal(t, "Meena P", seekerProfile["name"])
	assert.NotNil(t, seekerProfile["location"], "location must survive a name-only update")

	fmt.Println("✓ Seeker avatar and profile lifecycle complete")

	// ==========================================
	// STEP 8: Partners Discover Nearby Seekers
	// ==========================================
	resp = request("GET", "/v1/partners/me/nearby-users?lng=77.5946&lat=12.9716&max_distance=5000", partnerToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	nearbyUsers := decode(resp)
	assert.EqualValues(t, 1, nearbyUsers["count"])
	seeker := nearbyUsers["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Meena P", seeker["name"])
	_, hasEmail := seeker["email"]
	assert.False(t, hasEmail, "seeker contact details must not be exposed")

	// Seekers cannot browse other seekers
	resp = request("GET", "/v1/partners/me/nearby-users?lng=77.5946&lat=12.9716", userToken, nil)
	assert.Equal(t, 403, resp.StatusCode)

	fmt.Println("✓ Nearby seekers visible to partners only")

	// ==========================================
	// STEP 9: Password Change
	// ==========================================
	resp = request("PUT", "/v1/users/me/password", userToken, map[string]string{
		"current_password": "wrong", "new_password": "fresh-secret",
	})
	assert.Equal(t, 401, resp.StatusCode)

	resp = request("PUT", "/v1/users/me/password", userToken, map[string]string{
		"current_password": "s3cretpass", "new_password": "fresh-secret",
	})
	require.Equal(t, 200, resp.StatusCode)

	resp = request("POST", "/v1/auth/users/login", "", map[string]string{
		"email": "meena@example.com", "password": "s3cretpass",
	})
	assert.Equal(t, 401, resp.StatusCode)
	resp = request("POST", "/v1/auth/users/login", "", map[string]string{
		"email": "meena@example.com", "password": "fresh-secret",
	})
	require.Equal(t, 200, resp.StatusCode)

	resp = request("PUT", "/v1/partners/me/password", partnerToken, map[string]string{
		"current_password": "hunter2secret", "new_password": "amped-up-secret",
	})
	require.Equal(t, 200, resp.StatusCode)
	resp = request("POST", "/v1/auth/partners/login", "", map[string]string{
		"email": "ravi@example.com", "password": "amped-up-secret",
	})
	require.Equal(t, 200, resp.StatusCode)

	fmt.Println("✓ Password rotation works for both account types")

	// ==========================================
	// STEP 10: Seeker Deactivation
	// ==========================================
	resp = request("POST", "/v1/users/me/deactivate", userToken, nil)
	require.Equal(t, 200, resp.StatusCode)

	// A deactivated seeker disappears from nearby results and cannot log in
	resp = request("GET", "/v1/partners/me/nearby-users?lng=77.5946&lat=12.9716", partnerToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 0, decode(resp)["count"])

	resp = request("POST", "/v1/auth/users/login", "", map[string]string{
		"email": "meena@example.com", "password": "fresh-secret",
	})
	assert.Equal(t, 401, resp.StatusCode)

	fmt.Println("✓ Seeker deactivation verified")
}
