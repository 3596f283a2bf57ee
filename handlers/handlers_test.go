package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/readnest/backend/store"
	"github.com/readnest/backend/store/stubs"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func primitiveFromHex(hex string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(hex)
}

const testSecret = "test-secret"

func newAPI(db store.Store) http.Handler {
	auth := &AuthHandler{
		DB:         db,
		JWTSecret:  testSecret,
		AppBaseURL: "http://localhost:3000",
		Logger:     zap.NewNop(),
	}
	return Routes(testSecret, auth,
		&UsersHandler{DB: db},
		&SocialHandler{DB: db},
		&BooksHandler{DB: db},
		&BookshelfHandler{DB: db},
		&GroupsHandler{DB: db},
		&UploadHandler{},
	)
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

type userPayload struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

type authPayload struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    userPayload `json:"user"`
}

// registerUser creates an account through the API and returns its token
// and id.
func registerUser(t *testing.T, h http.Handler, name, email, password string) (token, id string) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/users/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp authPayload
	decodeJSON(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.User.ID)
	return resp.Token, resp.User.ID
}

func newTestEnv(t *testing.T) (*stubs.MockDB, http.Handler) {
	t.Helper()
	db := stubs.NewMockDB()
	return db, newAPI(db)
}
