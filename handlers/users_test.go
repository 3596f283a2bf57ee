package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	_, api := newTestEnv(t)
	token, _ := registerUser(t, api, "Ann", "a@x.com", "secret1")

	rec := doJSON(t, api, http.MethodPut, "/users/profile", token, map[string]string{
		"name": "Ann Veal", "bio": "reader of many genres", "avatar": "https://cdn.example.com/ann.png",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile userPayload
	decodeJSON(t, rec, &profile)
	assert.Equal(t, "Ann Veal", profile.Name)
	assert.Equal(t, "reader of many genres", profile.Bio)
	// Untouched fields keep their values.
	assert.Equal(t, "a@x.com", profile.Email)
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	_, api := newTestEnv(t)
	annToken, _ := registerUser(t, api, "Ann", "a@x.com", "secret1")
	registerUser(t, api, "Bob", "b@x.com", "secret2")

	rec := doJSON(t, api, http.MethodPut, "/users/profile", annToken, map[string]string{
		"email": "b@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already taken")

	// Setting your own current email back is fine.
	rec = doJSON(t, api, http.MethodPut, "/users/profile", annToken, map[string]string{
		"email": "a@x.com",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
