package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type groupPayload struct {
	ID          string           `json:"_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Tags        []string         `json:"tags"`
	Members     []userRefPayload `json:"members"`
	CreatedBy   userRefPayload   `json:"createdBy"`
}

type groupListPayload struct {
	Groups []groupPayload `json:"groups"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Pages  int            `json:"pages"`
}

type postPayload struct {
	Author  userRefPayload `json:"author"`
	Content string         `json:"content"`
}

type topicPayload struct {
	ID        string         `json:"_id"`
	Group     string         `json:"group"`
	GroupName string         `json:"groupName"`
	Title     string         `json:"title"`
	Author    userRefPayload `json:"author"`
	Posts     []postPayload  `json:"posts"`
}

func createGroup(t *testing.T, api http.Handler, token, name string, tags []string) string {
	t.Helper()
	rec := doJSON(t, api, http.MethodPost, "/groups", token, map[string]interface{}{
		"name": name, "description": "about " + name, "tags": tags,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var group struct {
		ID string `json:"_id"`
	}
	decodeJSON(t, rec, &group)
	return group.ID
}

func TestCreateGroupCreatorAutoJoins(t *testing.T) {
	_, api := newTestEnv(t)
	token, annID := registerUser(t, api, "Ann", "a@x.com", "secret1")

	groupID := createGroup(t, api, token, "Sci-Fi Readers", []string{"sci-fi"})

	rec := doJSON(t, api, http.MethodGet, "/groups/"+groupID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var group groupPayload
	decodeJSON(t, rec, &group)
	require.Len(t, group.Members, 1)
	assert.Equal(t, annID, group.Members[0].ID)
	assert.Equal(t, "Ann", group.Members[0].Name)
	assert.Equal(t, "Ann", group.CreatedBy.Name)
}

func TestJoinLeaveIdempotent(t *testing.T) {
	_, api := newTestEnv(t)
	annToken, _ := registerUser(t, api, "Ann", "a@x.com", "secret1")
	bobToken, _ := registerUser(t, api, "Bob", "b@x.com", "secret2")
	groupID := createGroup(t, api, annToken, "Sci-Fi Readers", nil)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/join", bobToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doJSON(t, api, http.MethodGet, "/groups/"+groupID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var group groupPayload
	decodeJSON(t, rec, &group)
	assert.Len(t, group.Members, 2)

	// Leave twice: second is a no-op.
	for i := 0; i < 2; i++ {
		rec = doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/leave", bobToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec = doJSON(t, api, http.MethodGet, "/groups/"+groupID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &group)
	assert.Len(t, group.Members, 1)
}

func TestJoinUnknownGroup(t *testing.T) {
	_, api := newTestEnv(t)
	token, _ := registerUser(t, api, "Ann", "a@x.com", "secret1")

	rec := doJSON(t, api, http.MethodPost, "/groups/64b000000000000000000000/join", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGroupSearch(t *testing.T) {
	_, api := newTestEnv(t)
	token, _ := registerUser(t, api, "Ann", "a@x.com", "secret1")

	createGroup(t, api, token, "Fantasy Fans", []string{"fantasy"})
	createGroup(t, api, token, "History Buffs", []string{"non-fiction"})
	createGroup(t, api, token, "Mixed Shelf", []string{"FANTASY", "mystery"})

	// Case-insensitive substring match across name and tags.
	rec := doJSON(t, api, http.MethodGet, "/groups?search=fantasy", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list groupListPayload
	decodeJSON(t, rec, &list)
	assert.Equal(t, int64(2), list.Total)
	assert.Len(t, list.Groups, 2)

	// Description matches too ("about History Buffs").
	rec = doJSON(t, api, http.MethodGet, "/groups?search=history", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &list)
	assert.Equal(t, int64(1), list.Total)

	// No search returns everything, paginated.
	rec = doJSON(t, api, http.MethodGet, "/groups?page=1&limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &list)
	assert.Equal(t, int64(3), list.Total)
	assert.Len(t, list.Groups, 2)
	assert.Equal(t, 2, list.Pages)
}

func TestTopicOpenerAndReplies(t *testing.T) {
	_, api := newTestEnv(t)
	annToken, _ := registerUser(t, api, "Ann", "a@x.com", "secret1")
	bobToken, _ := registerUser(t, api, "Bob", "b@x.com", "secret2")
	groupID := createGroup(t, api, annToken, "Sci-Fi Readers", nil)

	rec := doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/topics", annToken, map[string]string{
		"title": "Best first contact novels?", "content": "Mine is Blindsight.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var topic topicPayload
	decodeJSON(t, rec, &topic)
	require.Len(t, topic.Posts, 1)
	assert.Equal(t, "Ann", topic.Author.Name)
	assert.Equal(t, "Mine is Blindsight.", topic.Posts[0].Content)
	assert.Equal(t, "Ann", topic.Posts[0].Author.Name)

	// Two replies append in order after the opener.
	rec = doJSON(t, api, http.MethodPost, "/topics/"+topic.ID+"/reply", bobToken, map[string]string{
		"content": "The Mote in God's Eye.",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, api, http.MethodPost, "/topics/"+topic.ID+"/reply", annToken, map[string]string{
		"content": "Adding that to my shelf.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, api, http.MethodGet, "/topics/"+topic.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &topic)
	require.Len(t, topic.Posts, 3)
	assert.Equal(t, "Mine is Blindsight.", topic.Posts[0].Content)
	assert.Equal(t, "Bob", topic.Posts[1].Author.Name)
	assert.Equal(t, "Adding that to my shelf.", topic.Posts[2].Content)
	assert.Equal(t, "Sci-Fi Readers", topic.GroupName)
}

func TestListTopicsNewestFirst(t *testing.T) {
	_, api := newTestEnv(t)
	token, _ := registerUser(t, api, "Ann", "a@x.com", "secret1")
	groupID := createGroup(t, api, token, "Sci-Fi Readers", nil)

	for _, title := range []string{"First thread", "Second thread"} {
		rec := doJSON(t, api, http.MethodPost, "/groups/"+groupID+"/topics", token, map[string]string{
			"title": title, "content": "opener",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, api, http.MethodGet, "/groups/"+groupID+"/topics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var topics []topicPayload
	decodeJSON(t, rec, &topics)
	require.Len(t, topics, 2)
	assert.Equal(t, "Second thread", topics[0].Title)
	assert.Equal(t, "First thread", topics[1].Title)
}

func TestReplyToUnknownTopic(t *testing.T) {
	_, api := newTestEnv(t)
	token, _ := registerUser(t, api, "Ann", "a@x.com", "secret1")

	rec := doJSON(t, api, http.MethodPost, "/topics/64b000000000000000000000/reply", token, map[string]string{
		"content": "anyone here?",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
