package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/readnest/backend/middleware"
	"github.com/readnest/backend/models"
	"github.com/readnest/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupsHandler serves groups, their discussion topics, and replies.
type GroupsHandler struct {
	DB store.Store
}

// userRefMap loads public fields for a set of user ids.
func (h *GroupsHandler) userRefMap(r *http.Request, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	unique := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	users, err := h.DB.UsersByIDs(r.Context(), unique)
	if err != nil {
		return nil, err
	}
	refs := make(map[primitive.ObjectID]models.UserRef, len(users))
	for _, u := range users {
		refs[u.ID] = u.Ref()
	}
	return refs, nil
}

func groupView(g *models.Group, refs map[primitive.ObjectID]models.UserRef) models.GroupView {
	members := make([]models.UserRef, 0, len(g.Members))
	for _, id := range g.Members {
		if ref, ok := refs[id]; ok {
			members = append(members, ref)
		}
	}
	creator := refs[g.CreatedBy]
	// The creator's avatar is not exposed on group records.
	creator.Avatar = ""
	return models.GroupView{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Tags:        g.Tags,
		Members:     members,
		CreatedBy:   creator,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

type CreateGroupRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Create makes the caller the group's sole initial member.
func (h *GroupsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	var req CreateGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	now := time.Now().UTC()
	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Members:     []primitive.ObjectID{userID},
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if group.Tags == nil {
		group.Tags = []string{}
	}
	id, err := h.DB.InsertGroup(r.Context(), group)
	if err != nil {
		respondServerError(w, err)
		return
	}
	group.ID = id
	respond(w, http.StatusCreated, group)
}

type groupListResponse struct {
	Groups []models.GroupView `json:"groups"`
	Total  int64              `json:"total"`
	Page   int                `json:"page"`
	Pages  int                `json:"pages"`
}

func (h *GroupsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	groups, total, err := h.DB.ListGroups(r.Context(), r.URL.Query().Get("search"), page, limit)
	if err != nil {
		respondServerError(w, err)
		return
	}
	var ids []primitive.ObjectID
	for i := range groups {
		ids = append(ids, groups[i].Members...)
		ids = append(ids, groups[i].CreatedBy)
	}
	refs, err := h.userRefMap(r, ids)
	if err != nil {
		respondServerError(w, err)
		return
	}
	views := make([]models.GroupView, 0, len(groups))
	for i := range groups {
		views = append(views, groupView(&groups[i], refs))
	}
	respond(w, http.StatusOK, groupListResponse{
		Groups: views,
		Total:  total,
		Page:   page,
		Pages:  pageCount(total, limit),
	})
}

func (h *GroupsHandler) groupFromPath(w http.ResponseWriter, r *http.Request) (*models.Group, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Group not found")
		return nil, false
	}
	group, err := h.DB.GroupByID(r.Context(), id)
	if err != nil {
		respondServerError(w, err)
		return nil, false
	}
	if group == nil {
		respondError(w, http.StatusNotFound, "Group not found")
		return nil, false
	}
	return group, true
}

func (h *GroupsHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, ok := h.groupFromPath(w, r)
	if !ok {
		return
	}
	refs, err := h.userRefMap(r, append(append([]primitive.ObjectID{}, group.Members...), group.CreatedBy))
	if err != nil {
		respondServerError(w, err)
		return
	}
	respond(w, http.StatusOK, groupView(group, refs))
}

// Join is idempotent: joining a group you belong to changes nothing.
func (h *GroupsHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	group, ok := h.groupFromPath(w, r)
	if !ok {
		return
	}
	if err := h.DB.AddGroupMember(r.Context(), group.ID, userID); err != nil {
		respondServerError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Joined group")
}

// Leave is idempotent: leaving a group you're not in is a no-op success.
func (h *GroupsHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	group, ok := h.groupFromPath(w, r)
	if !ok {
		return
	}
	if err := h.DB.RemoveGroupMember(r.Context(), group.ID, userID); err != nil {
		respondServerError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Left group")
}

// Topics

func topicView(t *models.Topic, refs map[primitive.ObjectID]models.UserRef, groupName string) models.TopicView {
	author := refs[t.Author]
	author.Avatar = ""
	posts := make([]models.PostView, 0, len(t.Posts))
	for _, p := range t.Posts {
		postAuthor := refs[p.Author]
		postAuthor.Avatar = ""
		posts = append(posts, models.PostView{
			Author:    postAuthor,
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
		})
	}
	return models.TopicView{
		ID:        t.ID,
		Group:     t.Group,
		GroupName: groupName,
		Title:     t.Title,
		Author:    author,
		Posts:     posts,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func topicAuthorIDs(topics []models.Topic) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for i := range topics {
		ids = append(ids, topics[i].Author)
		for _, p := range topics[i].Posts {
			ids = append(ids, p.Author)
		}
	}
	return ids
}

// ListTopics returns a group's threads newest-first with display names
// resolved.
func (h *GroupsHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Group not found")
		return
	}
	topics, err := h.DB.TopicsForGroup(r.Context(), groupID)
	if err != nil {
		respondServerError(w, err)
		return
	}
	refs, err := h.userRefMap(r, topicAuthorIDs(topics))
	if err != nil {
		respondServerError(w, err)
		return
	}
	views := make([]models.TopicView, 0, len(topics))
	for i := range topics {
		views = append(views, topicView(&topics[i], refs, ""))
	}
	respond(w, http.StatusOK, views)
}

type CreateTopicRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// CreateTopic starts a thread; the body becomes the embedded opening post.
func (h *GroupsHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	group, ok := h.groupFromPath(w, r)
	if !ok {
		return
	}
	var req CreateTopicRequest
	if !decodeBody(w, r, &req) {
		return
	}
	now := time.Now().UTC()
	topic := &models.Topic{
		Group:     group.ID,
		Title:     req.Title,
		Author:    userID,
		Posts:     []models.Post{{Author: userID, Content: req.Content, CreatedAt: now}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := h.DB.InsertTopic(r.Context(), topic)
	if err != nil {
		respondServerError(w, err)
		return
	}
	topic.ID = id
	refs, err := h.userRefMap(r, []primitive.ObjectID{userID})
	if err != nil {
		respondServerError(w, err)
		return
	}
	respond(w, http.StatusCreated, topicView(topic, refs, ""))
}

func (h *GroupsHandler) topicFromPath(w http.ResponseWriter, r *http.Request) (*models.Topic, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Topic not found")
		return nil, false
	}
	topic, err := h.DB.TopicByID(r.Context(), id)
	if err != nil {
		respondServerError(w, err)
		return nil, false
	}
	if topic == nil {
		respondError(w, http.StatusNotFound, "Topic not found")
		return nil, false
	}
	return topic, true
}

// GetTopic returns one thread with its group's name attached.
func (h *GroupsHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topicFromPath(w, r)
	if !ok {
		return
	}
	refs, err := h.userRefMap(r, topicAuthorIDs([]models.Topic{*topic}))
	if err != nil {
		respondServerError(w, err)
		return
	}
	groupName := ""
	if group, err := h.DB.GroupByID(r.Context(), topic.Group); err == nil && group != nil {
		groupName = group.Name
	}
	respond(w, http.StatusOK, topicView(topic, refs, groupName))
}

type ReplyRequest struct {
	Content string `json:"content" validate:"required"`
}

// Reply appends one post to the thread, preserving order.
func (h *GroupsHandler) Reply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	topic, ok := h.topicFromPath(w, r)
	if !ok {
		return
	}
	var req ReplyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	post := models.Post{Author: userID, Content: req.Content, CreatedAt: time.Now().UTC()}
	if err := h.DB.AppendPost(r.Context(), topic.ID, post); err != nil {
		respondServerError(w, err)
		return
	}
	topic.Posts = append(topic.Posts, post)
	refs, err := h.userRefMap(r, topicAuthorIDs([]models.Topic{*topic}))
	if err != nil {
		respondServerError(w, err)
		return
	}
	respond(w, http.StatusOK, topicView(topic, refs, ""))
}
