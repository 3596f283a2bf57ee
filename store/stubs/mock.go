// Package stubs provides an in-memory Store implementation for handler
// tests.
package stubs

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/readnest/backend/models"
	"github.com/readnest/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockDB struct {
	mu      sync.RWMutex
	users   map[primitive.ObjectID]*models.User
	books   []*models.Book
	shelves map[primitive.ObjectID]*models.BookshelfEntry
	groups  map[primitive.ObjectID]*models.Group
	topics  map[primitive.ObjectID]*models.Topic
	resets  map[primitive.ObjectID]*models.PasswordReset

	groupOrder []primitive.ObjectID
	topicOrder []primitive.ObjectID
	resetOrder []primitive.ObjectID
}

var _ store.Store = (*MockDB)(nil)

func NewMockDB() *MockDB {
	return &MockDB{
		users:   make(map[primitive.ObjectID]*models.User),
		shelves: make(map[primitive.ObjectID]*models.BookshelfEntry),
		groups:  make(map[primitive.ObjectID]*models.Group),
		topics:  make(map[primitive.ObjectID]*models.Topic),
		resets:  make(map[primitive.ObjectID]*models.PasswordReset),
	}
}

// Users

func (m *MockDB) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, store.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	cp := *user
	cp.ID = id
	m.users[id] = &cp
	return id, nil
}

func (m *MockDB) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockDB) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *MockDB) UsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *MockDB) UpdateUserProfile(ctx context.Context, id primitive.ObjectID, name, email, avatar, bio *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	if email != nil {
		for uid, other := range m.users {
			if uid != id && other.Email == *email {
				return store.ErrDuplicate
			}
		}
		u.Email = *email
	}
	if name != nil {
		u.Name = *name
	}
	if avatar != nil {
		u.Avatar = *avatar
	}
	if bio != nil {
		u.Bio = *bio
	}
	return nil
}

func (m *MockDB) SetUserPassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.Password = hashedPassword
	}
	return nil
}

func (m *MockDB) Follow(ctx context.Context, userID, targetID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.Following = addToSet(u.Following, targetID)
	}
	if t, ok := m.users[targetID]; ok {
		t.Followers = addToSet(t.Followers, userID)
	}
	return nil
}

func (m *MockDB) Unfollow(ctx context.Context, userID, targetID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.Following = pull(u.Following, targetID)
	}
	if t, ok := m.users[targetID]; ok {
		t.Followers = pull(t.Followers, userID)
	}
	return nil
}

// Books

func (m *MockDB) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *book
	cp.ID = id
	m.books = append(m.books, &cp)
	return id, nil
}

func (m *MockDB) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.books {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockDB) ListBooks(ctx context.Context, page, limit int) ([]models.Book, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := int64(len(m.books))
	start := (page - 1) * limit
	if start >= len(m.books) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(m.books) {
		end = len(m.books)
	}
	out := make([]models.Book, 0, end-start)
	for _, b := range m.books[start:end] {
		out = append(out, *b)
	}
	return out, total, nil
}

func (m *MockDB) BooksByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[primitive.ObjectID]models.Book, len(ids))
	for _, id := range ids {
		for _, b := range m.books {
			if b.ID == id {
				out[id] = *b
				break
			}
		}
	}
	return out, nil
}

// Bookshelf

func (m *MockDB) InsertShelfEntry(ctx context.Context, entry *models.BookshelfEntry) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.shelves {
		if e.User == entry.User && e.Book == entry.Book {
			return primitive.NilObjectID, store.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	cp := *entry
	cp.ID = id
	m.shelves[id] = &cp
	return id, nil
}

func (m *MockDB) ShelfForUser(ctx context.Context, userID primitive.ObjectID, status string) ([]models.BookshelfEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.BookshelfEntry
	for _, e := range m.shelves {
		if e.User != userID {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateAdded.After(out[j].DateAdded)
	})
	return out, nil
}

func (m *MockDB) ShelfStats(ctx context.Context, userID primitive.ObjectID) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := make(map[string]int)
	for _, e := range m.shelves {
		if e.User == userID {
			stats[e.Status]++
		}
	}
	return stats, nil
}

func (m *MockDB) UpdateShelfEntry(ctx context.Context, userID, entryID primitive.ObjectID, status *string, rating *int, review *string) (*models.BookshelfEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.shelves[entryID]
	if !ok || e.User != userID {
		return nil, nil
	}
	if status != nil {
		e.Status = *status
	}
	if rating != nil {
		r := *rating
		e.Rating = &r
	}
	if review != nil {
		e.Review = *review
	}
	cp := *e
	return &cp, nil
}

func (m *MockDB) DeleteShelfEntry(ctx context.Context, userID, entryID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.shelves[entryID]
	if !ok || e.User != userID {
		return false, nil
	}
	delete(m.shelves, entryID)
	return true, nil
}

// Groups

func (m *MockDB) InsertGroup(ctx context.Context, group *models.Group) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *group
	cp.ID = id
	m.groups[id] = &cp
	m.groupOrder = append(m.groupOrder, id)
	return id, nil
}

func (m *MockDB) GroupByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (m *MockDB) ListGroups(ctx context.Context, search string, page, limit int) ([]models.Group, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(search)
	var matched []models.Group
	// Newest-first: reverse insertion order.
	for i := len(m.groupOrder) - 1; i >= 0; i-- {
		g := m.groups[m.groupOrder[i]]
		if needle != "" && !groupMatches(g, needle) {
			continue
		}
		matched = append(matched, *g)
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func groupMatches(g *models.Group, needle string) bool {
	if strings.Contains(strings.ToLower(g.Name), needle) ||
		strings.Contains(strings.ToLower(g.Description), needle) {
		return true
	}
	for _, tag := range g.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func (m *MockDB) AddGroupMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.groups[groupID]; ok {
		g.Members = addToSet(g.Members, userID)
	}
	return nil
}

func (m *MockDB) RemoveGroupMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.groups[groupID]; ok {
		g.Members = pull(g.Members, userID)
	}
	return nil
}

// Topics

func (m *MockDB) InsertTopic(ctx context.Context, topic *models.Topic) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *topic
	cp.ID = id
	cp.Posts = append([]models.Post(nil), topic.Posts...)
	m.topics[id] = &cp
	m.topicOrder = append(m.topicOrder, id)
	return id, nil
}

func (m *MockDB) TopicByID(ctx context.Context, id primitive.ObjectID) (*models.Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.topics[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	cp.Posts = append([]models.Post(nil), t.Posts...)
	return &cp, nil
}

func (m *MockDB) TopicsForGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Topic
	for i := len(m.topicOrder) - 1; i >= 0; i-- {
		t := m.topics[m.topicOrder[i]]
		if t.Group != groupID {
			continue
		}
		cp := *t
		cp.Posts = append([]models.Post(nil), t.Posts...)
		out = append(out, cp)
	}
	return out, nil
}

func (m *MockDB) AppendPost(ctx context.Context, topicID primitive.ObjectID, post models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.topics[topicID]; ok {
		t.Posts = append(t.Posts, post)
	}
	return nil
}

// Password resets

func (m *MockDB) InsertPasswordReset(ctx context.Context, reset *models.PasswordReset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *reset
	cp.ID = id
	reset.ID = id
	m.resets[id] = &cp
	m.resetOrder = append(m.resetOrder, id)
	return nil
}

func (m *MockDB) PasswordResetByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.resets {
		if r.Token == token {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockDB) ConsumePasswordReset(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.resets[id]; ok {
		r.Used = true
	}
	return nil
}

// LastPasswordReset returns the most recently created reset record, or nil.
// Test helper; not part of the Store interface.
func (m *MockDB) LastPasswordReset() *models.PasswordReset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.resetOrder) == 0 {
		return nil
	}
	cp := *m.resets[m.resetOrder[len(m.resetOrder)-1]]
	return &cp
}

func addToSet(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func pull(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
