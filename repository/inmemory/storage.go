// Package inmemory provides process-local implementations of the storage
// contracts for local runs without PostgreSQL or Redis, and for HTTP tests.
package inmemory

import (
	"context"
	"database/sql"
	"service-desk/model"
	"service-desk/repository"
	"sort"
	"sync"
	"time"
)

type Storage struct {
	mu         sync.RWMutex
	users      map[int]model.User
	categories map[int]model.Category
	requests   map[int]model.ServiceRequest
	nextID     int
	now        func() time.Time
}

var (
	_ repository.IUserRepository     = (*Storage)(nil)
	_ repository.ICategoryRepository = (*Storage)(nil)
	_ repository.IRequestRepository  = (*Storage)(nil)
)

func NewStorage() *Storage {
	return &Storage{
		users:      make(map[int]model.User),
		categories: make(map[int]model.Category),
		requests:   make(map[int]model.ServiceRequest),
		now:        time.Now,
	}
}

func (s *Storage) id() int {
	s.nextID++
	return s.nextID
}

// --- users ---

func (s *Storage) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = s.id()
	user.DateJoined = s.now()
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) GetUserByID(_ context.Context, id int) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (s *Storage) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *Storage) UsernameTaken(_ context.Context, username string, excludeID int) (bool, error) {
	return s.userExists(func(u model.User) bool { return u.Username == username && u.ID != excludeID }), nil
}

func (s *Storage) EmailTaken(_ context.Context, email string, excludeID int) (bool, error) {
	return s.userExists(func(u model.User) bool { return u.Email == email && u.ID != excludeID }), nil
}

func (s *Storage) userExists(match func(model.User) bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			return true
		}
	}
	return false
}

func (s *Storage) UpdateProfile(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return sql.ErrNoRows
	}
	for _, u := range s.users {
		if u.ID != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return repository.ErrDuplicate
		}
	}
	existing.Username = user.Username
	existing.Email = user.Email
	existing.DisplayName = user.DisplayName
	s.users[user.ID] = existing
	return nil
}

// --- categories ---

func (s *Storage) ListCategories(_ context.Context) ([]*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]*model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		c := c
		categories = append(categories, &c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Name == categories[j].Name {
			return categories[i].ID < categories[j].ID
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (s *Storage) GetCategoryByID(_ context.Context, id int) (*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (s *Storage) CreateCategory(_ context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category.ID = s.id()
	s.categories[category.ID] = *category
	return nil
}

func (s *Storage) UpdateCategory(_ context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[category.ID]; !ok {
		return sql.ErrNoRows
	}
	s.categories[category.ID] = *category
	return nil
}

// DeleteCategory mirrors ON DELETE SET NULL for requests in the category.
func (s *Storage) DeleteCategory(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.categories, id)
	for reqID, r := range s.requests {
		if r.CategoryID != nil && *r.CategoryID == id {
			r.CategoryID = nil
			s.requests[reqID] = r
		}
	}
	return nil
}

// --- requests ---

// hydrate fills in the joined display columns, as the SQL listing does.
func (s *Storage) hydrate(r model.ServiceRequest) *model.ServiceRequest {
	if u, ok := s.users[r.UserID]; ok {
		r.Username = u.Username
	}
	r.CategoryName = ""
	if r.CategoryID != nil {
		id := *r.CategoryID
		r.CategoryID = &id
		if c, ok := s.categories[id]; ok {
			r.CategoryName = c.Name
		}
	}
	return &r
}

func (s *Storage) CreateRequest(_ context.Context, req *model.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[req.UserID]; !ok {
		return sql.ErrNoRows
	}
	req.ID = s.id()
	req.CreatedAt = s.now()
	stored := *req
	if req.CategoryID != nil {
		id := *req.CategoryID
		stored.CategoryID = &id
	}
	s.requests[req.ID] = stored
	return nil
}

func (s *Storage) GetRequestByID(_ context.Context, id int) (*model.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s.hydrate(r), nil
}

func (s *Storage) filter(match func(model.ServiceRequest) bool, limit int) []*model.ServiceRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*model.ServiceRequest{}
	for _, r := range s.requests {
		if match(r) {
			out = append(out, s.hydrate(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Storage) ListRequests(_ context.Context) ([]*model.ServiceRequest, error) {
	return s.filter(func(model.ServiceRequest) bool { return true }, 0), nil
}

func (s *Storage) ListRequestsByUser(_ context.Context, userID int) ([]*model.ServiceRequest, error) {
	return s.filter(func(r model.ServiceRequest) bool { return r.UserID == userID }, 0), nil
}

func (s *Storage) ListRequestsByStatus(_ context.Context, status model.Status, limit int) ([]*model.ServiceRequest, error) {
	return s.filter(func(r model.ServiceRequest) bool { return r.Status == status }, limit), nil
}

func (s *Storage) CountRequestsByStatus(_ context.Context, status model.Status) (int, error) {
	return len(s.filter(func(r model.ServiceRequest) bool { return r.Status == status }, 0)), nil
}

func (s *Storage) UpdateRequestStatus(_ context.Context, id int, status model.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	s.requests[id] = r
	return nil
}

func (s *Storage) DeleteRequest(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.requests, id)
	return nil
}
