// file: service/mocks_test.go

package service

import (
	"context"
	"os"
	"service-desk/logger"
	"service-desk/model"
	"testing"

	"github.com/stretchr/testify/mock"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) UsernameTaken(ctx context.Context, username string, excludeID int) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) EmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type mockRequestRepo struct{ mock.Mock }

func (m *mockRequestRepo) CreateRequest(ctx context.Context, req *model.ServiceRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockRequestRepo) GetRequestByID(ctx context.Context, id int) (*model.ServiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ServiceRequest), args.Error(1)
}

func (m *mockRequestRepo) ListRequests(ctx context.Context) ([]*model.ServiceRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.ServiceRequest), args.Error(1)
}

func (m *mockRequestRepo) ListRequestsByUser(ctx context.Context, userID int) ([]*model.ServiceRequest, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*model.ServiceRequest), args.Error(1)
}

func (m *mockRequestRepo) ListRequestsByStatus(ctx context.Context, status model.Status, limit int) ([]*model.ServiceRequest, error) {
	args := m.Called(ctx, status, limit)
	return args.Get(0).([]*model.ServiceRequest), args.Error(1)
}

func (m *mockRequestRepo) CountRequestsByStatus(ctx context.Context, status model.Status) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *mockRequestRepo) UpdateRequestStatus(ctx context.Context, id int, status model.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockRequestRepo) DeleteRequest(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) ListCategories(ctx context.Context) ([]*model.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *mockCategoryRepo) GetCategoryByID(ctx context.Context, id int) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *mockCategoryRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepo) UpdateCategory(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepo) DeleteCategory(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPhotoStore struct{ mock.Mock }

func (m *mockPhotoStore) Save(content []byte, ext string) (string, error) {
	args := m.Called(content, ext)
	return args.String(0), args.Error(1)
}

func (m *mockPhotoStore) Remove(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

var (
	adminUser   = &model.User{ID: 1, Username: "admin", IsActive: true, IsStaff: true}
	rootUser    = &model.User{ID: 2, Username: "root", IsActive: true, IsSuperuser: true}
	regularUser = &model.User{ID: 3, Username: "ivan", IsActive: true}
)
