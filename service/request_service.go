// file: service/request_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"service-desk/logger"
	"service-desk/model"
	"service-desk/repository"
	"service-desk/validation"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	landingCacheKey = "landing"
	landingCacheTTL = time.Minute
	landingSize     = 4
)

// IPhotoStore stores validated photo bytes and hands back a retrievable path.
type IPhotoStore interface {
	Save(content []byte, ext string) (string, error)
	Remove(name string) error
}

// RequestService drives the lifecycle of service requests.
type RequestService struct {
	requests      repository.IRequestRepository
	categories    repository.ICategoryRepository
	photos        IPhotoStore
	cache         ICacheClient
	policy        AccessPolicy
	maxPhotoBytes int64
}

func NewRequestService(
	requests repository.IRequestRepository,
	categories repository.ICategoryRepository,
	photos IPhotoStore,
	cache ICacheClient,
	policy AccessPolicy,
	maxPhotoBytes int64,
) *RequestService {
	return &RequestService{
		requests:      requests,
		categories:    categories,
		photos:        photos,
		cache:         cache,
		policy:        policy,
		maxPhotoBytes: maxPhotoBytes,
	}
}

// Create stores a new request owned by actor with status "new". Nothing is
// written unless every field is valid.
func (s *RequestService) Create(ctx context.Context, actor *model.User, in model.CreateRequestInput) (*model.ServiceRequest, error) {
	if err := s.policy.Authorize(actor, ActionCreateRequest); err != nil {
		return nil, err
	}

	errs := validation.CreateRequest(in, s.maxPhotoBytes)
	if in.CategoryID != nil {
		if _, err := s.categories.GetCategoryByID(ctx, *in.CategoryID); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("could not load category: %w", err)
			}
			errs.Add("category", validation.InvalidChoice, "Select a valid choice. That choice is not one of the available choices.")
		}
	}
	if !errs.Empty() {
		return nil, errs
	}

	req := &model.ServiceRequest{
		UserID:      actor.ID,
		Username:    actor.Username,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		Status:      model.StatusNew,
	}

	if in.Photo != nil {
		ext, _ := validation.PhotoExtension(in.Photo.Content)
		name, err := s.photos.Save(in.Photo.Content, ext)
		if err != nil {
			return nil, err
		}
		req.Photo = name
	}

	if err := s.requests.CreateRequest(ctx, req); err != nil {
		if req.Photo != "" {
			if rmErr := s.photos.Remove(req.Photo); rmErr != nil {
				logger.Log.WithError(rmErr).WithField("path", req.Photo).Warn("Failed to remove orphaned photo")
			}
		}
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	s.invalidateLanding(ctx)
	logger.Log.WithFields(logrus.Fields{
		"request_id": req.ID,
		"user_id":    actor.ID,
	}).Info("Request created")
	return req, nil
}

// List returns every request for administrators and the actor's own
// requests for everyone else, newest first.
func (s *RequestService) List(ctx context.Context, actor *model.User) ([]*model.ServiceRequest, error) {
	if err := s.policy.Authorize(actor, ActionViewOwnRequests); err != nil {
		return nil, err
	}
	if s.policy.Can(actor, ActionViewAllRequests) {
		return s.requests.ListRequests(ctx)
	}
	return s.requests.ListRequestsByUser(ctx, actor.ID)
}

func (s *RequestService) Get(ctx context.Context, id int) (*model.ServiceRequest, error) {
	req, err := s.requests.GetRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// ChangeStatus moves a request to any status. Administrators only.
func (s *RequestService) ChangeStatus(ctx context.Context, actor *model.User, id int, in model.ChangeStatusInput) (*model.ServiceRequest, error) {
	if err := s.policy.Authorize(actor, ActionChangeStatus); err != nil {
		return nil, err
	}

	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if errs := validation.ChangeStatus(in); !errs.Empty() {
		return nil, errs
	}

	if err := s.requests.UpdateRequestStatus(ctx, id, in.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not update request status: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"request_id": id,
		"from":       req.Status,
		"to":         in.Status,
		"admin_id":   actor.ID,
	}).Info("Request status changed")

	req.Status = in.Status
	s.invalidateLanding(ctx)
	return req, nil
}

// Delete removes a request permanently. Administrators only.
func (s *RequestService) Delete(ctx context.Context, actor *model.User, id int) error {
	if err := s.policy.Authorize(actor, ActionDeleteRequest); err != nil {
		return err
	}

	req, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requests.DeleteRequest(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("could not delete request: %w", err)
	}
	if req.Photo != "" {
		if err := s.photos.Remove(req.Photo); err != nil {
			logger.Log.WithError(err).WithField("path", req.Photo).Warn("Failed to remove photo of deleted request")
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"request_id": id,
		"admin_id":   actor.ID,
	}).Info("Request deleted")
	s.invalidateLanding(ctx)
	return nil
}

// Landing returns the public summary, using a cache-aside strategy.
func (s *RequestService) Landing(ctx context.Context) (*model.Landing, error) {
	if cached, err := s.cache.Get(ctx, landingCacheKey).Result(); err == nil {
		var landing model.Landing
		if err := json.Unmarshal([]byte(cached), &landing); err == nil {
			return &landing, nil
		}
	}

	completed, err := s.requests.ListRequestsByStatus(ctx, model.StatusCompleted, landingSize)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.requests.CountRequestsByStatus(ctx, model.StatusInProgress)
	if err != nil {
		return nil, err
	}
	landing := &model.Landing{CompletedRequests: completed, InProgressCount: inProgress}

	if data, err := json.Marshal(landing); err == nil {
		if err := s.cache.Set(ctx, landingCacheKey, data, landingCacheTTL).Err(); err != nil {
			logger.Log.WithError(err).Warn("Failed to cache landing summary")
		}
	}
	return landing, nil
}

func (s *RequestService) invalidateLanding(ctx context.Context) {
	invalidateLanding(ctx, s.cache)
}

func invalidateLanding(ctx context.Context, cache ICacheClient) {
	if err := cache.Del(ctx, landingCacheKey).Err(); err != nil {
		logger.Log.WithError(err).Warn("Failed to invalidate landing cache")
	}
}
