// file: repository/request_repository.go

package repository

import (
	"context"
	"database/sql"
	"service-desk/logger"
	"service-desk/model"

	"github.com/sirupsen/logrus"
)

// IRequestRepository defines the contract for service request storage.
// Every listing is ordered newest first.
type IRequestRepository interface {
	CreateRequest(ctx context.Context, req *model.ServiceRequest) error
	GetRequestByID(ctx context.Context, id int) (*model.ServiceRequest, error)
	ListRequests(ctx context.Context) ([]*model.ServiceRequest, error)
	ListRequestsByUser(ctx context.Context, userID int) ([]*model.ServiceRequest, error)
	ListRequestsByStatus(ctx context.Context, status model.Status, limit int) ([]*model.ServiceRequest, error)
	CountRequestsByStatus(ctx context.Context, status model.Status) (int, error)
	UpdateRequestStatus(ctx context.Context, id int, status model.Status) error
	DeleteRequest(ctx context.Context, id int) error
}

type RequestRepository struct {
	DB *sql.DB
}

func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{DB: db}
}

const selectRequests = `
	SELECT r.id, r.user_id, u.username, r.title, r.description, r.category_id, COALESCE(c.name, ''),
		COALESCE(r.photo, ''), r.status, r.created_at
	FROM service_requests r
	JOIN users u ON u.id = r.user_id
	LEFT JOIN categories c ON c.id = r.category_id`

func scanRequest(row rowScanner) (*model.ServiceRequest, error) {
	var (
		req        model.ServiceRequest
		categoryID sql.NullInt64
	)
	err := row.Scan(&req.ID, &req.UserID, &req.Username, &req.Title, &req.Description, &categoryID,
		&req.CategoryName, &req.Photo, &req.Status, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := int(categoryID.Int64)
		req.CategoryID = &id
	}
	return &req, nil
}

func (r *RequestRepository) list(ctx context.Context, log *logrus.Entry, query string, args ...interface{}) ([]*model.ServiceRequest, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute list requests query")
		return nil, err
	}
	defer rows.Close()

	requests := []*model.ServiceRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan request row")
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// CreateRequest inserts req and fills in its ID and creation time.
func (r *RequestRepository) CreateRequest(ctx context.Context, req *model.ServiceRequest) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":     req.UserID,
		"category_id": req.CategoryID,
		"status":      req.Status,
	})
	log.Info("Executing query to create a new request")

	var photo sql.NullString
	if req.Photo != "" {
		photo = sql.NullString{String: req.Photo, Valid: true}
	}

	query := `INSERT INTO service_requests (user_id, title, description, category_id, photo, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, req.UserID, req.Title, req.Description, req.CategoryID, photo, req.Status).
		Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create request query")
		return err
	}
	return nil
}

func (r *RequestRepository) GetRequestByID(ctx context.Context, id int) (*model.ServiceRequest, error) {
	req, err := scanRequest(r.DB.QueryRowContext(ctx, selectRequests+` WHERE r.id = $1`, id))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("request_id", id).Error("Failed to execute get request query")
		}
		return nil, err
	}
	return req, nil
}

// ListRequests returns every request in the system. For administrators only.
func (r *RequestRepository) ListRequests(ctx context.Context) ([]*model.ServiceRequest, error) {
	log := logger.Log.WithField("scope", "all")
	log.Info("Executing query to list all requests")
	return r.list(ctx, log, selectRequests+` ORDER BY r.created_at DESC, r.id DESC`)
}

func (r *RequestRepository) ListRequestsByUser(ctx context.Context, userID int) ([]*model.ServiceRequest, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to list requests by user")
	return r.list(ctx, log, selectRequests+` WHERE r.user_id = $1 ORDER BY r.created_at DESC, r.id DESC`, userID)
}

func (r *RequestRepository) ListRequestsByStatus(ctx context.Context, status model.Status, limit int) ([]*model.ServiceRequest, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"status": status,
		"limit":  limit,
	})
	log.Info("Executing query to list requests by status")
	return r.list(ctx, log, selectRequests+` WHERE r.status = $1 ORDER BY r.created_at DESC, r.id DESC LIMIT $2`, status, limit)
}

func (r *RequestRepository) CountRequestsByStatus(ctx context.Context, status model.Status) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM service_requests WHERE status = $1`, status).Scan(&n)
	if err != nil {
		logger.Log.WithError(err).WithField("status", status).Error("Failed to execute count requests query")
		return 0, err
	}
	return n, nil
}

func (r *RequestRepository) UpdateRequestStatus(ctx context.Context, id int, status model.Status) error {
	log := logger.Log.WithFields(logrus.Fields{
		"request_id": id,
		"status":     status,
	})
	log.Info("Executing query to update request status")

	res, err := r.DB.ExecContext(ctx, `UPDATE service_requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute update request status query")
		return err
	}
	return requireAffected(res)
}

func (r *RequestRepository) DeleteRequest(ctx context.Context, id int) error {
	log := logger.Log.WithField("request_id", id)
	log.Info("Executing query to delete request")

	res, err := r.DB.ExecContext(ctx, `DELETE FROM service_requests WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete request query")
		return err
	}
	return requireAffected(res)
}
