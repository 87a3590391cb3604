// file: model/service_request.go

package model

import "time"

type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "inprogress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusNew, StatusInProgress, StatusCompleted}

var statusLabels = map[Status]string{
	StatusNew:        "New",
	StatusInProgress: "In progress",
	StatusCompleted:  "Completed",
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	return statusLabels[s]
}

// ServiceRequest is a request submitted by a user and triaged by administrators.
// UserID and CreatedAt never change after creation.
type ServiceRequest struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CategoryID   *int      `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	Photo        string    `json:"photo,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Landing is the public summary shown on the index page.
type Landing struct {
	CompletedRequests []*ServiceRequest `json:"completed_requests"`
	InProgressCount   int               `json:"inprogress_count"`
}
