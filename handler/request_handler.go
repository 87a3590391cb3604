package handler

import (
	"errors"
	"net/http"
	"service-desk/common"
	"service-desk/model"
	"service-desk/service"
	"service-desk/validation"
)

type statusChoice struct {
	Value model.Status `json:"value"`
	Label string       `json:"label"`
}

func statusChoices() []statusChoice {
	choices := make([]statusChoice, 0, len(model.Statuses))
	for _, s := range model.Statuses {
		choices = append(choices, statusChoice{Value: s, Label: s.Label()})
	}
	return choices
}

// uploadOverheadBytes is the room left above the photo limit for the other
// fields and multipart framing. A photo just over the limit still reaches
// validation and gets a field error.
const uploadOverheadBytes = 4 << 20

// RequestHandler serves the landing page and the request lifecycle pages.
type RequestHandler struct {
	requests      *service.RequestService
	categories    *service.CategoryService
	policy        service.AccessPolicy
	resp          *Responder
	maxPhotoBytes int64
}

func NewRequestHandler(requests *service.RequestService, categories *service.CategoryService, policy service.AccessPolicy, resp *Responder, maxPhotoBytes int64) *RequestHandler {
	if maxPhotoBytes <= 0 {
		maxPhotoBytes = validation.DefaultMaxPhotoBytes
	}
	return &RequestHandler{requests: requests, categories: categories, policy: policy, resp: resp, maxPhotoBytes: maxPhotoBytes}
}

// Index godoc
// @Summary      Landing page
// @Description  The four most recently completed requests and the number of requests in progress.
// @Tags         requests
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       / [get]
func (h *RequestHandler) Index(w http.ResponseWriter, r *http.Request) *common.AppError {
	landing, err := h.requests.Landing(r.Context())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not load landing page", err)
	}
	return h.resp.Render(w, r, http.StatusOK, Context{
		"completed_requests": landing.CompletedRequests,
		"inprogress_count":   landing.InProgressCount,
	})
}

func (h *RequestHandler) formContext(r *http.Request) (Context, *common.AppError) {
	categories, err := h.categories.Choices(r.Context())
	if err != nil {
		return nil, common.NewAppError(http.StatusInternalServerError, "Could not load categories", err)
	}
	return Context{"categories": categories}, nil
}

func (h *RequestHandler) CreateForm(w http.ResponseWriter, r *http.Request) *common.AppError {
	data, appErr := h.formContext(r)
	if appErr != nil {
		return appErr
	}
	return h.resp.Render(w, r, http.StatusOK, data)
}

// Create godoc
// @Summary      Submit a service request
// @Description  Owner and status are set by the server; status is always "new".
// @Tags         requests
// @Accept       multipart/form-data
// @Produce      json
// @Param        title       formData string  true  "Title"
// @Param        description formData string  true  "Description"
// @Param        category    formData integer false "Category id"
// @Param        photo       formData file    false "JPEG, PNG or BMP up to 2 MB"
// @Success      303
// @Failure      400  {object}  map[string]interface{} "Validation errors"
// @Failure      413  {object}  map[string]interface{} "Body too large"
// @Router       /requests/create/ [post]
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	if appErr := common.ParseLimitedForm(w, r, h.maxPhotoBytes+uploadOverheadBytes); appErr != nil {
		return appErr
	}
	photo, appErr := common.FormPhoto(r, "photo", h.maxPhotoBytes)
	if appErr != nil {
		return appErr
	}
	categoryID, categoryOK := common.OptionalInt(r, "category")
	in := model.CreateRequestInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		CategoryID:  categoryID,
		Photo:       photo,
	}

	var err error
	if categoryOK {
		_, err = h.requests.Create(r.Context(), ActorFrom(r.Context()), in)
	} else {
		errs := validation.CreateRequest(in, h.maxPhotoBytes)
		errs.Add("category", validation.InvalidChoice, "Select a valid choice. That choice is not one of the available choices.")
		err = errs
	}
	if err != nil {
		var errs validation.Errors
		if errors.As(err, &errs) {
			h.resp.Flash(r, model.FlashError, "Could not create the request. Please check the entered data.")
			data, appErr := h.formContext(r)
			if appErr != nil {
				return appErr
			}
			return h.resp.Fail(w, r, err, in, data)
		}
		return h.resp.Fail(w, r, err, in, nil)
	}
	return h.resp.Success(w, r, "/requests/my/", "Request created successfully!")
}

// MyRequests godoc
// @Summary      List requests
// @Description  Administrators see every request, other users only their own. Newest first.
// @Tags         requests
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /requests/my/ [get]
func (h *RequestHandler) MyRequests(w http.ResponseWriter, r *http.Request) *common.AppError {
	actor := ActorFrom(r.Context())
	requests, err := h.requests.List(r.Context(), actor)
	if err != nil {
		return h.resp.Fail(w, r, err, nil, nil)
	}
	return h.resp.Render(w, r, http.StatusOK, Context{
		"user_requests": requests,
		"is_admin":      actor.IsAdmin(),
	})
}

// adminRequest loads the request behind {id} after checking that the actor
// may perform action on it.
func (h *RequestHandler) adminRequest(w http.ResponseWriter, r *http.Request, action service.Action, denied string) (*model.ServiceRequest, bool, *common.AppError) {
	if err := h.policy.Authorize(ActorFrom(r.Context()), action); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			h.resp.Flash(r, model.FlashError, denied)
			http.Redirect(w, r, h.resp.URL("/requests/my/"), http.StatusFound)
			return nil, true, nil
		}
		return nil, true, h.resp.Fail(w, r, err, nil, nil)
	}
	id, appErr := common.PathID(r, "id")
	if appErr != nil {
		return nil, true, appErr
	}
	req, err := h.requests.Get(r.Context(), id)
	if err != nil {
		return nil, true, h.resp.Fail(w, r, err, nil, nil)
	}
	return req, false, nil
}

const (
	deleteDenied = "You do not have permission to delete requests. Only administrators can delete requests."
	statusDenied = "You do not have permission to change request status. Only administrators can change status."
)

func (h *RequestHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) *common.AppError {
	req, done, appErr := h.adminRequest(w, r, service.ActionDeleteRequest, deleteDenied)
	if done {
		return appErr
	}
	return h.resp.Render(w, r, http.StatusOK, Context{"request": req})
}

// Delete godoc
// @Summary      Delete a request
// @Tags         requests
// @Param        id path int true "Request id"
// @Success      303
// @Failure      302 "Not an administrator"
// @Failure      404  {object}  common.AppError
// @Router       /requests/{id}/delete/ [post]
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) *common.AppError {
	req, done, appErr := h.adminRequest(w, r, service.ActionDeleteRequest, deleteDenied)
	if done {
		return appErr
	}
	if err := h.requests.Delete(r.Context(), ActorFrom(r.Context()), req.ID); err != nil {
		return h.resp.Fail(w, r, err, nil, nil)
	}
	return h.resp.Success(w, r, "/requests/my/", "Request deleted successfully!")
}

func (h *RequestHandler) ChangeStatusForm(w http.ResponseWriter, r *http.Request) *common.AppError {
	req, done, appErr := h.adminRequest(w, r, service.ActionChangeStatus, statusDenied)
	if done {
		return appErr
	}
	return h.resp.Render(w, r, http.StatusOK, Context{
		"request_obj": req,
		"statuses":    statusChoices(),
		"input":       model.ChangeStatusInput{Status: req.Status},
	})
}

// ChangeStatus godoc
// @Summary      Change a request's status
// @Tags         requests
// @Accept       x-www-form-urlencoded
// @Param        id     path     int    true "Request id"
// @Param        status formData string true "new, inprogress or completed"
// @Success      303
// @Failure      302 "Not an administrator"
// @Failure      400  {object}  map[string]interface{} "Unknown status"
// @Failure      404  {object}  common.AppError
// @Router       /requests/{id}/change-status/ [post]
func (h *RequestHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) *common.AppError {
	req, done, appErr := h.adminRequest(w, r, service.ActionChangeStatus, statusDenied)
	if done {
		return appErr
	}
	if appErr := common.ParseForm(r); appErr != nil {
		return appErr
	}
	in := model.ChangeStatusInput{Status: model.Status(r.PostFormValue("status"))}

	if _, err := h.requests.ChangeStatus(r.Context(), ActorFrom(r.Context()), req.ID, in); err != nil {
		return h.resp.Fail(w, r, err, in, Context{"request_obj": req, "statuses": statusChoices()})
	}
	return h.resp.Success(w, r, "/requests/my/", "Request status changed successfully!")
}
