package handler

import (
	"net/http"
	"service-desk/common"
	"service-desk/model"
	"service-desk/service"
)

// CategoryHandler serves the category management pages.
type CategoryHandler struct {
	categories *service.CategoryService
	resp       *Responder
}

func NewCategoryHandler(categories *service.CategoryService, resp *Responder) *CategoryHandler {
	return &CategoryHandler{categories: categories, resp: resp}
}

// List godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /categories/ [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) *common.AppError {
	categories, err := h.categories.List(r.Context(), ActorFrom(r.Context()))
	if err != nil {
		return h.resp.Fail(w, r, err, nil, nil)
	}
	return h.resp.Render(w, r, http.StatusOK, Context{"categories": categories})
}

func (h *CategoryHandler) CreateForm(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.resp.Render(w, r, http.StatusOK, nil)
}

// Create godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       x-www-form-urlencoded
// @Param        name formData string true "Category name"
// @Success      303
// @Failure      400  {object}  map[string]interface{} "Validation errors"
// @Router       /categories/create/ [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	if appErr := common.ParseForm(r); appErr != nil {
		return appErr
	}
	in := model.CategoryInput{Name: r.PostFormValue("name")}

	if _, err := h.categories.Create(r.Context(), ActorFrom(r.Context()), in); err != nil {
		return h.resp.Fail(w, r, err, in, nil)
	}
	return h.resp.Success(w, r, "/categories/", "Category created successfully!")
}

func (h *CategoryHandler) category(w http.ResponseWriter, r *http.Request) (*model.Category, *common.AppError, bool) {
	id, appErr := common.PathID(r, "id")
	if appErr != nil {
		return nil, appErr, false
	}
	category, err := h.categories.Get(r.Context(), ActorFrom(r.Context()), id)
	if err != nil {
		return nil, h.resp.Fail(w, r, err, nil, nil), false
	}
	return category, nil, true
}

func (h *CategoryHandler) EditForm(w http.ResponseWriter, r *http.Request) *common.AppError {
	category, appErr, ok := h.category(w, r)
	if !ok {
		return appErr
	}
	return h.resp.Render(w, r, http.StatusOK, Context{
		"category": category,
		"input":    model.CategoryInput{Name: category.Name},
	})
}

// Edit godoc
// @Summary      Rename a category
// @Tags         categories
// @Accept       x-www-form-urlencoded
// @Param        id   path     int    true "Category id"
// @Param        name formData string true "Category name"
// @Success      303
// @Failure      400  {object}  map[string]interface{} "Validation errors"
// @Failure      404  {object}  common.AppError
// @Router       /categories/{id}/edit/ [post]
func (h *CategoryHandler) Edit(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := common.PathID(r, "id")
	if appErr != nil {
		return appErr
	}
	if appErr := common.ParseForm(r); appErr != nil {
		return appErr
	}
	in := model.CategoryInput{Name: r.PostFormValue("name")}

	if _, err := h.categories.Update(r.Context(), ActorFrom(r.Context()), id, in); err != nil {
		return h.resp.Fail(w, r, err, in, Context{"category": model.Category{ID: id}})
	}
	return h.resp.Success(w, r, "/categories/", "Category updated successfully!")
}

func (h *CategoryHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) *common.AppError {
	category, appErr, ok := h.category(w, r)
	if !ok {
		return appErr
	}
	return h.resp.Render(w, r, http.StatusOK, Context{"category": category})
}

// Delete godoc
// @Summary      Delete a category
// @Description  Requests that used the category keep existing without one.
// @Tags         categories
// @Param        id path int true "Category id"
// @Success      303
// @Failure      404  {object}  common.AppError
// @Router       /categories/{id}/delete/ [post]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := common.PathID(r, "id")
	if appErr != nil {
		return appErr
	}
	if err := h.categories.Delete(r.Context(), ActorFrom(r.Context()), id); err != nil {
		return h.resp.Fail(w, r, err, nil, nil)
	}
	return h.resp.Success(w, r, "/categories/", "Category deleted successfully!")
}
