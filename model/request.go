// file: model/request.go

package model

// RegisterInput is the registration form. Password fields are compared and
// strength-checked by the validation package; they are never stored as-is.
type RegisterInput struct {
	Username        string `json:"username" form:"username" validate:"required,max=150,username"`
	Email           string `json:"email" form:"email" validate:"required,max=254,email"`
	DisplayName     string `json:"display_name" form:"display_name" validate:"max=100"`
	Password        string `json:"-" form:"password1" validate:"required"`
	PasswordConfirm string `json:"-" form:"password2" validate:"required"`
}

// LoginInput defines the payload for user authentication.
type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"-" form:"password" validate:"required"`
	Next     string `json:"next" form:"next"`
}

// ProfileInput is the profile edit form; only these three fields are editable.
type ProfileInput struct {
	Username    string `json:"username" form:"username" validate:"required,max=150,username"`
	Email       string `json:"email" form:"email" validate:"required,max=254,email"`
	DisplayName string `json:"display_name" form:"display_name" validate:"max=100"`
}

// PhotoUpload is an uploaded file as received at the HTTP boundary.
type PhotoUpload struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Content  []byte `json:"-"`
}

// CreateRequestInput carries only the submitter-controlled fields of a request.
// Owner and status are decided by the server.
type CreateRequestInput struct {
	Title       string       `json:"title" form:"title" validate:"required,max=200,trimmin=3"`
	Description string       `json:"description" form:"description" validate:"required,trimmin=10"`
	CategoryID  *int         `json:"category_id" form:"category"`
	Photo       *PhotoUpload `json:"photo,omitempty" form:"photo"`
}

// ChangeStatusInput is the administrator's status form.
type ChangeStatusInput struct {
	Status Status `json:"status" form:"status" validate:"required"`
}

// CategoryInput is used for both category creation and edits.
type CategoryInput struct {
	Name string `json:"name" form:"name" validate:"required,max=100,trimmin=2"`
}
