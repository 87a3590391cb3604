// file: validation/forms.go

package validation

import (
	"service-desk/model"
)

// Register validates the registration form. Username and email uniqueness
// need storage and are checked by the account service.
func Register(in model.RegisterInput) Errors {
	errs := Struct(in)

	if in.Password != "" {
		for _, fe := range Password(in.Password, in.Username, in.Email, in.DisplayName) {
			errs.Add("password1", fe.Code, fe.Message)
		}
	}
	if in.Password != "" && in.PasswordConfirm != "" && in.Password != in.PasswordConfirm {
		errs.Add("password2", Mismatch, "The two password fields didn't match.")
	}
	return errs
}

func Profile(in model.ProfileInput) Errors {
	return Struct(in)
}

// CreateRequest validates a request submission. The category reference is
// resolved by the caller.
func CreateRequest(in model.CreateRequestInput, maxPhotoBytes int64) Errors {
	errs := Struct(in)
	for _, fe := range Photo(in.Photo, maxPhotoBytes) {
		errs.Add("photo", fe.Code, fe.Message)
	}
	return errs
}

func Category(in model.CategoryInput) Errors {
	return Struct(in)
}

func ChangeStatus(in model.ChangeStatusInput) Errors {
	errs := Struct(in)
	if in.Status != "" && !in.Status.Valid() {
		errs.Add("status", InvalidChoice, "Select a valid choice. "+string(in.Status)+" is not one of the available choices.")
	}
	return errs
}
