package handler

import (
	"errors"
	"net/http"
	"service-desk/common"
	"service-desk/logger"
	"service-desk/model"
	"service-desk/service"
	"service-desk/validation"
)

const loginRedirectPath = "/accounts/profile/"

// AccountHandler serves login, logout, registration and profile pages.
type AccountHandler struct {
	auth     *service.AuthService
	sessions *service.SessionService
	cookies  *SessionMiddleware
	resp     *Responder
}

func NewAccountHandler(auth *service.AuthService, sessions *service.SessionService, cookies *SessionMiddleware, resp *Responder) *AccountHandler {
	return &AccountHandler{auth: auth, sessions: sessions, cookies: cookies, resp: resp}
}

// LoginForm godoc
// @Summary      Login page context
// @Tags         accounts
// @Produce      json
// @Param        next query string false "Path to return to after login"
// @Success      200  {object}  map[string]interface{}
// @Router       /accounts/login/ [get]
func (h *AccountHandler) LoginForm(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.resp.Render(w, r, http.StatusOK, Context{"next": r.URL.Query().Get("next")})
}

// Login godoc
// @Summary      Authenticate and start a session
// @Tags         accounts
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username formData string true "Username"
// @Param        password formData string true "Password"
// @Param        next     formData string false "Path to return to"
// @Success      303
// @Failure      400  {object}  map[string]interface{} "Invalid credentials"
// @Router       /accounts/login/ [post]
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	if appErr := common.ParseForm(r); appErr != nil {
		return appErr
	}
	in := model.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Next:     r.FormValue("next"),
	}

	user, err := h.auth.Authenticate(r.Context(), in)
	if errors.Is(err, service.ErrInvalidCredentials) {
		errs := validation.Errors{}
		errs.Add("__all__", validation.InvalidLogin,
			"Please enter a correct username and password. Note that both fields may be case-sensitive.")
		return h.resp.Invalid(w, r, errs, in, Context{"next": in.Next})
	}
	if err != nil {
		return h.resp.Fail(w, r, err, in, Context{"next": in.Next})
	}

	token, expiresAt, err := h.sessions.Start(r.Context(), user)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not start session", err)
	}
	h.cookies.setAuthCookie(w, token, expiresAt)
	logger.Log.WithField("user_id", user.ID).Info("User logged in")

	if safeNext(in.Next) {
		http.Redirect(w, r, in.Next, http.StatusSeeOther)
		return nil
	}
	return h.resp.Redirect(w, r, loginRedirectPath)
}

// Logout godoc
// @Summary      End the current session
// @Tags         accounts
// @Success      303
// @Router       /accounts/logout/ [post]
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	if c, err := r.Cookie(AuthCookie); err == nil && c.Value != "" {
		if err := h.sessions.End(r.Context(), c.Value); err != nil && !errors.Is(err, service.ErrInvalidSession) {
			logger.Log.WithError(err).Warn("Failed to revoke session")
		}
	}
	h.cookies.clearAuthCookie(w)
	return h.resp.Redirect(w, r, "/")
}

// Profile godoc
// @Summary      Current user's profile
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /accounts/profile/ [get]
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.resp.Render(w, r, http.StatusOK, Context{"profile": ActorFrom(r.Context())})
}

func (h *AccountHandler) ProfileForm(w http.ResponseWriter, r *http.Request) *common.AppError {
	actor := ActorFrom(r.Context())
	return h.resp.Render(w, r, http.StatusOK, Context{"input": model.ProfileInput{
		Username:    actor.Username,
		Email:       actor.Email,
		DisplayName: actor.DisplayName,
	}})
}

// ChangeProfile godoc
// @Summary      Update username, email and display name
// @Tags         accounts
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username     formData string true  "Username"
// @Param        email        formData string true  "Email"
// @Param        display_name formData string false "Display name"
// @Success      303
// @Failure      400  {object}  map[string]interface{} "Validation errors"
// @Router       /accounts/profile/change/ [post]
func (h *AccountHandler) ChangeProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	if appErr := common.ParseForm(r); appErr != nil {
		return appErr
	}
	in := model.ProfileInput{
		Username:    r.PostFormValue("username"),
		Email:       r.PostFormValue("email"),
		DisplayName: r.PostFormValue("display_name"),
	}

	if _, err := h.auth.UpdateProfile(r.Context(), ActorFrom(r.Context()), in); err != nil {
		return h.resp.Fail(w, r, err, in, nil)
	}
	return h.resp.Success(w, r, "/accounts/profile/", "Profile updated successfully.")
}

func (h *AccountHandler) RegisterForm(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.resp.Render(w, r, http.StatusOK, nil)
}

// Register godoc
// @Summary      Create an account
// @Tags         accounts
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username     formData string true  "Username"
// @Param        email        formData string true  "Email"
// @Param        display_name formData string false "Display name"
// @Param        password1    formData string true  "Password"
// @Param        password2    formData string true  "Password confirmation"
// @Success      303
// @Failure      400  {object}  map[string]interface{} "Validation errors"
// @Router       /accounts/register/ [post]
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	if appErr := common.ParseForm(r); appErr != nil {
		return appErr
	}
	in := model.RegisterInput{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		DisplayName:     r.PostFormValue("display_name"),
		Password:        r.PostFormValue("password1"),
		PasswordConfirm: r.PostFormValue("password2"),
	}

	if _, err := h.auth.Register(r.Context(), in); err != nil {
		return h.resp.Fail(w, r, err, in, nil)
	}
	return h.resp.Success(w, r, "/", "Registration successful! You can now log in.")
}
