/*
Package handler provides HTTP handler functions for user authentication and management.
*/
package handler

import (
	"errors"
	"net/http"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"dmchat/internal/app/model"
	"dmchat/internal/app/store"
	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/req"
	"dmchat/internal/pkg/resp"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]{4,20}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// HandleRegister processes the request to create a new user account.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identity := jwt.GetPayloadFromContext(r); identity != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !usernameRegex.MatchString(input.Username) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUsername))
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < 6 || passwordLen > 50 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		user, err := deps.Store.CreateUser(r.Context(), store.NewUser{
			Username:     input.Username,
			Email:        input.Email,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			PasswordHash: string(hashedPassword),
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				logx.Warn("registration conflict: username or email already exists", "username", input.Username)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "failed to create user")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		respondWithToken(w, r, deps, user)
	}
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin verifies user credentials and issues a JWT token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identity := jwt.GetPayloadFromContext(r); identity != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, err := deps.Store.GetUserByUsername(r.Context(), input.Username)
		if err != nil {
			logx.Warn("login: user fetch failed", "username", input.Username, "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "username", input.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		respondWithToken(w, r, deps, user)
	}
}

// HandleLogout terminates the caller's session. Any live WebSocket connection
// is evicted through the hub, which runs the ordinary teardown: registry
// removal, offline persistence, offline broadcast.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if deps.Hub.DisconnectUser(identity.ID, "Signed out.") {
			logx.Info("logout: live connection evicted", "user_id", identity.ID)
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// respondWithToken issues a fresh identity token and returns it with the user record.
func respondWithToken(w http.ResponseWriter, r *http.Request, deps *AppDeps, user model.User) {
	payload := &jwt.Payload{
		ID:       user.ID,
		Username: user.Username,
	}

	tokenString, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.UserIdentityExpiration)
	if err != nil {
		logx.Error(err, "failed to generate identity token", "user_id", user.ID)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	resp.RespondSuccess(w, r, map[string]any{
		"token": tokenString,
		"user":  user,
	})
}
