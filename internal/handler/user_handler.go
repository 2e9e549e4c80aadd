package handler

import (
	"context"
	"errors"
	"net/http"

	"dmchat/internal/app/model"
	"dmchat/internal/app/store"
	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/req"
	"dmchat/internal/pkg/resp"
)

// HandleListUsers returns every account except the caller's, for sidebar rendering.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return listUsersExcludingCaller(deps, func(ctx context.Context) ([]model.User, error) {
		return deps.Store.ListUsers(ctx)
	})
}

// HandleListOnlineUsers returns every currently online account except the caller's.
func HandleListOnlineUsers(deps *AppDeps) http.HandlerFunc {
	return listUsersExcludingCaller(deps, func(ctx context.Context) ([]model.User, error) {
		return deps.Store.ListOnlineUsers(ctx)
	})
}

func listUsersExcludingCaller(deps *AppDeps, list func(context.Context) ([]model.User, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		users, err := list(r.Context())
		if err != nil {
			logx.Error(err, "failed to list users")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		filtered := make([]model.User, 0, len(users))
		for _, u := range users {
			if u.ID != identity.ID {
				filtered = append(filtered, u)
			}
		}

		resp.RespondSuccess(w, r, filtered)
	}
}

// UpdateProfileInput carries optional profile fields; absent fields stay unchanged.
type UpdateProfileInput struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Email        *string `json:"email"`
	ProfilePhoto *string `json:"profilePhoto"`
}

// HandleUpdateProfile updates the caller's profile. The account id and
// password are not updatable through this route.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input UpdateProfileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Email != nil && !emailRegex.MatchString(*input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		user, err := deps.Store.UpdateUser(r.Context(), identity.ID, store.UserUpdate{
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			Email:        input.Email,
			ProfilePhoto: input.ProfilePhoto,
		})
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			case errors.Is(err, store.ErrDuplicate):
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
			default:
				logx.Error(err, "failed to update profile", "user_id", identity.ID)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			}
			return
		}

		resp.RespondSuccess(w, r, user)
	}
}
