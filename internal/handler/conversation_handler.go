package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dmchat/internal/app/store"
	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/resp"
)

// HandleListConversations returns the caller's conversations, newest activity
// first, each with the other participant and the most recent message.
func HandleListConversations(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		conversations, err := deps.Store.ListUserConversations(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "failed to list conversations", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, conversations)
	}
}

// HandleConversationMessages returns the chronological message history with
// the user named in the URL. The conversation is created on first access, so
// opening an empty thread and fetching history after an offline send both
// behave the same way.
func HandleConversationMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		otherUserID := chi.URLParam(r, "userId")
		if otherUserID == "" || otherUserID == identity.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		conversation, err := store.GetOrCreateConversation(r.Context(), deps.Store, identity.ID, otherUserID)
		if err != nil {
			logx.Error(err, "failed to resolve conversation",
				"user_id", identity.ID, "other_user_id", otherUserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		messages, err := deps.Store.ListMessages(r.Context(), conversation.ID)
		if err != nil {
			logx.Error(err, "failed to list messages", "conversation_id", conversation.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"conversation": conversation,
			"messages":     messages,
		})
	}
}
