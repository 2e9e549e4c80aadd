package handler

import (
	"dmchat/internal/app/chat"
	"dmchat/internal/app/storage"
	"dmchat/internal/app/store"
	"dmchat/internal/configs"
)

// AppDeps bundles the collaborators the HTTP handlers need. Files is nil when
// S3 is not configured; the upload endpoints respond with a storage error.
type AppDeps struct {
	Hub    *chat.Hub
	Config *configs.AppConfig
	Store  store.Store
	Files  storage.StorageService
}
