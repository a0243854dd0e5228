package scraper

import (
	"context"

	"iglikes/pkg/instagram"
)

// Platform is the part of the Instagram client the scraper drives.
// *instagram.Client satisfies it.
type Platform interface {
	Login(ctx context.Context, username, password string) error
	ResolveUserID(ctx context.Context, username string) (string, error)
	ListUserPosts(ctx context.Context, userID string, limit int) ([]instagram.Post, error)
	ListLikers(ctx context.Context, mediaID string) ([]instagram.Liker, error)
}

var _ Platform = (*instagram.Client)(nil)
