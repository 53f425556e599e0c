package services

import (
	"testing"

	"gorm.io/gorm"

	"inkwell/internal/testutil"
)

// env wires every service against a fresh in-memory database.
type env struct {
	db      *gorm.DB
	feed    *FeedService
	subs    *SubscriptionService
	content *ContentService
	groups  *GroupService
	auth    *AuthService
	media   *MediaStore
}

func newEnv(t *testing.T, perPage int) *env {
	t.Helper()
	gdb := testutil.NewDB(t)
	reg := NewRegistry(gdb, perPage, t.TempDir())

	return &env{
		db:      gdb,
		feed:    reg.Feed,
		subs:    reg.Subs,
		content: reg.Content,
		groups:  reg.Groups,
		auth:    reg.Auth,
		media:   reg.Media,
	}
}

var gifPixel = testutil.GIFPixel
