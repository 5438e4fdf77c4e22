package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Avatars keeps profile images under <keyprefix>/avatars/<userID>/.
type Avatars struct {
	store     Service
	bucket    string
	keyPrefix string
}

func NewAvatars(store Service, bucket, keyPrefix string) *Avatars {
	return &Avatars{
		store:     store,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
	}
}

func (a *Avatars) Upload(ctx context.Context, userID string, body io.Reader, contentType, ext string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	key := path.Join(a.userPrefix(userID), uuid.NewString()+ext)
	return a.store.PutObject(ctx, a.bucket, key, body, contentType)
}

// DeleteAll removes every avatar stored for userID.
func (a *Avatars) DeleteAll(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	return a.store.DeletePrefix(ctx, a.bucket, a.userPrefix(userID)+"/")
}

func (a *Avatars) userPrefix(userID string) string {
	if a.keyPrefix == "" {
		return path.Join("avatars", userID)
	}
	return path.Join(a.keyPrefix, "avatars", userID)
}
