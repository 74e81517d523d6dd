// Package user reads and writes the signed-in user's profile, including the
// server-side record of the active workspace.
package user

import (
	"context"
	"net/http"
	"strings"

	"github.com/louisbranch/taskspace/internal/services/web/apiclient"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
	"github.com/louisbranch/taskspace/internal/services/web/schema"
)

// User is the signed-in user's profile.
type User struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	AvatarURL         string `json:"avatarUrl,omitempty"`
	ActiveWorkspaceID string `json:"activeWorkspaceId,omitempty"`
}

// ActiveWorkspace is the workspace selection stored on the profile.
type ActiveWorkspace struct {
	WorkspaceID string `json:"workspaceId"`
}

// ProfileInput patches the profile; nil fields are left unchanged.
type ProfileInput struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (in ProfileInput) Normalize() (ProfileInput, error) {
	var check schema.Checker
	in.Name = check.OptionalName("name", in.Name, schema.MaxNameLength)
	if in.Email != nil {
		email := check.Email("email", *in.Email)
		in.Email = &email
	}
	return in, check.Err()
}

// Avatar is an image upload.
type Avatar struct {
	Name        string
	ContentType string
	Data        []byte
}

func (a Avatar) Normalize() (Avatar, error) {
	var check schema.Checker
	check.Upload("file", a.Data, schema.MaxAvatarBytes)
	a.ContentType = strings.ToLower(strings.TrimSpace(a.ContentType))
	if !strings.HasPrefix(a.ContentType, "image/") {
		check.Fail("file", "must be an image")
	}
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		a.Name = "avatar"
	}
	return a, check.Err()
}

type Service struct {
	api apiclient.Caller
}

func NewService(api apiclient.Caller) *Service {
	return &Service{api: api}
}

// Me returns the caller's profile.
func (s *Service) Me(ctx context.Context) (User, error) {
	return resource.Get[User](ctx, s.api, apiclient.Path("users", "me"), nil)
}

// ActiveWorkspace returns the workspace selection stored on the profile.
func (s *Service) ActiveWorkspace(ctx context.Context) (ActiveWorkspace, error) {
	return resource.Get[ActiveWorkspace](ctx, s.api, apiclient.Path("users", "me", "active-workspace"), nil)
}

func (s *Service) UpdateProfile(ctx context.Context, in ProfileInput) (User, error) {
	in, err := in.Normalize()
	if err != nil {
		return User{}, err
	}
	return resource.Send[User](ctx, s.api, http.MethodPatch, apiclient.Path("users", "me"), in)
}

// SetActiveWorkspace records the workspace selection on the profile.
func (s *Service) SetActiveWorkspace(ctx context.Context, workspaceID string) (User, error) {
	workspaceID, err := schema.RequireID("workspaceId", workspaceID)
	if err != nil {
		return User{}, err
	}
	return resource.Send[User](ctx, s.api, http.MethodPatch, apiclient.Path("users", "me", "active-workspace"),
		ActiveWorkspace{WorkspaceID: workspaceID})
}

// UploadAvatar sends the image as multipart form data with an explicit bearer
// token, which the upload endpoint requires.
func (s *Service) UploadAvatar(ctx context.Context, bearer string, avatar Avatar) (User, error) {
	avatar, err := avatar.Normalize()
	if err != nil {
		return User{}, err
	}
	var out User
	err = s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   apiclient.Path("users", "me", "avatar"),
		Multipart: &apiclient.Multipart{
			Files: []apiclient.File{{
				Field:       "file",
				Name:        avatar.Name,
				ContentType: avatar.ContentType,
				Data:        avatar.Data,
			}},
		},
		Bearer: bearer,
	}, &out)
	return out, err
}
