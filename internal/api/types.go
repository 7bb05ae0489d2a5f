package api

import (
	"strings"
	"time"

	"github.com/joestump/linkpage/internal/store"
)

// --- Auth types ---

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"correct-horse-battery"`
	Email    string `json:"email,omitempty" example:"alice@example.com"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"correct-horse-battery"`
}

// LoginResponse carries a signed access token.
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type" example:"Bearer"`
	ExpiresAt time.Time `json:"expires_at"`
}

// --- User types ---

// UserResponse is the caller's own account. The password hash is never included.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PublicProfileResponse is what anyone can see at GET /users/{username}.
type PublicProfileResponse struct {
	Username string         `json:"username"`
	Name     string         `json:"name"`
	Bio      string         `json:"bio"`
	Avatar   string         `json:"avatar"`
	Links    []LinkResponse `json:"links"`
}

// UpdateProfileRequest is the request body for PUT /users/me. Omitted fields
// are left unchanged; an empty string clears the field.
type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty"`
	Bio    *string `json:"bio,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

func (req UpdateProfileRequest) toUpdate() store.ProfileUpdate {
	return store.ProfileUpdate{
		Name:   trimmed(req.Name),
		Bio:    req.Bio,
		Avatar: trimmed(req.Avatar),
	}
}

// --- Link types ---

// CreateLinkRequest is the request body for POST /links. imageUrl is
// accepted as an alias of image_url.
type CreateLinkRequest struct {
	Title         string `json:"title" example:"My blog"`
	URL           string `json:"url" example:"https://blog.example.com"`
	ImageURL      string `json:"image_url,omitempty" example:"https://blog.example.com/icon.png"`
	ImageURLAlias string `json:"imageUrl,omitempty" swaggerignore:"true"`
}

func (req CreateLinkRequest) toLink(ownerID string) *store.Link {
	image := req.ImageURL
	if image == "" {
		image = req.ImageURLAlias
	}
	return &store.Link{
		UserID:   ownerID,
		Title:    strings.TrimSpace(req.Title),
		URL:      strings.TrimSpace(req.URL),
		ImageURL: strings.TrimSpace(image),
	}
}

// UpdateLinkRequest is the request body for PUT /links/{id}. Omitted fields
// are left unchanged.
type UpdateLinkRequest struct {
	Title         *string `json:"title,omitempty"`
	URL           *string `json:"url,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
	ImageURLAlias *string `json:"imageUrl,omitempty" swaggerignore:"true"`
}

func (req UpdateLinkRequest) toUpdate() store.LinkUpdate {
	image := req.ImageURL
	if image == nil {
		image = req.ImageURLAlias
	}
	return store.LinkUpdate{
		Title:    trimmed(req.Title),
		URL:      trimmed(req.URL),
		ImageURL: trimmed(image),
	}
}

// LinkResponse is the JSON representation of a single link.
type LinkResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toLinkResponse(l *store.Link) LinkResponse {
	return LinkResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Title:     l.Title,
		URL:       l.URL,
		ImageURL:  l.ImageURL,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toLinkResponses(links []*store.Link) []LinkResponse {
	out := make([]LinkResponse, 0, len(links))
	for _, l := range links {
		out = append(out, toLinkResponse(l))
	}
	return out
}

// --- Health ---

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
