package api

import (
	"encoding/json"
	"time"
)

type Empty struct{}

type Account struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	AuthProvider string `json:"auth_provider"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionResponse answers Signup, Login, Refresh and FederatedLogin.
type SessionResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	User         *Account `json:"user"`
}

// RevokedResponse reports how many refresh tokens an operation revoked.
type RevokedResponse struct {
	Revoked int64 `json:"revoked"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type FederatedLoginURLRequest struct {
	State string `json:"state"`
}

type FederatedLoginURLResponse struct {
	URL string `json:"url"`
}

type FederatedLoginRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

type Attachment struct {
	Type     string `json:"type"`
	Content  string `json:"content,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type SendMessageRequest struct {
	ThreadID string          `json:"thread_id,omitempty"`
	Message  string          `json:"message"`
	Context  json.RawMessage `json:"context,omitempty"`
}

type SendMessageResponse struct {
	ThreadID    string       `json:"thread_id"`
	Intent      string       `json:"intent"`
	Response    string       `json:"response"`
	Attachments []Attachment `json:"attachments"`
	// EvictedThreadID names the conversation removed to make room, if any.
	EvictedThreadID string `json:"evicted_thread_id,omitempty"`
}

type Thread struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID          string          `json:"id"`
	Role        string          `json:"role"`
	Content     string          `json:"content"`
	Intent      string          `json:"intent,omitempty"`
	Attachments json.RawMessage `json:"attachments,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ListConversationsRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListConversationsResponse struct {
	Threads      []Thread `json:"threads"`
	StorageUsed  int64    `json:"storage_used"`
	StorageLimit int64    `json:"storage_limit"`
}

type ThreadRequest struct {
	ThreadID string `json:"thread_id"`
}

type GetConversationResponse struct {
	Thread   Thread    `json:"thread"`
	Messages []Message `json:"messages"`
}

type CreateConversationRequest struct {
	Title string `json:"title,omitempty"`
}

type RenameConversationRequest struct {
	ThreadID string `json:"thread_id"`
	Title    string `json:"title"`
}

type ThreadResponse struct {
	Thread Thread `json:"thread"`
}

// ProfileResponse carries the profile document; an account without one gets
// an empty object.
type ProfileResponse struct {
	Profile   json.RawMessage `json:"profile"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

type PutProfileRequest struct {
	Profile json.RawMessage `json:"profile"`
}
