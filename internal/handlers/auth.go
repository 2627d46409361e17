package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/crucial707/blog-api/internal/auth"
	"github.com/crucial707/blog-api/internal/events"
	"github.com/crucial707/blog-api/internal/metrics"
	"github.com/crucial707/blog-api/internal/repo"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	msgCredentialsRequired = "username and password required"
	msgUsernameTaken       = "username already exists"
	msgInvalidCredentials  = "invalid username or password"
	msgPasswordTooLong     = "password too long"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo *repo.UserRepo
	Tokens   *auth.TokenManager
	Events   events.Publisher
}

type credentials struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required"`
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	if err := validate.Struct(input); err != nil {
		fields := fieldErrors(err)
		msg := "validation failed"
		if fields["username"] == "required" || fields["password"] == "required" {
			msg = msgCredentialsRequired
		}
		writeError(w, r, ValidationError(msg, fields))
		return
	}
	// bcrypt's limit is in bytes, not runes.
	if len(input.Password) > auth.MaxPasswordBytes {
		writeError(w, r, ValidationError(msgPasswordTooLong, map[string]string{
			"password": fmt.Sprintf("max=%d bytes", auth.MaxPasswordBytes),
		}))
		return
	}

	digest, err := auth.HashPassword(input.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.UserRepo.Create(r.Context(), input.Username, digest)
	if err != nil {
		if errors.Is(err, repo.ErrUsernameTaken) {
			writeError(w, r, ConflictError(msgUsernameTaken))
			return
		}
		writeError(w, r, err)
		return
	}

	metrics.IncCreated("user")
	publisher(h.Events).Publish(r.Context(), events.Event{
		Type:   events.UserRegistered,
		ID:     user.ID,
		UserID: user.ID,
	})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"msg":  "User registered successfully",
		"user": user,
	})
}

// ==========================
// Login
// ==========================
// Unknown usernames and wrong passwords get the same status, message, and a bcrypt
// comparison of similar cost, so responses do not reveal which usernames exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.UserRepo.GetByUsername(r.Context(), input.Username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		writeError(w, r, err)
		return
	}

	digest := dummyDigest()
	if user != nil {
		digest = user.PasswordHash
	}
	if !auth.CheckPassword(input.Password, digest) || user == nil {
		metrics.IncAuthFailure("login")
		slog.Info("login failed", "request_id", chimw.GetReqID(r.Context()))
		writeError(w, r, AuthError(msgInvalidCredentials))
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// dummyDigest is compared against when the username is unknown.
func dummyDigest() string {
	dummyOnce.Do(func() {
		dummyHash, _ = auth.HashPassword("not-a-real-password")
	})
	return dummyHash
}

func publisher(p events.Publisher) events.Publisher {
	if p == nil {
		return events.Nop{}
	}
	return p
}
