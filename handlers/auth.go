package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/readnest/backend/middleware"
	"github.com/readnest/backend/models"
	"github.com/readnest/backend/service"
	"github.com/readnest/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

type AuthHandler struct {
	DB        store.Store
	JWTSecret string
	// Mailer and AppBaseURL back the password-reset flow; Mailer may be
	// nil, in which case reset links are only logged.
	Mailer     *service.Mailer
	AppBaseURL string
	Logger     *zap.Logger
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Email = normalizeEmail(req.Email)

	existing, err := h.DB.UserByEmail(r.Context(), req.Email)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if existing != nil {
		respondError(w, http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondServerError(w, err)
		return
	}
	now := time.Now().UTC()
	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		Followers: []primitive.ObjectID{},
		Following: []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := h.DB.CreateUser(r.Context(), user)
	if errors.Is(err, store.ErrDuplicate) {
		// Lost the race with a concurrent registration for the same email.
		respondError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		respondServerError(w, err)
		return
	}
	user.ID = id

	token, err := middleware.NewToken(id, h.JWTSecret)
	if err != nil {
		respondServerError(w, err)
		return
	}
	respond(w, http.StatusCreated, authResponse{
		Message: "User created successfully",
		Token:   token,
		User:    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.DB.UserByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil {
		respondServerError(w, err)
		return
	}
	// Same message for unknown email and wrong password, to avoid account
	// enumeration.
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := middleware.NewToken(user.ID, h.JWTSecret)
	if err != nil {
		respondServerError(w, err)
		return
	}
	respond(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword always answers 200 so the response doesn't reveal
// whether an account exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	const reply = "If that account exists, a reset link has been sent"

	user, err := h.DB.UserByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil {
		respondServerError(w, err)
		return
	}
	if user == nil {
		respondMessage(w, http.StatusOK, reply)
		return
	}

	reset := &models.PasswordReset{
		User:      user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.DB.InsertPasswordReset(r.Context(), reset); err != nil {
		respondServerError(w, err)
		return
	}

	resetURL := strings.TrimRight(h.AppBaseURL, "/") + "/reset-password/" + reset.Token
	if h.Mailer != nil {
		// Mail failure is logged in the mailer; the caller still gets 200.
		_ = h.Mailer.SendPasswordReset(user.Email, user.Name, resetURL)
	} else {
		h.Logger.Info("mailer not configured, reset link not sent", zap.String("user", user.ID.Hex()))
	}
	respondMessage(w, http.StatusOK, reply)
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	reset, err := h.DB.PasswordResetByToken(r.Context(), req.Token)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if reset == nil || reset.Expired(time.Now().UTC()) {
		respondError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if err := h.DB.SetUserPassword(r.Context(), reset.User, string(hash)); err != nil {
		respondServerError(w, err)
		return
	}
	if err := h.DB.ConsumePasswordReset(r.Context(), reset.ID); err != nil {
		respondServerError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Password has been reset")
}
