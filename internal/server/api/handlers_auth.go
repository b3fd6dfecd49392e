package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vmelnikov/picshare/internal/common"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}

	user, err := s.auth.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			respondMessage(w, http.StatusBadRequest, "Email already in use")
			return
		}
		s.logger.Error(r.Context(), "signup failed", "error", err.Error())
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Signup successful",
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	pair, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			// Same message whether the email exists or the password is
			// wrong, to avoid account enumeration.
			respondMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err.Error())
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":      "Login successful",
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondMessage(w, http.StatusUnauthorized, "Refresh token is missing")
		return
	}

	accessToken, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			respondMessage(w, http.StatusForbidden, "Invalid or expired refresh token")
		case errors.Is(err, common.ErrInvalidToken):
			respondMessage(w, http.StatusForbidden, "Invalid refresh token")
		default:
			s.logger.Error(r.Context(), "refresh failed", "error", err.Error())
			respondMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"accessToken": accessToken})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondMessage(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	if err := s.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		s.logger.Error(r.Context(), "logout failed", "error", err.Error())
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondMessage(w, http.StatusOK, "Logout successful")
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := s.auth.DeleteAccount(r.Context(), id.UserID); err != nil {
		s.logger.Error(r.Context(), "account deletion failed", "userID", id.UserID, "error", err.Error())
		respondMessage(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	respondMessage(w, http.StatusOK, "Account deleted successfully")
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	profile, err := s.auth.Profile(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			respondMessage(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Error(r.Context(), "user lookup failed", "userID", id.UserID, "error", err.Error())
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var avatar any
	if profile.AvatarURL != "" {
		avatar = profile.AvatarURL
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"username": profile.Username,
		"avatar":   avatar,
	})
}
