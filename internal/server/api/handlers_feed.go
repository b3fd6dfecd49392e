package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vmelnikov/picshare/internal/common"
	"github.com/vmelnikov/picshare/internal/server/models"
)

// maxUploadSize caps the request body of multipart uploads (photos and
// avatars); bodies past it fail parsing with a 400.
const maxUploadSize = 10 << 20

type feedItemResponse struct {
	ID       int64   `json:"id"`
	URL      string  `json:"url,omitempty"`
	Text     string  `json:"text,omitempty"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
	Likes    int64   `json:"likes"`
}

type commentResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	entries, err := s.feed.Feed(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "feed fetch failed", "error", err.Error())
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	items := make([]feedItemResponse, 0, len(entries))
	for _, e := range entries {
		item := feedItemResponse{
			ID:       e.ID,
			URL:      e.URL,
			Text:     e.Text,
			Username: e.Username,
			Likes:    e.Likes,
		}
		if e.AvatarURL != "" {
			avatar := e.AvatarURL
			item.Avatar = &avatar
		}
		items = append(items, item)
	}

	respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	text := r.FormValue("text")

	var image []byte
	var contentType string
	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()
		if image, err = io.ReadAll(file); err != nil {
			respondMessage(w, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}
		contentType = header.Header.Get("Content-Type")
	case errors.Is(err, http.ErrMissingFile):
		// text-only post
	default:
		respondMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	entry, err := s.feed.UploadPhoto(r.Context(), id, text, image, contentType)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			respondMessage(w, http.StatusBadRequest, "A photo or some text is required")
			return
		}
		s.logger.Error(r.Context(), "photo upload failed", "userID", id.UserID, "error", err.Error())
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Photo uploaded successfully",
		"photo": map[string]any{
			"id":       entry.ID,
			"url":      entry.URL,
			"text":     entry.Text,
			"username": entry.Username,
		},
	})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	photoID, err := photoIDParam(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid photo id")
		return
	}

	list, err := s.feed.Comments(r.Context(), photoID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			respondMessage(w, http.StatusNotFound, "Photo not found")
			return
		}
		s.logger.Error(r.Context(), "comment listing failed", "photoID", photoID, "error", err.Error())
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, commentResponses(list))
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	photoID, err := photoIDParam(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid photo id")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Comment text is required")
		return
	}

	comment, err := s.feed.AddComment(r.Context(), photoID, id.UserID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			respondMessage(w, http.StatusBadRequest, "Comment text is required")
		case errors.Is(err, common.ErrNotFound):
			respondMessage(w, http.StatusNotFound, "Photo not found")
		default:
			s.logger.Error(r.Context(), "comment creation failed", "photoID", photoID, "error", err.Error())
			respondMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Comment added successfully",
		"comment": commentResponse{
			ID:       comment.ID,
			Username: id.Username,
			Text:     comment.Text,
		},
	})
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}

	photoID, err := photoIDParam(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid photo id")
		return
	}

	likes, err := s.feed.Like(r.Context(), photoID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			respondMessage(w, http.StatusNotFound, "Photo not found")
			return
		}
		s.logger.Error(r.Context(), "like failed", "photoID", photoID, "error", err.Error())
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"likes": likes})
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "An avatar image is required")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	url, err := s.feed.UploadAvatar(r.Context(), id.UserID, image, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			respondMessage(w, http.StatusBadRequest, "An avatar image is required")
			return
		}
		s.logger.Error(r.Context(), "avatar upload failed", "userID", id.UserID, "error", err.Error())
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Avatar updated successfully",
		"avatar":  url,
	})
}

func photoIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func commentResponses(list []*models.CommentWithAuthor) []commentResponse {
	out := make([]commentResponse, 0, len(list))
	for _, c := range list {
		out = append(out, commentResponse{ID: c.ID, Username: c.Username, Text: c.Text})
	}
	return out
}
