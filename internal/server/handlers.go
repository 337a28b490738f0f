package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"grn-daily/internal/admin"
	"grn-daily/internal/blob"
	"grn-daily/internal/model"
	"grn-daily/internal/news"
	"grn-daily/internal/store"
	"grn-daily/internal/view"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (s *Server) handleFrontPage(w http.ResponseWriter, r *http.Request) {
	current, err := s.repo.ListCurrent(r.Context())
	if err != nil {
		s.renderError(w, err)
		return
	}

	page := view.BuildFrontPage(current)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.FrontPageHTML(page, time.Now()).Render(w); err != nil {
		s.logger.Error("render failed", zap.Error(err))
	}
}

func (s *Server) handleCatalogue(w http.ResponseWriter, r *http.Request) {
	merged, err := s.repo.ListMerged(r.Context())
	if err != nil {
		s.renderError(w, err)
		return
	}

	category := r.URL.Query().Get("category")
	entries := view.FilterCatalogue(view.BuildCatalogue(merged), category)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.CatalogueHTML(entries, category).Render(w); err != nil {
		s.logger.Error("render failed", zap.Error(err))
	}
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["category"]
	category := model.NormalizeCategory(raw)
	if !category.Valid() {
		http.NotFound(w, r)
		return
	}

	articles, err := s.repo.ListByCategory(r.Context(), raw)
	if err != nil {
		s.renderError(w, err)
		return
	}

	expanded := r.URL.Query().Get("expand") == "1"
	page := view.BuildCategoryPage(category, articles, expanded)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.CategoryPageHTML(page).Render(w); err != nil {
		s.logger.Error("render failed", zap.Error(err))
	}
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	tagged, err := s.repo.Get(r.Context(), id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.ArticleHTML(tagged.Article, tagged.Status).Render(w); err != nil {
		s.logger.Error("render failed", zap.Error(err))
	}
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	err := s.subs.Subscribe(r.Context(), email)

	var vErr *news.ValidationError
	if err != nil && !errors.As(err, &vErr) {
		s.renderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
	}
	if renderErr := view.SubscribeResultHTML(email, err).Render(w); renderErr != nil {
		s.logger.Error("render failed", zap.Error(renderErr))
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) == 0 {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	actor := r.FormValue("name")
	if actor == "" {
		actor = "admin"
	}

	session, err := s.sessions.Create(r.Context(), actor)
	if err != nil {
		s.renderError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogout(actor string, w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			s.logger.Warn("session destroy failed", zap.String("actor", actor), zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminList feeds the console both collections, tagged, so it can
// render its Current/Archived tabs from one request.
func (s *Server) handleAdminList(actor string, w http.ResponseWriter, r *http.Request) {
	merged, err := s.repo.ListMerged(r.Context())
	if err != nil {
		s.renderError(w, err)
		return
	}
	writeJSON(w, merged)
}

func (s *Server) handleCreate(actor string, w http.ResponseWriter, r *http.Request) {
	input, image, err := parseArticleForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := s.admin.Create(r.Context(), actor, *input, image)
	if err != nil {
		s.renderError(w, err)
		return
	}
	writeJSON(w, map[string]string{"id": id})
}

func (s *Server) handleEdit(actor string, w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	upd, image, err := parseArticleUpdateForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.admin.Edit(r.Context(), actor, id, *upd, image); err != nil {
		s.renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleArchive(actor string, w http.ResponseWriter, r *http.Request) {
	if r.FormValue("confirm") != "true" {
		http.Error(w, "archiving requires confirmation", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	if err := s.admin.Archive(r.Context(), actor, id); err != nil {
		s.renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(actor string, w http.ResponseWriter, r *http.Request) {
	if r.FormValue("confirm") != "true" {
		http.Error(w, "deleting requires confirmation", http.StatusBadRequest)
		return
	}

	// The target collection is explicit, never inferred.
	var fromArchived bool
	switch r.FormValue("from") {
	case "current":
		fromArchived = false
	case "archived":
		fromArchived = true
	default:
		http.Error(w, `"from" must be "current" or "archived"`, http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	if err := s.admin.Delete(r.Context(), actor, id, fromArchived); err != nil {
		s.renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubscribers(actor string, w http.ResponseWriter, r *http.Request) {
	subs, err := s.subs.ListAll(r.Context())
	if err != nil {
		s.renderError(w, err)
		return
	}
	writeJSON(w, subs)
}

// renderError maps error kinds to status codes and messages specific
// enough for the caller to act on.
func (s *Server) renderError(w http.ResponseWriter, err error) {
	var vErr *news.ValidationError
	switch {
	case errors.As(err, &vErr):
		http.Error(w, vErr.Reason, http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "article not found", http.StatusNotFound)
	case errors.Is(err, store.ErrIndexRequired):
		s.logger.Error("query needs a composite index", zap.Error(err))
		http.Error(w, "the store needs an index for this category query; create it and reload", http.StatusInternalServerError)
	case errors.Is(err, blob.ErrUploadFailed):
		s.logger.Error("upload failed", zap.Error(err))
		http.Error(w, "image upload failed, please re-submit", http.StatusServiceUnavailable)
	case errors.Is(err, store.ErrUnavailable):
		s.logger.Error("store unavailable", zap.Error(err))
		http.Error(w, "storage is unavailable, please re-submit", http.StatusServiceUnavailable)
	default:
		s.logger.Error("request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// parseArticleForm reads a create request: article fields plus an
// optional image part.
func parseArticleForm(r *http.Request) (*news.ArticleInput, *admin.ImageUpload, error) {
	if err := parseForm(r); err != nil {
		return nil, nil, err
	}

	input := &news.ArticleInput{
		Title:     r.FormValue("title"),
		Subtitle:  r.FormValue("subtitle"),
		Author:    r.FormValue("author"),
		Body:      r.FormValue("body"),
		Category:  r.FormValue("category"),
		ImageURL:  r.FormValue("imageUrl"),
		Placement: r.FormValue("placement"),
	}

	image, err := parseImage(r)
	if err != nil {
		return nil, nil, err
	}
	return input, image, nil
}

// parseArticleUpdateForm reads an edit request. Only fields present in
// the form are merged; everything else stays as stored.
func parseArticleUpdateForm(r *http.Request) (*news.ArticleUpdate, *admin.ImageUpload, error) {
	if err := parseForm(r); err != nil {
		return nil, nil, err
	}

	upd := &news.ArticleUpdate{}
	field := func(name string) *string {
		if vals, ok := r.Form[name]; ok && len(vals) > 0 {
			v := vals[0]
			return &v
		}
		return nil
	}
	upd.Title = field("title")
	upd.Subtitle = field("subtitle")
	upd.Author = field("author")
	upd.Body = field("body")
	upd.Category = field("category")
	upd.ImageURL = field("imageUrl")
	upd.Placement = field("placement")

	image, err := parseImage(r)
	if err != nil {
		return nil, nil, err
	}
	return upd, image, nil
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(16 << 20)
	}
	return r.ParseForm()
}

func parseImage(r *http.Request) (*admin.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &admin.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
