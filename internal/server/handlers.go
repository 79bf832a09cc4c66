package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/matchpoint-app/matchpoint/internal/profile"
	"github.com/matchpoint-app/matchpoint/internal/store"
)

const maxAudioUpload = 25 << 20

// handleCreateProfile is the submission flow: optional transcription, model
// analysis, then persistence. Any failure before CreateUser leaves the
// session unauthenticated and nothing stored.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, kindValidation, "could not parse form")
		return
	}

	age, _ := strconv.Atoi(r.FormValue("age"))
	bio := strings.TrimSpace(r.FormValue("bio"))

	// An uploaded recording replaces the typed bio; a failed transcription
	// does not fall back to it.
	if file, fh, err := r.FormFile("audio"); err == nil {
		defer file.Close()

		data, readErr := io.ReadAll(file)
		if readErr != nil {
			writeError(w, http.StatusBadRequest, kindValidation, "could not read audio upload")
			return
		}

		ctx, cancel := s.callCtx(r)
		transcript, trErr := s.transcriber.Transcribe(ctx, data, fh.Header.Get("Content-Type"))
		cancel()
		if trErr != nil {
			writeError(w, http.StatusUnprocessableEntity, kindTranscription,
				"failed to transcribe audio, please try again or type your bio")
			return
		}
		bio = transcript
	}

	if bio == "" {
		writeError(w, http.StatusBadRequest, kindValidation,
			"please provide a bio either by text or audio")
		return
	}

	user := &profile.User{
		Name:   strings.TrimSpace(r.FormValue("name")),
		Age:    age,
		Gender: strings.TrimSpace(r.FormValue("gender")),
		Bio:    bio,
	}
	if err := user.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, err.Error())
		return
	}

	ctx, cancel := s.callCtx(r)
	analysis, err := s.analyzer.AnalyzeProfile(ctx, bio)
	cancel()
	if err != nil {
		s.logger.Warn("profile analysis failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, kindAnalysis,
			"failed to analyze profile, please try again")
		return
	}

	user.PersonalityTraits = analysis.PersonalityTraits
	user.Interests = analysis.Interests
	user.Values = analysis.Values
	user.LookingFor = analysis.LookingFor

	created, err := s.store.CreateUser(r.Context(), user)
	if err != nil {
		s.logger.Error("creating user record", zap.Error(err))
		writeError(w, http.StatusInternalServerError, kindStorage,
			"failed to create profile, please try again")
		return
	}

	sess := s.sessions.create()
	sess.mu.Lock()
	sess.profile = created
	sess.mu.Unlock()
	setSessionCookie(w, sess)

	s.logger.Info("profile created",
		zap.String("user_id", created.ID),
		zap.String("session_id", sess.id),
	)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sess := s.activeSession(r)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, kindUnauthorized, "no profile for this session")
		return
	}

	sess.mu.Lock()
	current := sess.profile
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	sess := s.activeSession(r)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, kindUnauthorized, "no profile for this session")
		return
	}

	matches, err := s.cachedOrComputedMatches(r, sess)
	if err != nil {
		writeError(w, http.StatusInternalServerError, kindStorage, "failed to load matches")
		return
	}
	writeJSON(w, http.StatusOK, matchList{Matches: matches})
}

// handleRefreshMatches drops the cached list first, so the recompute sees
// profiles stored since the last pass.
func (s *Server) handleRefreshMatches(w http.ResponseWriter, r *http.Request) {
	sess := s.activeSession(r)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, kindUnauthorized, "no profile for this session")
		return
	}

	sess.InvalidateMatches()
	matches, err := s.cachedOrComputedMatches(r, sess)
	if err != nil {
		writeError(w, http.StatusInternalServerError, kindStorage, "failed to load matches")
		return
	}
	writeJSON(w, http.StatusOK, matchList{Matches: matches})
}

func (s *Server) handleSelectMatch(w http.ResponseWriter, r *http.Request) {
	sess := s.activeSession(r)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, kindUnauthorized, "no profile for this session")
		return
	}

	id := mux.Vars(r)["id"]

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var selected *Match
	for _, m := range sess.matches {
		if m.User.ID == id {
			selected = m
			break
		}
	}
	if selected == nil {
		writeError(w, http.StatusNotFound, kindNotFound, "no such match in the current list")
		return
	}

	sess.currentChat = id
	writeJSON(w, http.StatusOK, map[string]string{"chatting_with": id})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, kindNotFound, "user not found")
			return
		}
		s.logger.Error("fetching user record", zap.String("user_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, kindStorage, "failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// cachedOrComputedMatches returns the session's list, computing and caching
// it when absent.
func (s *Server) cachedOrComputedMatches(r *http.Request, sess *session) ([]*Match, error) {
	sess.mu.Lock()
	cached := sess.matches
	current := sess.profile
	sess.mu.Unlock()

	if cached != nil {
		return cached, nil
	}

	ctx, cancel := s.callCtx(r)
	defer cancel()

	matches, err := s.computeMatches(ctx, current)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.matches = matches
	sess.mu.Unlock()
	return matches, nil
}
