package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/foxseedlab/monogatarun/internal/repository"
	"github.com/foxseedlab/monogatarun/internal/session"
)

// SessionService is the part of the session manager the API exposes.
type SessionService interface {
	View(ctx context.Context, userID string) (session.ViewResult, error)
	Start(ctx context.Context, userID string, input session.StartInput) (*session.Snapshot, error)
	SavedSessions(ctx context.Context, userID string) ([]repository.Session, error)
	Get(ctx context.Context, userID, sessionID string) (*session.Snapshot, error)
	Resume(ctx context.Context, userID, sessionID string) (*session.Snapshot, error)
	Pause(ctx context.Context, userID string) (*session.Snapshot, error)
	UpdateSpeed(ctx context.Context, userID string, speedMPH float64) (*session.Snapshot, error)
	End(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, sessionID string) error
	Summary(ctx context.Context, userID, sessionID string) (string, error)
	Speak(ctx context.Context, userID string, chapterNumber int) (session.SpeakResult, error)
	PlaybackDone(ctx context.Context, userID string) error
	PlaybackStop(ctx context.Context, userID string) error
	CurrentSessionID(ctx context.Context, userID string) (string, error)
}

type Handlers struct {
	svc SessionService
}

func NewHandlers(svc SessionService) *Handlers {
	return &Handlers{svc: svc}
}

// Routes builds the full router, including auth on everything under /api.
func Routes(h *Handlers, jwtSecret string, authDisabled bool) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(Auth(jwtSecret, authDisabled))

		r.Get("/view", h.GetView)

		r.Post("/sessions", h.StartSession)
		r.Get("/sessions", h.ListSavedSessions)
		r.Get("/sessions/{id}", h.GetSession)
		r.Patch("/sessions/{id}", h.UpdateSpeed)
		r.Delete("/sessions/{id}", h.DeleteSession)
		r.Post("/sessions/{id}/resume", h.ResumeSession)
		r.Post("/sessions/{id}/pause", h.PauseSession)
		r.Post("/sessions/{id}/end", h.EndSession)
		r.Get("/sessions/{id}/summary", h.SessionSummary)
		r.Post("/sessions/{id}/speak", h.SpeakChapter)
		r.Post("/sessions/{id}/playback/done", h.PlaybackDone)
		r.Post("/sessions/{id}/playback/stop", h.PlaybackStop)
	})
	return r
}

// requireCurrent checks that the session in the path is the user's current
// one before a current-session operation runs.
func (h *Handlers) requireCurrent(w http.ResponseWriter, r *http.Request) bool {
	currentID, err := h.svc.CurrentSessionID(r.Context(), UserID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return false
	}
	if currentID != chi.URLParam(r, "id") {
		writeError(w, http.StatusConflict, "session is not the current session")
		return false
	}
	return true
}

func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.View(r.Context(), UserID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type startSessionRequest struct {
	Name          string                 `json:"name"`
	Genre         string                 `json:"genre"`
	Plot          string                 `json:"plot"`
	TriggerType   repository.TriggerType `json:"triggerType"`
	IsCarpoolMode bool                   `json:"isCarpoolMode"`
}

func (h *Handlers) StartSession(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[startSessionRequest](w, r)
	if !ok {
		return
	}
	snap, err := h.svc.Start(r.Context(), UserID(r.Context()), session.StartInput{
		Name:          req.Name,
		Genre:         req.Genre,
		Plot:          req.Plot,
		TriggerType:   req.TriggerType,
		IsCarpoolMode: req.IsCarpoolMode,
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *Handlers) ListSavedSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.SavedSessions(r.Context(), UserID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if sessions == nil {
		sessions = []repository.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Get(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type updateSpeedRequest struct {
	Speed float64 `json:"speed"`
}

func (h *Handlers) UpdateSpeed(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[updateSpeedRequest](w, r)
	if !ok {
		return
	}
	if !h.requireCurrent(w, r) {
		return
	}
	snap, err := h.svc.UpdateSpeed(r.Context(), UserID(r.Context()), req.Speed)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ResumeSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Resume(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handlers) PauseSession(w http.ResponseWriter, r *http.Request) {
	if !h.requireCurrent(w, r) {
		return
	}
	snap, err := h.svc.Pause(r.Context(), UserID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handlers) EndSession(w http.ResponseWriter, r *http.Request) {
	if !h.requireCurrent(w, r) {
		return
	}
	if err := h.svc.End(r.Context(), UserID(r.Context())); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SessionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		if isSessionError(err) {
			writeSessionError(w, err)
			return
		}
		writeError(w, http.StatusBadGateway, "summary generation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

type speakRequest struct {
	ChapterNumber int `json:"chapterNumber"`
}

func (h *Handlers) SpeakChapter(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[speakRequest](w, r)
	if !ok {
		return
	}
	if !h.requireCurrent(w, r) {
		return
	}
	result, err := h.svc.Speak(r.Context(), UserID(r.Context()), req.ChapterNumber)
	if err != nil {
		if isSessionError(err) {
			writeSessionError(w, err)
			return
		}
		writeError(w, http.StatusBadGateway, "narration synthesis failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) PlaybackDone(w http.ResponseWriter, r *http.Request) {
	if !h.requireCurrent(w, r) {
		return
	}
	if err := h.svc.PlaybackDone(r.Context(), UserID(r.Context())); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) PlaybackStop(w http.ResponseWriter, r *http.Request) {
	if !h.requireCurrent(w, r) {
		return
	}
	if err := h.svc.PlaybackStop(r.Context(), UserID(r.Context())); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
