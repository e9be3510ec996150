package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/foxseedlab/monogatarun/internal/repository"
	"github.com/foxseedlab/monogatarun/internal/speech"
	"github.com/foxseedlab/monogatarun/internal/story"
)

const (
	tickInterval = time.Second
	// persistEveryTicks batches durable tick writes; up to four seconds
	// of progress can be lost on unclean shutdown.
	persistEveryTicks = 5
	persistTimeout    = 10 * time.Second
	// co2KgPerMile assumes the distance replaces an average passenger
	// car trip.
	co2KgPerMile = 0.404

	generationFailedMessage = "Could not generate the next chapter. Please try again later."
)

var (
	ErrNoActiveSession    = errors.New("no active session")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionNotEnded    = errors.New("session is not ended")
	ErrInvalidGenre       = errors.New("unsupported genre")
	ErrInvalidTriggerType = errors.New("trigger type must be time or distance")
	ErrInvalidSpeed       = errors.New("speed must be non-negative")
	ErrChapterNotFound    = errors.New("chapter not found")
)

// Genres is the list offered by the setup screen.
var Genres = []string{
	"Cyberpunk",
	"Fantasy",
	"Sci-Fi",
	"Mystery",
	"Horror",
	"Adventure",
	"Romance",
	"Western",
}

func IsSupportedGenre(genre string) bool {
	for _, g := range Genres {
		if g == genre {
			return true
		}
	}
	return false
}

type View string

const (
	ViewSetup     View = "setup"
	ViewActive    View = "active"
	ViewDashboard View = "dashboard"
)

type StartInput struct {
	Name          string
	Genre         string
	Plot          string
	TriggerType   repository.TriggerType
	IsCarpoolMode bool
}

type Snapshot struct {
	Session   repository.Session   `json:"session"`
	Chapters  []repository.Chapter `json:"chapters"`
	Playback  PlaybackState        `json:"playbackState"`
	LastError string               `json:"lastError,omitempty"`
}

type ViewResult struct {
	View   View                 `json:"view"`
	Active *Snapshot            `json:"active,omitempty"`
	Saved  []repository.Session `json:"savedSessions"`
}

type SpeakResult struct {
	AudioDataURI string `json:"audioDataUri,omitempty"`
	Cancelled    bool   `json:"cancelled"`
}

// Manager owns the in-memory state of every current session and the
// per-session tickers driving chapter triggers. The persisted store is the
// system of record; the in-memory copy is an optimistically updated cache.
type Manager struct {
	repo      repository.Repository
	generator story.Generator
	synth     speech.Synthesizer

	mu         sync.Mutex
	running    map[string]*runningSession
	reconciled map[string]struct{}

	spawn func(func())
}

type runningSession struct {
	session  *repository.Session
	chapters []repository.Chapter
	playback *PlaybackController
	// cancelTicker is non-nil only while the session status is active.
	cancelTicker context.CancelFunc
	lastError    string
}

func NewManager(repo repository.Repository, generator story.Generator, synth speech.Synthesizer) *Manager {
	return &Manager{
		repo:       repo,
		generator:  generator,
		synth:      synth,
		running:    make(map[string]*runningSession),
		reconciled: make(map[string]struct{}),
		spawn:      func(fn func()) { go fn() },
	}
}

// ensureReconciled loads the user's persisted current session into memory
// on first touch. At most one persisted session per user may be active or
// paused; that one becomes the running session and its ticker restarts if
// it was active.
func (m *Manager) ensureReconciled(ctx context.Context, userID string) error {
	m.mu.Lock()
	_, done := m.reconciled[userID]
	m.mu.Unlock()
	if done {
		return nil
	}

	current, err := m.repo.GetCurrentSession(ctx, userID)
	if err != nil {
		return fmt.Errorf("load current session: %w", err)
	}
	var chapters []repository.Chapter
	if current != nil {
		chapters, err = m.repo.ListChaptersBySessionID(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("load chapters: %w", err)
		}
	}

	m.mu.Lock()
	if _, done := m.reconciled[userID]; done {
		m.mu.Unlock()
		return nil
	}
	m.reconciled[userID] = struct{}{}
	if current == nil {
		m.mu.Unlock()
		return nil
	}
	rs := &runningSession{
		session:  current,
		chapters: chapters,
		playback: NewPlaybackController(m.synth),
	}
	m.running[userID] = rs
	slog.Info("reconciled current session", "user_id", userID, "session_id", current.ID, "status", current.Status)
	kickoff := false
	if current.Status == repository.SessionStatusActive {
		m.startTickerLocked(userID, rs)
		// An active session with no chapters lost its opening generation
		// to a failure or restart; start it over.
		if len(rs.chapters) == 0 && !current.IsGenerating {
			current.IsGenerating = true
			kickoff = true
		}
	}
	m.mu.Unlock()

	if kickoff {
		generating := true
		m.persistPatch(current.ID, repository.SessionPatch{IsGenerating: &generating})
		m.spawn(func() { m.generateChapter(userID, current.ID) })
	}
	return nil
}

// View resolves which screen the client should show.
func (m *Manager) View(ctx context.Context, userID string) (ViewResult, error) {
	if err := m.ensureReconciled(ctx, userID); err != nil {
		return ViewResult{}, err
	}

	m.mu.Lock()
	var active *Snapshot
	if rs, ok := m.running[userID]; ok {
		snap := m.snapshotLocked(rs)
		active = &snap
	}
	m.mu.Unlock()

	saved, err := m.repo.ListEndedSessions(ctx, userID)
	if err != nil {
		return ViewResult{}, fmt.Errorf("list ended sessions: %w", err)
	}

	view := ViewSetup
	switch {
	case active != nil:
		view = ViewActive
	case len(saved) > 0:
		view = ViewDashboard
	}
	return ViewResult{View: view, Active: active, Saved: saved}, nil
}

// Start creates a new active session, ending any prior current session
// first, and kicks off the opening chapter.
func (m *Manager) Start(ctx context.Context, userID string, input StartInput) (*Snapshot, error) {
	if !IsSupportedGenre(input.Genre) {
		return nil, ErrInvalidGenre
	}
	if input.TriggerType != repository.TriggerTypeTime && input.TriggerType != repository.TriggerTypeDistance {
		return nil, ErrInvalidTriggerType
	}
	if err := m.ensureReconciled(ctx, userID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	_, hasCurrent := m.running[userID]
	m.mu.Unlock()
	if hasCurrent {
		if err := m.End(ctx, userID); err != nil {
			return nil, fmt.Errorf("end previous session: %w", err)
		}
	}

	name := input.Name
	if name == "" {
		name = fmt.Sprintf("%s Journey - %s", input.Genre, time.Now().Format("2006-01-02"))
	}
	created, err := m.repo.CreateSession(ctx, repository.CreateSessionInput{
		UserID:              userID,
		Name:                name,
		Genre:               input.Genre,
		Plot:                input.Plot,
		TriggerType:         input.TriggerType,
		IsCarpoolMode:       input.IsCarpoolMode,
		StartedAt:           time.Now(),
		NextChapterDistance: InitialChapterDistance(input.TriggerType, input.IsCarpoolMode),
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	slog.Info("session started", "user_id", userID, "session_id", created.ID, "genre", created.Genre, "trigger_type", created.TriggerType)

	m.mu.Lock()
	rs := &runningSession{
		session:  created,
		playback: NewPlaybackController(m.synth),
	}
	m.running[userID] = rs
	m.startTickerLocked(userID, rs)
	// The first chapter starts generating immediately rather than waiting
	// for the first trigger.
	rs.session.IsGenerating = true
	snap := m.snapshotLocked(rs)
	m.mu.Unlock()

	generating := true
	m.persistPatch(created.ID, repository.SessionPatch{IsGenerating: &generating})
	m.spawn(func() { m.generateChapter(userID, created.ID) })
	return &snap, nil
}

// Resume reactivates an ended session as paused, ending any other current
// session first.
func (m *Manager) Resume(ctx context.Context, userID, sessionID string) (*Snapshot, error) {
	if err := m.ensureReconciled(ctx, userID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if rs, ok := m.running[userID]; ok && rs.session.ID == sessionID {
		snap := m.snapshotLocked(rs)
		m.mu.Unlock()
		return &snap, nil
	}
	_, hasOther := m.running[userID]
	m.mu.Unlock()
	if hasOther {
		if err := m.End(ctx, userID); err != nil {
			return nil, fmt.Errorf("end previous session: %w", err)
		}
	}

	target, err := m.repo.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if target == nil {
		return nil, ErrSessionNotFound
	}
	if target.Status != repository.SessionStatusEnded {
		return nil, ErrSessionNotEnded
	}

	paused := repository.SessionStatusPaused
	if err := m.repo.UpdateSession(ctx, sessionID, repository.SessionPatch{Status: &paused}); err != nil {
		return nil, fmt.Errorf("update session status: %w", err)
	}
	target.Status = paused

	chapters, err := m.repo.ListChaptersBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}
	slog.Info("session resumed", "user_id", userID, "session_id", sessionID, "chapters", len(chapters))

	m.mu.Lock()
	rs := &runningSession{
		session:  target,
		chapters: chapters,
		playback: NewPlaybackController(m.synth),
	}
	m.running[userID] = rs
	snap := m.snapshotLocked(rs)
	m.mu.Unlock()
	return &snap, nil
}

// Pause toggles the current session between active and paused.
func (m *Manager) Pause(ctx context.Context, userID string) (*Snapshot, error) {
	if err := m.ensureReconciled(ctx, userID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	rs, ok := m.running[userID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	var newStatus repository.SessionStatus
	switch rs.session.Status {
	case repository.SessionStatusActive:
		newStatus = repository.SessionStatusPaused
		m.stopTickerLocked(rs)
	case repository.SessionStatusPaused:
		newStatus = repository.SessionStatusActive
		m.startTickerLocked(userID, rs)
	default:
		m.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	rs.session.Status = newStatus
	sessionID := rs.session.ID
	// A session can reach active with no chapters when its opening
	// generation failed; kick it off again instead of waiting for the
	// first trigger.
	kickoff := newStatus == repository.SessionStatusActive &&
		len(rs.chapters) == 0 && !rs.session.IsGenerating
	if kickoff {
		rs.session.IsGenerating = true
		rs.lastError = ""
	}
	snap := m.snapshotLocked(rs)
	m.mu.Unlock()

	slog.Info("session status toggled", "user_id", userID, "session_id", sessionID, "status", newStatus)
	patch := repository.SessionPatch{Status: &newStatus}
	if kickoff {
		generating := true
		patch.IsGenerating = &generating
	}
	m.persistPatch(sessionID, patch)
	if kickoff {
		m.spawn(func() { m.generateChapter(userID, sessionID) })
	}
	return &snap, nil
}

// UpdateSpeed merges a client-reported speed into the current session.
func (m *Manager) UpdateSpeed(ctx context.Context, userID string, speedMPH float64) (*Snapshot, error) {
	if speedMPH < 0 {
		return nil, ErrInvalidSpeed
	}
	if err := m.ensureReconciled(ctx, userID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	rs, ok := m.running[userID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	rs.session.SpeedMPH = speedMPH
	sessionID := rs.session.ID
	snap := m.snapshotLocked(rs)
	m.mu.Unlock()

	m.persistPatch(sessionID, repository.SessionPatch{SpeedMPH: &speedMPH})
	return &snap, nil
}

// End marks the current session ended. Ended is terminal.
func (m *Manager) End(ctx context.Context, userID string) error {
	if err := m.ensureReconciled(ctx, userID); err != nil {
		return err
	}

	m.mu.Lock()
	rs, ok := m.running[userID]
	if !ok {
		m.mu.Unlock()
		return ErrNoActiveSession
	}
	m.stopTickerLocked(rs)
	rs.playback.Stop()
	sessionID := rs.session.ID
	elapsed := rs.session.ElapsedSeconds
	distance := rs.session.DistanceMiles
	delete(m.running, userID)
	m.mu.Unlock()

	slog.Info("session ended", "user_id", userID, "session_id", sessionID, "elapsed_seconds", elapsed, "distance_miles", distance)
	ended := repository.SessionStatusEnded
	if err := m.repo.UpdateSession(ctx, sessionID, repository.SessionPatch{
		Status:         &ended,
		ElapsedSeconds: &elapsed,
		DistanceMiles:  &distance,
	}); err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return nil
}

// Delete permanently removes an ended session and its chapters.
func (m *Manager) Delete(ctx context.Context, userID, sessionID string) error {
	if err := m.ensureReconciled(ctx, userID); err != nil {
		return err
	}

	m.mu.Lock()
	if rs, ok := m.running[userID]; ok && rs.session.ID == sessionID {
		m.mu.Unlock()
		return ErrSessionNotEnded
	}
	m.mu.Unlock()

	target, err := m.repo.GetSession(ctx, userID, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if target == nil {
		return ErrSessionNotFound
	}
	if target.Status != repository.SessionStatusEnded {
		return ErrSessionNotEnded
	}
	return m.repo.DeleteSession(ctx, userID, sessionID)
}

// Get returns a session with its ordered chapters.
func (m *Manager) Get(ctx context.Context, userID, sessionID string) (*Snapshot, error) {
	if err := m.ensureReconciled(ctx, userID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if rs, ok := m.running[userID]; ok && rs.session.ID == sessionID {
		snap := m.snapshotLocked(rs)
		m.mu.Unlock()
		return &snap, nil
	}
	m.mu.Unlock()

	target, err := m.repo.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if target == nil {
		return nil, ErrSessionNotFound
	}
	chapters, err := m.repo.ListChaptersBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}
	return &Snapshot{Session: *target, Chapters: chapters, Playback: PlaybackIdle}, nil
}

// SavedSessions lists the user's ended sessions for the dashboard.
func (m *Manager) SavedSessions(ctx context.Context, userID string) ([]repository.Session, error) {
	if err := m.ensureReconciled(ctx, userID); err != nil {
		return nil, err
	}
	return m.repo.ListEndedSessions(ctx, userID)
}

// Summary asks the model for a dashboard blurb of a session's stats.
func (m *Manager) Summary(ctx context.Context, userID, sessionID string) (string, error) {
	snap, err := m.Get(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}
	s := snap.Session
	var avgSpeed float64
	if s.ElapsedSeconds > 0 {
		avgSpeed = s.DistanceMiles / (float64(s.ElapsedSeconds) / 3600)
	}
	return m.generator.SessionSummary(ctx, story.SessionSummaryInput{
		AvgSpeedMPH:   avgSpeed,
		DistanceMiles: s.DistanceMiles,
		CO2SavedKg:    s.DistanceMiles * co2KgPerMile,
	})
}

// Speak narrates a chapter of the current session through the playback
// controller, caching fresh audio back onto the chapter record.
func (m *Manager) Speak(ctx context.Context, userID string, chapterNumber int) (SpeakResult, error) {
	if err := m.ensureReconciled(ctx, userID); err != nil {
		return SpeakResult{}, err
	}

	m.mu.Lock()
	rs, ok := m.running[userID]
	if !ok {
		m.mu.Unlock()
		return SpeakResult{}, ErrNoActiveSession
	}
	var chapterID, text, cached string
	found := false
	for _, c := range rs.chapters {
		if c.ChapterNumber == chapterNumber {
			chapterID, text, cached = c.ID, c.Text, c.AudioDataURI
			found = true
			break
		}
	}
	playback := rs.playback
	m.mu.Unlock()
	if !found {
		return SpeakResult{}, ErrChapterNotFound
	}

	uri, started, err := playback.Speak(ctx, text, cached)
	if err != nil {
		return SpeakResult{}, fmt.Errorf("synthesize chapter audio: %w", err)
	}
	if !started {
		return SpeakResult{Cancelled: true}, nil
	}

	if cached == "" {
		m.mu.Lock()
		if rs, ok := m.running[userID]; ok {
			for i := range rs.chapters {
				if rs.chapters[i].ID == chapterID {
					rs.chapters[i].AudioDataURI = uri
					break
				}
			}
		}
		m.mu.Unlock()
		if err := m.repo.UpdateChapterAudio(ctx, chapterID, uri); err != nil {
			slog.Warn("failed to cache chapter audio", "error", err, "chapter_id", chapterID)
		}
	}
	return SpeakResult{AudioDataURI: uri}, nil
}

// CurrentSessionID returns the ID of the user's current session.
func (m *Manager) CurrentSessionID(ctx context.Context, userID string) (string, error) {
	if err := m.ensureReconciled(ctx, userID); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rs, ok := m.running[userID]
	if !ok {
		return "", ErrNoActiveSession
	}
	return rs.session.ID, nil
}

// PlaybackDone records that the client finished playing the current audio.
func (m *Manager) PlaybackDone(ctx context.Context, userID string) error {
	playback, err := m.currentPlayback(ctx, userID)
	if err != nil {
		return err
	}
	playback.Done()
	return nil
}

// PlaybackStop stops any loading or playing narration.
func (m *Manager) PlaybackStop(ctx context.Context, userID string) error {
	playback, err := m.currentPlayback(ctx, userID)
	if err != nil {
		return err
	}
	playback.Stop()
	return nil
}

func (m *Manager) currentPlayback(ctx context.Context, userID string) (*PlaybackController, error) {
	if err := m.ensureReconciled(ctx, userID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rs, ok := m.running[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return rs.playback, nil
}

// Shutdown stops every running ticker. Sessions stay in their persisted
// status and are reconciled again on next startup.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, rs := range m.running {
		m.stopTickerLocked(rs)
		slog.Info("ticker stopped on shutdown", "user_id", userID, "session_id", rs.session.ID)
	}
}

func (m *Manager) startTickerLocked(userID string, rs *runningSession) {
	ctx, cancel := context.WithCancel(context.Background())
	rs.cancelTicker = cancel
	go m.runTicker(ctx, userID, rs.session.ID)
}

func (m *Manager) stopTickerLocked(rs *runningSession) {
	if rs.cancelTicker != nil {
		rs.cancelTicker()
		rs.cancelTicker = nil
	}
}

func (m *Manager) runTicker(ctx context.Context, userID, sessionID string) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(userID, sessionID)
		}
	}
}

// tick advances elapsed time and distance by one second, evaluates the
// chapter trigger, and batches the durable write.
func (m *Manager) tick(userID, sessionID string) {
	m.mu.Lock()
	rs, ok := m.running[userID]
	if !ok || rs.session.ID != sessionID || rs.session.Status != repository.SessionStatusActive {
		m.mu.Unlock()
		return
	}
	s := rs.session
	s.ElapsedSeconds++
	s.DistanceMiles += s.SpeedMPH / 3600

	elapsed := s.ElapsedSeconds
	distance := s.DistanceMiles
	patch := repository.SessionPatch{}
	persist := elapsed%persistEveryTicks == 0
	if persist {
		patch.ElapsedSeconds = &elapsed
		patch.DistanceMiles = &distance
	}

	shouldGenerate := !s.IsGenerating && ShouldTrigger(s.TriggerType, elapsed, distance, s.NextChapterDistance)
	if shouldGenerate {
		// The threshold advances together with the generation guard so
		// subsequent ticks do not re-trigger while the call is in flight.
		s.IsGenerating = true
		rs.lastError = ""
		if s.TriggerType == repository.TriggerTypeDistance {
			s.NextChapterDistance += DistanceIncrement(s.IsCarpoolMode)
			next := s.NextChapterDistance
			patch.NextChapterDistance = &next
		}
		generating := true
		patch.IsGenerating = &generating
		persist = true
	}
	m.mu.Unlock()

	if persist {
		m.persistPatch(sessionID, patch)
	}
	if shouldGenerate {
		m.spawn(func() { m.generateChapter(userID, sessionID) })
	}
}

// generateChapter runs one single-flight generation call. The caller has
// already set IsGenerating; both outcomes clear it.
func (m *Manager) generateChapter(userID, sessionID string) {
	ctx := context.Background()

	m.mu.Lock()
	rs, ok := m.running[userID]
	if !ok || rs.session.ID != sessionID {
		m.mu.Unlock()
		return
	}
	s := rs.session
	isFirst := len(rs.chapters) == 0
	number := len(rs.chapters) + 1
	genre, plot := s.Genre, s.Plot
	speed, distance := s.SpeedMPH, s.DistanceMiles
	elapsedMinutes := float64(s.ElapsedSeconds) / 60
	carpool := s.IsCarpoolMode
	texts := make([]string, 0, len(rs.chapters))
	for _, c := range rs.chapters {
		texts = append(texts, c.Text)
	}
	m.mu.Unlock()

	var text string
	var err error
	if isFirst {
		text, err = m.generator.OpeningChapter(ctx, story.OpeningChapterInput{
			Genre:            genre,
			Plot:             plot,
			SpeedDescription: fmt.Sprintf("The user is starting their journey at %.1f MPH.", speed),
		})
	} else {
		text, err = m.generator.ContinuationChapter(ctx, story.ContinuationChapterInput{
			SpeedMPH:       speed,
			DistanceMiles:  distance,
			ElapsedMinutes: elapsedMinutes,
			StoryContext:   strings.Join(texts, "\n\n"),
			Genre:          genre,
			Plot:           plot,
			Carpool:        carpool,
		})
	}
	if err != nil {
		slog.Error("chapter generation failed", "error", err, "session_id", sessionID, "chapter_number", number)
		m.finishGeneration(userID, sessionID, nil, generationFailedMessage)
		return
	}

	chapter, err := m.repo.InsertChapter(ctx, repository.InsertChapterInput{
		SessionID:     sessionID,
		ChapterNumber: number,
		Text:          text,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		slog.Error("failed to insert chapter", "error", err, "session_id", sessionID, "chapter_number", number)
		m.finishGeneration(userID, sessionID, nil, generationFailedMessage)
		return
	}
	slog.Info("chapter generated", "session_id", sessionID, "chapter_number", chapter.ChapterNumber, "text_chars", len(chapter.Text))
	m.finishGeneration(userID, sessionID, chapter, "")
}

func (m *Manager) finishGeneration(userID, sessionID string, chapter *repository.Chapter, failure string) {
	m.mu.Lock()
	if rs, ok := m.running[userID]; ok && rs.session.ID == sessionID {
		rs.session.IsGenerating = false
		rs.lastError = failure
		if chapter != nil {
			rs.chapters = append(rs.chapters, *chapter)
		}
	}
	m.mu.Unlock()

	generating := false
	m.persistPatch(sessionID, repository.SessionPatch{IsGenerating: &generating})
}

// persistPatch writes a partial update to the durable store, logging and
// dropping failures so the tick and generation paths never stall.
func (m *Manager) persistPatch(sessionID string, patch repository.SessionPatch) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := m.repo.UpdateSession(ctx, sessionID, patch); err != nil {
		slog.Warn("failed to persist session update", "error", err, "session_id", sessionID)
	}
}

func (m *Manager) snapshotLocked(rs *runningSession) Snapshot {
	chapters := make([]repository.Chapter, len(rs.chapters))
	copy(chapters, rs.chapters)
	return Snapshot{
		Session:   *rs.session,
		Chapters:  chapters,
		Playback:  rs.playback.State(),
		LastError: rs.lastError,
	}
}
