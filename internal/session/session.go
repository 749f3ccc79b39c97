package session

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
)

const (
	// DefaultSaveDelay is how long after the last change a draft is saved.
	DefaultSaveDelay = 2 * time.Second
	// DefaultMaxDraftAge is how old a saved draft may be and still be restored.
	DefaultMaxDraftAge = 24 * time.Hour

	storeTimeout = 5 * time.Second
)

// ErrNotEditable is returned by Apply while a submission is pending or after it succeeded.
var ErrNotEditable = errors.New("booking can not be edited in its current state")

// Outcome classifies the result of a Submit call.
type Outcome string

const (
	OutcomeIgnored   Outcome = "ignored"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeFailed    Outcome = "failed"
	OutcomeStale     Outcome = "stale"
)

// SubmitResult reports what a Submit call did.
type SubmitResult struct {
	Outcome          Outcome
	BookingReference string
	Validation       booking.ValidationResult
	Error            string
}

// Options configures a Session. Submitter is required; every other field has a default.
type Options struct {
	Key         string
	Submitter   Submitter
	Store       DraftStore
	Analytics   Analytics
	Scheduler   Scheduler
	Pricing     booking.PricingStrategy
	Validator   *booking.FormValidator
	Navigator   *booking.StepNavigator
	Now         func() time.Time
	Logger      *zap.Logger
	SaveDelay   time.Duration
	MaxDraftAge time.Duration
}

// Session owns one visitor's draft and drives it through the booking steps.
// It is safe for concurrent use.
type Session struct {
	key         string
	submitter   Submitter
	store       DraftStore
	analytics   Analytics
	scheduler   Scheduler
	pricing     booking.PricingStrategy
	validator   *booking.FormValidator
	navigator   *booking.StepNavigator
	now         func() time.Time
	logger      *zap.Logger
	saveDelay   time.Duration
	maxDraftAge time.Duration

	mu           sync.Mutex
	draft        booking.BookingDraft
	step         int
	state        State
	touched      map[string]struct{}
	fieldErrors  map[string]string
	isSubmitting bool
	lastError    string
	generation   uint64
	pendingSave  Timer
}

// New creates a session and restores a saved draft for the key when one exists.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Submitter == nil {
		return nil, errors.New("session: submitter is required")
	}
	s := &Session{
		key:         opts.Key,
		submitter:   opts.Submitter,
		store:       opts.Store,
		analytics:   opts.Analytics,
		scheduler:   opts.Scheduler,
		pricing:     opts.Pricing,
		validator:   opts.Validator,
		navigator:   opts.Navigator,
		now:         opts.Now,
		logger:      opts.Logger,
		saveDelay:   opts.SaveDelay,
		maxDraftAge: opts.MaxDraftAge,
	}
	if s.key == "" {
		s.key = uuid.NewString()
	}
	if s.scheduler == nil {
		s.scheduler = TimerScheduler{}
	}
	if s.pricing == nil {
		s.pricing = booking.NewStandardPricingStrategy(booking.DefaultPricingConfig())
	}
	if s.validator == nil {
		s.validator = booking.NewFormValidator()
	}
	if s.navigator == nil {
		s.navigator = booking.NewStepNavigator()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.saveDelay <= 0 {
		s.saveDelay = DefaultSaveDelay
	}
	if s.maxDraftAge <= 0 {
		s.maxDraftAge = DefaultMaxDraftAge
	}

	s.resetLocked()
	s.restore(ctx)
	return s, nil
}

// restore loads a saved draft once. Drafts past maxDraftAge are discarded and
// the anti-automation token is never restored.
func (s *Session) restore(ctx context.Context) {
	if s.store == nil {
		return
	}
	saved, err := s.store.Load(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to load saved draft", zap.String("session_key", s.key), zap.Error(err))
		return
	}
	if saved == nil {
		return
	}
	if s.now().Sub(saved.SavedAt) > s.maxDraftAge || saved.Draft.Submission.IsSubmitted {
		s.logger.Debug("discarding saved draft",
			zap.String("session_key", s.key),
			zap.Time("saved_at", saved.SavedAt),
		)
		if err := s.store.Clear(ctx, s.key); err != nil {
			s.logger.Warn("failed to clear saved draft", zap.String("session_key", s.key), zap.Error(err))
		}
		return
	}

	d := saved.Draft.Clone()
	d.AntiAutomationToken = ""
	d.Pricing = s.pricing.Calculate(d)
	s.draft = d

	step := booking.StepService
	if saved.Step > booking.StepService && saved.Step <= booking.LastInteractiveStep && s.navigator.IsStepApplicable(saved.Step, d) {
		step = saved.Step
	}
	s.step = step
	s.state, _ = stateForStep(step)
	s.logger.Info("restored saved draft", zap.String("session_key", s.key), zap.Int("step", step))
}

// Apply applies one update to the draft, re-pricing when needed, clearing the
// error of every touched field and scheduling a debounced save.
func (s *Session) Apply(u booking.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isSubmitting || s.state == StateSubmitting || s.state == StateConfirmed {
		return ErrNotEditable
	}
	d, err := booking.Apply(s.draft, u)
	if err != nil {
		return err
	}
	if booking.AffectsPrice(u) {
		d.Pricing = s.pricing.Calculate(d)
	}
	s.draft = d

	for _, field := range booking.TouchedFields(u) {
		s.touched[field] = struct{}{}
		delete(s.fieldErrors, field)
	}
	s.scheduleSaveLocked()
	return nil
}

// Next validates the current step and moves forward when it passes. Step 3
// only validates; Submit leaves it. Outside the interactive steps it is a no-op.
func (s *Session) Next() booking.ValidationResult {
	s.mu.Lock()
	result, events := s.nextLocked()
	s.mu.Unlock()

	s.emit(events)
	return result
}

func (s *Session) nextLocked() (booking.ValidationResult, []Event) {
	if !s.state.IsEditing() {
		return booking.ValidationResult{Errors: map[string]string{}}, nil
	}

	result := s.validator.ValidateStep(s.step, s.draft)
	s.fieldErrors = maps.Clone(result.Errors)
	if !result.IsValid || s.step >= booking.LastInteractiveStep {
		return result, nil
	}

	from := s.step
	next := s.navigator.NextStep(from, s.draft)
	if !s.moveLocked(next) {
		return result, nil
	}
	return result, []Event{s.eventLocked(EventStepComplete, from), s.eventLocked(EventStepView, next)}
}

// Back moves to the previous applicable step. It reports false when there is
// nowhere to go.
func (s *Session) Back() bool {
	s.mu.Lock()
	if !s.state.IsEditing() {
		s.mu.Unlock()
		return false
	}
	prev := s.navigator.PreviousStep(s.step, s.draft)
	if prev == s.step || !s.moveLocked(prev) {
		s.mu.Unlock()
		return false
	}
	events := []Event{s.eventLocked(EventStepBack, prev)}
	s.mu.Unlock()

	s.emit(events)
	return true
}

// moveLocked changes step when the state machine allows it.
func (s *Session) moveLocked(step int) bool {
	target, err := stateForStep(step)
	if err != nil || !s.state.CanTransitionTo(target) {
		return false
	}
	s.step = step
	s.state = target
	return true
}

// Submit validates the whole draft and hands a sanitised copy to the
// submitter. Only one submission is in flight per session; a result that
// arrives after Reset is dropped.
func (s *Session) Submit(ctx context.Context) SubmitResult {
	s.mu.Lock()
	if s.isSubmitting || !s.state.CanTransitionTo(StateSubmitting) {
		s.mu.Unlock()
		return SubmitResult{Outcome: OutcomeIgnored}
	}

	validation := s.validator.ValidateForSubmission(s.draft)
	if !validation.IsValid {
		s.fieldErrors = maps.Clone(validation.Errors)
		for field := range validation.Errors {
			s.touched[field] = struct{}{}
		}
		if s.state == StateFailed {
			s.state = StateStep3
			s.step = booking.StepContact
		}
		events := []Event{s.eventLocked(EventSubmitInvalid, s.step)}
		s.mu.Unlock()

		s.emit(events)
		return SubmitResult{Outcome: OutcomeInvalid, Validation: validation}
	}

	s.state = StateSubmitting
	s.isSubmitting = true
	s.lastError = ""
	s.fieldErrors = map[string]string{}
	s.stopPendingSaveLocked()
	gen := s.generation
	sanitized := booking.Sanitize(s.draft)
	events := []Event{s.eventLocked(EventSubmitAttempt, s.step)}
	s.mu.Unlock()

	s.emit(events)
	res, err := s.submitter.Submit(ctx, sanitized)
	return s.finishSubmit(gen, res, err)
}

func (s *Session) finishSubmit(gen uint64, res SubmissionResult, err error) SubmitResult {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("dropping stale submission result", zap.String("session_key", s.key))
		return SubmitResult{Outcome: OutcomeStale}
	}
	s.isSubmitting = false

	if err == nil && !res.Success {
		err = errors.New(res.Error)
		if res.Error == "" {
			err = errors.New("submission was rejected")
		}
		if len(res.FieldErrors) > 0 {
			s.fieldErrors = maps.Clone(res.FieldErrors)
		}
	}
	var marked booking.BookingDraft
	if err == nil {
		at := res.SubmittedAt
		if at.IsZero() {
			at = s.now()
		}
		marked, err = booking.MarkSubmitted(s.draft, res.BookingReference, at)
	}
	if err != nil {
		s.state = StateFailed
		s.lastError = err.Error()
		events := []Event{s.eventLocked(EventSubmitFailure, s.step)}
		s.mu.Unlock()

		s.logger.Warn("booking submission failed", zap.String("session_key", s.key), zap.Error(err))
		s.emit(events)
		return SubmitResult{Outcome: OutcomeFailed, Error: err.Error()}
	}

	s.draft = marked
	s.state = StateConfirmed
	s.step = booking.StepConfirmation
	events := []Event{s.eventLocked(EventSubmitSuccess, s.step)}
	s.mu.Unlock()

	s.logger.Info("booking submitted",
		zap.String("session_key", s.key),
		zap.String("booking_reference", res.BookingReference),
	)
	s.clearStore()
	s.emit(events)
	return SubmitResult{Outcome: OutcomeConfirmed, BookingReference: res.BookingReference}
}

// Retry returns a failed session to step 3 with the draft intact.
func (s *Session) Retry() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFailed {
		return false
	}
	s.state = StateStep3
	s.step = booking.StepContact
	return true
}

// Reset starts a new booking. Any in-flight submission result will be dropped.
func (s *Session) Reset() {
	s.mu.Lock()
	s.resetLocked()
	events := []Event{s.eventLocked(EventFormReset, s.step)}
	s.mu.Unlock()

	s.clearStore()
	s.emit(events)
}

func (s *Session) resetLocked() {
	s.generation++
	s.stopPendingSaveLocked()
	s.draft = booking.NewDraft()
	s.draft.Pricing = s.pricing.Calculate(s.draft)
	s.step = booking.StepService
	s.state = StateStep1
	s.touched = map[string]struct{}{}
	s.fieldErrors = map[string]string{}
	s.isSubmitting = false
	s.lastError = ""
}

// Flush saves the draft immediately, cancelling any pending debounced save.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	s.stopPendingSaveLocked()
	saved, ok := s.snapshotLocked()
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return s.store.Save(ctx, s.key, saved)
}

func (s *Session) scheduleSaveLocked() {
	if s.store == nil {
		return
	}
	s.stopPendingSaveLocked()
	gen := s.generation
	s.pendingSave = s.scheduler.Schedule(s.saveDelay, func() { s.saveFromTimer(gen) })
}

func (s *Session) stopPendingSaveLocked() {
	if s.pendingSave != nil {
		s.pendingSave.Stop()
		s.pendingSave = nil
	}
}

func (s *Session) saveFromTimer(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.pendingSave = nil
	saved, ok := s.snapshotLocked()
	s.mu.Unlock()

	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.store.Save(ctx, s.key, saved); err != nil {
		s.logger.Warn("failed to save draft", zap.String("session_key", s.key), zap.Error(err))
	}
}

// snapshotLocked returns what should be stored, without the token.
func (s *Session) snapshotLocked() (SavedDraft, bool) {
	if s.store == nil || (!s.state.IsEditing() && s.state != StateFailed) {
		return SavedDraft{}, false
	}
	d := s.draft.Clone()
	d.AntiAutomationToken = ""
	step := s.step
	if step > booking.LastInteractiveStep {
		step = booking.LastInteractiveStep
	}
	return SavedDraft{Draft: d, Step: step, SavedAt: s.now().UTC()}, true
}

func (s *Session) clearStore() {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.store.Clear(ctx, s.key); err != nil {
		s.logger.Warn("failed to clear saved draft", zap.String("session_key", s.key), zap.Error(err))
	}
}

func (s *Session) eventLocked(t EventType, step int) Event {
	return Event{
		Type:                 t,
		Step:                 step,
		Timestamp:            s.now().UTC(),
		FieldCompletionCount: len(s.touched),
		SessionKey:           s.key,
		BookingKind:          s.draft.EffectiveKind(),
	}
}

func (s *Session) emit(events []Event) {
	if s.analytics == nil {
		return
	}
	for _, e := range events {
		s.analytics.Track(context.Background(), e)
	}
}

// --- Readers ---

// Key returns the key the draft is stored under.
func (s *Session) Key() string { return s.key }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentStep returns the current step index (1-4).
func (s *Session) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() booking.BookingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// FieldErrors returns a copy of the current field errors.
func (s *Session) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.fieldErrors)
}

// Touched returns the sorted keys of fields the user has changed.
func (s *Session) Touched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.touched))
}

// IsSubmitting reports whether a submission is in flight.
func (s *Session) IsSubmitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isSubmitting
}

// LastError returns the message of the last failed submission.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}
