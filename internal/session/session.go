// Package session holds the per-user diet plan state and runs recipe fetches
// against it.
//
// A Session owns its State. Handlers call SubmitPlan and FetchRecipes and get
// a snapshot back; observers receive snapshots over channels. A fetch runs as
// a Task that works on a private copy of the plan targets and publishes its
// outcome once, when the provider call returns.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"simplynourished/internal/plan"
)

var (
	ErrFetchInProgress = errors.New("recipe fetch already in progress")
	ErrPlanRequired    = errors.New("diet plan not calculated")
	ErrSessionClosed   = errors.New("session closed")
)

type State struct {
	Profile          *plan.UserProfile `json:"user_data"`
	BMI              float64           `json:"bmi"`
	DailyCalories    int               `json:"daily_calories"`
	DailyProtein     int               `json:"daily_protein"`
	Recipes          []string          `json:"recipes"`
	IsLoadingRecipes bool              `json:"is_loading_recipes"`
	ErrorMessage     string            `json:"error_message"`
	Version          uint64            `json:"version"`
}

func (s State) clone() State {
	out := s
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	out.Recipes = append([]string{}, s.Recipes...)
	return out
}

type Session struct {
	ID string

	mu       sync.Mutex
	state    State
	planRev  uint64
	task     *Task
	subs     map[int]chan State
	nextSub  int
	lastSeen time.Time
	closed   bool

	fetcher *Fetcher
	baseCtx context.Context
}

// New creates a session whose fetch tasks run under ctx.
func New(ctx context.Context, id string, fetcher *Fetcher) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Session{
		ID:       id,
		state:    State{Recipes: []string{}},
		subs:     make(map[int]chan State),
		lastSeen: time.Now(),
		fetcher:  fetcher,
		baseCtx:  ctx,
	}
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// SubmitPlan validates raw form fields and replaces the plan. On a
// validation failure the profile and plan are cleared, the error message is
// set and the returned error is a *plan.Error. Existing recipes are only
// cleared by a successful submission.
func (s *Session) SubmitPlan(fields map[string]string) (State, error) {
	profile, result, err := plan.ComputeFromForm(fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.state.clone(), ErrSessionClosed
	}

	s.state.ErrorMessage = ""
	s.planRev++
	if err != nil {
		s.state.Profile = nil
		s.state.BMI = 0
		s.state.DailyCalories = 0
		s.state.DailyProtein = 0
		s.state.ErrorMessage = plan.UserMessage(err)
		if s.state.ErrorMessage == "" {
			s.state.ErrorMessage = err.Error()
		}
	} else {
		s.state.Profile = &profile
		s.state.BMI = result.BMI
		s.state.DailyCalories = result.DailyCalories
		s.state.DailyProtein = result.DailyProtein
		s.state.Recipes = []string{}
	}
	s.publishLocked()
	return s.state.clone(), err
}

// FetchRecipes starts one recipe fetch. It refuses to start while another
// fetch is running; the caller's control should stay disabled while
// IsLoadingRecipes is set.
func (s *Session) FetchRecipes() (*Task, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, s.state.clone(), ErrSessionClosed
	}
	if s.task != nil {
		return nil, s.state.clone(), ErrFetchInProgress
	}
	if s.state.Profile == nil || s.state.DailyCalories == 0 || s.state.DailyProtein == 0 {
		s.state.ErrorMessage = UserMessage(ErrPlanRequired)
		s.publishLocked()
		return nil, s.state.clone(), ErrPlanRequired
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	task := &Task{
		ID:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.task = task
	s.state.IsLoadingRecipes = true
	s.state.Recipes = []string{}
	s.state.ErrorMessage = ""
	s.publishLocked()

	go s.run(ctx, task, s.state.DailyCalories, s.state.DailyProtein, s.planRev)
	return task, s.state.clone(), nil
}

// CancelFetch cancels the running fetch, if any.
func (s *Session) CancelFetch() bool {
	s.mu.Lock()
	task := s.task
	s.mu.Unlock()
	if task == nil {
		return false
	}
	task.Cancel()
	return true
}

// Task returns the running fetch, or nil.
func (s *Session) Task() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task
}

func (s *Session) run(ctx context.Context, task *Task, calories, protein int, rev uint64) {
	var outcome Outcome
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{Err: fmt.Errorf("recipe fetch panicked: %v", r)}
		}
		s.finish(task, rev, outcome)
		task.cancel()
		close(task.done)
	}()
	outcome = s.fetcher.Fetch(ctx, calories, protein)
}

func (s *Session) finish(task *Task, rev uint64, outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task == task {
		s.task = nil
		s.state.IsLoadingRecipes = false
	}

	switch {
	case rev != s.planRev:
		log.Printf("recipe fetch discarded: session=%s task=%s reason=plan changed", s.ID, task.ID)
	case task.Canceled():
		log.Printf("recipe fetch canceled: session=%s task=%s", s.ID, task.ID)
	case outcome.Err != nil:
		log.Printf("recipe fetch failed: session=%s task=%s err=%v", s.ID, task.ID, outcome.Err)
		s.state.ErrorMessage = UserMessage(outcome.Err)
	default:
		log.Printf("recipe fetch done: session=%s task=%s model=%s suggestions=%d", s.ID, task.ID, outcome.Model, len(outcome.Suggestions))
		s.state.Recipes = append([]string{}, outcome.Suggestions...)
	}
	s.publishLocked()
}

// Subscribe returns a channel that always holds the latest snapshot, starting
// with the current one. Slow readers skip intermediate states. The returned
// func unsubscribes and closes the channel.
func (s *Session) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.state.clone()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}
}

// Close cancels any running fetch and ends all subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	task := s.task
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	if task != nil {
		task.Cancel()
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// expired reports whether the session has been idle longer than ttl. A
// running fetch or an open subscription keeps it alive.
func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task != nil || len(s.subs) > 0 {
		return false
	}
	return now.Sub(s.lastSeen) > ttl
}

func (s *Session) publishLocked() {
	s.state.Version++
	s.lastSeen = time.Now()
	if s.closed {
		return
	}
	snapshot := s.state.clone()
	for _, ch := range s.subs {
		select {
		case ch <- snapshot:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}
