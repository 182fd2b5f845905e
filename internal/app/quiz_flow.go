package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"assessment-client/internal/domain"
	"github.com/google/uuid"
)

// QuestionSource loads the questions of one test.
type QuestionSource interface {
	TestQuestions(ctx context.Context, category, subcategory string) ([]domain.Question, error)
}

// Submitter sends a finished test for grading.
type Submitter interface {
	SubmitTest(ctx context.Context, sub domain.TestSubmission) (domain.SubmitOutcome, error)
}

// State is a step of the quiz flow.
type State int

const (
	SelectingCategory State = iota
	ViewingInstructions
	InProgress
	Completed
	ViewingResults
)

func (s State) String() string {
	switch s {
	case SelectingCategory:
		return "selecting-category"
	case ViewingInstructions:
		return "viewing-instructions"
	case InProgress:
		return "in-progress"
	case Completed:
		return "completed"
	case ViewingResults:
		return "viewing-results"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event drives a state change.
type Event int

const (
	EventSelect Event = iota
	EventStart
	EventBack
	EventSubmit
	EventViewResults
)

func (e Event) String() string {
	switch e {
	case EventSelect:
		return "select"
	case EventStart:
		return "start"
	case EventBack:
		return "back"
	case EventSubmit:
		return "submit"
	case EventViewResults:
		return "view-results"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// transitions is the complete table; any pair not listed is rejected.
var transitions = map[State]map[Event]State{
	SelectingCategory: {
		EventSelect:      ViewingInstructions,
		EventViewResults: ViewingResults,
	},
	ViewingInstructions: {
		EventStart: InProgress,
		EventBack:  SelectingCategory,
	},
	InProgress: {
		EventSubmit: Completed,
		EventBack:   SelectingCategory,
	},
	Completed: {
		EventBack:        SelectingCategory,
		EventViewResults: ViewingResults,
	},
	ViewingResults: {
		EventBack: SelectingCategory,
	},
}

// Transition returns the state reached from "from" on ev.
func Transition(from State, ev Event) (State, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	return from, fmt.Errorf("%s while %s: %w", ev, from, domain.ErrTransitionNotAllowed)
}

// Outcome is what a completed test leaves behind for display.
type Outcome struct {
	ResultID    string
	Category    string
	Subcategory string
	Score       Score
	Elapsed     int // seconds
}

// FlowSnapshot is a copy of the controller's state for rendering.
type FlowSnapshot struct {
	State       State
	SessionID   string
	Category    string
	Subcategory string
	Questions   []domain.Question
	Answers     map[string]string
	Outcome     *Outcome
}

// testSession is the context of one attempt. It is replaced, never reset, so
// late responses can be matched against the session that issued them.
type testSession struct {
	id          string
	category    string
	subcategory string
	questions   []domain.Question
	answers     map[string]string
	startedAt   time.Time
	submitting  bool
}

// QuizFlow drives one student through category selection, instructions,
// the test itself and its result. Only one session is active at a time.
type QuizFlow struct {
	questions QuestionSource
	submitter Submitter
	now       func() time.Time

	mu      sync.Mutex
	state   State
	session *testSession
	outcome *Outcome
}

func NewQuizFlow(questions QuestionSource, submitter Submitter) *QuizFlow {
	return NewQuizFlowWithClock(questions, submitter, time.Now)
}

// NewQuizFlowWithClock is used by tests for deterministic elapsed times.
func NewQuizFlowWithClock(questions QuestionSource, submitter Submitter, now func() time.Time) *QuizFlow {
	return &QuizFlow{
		questions: questions,
		submitter: submitter,
		now:       now,
		state:     SelectingCategory,
	}
}

// State reports the current state.
func (f *QuizFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Snapshot copies the current state for rendering.
func (f *QuizFlow) Snapshot() FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := FlowSnapshot{State: f.state}
	if f.outcome != nil {
		o := *f.outcome
		snap.Outcome = &o
	}
	if s := f.session; s != nil {
		snap.SessionID = s.id
		snap.Category = s.category
		snap.Subcategory = s.subcategory
		snap.Questions = append([]domain.Question(nil), s.questions...)
		snap.Answers = make(map[string]string, len(s.answers))
		for k, v := range s.answers {
			snap.Answers[k] = v
		}
	}
	return snap
}

// Select records the chosen category and subcategory and shows the instructions.
func (f *QuizFlow) Select(category, subcategory string) error {
	if category == "" || subcategory == "" {
		return domain.ErrEmptySelection
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	to, err := Transition(f.state, EventSelect)
	if err != nil {
		return err
	}
	f.session = &testSession{
		id:          uuid.NewString(),
		category:    category,
		subcategory: subcategory,
		answers:     make(map[string]string),
	}
	f.outcome = nil
	f.state = to
	return nil
}

// Start loads the test and starts the clock. A failed load leaves the
// instructions on screen.
func (f *QuizFlow) Start(ctx context.Context) ([]domain.Question, error) {
	f.mu.Lock()
	if _, err := Transition(f.state, EventStart); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	sess := f.session
	f.mu.Unlock()

	questions, err := f.questions.TestQuestions(ctx, sess.category, sess.subcategory)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session != sess || f.state != ViewingInstructions {
		return nil, domain.ErrStaleResponse
	}
	if err != nil {
		return nil, err
	}
	to, err := Transition(f.state, EventStart)
	if err != nil {
		return nil, err
	}
	sess.questions = questions
	sess.startedAt = f.now()
	f.state = to
	return append([]domain.Question(nil), questions...), nil
}

// Answer records the answer for a question; the last answer wins.
func (f *QuizFlow) Answer(questionID, answer string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != InProgress {
		return fmt.Errorf("answer while %s: %w", f.state, domain.ErrTransitionNotAllowed)
	}
	if f.session.submitting {
		return domain.ErrSubmitInFlight
	}
	for _, q := range f.session.questions {
		if q.ID == questionID {
			f.session.answers[questionID] = answer
			return nil
		}
	}
	return fmt.Errorf("question %q: %w", questionID, domain.ErrQuestionNotFound)
}

// Back abandons the current session and returns to category selection.
// A submission already on the wire is not cancelled; its response is discarded.
func (f *QuizFlow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	to, err := Transition(f.state, EventBack)
	if err != nil {
		return err
	}
	f.session = nil
	f.state = to
	return nil
}

// ViewResults switches to the results view.
func (f *QuizFlow) ViewResults() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	to, err := Transition(f.state, EventViewResults)
	if err != nil {
		return err
	}
	f.session = nil
	f.state = to
	return nil
}

// Submit stops the clock and sends the answers. On failure the session stays
// in progress with its answers intact so the caller can submit again.
func (f *QuizFlow) Submit(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	if _, err := Transition(f.state, EventSubmit); err != nil {
		f.mu.Unlock()
		return Outcome{}, err
	}
	sess := f.session
	if sess.submitting {
		f.mu.Unlock()
		return Outcome{}, domain.ErrSubmitInFlight
	}
	sess.submitting = true
	elapsed := int(f.now().Sub(sess.startedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	sub := domain.TestSubmission{
		Category:    sess.category,
		Subcategory: sess.subcategory,
		Answers:     make([]domain.AnswerSubmission, 0, len(sess.answers)),
		TimeTaken:   elapsed,
	}
	for _, q := range sess.questions {
		if a, ok := sess.answers[q.ID]; ok {
			sub.Answers = append(sub.Answers, domain.AnswerSubmission{QuestionID: q.ID, Answer: a})
		}
	}
	f.mu.Unlock()

	res, err := f.submitter.SubmitTest(ctx, sub)

	f.mu.Lock()
	defer f.mu.Unlock()
	sess.submitting = false
	if f.session != sess || f.state != InProgress {
		return Outcome{}, domain.ErrStaleResponse
	}
	if err != nil {
		return Outcome{}, err
	}
	to, err := Transition(f.state, EventSubmit)
	if err != nil {
		return Outcome{}, err
	}
	outcome := Outcome{
		ResultID:    res.ResultID,
		Category:    sess.category,
		Subcategory: sess.subcategory,
		Score: Score{
			Correct:    res.Score,
			Total:      res.TotalQuestions,
			Percentage: res.Percentage,
			Grade:      GradeFor(res.Percentage),
		},
		Elapsed: elapsed,
	}
	f.outcome = &outcome
	f.session = nil
	f.state = to
	return outcome, nil
}
