package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrAccountExists is returned by Create when the username is taken.
	ErrAccountExists = errors.New("account already exists")

	// ErrAccountNotFound is returned when no account has the username.
	ErrAccountNotFound = errors.New("account not found")
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Account is one stored learner: credential digest plus the serialized
// profile and lesson catalog.
type Account struct {
	Username     string
	PasswordHash string
	Profile      json.RawMessage
	Catalog      json.RawMessage
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountRepo persists accounts keyed by username.
type AccountRepo interface {
	// Create stores a new account or returns ErrAccountExists.
	Create(ctx context.Context, acct *Account) error

	// Get returns the account or ErrAccountNotFound.
	Get(ctx context.Context, username string) (*Account, error)

	// Update replaces the profile and catalog of an existing account.
	Update(ctx context.Context, username string, profile, catalog json.RawMessage) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM events by purpose or by model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// AttemptEventData records one finished quiz attempt.
type AttemptEventData struct {
	Username  string
	AttemptID string
	Subject   string
	Topic     string
	LessonID  string
	Questions int
	Correct   int
	BaseXP    int
	FinalXP   int
	Stars     int
	Fallback  bool
}

// AttemptEvent is a stored attempt event.
type AttemptEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// RewardEventData records a reward: level-up, badge, potion, bonus or
// unlocked lesson. Detail carries the badge or lesson id.
type RewardEventData struct {
	Username string
	Kind     string
	Detail   string
	Amount   int
}

// RewardEvent is a stored reward event.
type RewardEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RewardEventData
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	AppendAttempt(ctx context.Context, data AttemptEventData) error
	AppendReward(ctx context.Context, data RewardEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// QueryAttempts returns a user's attempts, newest first.
	QueryAttempts(ctx context.Context, username string, opts QueryOpts) ([]AttemptEvent, error)

	// QueryRewards returns a user's rewards, newest first.
	QueryRewards(ctx context.Context, username string, opts QueryOpts) ([]RewardEvent, error)
}
