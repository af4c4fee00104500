package challenge

import (
	"slices"
	"time"
)

// Input is a player's answer. Kind selects which payload field is
// meaningful: Options for multiple choice, Order for sort tables
// and Answer for custom challenges.
type Input struct {
	Kind    Kind     `json:"kind"`
	Options []int    `json:"options,omitempty"`
	Order   []string `json:"order,omitempty"`
	Answer  string   `json:"answer,omitempty"`
}

// MultipleChoiceInput selects one or more option IDs.
func MultipleChoiceInput(options ...int) Input {
	return Input{Kind: KindMultipleChoice, Options: options}
}

// SortTableInput submits row IDs in the proposed order.
func SortTableInput(order ...string) Input {
	return Input{Kind: KindSortTable, Order: order}
}

// CustomInput submits a free-form answer.
func CustomInput(answer string) Input {
	return Input{Kind: KindCustom, Answer: answer}
}

// Empty reports whether the payload for the input's kind is unset.
func (in Input) Empty() bool {
	switch in.Kind {
	case KindMultipleChoice:
		return len(in.Options) == 0
	case KindSortTable:
		return len(in.Order) == 0
	case KindCustom:
		return in.Answer == ""
	}
	return true
}

// Result is the immutable record of a finished challenge. Its
// payload mirrors the kind of the challenge and holds the final
// answer; abandoned results carry no payload.
type Result struct {
	Index       int  `json:"index"`
	ChallengeID ID   `json:"challenge_id"`
	Kind        Kind `json:"kind"`

	Options []int    `json:"options"`
	Order   []string `json:"order"`
	Answer  string   `json:"answer,omitempty"`

	Solved    bool `json:"solved"`
	Abandoned bool `json:"abandoned,omitempty"`
	Attempts  int  `json:"attempts"`
	Correct   int  `json:"correct"`
	Incorrect int  `json:"incorrect"`

	StartedAt  time.Time     `json:"started_at,omitzero"`
	FinishedAt time.Time     `json:"finished_at,omitzero"`
	Duration   time.Duration `json:"duration"`
}

// MultipleChoiceResult is the payload-only form of a multiple
// choice result, used to compare recorded answers.
func MultipleChoiceResult(options ...int) Result {
	return Result{Kind: KindMultipleChoice, Options: options}
}

// SortTableResult is the payload-only form of a sort table result.
func SortTableResult(order ...string) Result {
	return Result{Kind: KindSortTable, Order: order}
}

// CustomResult is the payload-only form of a custom result.
func CustomResult(answer string) Result {
	return Result{Kind: KindCustom, Answer: answer}
}

// SamePayload reports whether two results record the same kind and
// answer, ignoring outcome and timing.
func (r Result) SamePayload(other Result) bool {
	return r.Kind == other.Kind &&
		slices.Equal(r.Options, other.Options) &&
		slices.Equal(r.Order, other.Order) &&
		r.Answer == other.Answer
}

// Outcome names how the challenge ended: solved, failed or
// abandoned.
func (r Result) Outcome() string {
	switch {
	case r.Solved:
		return "solved"
	case r.Abandoned:
		return "abandoned"
	default:
		return "failed"
	}
}

// Clone returns a copy that shares no slices with r.
func (r Result) Clone() Result {
	r.Options = slices.Clone(r.Options)
	r.Order = slices.Clone(r.Order)
	return r
}

func (r *Result) setPayload(in Input) {
	switch in.Kind {
	case KindMultipleChoice:
		r.Options = slices.Clone(in.Options)
	case KindSortTable:
		r.Order = slices.Clone(in.Order)
	case KindCustom:
		r.Answer = in.Answer
	}
}
