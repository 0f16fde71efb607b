// Package srs implements the SM-2 spaced-repetition transition shared by the
// vocabulary and culture domains.
package srs

import (
	"errors"
	"math"
	"time"
)

type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusReview   Status = "review"
	StatusMastered Status = "mastered"
)

// Quality is the SM-2 recall score, 0 (blackout) to 5 (perfect).
type Quality int

const (
	QualityBlackout Quality = 0
	QualityAgain    Quality = 1
	QualityHard     Quality = 2
	QualityGood     Quality = 3
	QualityEasy     Quality = 4
	QualityPerfect  Quality = 5
)

const (
	EaseFloor           = 1.3
	DefaultEase         = 2.5
	PassThreshold       = QualityGood
	FirstIntervalDays   = 1
	SecondIntervalDays  = 6
	MasteryIntervalDays = 21
	ReviewRepetitions   = 3
)

var ErrInvalidQuality = errors.New("quality must be between 0 and 5")

// State is the scheduling state of one item for one user.
type State struct {
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
	Status       Status
	NextReviewAt time.Time
}

// NewState returns the state of a never-reviewed item.
func NewState() State {
	return State{
		EaseFactor: DefaultEase,
		Status:     StatusNew,
	}
}

// Change describes what a transition did, so callers do not re-derive these
// facts from before/after snapshots.
type Change struct {
	Correct       bool
	FirstReview   bool
	MasteryGained bool
	MasteryLost   bool
}

// Transition applies one review with the given quality and returns the new
// state. The input state is not modified. The only failure mode is an
// out-of-range quality.
func Transition(state State, quality Quality, now time.Time) (State, Change, error) {
	if quality < QualityBlackout || quality > QualityPerfect {
		return State{}, Change{}, ErrInvalidQuality
	}

	change := Change{
		Correct:     quality >= PassThreshold,
		FirstReview: state.Status == StatusNew,
	}

	next := state

	// The ease adjustment applies on every review, and the floor is clamped
	// every time so repeated failures only approach 1.3.
	miss := float64(QualityPerfect - quality)
	next.EaseFactor = state.EaseFactor + (0.1 - miss*(0.08+miss*0.02))
	if next.EaseFactor < EaseFloor {
		next.EaseFactor = EaseFloor
	}

	if change.Correct {
		next.Repetitions = state.Repetitions + 1
		switch next.Repetitions {
		case 1:
			next.IntervalDays = FirstIntervalDays
		case 2:
			next.IntervalDays = SecondIntervalDays
		default:
			next.IntervalDays = int(math.Round(float64(state.IntervalDays) * next.EaseFactor))
			if next.IntervalDays < 1 {
				next.IntervalDays = 1
			}
		}
	} else {
		next.Repetitions = 0
		next.IntervalDays = 1
	}

	next.Status = deriveStatus(next)
	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)

	change.MasteryGained = state.Status != StatusMastered && next.Status == StatusMastered
	change.MasteryLost = state.Status == StatusMastered && next.Status != StatusMastered

	return next, change, nil
}

// deriveStatus maps interval and repetitions to the user-facing status. The
// 21-day interval threshold alone gates mastery; repetitions only gate the
// learning/review split.
func deriveStatus(state State) Status {
	if state.IntervalDays >= MasteryIntervalDays {
		return StatusMastered
	}
	if state.Repetitions >= ReviewRepetitions {
		return StatusReview
	}
	return StatusLearning
}
