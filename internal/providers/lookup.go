package providers

import (
	"errors"

	"github.com/preston-bernstein/condensed-game-notifier/internal/domain/videos"
)

// LookupOutcome tags a LookupResult.
type LookupOutcome string

const (
	LookupFound     LookupOutcome = "found"
	LookupNotFound  LookupOutcome = "not_found"
	LookupMalformed LookupOutcome = "malformed"
)

// LookupResult is what a VideoStrategy reports for one game.
type LookupResult struct {
	Outcome  LookupOutcome
	Video    videos.Video
	Strategy string
	Err      error
}

// Found reports whether the result carries a usable video.
func (r LookupResult) Found() bool {
	return r.Outcome == LookupFound
}

// FoundVideo builds a found result. A video without a valid URL is reported as malformed.
func FoundVideo(strategy string, v videos.Video) LookupResult {
	if err := v.Validate(); err != nil {
		return Malformed(strategy, err)
	}
	return LookupResult{Outcome: LookupFound, Video: v, Strategy: strategy}
}

// NotFound builds a not-found result; err is optional and carries upstream failures.
func NotFound(strategy string, err error) LookupResult {
	return LookupResult{Outcome: LookupNotFound, Strategy: strategy, Err: err}
}

// Malformed builds a result for an upstream payload that could not be interpreted.
func Malformed(strategy string, err error) LookupResult {
	if err == nil {
		err = ErrMalformedPayload
	} else if !errors.Is(err, ErrMalformedPayload) {
		err = errors.Join(ErrMalformedPayload, err)
	}
	return LookupResult{Outcome: LookupMalformed, Strategy: strategy, Err: err}
}
