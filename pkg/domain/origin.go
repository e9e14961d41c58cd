package domain

import dErrors "tally/pkg/domain-errors"

// Origin is the channel through which a vote or a tally reached the system.
// Invariant: the value is one of web, booth, letter.
//
// Usage: construct via ParseOrigin at trust boundaries; direct casting
// bypasses validation.
type Origin string

const (
	OriginWeb    Origin = "web"
	OriginBooth  Origin = "booth"
	OriginLetter Origin = "letter"
)

// Origins lists every channel in reporting priority order.
var Origins = []Origin{OriginWeb, OriginBooth, OriginLetter}

var validOrigins = map[Origin]bool{
	OriginWeb:    true,
	OriginBooth:  true,
	OriginLetter: true,
}

// ParseOrigin constructs an Origin from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseOrigin(s string) (Origin, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "origin cannot be empty")
	}
	o := Origin(s)
	if !o.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid origin")
	}
	return o, nil
}

func (o Origin) IsValid() bool {
	return validOrigins[o]
}

func (o Origin) String() string {
	return string(o)
}
