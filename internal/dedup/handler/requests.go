package handler

import (
	"strings"

	participation "tally/internal/participation/models"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
)

// DedupVotersRequest is the body for POST /maintenance/voters/dedup. An
// empty poll_id runs over every poll with voters.
type DedupVotersRequest struct {
	PollID string `json:"poll_id,omitempty"`

	poll *id.PollID
}

// Validate implements httputil.Validatable.
func (r *DedupVotersRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.PollID = strings.TrimSpace(r.PollID); r.PollID == "" {
		return nil
	}
	poll, err := id.ParsePollID(r.PollID)
	if err != nil {
		return err
	}
	r.poll = &poll
	return nil
}

// AnswersRequest is the body for the answer maintenance endpoints. Both
// fields are optional and narrow the run.
type AnswersRequest struct {
	PollID     string `json:"poll_id,omitempty"`
	QuestionID string `json:"question_id,omitempty"`

	scope participation.Scope
}

// Validate implements httputil.Validatable.
func (r *AnswersRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.PollID = strings.TrimSpace(r.PollID); r.PollID != "" {
		poll, err := id.ParsePollID(r.PollID)
		if err != nil {
			return err
		}
		r.scope.PollID = &poll
	}
	if r.QuestionID = strings.TrimSpace(r.QuestionID); r.QuestionID != "" {
		question, err := id.ParseQuestionID(r.QuestionID)
		if err != nil {
			return err
		}
		r.scope.QuestionID = &question
	}
	return nil
}

func (r *AnswersRequest) Scope() participation.Scope {
	return r.scope
}

type RemovedResponse struct {
	Removed int `json:"removed"`
}

type ResolvedResponse struct {
	Resolved int `json:"resolved"`
}
