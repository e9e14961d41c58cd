package handler

import (
	"strings"

	"tally/internal/ledger/models"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
)

type reportFields struct {
	OfficerAssignmentID string `json:"officer_assignment_id"`
	AuthorID            string `json:"author_id,omitempty"`
	Origin              string `json:"origin"`

	assignment id.OfficerAssignmentID
	author     id.UserID
	origin     id.Origin
}

func (f *reportFields) parse() error {
	var err error
	if f.assignment, err = id.ParseOfficerAssignmentID(strings.TrimSpace(f.OfficerAssignmentID)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "officer_assignment_id is required")
	}
	if f.AuthorID = strings.TrimSpace(f.AuthorID); f.AuthorID != "" {
		if f.author, err = id.ParseUserID(f.AuthorID); err != nil {
			return err
		}
	}
	if f.origin, err = id.ParseOrigin(strings.TrimSpace(f.Origin)); err != nil {
		return err
	}
	return models.RecountOrigin(f.origin)
}

// SaveRecountRequest is the body for POST /recounts.
type SaveRecountRequest struct {
	reportFields
	TotalAmount *int `json:"total_amount,omitempty"`
	WhiteAmount *int `json:"white_amount,omitempty"`
	NullAmount  *int `json:"null_amount,omitempty"`
}

func (r *SaveRecountRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.TotalAmount == nil && r.WhiteAmount == nil && r.NullAmount == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one amount is required")
	}
	return r.parse()
}

// SavePartialResultRequest is the body for POST /partial-results.
type SavePartialResultRequest struct {
	reportFields
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	Amount     int    `json:"amount"`

	question id.QuestionID
}

func (r *SavePartialResultRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	var err error
	if r.question, err = id.ParseQuestionID(strings.TrimSpace(r.QuestionID)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "question_id is required")
	}
	if r.Answer = strings.TrimSpace(r.Answer); r.Answer == "" {
		return dErrors.New(dErrors.CodeValidation, "answer is required")
	}
	return r.parse()
}

// AmountChangeRequest is the body for PUT /recounts/{id}/amounts and
// PUT /partial-results/{id}/amounts.
type AmountChangeRequest struct {
	OfficerAssignmentID string `json:"officer_assignment_id"`
	AuthorID            string `json:"author_id,omitempty"`
	Field               string `json:"field"`
	Value               int    `json:"value"`

	assignment id.OfficerAssignmentID
	author     id.UserID
}

func (r *AmountChangeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	var err error
	if r.assignment, err = id.ParseOfficerAssignmentID(strings.TrimSpace(r.OfficerAssignmentID)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "officer_assignment_id is required")
	}
	if r.AuthorID = strings.TrimSpace(r.AuthorID); r.AuthorID != "" {
		if r.author, err = id.ParseUserID(r.AuthorID); err != nil {
			return err
		}
	}
	if r.Field = strings.TrimSpace(r.Field); r.Field == "" {
		return dErrors.New(dErrors.CodeValidation, "field is required")
	}
	return nil
}

type AmountResponse struct {
	Value int    `json:"value"`
	Log   string `json:"log"`
}

type RecountResponse struct {
	ID                   string         `json:"id"`
	PollID               string         `json:"poll_id"`
	BoothAssignmentID    string         `json:"booth_assignment_id"`
	Date                 string         `json:"date"`
	Origin               string         `json:"origin"`
	TotalAmount          AmountResponse `json:"total_amount"`
	WhiteAmount          AmountResponse `json:"white_amount"`
	NullAmount           AmountResponse `json:"null_amount"`
	OfficerAssignmentID  string         `json:"officer_assignment_id"`
	OfficerAssignmentLog string         `json:"officer_assignment_id_log"`
	AuthorID             string         `json:"author_id,omitempty"`
	AuthorLog            string         `json:"author_id_log"`
}

func toRecountResponse(r *models.Recount) RecountResponse {
	resp := RecountResponse{
		ID:                   r.ID.String(),
		PollID:               r.PollID.String(),
		BoothAssignmentID:    r.BoothAssignmentID.String(),
		Date:                 r.Date.Format("2006-01-02"),
		Origin:               string(r.Origin),
		TotalAmount:          AmountResponse{Value: r.Total.Value, Log: string(r.Total.Log)},
		WhiteAmount:          AmountResponse{Value: r.White.Value, Log: string(r.White.Log)},
		NullAmount:           AmountResponse{Value: r.Null.Value, Log: string(r.Null.Log)},
		OfficerAssignmentID:  r.Attribution.AssignmentID.String(),
		OfficerAssignmentLog: string(r.Attribution.AssignmentLog),
		AuthorLog:            string(r.Attribution.AuthorLog),
	}
	if !r.Attribution.AuthorID.IsNil() {
		resp.AuthorID = r.Attribution.AuthorID.String()
	}
	return resp
}

type PartialResultResponse struct {
	ID                  string         `json:"id"`
	PollID              string         `json:"poll_id"`
	QuestionID          string         `json:"question_id"`
	BoothAssignmentID   string         `json:"booth_assignment_id"`
	Date                string         `json:"date"`
	Answer              string         `json:"answer"`
	Origin              string         `json:"origin"`
	Amount              AmountResponse `json:"amount"`
	OfficerAssignmentID string         `json:"officer_assignment_id"`
}

func toPartialResultResponse(p *models.PartialResult) PartialResultResponse {
	return PartialResultResponse{
		ID:                  p.ID.String(),
		PollID:              p.PollID.String(),
		QuestionID:          p.QuestionID.String(),
		BoothAssignmentID:   p.BoothAssignmentID.String(),
		Date:                p.Date.Format("2006-01-02"),
		Answer:              p.Answer,
		Origin:              string(p.Origin),
		Amount:              AmountResponse{Value: p.Amount.Value, Log: string(p.Amount.Log)},
		OfficerAssignmentID: p.Attribution.AssignmentID.String(),
	}
}

type FieldHistoryResponse struct {
	Field    string `json:"field"`
	Current  int    `json:"current"`
	Previous []int  `json:"previous"`
}

type HistoryResponse struct {
	Kind        string                 `json:"kind"`
	Fields      []FieldHistoryResponse `json:"fields"`
	Assignments []string               `json:"officer_assignments"`
	Authors     []string               `json:"authors"`
}

func toHistoryResponse(h *models.History) HistoryResponse {
	resp := HistoryResponse{
		Kind:        string(h.Ref.Kind),
		Fields:      make([]FieldHistoryResponse, 0, len(h.Fields)),
		Assignments: h.Assignments,
		Authors:     h.Authors,
	}
	for _, f := range h.Fields {
		resp.Fields = append(resp.Fields, FieldHistoryResponse{Field: f.Field, Current: f.Current, Previous: f.Previous})
	}
	return resp
}
