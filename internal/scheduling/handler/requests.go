package handler

import (
	"strings"
	"time"

	"tally/internal/scheduling/models"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
)

// ApplyShiftRequest is the body for POST /shifts.
type ApplyShiftRequest struct {
	ID        string `json:"id,omitempty"`
	BoothID   string `json:"booth_id"`
	OfficerID string `json:"officer_id"`
	Date      string `json:"date"`
	Task      string `json:"task"`

	shift models.Shift
}

// Validate implements httputil.Validatable.
func (r *ApplyShiftRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	var err error
	if r.ID = strings.TrimSpace(r.ID); r.ID != "" {
		if r.shift.ID, err = id.ParseShiftID(r.ID); err != nil {
			return err
		}
	}
	if r.shift.BoothID, err = id.ParseBoothID(strings.TrimSpace(r.BoothID)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "booth_id is required")
	}
	if r.shift.OfficerID, err = id.ParseOfficerID(strings.TrimSpace(r.OfficerID)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "officer_id is required")
	}
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(r.Date))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	r.shift.Date = date
	if r.shift.Task, err = models.ParseTask(r.Task); err != nil {
		return err
	}
	return nil
}

// Shift returns the parsed shift without tenant.
func (r *ApplyShiftRequest) Shift() models.Shift {
	return r.shift
}

type AssignmentResponse struct {
	ID                string `json:"id"`
	OfficerID         string `json:"officer_id"`
	OfficerName       string `json:"officer_name"`
	OfficerEmail      string `json:"officer_email"`
	BoothAssignmentID string `json:"booth_assignment_id"`
	Date              string `json:"date"`
	Final             bool   `json:"final"`
	ShiftID           string `json:"shift_id"`
}

type ShiftResponse struct {
	ID           string `json:"id"`
	BoothID      string `json:"booth_id"`
	OfficerID    string `json:"officer_id"`
	OfficerName  string `json:"officer_name"`
	OfficerEmail string `json:"officer_email"`
	Date         string `json:"date"`
	Task         string `json:"task"`
}

func toAssignmentResponses(list []*models.OfficerAssignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, AssignmentResponse{
			ID:                a.ID.String(),
			OfficerID:         a.OfficerID.String(),
			OfficerName:       a.OfficerName,
			OfficerEmail:      a.OfficerEmail,
			BoothAssignmentID: a.BoothAssignmentID.String(),
			Date:              a.Date.Format(time.DateOnly),
			Final:             a.Final,
			ShiftID:           a.ShiftID.String(),
		})
	}
	return out
}

func toShiftResponses(list []*models.Shift) []ShiftResponse {
	out := make([]ShiftResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ShiftResponse{
			ID:           s.ID.String(),
			BoothID:      s.BoothID.String(),
			OfficerID:    s.OfficerID.String(),
			OfficerName:  s.OfficerName,
			OfficerEmail: s.OfficerEmail,
			Date:         s.Date.Format(time.DateOnly),
			Task:         string(s.Task),
		})
	}
	return out
}
