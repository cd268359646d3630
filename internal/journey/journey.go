// Package journey holds the state of a staff member's book-a-visit or
// change-a-visit journey between requests.
package journey

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
)

var (
	ErrNotFound       = errors.New("journey: not found")
	ErrStepOutOfOrder = errors.New("journey: previous steps incomplete")
	ErrInvalidStep    = errors.New("journey: invalid step")
	ErrCompleted      = errors.New("journey: already completed")
)

// Step names a page of the journey.
type Step string

const (
	StepSelectVisitors    Step = "select-visitors"
	StepChooseTime        Step = "choose-time"
	StepAdditionalSupport Step = "additional-support"
	StepMainContact       Step = "main-contact"
	StepRequestMethod     Step = "request-method"
	StepCheckAnswers      Step = "check-answers"
)

// Steps in the order they must first be completed.
var Steps = []Step{
	StepSelectVisitors,
	StepChooseTime,
	StepAdditionalSupport,
	StepMainContact,
	StepRequestMethod,
	StepCheckAnswers,
}

// ParseStep validates a step name from a URL.
func ParseStep(s string) (Step, error) {
	for _, step := range Steps {
		if string(step) == s {
			return step, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStep, s)
}

func stepIndex(step Step) int {
	for i, s := range Steps {
		if s == step {
			return i
		}
	}
	return -1
}

// Status of a journey.
type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Request methods a booking can arrive by.
var requestMethods = map[string]bool{
	"PHONE":       true,
	"WEBSITE":     true,
	"EMAIL":       true,
	"IN_PERSON":   true,
	"BY_PRISONER": true,
}

// SelectVisitors is the select-visitors answer.
type SelectVisitors struct {
	VisitorIDs  []int64                        `json:"visitorIds"`
	Restriction orchestration.VisitRestriction `json:"restriction"`
}

// ChooseTime is the chosen session.
type ChooseTime struct {
	SessionDate              string `json:"sessionDate"`
	SessionTemplateReference string `json:"sessionTemplateReference"`
}

// AdditionalSupport records any support the visitors need.
type AdditionalSupport struct {
	Required bool   `json:"required"`
	Details  string `json:"details,omitempty"`
}

// MainContact is the person the prison contacts about the visit.
type MainContact struct {
	ContactID *int64 `json:"contactId,omitempty"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
}

// RequestMethod is how the visit was requested.
type RequestMethod struct {
	Method string `json:"method"`
}

// CheckAnswers confirms the answers.
type CheckAnswers struct {
	Confirmed bool `json:"confirmed"`
}

// Journey is the persisted wizard state.
type Journey struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	PrisonID       string `json:"prisonId"`
	PrisonerID     string `json:"prisonerId"`
	VisitReference string `json:"visitReference,omitempty"`
	Status         Status `json:"status"`

	SelectVisitors    *SelectVisitors    `json:"selectVisitors,omitempty"`
	ChooseTime        *ChooseTime        `json:"chooseTime,omitempty"`
	AdditionalSupport *AdditionalSupport `json:"additionalSupport,omitempty"`
	MainContact       *MainContact       `json:"mainContact,omitempty"`
	RequestMethod     *RequestMethod     `json:"requestMethod,omitempty"`
	CheckAnswers      *CheckAnswers      `json:"checkAnswers,omitempty"`

	// ApplicationReference is the reserved upstream application, kept so a
	// failed booking is retried against the same reservation.
	ApplicationReference string    `json:"applicationReference,omitempty"`
	BookingReference     string    `json:"bookingReference,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// IsUpdate reports whether the journey changes an existing visit.
func (j *Journey) IsUpdate() bool {
	return j.VisitReference != ""
}

// Done reports whether step has an answer.
func (j *Journey) Done(step Step) bool {
	switch step {
	case StepSelectVisitors:
		return j.SelectVisitors != nil
	case StepChooseTime:
		return j.ChooseTime != nil
	case StepAdditionalSupport:
		return j.AdditionalSupport != nil
	case StepMainContact:
		return j.MainContact != nil
	case StepRequestMethod:
		return j.RequestMethod != nil
	case StepCheckAnswers:
		return j.CheckAnswers != nil
	}
	return false
}

// NextStep returns the first unanswered step, or "" when all are answered.
func (j *Journey) NextStep() Step {
	for _, step := range Steps {
		if !j.Done(step) {
			return step
		}
	}
	return ""
}

// Apply decodes payload as the answer to step and stores it. Every earlier
// step must already be answered. Answering an earlier step again keeps the
// later answers.
func (j *Journey) Apply(step Step, payload []byte) error {
	if j.Status == StatusCompleted {
		return ErrCompleted
	}
	idx := stepIndex(step)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrInvalidStep, step)
	}
	for _, prev := range Steps[:idx] {
		if !j.Done(prev) {
			return fmt.Errorf("%w: %s needs %s", ErrStepOutOfOrder, step, prev)
		}
	}

	switch step {
	case StepSelectVisitors:
		var v SelectVisitors
		if err := decode(payload, &v); err != nil {
			return err
		}
		if len(v.VisitorIDs) == 0 {
			return fmt.Errorf("%w: select at least one visitor", ErrInvalidStep)
		}
		r, err := orchestration.ParseVisitRestriction(string(v.Restriction))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidStep, err)
		}
		v.Restriction = r
		j.SelectVisitors = &v
	case StepChooseTime:
		var v ChooseTime
		if err := decode(payload, &v); err != nil {
			return err
		}
		if _, err := time.Parse("2006-01-02", v.SessionDate); err != nil {
			return fmt.Errorf("%w: session date %q", ErrInvalidStep, v.SessionDate)
		}
		if v.SessionTemplateReference == "" {
			return fmt.Errorf("%w: session template reference required", ErrInvalidStep)
		}
		j.ChooseTime = &v
	case StepAdditionalSupport:
		var v AdditionalSupport
		if err := decode(payload, &v); err != nil {
			return err
		}
		v.Details = strings.TrimSpace(v.Details)
		if v.Required && v.Details == "" {
			return fmt.Errorf("%w: describe the support needed", ErrInvalidStep)
		}
		if !v.Required {
			v.Details = ""
		}
		j.AdditionalSupport = &v
	case StepMainContact:
		var v MainContact
		if err := decode(payload, &v); err != nil {
			return err
		}
		v.Name = strings.TrimSpace(v.Name)
		if v.Name == "" {
			return fmt.Errorf("%w: main contact name required", ErrInvalidStep)
		}
		j.MainContact = &v
	case StepRequestMethod:
		var v RequestMethod
		if err := decode(payload, &v); err != nil {
			return err
		}
		v.Method = strings.ToUpper(v.Method)
		if !requestMethods[v.Method] {
			return fmt.Errorf("%w: request method %q", ErrInvalidStep, v.Method)
		}
		j.RequestMethod = &v
	case StepCheckAnswers:
		var v CheckAnswers
		if err := decode(payload, &v); err != nil {
			return err
		}
		if !v.Confirmed {
			return fmt.Errorf("%w: answers not confirmed", ErrInvalidStep)
		}
		j.CheckAnswers = &v
	}
	return nil
}

func decode(payload []byte, out any) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidStep)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStep, err)
	}
	return nil
}
