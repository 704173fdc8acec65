// Package wizard implements the multi-step booking flow as an explicit state
// machine: one tagged step plus only the fields collected so far, with
// transition methods that validate preconditions and reset downstream state
// when an earlier choice changes. Sessions live behind the FlowStore port.
package wizard

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/schedule"

	"github.com/google/uuid"
)

// Step tags the wizard state. Steps advance strictly forward except where a
// re-selection resets downstream fields.
type Step string

const (
	StepConsultType Step = "consult_type"
	StepDatePick    Step = "date_pick"
	StepSlotPick    Step = "slot_pick"
	StepDetails     Step = "details"
	StepPayment     Step = "payment"
	StepConfirm     Step = "confirm"
	StepConfirmed   Step = "confirmed"
)

var (
	ErrWrongStep        = errors.New("operation is not valid for the current step")
	ErrUnknownConsult   = errors.New("consult type must be online or offline")
	ErrSlotUnavailable  = errors.New("selected time is not among the available slots")
	ErrFlowFinished     = errors.New("booking flow already completed")
	ErrPaymentNotNeeded = errors.New("payment step applies to online consultations only")
)

// FieldErrors is a field-scoped validation failure listing exactly which
// fields are missing or invalid. It is an error so transitions can return it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e))
}

var phoneRe = regexp.MustCompile(`^\d{10}$`)

// PatientDetails is the demographics block collected at the Details step.
type PatientDetails struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// Validate returns a FieldErrors naming every missing or invalid field, or
// nil when the block is complete.
func (d PatientDetails) Validate() error {
	errs := FieldErrors{}
	if d.Name == "" {
		errs["name"] = "name is required"
	}
	if !phoneRe.MatchString(d.Phone) {
		errs["phone"] = "phone must be exactly 10 digits"
	}
	if d.Age < 1 || d.Age > 120 {
		errs["age"] = "age must be between 1 and 120"
	}
	if d.Gender != entity.GenderMale && d.Gender != entity.GenderFemale {
		errs["gender"] = "gender must be male or female"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Flow is one booking-flow session. Only the fields relevant up to Step are
// populated; transitions clear everything downstream of a changed choice.
type Flow struct {
	ID          string             `json:"id"`
	Step        Step               `json:"step"`
	ConsultType entity.ConsultType `json:"consult_type,omitempty"`
	Date        string             `json:"date,omitempty"`
	Slots       []string           `json:"slots,omitempty"` // last fetched availability for Date
	Time        string             `json:"time,omitempty"`
	Details     *PatientDetails    `json:"details,omitempty"`
	OrderID     string             `json:"order_id,omitempty"`
	PaymentRef  string             `json:"payment_ref,omitempty"`
	BookingID   string             `json:"booking_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NewFlow starts a fresh session at the consult-type step.
func NewFlow(now time.Time) *Flow {
	return &Flow{
		ID:        uuid.New().String(),
		Step:      StepConsultType,
		CreatedAt: now,
	}
}

// SelectConsultType records the consultation type and moves to date picking.
// Re-selecting from a later step resets every downstream field.
func (f *Flow) SelectConsultType(ct entity.ConsultType) error {
	if f.Step == StepConfirmed {
		return ErrFlowFinished
	}
	if !ct.Valid() {
		return ErrUnknownConsult
	}
	f.ConsultType = ct
	f.Step = StepDatePick
	f.resetFromDate()
	return nil
}

// SelectDate validates the date against the horizon and weekday rules, caches
// the freshly fetched availability and advances to slot picking. Selecting a
// new date discards any previously chosen time.
func (f *Flow) SelectDate(date string, available []string, now time.Time) error {
	if f.Step == StepConfirmed {
		return ErrFlowFinished
	}
	if f.Step == StepConsultType {
		return ErrWrongStep
	}
	if err := schedule.ValidateDate(date, f.ConsultType, now); err != nil {
		return err
	}
	f.Date = date
	f.Slots = schedule.NormalizeSlots(available)
	f.Step = StepSlotPick
	f.resetFromTime()
	return nil
}

// SelectSlot picks a time from the cached availability and advances to the
// details step.
func (f *Flow) SelectSlot(t string) error {
	if f.Step == StepConfirmed {
		return ErrFlowFinished
	}
	if f.Step != StepSlotPick && f.Step != StepDetails && f.Step != StepPayment && f.Step != StepConfirm {
		return ErrWrongStep
	}
	if !schedule.Contains(f.Slots, t) {
		return ErrSlotUnavailable
	}
	f.Time = schedule.NormalizeTime(t)
	f.Step = StepDetails
	f.Details = nil
	f.OrderID = ""
	f.PaymentRef = ""
	return nil
}

// SubmitDetails validates the demographics block and advances to Payment for
// online consultations, or straight to Confirm for offline ones.
func (f *Flow) SubmitDetails(d PatientDetails) error {
	if f.Step == StepConfirmed {
		return ErrFlowFinished
	}
	if f.Step != StepDetails && f.Step != StepPayment && f.Step != StepConfirm {
		return ErrWrongStep
	}
	if err := d.Validate(); err != nil {
		return err
	}
	f.Details = &d
	if f.ConsultType == entity.ConsultOnline {
		f.Step = StepPayment
	} else {
		f.Step = StepConfirm
	}
	f.OrderID = ""
	f.PaymentRef = ""
	return nil
}

// AttachOrder records the gateway order created for this session. The flow
// stays on the payment step until the gateway callback is verified.
func (f *Flow) AttachOrder(orderID string) error {
	if f.Step != StepPayment {
		if f.ConsultType != entity.ConsultOnline {
			return ErrPaymentNotNeeded
		}
		return ErrWrongStep
	}
	f.OrderID = orderID
	return nil
}

// CompletePayment records a verified payment and advances to Confirm.
// A failed or dismissed checkout never calls this; the flow simply remains on
// the payment step.
func (f *Flow) CompletePayment(paymentRef string) error {
	if f.Step != StepPayment {
		if f.ConsultType != entity.ConsultOnline {
			return ErrPaymentNotNeeded
		}
		return ErrWrongStep
	}
	if f.OrderID == "" {
		return ErrWrongStep
	}
	f.PaymentRef = paymentRef
	f.Step = StepConfirm
	return nil
}

// Finish records the server-assigned booking ID. The confirmation view must
// only ever render from a flow in StepConfirmed.
func (f *Flow) Finish(bookingID string) error {
	if f.Step != StepConfirm {
		return ErrWrongStep
	}
	f.BookingID = bookingID
	f.Step = StepConfirmed
	return nil
}

func (f *Flow) resetFromDate() {
	f.Date = ""
	f.Slots = nil
	f.resetFromTime()
}

func (f *Flow) resetFromTime() {
	f.Time = ""
	f.Details = nil
	f.OrderID = ""
	f.PaymentRef = ""
	f.BookingID = ""
}
