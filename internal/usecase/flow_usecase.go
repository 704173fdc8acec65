package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-backend/config"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/schedule"
	"clinic-backend/internal/wizard"

	"github.com/sirupsen/logrus"
)

// BookingFlowUsecase drives the multi-step booking wizard server-side. Each
// operation loads the session, applies one transition and saves it back, so
// a slow earlier request can never overwrite the state a later one produced.
type BookingFlowUsecase interface {
	StartFlow(ctx context.Context) (*dto.FlowStateResponse, error)
	GetFlow(ctx context.Context, id string) (*dto.FlowStateResponse, error)
	SelectConsultType(ctx context.Context, id string, req *dto.SelectConsultTypeRequest) (*dto.FlowStateResponse, error)
	SelectDate(ctx context.Context, id string, req *dto.SelectDateRequest) (*dto.FlowStateResponse, error)
	SelectSlot(ctx context.Context, id string, req *dto.SelectSlotRequest) (*dto.FlowStateResponse, error)
	SubmitDetails(ctx context.Context, id string, req *dto.SubmitDetailsRequest) (*dto.FlowStateResponse, error)
	CreatePaymentOrder(ctx context.Context, id string) (*dto.PaymentOrderResponse, error)
	CompletePayment(ctx context.Context, id string, req *dto.VerifyPaymentRequest) (*dto.FlowStateResponse, error)
	ConfirmBooking(ctx context.Context, id string) (*dto.FlowStateResponse, error)
	// AbandonFlow drops the session. Closing the widget resets everything;
	// no partial session survives.
	AbandonFlow(ctx context.Context, id string) error
}

type bookingFlowUsecase struct {
	log          *logrus.Logger
	loc          *time.Location
	clinic       config.ClinicConfig
	store        wizard.FlowStore
	availability AvailabilityUsecase
	booking      BookingUsecase
	payment      PaymentUsecase
}

func NewBookingFlowUsecase(
	log *logrus.Logger,
	loc *time.Location,
	clinic config.ClinicConfig,
	store wizard.FlowStore,
	availability AvailabilityUsecase,
	booking BookingUsecase,
	payment PaymentUsecase,
) BookingFlowUsecase {
	return &bookingFlowUsecase{
		log:          log,
		loc:          loc,
		clinic:       clinic,
		store:        store,
		availability: availability,
		booking:      booking,
		payment:      payment,
	}
}

func (u *bookingFlowUsecase) StartFlow(ctx context.Context) (*dto.FlowStateResponse, error) {
	flow := wizard.NewFlow(time.Now().In(u.loc))
	if err := u.store.Save(ctx, flow); err != nil {
		u.log.Warnf("Failed to save new flow: %+v", err)
		return nil, err
	}
	return u.toState(flow), nil
}

func (u *bookingFlowUsecase) GetFlow(ctx context.Context, id string) (*dto.FlowStateResponse, error) {
	flow, err := u.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.toState(flow), nil
}

// mutate runs one transition against a loaded session and persists the result.
func (u *bookingFlowUsecase) mutate(ctx context.Context, id string, fn func(*wizard.Flow) error) (*wizard.Flow, error) {
	flow, err := u.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(flow); err != nil {
		return nil, err
	}
	if err := u.store.Save(ctx, flow); err != nil {
		u.log.Warnf("Failed to save flow %s: %+v", id, err)
		return nil, err
	}
	return flow, nil
}

func (u *bookingFlowUsecase) SelectConsultType(ctx context.Context, id string, req *dto.SelectConsultTypeRequest) (*dto.FlowStateResponse, error) {
	flow, err := u.mutate(ctx, id, func(f *wizard.Flow) error {
		return f.SelectConsultType(entity.ConsultType(req.ConsultType))
	})
	if err != nil {
		return nil, err
	}
	return u.toState(flow), nil
}

func (u *bookingFlowUsecase) SelectDate(ctx context.Context, id string, req *dto.SelectDateRequest) (*dto.FlowStateResponse, error) {
	flow, err := u.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	available := []string{}
	if flow.ConsultType.Valid() {
		resp, err := u.availability.GetActualAvailableSlots(ctx, req.Date, string(flow.ConsultType))
		if err != nil {
			// Transient availability failure keeps the user on date picking
			// with a retryable error; the session is untouched.
			return nil, err
		}
		available = resp.AvailableSlots
	}

	if err := flow.SelectDate(req.Date, available, time.Now().In(u.loc)); err != nil {
		return nil, err
	}
	if err := u.store.Save(ctx, flow); err != nil {
		u.log.Warnf("Failed to save flow %s: %+v", id, err)
		return nil, err
	}
	return u.toState(flow), nil
}

func (u *bookingFlowUsecase) SelectSlot(ctx context.Context, id string, req *dto.SelectSlotRequest) (*dto.FlowStateResponse, error) {
	flow, err := u.mutate(ctx, id, func(f *wizard.Flow) error {
		return f.SelectSlot(req.Time)
	})
	if err != nil {
		return nil, err
	}
	return u.toState(flow), nil
}

func (u *bookingFlowUsecase) SubmitDetails(ctx context.Context, id string, req *dto.SubmitDetailsRequest) (*dto.FlowStateResponse, error) {
	flow, err := u.mutate(ctx, id, func(f *wizard.Flow) error {
		return f.SubmitDetails(wizard.PatientDetails{
			Name:   req.Name,
			Phone:  req.Phone,
			Age:    req.Age,
			Gender: req.Gender,
		})
	})
	if err != nil {
		return nil, err
	}
	return u.toState(flow), nil
}

// CreatePaymentOrder opens the gateway order for an online flow sitting on
// the payment step and pins the order ID to the session.
func (u *bookingFlowUsecase) CreatePaymentOrder(ctx context.Context, id string) (*dto.PaymentOrderResponse, error) {
	flow, err := u.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if flow.Step != wizard.StepPayment || flow.Details == nil {
		return nil, wizard.ErrWrongStep
	}

	order, err := u.payment.CreateOrder(ctx, &dto.CreatePaymentOrderRequest{
		Date:         flow.Date,
		Time:         flow.Time,
		PatientName:  flow.Details.Name,
		PatientPhone: flow.Details.Phone,
		Age:          flow.Details.Age,
		Gender:       flow.Details.Gender,
		ConsultType:  string(flow.ConsultType),
	})
	if err != nil {
		return nil, err
	}

	if err := flow.AttachOrder(order.ID); err != nil {
		return nil, err
	}
	if err := u.store.Save(ctx, flow); err != nil {
		u.log.Warnf("Failed to save flow %s: %+v", id, err)
		return nil, err
	}
	return order, nil
}

// CompletePayment verifies the checkout callback and, because verification
// finalizes the booking server-side, jumps the flow straight to its
// confirmed state carrying the assigned booking ID.
func (u *bookingFlowUsecase) CompletePayment(ctx context.Context, id string, req *dto.VerifyPaymentRequest) (*dto.FlowStateResponse, error) {
	flow, err := u.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if flow.Step != wizard.StepPayment || flow.OrderID == "" || flow.OrderID != req.RazorpayOrderID {
		return nil, wizard.ErrWrongStep
	}

	verified, err := u.payment.VerifyAndFinalize(ctx, req)
	if err != nil {
		// Failed or dismissed checkout: the flow stays on the payment step.
		return nil, err
	}

	if err := flow.CompletePayment(req.RazorpayPaymentID); err != nil {
		return nil, err
	}
	if err := flow.Finish(verified.Appointment.BookingID); err != nil {
		return nil, err
	}
	if err := u.store.Save(ctx, flow); err != nil {
		u.log.Warnf("Failed to save flow %s: %+v", id, err)
		return nil, err
	}
	return u.toState(flow), nil
}

// ConfirmBooking submits an offline flow sitting on the confirm step. When
// the slot was taken concurrently the session stays on Confirm with a
// refreshed slot list, so the retry does not offer the stale time.
func (u *bookingFlowUsecase) ConfirmBooking(ctx context.Context, id string) (*dto.FlowStateResponse, error) {
	flow, err := u.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if flow.Step != wizard.StepConfirm || flow.Details == nil {
		return nil, wizard.ErrWrongStep
	}

	created, err := u.booking.CreateAppointment(ctx, &dto.CreateAppointmentRequest{
		Date:         flow.Date,
		Time:         flow.Time,
		PatientName:  flow.Details.Name,
		PatientPhone: flow.Details.Phone,
		Age:          flow.Details.Age,
		Gender:       flow.Details.Gender,
		ConsultType:  string(flow.ConsultType),
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrSlotTakenConcurrently) {
			u.refreshSlots(ctx, flow)
		}
		return nil, err
	}

	if err := flow.Finish(created.Appointment.BookingID); err != nil {
		return nil, err
	}
	if err := u.store.Save(ctx, flow); err != nil {
		u.log.Warnf("Failed to save flow %s: %+v", id, err)
		return nil, err
	}
	return u.toState(flow), nil
}

func (u *bookingFlowUsecase) refreshSlots(ctx context.Context, flow *wizard.Flow) {
	resp, err := u.availability.GetActualAvailableSlots(ctx, flow.Date, string(flow.ConsultType))
	if err != nil {
		u.log.Warnf("Failed to refresh slots for flow %s (non-fatal): %+v", flow.ID, err)
		return
	}
	flow.Slots = resp.AvailableSlots
	if err := u.store.Save(ctx, flow); err != nil {
		u.log.Warnf("Failed to save refreshed flow %s (non-fatal): %+v", flow.ID, err)
	}
}

func (u *bookingFlowUsecase) AbandonFlow(ctx context.Context, id string) error {
	return u.store.Delete(ctx, id)
}

func (u *bookingFlowUsecase) toState(flow *wizard.Flow) *dto.FlowStateResponse {
	state := &dto.FlowStateResponse{
		FlowID:      flow.ID,
		Step:        string(flow.Step),
		ConsultType: string(flow.ConsultType),
		Date:        flow.Date,
		Time:        flow.Time,
		OrderID:     flow.OrderID,
	}

	if flow.Slots != nil {
		buckets := schedule.Partition(flow.Slots)
		state.Slots = &dto.SlotBucketsResponse{
			Morning:   buckets.Morning,
			Afternoon: buckets.Afternoon,
			Evening:   buckets.Evening,
		}
	}
	if flow.Details != nil {
		state.Details = &dto.SubmitDetailsRequest{
			Name:   flow.Details.Name,
			Phone:  flow.Details.Phone,
			Age:    flow.Details.Age,
			Gender: flow.Details.Gender,
		}
	}
	if flow.Step == wizard.StepConfirmed {
		confirmation := &dto.FlowConfirmationResponse{BookingID: flow.BookingID}
		if flow.ConsultType == entity.ConsultOnline {
			confirmation.VideoRoomName = "clinic-consult-" + flow.BookingID
		} else {
			confirmation.ClinicAddress = u.clinic.Address
		}
		state.Confirmation = confirmation
	}
	return state
}
