package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"clinic-backend/config"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/wizard"
)

// MockAvailabilityUsecase is a mock implementation of AvailabilityUsecase
type MockAvailabilityUsecase struct {
	mock.Mock
}

func (m *MockAvailabilityUsecase) GetDefaultSlots(ctx context.Context, date, consultType string) (*dto.DefaultSlotsResponse, error) {
	args := m.Called(ctx, date, consultType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DefaultSlotsResponse), args.Error(1)
}

func (m *MockAvailabilityUsecase) GetActualAvailableSlots(ctx context.Context, date, consultType string) (*dto.SlotListResponse, error) {
	args := m.Called(ctx, date, consultType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SlotListResponse), args.Error(1)
}

func (m *MockAvailabilityUsecase) GetOverride(ctx context.Context, date, consultType string) (*dto.OverrideResponse, error) {
	args := m.Called(ctx, date, consultType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.OverrideResponse), args.Error(1)
}

func (m *MockAvailabilityUsecase) GetAvailabilityView(ctx context.Context, date, consultType string) (*dto.AvailabilityViewResponse, error) {
	args := m.Called(ctx, date, consultType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AvailabilityViewResponse), args.Error(1)
}

func (m *MockAvailabilityUsecase) UpsertOverride(ctx context.Context, actor string, req *dto.UpsertOverrideRequest) (*dto.OverrideResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.OverrideResponse), args.Error(1)
}

func (m *MockAvailabilityUsecase) DeleteOverride(ctx context.Context, actor, date, consultType string) error {
	args := m.Called(ctx, actor, date, consultType)
	return args.Error(0)
}

// MockBookingUsecase is a mock implementation of BookingUsecase
type MockBookingUsecase struct {
	mock.Mock
}

func (m *MockBookingUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CreateAppointmentResponse), args.Error(1)
}

func (m *MockBookingUsecase) ListDoctorAppointments(ctx context.Context, query *dto.ListAppointmentsQuery) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentListResponse), args.Error(1)
}

func (m *MockBookingUsecase) CheckAppointments(ctx context.Context, phone string) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentListResponse), args.Error(1)
}

func (m *MockBookingUsecase) ConfirmAppointment(ctx context.Context, actor string, id uint) (*dto.ConfirmAppointmentResponse, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ConfirmAppointmentResponse), args.Error(1)
}

func (m *MockBookingUsecase) CompleteAppointment(ctx context.Context, actor string, id uint) (*dto.ConfirmAppointmentResponse, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ConfirmAppointmentResponse), args.Error(1)
}

func (m *MockBookingUsecase) CancelAppointment(ctx context.Context, actor string, id uint) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockBookingUsecase) GetVideoSession(ctx context.Context, id uint) (*dto.VideoSessionResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoSessionResponse), args.Error(1)
}

// MockPaymentUsecase is a mock implementation of PaymentUsecase
type MockPaymentUsecase struct {
	mock.Mock
}

func (m *MockPaymentUsecase) CreateOrder(ctx context.Context, req *dto.CreatePaymentOrderRequest) (*dto.PaymentOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaymentOrderResponse), args.Error(1)
}

func (m *MockPaymentUsecase) VerifyAndFinalize(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VerifyPaymentResponse), args.Error(1)
}

type flowFixture struct {
	flow         BookingFlowUsecase
	store        wizard.FlowStore
	availability *MockAvailabilityUsecase
	booking      *MockBookingUsecase
	payment      *MockPaymentUsecase
	loc          *time.Location
}

func newFlowFixture(t *testing.T) *flowFixture {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	assert.NoError(t, err)

	f := &flowFixture{
		store:        wizard.NewMemoryFlowStore(),
		availability: new(MockAvailabilityUsecase),
		booking:      new(MockBookingUsecase),
		payment:      new(MockPaymentUsecase),
		loc:          loc,
	}
	clinic := config.ClinicConfig{Address: "12 MG Road, Bengaluru"}
	f.flow = NewBookingFlowUsecase(logrus.New(), loc, clinic, f.store, f.availability, f.booking, f.payment)
	return f
}

// bookableDate returns a date inside the booking window that is open for the
// given consult type: today for online, the first non-Sunday/Monday day for
// offline. Any 3-day window contains at least one such day.
func (f *flowFixture) bookableDate(ct entity.ConsultType) string {
	now := time.Now().In(f.loc)
	for i := 0; i < 3; i++ {
		d := now.AddDate(0, 0, i)
		if ct == entity.ConsultOffline && (d.Weekday() == time.Sunday || d.Weekday() == time.Monday) {
			continue
		}
		return d.Format("2006-01-02")
	}
	return now.Format("2006-01-02")
}

// advanceTo drives a fresh flow to the details-submitted state and returns its ID.
func (f *flowFixture) advanceTo(t *testing.T, ct entity.ConsultType, date string) string {
	t.Helper()
	ctx := context.Background()

	state, err := f.flow.StartFlow(ctx)
	assert.NoError(t, err)

	f.availability.On("GetActualAvailableSlots", mock.Anything, date, string(ct)).
		Return(&dto.SlotListResponse{AvailableSlots: []string{"10:00", "10:30"}}, nil)

	_, err = f.flow.SelectConsultType(ctx, state.FlowID, &dto.SelectConsultTypeRequest{ConsultType: string(ct)})
	assert.NoError(t, err)
	_, err = f.flow.SelectDate(ctx, state.FlowID, &dto.SelectDateRequest{Date: date})
	assert.NoError(t, err)
	_, err = f.flow.SelectSlot(ctx, state.FlowID, &dto.SelectSlotRequest{Time: "10:00"})
	assert.NoError(t, err)
	_, err = f.flow.SubmitDetails(ctx, state.FlowID, &dto.SubmitDetailsRequest{
		Name: "Asha Rao", Phone: "9876543210", Age: 34, Gender: "female",
	})
	assert.NoError(t, err)
	return state.FlowID
}

func TestFlowStartAndGet(t *testing.T) {
	f := newFlowFixture(t)
	ctx := context.Background()

	state, err := f.flow.StartFlow(ctx)
	assert.NoError(t, err)
	assert.Equal(t, string(wizard.StepConsultType), state.Step)
	assert.NotEmpty(t, state.FlowID)

	got, err := f.flow.GetFlow(ctx, state.FlowID)
	assert.NoError(t, err)
	assert.Equal(t, state.FlowID, got.FlowID)

	_, err = f.flow.GetFlow(ctx, "missing")
	assert.ErrorIs(t, err, wizard.ErrFlowNotFound)
}

func TestFlowSelectDateFetchesAvailability(t *testing.T) {
	f := newFlowFixture(t)
	ctx := context.Background()
	date := f.bookableDate(entity.ConsultOnline)

	state, err := f.flow.StartFlow(ctx)
	assert.NoError(t, err)
	_, err = f.flow.SelectConsultType(ctx, state.FlowID, &dto.SelectConsultTypeRequest{ConsultType: "online"})
	assert.NoError(t, err)

	f.availability.On("GetActualAvailableSlots", mock.Anything, date, "online").
		Return(&dto.SlotListResponse{AvailableSlots: []string{"09:00", "14:00", "20:00"}}, nil)

	got, err := f.flow.SelectDate(ctx, state.FlowID, &dto.SelectDateRequest{Date: date})
	assert.NoError(t, err)
	assert.Equal(t, string(wizard.StepSlotPick), got.Step)
	assert.Equal(t, []string{"09:00"}, got.Slots.Morning)
	assert.Equal(t, []string{"14:00"}, got.Slots.Afternoon)
	assert.Equal(t, []string{"20:00"}, got.Slots.Evening)
	f.availability.AssertExpectations(t)
}

func TestFlowOfflineConfirm(t *testing.T) {
	f := newFlowFixture(t)
	ctx := context.Background()
	date := f.bookableDate(entity.ConsultOffline)
	id := f.advanceTo(t, entity.ConsultOffline, date)

	f.booking.On("CreateAppointment", mock.Anything, mock.MatchedBy(func(req *dto.CreateAppointmentRequest) bool {
		return req.Date == date && req.Time == "10:00" && req.ConsultType == "offline" && req.PatientPhone == "9876543210"
	})).Return(&dto.CreateAppointmentResponse{
		Message:     "Appointment booked successfully",
		Appointment: &dto.AppointmentResponse{BookingID: "BK-TEST-000001"},
	}, nil)

	state, err := f.flow.ConfirmBooking(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, string(wizard.StepConfirmed), state.Step)
	assert.Equal(t, "BK-TEST-000001", state.Confirmation.BookingID)
	assert.Equal(t, "12 MG Road, Bengaluru", state.Confirmation.ClinicAddress)
	assert.Empty(t, state.Confirmation.VideoRoomName)
	f.booking.AssertExpectations(t)
}

func TestFlowConfirmSlotTakenRefreshes(t *testing.T) {
	f := newFlowFixture(t)
	ctx := context.Background()
	date := f.bookableDate(entity.ConsultOffline)
	id := f.advanceTo(t, entity.ConsultOffline, date)

	f.booking.On("CreateAppointment", mock.Anything, mock.Anything).
		Return(nil, ErrSlotTakenConcurrently).Once()

	_, err := f.flow.ConfirmBooking(ctx, id)
	assert.ErrorIs(t, err, ErrSlotTakenConcurrently)

	// The session stays on Confirm with a freshly fetched slot list.
	state, err := f.flow.GetFlow(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, string(wizard.StepConfirm), state.Step)
}

func TestFlowOnlinePayment(t *testing.T) {
	f := newFlowFixture(t)
	ctx := context.Background()
	date := f.bookableDate(entity.ConsultOnline)
	id := f.advanceTo(t, entity.ConsultOnline, date)

	f.payment.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *dto.CreatePaymentOrderRequest) bool {
		return req.ConsultType == "online" && req.Date == date && req.Time == "10:00"
	})).Return(&dto.PaymentOrderResponse{ID: "order_abc", Amount: 50000, Currency: "INR", KeyID: "rzp_test"}, nil)

	order, err := f.flow.CreatePaymentOrder(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)

	verify := &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: "sig",
	}
	f.payment.On("VerifyAndFinalize", mock.Anything, verify).
		Return(&dto.VerifyPaymentResponse{
			Message:     "Payment verified",
			Appointment: &dto.AppointmentResponse{BookingID: "BK-TEST-000002"},
		}, nil)

	state, err := f.flow.CompletePayment(ctx, id, verify)
	assert.NoError(t, err)
	assert.Equal(t, string(wizard.StepConfirmed), state.Step)
	assert.Equal(t, "BK-TEST-000002", state.Confirmation.BookingID)
	assert.Equal(t, "clinic-consult-BK-TEST-000002", state.Confirmation.VideoRoomName)
	f.payment.AssertExpectations(t)
}

func TestFlowCompletePaymentWrongOrder(t *testing.T) {
	f := newFlowFixture(t)
	ctx := context.Background()
	date := f.bookableDate(entity.ConsultOnline)
	id := f.advanceTo(t, entity.ConsultOnline, date)

	f.payment.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&dto.PaymentOrderResponse{ID: "order_abc", Amount: 50000, Currency: "INR"}, nil)
	_, err := f.flow.CreatePaymentOrder(ctx, id)
	assert.NoError(t, err)

	_, err = f.flow.CompletePayment(ctx, id, &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_other",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: "sig",
	})
	assert.ErrorIs(t, err, wizard.ErrWrongStep)
	f.payment.AssertNotCalled(t, "VerifyAndFinalize", mock.Anything, mock.Anything)
}

func TestFlowFailedVerifyStaysOnPayment(t *testing.T) {
	f := newFlowFixture(t)
	ctx := context.Background()
	date := f.bookableDate(entity.ConsultOnline)
	id := f.advanceTo(t, entity.ConsultOnline, date)

	f.payment.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&dto.PaymentOrderResponse{ID: "order_abc", Amount: 50000, Currency: "INR"}, nil)
	_, err := f.flow.CreatePaymentOrder(ctx, id)
	assert.NoError(t, err)

	verify := &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: "bad",
	}
	f.payment.On("VerifyAndFinalize", mock.Anything, verify).
		Return(nil, ErrInvalidPaymentSignature)

	_, err = f.flow.CompletePayment(ctx, id, verify)
	assert.ErrorIs(t, err, ErrInvalidPaymentSignature)

	state, err := f.flow.GetFlow(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, string(wizard.StepPayment), state.Step)
}

func TestFlowCreateOrderRequiresPaymentStep(t *testing.T) {
	f := newFlowFixture(t)
	ctx := context.Background()
	date := f.bookableDate(entity.ConsultOffline)
	id := f.advanceTo(t, entity.ConsultOffline, date)

	// Offline flows sit on Confirm after details, never on Payment.
	_, err := f.flow.CreatePaymentOrder(ctx, id)
	assert.ErrorIs(t, err, wizard.ErrWrongStep)
	f.payment.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestFlowAbandon(t *testing.T) {
	f := newFlowFixture(t)
	ctx := context.Background()

	state, err := f.flow.StartFlow(ctx)
	assert.NoError(t, err)

	assert.NoError(t, f.flow.AbandonFlow(ctx, state.FlowID))
	_, err = f.flow.GetFlow(ctx, state.FlowID)
	assert.ErrorIs(t, err, wizard.ErrFlowNotFound)
}
