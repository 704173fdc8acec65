package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-backend/config"
	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/schedule"
	"clinic-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPaymentOnlineOnly       = errors.New("payment orders apply to online consultations only")
	ErrOrderNotFound           = errors.New("payment order not found")
	ErrOrderAlreadyFinalized   = errors.New("payment order has already been used")
	ErrInvalidPaymentSignature = errors.New("payment signature verification failed")
)

type PaymentUsecase interface {
	CreateOrder(ctx context.Context, req *dto.CreatePaymentOrderRequest) (*dto.PaymentOrderResponse, error)
	VerifyAndFinalize(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
}

type paymentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	loc             *time.Location
	clinic          config.ClinicConfig
	orderRepo       repository.PaymentOrderRepository
	appointmentRepo repository.AppointmentRepository
	availability    AvailabilityUsecase
	reservation     service.SlotReservationService
	gateway         service.PaymentGateway
	notifier        service.Notifier
	auditService    service.AuditService
}

func NewPaymentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	clinic config.ClinicConfig,
	orderRepo repository.PaymentOrderRepository,
	appointmentRepo repository.AppointmentRepository,
	availability AvailabilityUsecase,
	reservation service.SlotReservationService,
	gateway service.PaymentGateway,
	notifier service.Notifier,
	auditService service.AuditService,
) PaymentUsecase {
	return &paymentUsecase{
		db:              db,
		log:             log,
		loc:             loc,
		clinic:          clinic,
		orderRepo:       orderRepo,
		appointmentRepo: appointmentRepo,
		availability:    availability,
		reservation:     reservation,
		gateway:         gateway,
		notifier:        notifier,
		auditService:    auditService,
	}
}

// feePaise converts the configured consultation fee (rupees) to paise.
func (u *paymentUsecase) feePaise() int64 {
	return u.clinic.ConsultFee.Mul(decimal.NewFromInt(100)).IntPart()
}

// CreateOrder registers a gateway order for an online consultation. No
// appointment row exists yet; the intent is parked in payment_orders and the
// slot is held for the checkout window so two patients cannot pay for the
// same time.
func (u *paymentUsecase) CreateOrder(ctx context.Context, req *dto.CreatePaymentOrderRequest) (*dto.PaymentOrderResponse, error) {
	if !u.gateway.Configured() {
		return nil, service.ErrGatewayNotConfigured
	}

	ct, err := parseConsultType(req.ConsultType)
	if err != nil {
		return nil, err
	}
	if ct != entity.ConsultOnline {
		return nil, ErrPaymentOnlineOnly
	}

	slot := schedule.NormalizeTime(req.Time)
	if slot == "" {
		return nil, ErrSlotNotAvailable
	}

	now := time.Now().In(u.loc)
	if err := schedule.ValidateDate(req.Date, ct, now); err != nil {
		return nil, err
	}

	available, err := u.availability.GetActualAvailableSlots(ctx, req.Date, req.ConsultType)
	if err != nil {
		return nil, err
	}
	if !schedule.Contains(available.AvailableSlots, slot) {
		return nil, ErrSlotNotAvailable
	}

	// Hold the slot for the checkout window. Same-owner re-creation (patient
	// retrying checkout) refreshes the hold instead of failing.
	owner := "order:" + req.PatientPhone
	if err := u.reservation.Reserve(ctx, req.Date, slot, ct, owner, service.PaymentHoldTTL); err != nil {
		return nil, err
	}

	amount := u.feePaise()
	receipt := "consult-" + req.Date + "-" + slot
	orderID, err := u.gateway.CreateOrder(amount, "INR", receipt, map[string]interface{}{
		"patient": req.PatientName,
		"phone":   req.PatientPhone,
		"date":    req.Date,
		"time":    slot,
	})
	if err != nil {
		u.releaseHold(req.Date, slot, ct)
		return nil, err
	}

	order := &entity.PaymentOrder{
		OrderID:      orderID,
		Date:         req.Date,
		Time:         slot,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		Age:          req.Age,
		Gender:       req.Gender,
		ConsultType:  ct,
		AmountPaise:  amount,
		Currency:     "INR",
		Status:       entity.PaymentOrderCreated,
	}
	if err := u.orderRepo.Create(u.db.WithContext(ctx), order); err != nil {
		u.log.Errorf("Failed to persist payment order %s: %+v", orderID, err)
		u.releaseHold(req.Date, slot, ct)
		return nil, err
	}

	u.log.Infof("Payment order created: order_id=%s, date=%s, time=%s", orderID, req.Date, slot)
	return &dto.PaymentOrderResponse{
		ID:       orderID,
		Amount:   amount,
		Currency: "INR",
		KeyID:    u.gateway.KeyID(),
	}, nil
}

func (u *paymentUsecase) releaseHold(date, slot string, ct entity.ConsultType) {
	syncCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.reservation.Release(syncCtx, date, slot, ct); err != nil {
		u.log.Warnf("Failed to release payment hold for %s %s (non-fatal): %+v", date, slot, err)
	}
}

// VerifyAndFinalize validates the checkout callback signature and, only on
// success, creates the appointment from the parked intent. A failed or
// dismissed checkout never reaches this point with a valid signature, so no
// booking row exists for it.
func (u *paymentUsecase) VerifyAndFinalize(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	if !u.gateway.Configured() {
		return nil, service.ErrGatewayNotConfigured
	}

	order, err := u.orderRepo.FindByOrderID(u.db.WithContext(ctx), req.RazorpayOrderID)
	if err != nil {
		u.log.Warnf("Failed to find payment order %s: %+v", req.RazorpayOrderID, err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == entity.PaymentOrderFinalized {
		return nil, ErrOrderAlreadyFinalized
	}

	if !u.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		u.log.Warnf("Invalid payment signature for order %s", req.RazorpayOrderID)
		return nil, ErrInvalidPaymentSignature
	}

	now := time.Now().In(u.loc)
	appointment := &entity.Appointment{
		BookingID:     generateBookingID(order.Date),
		Date:          order.Date,
		Time:          order.Time,
		PatientName:   order.PatientName,
		PatientPhone:  order.PatientPhone,
		Age:           order.Age,
		Gender:        order.Gender,
		ConsultType:   order.ConsultType,
		Status:        entity.AppointmentStatusBooked,
		PaymentStatus: entity.PaymentPendingVerification,
		PaymentRef:    req.RazorpayPaymentID,
	}

	// Extend the checkout-window hold to cover the booked day. The owner key
	// matches the one taken at order creation, so this refreshes in place.
	owner := "order:" + order.PatientPhone
	if err := u.reservation.Reserve(ctx, order.Date, order.Time, order.ConsultType, owner, service.HoldTTL(order.Date, now)); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	insertErr := u.appointmentRepo.Create(tx, appointment)
	if insertErr == nil {
		order.Status = entity.PaymentOrderFinalized
		insertErr = u.orderRepo.Save(tx, order)
	}
	if insertErr == nil {
		insertErr = u.auditService.Record(ctx, tx, "patient", entity.AuditActionBookingCreate, "appointment", appointment.BookingID, entity.JSON{
			"date":        appointment.Date,
			"time":        appointment.Time,
			"type":        string(appointment.ConsultType),
			"payment_ref": appointment.PaymentRef,
		})
	}
	if insertErr == nil {
		insertErr = tx.Commit().Error
	}

	if insertErr != nil {
		u.log.Errorf("Failed to finalize booking for order %s, compensating Redis hold: %+v", order.OrderID, insertErr)
		u.releaseHold(order.Date, order.Time, order.ConsultType)
		if isUniqueViolation(insertErr) {
			return nil, ErrSlotTakenConcurrently
		}
		return nil, insertErr
	}

	u.log.Infof("Booking finalized after payment: booking_id=%s, order_id=%s", appointment.BookingID, order.OrderID)
	return &dto.VerifyPaymentResponse{
		Message:               "Payment verified, appointment booked",
		Appointment:           converter.AppointmentToResponse(appointment),
		WhatsappNotifications: u.notifier.WhatsAppLinks(appointment),
	}, nil
}
