package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/schedule"
	"clinic-backend/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrSlotNotAvailable      = errors.New("this time is not available for the selected date")
	ErrOnlinePaymentRequired = errors.New("online consultations are booked through the payment flow")
	ErrNotConfirmable        = errors.New("only online bookings awaiting payment verification can be confirmed")
	ErrNotCompletable        = errors.New("only booked or confirmed appointments can be completed")
	ErrAlreadyCancelled      = errors.New("appointment is already cancelled")
	ErrNotOnlineConsult      = errors.New("video sessions exist only for online consultations")
)

type BookingUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error)
	ListDoctorAppointments(ctx context.Context, query *dto.ListAppointmentsQuery) (*dto.AppointmentListResponse, error)
	// CheckAppointments is the patient-facing lookup by phone number. Zero
	// results is a normal empty state, never an error.
	CheckAppointments(ctx context.Context, phone string) (*dto.AppointmentListResponse, error)
	ConfirmAppointment(ctx context.Context, actor string, id uint) (*dto.ConfirmAppointmentResponse, error)
	CompleteAppointment(ctx context.Context, actor string, id uint) (*dto.ConfirmAppointmentResponse, error)
	CancelAppointment(ctx context.Context, actor string, id uint) error
	GetVideoSession(ctx context.Context, id uint) (*dto.VideoSessionResponse, error)
}

type bookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	loc             *time.Location
	appointmentRepo repository.AppointmentRepository
	availability    AvailabilityUsecase
	reservation     service.SlotReservationService
	notifier        service.Notifier
	auditService    service.AuditService
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	appointmentRepo repository.AppointmentRepository,
	availability AvailabilityUsecase,
	reservation service.SlotReservationService,
	notifier service.Notifier,
	auditService service.AuditService,
) BookingUsecase {
	return &bookingUsecase{
		db:              db,
		log:             log,
		loc:             loc,
		appointmentRepo: appointmentRepo,
		availability:    availability,
		reservation:     reservation,
		notifier:        notifier,
		auditService:    auditService,
	}
}

// CreateAppointment books an offline visit with a Redis-first approach.
//
// Flow:
// 1. Validate date (horizon, weekday rules) and slot membership
// 2. Redis atomic slot hold on (date, time, consultType)
// 3. Generate booking ID
// 4. Insert appointment to DB
// 5. If DB fails -> compensate: release the Redis hold
//
// Online consultations never reach this path: their row is created by payment
// verification, so a dismissed checkout leaves nothing behind.
func (u *bookingUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error) {
	ct, err := parseConsultType(req.ConsultType)
	if err != nil {
		return nil, err
	}
	if ct == entity.ConsultOnline {
		return nil, ErrOnlinePaymentRequired
	}

	slot := schedule.NormalizeTime(req.Time)
	if slot == "" {
		return nil, ErrSlotNotAvailable
	}

	now := time.Now().In(u.loc)
	if err := schedule.ValidateDate(req.Date, ct, now); err != nil {
		return nil, err
	}

	// Step 1: slot must still be in the patient-facing list
	available, err := u.availability.GetActualAvailableSlots(ctx, req.Date, req.ConsultType)
	if err != nil {
		return nil, err
	}
	if !schedule.Contains(available.AvailableSlots, slot) {
		return nil, ErrSlotNotAvailable
	}

	// Step 2: Redis atomic slot hold (fast path of double-booking prevention)
	owner := "booking:" + req.PatientPhone
	if err := u.reservation.Reserve(ctx, req.Date, slot, ct, owner, service.HoldTTL(req.Date, now)); err != nil {
		return nil, err
	}

	// Step 3 + 4: insert the appointment
	appointment := &entity.Appointment{
		BookingID:     generateBookingID(req.Date),
		Date:          req.Date,
		Time:          slot,
		PatientName:   req.PatientName,
		PatientPhone:  req.PatientPhone,
		Age:           req.Age,
		Gender:        req.Gender,
		ConsultType:   ct,
		Status:        entity.AppointmentStatusBooked,
		PaymentStatus: entity.PaymentNotProvided,
	}

	if err := u.insertAppointment(ctx, appointment); err != nil {
		return nil, err
	}

	u.log.Infof("Appointment created: booking_id=%s, date=%s, time=%s, type=%s",
		appointment.BookingID, appointment.Date, appointment.Time, appointment.ConsultType)

	return &dto.CreateAppointmentResponse{
		Message:     "Appointment booked successfully",
		Appointment: converter.AppointmentToResponse(appointment),
	}, nil
}

// insertAppointment writes the row and the audit entry, releasing the Redis
// hold when the DB rejects the insert (e.g. the partial unique index fired).
func (u *bookingUsecase) insertAppointment(ctx context.Context, appointment *entity.Appointment) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	insertErr := u.appointmentRepo.Create(tx, appointment)
	if insertErr == nil {
		if err := u.auditService.Record(ctx, tx, "patient", entity.AuditActionBookingCreate, "appointment", appointment.BookingID, entity.JSON{
			"date": appointment.Date,
			"time": appointment.Time,
			"type": string(appointment.ConsultType),
		}); err != nil {
			insertErr = err
		} else {
			insertErr = tx.Commit().Error
		}
	}

	if insertErr != nil {
		u.log.Errorf("Failed to insert appointment, compensating Redis hold: %+v", insertErr)

		syncCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if releaseErr := u.reservation.Release(syncCtx, appointment.Date, appointment.Time, appointment.ConsultType); releaseErr != nil {
			u.log.Errorf("CRITICAL: Failed to release slot hold after DB failure for %s %s: %+v",
				appointment.Date, appointment.Time, releaseErr)
		}

		if isUniqueViolation(insertErr) {
			return ErrSlotTakenConcurrently
		}
		return insertErr
	}
	return nil
}

// ErrSlotTakenConcurrently surfaces when the DB unique index catches a race
// the Redis hold missed (e.g. after a Redis flush).
var ErrSlotTakenConcurrently = errors.New("this slot has just been taken, please pick another time")

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key")
}

// ListDoctorAppointments lists bookings for the dashboard. Both range
// endpoints default to today so an empty query shows the day's schedule.
func (u *bookingUsecase) ListDoctorAppointments(ctx context.Context, query *dto.ListAppointmentsQuery) (*dto.AppointmentListResponse, error) {
	today := time.Now().In(u.loc).Format("2006-01-02")

	filter := entity.AppointmentFilter{
		Status:    query.Status,
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
	}
	if filter.StartDate == "" {
		filter.StartDate = today
	}
	if filter.EndDate == "" {
		filter.EndDate = today
	}

	appointments, err := u.appointmentRepo.FindFiltered(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Success:      true,
		Appointments: converter.AppointmentsToResponses(appointments),
	}, nil
}

func (u *bookingUsecase) CheckAppointments(ctx context.Context, phone string) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPhone(u.db.WithContext(ctx), phone)
	if err != nil {
		u.log.Warnf("Failed to find appointments for phone %s: %+v", phone, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Success:      true,
		Appointments: converter.AppointmentsToResponses(appointments),
	}, nil
}

// ConfirmAppointment moves an online booking awaiting payment verification to
// confirmed/verified and fires best-effort notifications.
func (u *bookingUsecase) ConfirmAppointment(ctx context.Context, actor string, id uint) (*dto.ConfirmAppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsConfirmable() {
		return nil, ErrNotConfirmable
	}

	appointment.Confirm()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Save(tx, appointment); err != nil {
		u.log.Warnf("Failed to confirm appointment %d: %+v", id, err)
		return nil, err
	}
	if err := u.auditService.Record(ctx, tx, actor, entity.AuditActionBookingConfirm, "appointment", appointment.BookingID, nil); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// Best-effort, both channels, off the request path.
	go u.notifier.NotifyConfirmed(appointment)

	u.log.Infof("Appointment confirmed: booking_id=%s", appointment.BookingID)
	return &dto.ConfirmAppointmentResponse{Appointment: converter.AppointmentToResponse(appointment)}, nil
}

func (u *bookingUsecase) CompleteAppointment(ctx context.Context, actor string, id uint) (*dto.ConfirmAppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsActive() {
		return nil, ErrNotCompletable
	}

	appointment.Status = entity.AppointmentStatusCompleted

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Save(tx, appointment); err != nil {
		u.log.Warnf("Failed to complete appointment %d: %+v", id, err)
		return nil, err
	}
	if err := u.auditService.Record(ctx, tx, actor, entity.AuditActionBookingComplete, "appointment", appointment.BookingID, nil); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &dto.ConfirmAppointmentResponse{Appointment: converter.AppointmentToResponse(appointment)}, nil
}

// CancelAppointment cancels a booking and releases its slot hold so the time
// becomes bookable again.
func (u *bookingUsecase) CancelAppointment(ctx context.Context, actor string, id uint) error {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if appointment.Status == entity.AppointmentStatusCancelled {
		return ErrAlreadyCancelled
	}

	appointment.Status = entity.AppointmentStatusCancelled

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Save(tx, appointment); err != nil {
		u.log.Warnf("Failed to cancel appointment %d: %+v", id, err)
		return err
	}
	if err := u.auditService.Record(ctx, tx, actor, entity.AuditActionBookingCancel, "appointment", appointment.BookingID, nil); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	// Free the slot immediately. Non-fatal: the key expires on its own.
	syncCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.reservation.Release(syncCtx, appointment.Date, appointment.Time, appointment.ConsultType); err != nil {
		u.log.Warnf("Failed to release slot hold for cancelled %s (non-fatal): %+v", appointment.BookingID, err)
	}

	u.log.Infof("Appointment cancelled: booking_id=%s", appointment.BookingID)
	return nil
}

// GetVideoSession reports the join window for an online booking: opens 5
// minutes before the scheduled time and closes 30 minutes after.
func (u *bookingUsecase) GetVideoSession(ctx context.Context, id uint) (*dto.VideoSessionResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.ConsultType != entity.ConsultOnline {
		return nil, ErrNotOnlineConsult
	}

	start, err := appointment.StartsAt(u.loc)
	if err != nil {
		return nil, err
	}
	now := time.Now().In(u.loc)

	return &dto.VideoSessionResponse{
		RoomName: appointment.VideoRoomName(),
		Joinable: appointment.CanJoinCall(now),
		OpensAt:  start.Add(-entity.JoinWindowBefore).Format(time.RFC3339),
		ClosesAt: start.Add(entity.JoinWindowAfter).Format(time.RFC3339),
	}, nil
}

// generateBookingID generates a unique booking code: BK-YYYYMMDD-XXXXXX
func generateBookingID(date string) string {
	dateStr := strings.ReplaceAll(date, "-", "")
	randomBytes := make([]byte, 3)
	rand.Read(randomBytes)
	return fmt.Sprintf("BK-%s-%06X", dateStr, randomBytes)
}
