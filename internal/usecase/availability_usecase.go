package usecase

import (
	"context"
	"errors"
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
	ErrInvalidConsultType = errors.New("consultType must be online or offline")
	ErrInvalidDate        = errors.New("date must be formatted YYYY-MM-DD")
	ErrAlwaysOfflineOnly  = errors.New("applyMode 'always' is only available for offline consultations")
	ErrNoValidSlots       = errors.New("slots must contain at least one valid HH:MM time")
)

type AvailabilityUsecase interface {
	GetDefaultSlots(ctx context.Context, date, consultType string) (*dto.DefaultSlotsResponse, error)
	GetActualAvailableSlots(ctx context.Context, date, consultType string) (*dto.SlotListResponse, error)
	GetOverride(ctx context.Context, date, consultType string) (*dto.OverrideResponse, error)
	GetAvailabilityView(ctx context.Context, date, consultType string) (*dto.AvailabilityViewResponse, error)
	UpsertOverride(ctx context.Context, actor string, req *dto.UpsertOverrideRequest) (*dto.OverrideResponse, error)
	DeleteOverride(ctx context.Context, actor, date, consultType string) error
}

type availabilityUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	overrideRepo    repository.AvailabilityOverrideRepository
	defaultRepo     repository.DefaultScheduleRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	overrideRepo repository.AvailabilityOverrideRepository,
	defaultRepo repository.DefaultScheduleRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:              db,
		log:             log,
		overrideRepo:    overrideRepo,
		defaultRepo:     defaultRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

func parseConsultType(s string) (entity.ConsultType, error) {
	switch entity.ConsultType(s) {
	case entity.ConsultOnline:
		return entity.ConsultOnline, nil
	case entity.ConsultOffline:
		return entity.ConsultOffline, nil
	default:
		return "", ErrInvalidConsultType
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// defaultSlotsFor reads the recurring weekly baseline for the date's weekday.
func (u *availabilityUsecase) defaultSlotsFor(db *gorm.DB, date time.Time, consultType entity.ConsultType) ([]string, error) {
	row, err := u.defaultRepo.FindByWeekday(db, int(date.Weekday()), consultType)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return []string{}, nil
	}
	return schedule.NormalizeSlots(row.Slots), nil
}

func (u *availabilityUsecase) GetDefaultSlots(ctx context.Context, date, consultType string) (*dto.DefaultSlotsResponse, error) {
	ct, err := parseConsultType(consultType)
	if err != nil {
		return nil, err
	}
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	slots, err := u.defaultSlotsFor(u.db.WithContext(ctx), d, ct)
	if err != nil {
		u.log.Warnf("Failed to load default slots for %s/%s: %+v", date, consultType, err)
		return nil, err
	}
	return &dto.DefaultSlotsResponse{Slots: slots}, nil
}

// GetActualAvailableSlots is the patient-facing list: default or override
// slots minus already-booked times.
func (u *availabilityUsecase) GetActualAvailableSlots(ctx context.Context, date, consultType string) (*dto.SlotListResponse, error) {
	ct, err := parseConsultType(consultType)
	if err != nil {
		return nil, err
	}
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	available, err := u.resolveAvailable(db, date, d, ct)
	if err != nil {
		return nil, err
	}
	return &dto.SlotListResponse{AvailableSlots: available}, nil
}

func (u *availabilityUsecase) resolveAvailable(db *gorm.DB, date string, d time.Time, ct entity.ConsultType) ([]string, error) {
	defaults, err := u.defaultSlotsFor(db, d, ct)
	if err != nil {
		u.log.Warnf("Failed to load default slots for %s/%s: %+v", date, ct, err)
		return nil, err
	}
	override, err := u.overrideRepo.Find(db, date, ct)
	if err != nil {
		u.log.Warnf("Failed to load override for %s/%s: %+v", date, ct, err)
		return nil, err
	}
	booked, err := u.appointmentRepo.BookedTimes(db, date, ct)
	if err != nil {
		u.log.Warnf("Failed to load booked times for %s/%s: %+v", date, ct, err)
		return nil, err
	}
	return schedule.Resolve(defaults, override, booked), nil
}

func (u *availabilityUsecase) GetOverride(ctx context.Context, date, consultType string) (*dto.OverrideResponse, error) {
	ct, err := parseConsultType(consultType)
	if err != nil {
		return nil, err
	}
	if _, err := parseDate(date); err != nil {
		return nil, err
	}

	override, err := u.overrideRepo.Find(u.db.WithContext(ctx), date, ct)
	if err != nil {
		u.log.Warnf("Failed to load override for %s/%s: %+v", date, consultType, err)
		return nil, err
	}
	return converter.OverrideToResponse(override), nil
}

// GetAvailabilityView returns all three layers at once so the admin editor
// can show the baseline, the override and the patient-facing result
// side-by-side.
func (u *availabilityUsecase) GetAvailabilityView(ctx context.Context, date, consultType string) (*dto.AvailabilityViewResponse, error) {
	ct, err := parseConsultType(consultType)
	if err != nil {
		return nil, err
	}
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	defaults, err := u.defaultSlotsFor(db, d, ct)
	if err != nil {
		return nil, err
	}
	override, err := u.overrideRepo.Find(db, date, ct)
	if err != nil {
		return nil, err
	}
	available, err := u.resolveAvailable(db, date, d, ct)
	if err != nil {
		return nil, err
	}

	return &dto.AvailabilityViewResponse{
		Date:           date,
		ConsultType:    consultType,
		DefaultSlots:   defaults,
		Override:       converter.OverrideToResponse(override),
		AvailableSlots: available,
	}, nil
}

// UpsertOverride applies an admin edit for one date. applyMode "always"
// (offline only) writes the slots into the recurring weekday default and
// drops the per-date override, so the change outlives the date.
func (u *availabilityUsecase) UpsertOverride(ctx context.Context, actor string, req *dto.UpsertOverrideRequest) (*dto.OverrideResponse, error) {
	ct, err := parseConsultType(req.ConsultType)
	if err != nil {
		return nil, err
	}
	d, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	applyMode := entity.ApplyOnce
	if req.ApplyMode == string(entity.ApplyAlways) {
		applyMode = entity.ApplyAlways
	}
	if applyMode == entity.ApplyAlways && ct != entity.ConsultOffline {
		return nil, ErrAlwaysOfflineOnly
	}

	slots := schedule.NormalizeSlots(req.Slots)
	if !req.Closed && len(req.Slots) > 0 && len(slots) == 0 {
		return nil, ErrNoValidSlots
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if applyMode == entity.ApplyAlways {
		weekday := int(d.Weekday())
		permanent := entity.StringList(slots)
		if req.Closed {
			permanent = entity.StringList{}
		}
		if err := u.defaultRepo.UpsertSlots(tx, weekday, ct, permanent); err != nil {
			u.log.Warnf("Failed to update default schedule for weekday %d: %+v", weekday, err)
			return nil, err
		}
		// The permanent schedule now carries the change for this weekday.
		if err := u.overrideRepo.Delete(tx, req.Date, ct); err != nil {
			u.log.Warnf("Failed to drop override for %s/%s: %+v", req.Date, ct, err)
			return nil, err
		}
	} else {
		override := &entity.AvailabilityOverride{
			Date:        req.Date,
			ConsultType: ct,
			Closed:      req.Closed,
			Slots:       entity.StringList(slots),
			ApplyMode:   applyMode,
		}
		if req.Closed {
			override.Slots = nil
		}
		if err := u.overrideRepo.Upsert(tx, override); err != nil {
			u.log.Warnf("Failed to upsert override for %s/%s: %+v", req.Date, ct, err)
			return nil, err
		}
	}

	if err := u.auditService.Record(ctx, tx, actor, entity.AuditActionOverrideUpsert, "availability_override", req.Date+"/"+req.ConsultType, entity.JSON{
		"closed":     req.Closed,
		"slots":      slots,
		"apply_mode": string(applyMode),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	override, err := u.overrideRepo.Find(u.db.WithContext(ctx), req.Date, ct)
	if err != nil {
		return nil, err
	}
	return converter.OverrideToResponse(override), nil
}

// DeleteOverride reverts a date to the recurring default. Deleting a missing
// override succeeds, so repeated deletes behave identically.
func (u *availabilityUsecase) DeleteOverride(ctx context.Context, actor, date, consultType string) error {
	ct, err := parseConsultType(consultType)
	if err != nil {
		return err
	}
	if _, err := parseDate(date); err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.overrideRepo.Delete(tx, date, ct); err != nil {
		u.log.Warnf("Failed to delete override for %s/%s: %+v", date, consultType, err)
		return err
	}

	if err := u.auditService.Record(ctx, tx, actor, entity.AuditActionOverrideDelete, "availability_override", date+"/"+consultType, nil); err != nil {
		return err
	}

	return tx.Commit().Error
}
