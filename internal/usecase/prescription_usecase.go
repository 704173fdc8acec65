package usecase

import (
	"context"
	"errors"
	"strconv"

	"clinic-backend/config"
	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrAlreadySent          = errors.New("prescription has already been sent")
)

type PrescriptionUsecase interface {
	CreatePrescription(ctx context.Context, actor string, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	SendPrescription(ctx context.Context, actor string, id uint) (*dto.PrescriptionResponse, error)
	// FindByPhone is the patient-facing lookup. Zero results is a normal
	// empty state, never an error.
	FindByPhone(ctx context.Context, phone string, sentOnly bool) (*dto.PrescriptionListResponse, error)
	RenderPDF(ctx context.Context, id uint) ([]byte, string, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	clinic           config.ClinicConfig
	prescriptionRepo repository.PrescriptionRepository
	renderer         service.PrescriptionRenderer
	auditService     service.AuditService
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clinic config.ClinicConfig,
	prescriptionRepo repository.PrescriptionRepository,
	renderer service.PrescriptionRenderer,
	auditService service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		clinic:           clinic,
		prescriptionRepo: prescriptionRepo,
		renderer:         renderer,
		auditService:     auditService,
	}
}

// CreatePrescription saves a prescription, as a draft (sent=false) or
// directly sent. Dosage patterns are accepted in either "1-0-1" or "101"
// form and stored compact.
func (u *prescriptionUsecase) CreatePrescription(ctx context.Context, actor string, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	items := make([]entity.PrescriptionItem, len(req.Items))
	for i, item := range req.Items {
		pattern, err := entity.NormalizeDosagePattern(item.Pattern)
		if err != nil {
			return nil, err
		}
		items[i] = entity.PrescriptionItem{
			Position: i + 1,
			Medicine: item.Medicine,
			Days:     item.Days,
			Pattern:  pattern,
			Notes:    item.Notes,
		}
	}

	prescription := &entity.Prescription{
		ClinicName:    u.clinic.Name,
		DoctorName:    u.clinic.DoctorName,
		PatientName:   req.PatientName,
		PatientAge:    req.PatientAge,
		PatientGender: req.PatientGender,
		PatientPhone:  req.PatientPhone,
		Sent:          req.Sent,
		Items:         items,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	action := entity.AuditActionPrescriptionCreate
	if req.Sent {
		action = entity.AuditActionPrescriptionSend
	}
	if err := u.auditService.Record(ctx, tx, actor, action, "prescription", strconv.FormatUint(uint64(prescription.ID), 10), entity.JSON{
		"phone": req.PatientPhone,
		"items": len(items),
		"sent":  req.Sent,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PrescriptionToResponse(prescription), nil
}

// SendPrescription flips a draft to sent, making it visible to the
// patient-facing lookup.
func (u *prescriptionUsecase) SendPrescription(ctx context.Context, actor string, id uint) (*dto.PrescriptionResponse, error) {
	db := u.db.WithContext(ctx)

	existing, err := u.prescriptionRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription %d: %+v", id, err)
		return nil, err
	}
	if existing == nil {
		return nil, ErrPrescriptionNotFound
	}
	if existing.Sent {
		return nil, ErrAlreadySent
	}

	tx := db.Begin()
	defer tx.Rollback()

	rows, err := u.prescriptionRepo.MarkSent(tx, id)
	if err != nil {
		u.log.Warnf("Failed to mark prescription %d sent: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAlreadySent
	}

	if err := u.auditService.Record(ctx, tx, actor, entity.AuditActionPrescriptionSend, "prescription", strconv.FormatUint(uint64(id), 10), nil); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	existing.Sent = true
	return converter.PrescriptionToResponse(existing), nil
}

func (u *prescriptionUsecase) FindByPhone(ctx context.Context, phone string, sentOnly bool) (*dto.PrescriptionListResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByPhone(u.db.WithContext(ctx), phone, sentOnly)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions for phone %s: %+v", phone, err)
		return nil, err
	}
	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
	}, nil
}

// RenderPDF produces the printable document and a suggested filename.
func (u *prescriptionUsecase) RenderPDF(ctx context.Context, id uint) ([]byte, string, error) {
	prescription, err := u.prescriptionRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find prescription %d: %+v", id, err)
		return nil, "", err
	}
	if prescription == nil {
		return nil, "", ErrPrescriptionNotFound
	}

	pdf, err := u.renderer.Render(prescription)
	if err != nil {
		u.log.Warnf("Failed to render prescription %d: %+v", id, err)
		return nil, "", err
	}

	filename := "prescription-" + strconv.FormatUint(uint64(id), 10) + ".pdf"
	return pdf, filename, nil
}
