package usecase

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

// stubConnPool satisfies gorm's connection pool so usecases that open
// transactions can run against mocked repositories. No SQL ever reaches it;
// repositories are mocked above the driver.
type stubConnPool struct{}

func (stubConnPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, nil
}

func (stubConnPool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (stubConnPool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (stubConnPool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (stubConnPool) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	return &stubTxPool{}, nil
}

type stubTxPool struct {
	stubConnPool
}

func (*stubTxPool) Commit() error   { return nil }
func (*stubTxPool) Rollback() error { return nil }

func newStubDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{ConnPool: stubConnPool{}})
	if err != nil {
		t.Fatalf("failed to open stub database: %v", err)
	}
	return db
}

// MockAvailabilityOverrideRepository is a mock implementation of AvailabilityOverrideRepository
type MockAvailabilityOverrideRepository struct {
	mock.Mock
}

func (m *MockAvailabilityOverrideRepository) Find(db *gorm.DB, date string, consultType entity.ConsultType) (*entity.AvailabilityOverride, error) {
	args := m.Called(db, date, consultType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AvailabilityOverride), args.Error(1)
}

func (m *MockAvailabilityOverrideRepository) Upsert(db *gorm.DB, override *entity.AvailabilityOverride) error {
	args := m.Called(db, override)
	return args.Error(0)
}

func (m *MockAvailabilityOverrideRepository) Delete(db *gorm.DB, date string, consultType entity.ConsultType) error {
	args := m.Called(db, date, consultType)
	return args.Error(0)
}

// MockDefaultScheduleRepository is a mock implementation of DefaultScheduleRepository
type MockDefaultScheduleRepository struct {
	mock.Mock
}

func (m *MockDefaultScheduleRepository) FindByWeekday(db *gorm.DB, weekday int, consultType entity.ConsultType) (*entity.DefaultSchedule, error) {
	args := m.Called(db, weekday, consultType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DefaultSchedule), args.Error(1)
}

func (m *MockDefaultScheduleRepository) UpsertSlots(db *gorm.DB, weekday int, consultType entity.ConsultType, slots entity.StringList) error {
	args := m.Called(db, weekday, consultType, slots)
	return args.Error(0)
}

// MockAppointmentRepository is a mock implementation of AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	args := m.Called(db, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) FindByID(db *gorm.DB, id uint) (*entity.Appointment, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByBookingID(db *gorm.DB, bookingID string) (*entity.Appointment, error) {
	args := m.Called(db, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) BookedTimes(db *gorm.DB, date string, consultType entity.ConsultType) ([]string, error) {
	args := m.Called(db, date, consultType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAppointmentRepository) FindFiltered(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	args := m.Called(db, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByPhone(db *gorm.DB, phone string) ([]entity.Appointment, error) {
	args := m.Called(db, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Save(db *gorm.DB, appointment *entity.Appointment) error {
	args := m.Called(db, appointment)
	return args.Error(0)
}

// MockAuditService is a mock implementation of service.AuditService
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID string, detail interface{}) error {
	args := m.Called(ctx, tx, actor, action, entityName, entityID, detail)
	return args.Error(0)
}

func (m *MockAuditService) RecordChange(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	args := m.Called(ctx, tx, actor, action, entityName, entityID, oldValue, newValue)
	return args.Error(0)
}

type availabilityFixture struct {
	uc           AvailabilityUsecase
	overrideRepo *MockAvailabilityOverrideRepository
	defaultRepo  *MockDefaultScheduleRepository
	apptRepo     *MockAppointmentRepository
	audit        *MockAuditService
}

func newAvailabilityFixture(t *testing.T) *availabilityFixture {
	t.Helper()
	f := &availabilityFixture{
		overrideRepo: new(MockAvailabilityOverrideRepository),
		defaultRepo:  new(MockDefaultScheduleRepository),
		apptRepo:     new(MockAppointmentRepository),
		audit:        new(MockAuditService),
	}
	log := logrus.New()
	f.uc = NewAvailabilityUsecase(newStubDB(t), log, f.overrideRepo, f.defaultRepo, f.apptRepo, f.audit)
	return f
}

func TestUpsertOverrideAlwaysMergesIntoDefault(t *testing.T) {
	ctx := context.Background()

	t.Run("slots become the new weekday default and the override is dropped", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		// 2025-07-02 is a Wednesday, weekday 3.
		f.defaultRepo.On("UpsertSlots", mock.Anything, 3, entity.ConsultOffline,
			entity.StringList{"09:30", "10:00"}).Return(nil)
		f.overrideRepo.On("Delete", mock.Anything, "2025-07-02", entity.ConsultOffline).Return(nil)
		f.audit.On("Record", mock.Anything, mock.Anything, "doctor@clinic.local",
			entity.AuditActionOverrideUpsert, "availability_override", "2025-07-02/offline",
			mock.Anything).Return(nil)
		f.overrideRepo.On("Find", mock.Anything, "2025-07-02", entity.ConsultOffline).Return(nil, nil)

		resp, err := f.uc.UpsertOverride(ctx, "doctor@clinic.local", &dto.UpsertOverrideRequest{
			Date:        "2025-07-02",
			ConsultType: "offline",
			Slots:       []string{"9:30", "10:00"},
			ApplyMode:   "always",
		})

		assert.NoError(t, err)
		assert.Nil(t, resp)
		f.defaultRepo.AssertExpectations(t)
		f.overrideRepo.AssertExpectations(t)
		f.overrideRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("closed writes an empty weekday default", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		f.defaultRepo.On("UpsertSlots", mock.Anything, 3, entity.ConsultOffline,
			entity.StringList{}).Return(nil)
		f.overrideRepo.On("Delete", mock.Anything, "2025-07-02", entity.ConsultOffline).Return(nil)
		f.audit.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.overrideRepo.On("Find", mock.Anything, "2025-07-02", entity.ConsultOffline).Return(nil, nil)

		_, err := f.uc.UpsertOverride(ctx, "doctor@clinic.local", &dto.UpsertOverrideRequest{
			Date:        "2025-07-02",
			ConsultType: "offline",
			Closed:      true,
			Slots:       []string{"10:00"},
			ApplyMode:   "always",
		})

		assert.NoError(t, err)
		f.defaultRepo.AssertExpectations(t)
	})

	t.Run("online is rejected", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		resp, err := f.uc.UpsertOverride(ctx, "doctor@clinic.local", &dto.UpsertOverrideRequest{
			Date:        "2025-07-02",
			ConsultType: "online",
			Slots:       []string{"11:00"},
			ApplyMode:   "always",
		})

		assert.ErrorIs(t, err, ErrAlwaysOfflineOnly)
		assert.Nil(t, resp)
		f.defaultRepo.AssertNotCalled(t, "UpsertSlots", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.overrideRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpsertOverrideClosedIgnoresSlots(t *testing.T) {
	f := newAvailabilityFixture(t)

	stored := &entity.AvailabilityOverride{
		Date:        "2025-07-03",
		ConsultType: entity.ConsultOnline,
		Closed:      true,
		ApplyMode:   entity.ApplyOnce,
	}
	f.overrideRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(o *entity.AvailabilityOverride) bool {
		return o.Date == "2025-07-03" && o.ConsultType == entity.ConsultOnline &&
			o.Closed && o.Slots == nil && o.ApplyMode == entity.ApplyOnce
	})).Return(nil)
	f.audit.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.overrideRepo.On("Find", mock.Anything, "2025-07-03", entity.ConsultOnline).Return(stored, nil)

	resp, err := f.uc.UpsertOverride(context.Background(), "doctor@clinic.local", &dto.UpsertOverrideRequest{
		Date:        "2025-07-03",
		ConsultType: "online",
		Closed:      true,
		Slots:       []string{"11:00", "11:30"},
	})

	assert.NoError(t, err)
	assert.True(t, resp.Closed)
	assert.Empty(t, resp.Slots)
	f.overrideRepo.AssertExpectations(t)
}

func TestUpsertOverrideRoundTrip(t *testing.T) {
	f := newAvailabilityFixture(t)

	stored := &entity.AvailabilityOverride{
		Date:        "2025-07-03",
		ConsultType: entity.ConsultOffline,
		Slots:       entity.StringList{"09:30", "10:00"},
		ApplyMode:   entity.ApplyOnce,
	}
	// Slot lists are normalized before storage: zero-padded, de-duplicated,
	// sorted.
	f.overrideRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(o *entity.AvailabilityOverride) bool {
		return o.Date == "2025-07-03" && !o.Closed &&
			assert.ObjectsAreEqual(entity.StringList{"09:30", "10:00"}, o.Slots)
	})).Return(nil)
	f.audit.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.overrideRepo.On("Find", mock.Anything, "2025-07-03", entity.ConsultOffline).Return(stored, nil)

	resp, err := f.uc.UpsertOverride(context.Background(), "doctor@clinic.local", &dto.UpsertOverrideRequest{
		Date:        "2025-07-03",
		ConsultType: "offline",
		Slots:       []string{"10:00", "9:30", "10:00"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "2025-07-03", resp.Date)
	assert.Equal(t, "offline", resp.ConsultType)
	assert.Equal(t, []string{"09:30", "10:00"}, resp.Slots)
	assert.Equal(t, "once", resp.ApplyMode)

	got, err := f.uc.GetOverride(context.Background(), "2025-07-03", "offline")
	assert.NoError(t, err)
	assert.Equal(t, resp, got)
	f.overrideRepo.AssertExpectations(t)
}

func TestUpsertOverrideAllSlotsInvalid(t *testing.T) {
	f := newAvailabilityFixture(t)

	resp, err := f.uc.UpsertOverride(context.Background(), "doctor@clinic.local", &dto.UpsertOverrideRequest{
		Date:        "2025-07-03",
		ConsultType: "offline",
		Slots:       []string{"25:00", "nonsense"},
	})

	assert.ErrorIs(t, err, ErrNoValidSlots)
	assert.Nil(t, resp)
	f.overrideRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestDeleteOverrideIdempotent(t *testing.T) {
	f := newAvailabilityFixture(t)

	f.overrideRepo.On("Delete", mock.Anything, "2025-07-03", entity.ConsultOffline).Return(nil)
	f.audit.On("Record", mock.Anything, mock.Anything, "doctor@clinic.local",
		entity.AuditActionOverrideDelete, "availability_override", "2025-07-03/offline",
		nil).Return(nil)

	// Deleting a missing override behaves the same as deleting an existing
	// one, so a repeated delete also succeeds.
	assert.NoError(t, f.uc.DeleteOverride(context.Background(), "doctor@clinic.local", "2025-07-03", "offline"))
	assert.NoError(t, f.uc.DeleteOverride(context.Background(), "doctor@clinic.local", "2025-07-03", "offline"))
	f.overrideRepo.AssertNumberOfCalls(t, "Delete", 2)
}
