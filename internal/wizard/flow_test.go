package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/schedule"
)

var testNow = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC) // Tuesday

func validDetails() PatientDetails {
	return PatientDetails{Name: "Asha Rao", Phone: "9876543210", Age: 34, Gender: entity.GenderFemale}
}

func TestNewFlow(t *testing.T) {
	f := NewFlow(testNow)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, StepConsultType, f.Step)
	assert.Equal(t, testNow, f.CreatedAt)
}

func TestOfflineFlowHappyPath(t *testing.T) {
	f := NewFlow(testNow)

	assert.NoError(t, f.SelectConsultType(entity.ConsultOffline))
	assert.Equal(t, StepDatePick, f.Step)

	assert.NoError(t, f.SelectDate("2025-07-02", []string{"10:00", "10:30"}, testNow))
	assert.Equal(t, StepSlotPick, f.Step)
	assert.Equal(t, []string{"10:00", "10:30"}, f.Slots)

	assert.NoError(t, f.SelectSlot("10:00"))
	assert.Equal(t, StepDetails, f.Step)

	assert.NoError(t, f.SubmitDetails(validDetails()))
	assert.Equal(t, StepConfirm, f.Step, "offline skips the payment step")

	assert.NoError(t, f.Finish("BK-20250702-0A1B2C"))
	assert.Equal(t, StepConfirmed, f.Step)
	assert.Equal(t, "BK-20250702-0A1B2C", f.BookingID)
}

func TestOnlineFlowRequiresPayment(t *testing.T) {
	f := NewFlow(testNow)

	assert.NoError(t, f.SelectConsultType(entity.ConsultOnline))
	assert.NoError(t, f.SelectDate("2025-07-01", []string{"20:00"}, testNow))
	assert.NoError(t, f.SelectSlot("20:00"))
	assert.NoError(t, f.SubmitDetails(validDetails()))
	assert.Equal(t, StepPayment, f.Step)

	// Confirm is unreachable until the payment verifies.
	assert.ErrorIs(t, f.Finish("BK-X"), ErrWrongStep)

	assert.NoError(t, f.AttachOrder("order_abc"))
	assert.NoError(t, f.CompletePayment("pay_xyz"))
	assert.Equal(t, StepConfirm, f.Step)
	assert.Equal(t, "pay_xyz", f.PaymentRef)

	assert.NoError(t, f.Finish("BK-20250701-0A1B2C"))
	assert.Equal(t, StepConfirmed, f.Step)
}

func TestCompletePaymentWithoutOrder(t *testing.T) {
	f := NewFlow(testNow)
	assert.NoError(t, f.SelectConsultType(entity.ConsultOnline))
	assert.NoError(t, f.SelectDate("2025-07-01", []string{"20:00"}, testNow))
	assert.NoError(t, f.SelectSlot("20:00"))
	assert.NoError(t, f.SubmitDetails(validDetails()))

	assert.ErrorIs(t, f.CompletePayment("pay_xyz"), ErrWrongStep)
}

func TestPaymentNotNeededOffline(t *testing.T) {
	f := NewFlow(testNow)
	assert.NoError(t, f.SelectConsultType(entity.ConsultOffline))
	assert.NoError(t, f.SelectDate("2025-07-02", []string{"10:00"}, testNow))
	assert.NoError(t, f.SelectSlot("10:00"))
	assert.NoError(t, f.SubmitDetails(validDetails()))

	assert.ErrorIs(t, f.AttachOrder("order_abc"), ErrPaymentNotNeeded)
	assert.ErrorIs(t, f.CompletePayment("pay_xyz"), ErrPaymentNotNeeded)
}

func TestSelectConsultTypeValidation(t *testing.T) {
	f := NewFlow(testNow)
	assert.ErrorIs(t, f.SelectConsultType("house-call"), ErrUnknownConsult)
	assert.Equal(t, StepConsultType, f.Step)
}

func TestSelectDateValidation(t *testing.T) {
	f := NewFlow(testNow)

	t.Run("date before consult type is rejected", func(t *testing.T) {
		assert.ErrorIs(t, f.SelectDate("2025-07-01", nil, testNow), ErrWrongStep)
	})

	assert.NoError(t, f.SelectConsultType(entity.ConsultOffline))

	t.Run("horizon and weekday rules apply", func(t *testing.T) {
		assert.ErrorIs(t, f.SelectDate("2025-07-09", nil, testNow), schedule.ErrDateBeyondHorizon)
		assert.ErrorIs(t, f.SelectDate("2025-06-30", nil, testNow), schedule.ErrDateInPast)
	})

	t.Run("availability cache is normalized", func(t *testing.T) {
		assert.NoError(t, f.SelectDate("2025-07-02", []string{"18:30", "9:00", "bogus"}, testNow))
		assert.Equal(t, []string{"09:00", "18:30"}, f.Slots)
	})
}

func TestSelectSlotMustBeAvailable(t *testing.T) {
	f := NewFlow(testNow)
	assert.NoError(t, f.SelectConsultType(entity.ConsultOffline))
	assert.NoError(t, f.SelectDate("2025-07-02", []string{"10:00"}, testNow))

	assert.ErrorIs(t, f.SelectSlot("11:00"), ErrSlotUnavailable)
	assert.NoError(t, f.SelectSlot("10:00"))
}

func TestSubmitDetailsFieldErrors(t *testing.T) {
	f := NewFlow(testNow)
	assert.NoError(t, f.SelectConsultType(entity.ConsultOffline))
	assert.NoError(t, f.SelectDate("2025-07-02", []string{"10:00"}, testNow))
	assert.NoError(t, f.SelectSlot("10:00"))

	err := f.SubmitDetails(PatientDetails{Phone: "12345", Age: 0, Gender: "other"})
	var fieldErrs FieldErrors
	assert.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 4)
	assert.Contains(t, fieldErrs, "name")
	assert.Contains(t, fieldErrs, "phone")
	assert.Contains(t, fieldErrs, "age")
	assert.Contains(t, fieldErrs, "gender")
	assert.Equal(t, StepDetails, f.Step)
}

func TestReselectionResetsDownstream(t *testing.T) {
	f := NewFlow(testNow)
	assert.NoError(t, f.SelectConsultType(entity.ConsultOnline))
	assert.NoError(t, f.SelectDate("2025-07-01", []string{"20:00"}, testNow))
	assert.NoError(t, f.SelectSlot("20:00"))
	assert.NoError(t, f.SubmitDetails(validDetails()))
	assert.NoError(t, f.AttachOrder("order_abc"))

	t.Run("new date discards time, details and order", func(t *testing.T) {
		assert.NoError(t, f.SelectDate("2025-07-02", []string{"11:00"}, testNow))
		assert.Equal(t, StepSlotPick, f.Step)
		assert.Empty(t, f.Time)
		assert.Nil(t, f.Details)
		assert.Empty(t, f.OrderID)
	})

	t.Run("new consult type discards the date too", func(t *testing.T) {
		assert.NoError(t, f.SelectConsultType(entity.ConsultOffline))
		assert.Equal(t, StepDatePick, f.Step)
		assert.Empty(t, f.Date)
		assert.Nil(t, f.Slots)
	})
}

func TestFinishedFlowIsImmutable(t *testing.T) {
	f := NewFlow(testNow)
	assert.NoError(t, f.SelectConsultType(entity.ConsultOffline))
	assert.NoError(t, f.SelectDate("2025-07-02", []string{"10:00"}, testNow))
	assert.NoError(t, f.SelectSlot("10:00"))
	assert.NoError(t, f.SubmitDetails(validDetails()))
	assert.NoError(t, f.Finish("BK-20250702-0A1B2C"))

	assert.ErrorIs(t, f.SelectConsultType(entity.ConsultOnline), ErrFlowFinished)
	assert.ErrorIs(t, f.SelectDate("2025-07-02", nil, testNow), ErrFlowFinished)
	assert.ErrorIs(t, f.SelectSlot("10:00"), ErrFlowFinished)
	assert.ErrorIs(t, f.SubmitDetails(validDetails()), ErrFlowFinished)
}

func TestMemoryFlowStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryFlowStore()

	f := NewFlow(testNow)
	assert.NoError(t, store.Save(ctx, f))

	got, err := store.Get(ctx, f.ID)
	assert.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)

	// The store hands out copies, not shared state.
	got.Step = StepConfirmed
	again, err := store.Get(ctx, f.ID)
	assert.NoError(t, err)
	assert.Equal(t, StepConsultType, again.Step)

	assert.NoError(t, store.Delete(ctx, f.ID))
	_, err = store.Get(ctx, f.ID)
	assert.ErrorIs(t, err, ErrFlowNotFound)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrFlowNotFound)
}
