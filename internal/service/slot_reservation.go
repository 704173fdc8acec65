package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-backend/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotTaken is returned when another booking already holds the
// (date, time, consultType) triple.
var ErrSlotTaken = errors.New("this slot has just been taken, please pick another time")

// reserveSlotScript claims a slot key only if nobody holds it, in a single
// atomic step inside Redis. Returns 1 when the claim succeeded, 0 when the
// slot is already held by a different owner, and 2 when the same owner
// re-claims its own hold (an order re-creation for the same intent).
var reserveSlotScript = redis.NewScript(`
	local owner = redis.call('GET', KEYS[1])
	if owner == false then
		redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[2])
		return 1
	end
	if owner == ARGV[1] then
		redis.call('EXPIRE', KEYS[1], ARGV[2])
		return 2
	end
	return 0
`)

const slotHoldKeyPrefix = "slot:hold:"

// SlotReservationService is the fast path of double-booking prevention: an
// atomic per-slot hold in Redis taken before the DB insert. The partial
// unique index on active appointments remains the authority; when the DB
// insert fails the hold is released (compensation).
type SlotReservationService interface {
	// Reserve claims (date, time, consultType) for owner until ttl expires.
	Reserve(ctx context.Context, date, timeOfDay string, consultType entity.ConsultType, owner string, ttl time.Duration) error
	// Release drops a hold, e.g. to compensate a failed DB insert or an
	// abandoned payment.
	Release(ctx context.Context, date, timeOfDay string, consultType entity.ConsultType) error
}

type slotReservationService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSlotReservationService(redisClient *redis.Client, log *logrus.Logger) SlotReservationService {
	return &slotReservationService{
		redisClient: redisClient,
		log:         log,
	}
}

func slotHoldKey(date, timeOfDay string, consultType entity.ConsultType) string {
	return fmt.Sprintf("%s%s:%s:%s", slotHoldKeyPrefix, date, timeOfDay, consultType)
}

func (s *slotReservationService) Reserve(ctx context.Context, date, timeOfDay string, consultType entity.ConsultType, owner string, ttl time.Duration) error {
	key := slotHoldKey(date, timeOfDay, consultType)
	seconds := int(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	result, err := reserveSlotScript.Run(ctx, s.redisClient, []string{key}, owner, seconds).Int()
	if err != nil {
		s.log.Warnf("Failed slot reservation for %s: %+v", key, err)
		return fmt.Errorf("reserve slot %s: %w", key, err)
	}
	if result == 0 {
		return ErrSlotTaken
	}
	return nil
}

func (s *slotReservationService) Release(ctx context.Context, date, timeOfDay string, consultType entity.ConsultType) error {
	key := slotHoldKey(date, timeOfDay, consultType)
	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		s.log.Warnf("Failed to release slot hold %s: %+v", key, err)
		return fmt.Errorf("release slot %s: %w", key, err)
	}
	return nil
}

// HoldTTL returns how long a confirmed booking's hold should live: until the
// end of the booked day. Keys for past dates get a short TTL for cleanup.
func HoldTTL(date string, now time.Time) time.Duration {
	d, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return time.Hour
	}
	ttl := d.AddDate(0, 0, 1).Sub(now)
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}

// PaymentHoldTTL is how long an online-payment intent keeps a slot held while
// the patient completes checkout.
const PaymentHoldTTL = 15 * time.Minute
