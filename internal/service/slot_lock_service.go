package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotLocked is returned when another request holds the lock for a slot.
var ErrSlotLocked = errors.New("slot is being booked by another request")

// RedisSlotLockKeyPrefix namespaces booking locks: slot:lock:<doctor>:<date>:<slot>
const RedisSlotLockKeyPrefix = "slot:lock:"

// releaseSlotLockScript deletes the key only if it still holds our token, so
// a lock that expired and was taken by someone else is left alone.
var releaseSlotLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// SlotLock is a held lock. Release it once the booking transaction finishes.
type SlotLock struct {
	Key   string
	Token string
}

// SlotLockService sheds concurrent bookings of the same (doctor, date, slot)
// before they reach Postgres. The partial unique index stays the final guard.
type SlotLockService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewSlotLockService(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *SlotLockService {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &SlotLockService{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

func SlotLockKey(doctorID uuid.UUID, date time.Time, slot string) string {
	return fmt.Sprintf("%s%s:%s:%s", RedisSlotLockKeyPrefix, doctorID, date.Format("2006-01-02"), slot)
}

// Acquire takes the slot lock with SET NX. It returns ErrSlotLocked when the
// key already exists and a wrapped error when Redis itself failed.
func (s *SlotLockService) Acquire(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (*SlotLock, error) {
	lock := &SlotLock{
		Key:   SlotLockKey(doctorID, date, slot),
		Token: uuid.NewString(),
	}

	ok, err := s.redisClient.SetNX(ctx, lock.Key, lock.Token, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire slot lock %s: %w", lock.Key, err)
	}
	if !ok {
		return nil, ErrSlotLocked
	}

	s.log.Debugf("Acquired slot lock %s (ttl=%v)", lock.Key, s.ttl)
	return lock, nil
}

// Release drops the lock if this caller still owns it.
func (s *SlotLockService) Release(ctx context.Context, lock *SlotLock) error {
	if lock == nil {
		return nil
	}

	released, err := releaseSlotLockScript.Run(ctx, s.redisClient, []string{lock.Key}, lock.Token).Int()
	if err != nil {
		return fmt.Errorf("release slot lock %s: %w", lock.Key, err)
	}
	if released == 0 {
		s.log.Debugf("Slot lock %s already expired or taken over", lock.Key)
	}
	return nil
}
