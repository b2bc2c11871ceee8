package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"hospital-crm/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type recordingAuditRepo struct {
	logs []*entity.AuditLog
	err  error
}

func (r *recordingAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, log)
	return nil
}

func (r *recordingAuditRepo) FindAll(ctx context.Context, action string, limit, offset int) ([]entity.AuditLog, int64, error) {
	return nil, 0, nil
}

func (r *recordingAuditRepo) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	return nil, nil
}

func TestAuditService_WritesMetadata(t *testing.T) {
	repo := &recordingAuditRepo{}
	svc := NewAuditService(quietLogger(), repo)
	actor := uuid.New()

	err := svc.LogUpdate(context.Background(), &actor, entity.AuditActionAppointmentCancel, "appointment", "abc", "old", "new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.logs) != 1 {
		t.Fatalf("expected one audit row, got %d", len(repo.logs))
	}

	row := repo.logs[0]
	if row.Action != entity.AuditActionAppointmentCancel || *row.UserID != actor {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.Metadata["entity"] != "appointment" || row.Metadata["entity_id"] != "abc" {
		t.Errorf("unexpected metadata: %v", row.Metadata)
	}
	if row.Metadata["old_value"] != "old" || row.Metadata["new_value"] != "new" {
		t.Errorf("unexpected values: %v", row.Metadata)
	}
}

func TestAuditService_PropagatesErrors(t *testing.T) {
	repo := &recordingAuditRepo{err: errors.New("insert failed")}
	svc := NewAuditService(quietLogger(), repo)

	if err := svc.LogCreate(context.Background(), nil, entity.AuditActionMedicineCreate, "medicine", "1", nil); err == nil {
		t.Error("expected the repository error to be returned")
	}
}

func TestSlotLockKey(t *testing.T) {
	doctorID := uuid.MustParse("6f1c1c2e-6b0a-4f43-9c1e-5f0f8a1b2c3d")
	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	want := "slot:lock:6f1c1c2e-6b0a-4f43-9c1e-5f0f8a1b2c3d:2024-06-03:09:30"
	if got := SlotLockKey(doctorID, date, "09:30"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestSlotLockService_RedisDownIsNotALockConflict(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	svc := NewSlotLockService(client, quietLogger(), time.Second)
	_, err := svc.Acquire(context.Background(), uuid.New(), time.Now(), "09:00")
	if err == nil {
		t.Fatal("expected an error with Redis unreachable")
	}
	if errors.Is(err, ErrSlotLocked) {
		t.Error("a connection failure must not look like a held lock")
	}

	if err := svc.Release(context.Background(), nil); err != nil {
		t.Errorf("releasing a nil lock should be a no-op, got %v", err)
	}
}
