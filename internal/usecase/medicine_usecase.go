package usecase

import (
	"context"

	"hospital-crm/internal/converter"
	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/delivery/http/middleware"
	"hospital-crm/internal/domain/entity"
	"hospital-crm/internal/domain/repository"
	"hospital-crm/internal/infrastructure/database"
	"hospital-crm/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type MedicineUsecase interface {
	Create(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateMedicineRequest) (*dto.MedicineResponse, error)
	GetAll(ctx context.Context, hospitalID uuid.UUID, page, limit int) ([]dto.MedicineResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateMedicineRequest) (*dto.MedicineResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddStock(ctx context.Context, id uuid.UUID, quantity int) (*dto.MedicineResponse, error)
	RemoveStock(ctx context.Context, id uuid.UUID, quantity int) (*dto.MedicineResponse, error)
}

type medicineUsecase struct {
	log          *logrus.Logger
	transactor   database.Transactor
	medicineRepo repository.MedicineRepository
	auditService service.AuditService
}

func NewMedicineUsecase(
	log *logrus.Logger,
	transactor database.Transactor,
	medicineRepo repository.MedicineRepository,
	auditService service.AuditService,
) MedicineUsecase {
	return &medicineUsecase{
		log:          log,
		transactor:   transactor,
		medicineRepo: medicineRepo,
		auditService: auditService,
	}
}

func (u *medicineUsecase) Create(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	if !middleware.CanAccessHospital(ctx, hospitalID) {
		return nil, ErrForbidden
	}
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	medicine := &entity.Medicine{
		HospitalID:  hospitalID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}

	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.medicineRepo.Create(ctx, medicine); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionMedicineCreate, "medicine", medicine.ID.String(), converter.MedicineToResponse(medicine))
	})
	if err != nil {
		u.log.Warnf("Failed to create medicine for hospital %s: %+v", hospitalID, err)
		return nil, err
	}

	return converter.MedicineToResponse(medicine), nil
}

func (u *medicineUsecase) GetAll(ctx context.Context, hospitalID uuid.UUID, page, limit int) ([]dto.MedicineResponse, int64, error) {
	if !middleware.CanAccessHospital(ctx, hospitalID) {
		return nil, 0, ErrForbidden
	}

	page, limit = normalizePage(page, limit)
	offset := (page - 1) * limit

	medicines, total, err := u.medicineRepo.FindAllByHospital(ctx, hospitalID, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list medicines for hospital %s: %+v", hospitalID, err)
		return nil, 0, err
	}

	return converter.MedicinesToResponses(medicines), total, nil
}

func (u *medicineUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error) {
	medicine, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}

	return converter.MedicineToResponse(medicine), nil
}

func (u *medicineUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	medicine, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}

	oldValue := converter.MedicineToResponse(medicine)

	medicine.Name = req.Name
	medicine.Description = req.Description
	medicine.Price = req.Price
	medicine.Stock = req.Stock

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.medicineRepo.Update(ctx, medicine); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionMedicineUpdate, "medicine", id.String(), oldValue, converter.MedicineToResponse(medicine))
	})
	if err != nil {
		u.log.Warnf("Failed to update medicine %s: %+v", id, err)
		return nil, err
	}

	return converter.MedicineToResponse(medicine), nil
}

func (u *medicineUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	medicine, err := u.find(ctx, id)
	if err != nil {
		return err
	}

	return u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.medicineRepo.Delete(ctx, id); err != nil {
			u.log.Warnf("Failed to delete medicine %s: %+v", id, err)
			return err
		}
		return u.auditService.LogDelete(ctx, middleware.ActorFromContext(ctx), entity.AuditActionMedicineDelete, "medicine", id.String(), converter.MedicineToResponse(medicine))
	})
}

func (u *medicineUsecase) AddStock(ctx context.Context, id uuid.UUID, quantity int) (*dto.MedicineResponse, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return u.adjustStock(ctx, id, quantity, entity.AuditActionMedicineStockAdd)
}

// RemoveStock refuses to take the stock below zero.
func (u *medicineUsecase) RemoveStock(ctx context.Context, id uuid.UUID, quantity int) (*dto.MedicineResponse, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return u.adjustStock(ctx, id, -quantity, entity.AuditActionMedicineStockRemove)
}

// adjustStock applies delta in a single conditional UPDATE so concurrent
// adjustments never lose a change or overdraw the stock.
func (u *medicineUsecase) adjustStock(ctx context.Context, id uuid.UUID, delta int, action string) (*dto.MedicineResponse, error) {
	medicine, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	oldValue := converter.MedicineToResponse(medicine)

	var updated *entity.Medicine
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := u.medicineRepo.AdjustStock(ctx, id, delta)
		if err != nil {
			return err
		}
		if !ok {
			current, err := u.medicineRepo.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if current == nil {
				return ErrMedicineNotFound
			}
			return ErrInsufficientStock
		}

		updated, err = u.medicineRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if updated == nil {
			return ErrMedicineNotFound
		}
		return u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), action, "medicine", id.String(), oldValue, converter.MedicineToResponse(updated))
	})
	if err != nil {
		if !IsValidationError(err) && !IsNotFound(err) {
			u.log.Warnf("Failed to adjust stock of medicine %s by %d: %+v", id, delta, err)
		}
		return nil, err
	}

	return converter.MedicineToResponse(updated), nil
}

func (u *medicineUsecase) find(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	medicine, err := u.medicineRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find medicine %s: %+v", id, err)
		return nil, err
	}
	if medicine == nil {
		return nil, ErrMedicineNotFound
	}
	if !middleware.CanAccessHospital(ctx, medicine.HospitalID) {
		return nil, ErrForbidden
	}
	return medicine, nil
}
