package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para ítems de catálogo. La cantidad en mano
// no se toca aquí: se deriva del libro de movimientos y la escribe solo el ledger.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un ítem. La cantidad inicial es siempre cero; el stock de apertura
// se registra como un movimiento de ajuste.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.ReorderLevel.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(ctx, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "und"
	}
	now := time.Now()
	item := &entity.Item{
		ID:           uuid.New().String(),
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		UnitMeasure:  in.UnitMeasure,
		Price:        in.Price,
		ReorderLevel: in.ReorderLevel,
		Quantity:     decimal.Zero,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List lista ítems, opcionalmente solo activos.
func (uc *ItemUseCase) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*dto.ItemResponse, error) {
	items, err := uc.repo.List(ctx, onlyActive, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out, nil
}

// Update actualiza un ítem. No admite modificar la cantidad en mano.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Price.LessThan(decimal.Zero) || in.ReorderLevel.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != "" {
		item.Name = in.Name
	}
	if in.Description != "" {
		item.Description = in.Description
	}
	if in.UnitMeasure != "" {
		item.UnitMeasure = in.UnitMeasure
	}
	if !in.Price.IsZero() {
		item.Price = in.Price
	}
	item.ReorderLevel = in.ReorderLevel
	if in.Active != nil {
		item.Active = *in.Active
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:           i.ID,
		SKU:          i.SKU,
		Name:         i.Name,
		Description:  i.Description,
		UnitMeasure:  i.UnitMeasure,
		Price:        i.Price,
		ReorderLevel: i.ReorderLevel,
		Quantity:     i.Quantity,
		Active:       i.Active,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}
