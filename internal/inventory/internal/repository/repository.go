// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/emall/internal/inventory/internal/domain"
	"github.com/ecodeclub/emall/internal/inventory/internal/repository/dao"
)

var (
	ErrRecordNotFound            = dao.ErrRecordNotFound
	ErrRecordChangedConcurrently = dao.ErrRecordChangedConcurrently
	ErrInsufficientStock         = dao.ErrInsufficientStock
)

type InventoryRepository interface {
	Create(ctx context.Context, rec domain.Record) (int64, error)
	GetByUnit(ctx context.Context, unit domain.Unit) (domain.Record, error)
	FindLowStock(ctx context.Context, offset, limit int) ([]domain.Record, error)
	Reserve(ctx context.Context, items []domain.UnitQuantity) error
	Release(ctx context.Context, items []domain.UnitQuantity) error
	Commit(ctx context.Context, items []domain.UnitQuantity) error
	Restock(ctx context.Context, unit domain.Unit, qty int64) error
	SetQuantity(ctx context.Context, unit domain.Unit, qty int64) error
}

type inventoryRepository struct {
	dao dao.InventoryDAO
}

func NewInventoryRepository(d dao.InventoryDAO) InventoryRepository {
	return &inventoryRepository{dao: d}
}

func (r *inventoryRepository) Create(ctx context.Context, rec domain.Record) (int64, error) {
	return r.dao.Create(ctx, r.toEntity(rec))
}

func (r *inventoryRepository) GetByUnit(ctx context.Context, unit domain.Unit) (domain.Record, error) {
	inv, err := r.dao.FindByUnit(ctx, unit)
	if err != nil {
		return domain.Record{}, err
	}
	return r.toDomain(inv), nil
}

func (r *inventoryRepository) FindLowStock(ctx context.Context, offset, limit int) ([]domain.Record, error) {
	invs, err := r.dao.FindLowStock(ctx, offset, limit)
	return slice.Map(invs, func(idx int, src dao.Inventory) domain.Record {
		return r.toDomain(src)
	}), err
}

func (r *inventoryRepository) Reserve(ctx context.Context, items []domain.UnitQuantity) error {
	return r.dao.Reserve(ctx, items)
}

func (r *inventoryRepository) Release(ctx context.Context, items []domain.UnitQuantity) error {
	return r.dao.Release(ctx, items)
}

func (r *inventoryRepository) Commit(ctx context.Context, items []domain.UnitQuantity) error {
	return r.dao.Commit(ctx, items)
}

func (r *inventoryRepository) Restock(ctx context.Context, unit domain.Unit, qty int64) error {
	return r.dao.Restock(ctx, unit, qty)
}

func (r *inventoryRepository) SetQuantity(ctx context.Context, unit domain.Unit, qty int64) error {
	return r.dao.SetQuantity(ctx, unit, qty)
}

func (r *inventoryRepository) toDomain(i dao.Inventory) domain.Record {
	return domain.Record{
		ID:                i.Id,
		Unit:              domain.Unit{ProductID: i.ProductId, VariantID: i.VariantId},
		WarehouseID:       i.WarehouseId,
		WarehouseLocation: i.WarehouseLocation,
		Quantity:          i.Quantity,
		ReservedQuantity:  i.ReservedQuantity,
		AvailableQuantity: i.AvailableQuantity,
		ReorderPoint:      i.ReorderPoint,
		ReorderQuantity:   i.ReorderQuantity,
		AllowBackorder:    i.AllowBackorder,
		TrackInventory:    i.TrackInventory,
		Status:            domain.StockStatus(i.StockStatus),
		LastRestockedAt:   i.LastRestockedAt,
		LastSoldAt:        i.LastSoldAt,
		Ctime:             i.Ctime,
		Utime:             i.Utime,
	}
}

func (r *inventoryRepository) toEntity(rec domain.Record) dao.Inventory {
	return dao.Inventory{
		Id:                rec.ID,
		ProductId:         rec.Unit.ProductID,
		VariantId:         rec.Unit.VariantID,
		WarehouseId:       rec.WarehouseID,
		WarehouseLocation: rec.WarehouseLocation,
		Quantity:          rec.Quantity,
		ReservedQuantity:  rec.ReservedQuantity,
		AvailableQuantity: rec.AvailableQuantity,
		ReorderPoint:      rec.ReorderPoint,
		ReorderQuantity:   rec.ReorderQuantity,
		AllowBackorder:    rec.AllowBackorder,
		TrackInventory:    rec.TrackInventory,
		StockStatus:       rec.Status.ToUint8(),
		LastRestockedAt:   rec.LastRestockedAt,
		LastSoldAt:        rec.LastSoldAt,
	}
}
