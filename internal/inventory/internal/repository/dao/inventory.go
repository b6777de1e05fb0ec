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

package dao

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ecodeclub/emall/internal/inventory/internal/domain"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound            = gorm.ErrRecordNotFound
	ErrRecordChangedConcurrently = errors.New("库存记录已被并发修改")
	ErrInsufficientStock         = domain.ErrInsufficientStock
)

type InventoryDAO interface {
	Create(ctx context.Context, inv Inventory) (int64, error)
	FindByUnit(ctx context.Context, unit domain.Unit) (Inventory, error)
	FindLowStock(ctx context.Context, offset, limit int) ([]Inventory, error)
	// Reserve 在单个事务内占用全部单元的库存, 任何一个单元失败则整体回滚
	Reserve(ctx context.Context, items []domain.UnitQuantity) error
	Release(ctx context.Context, items []domain.UnitQuantity) error
	Commit(ctx context.Context, items []domain.UnitQuantity) error
	Restock(ctx context.Context, unit domain.Unit, qty int64) error
	SetQuantity(ctx context.Context, unit domain.Unit, qty int64) error
}

type gormInventoryDAO struct {
	db *egorm.Component
}

func NewGORMInventoryDAO(db *egorm.Component) InventoryDAO {
	return &gormInventoryDAO{db: db}
}

func (g *gormInventoryDAO) Create(ctx context.Context, inv Inventory) (int64, error) {
	now := time.Now().UnixMilli()
	inv.Ctime, inv.Utime = now, now
	inv.AvailableQuantity = inv.Quantity - inv.ReservedQuantity
	err := g.db.WithContext(ctx).Create(&inv).Error
	return inv.Id, err
}

func (g *gormInventoryDAO) FindByUnit(ctx context.Context, unit domain.Unit) (Inventory, error) {
	var res Inventory
	err := g.db.WithContext(ctx).
		First(&res, "product_id = ? AND variant_id = ?", unit.ProductID, unit.VariantID).Error
	return res, err
}

func (g *gormInventoryDAO) FindLowStock(ctx context.Context, offset, limit int) ([]Inventory, error) {
	var res []Inventory
	err := g.db.WithContext(ctx).
		Where("track_inventory = ? AND available_quantity <= reorder_point", true).
		Offset(offset).Limit(limit).Order("id").Find(&res).Error
	return res, err
}

func (g *gormInventoryDAO) Reserve(ctx context.Context, items []domain.UnitQuantity) error {
	return g.mutateUnits(ctx, items, func(rec *domain.Record, qty, _ int64) error {
		return rec.Reserve(qty)
	})
}

func (g *gormInventoryDAO) Release(ctx context.Context, items []domain.UnitQuantity) error {
	return g.mutateUnits(ctx, items, func(rec *domain.Record, qty, _ int64) error {
		return rec.Release(qty)
	})
}

func (g *gormInventoryDAO) Commit(ctx context.Context, items []domain.UnitQuantity) error {
	return g.mutateUnits(ctx, items, func(rec *domain.Record, qty, now int64) error {
		return rec.Commit(qty, now)
	})
}

func (g *gormInventoryDAO) Restock(ctx context.Context, unit domain.Unit, qty int64) error {
	return g.mutateUnits(ctx, []domain.UnitQuantity{{Unit: unit, Quantity: qty}},
		func(rec *domain.Record, q, now int64) error {
			return rec.Restock(q, now)
		})
}

func (g *gormInventoryDAO) SetQuantity(ctx context.Context, unit domain.Unit, qty int64) error {
	return g.mutateUnits(ctx, []domain.UnitQuantity{{Unit: unit, Quantity: qty}},
		func(rec *domain.Record, q, _ int64) error {
			return rec.SetQuantity(q)
		})
}

// mutateUnits 在单个事务内按稳定顺序逐个变更囤货单元,
// 写回时用版本号做乐观校验, 版本不匹配说明有并发修改, 整个事务回滚由上层重试
func (g *gormInventoryDAO) mutateUnits(ctx context.Context, items []domain.UnitQuantity,
	mutate func(rec *domain.Record, qty, now int64) error) error {
	sorted := make([]domain.UnitQuantity, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Unit.ProductID != sorted[j].Unit.ProductID {
			return sorted[i].Unit.ProductID < sorted[j].Unit.ProductID
		}
		return sorted[i].Unit.VariantID < sorted[j].Unit.VariantID
	})
	now := time.Now().UnixMilli()
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range sorted {
			var inv Inventory
			if err := tx.First(&inv,
				"product_id = ? AND variant_id = ?", it.Unit.ProductID, it.Unit.VariantID).Error; err != nil {
				return fmt.Errorf("查找库存记录失败: %w", err)
			}
			rec := inv.toDomain()
			if err := mutate(&rec, it.Quantity, now); err != nil {
				return err
			}
			res := tx.Model(&Inventory{}).
				Where("id = ? AND version = ?", inv.Id, inv.Version).
				Updates(map[string]any{
					"quantity":           rec.Quantity,
					"reserved_quantity":  rec.ReservedQuantity,
					"available_quantity": rec.AvailableQuantity,
					"stock_status":       rec.Status.ToUint8(),
					"last_restocked_at":  rec.LastRestockedAt,
					"last_sold_at":       rec.LastSoldAt,
					"version":            inv.Version + 1,
					"utime":              now,
				})
			if res.Error != nil {
				return fmt.Errorf("更新库存记录失败: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: product_id = %d, variant_id = %d",
					ErrRecordChangedConcurrently, it.Unit.ProductID, it.Unit.VariantID)
			}
		}
		return nil
	})
}

type Inventory struct {
	Id                int64  `gorm:"primaryKey;autoIncrement;comment:库存自增ID"`
	ProductId         int64  `gorm:"not null;uniqueIndex:uniq_product_variant,priority:1;comment:商品ID"`
	VariantId         int64  `gorm:"not null;default:0;uniqueIndex:uniq_product_variant,priority:2;comment:变体ID, 0表示无变体"`
	WarehouseId       int64  `gorm:"index:idx_warehouse_id,comment:仓库ID"`
	WarehouseLocation string `gorm:"type:varchar(50);not null;default:MAIN;comment:库位"`
	Quantity          int64  `gorm:"not null;default:0;comment:实物数量"`
	ReservedQuantity  int64  `gorm:"not null;default:0;comment:占用数量"`
	AvailableQuantity int64  `gorm:"not null;default:0;comment:可用数量, 派生字段 = 实物数量 - 占用数量"`
	ReorderPoint      int64  `gorm:"not null;default:10;comment:补货点"`
	ReorderQuantity   int64  `gorm:"not null;default:50;comment:单次补货量"`
	AllowBackorder    bool   `gorm:"not null;default:false;comment:是否允许超卖预订"`
	TrackInventory    bool   `gorm:"not null;default:true;comment:是否跟踪库存"`
	StockStatus       uint8  `gorm:"type:tinyint unsigned;not null;default:3;comment:库存状态 1=充足 2=低库存 3=无货 4=可预订 5=停售"`
	LastRestockedAt   int64  `gorm:"comment:最近补货时间"`
	LastSoldAt        int64  `gorm:"comment:最近售出时间"`
	Version           int64  `gorm:"not null;default:1;comment:版本号"`
	Ctime             int64
	Utime             int64
}

func (i Inventory) toDomain() domain.Record {
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
