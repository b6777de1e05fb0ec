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

package domain

import "errors"

var (
	ErrInsufficientStock  = errors.New("可用库存不足")
	ErrInvariantViolation = errors.New("非法的库存操作参数")
)

type StockStatus uint8

func (s StockStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	StockStatusInStock      StockStatus = 1 // 库存充足
	StockStatusLowStock     StockStatus = 2 // 低于补货点
	StockStatusOutOfStock   StockStatus = 3 // 无货
	StockStatusBackorder    StockStatus = 4 // 可超卖预订
	StockStatusDiscontinued StockStatus = 5 // 已停售
)

// Unit 标识一个可囤货单元: 商品或商品+变体
type Unit struct {
	ProductID int64
	// VariantID 为0表示没有变体
	VariantID int64
}

// UnitQuantity 一次库存操作中的囤货单元及数量
type UnitQuantity struct {
	Unit     Unit
	Quantity int64
}

// Record 库存台账记录, 所有计数的读改写都必须经过本类型的方法,
// 每次变更之后重算派生字段
type Record struct {
	ID                int64
	Unit              Unit
	WarehouseID       int64
	WarehouseLocation string
	// Quantity 实物数量
	Quantity int64
	// ReservedQuantity 已被未完成订单占用的数量
	ReservedQuantity int64
	// AvailableQuantity 派生字段, 恒等于 Quantity - ReservedQuantity
	AvailableQuantity int64
	ReorderPoint      int64
	ReorderQuantity   int64
	AllowBackorder    bool
	TrackInventory    bool
	Status            StockStatus
	LastRestockedAt   int64
	LastSoldAt        int64
	Ctime             int64
	Utime             int64
}

// recalc 重算派生字段, 必须在每次计数变更之后调用。
// 已停售的记录不再参与状态推导
func (r *Record) recalc() {
	r.AvailableQuantity = r.Quantity - r.ReservedQuantity
	if r.Status == StockStatusDiscontinued {
		return
	}
	switch {
	case r.AvailableQuantity > r.ReorderPoint:
		r.Status = StockStatusInStock
	case r.AvailableQuantity > 0:
		r.Status = StockStatusLowStock
	case r.AllowBackorder:
		r.Status = StockStatusBackorder
	default:
		r.Status = StockStatusOutOfStock
	}
}

// Reserve 占用库存。超出可用数量且不允许超卖时返回 ErrInsufficientStock,
// 此时记录不发生任何变化
func (r *Record) Reserve(qty int64) error {
	if qty <= 0 {
		return ErrInvariantViolation
	}
	if qty > r.AvailableQuantity && !r.AllowBackorder {
		return ErrInsufficientStock
	}
	r.ReservedQuantity += qty
	r.recalc()
	return nil
}

// Release 归还占用, ReservedQuantity 不会小于0
func (r *Record) Release(qty int64) error {
	if qty <= 0 {
		return ErrInvariantViolation
	}
	r.ReservedQuantity = max(0, r.ReservedQuantity-qty)
	r.recalc()
	return nil
}

// Commit 支付确认后将占用转为实际扣减
func (r *Record) Commit(qty int64, now int64) error {
	if qty <= 0 {
		return ErrInvariantViolation
	}
	r.Quantity -= qty
	r.ReservedQuantity = max(0, r.ReservedQuantity-qty)
	r.LastSoldAt = now
	r.recalc()
	return nil
}

// Restock 入库补货
func (r *Record) Restock(qty int64, now int64) error {
	if qty <= 0 {
		return ErrInvariantViolation
	}
	r.Quantity += qty
	r.LastRestockedAt = now
	r.recalc()
	return nil
}

// SetQuantity 管理端盘点校正, 不动占用数量
func (r *Record) SetQuantity(qty int64) error {
	if qty < 0 {
		return ErrInvariantViolation
	}
	r.Quantity = qty
	r.recalc()
	return nil
}

func (r *Record) IsAvailable() bool {
	return r.AvailableQuantity > 0 || r.AllowBackorder
}

func (r *Record) IsInStock() bool {
	return r.AvailableQuantity > 0
}

func (r *Record) NeedsReorder() bool {
	return r.TrackInventory && r.AvailableQuantity <= r.ReorderPoint
}
