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

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidDiscount 所有校验失败的根错误, 具体失败规则包在外层
var (
	ErrInvalidDiscount        = errors.New("优惠不可用")
	ErrDiscountInactive       = fmt.Errorf("%w: 未启用", ErrInvalidDiscount)
	ErrDiscountNotInWindow    = fmt.Errorf("%w: 不在有效期内", ErrInvalidDiscount)
	ErrUsageLimitExceeded     = fmt.Errorf("%w: 总使用次数已达上限", ErrInvalidDiscount)
	ErrUserUsageLimitExceeded = fmt.Errorf("%w: 单用户使用次数已达上限", ErrInvalidDiscount)
	ErrMinimumPurchaseNotMet  = fmt.Errorf("%w: 未达到最低消费金额", ErrInvalidDiscount)
)

type Type uint8

func (t Type) ToUint8() uint8 {
	return uint8(t)
}

const (
	TypePercentage  Type = 1
	TypeFixedAmount Type = 2
)

type Scope uint8

func (s Scope) ToUint8() uint8 {
	return uint8(s)
}

const (
	ScopeAll                Scope = 1
	ScopeSpecificProducts   Scope = 2
	ScopeSpecificCategories Scope = 3
)

// Line 参与优惠资格判定的一行消费, 金额单位为分
type Line struct {
	ProductID  int64
	CategoryID int64
	Amount     int64
}

type Discount struct {
	ID   int64
	Code string
	Name string
	Type Type
	// Value 百分比类型时为百分数(20表示八折), 固定金额类型时单位为分
	Value int64
	// MinimumPurchaseAmount 单位为分, 0表示无门槛
	MinimumPurchaseAmount int64
	// MaximumDiscountAmount 单位为分, 0表示不封顶
	MaximumDiscountAmount int64
	StartDate             int64
	// EndDate 0表示长期有效
	EndDate int64
	// UsageLimit 0表示不限
	UsageLimit int64
	// UsageLimitPerUser 0表示不限
	UsageLimitPerUser int64
	UsageCount        int64
	Active            bool
	Scope             Scope
	ProductIDs        []int64
	CategoryIDs       []int64
	Ctime             int64
	Utime             int64
}

// Validate 按固定顺序执行全部前置校验, 返回第一条失败的规则
func (d Discount) Validate(now int64, userUsageCount, purchaseAmount int64) error {
	if !d.Active {
		return ErrDiscountInactive
	}
	if now < d.StartDate || (d.EndDate > 0 && now >= d.EndDate) {
		return ErrDiscountNotInWindow
	}
	if d.UsageLimit > 0 && d.UsageCount >= d.UsageLimit {
		return ErrUsageLimitExceeded
	}
	if d.UsageLimitPerUser > 0 && userUsageCount >= d.UsageLimitPerUser {
		return ErrUserUsageLimitExceeded
	}
	if purchaseAmount < d.MinimumPurchaseAmount {
		return ErrMinimumPurchaseNotMet
	}
	return nil
}

// CalculateDiscount 计算优惠金额, 先按上限封顶再保证不超过消费金额本身
func (d Discount) CalculateDiscount(purchaseAmount int64) int64 {
	if purchaseAmount <= 0 {
		return 0
	}
	var reduction int64
	switch d.Type {
	case TypePercentage:
		reduction = purchaseAmount * d.Value / 100
	case TypeFixedAmount:
		reduction = d.Value
	default:
		return 0
	}
	if d.MaximumDiscountAmount > 0 && reduction > d.MaximumDiscountAmount {
		reduction = d.MaximumDiscountAmount
	}
	if reduction > purchaseAmount {
		reduction = purchaseAmount
	}
	return reduction
}

func (d Discount) AppliesToProduct(productID, categoryID int64) bool {
	switch d.Scope {
	case ScopeAll:
		return true
	case ScopeSpecificProducts:
		return contains(d.ProductIDs, productID)
	case ScopeSpecificCategories:
		return contains(d.CategoryIDs, categoryID)
	default:
		return false
	}
}

// EligibleAmount 范围不是全场时, 先筛出符合范围的行再累计消费金额
func (d Discount) EligibleAmount(lines []Line) int64 {
	var amount int64
	for _, l := range lines {
		if d.AppliesToProduct(l.ProductID, l.CategoryID) {
			amount += l.Amount
		}
	}
	return amount
}

// Coupon 一次兑换记录, 关联到消费它的订单后视为已使用
type Coupon struct {
	ID         int64
	DiscountID int64
	UID        int64
	OrderID    int64
	Ctime      int64
	Utime      int64
}

func (c Coupon) IsUsed() bool {
	return c.OrderID > 0
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
