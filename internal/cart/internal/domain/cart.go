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
	"github.com/pkg/errors"
)

var ErrInvariantViolation = errors.New("非法的购物车操作参数")

// Unit 囤货单元, 商品或者商品加规格
type Unit struct {
	ProductID int64
	VariantID int64
}

type Item struct {
	Unit  Unit
	SKU   string
	Name  string
	Image string
	// Price 加购时的单价快照, 单位为分
	Price    int64
	Quantity int64
	// DiscountAmount 行级优惠金额, 单位为分
	DiscountAmount int64
}

// TotalPrice 行小计 = 单价*数量 - 行级优惠
func (i Item) TotalPrice() int64 {
	return i.Price*i.Quantity - i.DiscountAmount
}

type Cart struct {
	ID         int64
	UID        int64
	Items      []Item
	CouponCode string
	// DiscountAmount 购物车级优惠金额, 单位为分
	DiscountAmount int64
	// TotalItems 和 TotalAmount 是派生字段, 只能由 recalc 计算, 不允许外部直接设置
	TotalItems  int64
	TotalAmount int64
	// ExpiresAt 创建时一次性确定, 后续操作不续期
	ExpiresAt int64
	Ctime     int64
	Utime     int64
}

// Recalculate 从当前商品行重新计算派生字段, 从存储加载后必须调用
func (c *Cart) Recalculate() {
	c.recalc()
}

func (c *Cart) recalc() {
	var items, amount int64
	for _, it := range c.Items {
		items += it.Quantity
		amount += it.TotalPrice()
	}
	c.TotalItems = items
	c.TotalAmount = amount - c.DiscountAmount
}

// AddItem 同一囤货单元合并数量而不是追加新行
func (c *Cart) AddItem(item Item) error {
	if item.Quantity <= 0 {
		return ErrInvariantViolation
	}
	for i := range c.Items {
		if c.Items[i].Unit == item.Unit {
			c.Items[i].Quantity += item.Quantity
			c.recalc()
			return nil
		}
	}
	c.Items = append(c.Items, item)
	c.recalc()
	return nil
}

func (c *Cart) RemoveItem(unit Unit) {
	c.Items = c.removed(unit)
	c.recalc()
}

// UpdateQuantity 数量小于等于零时等价于删除该行。
// 这里不校验库存, 可售校验留到下单时做
func (c *Cart) UpdateQuantity(unit Unit, qty int64) {
	if qty <= 0 {
		c.RemoveItem(unit)
		return
	}
	for i := range c.Items {
		if c.Items[i].Unit == unit {
			c.Items[i].Quantity = qty
			break
		}
	}
	c.recalc()
}

func (c *Cart) ApplyCoupon(code string, amount int64) error {
	if amount < 0 {
		return ErrInvariantViolation
	}
	c.CouponCode = code
	c.DiscountAmount = amount
	c.recalc()
	return nil
}

func (c *Cart) RemoveCoupon() {
	c.CouponCode = ""
	c.DiscountAmount = 0
	c.recalc()
}

// Merge 把匿名会话购物车折叠进登录用户购物车, 源购物车随后应被销毁
func (c *Cart) Merge(src Cart) {
	for _, it := range src.Items {
		_ = c.AddItem(it)
	}
}

func (c *Cart) Clear() {
	c.Items = nil
	c.RemoveCoupon()
}

func (c *Cart) IsExpired(now int64) bool {
	return c.ExpiresAt > 0 && now > c.ExpiresAt
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) removed(unit Unit) []Item {
	res := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if it.Unit != unit {
			res = append(res, it)
		}
	}
	return res
}
