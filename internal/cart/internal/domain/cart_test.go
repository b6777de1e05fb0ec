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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddItem(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name       string
		cart       Cart
		item       Item
		wantErr    error
		wantLines  int
		wantItems  int64
		wantAmount int64
	}{
		{
			name:       "空购物车新增一行",
			cart:       Cart{},
			item:       Item{Unit: Unit{ProductID: 1}, Price: 999, Quantity: 2},
			wantLines:  1,
			wantItems:  2,
			wantAmount: 1998,
		},
		{
			name: "同一囤货单元合并数量",
			cart: Cart{Items: []Item{
				{Unit: Unit{ProductID: 1}, Price: 999, Quantity: 2},
			}},
			item:       Item{Unit: Unit{ProductID: 1}, Price: 999, Quantity: 3},
			wantLines:  1,
			wantItems:  5,
			wantAmount: 4995,
		},
		{
			name: "不同规格不合并",
			cart: Cart{Items: []Item{
				{Unit: Unit{ProductID: 1, VariantID: 10}, Price: 999, Quantity: 1},
			}},
			item:       Item{Unit: Unit{ProductID: 1, VariantID: 11}, Price: 1099, Quantity: 1},
			wantLines:  2,
			wantItems:  2,
			wantAmount: 2098,
		},
		{
			name:      "数量非正数",
			cart:      Cart{},
			item:      Item{Unit: Unit{ProductID: 1}, Price: 999, Quantity: 0},
			wantErr:   ErrInvariantViolation,
			wantLines: 0,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.cart.AddItem(tc.item)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Len(t, tc.cart.Items, tc.wantLines)
			assert.Equal(t, tc.wantItems, tc.cart.TotalItems)
			assert.Equal(t, tc.wantAmount, tc.cart.TotalAmount)
		})
	}
}

func TestCart_UpdateQuantity(t *testing.T) {
	t.Parallel()
	newCart := func() Cart {
		return Cart{Items: []Item{
			{Unit: Unit{ProductID: 1}, Price: 1000, Quantity: 2},
			{Unit: Unit{ProductID: 2}, Price: 500, Quantity: 1},
		}}
	}

	t.Run("设置数量后重算总额", func(t *testing.T) {
		t.Parallel()
		cart := newCart()
		cart.UpdateQuantity(Unit{ProductID: 1}, 5)
		assert.Equal(t, int64(6), cart.TotalItems)
		assert.Equal(t, int64(5500), cart.TotalAmount)
	})

	t.Run("数量为零等价于删除", func(t *testing.T) {
		t.Parallel()
		cart := newCart()
		cart.UpdateQuantity(Unit{ProductID: 1}, 0)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, int64(500), cart.TotalAmount)
	})

	t.Run("负数等价于删除", func(t *testing.T) {
		t.Parallel()
		cart := newCart()
		cart.UpdateQuantity(Unit{ProductID: 2}, -1)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, int64(2000), cart.TotalAmount)
	})
}

func TestCart_Coupon(t *testing.T) {
	t.Parallel()
	cart := Cart{Items: []Item{
		{Unit: Unit{ProductID: 1}, Price: 1000, Quantity: 3, DiscountAmount: 200},
	}}
	require.NoError(t, cart.ApplyCoupon("SAVE10", 1000))
	assert.Equal(t, "SAVE10", cart.CouponCode)
	// 3*1000 - 200 - 1000
	assert.Equal(t, int64(1800), cart.TotalAmount)

	// 重复计算结果不变
	prev := cart.TotalAmount
	cart.recalc()
	assert.Equal(t, prev, cart.TotalAmount)

	cart.RemoveCoupon()
	assert.Empty(t, cart.CouponCode)
	assert.Equal(t, int64(2800), cart.TotalAmount)

	assert.ErrorIs(t, cart.ApplyCoupon("BAD", -1), ErrInvariantViolation)
}

func TestCart_Merge(t *testing.T) {
	t.Parallel()
	dst := Cart{Items: []Item{
		{Unit: Unit{ProductID: 1}, Price: 1000, Quantity: 1},
	}}
	src := Cart{Items: []Item{
		{Unit: Unit{ProductID: 1}, Price: 1000, Quantity: 2},
		{Unit: Unit{ProductID: 3}, Price: 300, Quantity: 1},
	}}
	dst.Merge(src)
	assert.Len(t, dst.Items, 2)
	assert.Equal(t, int64(4), dst.TotalItems)
	assert.Equal(t, int64(3300), dst.TotalAmount)
	assert.Equal(t, int64(3), dst.Items[0].Quantity)
}

func TestCart_IsExpired(t *testing.T) {
	t.Parallel()
	now := time.Now().UnixMilli()
	cart := Cart{ExpiresAt: now + 1000}
	assert.False(t, cart.IsExpired(now))
	assert.True(t, cart.IsExpired(now+2000))
	// 未设置过期时间视为永不过期
	assert.False(t, (&Cart{}).IsExpired(now))
}

func TestCart_Clear(t *testing.T) {
	t.Parallel()
	cart := Cart{
		Items:          []Item{{Unit: Unit{ProductID: 1}, Price: 1000, Quantity: 2}},
		CouponCode:     "SAVE10",
		DiscountAmount: 500,
	}
	cart.recalc()
	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.TotalItems)
	assert.Zero(t, cart.TotalAmount)
	assert.Empty(t, cart.CouponCode)
}
