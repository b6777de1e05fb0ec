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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord() Record {
	r := Record{
		Unit:           Unit{ProductID: 100},
		Quantity:       50,
		ReorderPoint:   10,
		TrackInventory: true,
	}
	r.recalc()
	return r
}

func TestRecord_Reserve(t *testing.T) {
	testCases := []struct {
		name         string
		record       func() Record
		qty          int64
		wantErr      error
		wantReserved int64
		wantStatus   StockStatus
	}{
		{
			name:         "占用成功",
			record:       newRecord,
			qty:          5,
			wantReserved: 5,
			wantStatus:   StockStatusInStock,
		},
		{
			name:         "占用至低库存",
			record:       newRecord,
			qty:          45,
			wantReserved: 45,
			wantStatus:   StockStatusLowStock,
		},
		{
			name: "超出可用且不允许超卖",
			record: func() Record {
				r := newRecord()
				r.Quantity = 1
				r.recalc()
				return r
			},
			qty:          2,
			wantErr:      ErrInsufficientStock,
			wantReserved: 0,
			wantStatus:   StockStatusLowStock,
		},
		{
			name: "超出可用但允许超卖",
			record: func() Record {
				r := newRecord()
				r.Quantity = 1
				r.AllowBackorder = true
				r.recalc()
				return r
			},
			qty:          2,
			wantReserved: 2,
			wantStatus:   StockStatusBackorder,
		},
		{
			name:       "数量非法",
			record:     newRecord,
			qty:        0,
			wantErr:    ErrInvariantViolation,
			wantStatus: StockStatusInStock,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			r := tc.record()
			err := r.Reserve(tc.qty)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.wantReserved, r.ReservedQuantity)
			assert.Equal(t, tc.wantStatus, r.Status)
			assert.Equal(t, r.Quantity-r.ReservedQuantity, r.AvailableQuantity)
		})
	}
}

func TestRecord_ReleaseNeverNegative(t *testing.T) {
	r := newRecord()
	require.NoError(t, r.Reserve(3))

	require.NoError(t, r.Release(5))

	assert.Equal(t, int64(0), r.ReservedQuantity)
	assert.Equal(t, r.Quantity, r.AvailableQuantity)
	assert.Equal(t, StockStatusInStock, r.Status)
}

func TestRecord_Commit(t *testing.T) {
	const now = int64(1712000000000)
	r := newRecord()
	require.NoError(t, r.Reserve(8))

	require.NoError(t, r.Commit(8, now))

	assert.Equal(t, int64(42), r.Quantity)
	assert.Equal(t, int64(0), r.ReservedQuantity)
	assert.Equal(t, int64(42), r.AvailableQuantity)
	assert.Equal(t, now, r.LastSoldAt)
}

func TestRecord_Restock(t *testing.T) {
	const now = int64(1712000000000)
	r := newRecord()
	r.Quantity = 0
	r.recalc()
	require.Equal(t, StockStatusOutOfStock, r.Status)

	require.NoError(t, r.Restock(20, now))

	assert.Equal(t, int64(20), r.Quantity)
	assert.Equal(t, StockStatusInStock, r.Status)
	assert.Equal(t, now, r.LastRestockedAt)
}

func TestRecord_SetQuantity(t *testing.T) {
	r := newRecord()
	require.NoError(t, r.Reserve(5))

	require.NoError(t, r.SetQuantity(7))

	assert.Equal(t, int64(7), r.Quantity)
	assert.Equal(t, int64(5), r.ReservedQuantity)
	assert.Equal(t, int64(2), r.AvailableQuantity)
	assert.Equal(t, StockStatusLowStock, r.Status)

	assert.ErrorIs(t, r.SetQuantity(-1), ErrInvariantViolation)
}

// 任意操作序列之后 AvailableQuantity == Quantity - ReservedQuantity 恒成立
func TestRecord_DerivedFieldInvariant(t *testing.T) {
	const now = int64(1712000000000)
	r := newRecord()
	ops := []func() error{
		func() error { return r.Reserve(10) },
		func() error { return r.Release(4) },
		func() error { return r.Commit(6, now) },
		func() error { return r.Restock(15, now) },
		func() error { return r.Reserve(30) },
		func() error { return r.Commit(30, now) },
	}
	for _, op := range ops {
		require.NoError(t, op())
		assert.Equal(t, r.Quantity-r.ReservedQuantity, r.AvailableQuantity)
		assert.GreaterOrEqual(t, r.ReservedQuantity, int64(0))
	}
}

func TestRecord_DiscontinuedSticky(t *testing.T) {
	r := newRecord()
	r.Status = StockStatusDiscontinued

	require.NoError(t, r.Restock(100, 1712000000000))

	assert.Equal(t, StockStatusDiscontinued, r.Status)
}
