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

func TestShipping_Transition(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		from    Status
		target  Status
		wantErr error
	}{
		{name: "待发货到处理中", from: StatusPending, target: StatusProcessing},
		{name: "待发货可取消", from: StatusPending, target: StatusCancelled},
		{name: "处理中到已发货", from: StatusProcessing, target: StatusShipped},
		{name: "已发货到运输中", from: StatusShipped, target: StatusInTransit},
		{name: "运输中到派送中", from: StatusInTransit, target: StatusOutForDelivery},
		{name: "派送中到已签收", from: StatusOutForDelivery, target: StatusDelivered},
		{name: "派送失败", from: StatusOutForDelivery, target: StatusFailed},
		{name: "签收后可退回", from: StatusDelivered, target: StatusReturned},
		{name: "失败件可退回", from: StatusFailed, target: StatusReturned},
		{name: "待发货不能直接签收", from: StatusPending, target: StatusDelivered, wantErr: ErrIllegalTransition},
		{name: "发货后不能取消", from: StatusShipped, target: StatusCancelled, wantErr: ErrIllegalTransition},
		{name: "已取消为终态", from: StatusCancelled, target: StatusProcessing, wantErr: ErrIllegalTransition},
		{name: "已退回为终态", from: StatusReturned, target: StatusPending, wantErr: ErrIllegalTransition},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := Shipping{Status: tc.from}
			err := s.Transition(tc.target, 1000)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, tc.from, s.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.target, s.Status)
		})
	}
}

func TestShipping_StampOnce(t *testing.T) {
	t.Parallel()
	s := Shipping{Status: StatusProcessing}
	require.NoError(t, s.Transition(StatusShipped, 100))
	assert.Equal(t, int64(100), s.ShippedAt)

	require.NoError(t, s.Transition(StatusInTransit, 200))
	require.NoError(t, s.Transition(StatusOutForDelivery, 300))
	require.NoError(t, s.Transition(StatusDelivered, 400))
	assert.Equal(t, int64(400), s.DeliveredAt)
	// 发货时间戳不被后续流转覆盖
	assert.Equal(t, int64(100), s.ShippedAt)
}

func TestShipping_CanBeCancelled(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name   string
		status Status
		want   bool
	}{
		{name: "待发货可取消", status: StatusPending, want: true},
		{name: "处理中可取消", status: StatusProcessing, want: true},
		{name: "已发货不可取消", status: StatusShipped, want: false},
		{name: "运输中不可取消", status: StatusInTransit, want: false},
		{name: "已签收不可取消", status: StatusDelivered, want: false},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := Shipping{Status: tc.status}
			assert.Equal(t, tc.want, s.CanBeCancelled())
		})
	}
}

func TestShipping_IsInTransit(t *testing.T) {
	t.Parallel()
	assert.False(t, (&Shipping{Status: StatusProcessing}).IsInTransit())
	assert.True(t, (&Shipping{Status: StatusShipped}).IsInTransit())
	assert.True(t, (&Shipping{Status: StatusInTransit}).IsInTransit())
	assert.True(t, (&Shipping{Status: StatusOutForDelivery}).IsInTransit())
	assert.False(t, (&Shipping{Status: StatusDelivered}).IsInTransit())
}
