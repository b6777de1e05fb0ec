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

package service

import (
	"context"
	"testing"

	"github.com/ecodeclub/emall/internal/cart"
	cartmocks "github.com/ecodeclub/emall/internal/cart/mocks"
	"github.com/ecodeclub/emall/internal/discount"
	discountmocks "github.com/ecodeclub/emall/internal/discount/mocks"
	"github.com/ecodeclub/emall/internal/inventory"
	invmocks "github.com/ecodeclub/emall/internal/inventory/mocks"
	"github.com/ecodeclub/emall/internal/order/internal/domain"
	"github.com/ecodeclub/emall/internal/order/internal/event"
	"github.com/ecodeclub/emall/internal/order/internal/repository"
	"github.com/ecodeclub/emall/internal/payment"
	paymentmocks "github.com/ecodeclub/emall/internal/payment/mocks"
	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/emall/internal/product"
	productmocks "github.com/ecodeclub/emall/internal/product/mocks"
	"github.com/ecodeclub/emall/internal/shipping"
	shippingmocks "github.com/ecodeclub/emall/internal/shipping/mocks"
	"github.com/gotomicro/ego/core/elog"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type memoryRepository struct {
	orders map[string]*domain.Order
	nextID int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{orders: map[string]*domain.Order{}, nextID: 1}
}

func (m *memoryRepository) CreateOrder(_ context.Context, order domain.Order) (int64, error) {
	order.ID = m.nextID
	m.nextID++
	m.orders[order.SN] = &order
	return order.ID, nil
}

func (m *memoryRepository) FindBySN(_ context.Context, sn string) (domain.Order, error) {
	o, ok := m.orders[sn]
	if !ok {
		return domain.Order{}, repository.ErrOrderNotFound
	}
	return *o, nil
}

func (m *memoryRepository) FindBySNAndUID(_ context.Context, sn string, uid int64) (domain.Order, error) {
	o, ok := m.orders[sn]
	if !ok || o.UID != uid {
		return domain.Order{}, repository.ErrOrderNotFound
	}
	return *o, nil
}

func (m *memoryRepository) ListOrders(_ context.Context, offset, limit int, uid int64) ([]domain.Order, error) {
	var res []domain.Order
	for _, o := range m.orders {
		if o.UID == uid {
			res = append(res, *o)
		}
	}
	return res, nil
}

func (m *memoryRepository) TotalOrders(_ context.Context, uid int64) (int64, error) {
	var count int64
	for _, o := range m.orders {
		if o.UID == uid {
			count++
		}
	}
	return count, nil
}

func (m *memoryRepository) Transition(_ context.Context, order domain.Order, from domain.Status) error {
	stored, ok := m.orders[order.SN]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if stored.Status != from {
		return repository.ErrOrderStateChanged
	}
	*stored = order
	return nil
}

func (m *memoryRepository) FindExpiredOrders(_ context.Context, offset, limit int, ctime int64) ([]domain.Order, error) {
	var res []domain.Order
	for _, o := range m.orders {
		if o.Status == domain.StatusPending && o.Ctime < ctime {
			res = append(res, *o)
		}
	}
	return res, nil
}

func (m *memoryRepository) TotalExpiredOrders(_ context.Context, ctime int64) (int64, error) {
	os, _ := m.FindExpiredOrders(context.Background(), 0, 0, ctime)
	return int64(len(os)), nil
}

type recordingProducer struct {
	events []event.OrderEvent
}

func (r *recordingProducer) Produce(_ context.Context, evt event.OrderEvent) error {
	r.events = append(r.events, evt)
	return nil
}

type testDeps struct {
	repo        *memoryRepository
	cartSvc     *cartmocks.MockService
	productSvc  *productmocks.MockService
	invSvc      *invmocks.MockService
	discountSvc *discountmocks.MockService
	paymentSvc  *paymentmocks.MockService
	shippingSvc *shippingmocks.MockService
	producer    *recordingProducer
}

func newTestService(ctrl *gomock.Controller, cfg Config) (*service, *testDeps) {
	deps := &testDeps{
		repo:        newMemoryRepository(),
		cartSvc:     cartmocks.NewMockService(ctrl),
		productSvc:  productmocks.NewMockService(ctrl),
		invSvc:      invmocks.NewMockService(ctrl),
		discountSvc: discountmocks.NewMockService(ctrl),
		paymentSvc:  paymentmocks.NewMockService(ctrl),
		shippingSvc: shippingmocks.NewMockService(ctrl),
		producer:    &recordingProducer{},
	}
	svc := &service{
		repo:         deps.repo,
		cartSvc:      deps.cartSvc,
		productSvc:   deps.productSvc,
		inventorySvc: deps.invSvc,
		discountSvc:  deps.discountSvc,
		paymentSvc:   deps.paymentSvc,
		shippingSvc:  deps.shippingSvc,
		producer:     deps.producer,
		snGen:        sequencenumber.NewGenerator("ORD"),
		cfg:          cfg,
		nowFunc:      func() int64 { return 1000 },
		logger:       elog.DefaultLogger,
	}
	return svc, deps
}

func testCart(uid int64) cart.Cart {
	return cart.Cart{
		ID:  1,
		UID: uid,
		Items: []cart.Item{
			{Unit: cart.Unit{ProductID: 1}, Quantity: 3},
		},
	}
}

func testProducts() []product.Product {
	return []product.Product{
		{ID: 1, SN: "SKU-1", Name: "茶杯", Image: "cup.png", Price: 3000, CategoryID: 9, Status: product.StatusOnShelf},
	}
}

func TestService_PlaceOrder(t *testing.T) {
	t.Parallel()
	cfg := Config{TaxRateBasisPoints: 1000, ShippingFee: 500}
	ctx := context.Background()
	uid := int64(7)

	t.Run("使用优惠码下单成功", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, cfg)

		deps.cartSvc.EXPECT().GetCart(ctx, uid).Return(testCart(uid), nil)
		deps.productSvc.EXPECT().FindByIDs(ctx, []int64{1}).Return(testProducts(), nil)
		deps.discountSvc.EXPECT().Redeem(ctx, "SAVE10", uid,
			[]discount.Line{{ProductID: 1, CategoryID: 9, Amount: 9000}}).
			Return(discount.Result{CouponID: 11, Amount: 1000}, nil)
		deps.invSvc.EXPECT().Reserve(ctx,
			[]inventory.UnitQuantity{{Unit: inventory.Unit{ProductID: 1}, Quantity: 3}}).
			Return(nil)
		deps.discountSvc.EXPECT().LinkCouponToOrder(ctx, int64(11), gomock.Any()).Return(nil)
		deps.paymentSvc.EXPECT().CreatePayment(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, pmt payment.Payment) (payment.Payment, error) {
				assert.Equal(t, int64(9400), pmt.Amount)
				return pmt, nil
			})
		deps.shippingSvc.EXPECT().CreateShipping(ctx, gomock.Any()).Return(shipping.Shipping{}, nil)
		deps.cartSvc.EXPECT().Destroy(ctx, uid).Return(nil)

		order, err := svc.PlaceOrder(ctx, uid, PlaceOrderReq{
			CouponCode:      "SAVE10",
			ShippingAddress: domain.Address{Recipient: "张三", City: "上海"},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, order.Status)
		assert.Equal(t, int64(9000), order.Subtotal)
		assert.Equal(t, int64(900), order.Tax)
		assert.Equal(t, int64(500), order.ShippingFee)
		assert.Equal(t, int64(1000), order.DiscountAmount)
		assert.Equal(t, int64(9400), order.Total)
		// 订单项是下单时刻的商品快照
		require.Len(t, order.Items, 1)
		assert.Equal(t, "SKU-1", order.Items[0].SKU)
		assert.Equal(t, int64(3000), order.Items[0].Price)

		require.Len(t, deps.producer.events, 1)
		assert.Equal(t, order.SN, deps.producer.events[0].OrderSN)
	})

	t.Run("库存不足时退回优惠额度", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, cfg)

		deps.cartSvc.EXPECT().GetCart(ctx, uid).Return(testCart(uid), nil)
		deps.productSvc.EXPECT().FindByIDs(ctx, []int64{1}).Return(testProducts(), nil)
		deps.discountSvc.EXPECT().Redeem(ctx, "SAVE10", uid, gomock.Any()).
			Return(discount.Result{CouponID: 11, Amount: 1000}, nil)
		deps.invSvc.EXPECT().Reserve(ctx, gomock.Any()).Return(inventory.ErrInsufficientStock)
		deps.discountSvc.EXPECT().CancelRedemption(ctx, int64(11)).Return(nil)

		_, err := svc.PlaceOrder(ctx, uid, PlaceOrderReq{CouponCode: "SAVE10"})
		assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
		assert.Empty(t, deps.repo.orders)
		assert.Empty(t, deps.producer.events)
	})

	t.Run("无效优惠码直接失败", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, cfg)

		deps.cartSvc.EXPECT().GetCart(ctx, uid).Return(testCart(uid), nil)
		deps.productSvc.EXPECT().FindByIDs(ctx, []int64{1}).Return(testProducts(), nil)
		deps.discountSvc.EXPECT().Redeem(ctx, "BAD", uid, gomock.Any()).
			Return(discount.Result{}, discount.ErrInvalidDiscount)

		_, err := svc.PlaceOrder(ctx, uid, PlaceOrderReq{CouponCode: "BAD"})
		assert.ErrorIs(t, err, discount.ErrInvalidDiscount)
		assert.Empty(t, deps.repo.orders)
	})

	t.Run("空购物车不能下单", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, cfg)

		deps.cartSvc.EXPECT().GetCart(ctx, uid).Return(cart.Cart{UID: uid}, nil)

		_, err := svc.PlaceOrder(ctx, uid, PlaceOrderReq{})
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("过期购物车不能下单", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, cfg)

		c := testCart(uid)
		c.ExpiresAt = 500
		deps.cartSvc.EXPECT().GetCart(ctx, uid).Return(c, nil)

		_, err := svc.PlaceOrder(ctx, uid, PlaceOrderReq{})
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("下架商品不能下单", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, cfg)

		deps.cartSvc.EXPECT().GetCart(ctx, uid).Return(testCart(uid), nil)
		deps.productSvc.EXPECT().FindByIDs(ctx, []int64{1}).
			Return([]product.Product{{ID: 1, Status: product.StatusOffShelf}}, nil)

		_, err := svc.PlaceOrder(ctx, uid, PlaceOrderReq{})
		assert.ErrorIs(t, err, ErrProductOffShelf)
	})

	t.Run("满额免运费", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, Config{ShippingFee: 500, FreeShippingThreshold: 5000})

		deps.cartSvc.EXPECT().GetCart(ctx, uid).Return(testCart(uid), nil)
		deps.productSvc.EXPECT().FindByIDs(ctx, []int64{1}).Return(testProducts(), nil)
		deps.invSvc.EXPECT().Reserve(ctx, gomock.Any()).Return(nil)
		deps.paymentSvc.EXPECT().CreatePayment(ctx, gomock.Any()).Return(payment.Payment{}, nil)
		deps.shippingSvc.EXPECT().CreateShipping(ctx, gomock.Any()).Return(shipping.Shipping{}, nil)
		deps.cartSvc.EXPECT().Destroy(ctx, uid).Return(nil)

		order, err := svc.PlaceOrder(ctx, uid, PlaceOrderReq{})
		require.NoError(t, err)
		assert.Zero(t, order.ShippingFee)
		assert.Equal(t, int64(9000), order.Total)
	})
}

// seedOrder 直接向内存仓储写入一个订单
func seedOrder(t *testing.T, repo *memoryRepository, order domain.Order) domain.Order {
	t.Helper()
	order.Recalculate()
	id, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	order.ID = id
	return order
}

func TestService_Advance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("进入已支付时提交库存", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, Config{})
		order := seedOrder(t, deps.repo, domain.Order{
			SN:     "ORD1",
			UID:    7,
			Status: domain.StatusProcessing,
			Items:  []domain.Item{{ProductID: 1, Quantity: 3, Price: 3000}},
		})

		deps.invSvc.EXPECT().Commit(ctx,
			[]inventory.UnitQuantity{{Unit: inventory.Unit{ProductID: 1}, Quantity: 3}}).
			Return(nil)

		got, err := svc.Advance(ctx, order.SN, domain.StatusPaid, Meta{})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPaid, got.Status)
		assert.Equal(t, int64(1000), got.PaidAt)
		require.Len(t, deps.producer.events, 1)
	})

	t.Run("提交库存失败时订单停留在原状态", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, Config{})
		order := seedOrder(t, deps.repo, domain.Order{
			SN:     "ORD4",
			UID:    7,
			Status: domain.StatusProcessing,
			Items:  []domain.Item{{ProductID: 1, Quantity: 3, Price: 3000}},
		})

		deps.invSvc.EXPECT().Commit(ctx,
			[]inventory.UnitQuantity{{Unit: inventory.Unit{ProductID: 1}, Quantity: 3}}).
			Return(errors.New("模拟数据库故障"))

		_, err := svc.Advance(ctx, order.SN, domain.StatusPaid, Meta{})
		require.Error(t, err)
		// 没有流转成功, 支付事件重投后可以重试提交
		got, err := svc.FindBySN(ctx, order.SN)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusProcessing, got.Status)
		assert.Empty(t, deps.producer.events)
	})

	t.Run("流转到已取消时释放库存并退回优惠", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, Config{})
		order := seedOrder(t, deps.repo, domain.Order{
			SN: "ORD5", UID: 7, CouponID: 11, Status: domain.StatusPending,
			Items: []domain.Item{{ProductID: 1, Quantity: 3, Price: 3000}},
		})

		deps.invSvc.EXPECT().Release(ctx,
			[]inventory.UnitQuantity{{Unit: inventory.Unit{ProductID: 1}, Quantity: 3}}).
			Return(nil)
		deps.discountSvc.EXPECT().CancelRedemption(ctx, int64(11)).Return(nil)

		got, err := svc.Advance(ctx, order.SN, domain.StatusCancelled, Meta{Reason: "支付已取消"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, got.Status)
		assert.Equal(t, "支付已取消", got.CancelReason)
	})

	t.Run("退款不走通用流转入口", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, Config{})
		order := seedOrder(t, deps.repo, domain.Order{
			SN: "ORD6", UID: 7, Status: domain.StatusPaid,
			Items: []domain.Item{{ProductID: 1, Quantity: 1, Price: 100}},
		})

		_, err := svc.Advance(ctx, order.SN, domain.StatusRefunded, Meta{})
		assert.ErrorIs(t, err, ErrIllegalTransition)
		got, err := svc.FindBySN(ctx, order.SN)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPaid, got.Status)
	})

	t.Run("非法流转不落库不提交库存", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, Config{})
		order := seedOrder(t, deps.repo, domain.Order{
			SN: "ORD2", UID: 7, Status: domain.StatusPending,
			Items: []domain.Item{{ProductID: 1, Quantity: 1, Price: 100}},
		})

		_, err := svc.Advance(ctx, order.SN, domain.StatusDelivered, Meta{})
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Empty(t, deps.producer.events)
	})
}

func TestService_Cancel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("支付前取消释放库存并退回优惠", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, Config{})
		order := seedOrder(t, deps.repo, domain.Order{
			SN: "ORD1", UID: 7, CouponID: 11, Status: domain.StatusPending,
			Items: []domain.Item{{ProductID: 1, Quantity: 3, Price: 3000}},
		})

		deps.invSvc.EXPECT().Release(ctx,
			[]inventory.UnitQuantity{{Unit: inventory.Unit{ProductID: 1}, Quantity: 3}}).
			Return(nil)
		deps.discountSvc.EXPECT().CancelRedemption(ctx, int64(11)).Return(nil)

		got, err := svc.Cancel(ctx, order.SN, "不想要了")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, got.Status)
		assert.Equal(t, "不想要了", got.CancelReason)
	})

	t.Run("已发货不可取消", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, Config{})
		order := seedOrder(t, deps.repo, domain.Order{
			SN: "ORD2", UID: 7, Status: domain.StatusShipped,
			Items: []domain.Item{{ProductID: 1, Quantity: 1, Price: 100}},
		})

		_, err := svc.Cancel(ctx, order.SN, "来不及了")
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})
}

func TestService_Refund(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("退款联动支付并按配置回补库存", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, Config{RefundRestock: true})
		order := seedOrder(t, deps.repo, domain.Order{
			SN: "ORD1", UID: 7, Status: domain.StatusPaid,
			Items: []domain.Item{{ProductID: 1, Quantity: 3, Price: 3000}},
		})

		deps.paymentSvc.EXPECT().FindByOrderSN(ctx, order.SN).
			Return(payment.Payment{SN: "PAY1", OrderSN: order.SN, Amount: 9000}, nil)
		deps.paymentSvc.EXPECT().Refund(ctx, "PAY1", int64(9000)).
			Return(payment.Payment{}, nil)
		deps.invSvc.EXPECT().Restock(ctx, inventory.Unit{ProductID: 1}, int64(3)).Return(nil)

		got, err := svc.Refund(ctx, order.SN, 9000, "质量问题")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRefunded, got.Status)
		assert.Equal(t, "质量问题", got.RefundReason)
	})

	t.Run("默认不回补库存", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, Config{})
		order := seedOrder(t, deps.repo, domain.Order{
			SN: "ORD2", UID: 7, Status: domain.StatusDelivered,
			Items: []domain.Item{{ProductID: 1, Quantity: 1, Price: 100}},
		})

		deps.paymentSvc.EXPECT().FindByOrderSN(ctx, order.SN).
			Return(payment.Payment{SN: "PAY2"}, nil)
		deps.paymentSvc.EXPECT().Refund(ctx, "PAY2", int64(100)).
			Return(payment.Payment{}, nil)

		got, err := svc.Refund(ctx, order.SN, 100, "破损")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRefunded, got.Status)
	})

	t.Run("未支付订单不可退款", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		svc, deps := newTestService(ctrl, Config{})
		order := seedOrder(t, deps.repo, domain.Order{
			SN: "ORD3", UID: 7, Status: domain.StatusPending,
			Items: []domain.Item{{ProductID: 1, Quantity: 1, Price: 100}},
		})

		_, err := svc.Refund(ctx, order.SN, 100, "不想要了")
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})
}

func TestService_CloseExpiredOrders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	svc, deps := newTestService(ctrl, Config{})

	expired := seedOrder(t, deps.repo, domain.Order{
		SN: "ORD1", UID: 7, Status: domain.StatusPending, Ctime: 100,
		Items: []domain.Item{{ProductID: 1, Quantity: 2, Price: 100}},
	})
	seedOrder(t, deps.repo, domain.Order{
		SN: "ORD2", UID: 8, Status: domain.StatusPaid, Ctime: 100,
		Items: []domain.Item{{ProductID: 2, Quantity: 1, Price: 100}},
	})

	deps.invSvc.EXPECT().Release(ctx,
		[]inventory.UnitQuantity{{Unit: inventory.Unit{ProductID: 1}, Quantity: 2}}).
		Return(nil)

	orders, total, err := svc.FindExpiredOrders(ctx, 0, 10, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, expired.SN, orders[0].SN)

	require.NoError(t, svc.CloseExpiredOrders(ctx, orders))
	got, err := svc.FindBySN(ctx, expired.SN)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
}
