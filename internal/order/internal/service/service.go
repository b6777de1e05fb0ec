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
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/emall/internal/cart"
	"github.com/ecodeclub/emall/internal/discount"
	"github.com/ecodeclub/emall/internal/inventory"
	"github.com/ecodeclub/emall/internal/order/internal/domain"
	"github.com/ecodeclub/emall/internal/order/internal/event"
	"github.com/ecodeclub/emall/internal/order/internal/repository"
	"github.com/ecodeclub/emall/internal/payment"
	"github.com/ecodeclub/emall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/emall/internal/product"
	"github.com/ecodeclub/emall/internal/shipping"
	"github.com/gotomicro/ego/core/elog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	ErrOrderNotFound     = repository.ErrOrderNotFound
	ErrIllegalTransition = domain.ErrIllegalTransition
	ErrEmptyCart         = errors.New("购物车为空")
	ErrProductOffShelf   = errors.New("商品已下架")
)

// Config 下单相关的金额策略
type Config struct {
	// TaxRateBasisPoints 税率, 万分数, 900表示9%
	TaxRateBasisPoints int64 `yaml:"taxRateBasisPoints"`
	// ShippingFee 固定运费, 单位为分
	ShippingFee int64 `yaml:"shippingFee"`
	// FreeShippingThreshold 免运费门槛, 单位为分, 0表示不免
	FreeShippingThreshold int64 `yaml:"freeShippingThreshold"`
	// RefundRestock 退款时是否自动回补库存
	RefundRestock bool `yaml:"refundRestock"`
}

type PlaceOrderReq struct {
	CouponCode      string
	ShippingAddress domain.Address
	BillingAddress  domain.Address
}

// Meta 一次流转携带的附加信息
type Meta struct {
	Reason string
}

//go:generate mockgen -source=./service.go -destination=../../mocks/order.mock.go -package=ordermocks Service
type Service interface {
	// PlaceOrder 结算购物车生成订单, 预占库存和占用优惠额度要么全部成功要么全部回滚
	PlaceOrder(ctx context.Context, uid int64, req PlaceOrderReq) (domain.Order, error)
	FindBySN(ctx context.Context, sn string) (domain.Order, error)
	FindBySNAndUID(ctx context.Context, sn string, uid int64) (domain.Order, error)
	ListOrders(ctx context.Context, offset, limit int, uid int64) ([]domain.Order, int64, error)
	// Advance 执行状态流转, 进入已支付时提交预占库存
	Advance(ctx context.Context, sn string, target domain.Status, meta Meta) (domain.Order, error)
	// Cancel 支付前取消订单, 释放预占库存并退回优惠额度
	Cancel(ctx context.Context, sn string, reason string) (domain.Order, error)
	// Refund 已支付或已签收的订单退款, 库存回补由配置决定
	Refund(ctx context.Context, sn string, amount int64, reason string) (domain.Order, error)
	FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, int64, error)
	CloseExpiredOrders(ctx context.Context, orders []domain.Order) error
}

type service struct {
	repo         repository.OrderRepository
	cartSvc      cart.Service
	productSvc   product.Service
	inventorySvc inventory.Service
	discountSvc  discount.Service
	paymentSvc   payment.Service
	shippingSvc  shipping.Service
	producer     event.OrderEventProducer
	snGen        *sequencenumber.Generator
	cfg          Config
	nowFunc      func() int64
	logger       *elog.Component
}

func NewService(repo repository.OrderRepository,
	cartSvc cart.Service,
	productSvc product.Service,
	inventorySvc inventory.Service,
	discountSvc discount.Service,
	paymentSvc payment.Service,
	shippingSvc shipping.Service,
	producer event.OrderEventProducer,
	snGen *sequencenumber.Generator,
	cfg Config) Service {
	return &service{
		repo:         repo,
		cartSvc:      cartSvc,
		productSvc:   productSvc,
		inventorySvc: inventorySvc,
		discountSvc:  discountSvc,
		paymentSvc:   paymentSvc,
		shippingSvc:  shippingSvc,
		producer:     producer,
		snGen:        snGen,
		cfg:          cfg,
		nowFunc: func() int64 {
			return time.Now().UnixMilli()
		},
		logger: elog.DefaultLogger,
	}
}

func (s *service) PlaceOrder(ctx context.Context, uid int64, req PlaceOrderReq) (domain.Order, error) {
	c, err := s.cartSvc.GetCart(ctx, uid)
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			return domain.Order{}, ErrEmptyCart
		}
		return domain.Order{}, err
	}
	if c.IsEmpty() || c.IsExpired(s.nowFunc()) {
		return domain.Order{}, ErrEmptyCart
	}

	items, categoryOf, err := s.snapshotItems(ctx, c.Items)
	if err != nil {
		return domain.Order{}, err
	}

	// 占用优惠额度, 后续任何一步失败都要补偿退回
	var couponID int64
	var discountAmount int64
	if req.CouponCode != "" {
		lines := slice.Map(items, func(idx int, src domain.Item) discount.Line {
			return discount.Line{
				ProductID:  src.ProductID,
				CategoryID: categoryOf[src.ProductID],
				Amount:     src.TotalPrice(),
			}
		})
		res, er := s.discountSvc.Redeem(ctx, req.CouponCode, uid, lines)
		if er != nil {
			return domain.Order{}, er
		}
		couponID, discountAmount = res.CouponID, res.Amount
	}

	units := slice.Map(items, func(idx int, src domain.Item) inventory.UnitQuantity {
		return inventory.UnitQuantity{
			Unit:     inventory.Unit{ProductID: src.ProductID, VariantID: src.VariantID},
			Quantity: src.Quantity,
		}
	})
	if err = s.inventorySvc.Reserve(ctx, units); err != nil {
		s.cancelRedemption(ctx, couponID)
		return domain.Order{}, err
	}

	sn, err := s.snGen.Generate(uid)
	if err != nil {
		s.rollbackPlacement(ctx, units, couponID)
		return domain.Order{}, err
	}
	order := domain.Order{
		SN:              sn,
		UID:             uid,
		Items:           items,
		CouponID:        couponID,
		CouponCode:      req.CouponCode,
		Tax:             0,
		ShippingFee:     0,
		DiscountAmount:  discountAmount,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Status:          domain.StatusPending,
	}
	order.Recalculate()
	order.Tax = order.Subtotal * s.cfg.TaxRateBasisPoints / 10000
	order.ShippingFee = s.shippingFee(order.Subtotal)
	order.Recalculate()

	id, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.rollbackPlacement(ctx, units, couponID)
		return domain.Order{}, err
	}
	order.ID = id

	if couponID > 0 {
		if er := s.discountSvc.LinkCouponToOrder(ctx, couponID, id); er != nil {
			s.logger.Error("关联兑换记录失败",
				elog.FieldErr(er),
				elog.Int64("couponID", couponID),
				elog.Int64("orderID", id))
		}
	}

	if _, err = s.paymentSvc.CreatePayment(ctx, payment.Payment{
		OrderID: id,
		OrderSN: sn,
		UID:     uid,
		Amount:  order.Total,
	}); err != nil {
		s.rollbackPlacement(ctx, units, couponID)
		if er := order.Transition(domain.StatusFailed, s.nowFunc()); er == nil {
			if er = s.repo.Transition(ctx, order, domain.StatusPending); er != nil {
				s.logger.Error("标记订单失败状态失败", elog.FieldErr(er), elog.String("orderSN", sn))
			}
		}
		return domain.Order{}, err
	}

	if _, er := s.shippingSvc.CreateShipping(ctx, shipping.Shipping{
		OrderID: id,
		OrderSN: sn,
		UID:     uid,
		Address: shipping.Address{
			Recipient: req.ShippingAddress.Recipient,
			Phone:     req.ShippingAddress.Phone,
			Province:  req.ShippingAddress.Province,
			City:      req.ShippingAddress.City,
			Detail:    req.ShippingAddress.Detail,
			ZipCode:   req.ShippingAddress.ZipCode,
		},
	}); er != nil {
		s.logger.Warn("创建物流记录失败", elog.FieldErr(er), elog.String("orderSN", sn))
	}

	if er := s.cartSvc.Destroy(ctx, uid); er != nil {
		s.logger.Warn("销毁购物车失败", elog.FieldErr(er), elog.Int64("uid", uid))
	}

	s.produce(ctx, order)
	return order, nil
}

func (s *service) FindBySN(ctx context.Context, sn string) (domain.Order, error) {
	return s.repo.FindBySN(ctx, sn)
}

func (s *service) FindBySNAndUID(ctx context.Context, sn string, uid int64) (domain.Order, error) {
	return s.repo.FindBySNAndUID(ctx, sn, uid)
}

func (s *service) ListOrders(ctx context.Context, offset, limit int, uid int64) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrders(ctx, offset, limit, uid)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrders(ctx, uid)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) Advance(ctx context.Context, sn string, target domain.Status, meta Meta) (domain.Order, error) {
	// 取消必须释放预占库存和兑换记录, 统一走 Cancel; 退款需要金额, 只能走 Refund
	if target == domain.StatusCancelled {
		return s.Cancel(ctx, sn, meta.Reason)
	}
	if target == domain.StatusRefunded {
		return domain.Order{}, errors.Wrapf(domain.ErrIllegalTransition, "退款不支持直接流转, 订单 %s", sn)
	}
	order, err := s.repo.FindBySN(ctx, sn)
	if err != nil {
		return domain.Order{}, err
	}
	from := order.Status
	if err = order.Transition(target, s.nowFunc()); err != nil {
		return domain.Order{}, err
	}
	if target == domain.StatusFailed {
		order.CancelReason = meta.Reason
	}
	// 先提交预占库存再流转, 提交失败时订单停留在原状态, 事件重投可以重试;
	// 同一订单的支付事件按订单号分区串行消费, 不会并发提交
	if target == domain.StatusPaid {
		if er := s.inventorySvc.Commit(ctx, s.units(order)); er != nil {
			s.logger.Error("提交预占库存失败", elog.FieldErr(er), elog.String("orderSN", sn))
			return domain.Order{}, er
		}
	}
	if err = s.repo.Transition(ctx, order, from); err != nil {
		return domain.Order{}, err
	}
	if target == domain.StatusFailed {
		s.rollbackPlacement(ctx, s.units(order), order.CouponID)
	}
	s.produce(ctx, order)
	return order, nil
}

func (s *service) Cancel(ctx context.Context, sn string, reason string) (domain.Order, error) {
	order, err := s.repo.FindBySN(ctx, sn)
	if err != nil {
		return domain.Order{}, err
	}
	from := order.Status
	if err = order.Cancel(reason, s.nowFunc()); err != nil {
		return domain.Order{}, err
	}
	if err = s.repo.Transition(ctx, order, from); err != nil {
		return domain.Order{}, err
	}
	s.rollbackPlacement(ctx, s.units(order), order.CouponID)
	s.produce(ctx, order)
	return order, nil
}

func (s *service) Refund(ctx context.Context, sn string, amount int64, reason string) (domain.Order, error) {
	order, err := s.repo.FindBySN(ctx, sn)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.CanBeRefunded() {
		return domain.Order{}, errors.Wrapf(domain.ErrIllegalTransition, "当前状态 %d 不可退款", order.Status)
	}
	pmt, err := s.paymentSvc.FindByOrderSN(ctx, sn)
	if err != nil {
		return domain.Order{}, err
	}
	if _, err = s.paymentSvc.Refund(ctx, pmt.SN, amount); err != nil {
		return domain.Order{}, err
	}
	from := order.Status
	if err = order.MarkRefunded(reason, s.nowFunc()); err != nil {
		return domain.Order{}, err
	}
	if err = s.repo.Transition(ctx, order, from); err != nil {
		return domain.Order{}, err
	}
	// 库存回补默认关闭, 退货入库是独立的管理动作
	if s.cfg.RefundRestock {
		for _, uq := range s.units(order) {
			if er := s.inventorySvc.Restock(ctx, uq.Unit, uq.Quantity); er != nil {
				s.logger.Error("退款回补库存失败",
					elog.FieldErr(er),
					elog.String("orderSN", sn),
					elog.Int64("productID", uq.Unit.ProductID))
			}
		}
	}
	s.produce(ctx, order)
	return order, nil
}

func (s *service) FindExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.FindExpiredOrders(ctx, offset, limit, ctime)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalExpiredOrders(ctx, ctime)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) CloseExpiredOrders(ctx context.Context, orders []domain.Order) error {
	for _, o := range orders {
		if _, err := s.Cancel(ctx, o.SN, "超时未支付"); err != nil {
			// 并发场景下订单可能刚好流转走, 跳过即可
			if errors.Is(err, domain.ErrIllegalTransition) ||
				errors.Is(err, repository.ErrOrderStateChanged) {
				continue
			}
			return err
		}
	}
	return nil
}

// snapshotItems 以下单时刻的商品数据生成订单项快照
func (s *service) snapshotItems(ctx context.Context, cartItems []cart.Item) ([]domain.Item, map[int64]int64, error) {
	ids := slice.Map(cartItems, func(idx int, src cart.Item) int64 {
		return src.Unit.ProductID
	})
	products, err := s.productSvc.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	productOf := make(map[int64]product.Product, len(products))
	for _, p := range products {
		productOf[p.ID] = p
	}
	items := make([]domain.Item, 0, len(cartItems))
	categoryOf := make(map[int64]int64, len(products))
	for _, ci := range cartItems {
		p, ok := productOf[ci.Unit.ProductID]
		if !ok || !p.OnShelf() {
			return nil, nil, errors.Wrapf(ErrProductOffShelf, "商品 %d", ci.Unit.ProductID)
		}
		items = append(items, domain.Item{
			ProductID:      ci.Unit.ProductID,
			VariantID:      ci.Unit.VariantID,
			SKU:            p.SN,
			Name:           p.Name,
			Image:          p.Image,
			Price:          p.Price,
			Quantity:       ci.Quantity,
			DiscountAmount: ci.DiscountAmount,
		})
		categoryOf[p.ID] = p.CategoryID
	}
	return items, categoryOf, nil
}

func (s *service) units(order domain.Order) []inventory.UnitQuantity {
	return slice.Map(order.Items, func(idx int, src domain.Item) inventory.UnitQuantity {
		return inventory.UnitQuantity{
			Unit:     inventory.Unit{ProductID: src.ProductID, VariantID: src.VariantID},
			Quantity: src.Quantity,
		}
	})
}

func (s *service) shippingFee(subtotal int64) int64 {
	if s.cfg.FreeShippingThreshold > 0 && subtotal >= s.cfg.FreeShippingThreshold {
		return 0
	}
	return s.cfg.ShippingFee
}

// rollbackPlacement 下单失败的补偿动作, 释放预占库存并退回优惠额度
func (s *service) rollbackPlacement(ctx context.Context, units []inventory.UnitQuantity, couponID int64) {
	if len(units) > 0 {
		if err := s.inventorySvc.Release(ctx, units); err != nil {
			s.logger.Error("释放预占库存失败", elog.FieldErr(err))
		}
	}
	s.cancelRedemption(ctx, couponID)
}

func (s *service) cancelRedemption(ctx context.Context, couponID int64) {
	if couponID <= 0 {
		return
	}
	if err := s.discountSvc.CancelRedemption(ctx, couponID); err != nil {
		s.logger.Error("退回优惠额度失败", elog.FieldErr(err), elog.Int64("couponID", couponID))
	}
}

// produce 发送失败只记录日志, 不影响已落库的状态流转
func (s *service) produce(ctx context.Context, order domain.Order) {
	evt := event.OrderEvent{
		OrderSN: order.SN,
		UID:     order.UID,
		Status:  order.Status.ToUint8(),
	}
	if err := s.producer.Produce(ctx, evt); err != nil {
		s.logger.Error("发送订单事件失败",
			elog.FieldErr(err),
			elog.String("orderSN", evt.OrderSN),
			elog.Any("status", evt.Status))
	}
}
