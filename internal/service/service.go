package service

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iurnickita/debtreport/internal/balance"
	"github.com/iurnickita/debtreport/internal/model"
	"github.com/iurnickita/debtreport/internal/recency"
	"github.com/iurnickita/debtreport/internal/store"
)

const (
	WeekAgoDays  = 7
	MonthAgoDays = 31
)

// Service отвечает на фиксированный набор вопросов о задолженности.
// Агрегаты считаются один раз в NewService, дальше значение только читается.
type Service interface {
	PaymentsBalances() []model.Balance
	BalancesInRange(from, to *decimal.Decimal) []model.Client
	UnpaidDebt() []model.Client
	RecencyOlderThan(days int) []model.Client
	LastPaymentWeekAgo() []model.Client
	LastPaymentMonthAgo() []model.Client
	ClientByID(id int) (model.Client, bool)
	PurchaseByID(id int) (model.Purchase, bool)
}

type service struct {
	balances  []model.Balance
	marks     map[int]model.RecencyMark
	clients   map[int]model.Client
	purchases map[int]model.Purchase
	zaplog    *zap.Logger
}

func NewService(snap store.Snapshot, now time.Time, zaplog *zap.Logger) Service {
	balances := balance.Compute(snap.Purchases, snap.Payments)
	if balances == nil {
		balances = []model.Balance{}
	}

	// при повторе id остаётся первая запись, как при поиске по коллекции
	clients := make(map[int]model.Client, len(snap.Clients))
	for _, client := range snap.Clients {
		if _, ok := clients[client.ID]; !ok {
			clients[client.ID] = client
		}
	}
	purchases := make(map[int]model.Purchase, len(snap.Purchases))
	for _, purchase := range snap.Purchases {
		if _, ok := purchases[purchase.ID]; !ok {
			purchases[purchase.ID] = purchase
		}
	}

	return &service{
		balances:  balances,
		marks:     recency.Compute(snap.Purchases, snap.Payments, now),
		clients:   clients,
		purchases: purchases,
		zaplog:    zaplog,
	}
}

func (service *service) PaymentsBalances() []model.Balance {
	return slices.Clone(service.balances)
}

// BalancesInRange: границы включительные, nil снимает ограничение с этой стороны.
func (service *service) BalancesInRange(from, to *decimal.Decimal) []model.Client {
	return service.clientsWhere(func(b model.Balance) bool {
		if from != nil && b.PaymentBalance.LessThan(*from) {
			return false
		}
		if to != nil && b.PaymentBalance.GreaterThan(*to) {
			return false
		}
		return true
	})
}

func (service *service) UnpaidDebt() []model.Client {
	return service.clientsWhere(func(b model.Balance) bool {
		return b.PaymentBalance.IsPositive()
	})
}

// RecencyOlderThan: клиенты, чей последний платёж старше days дней.
// Клиенты без платежей не попадают в результат.
func (service *service) RecencyOlderThan(days int) []model.Client {
	clients := []model.Client{}
	for _, b := range service.balances {
		mark, ok := recency.Lookup(service.marks, b.ClientID)
		if !ok || mark.DayDiff <= days {
			continue
		}
		purchase, ok := service.PurchaseByID(mark.PurchaseID)
		if !ok {
			service.lookupMiss("purchase", mark.PurchaseID)
			continue
		}
		client, ok := service.ClientByID(purchase.ClientID)
		if !ok {
			service.lookupMiss("client", purchase.ClientID)
			continue
		}
		clients = append(clients, client)
	}
	return clients
}

func (service *service) LastPaymentWeekAgo() []model.Client {
	return service.RecencyOlderThan(WeekAgoDays)
}

func (service *service) LastPaymentMonthAgo() []model.Client {
	return service.RecencyOlderThan(MonthAgoDays)
}

func (service *service) ClientByID(id int) (model.Client, bool) {
	client, ok := service.clients[id]
	return client, ok
}

func (service *service) PurchaseByID(id int) (model.Purchase, bool) {
	purchase, ok := service.purchases[id]
	return purchase, ok
}

func (service *service) clientsWhere(match func(model.Balance) bool) []model.Client {
	clients := []model.Client{}
	for _, b := range store.Filter(service.balances, match) {
		client, ok := service.ClientByID(b.ClientID)
		if !ok {
			service.lookupMiss("client", b.ClientID)
			continue
		}
		clients = append(clients, client)
	}
	return clients
}

func (service *service) lookupMiss(entity string, id int) {
	service.zaplog.Warn("lookup miss, record skipped",
		zap.String("entity", entity),
		zap.Int("id", id),
	)
}

// ParseBound разбирает границу диапазона. Пустая или нечисловая строка - границы нет.
func ParseBound(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	bound, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &bound
}
