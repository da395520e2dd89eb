// Package balance считает задолженность клиентов: сумма покупок минус сумма платежей по ним.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/iurnickita/debtreport/internal/model"
)

// Compute возвращает по одной записи на каждого клиента, у которого есть покупки,
// в порядке первого появления клиента среди покупок.
func Compute(purchases []model.Purchase, payments []model.Payment) []model.Balance {
	paid := PaidByPurchase(payments)

	var balances []model.Balance
	position := make(map[int]int)
	for _, purchase := range purchases {
		i, ok := position[purchase.ClientID]
		if !ok {
			i = len(balances)
			position[purchase.ClientID] = i
			balances = append(balances, model.Balance{ClientID: purchase.ClientID, PaymentBalance: decimal.Zero})
		}
		owed := purchase.Price.Sub(paid[purchase.ID])
		balances[i].PaymentBalance = balances[i].PaymentBalance.Add(owed)
	}

	return balances
}

// PaidByPurchase суммирует платежи по каждой покупке.
func PaidByPurchase(payments []model.Payment) map[int]decimal.Decimal {
	paid := make(map[int]decimal.Decimal)
	for _, payment := range payments {
		paid[payment.PurchaseID] = paid[payment.PurchaseID].Add(payment.Amount)
	}
	return paid
}
