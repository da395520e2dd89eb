// Package recency находит для каждого клиента самый свежий платёж
// и число полных дней, прошедших с него.
package recency

import (
	"time"

	"github.com/iurnickita/debtreport/internal/model"
)

const day = 24 * time.Hour

// Compute строит отметки для клиентов с покупками.
// Клиент без единого платежа в результат не попадает.
// При равном числе дней выигрывает первый платёж: по порядку покупок клиента,
// затем по порядку платежей в хранилище.
func Compute(purchases []model.Purchase, payments []model.Payment, now time.Time) map[int]model.RecencyMark {
	byPurchase := make(map[int][]model.Payment)
	for _, payment := range payments {
		byPurchase[payment.PurchaseID] = append(byPurchase[payment.PurchaseID], payment)
	}

	marks := make(map[int]model.RecencyMark)
	for _, purchase := range purchases {
		for _, payment := range byPurchase[purchase.ID] {
			diff := DaysBetween(now, payment.Date.Time)
			mark, ok := marks[purchase.ClientID]
			if ok && mark.DayDiff <= diff {
				continue
			}
			marks[purchase.ClientID] = model.RecencyMark{
				ClientID:   purchase.ClientID,
				PurchaseID: payment.PurchaseID,
				DayDiff:    diff,
			}
		}
	}

	return marks
}

// Lookup: ok == false означает, что платежей у клиента нет.
func Lookup(marks map[int]model.RecencyMark, clientID int) (model.RecencyMark, bool) {
	mark, ok := marks[clientID]
	return mark, ok
}

// DaysBetween - число полных календарных суток от then до now, с отбрасыванием дробной части.
// Оба момента сравниваются по часам зоны now, поэтому результат не зависит
// от зоны, в которой записан then, а переход на летнее время не съедает сутки.
func DaysBetween(now, then time.Time) int {
	_, nowOffset := now.Zone()
	_, thenOffset := then.In(now.Location()).Zone()
	diff := now.Sub(then) + time.Duration(nowOffset-thenOffset)*time.Second
	return int(diff / day)
}
