package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iurnickita/debtreport/internal/model"
	"github.com/iurnickita/debtreport/internal/store"
)

var now = time.Date(2021, 9, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ago(days int) model.Date {
	return model.Date{Time: now.Add(-time.Duration(days) * 24 * time.Hour)}
}

func ids(clients []model.Client) []int {
	result := []int{}
	for _, c := range clients {
		result = append(result, c.ID)
	}
	return result
}

// Балансы: 1 -> 60, 2 -> 0, 3 -> -10, 4 -> 250, 5 -> 35.5
// Последний платёж: 1 -> 3 дня, 2 -> 10 дней, 3 -> 45 дней, 4 -> платежей нет, 5 -> 32 дня
func testSnapshot() store.Snapshot {
	return store.Snapshot{
		Clients: []model.Client{
			{ID: 1, Name: "Ivan"},
			{ID: 2, Name: "Olga"},
			{ID: 3, Name: "Petr"},
			{ID: 4, Name: "Anna"},
			{ID: 5, Name: "Oleg"},
			{ID: 6, Name: "No purchases"},
		},
		Purchases: []model.Purchase{
			{ID: 10, ClientID: 1, Price: dec("100")},
			{ID: 20, ClientID: 2, Price: dec("80")},
			{ID: 30, ClientID: 3, Price: dec("10")},
			{ID: 40, ClientID: 4, Price: dec("250")},
			{ID: 50, ClientID: 5, Price: dec("35.5")},
			{ID: 51, ClientID: 5, Price: dec("1")},
		},
		Payments: []model.Payment{
			{ID: 100, PurchaseID: 10, Amount: dec("40"), Date: ago(3)},
			{ID: 200, PurchaseID: 20, Amount: dec("80"), Date: ago(10)},
			{ID: 300, PurchaseID: 30, Amount: dec("20"), Date: ago(45)},
			{ID: 500, PurchaseID: 51, Amount: dec("1"), Date: ago(32)},
		},
	}
}

func newTestService(snap store.Snapshot) Service {
	return NewService(snap, now, zap.NewNop())
}

func TestPaymentsBalances(t *testing.T) {
	service := newTestService(testSnapshot())

	balances := service.PaymentsBalances()
	require.Len(t, balances, 5)
	want := []string{"60", "0", "-10", "250", "35.5"}
	for i, b := range balances {
		require.Equal(t, i+1, b.ClientID)
		require.True(t, b.PaymentBalance.Equal(dec(want[i])), "client %d: %s", b.ClientID, b.PaymentBalance)
	}

	// изменение результата не затрагивает сервис
	balances[0].PaymentBalance = dec("0")
	require.True(t, service.PaymentsBalances()[0].PaymentBalance.Equal(dec("60")))
}

func TestBalancesInRange(t *testing.T) {
	service := newTestService(testSnapshot())

	tests := []struct {
		name string
		from string
		to   string
		want []int
	}{
		{name: "both bounds", from: "0", to: "60", want: []int{1, 2, 5}},
		{name: "inclusive edges", from: "35.5", to: "250", want: []int{1, 4, 5}},
		{name: "only from", from: "36", to: "", want: []int{1, 4}},
		{name: "only to", from: "", to: "0", want: []int{2, 3}},
		{name: "no bounds", from: "", to: "", want: []int{1, 2, 3, 4, 5}},
		{name: "malformed from", from: "abc", to: "0", want: []int{2, 3}},
		{name: "malformed to", from: "100", to: "1x", want: []int{4}},
		{name: "both malformed", from: "x", to: "y", want: []int{1, 2, 3, 4, 5}},
		{name: "empty range", from: "61", to: "249", want: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.BalancesInRange(ParseBound(tt.from), ParseBound(tt.to))
			require.Equal(t, tt.want, ids(got))
		})
	}
}

func TestUnpaidDebt(t *testing.T) {
	service := newTestService(testSnapshot())

	got := service.UnpaidDebt()
	require.Equal(t, []int{1, 4, 5}, ids(got))

	for _, client := range got {
		for _, b := range service.PaymentsBalances() {
			if b.ClientID == client.ID {
				require.True(t, b.PaymentBalance.IsPositive())
			}
		}
	}

	require.Equal(t, got, service.UnpaidDebt())
}

func TestLastPaymentFilters(t *testing.T) {
	service := newTestService(testSnapshot())

	week := service.LastPaymentWeekAgo()
	month := service.LastPaymentMonthAgo()
	require.Equal(t, []int{2, 3, 5}, ids(week))
	require.Equal(t, []int{3, 5}, ids(month))

	// всё, что в выборке месяца, есть и в выборке недели
	for _, id := range ids(month) {
		require.Contains(t, ids(week), id)
	}

	require.Equal(t, []int{3}, ids(service.RecencyOlderThan(32)))
	require.Equal(t, []int{}, ids(service.RecencyOlderThan(45)))
}

func TestRecencyExcludesClientsWithoutPayments(t *testing.T) {
	service := newTestService(testSnapshot())

	require.NotContains(t, ids(service.RecencyOlderThan(-1000)), 4)
	require.NotContains(t, ids(service.RecencyOlderThan(-1000)), 6)
}

func TestLookupMissIsSkipped(t *testing.T) {
	snap := testSnapshot()
	// клиента 4 нет в коллекции клиентов
	snap.Clients = append(snap.Clients[:3], snap.Clients[4:]...)

	core, logs := observer.New(zapcore.WarnLevel)
	service := NewService(snap, now, zap.New(core))

	require.Equal(t, []int{1, 5}, ids(service.UnpaidDebt()))
	require.Equal(t, 1, logs.FilterMessage("lookup miss, record skipped").Len())

	_, ok := service.ClientByID(4)
	require.False(t, ok)
	_, ok = service.PurchaseByID(999)
	require.False(t, ok)
}

func TestEmptySnapshot(t *testing.T) {
	service := newTestService(store.Snapshot{})

	require.NotNil(t, service.PaymentsBalances())
	require.Empty(t, service.PaymentsBalances())
	require.Empty(t, service.UnpaidDebt())
	require.Empty(t, service.LastPaymentWeekAgo())
	require.Empty(t, service.BalancesInRange(nil, nil))
}

func TestParseBound(t *testing.T) {
	require.Nil(t, ParseBound(""))
	require.Nil(t, ParseBound("   "))
	require.Nil(t, ParseBound("ten"))
	require.Nil(t, ParseBound("12abc"))

	bound := ParseBound(" 12.5 ")
	require.NotNil(t, bound)
	require.True(t, bound.Equal(dec("12.5")))

	zero := ParseBound("0")
	require.NotNil(t, zero)
	require.True(t, zero.IsZero())

	negative := ParseBound("-3")
	require.NotNil(t, negative)
	require.True(t, negative.Equal(dec("-3")))
}
