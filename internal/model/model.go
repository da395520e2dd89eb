package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// суммы в ответах - числа, а не строки
	decimal.MarshalJSONWithoutQuotes = true
}

// Исходные данные

type Client struct {
	ID      int    `json:"id"`
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

type Purchase struct {
	ID       int             `json:"id"`
	ClientID int             `json:"clientId"`
	Price    decimal.Decimal `json:"price"`
	Date     Date            `json:"date"`
}

type Payment struct {
	ID         int             `json:"id"`
	PurchaseID int             `json:"purchaseId"`
	Amount     decimal.Decimal `json:"amount"`
	Date       Date            `json:"date"`
}

type Admin struct {
	ID       int    `json:"id,omitempty"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

// Производные данные

// Balance: положительный - долг клиента, ноль или меньше - оплачено.
type Balance struct {
	ClientID       int             `json:"clientId"`
	PaymentBalance decimal.Decimal `json:"paymentBalances"`
}

// RecencyMark - платёж клиента с наименьшим числом дней от текущей даты.
type RecencyMark struct {
	ClientID   int `json:"clientId"`
	PurchaseID int `json:"purchaseId"`
	DayDiff    int `json:"dayDiff"`
}

// Date принимает RFC3339, дату-время без зоны и просто дату.
// Значения без зоны читаются в локальном времени.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("unsupported date format: %q", s)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}
