package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/iurnickita/debtreport/internal/model"
	"github.com/iurnickita/debtreport/internal/store/config"
	"github.com/iurnickita/debtreport/internal/store/remote"
)

// Store - хранилище записей только для чтения.
// Коллекции возвращаются целиком в порядке хранения.
type Store interface {
	Clients(ctx context.Context) ([]model.Client, error)
	Purchases(ctx context.Context) ([]model.Purchase, error)
	Payments(ctx context.Context) ([]model.Payment, error)
	Admins(ctx context.Context) ([]model.Admin, error)
}

var (
	ErrEmptyDataset  = errors.New("dataset is empty")
	ErrUnknownSource = errors.New("no dataset source configured")
	ErrNoPaymentDate = errors.New("payment has no date")
)

func NewStore(ctx context.Context, cfg config.Config) (Store, error) {
	switch {
	case cfg.DBDsn != "":
		return NewDBStore(cfg.DBDsn)
	case cfg.DataURL != "":
		body, err := remote.NewClient(cfg.DataURL).Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch dataset: %w", err)
		}
		return Decode(body)
	case cfg.DataFile != "":
		return NewFileStore(cfg.DataFile)
	default:
		return nil, ErrUnknownSource
	}
}

// Dataset - документ формата json-server: четыре именованные коллекции.
type Dataset struct {
	Clients   []model.Client   `json:"clients"`
	Purchases []model.Purchase `json:"purchases"`
	Payments  []model.Payment  `json:"payments"`
	Admins    []model.Admin    `json:"admins"`
}

type memStore struct {
	data Dataset
}

func NewMemStore(data Dataset) Store {
	return &memStore{data: data}
}

func NewFileStore(path string) (Store, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return Decode(body)
}

func Decode(body []byte) (Store, error) {
	if len(body) == 0 {
		return nil, ErrEmptyDataset
	}
	var data Dataset
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	return NewMemStore(data), nil
}

// validate: платёж без даты попал бы во все выборки просроченных.
func validate(data Dataset) error {
	for _, payment := range data.Payments {
		if payment.Date.IsZero() {
			return fmt.Errorf("%w: payment %d", ErrNoPaymentDate, payment.ID)
		}
	}
	return nil
}

func (s *memStore) Clients(_ context.Context) ([]model.Client, error) {
	return s.data.Clients, nil
}

func (s *memStore) Purchases(_ context.Context) ([]model.Purchase, error) {
	return s.data.Purchases, nil
}

func (s *memStore) Payments(_ context.Context) ([]model.Payment, error) {
	return s.data.Payments, nil
}

func (s *memStore) Admins(_ context.Context) ([]model.Admin, error) {
	return s.data.Admins, nil
}

// Snapshot - состояние хранилища, прочитанное один раз при старте.
type Snapshot struct {
	Clients   []model.Client
	Purchases []model.Purchase
	Payments  []model.Payment
	Admins    []model.Admin
}

func Load(ctx context.Context, s Store) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Clients, err = s.Clients(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load clients: %w", err)
	}
	if snap.Purchases, err = s.Purchases(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load purchases: %w", err)
	}
	if snap.Payments, err = s.Payments(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load payments: %w", err)
	}
	if snap.Admins, err = s.Admins(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load admins: %w", err)
	}
	return snap, nil
}

// Find возвращает первый элемент, удовлетворяющий условию.
func Find[T any](items []T, match func(T) bool) (T, bool) {
	for _, item := range items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Filter возвращает все подходящие элементы в исходном порядке.
func Filter[T any](items []T, match func(T) bool) []T {
	var found []T
	for _, item := range items {
		if match(item) {
			found = append(found, item)
		}
	}
	return found
}
