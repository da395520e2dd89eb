package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/iurnickita/debtreport/internal/model"
)

// Код postgres "relation does not exist"
const pgUndefinedTable = "42P01"

var ErrNoTable = errors.New("dataset table is missing")

// dbStore читает коллекции из postgres. Схема создаётся снаружи, запись не выполняется.
type dbStore struct {
	database *sql.DB
}

func NewDBStore(dsn string) (Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &dbStore{database: db}, nil
}

func (store *dbStore) Close() error {
	return store.database.Close()
}

func (store *dbStore) query(ctx context.Context, table string, query string) (*sql.Rows, error) {
	rows, err := store.database.QueryContext(ctx, query)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
			return nil, fmt.Errorf("%w: %s", ErrNoTable, table)
		}
		return nil, err
	}
	return rows, nil
}

func (store *dbStore) Clients(ctx context.Context) ([]model.Client, error) {
	rows, err := store.query(ctx, "clients",
		"SELECT id, name, phone, email, address"+
			" FROM clients ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var client model.Client
		var name, phone, email, address sql.NullString
		if err := rows.Scan(&client.ID, &name, &phone, &email, &address); err != nil {
			return nil, err
		}
		client.Name = name.String
		client.Phone = phone.String
		client.Email = email.String
		client.Address = address.String
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (store *dbStore) Purchases(ctx context.Context) ([]model.Purchase, error) {
	rows, err := store.query(ctx, "purchases",
		"SELECT id, client_id, price, date"+
			" FROM purchases ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		var purchase model.Purchase
		err := rows.Scan(&purchase.ID,
			&purchase.ClientID,
			&purchase.Price,
			&purchase.Date.Time)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, purchase)
	}
	return purchases, rows.Err()
}

func (store *dbStore) Payments(ctx context.Context) ([]model.Payment, error) {
	rows, err := store.query(ctx, "payments",
		"SELECT id, purchase_id, amount, date"+
			" FROM payments ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var payment model.Payment
		err := rows.Scan(&payment.ID,
			&payment.PurchaseID,
			&payment.Amount,
			&payment.Date.Time)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (store *dbStore) Admins(ctx context.Context) ([]model.Admin, error) {
	rows, err := store.query(ctx, "admins",
		"SELECT id, login, password, token"+
			" FROM admins ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []model.Admin
	for rows.Next() {
		var admin model.Admin
		if err := rows.Scan(&admin.ID, &admin.Login, &admin.Password, &admin.Token); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}
