package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed implementation of CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) repository.CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) Get(ctx context.Context, customerID string) (*domain.CustomerProfile, error) {
	const query = `
	SELECT customer_id, customer_type, cohort, total_purchases, total_spent::text, average_order_value::text,
		first_purchase_date, last_purchase_date, last_purchase_amount::text,
		payment_method, shipping_state, purchase_categories, updated_at
	FROM customer_profiles
	WHERE customer_id = $1
	`
	row := r.pool.QueryRow(ctx, query, customerID)

	var profile domain.CustomerProfile
	var (
		totalSpent string
		avgOrder   string
		lastAmount string
	)
	if err := row.Scan(
		&profile.CustomerID,
		&profile.CustomerType,
		&profile.Cohort,
		&profile.TotalPurchases,
		&totalSpent,
		&avgOrder,
		&profile.FirstPurchaseDate,
		&profile.LastPurchaseDate,
		&lastAmount,
		&profile.PaymentMethod,
		&profile.ShippingState,
		&profile.PurchaseCategories,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	var err error
	if profile.TotalSpent, err = scanMoney(totalSpent); err != nil {
		return nil, err
	}
	if profile.AverageOrderValue, err = scanMoney(avgOrder); err != nil {
		return nil, err
	}
	if profile.LastPurchaseAmount, err = scanMoney(lastAmount); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *customerRepository) Upsert(ctx context.Context, profile *domain.CustomerProfile) error {
	if profile == nil || profile.CustomerID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO customer_profiles (customer_id, customer_type, cohort, total_purchases, total_spent, average_order_value,
		first_purchase_date, last_purchase_date, last_purchase_amount, payment_method, shipping_state, purchase_categories)
	VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8, $9::numeric, $10, $11, $12)
	ON CONFLICT (customer_id) DO UPDATE
	SET customer_type = EXCLUDED.customer_type,
		cohort = EXCLUDED.cohort,
		total_purchases = EXCLUDED.total_purchases,
		total_spent = EXCLUDED.total_spent,
		average_order_value = EXCLUDED.average_order_value,
		first_purchase_date = EXCLUDED.first_purchase_date,
		last_purchase_date = EXCLUDED.last_purchase_date,
		last_purchase_amount = EXCLUDED.last_purchase_amount,
		payment_method = EXCLUDED.payment_method,
		shipping_state = EXCLUDED.shipping_state,
		purchase_categories = EXCLUDED.purchase_categories,
		updated_at = NOW()
	RETURNING updated_at
	`

	return r.pool.QueryRow(ctx, query,
		profile.CustomerID,
		profile.CustomerType,
		profile.Cohort,
		profile.TotalPurchases,
		profile.TotalSpent.String(),
		profile.AverageOrderValue.String(),
		profile.FirstPurchaseDate,
		profile.LastPurchaseDate,
		profile.LastPurchaseAmount.String(),
		profile.PaymentMethod,
		profile.ShippingState,
		profile.PurchaseCategories,
	).Scan(&profile.UpdatedAt)
}
