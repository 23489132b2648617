package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/dbx"
	"github.com/dmitrijs2005/vamazon/internal/server/models"
)

// Columns selects a product joined with its category. Other repositories
// reuse it to embed product summaries; the join alias must be c.
const Columns = `p.id, p.asin, p.name, p.description, p.price::float8, p.mrp::float8,
		p.rating::float8, p.review_count, p.stock, p.image_url, p.features, p.specifications,
		p.category_id, p.created_at, c.id, c.name, c.slug`

const fromClause = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// ScanProduct reads a row selected with Columns, optionally prefixed by
// extra destinations.
func ScanProduct(row scanner, extra ...any) (*models.Product, error) {
	var (
		p       models.Product
		mrp     sql.NullFloat64
		catID   sql.NullInt64
		cID     sql.NullInt64
		cName   sql.NullString
		cSlug   sql.NullString
		targets = append(extra,
			&p.ID, &p.ASIN, &p.Name, &p.Description, &p.Price, &mrp,
			&p.Rating, &p.ReviewCount, &p.Stock, &p.ImageURL, &p.Features, &p.Specifications,
			&catID, &p.CreatedAt, &cID, &cName, &cSlug)
	)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	if mrp.Valid {
		p.MRP = &mrp.Float64
	}
	if catID.Valid {
		p.CategoryID = &catID.Int64
	}
	if cID.Valid {
		p.Category = &models.Category{ID: cID.Int64, Name: cName.String, Slug: cSlug.String}
	}
	p.Images = []models.ProductImage{}
	return &p, nil
}

// where builds the filter clause and its positional arguments.
func where(f models.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		add("(p.name ILIKE $%[1]d OR p.description ILIKE $%[1]d)", "%"+s+"%")
	}
	if f.Category != "" {
		add("c.slug = $%d", f.Category)
	}
	if f.MinPrice != nil {
		add("p.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("p.price <= $%d", *f.MaxPrice)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of matching products ordered by id, and the total
// number of matches.
func (r *PostgresRepository) List(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	cond, args := where(f)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+fromClause+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	offset := (f.Page - 1) * f.PerPage
	query := fmt.Sprintf("SELECT %s%s%s ORDER BY p.id LIMIT $%d OFFSET $%d",
		Columns, fromClause, cond, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, query, append(args, f.PerPage, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]models.Product, 0, f.PerPage)
	for rows.Next() {
		p, err := ScanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return items, total, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Product, error) {
	return r.getOne(ctx, "p.id = $1", id)
}

func (r *PostgresRepository) GetByASIN(ctx context.Context, asin string) (*models.Product, error) {
	return r.getOne(ctx, "p.asin = $1", asin)
}

func (r *PostgresRepository) getOne(ctx context.Context, cond string, arg any) (*models.Product, error) {
	query := "SELECT " + Columns + fromClause + " WHERE " + cond

	p, err := ScanProduct(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Create inserts a product. A duplicate ASIN yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	query :=
		`INSERT INTO products (asin, name, description, price, mrp, rating, review_count,
		 	stock, image_url, features, specifications, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		p.ASIN, p.Name, p.Description, p.Price, p.MRP, p.Rating, p.ReviewCount,
		p.Stock, p.ImageURL, p.Features, p.Specifications, p.CategoryID).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Images lists a product's images, primary first.
func (r *PostgresRepository) Images(ctx context.Context, productID int64) ([]models.ProductImage, error) {
	query :=
		`SELECT id, product_id, image_url, is_primary, storage_key FROM product_images
		 WHERE product_id = $1
		 ORDER BY is_primary DESC, id
		 `

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	images := []models.ProductImage{}
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.IsPrimary, &img.StorageKey); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return images, nil
}

func (r *PostgresRepository) AddImage(ctx context.Context, img *models.ProductImage) (*models.ProductImage, error) {
	query :=
		`INSERT INTO product_images (product_id, image_url, is_primary, storage_key)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, img.ProductID, img.ImageURL, img.IsPrimary, img.StorageKey).Scan(&img.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return img, nil
}

// DecrementStock takes quantity units off the product's stock. When fewer
// are left, nothing changes and common.ErrInsufficientStock is returned.
func (r *PostgresRepository) DecrementStock(ctx context.Context, id int64, quantity int) error {
	query :=
		`UPDATE products SET stock = stock - $2
		 WHERE id = $1 AND stock >= $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrInsufficientStock
	}
	return nil
}
