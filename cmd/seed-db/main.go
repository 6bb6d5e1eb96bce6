// Command seed-db loads the apparel catalog from a JSON file and provisions
// an admin API key.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/threadkart/storefront/internal/domain/catalog"
	"github.com/threadkart/storefront/internal/storage/postgres"
)

type productJSON struct {
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	BestSeller  bool            `json:"bestSeller"`
	Sizes       []string        `json:"sizes"`
	PriceINR    decimal.Decimal `json:"price_inr"`
	PriceUSD    decimal.Decimal `json:"price_usd"`
	MRPINR      decimal.Decimal `json:"mrp_inr"`
	MRPUSD      decimal.Decimal `json:"mrp_usd"`
	Images      []string        `json:"images"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&apiKey, "api-key", "", "admin API key to seed (or SHOP_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or SHOP_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("SHOP_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or SHOP_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("SHOP_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	repo := postgres.NewProductRepository(pool)
	for _, pj := range products {
		p := catalog.Product{
			Slug:        pj.Slug,
			Name:        pj.Name,
			Description: pj.Description,
			Category:    pj.Category,
			BestSeller:  pj.BestSeller,
			Sizes:       pj.Sizes,
			PriceINR:    pj.PriceINR,
			PriceUSD:    pj.PriceUSD,
			MRPINR:      pj.MRPINR,
			MRPUSD:      pj.MRPUSD,
			Images:      pj.Images,
		}
		if err := repo.UpsertBySlug(ctx, &p); err != nil {
			return errors.Wrapf(err, "upsert product %q", pj.Slug)
		}
	}

	slog.Info("products seeded", slog.Int("count", len(products)))
	return nil
}

const upsertAPIKeySQL = `INSERT INTO api_keys (id, key_hash, name, active)
	VALUES ($1, $2, $3, TRUE)
	ON CONFLICT (key_hash) DO UPDATE SET active = TRUE`

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	hash := hex.EncodeToString(mac.Sum(nil))

	if _, err := pool.Exec(ctx, upsertAPIKeySQL, uuid.New().String(), hash, "seed-admin"); err != nil {
		return errors.Wrap(err, "upsert api key")
	}

	slog.Info("api key seeded")
	return nil
}
