package main

import (
	"context"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"shopmate/internal/audit"
	"shopmate/internal/dto"
	"shopmate/internal/ident"
	"shopmate/internal/infra"
	"shopmate/internal/router"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedClean     bool
	seedProducts  int
	seedCustomers int
	seedOrders    int
	seedRandSeed  uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with sample catalog, customer and order data",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedClean, "clean", false, "delete existing store data first")
	seedCmd.Flags().IntVar(&seedProducts, "products", 30, "number of products to create")
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 10, "number of customers to create")
	seedCmd.Flags().IntVar(&seedOrders, "orders", 200, "number of orders to create")
	seedCmd.Flags().Uint64Var(&seedRandSeed, "rand-seed", 0, "random seed (0 picks one from the clock)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := audit.WithActor(cmd.Context(), "seed")

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	if err := infra.RunMigrations(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	if seedClean {
		if err := cleanStore(db); err != nil {
			return err
		}
		log.Info().Msg("seed: existing data removed")
	}

	if seedRandSeed == 0 {
		seedRandSeed = uint64(time.Now().UnixNano())
	}
	s := &seeder{
		svc:   router.NewServices(cfg, db, rdb),
		rnd:   rand.New(rand.NewPCG(seedRandSeed, seedRandSeed)),
		clean: seedClean,
	}
	if err := s.run(ctx); err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Uint64("rand_seed", seedRandSeed).Msg("seed: completed")
	return nil
}

// cleanStore removes every store row, dependents first, and resets the
// identifier counters so numbering restarts at 1.
func cleanStore(db *gorm.DB) error {
	tables := []string{
		"invoices", "orders", "product_attribute_links", "products", "brands",
		"manufacturers", "product_attributes", "customers", "order_statuses",
		"id_counters",
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, t := range tables {
			if err := tx.Exec("DELETE FROM " + t).Error; err != nil {
				return fmt.Errorf("clean %s: %w", t, err)
			}
		}
		return nil
	})
}

type seeder struct {
	svc   *router.Services
	rnd   *rand.Rand
	clean bool // counters were reset, numbering starts at 1

	attributes map[string][]string // key -> attribute ids
	brandIDs   []string
	skus       []string
	customers  []string
	statusIDs  []string
}

var (
	seedManufacturers = map[string][]string{
		"Threadworks":   {"CuperSool", "ChillLife"},
		"Northwind Mfg": {"Ironic", "NewWorld"},
	}
	seedAttributes = map[string][]string{
		"size":  {"small", "medium", "large"},
		"color": {"blue", "green", "red", "purple", "black", "white"},
		"style": {"formal", "casual", "retro", "business"},
	}
	seedItems      = []string{"shirt", "jacket", "hat", "sweater", "pants", "dress", "scarf", "skirt", "vest"}
	seedStatuses   = []string{"created", "processing", "shipped", "cancelled", "hold"}
	seedFirstNames = []string{
		"Alan", "Amber", "Brandon", "Barbara", "Charlie", "Candice", "Dan", "Diane",
		"Edward", "Elena", "Grant", "Gale", "Henry", "Heather", "Ian", "Ingrid",
		"Jack", "Jill", "Kim", "Ken", "Larry", "Lisa", "Mark", "Margret",
		"Nate", "Nancy", "Peter", "Patricia", "Walter", "Wilma",
	}
	seedLastNames = []string{
		"Smith", "Jones", "Kim", "Martin", "Black", "Yee", "House",
		"Johnson", "Williams", "Brown", "Garcia", "Miller", "Davis",
	}
	seedDomains = []string{"blah.nat", "bork.io", "totallynotfake.nope", "working.bug", "foo.bar"}
)

func (s *seeder) run(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"attributes", s.createAttributes},
		{"catalog", s.createCatalog},
		{"products", s.createProducts},
		{"customers", s.createCustomers},
		{"statuses", s.createStatuses},
		{"orders", s.createOrders},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
	}
	return nil
}

func pick[T any](r *rand.Rand, xs []T) T { return xs[r.IntN(len(xs))] }

// expectNext checks, on a clean run, that the store assigned the identifier
// following the n entities of kind k seeded so far. A mismatch means another
// writer is creating rows while the seed runs.
func (s *seeder) expectNext(k ident.Kind, n int, got string) error {
	if !s.clean {
		return nil
	}
	if want := ident.FromCount(k, int64(n)); got != want {
		return fmt.Errorf("%s numbering: got %s, want %s", k, got, want)
	}
	return nil
}

func (s *seeder) createAttributes(ctx context.Context) error {
	s.attributes = make(map[string][]string, len(seedAttributes))
	for _, key := range slices.Sorted(maps.Keys(seedAttributes)) {
		for _, v := range seedAttributes[key] {
			value := v
			a, err := s.svc.Attributes.Create(ctx, dto.CreateAttributeRequest{Key: key, Value: &value})
			if err != nil {
				return err
			}
			s.attributes[key] = append(s.attributes[key], a.ID.String())
		}
	}
	return nil
}

func (s *seeder) createCatalog(ctx context.Context) error {
	for _, name := range slices.Sorted(maps.Keys(seedManufacturers)) {
		m, err := s.svc.Manufacturers.Create(ctx, dto.CreateManufacturerRequest{Name: name})
		if err != nil {
			return err
		}
		for _, b := range seedManufacturers[name] {
			br, err := s.svc.Brands.Create(ctx, dto.CreateBrandRequest{Name: b, ManufacturerID: m.ID.String()})
			if err != nil {
				return err
			}
			s.brandIDs = append(s.brandIDs, br.ID.String())
		}
	}
	log.Info().Int("brands", len(s.brandIDs)).Msg("seed: catalog created")
	return nil
}

func (s *seeder) createProducts(ctx context.Context) error {
	for range seedProducts {
		color := s.rnd.IntN(len(seedAttributes["color"]))
		size := s.rnd.IntN(len(seedAttributes["size"]))
		desc := fmt.Sprintf("%s; %s; size %s", pick(s.rnd, seedItems), seedAttributes["color"][color], seedAttributes["size"][size])
		p, err := s.svc.Products.Create(ctx, dto.CreateProductRequest{
			BrandID:     pick(s.rnd, s.brandIDs),
			Description: &desc,
			AttributeIDs: []string{
				s.attributes["color"][color],
				s.attributes["size"][size],
				pick(s.rnd, s.attributes["style"]),
			},
		})
		if err != nil {
			return err
		}
		if err := s.expectNext(ident.Product, len(s.skus), p.SKU); err != nil {
			return err
		}
		s.skus = append(s.skus, p.SKU)
	}
	log.Info().Int("products", len(s.skus)).Msg("seed: products created")
	return nil
}

func (s *seeder) createCustomers(ctx context.Context) error {
	for range seedCustomers {
		first, last := pick(s.rnd, seedFirstNames), pick(s.rnd, seedLastNames)
		local := pick(s.rnd, []string{
			first + "." + last,
			first[:1] + last,
			last + "_" + first[:1],
			first + last[:1],
		})
		email := strings.ToLower(local) + "@" + pick(s.rnd, seedDomains)
		c, err := s.svc.Customers.Create(ctx, dto.CreateCustomerRequest{FirstName: first, LastName: last, Email: &email})
		if err != nil {
			return err
		}
		if err := s.expectNext(ident.Customer, len(s.customers), c.CustomerID); err != nil {
			return err
		}
		s.customers = append(s.customers, c.CustomerID)
	}
	log.Info().Int("customers", len(s.customers)).Msg("seed: customers created")
	return nil
}

func (s *seeder) createStatuses(ctx context.Context) error {
	for _, name := range seedStatuses {
		st, err := s.svc.Statuses.Create(ctx, dto.CreateOrderStatusRequest{Name: name})
		if err != nil {
			return err
		}
		s.statusIDs = append(s.statusIDs, st.ID.String())
	}
	return nil
}

func (s *seeder) createOrders(ctx context.Context) error {
	for n := range seedOrders {
		items := make([]dto.OrderItemRequest, 1+s.rnd.IntN(4))
		for i := range items {
			items[i] = dto.OrderItemRequest{SKU: pick(s.rnd, s.skus), Qty: 1}
		}
		o, err := s.svc.Orders.Create(ctx, dto.CreateOrderRequest{
			CustomerID: pick(s.rnd, s.customers),
			StatusID:   pick(s.rnd, s.statusIDs),
			Items:      items,
		})
		if err != nil {
			return err
		}
		if err := s.expectNext(ident.Order, n, o.OrderID); err != nil {
			return err
		}
	}
	log.Info().Int("orders", seedOrders).Msg("seed: orders created")
	return nil
}
