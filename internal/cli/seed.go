package cli

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"storefront/internal/domain/model"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

const bcryptCost = 12

type SeedOptions struct {
	*RootOptions
	File string
}

// seed用の商品一覧
type seedCatalog struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Image       string `yaml:"image"`
	Stock       int64  `yaml:"stock"`
}

// NewSeedCommand はスキーマ作成・初期管理者・見本商品をまとめて入れる
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Create tables, the default admin and sample products",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "YAML catalog (defaults to the built-in sample sarees)")
	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	ctx := cmd.Context()

	data := defaultCatalog
	if opts.File != "" {
		b, err := os.ReadFile(opts.File)
		if err != nil {
			return err
		}
		data = b
	}
	products, err := parseCatalog(data)
	if err != nil {
		return err
	}

	a, err := bootstrap(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.migrateSchema(); err != nil {
		return err
	}

	//初期管理者（管理者がいなければ）
	createAdmin := auth.NewCreateAdminUsecase(infraRepo.NewUserGormRepository(a.db), auth.NewBcryptPasswordHasher(bcryptCost))
	created, err := createAdmin.EnsureDefault(ctx)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Admin created: %s\n", auth.DefaultAdminUsername)
	}

	imageBase := ""
	if a.cfg.Storage.Backend == "local" {
		imageBase = a.cfg.Storage.PublicBaseURL + uploadURLPath
	}
	n, err := seedProducts(ctx, infraRepo.NewProductGormRepository(a.db), products, imageBase)
	if err != nil {
		return err
	}
	if n > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Sample products added")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "DB initialized")
	return nil
}

// parseCatalog はYAMLを商品にする。slugが無ければ名前から作る
func parseCatalog(data []byte) ([]model.Product, error) {
	var c seedCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	out := make([]model.Product, 0, len(c.Products))
	for i, sp := range c.Products {
		name := strings.TrimSpace(sp.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog product #%d: name is required", i+1)
		}
		price, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog product %q: invalid price %q", name, sp.Price)
		}
		if price.IsNegative() || sp.Stock < 0 {
			return nil, fmt.Errorf("catalog product %q: price and stock must be >= 0", name)
		}

		slug := sp.Slug
		if slug == "" {
			slug = usecase.Slugify(name)
		}

		p := model.Product{
			Name:        name,
			Slug:        slug,
			Description: sp.Description,
			Price:       price.Round(2),
			Stock:       sp.Stock,
		}
		if sp.Image != "" {
			img := sp.Image
			p.Image = &img
		}
		out = append(out, p)
	}
	return out, nil
}

// seedProducts は商品が1件も無いときだけ入れる。入れた件数を返す。
// imageBaseがあれば画像名の前に付けてURLにする
func seedProducts(ctx context.Context, products repo.ProductRepository, catalog []model.Product, imageBase string) (int, error) {
	existing, err := products.List(ctx, "")
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, p := range catalog {
		if p.Image != nil && imageBase != "" {
			url := imageBase + "/" + *p.Image
			p.Image = &url
		}
		if _, err := products.Create(ctx, p); err != nil {
			return 0, fmt.Errorf("seed %q: %w", p.Slug, err)
		}
	}
	return len(catalog), nil
}
