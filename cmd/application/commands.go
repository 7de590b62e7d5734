package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"catalog_browser/config"
	"catalog_browser/internal/catalog/app"
	"catalog_browser/internal/catalog/clients"
	"catalog_browser/internal/catalog/filters"
	"catalog_browser/internal/catalog/models"
	"catalog_browser/internal/catalog/render"
	"catalog_browser/internal/catalog/results"
	"catalog_browser/internal/catalog/session"
)

type rootFlags struct {
	configPath string
	envFiles   []string
	page       int
	verbose    bool
}

// runner открывает браузер, выполняет действие и закрывает всё за собой.
type runner struct {
	flags  *rootFlags
	stdout io.Writer
	stderr io.Writer
}

func (r *runner) with(ctx context.Context, fn func(ctx context.Context, b *app.Browser) error) error {
	if err := config.LoadDotEnv(r.flags.envFiles...); err != nil {
		return errors.Wrap(err, "load .env")
	}
	cfg, err := config.LoadConfig(r.flags.configPath)
	if err != nil {
		return err
	}

	b := app.NewBrowser(cfg, io.Discard)
	b.Verbose = r.flags.verbose
	if err := b.Start(ctx); err != nil {
		return err
	}
	defer b.Close()
	return fn(ctx, b)
}

// bootstrapped runs the bootstrap sequence first; a failure is reported and ends the command.
func (r *runner) bootstrapped(ctx context.Context, fn func(ctx context.Context, s *session.Session) error) error {
	return r.with(ctx, func(ctx context.Context, b *app.Browser) error {
		if b.History != nil {
			fmt.Fprintf(r.stderr, "session %s\n", b.Session.ID)
		}
		if err := b.Session.Bootstrap(ctx); err != nil {
			return errors.Wrap(err, "catalog unavailable")
		}
		return fn(ctx, b.Session)
	})
}

func (r *runner) showResults(s *session.Session) error {
	rs := s.ChangePage(r.flags.page)
	return render.Results(r.stdout, rs)
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	r := &runner{flags: flags, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Browse the product catalog from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to config.yaml")
	root.PersistentFlags().StringSliceVar(&flags.envFiles, "env", []string{".env"}, "Dotenv files to load")
	root.PersistentFlags().IntVarP(&flags.page, "page", "p", 1, "Page of results to show")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log requests and session events to stderr")

	root.AddCommand(
		newBrowseCommand(r),
		newSearchCommand(r),
		newFilterCommand(r),
		newQuickCommand(r),
		newOptionsCommand(r),
		newProductCommand(r),
		newPopularCommand(r),
		newRecommendCommand(r),
		newListCommand(r),
		newHistoryCommand(r),
	)
	return root
}

func newBrowseCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Load the catalog and show the first batch of products.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.bootstrapped(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				if err := render.Counts(r.stdout, s.Counts()); err != nil {
					return err
				}
				return r.showResults(s)
			})
		},
	}
}

func newSearchCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Quick search by free text.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.bootstrapped(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				if err := s.Search(ctx, strings.Join(args, " ")); err != nil {
					return err
				}
				return r.showResults(s)
			})
		},
	}
}

type filterFlags struct {
	brands        []string
	categories    []string
	subCategories []string
	skinTypes     []string
	minPrice      string
	maxPrice      string
	sort          string
}

func (f filterFlags) selections() map[models.Dimension][]string {
	return map[models.Dimension][]string{
		models.DimensionBrand:       f.brands,
		models.DimensionCategory:    f.categories,
		models.DimensionSubCategory: f.subCategories,
		models.DimensionSkinType:    f.skinTypes,
	}
}

func parseBound(raw string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.NullDecimal{}, errors.Wrapf(err, "price %q", raw)
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, errors.Errorf("price %q must not be negative", raw)
	}
	return decimal.NewNullDecimal(d), nil
}

// apply переносит флаги в хранилище фильтров до загрузки каталога, чтобы
// глобальный диапазон цен заполнял только не заданные границы.
func (f filterFlags) apply(store *filters.Store) error {
	for d, values := range f.selections() {
		for _, v := range values {
			if err := store.Toggle(d, v); err != nil {
				return err
			}
		}
	}
	minPrice, err := parseBound(f.minPrice)
	if err != nil {
		return err
	}
	maxPrice, err := parseBound(f.maxPrice)
	if err != nil {
		return err
	}
	store.SetPriceBound(filters.BoundMin, minPrice)
	store.SetPriceBound(filters.BoundMax, maxPrice)
	store.SetSort(f.sort)
	return nil
}

func newFilterCommand(r *runner) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter by brand, category, skin type and price.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd.Context(), func(ctx context.Context, b *app.Browser) error {
				s := b.Session
				if err := f.apply(s.Filters()); err != nil {
					return err
				}
				if err := s.Bootstrap(ctx); err != nil {
					return errors.Wrap(err, "catalog unavailable")
				}
				if err := s.Apply(ctx); err != nil {
					return err
				}
				return r.showResults(s)
			})
		},
	}
	cmd.Flags().StringSliceVar(&f.brands, "brand", nil, "Brand (repeatable)")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "Top-level category (repeatable)")
	cmd.Flags().StringSliceVar(&f.subCategories, "sub-category", nil, "Sub-category (repeatable)")
	cmd.Flags().StringSliceVar(&f.skinTypes, "skin-type", nil, "Skin type (repeatable)")
	cmd.Flags().StringVar(&f.minPrice, "min-price", "", "Lower price bound")
	cmd.Flags().StringVar(&f.maxPrice, "max-price", "", "Upper price bound")
	cmd.Flags().StringVar(&f.sort, "sort", filters.DefaultSort, "Sort key: "+strings.Join(filters.SortKeys, ", "))
	return cmd
}

func parseDimension(raw string) (models.Dimension, error) {
	d, ok := models.ParseDimension(raw)
	if !ok {
		return "", errors.Wrapf(filters.ErrUnknownDimension, "%q", raw)
	}
	return d, nil
}

func newQuickCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "quick <dimension> <value>",
		Short: "Show products for a single option without changing the selection.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDimension(args[0])
			if err != nil {
				return err
			}
			return r.bootstrapped(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				if err := s.QuickFilter(ctx, d, args[1]); err != nil {
					return err
				}
				return r.showResults(s)
			})
		},
	}
}

func newOptionsCommand(r *runner) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "options [dimension]",
		Short: "List filter options of a dimension.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dims := models.Dimensions
			if len(args) == 1 {
				d, err := parseDimension(args[0])
				if err != nil {
					return err
				}
				dims = []models.Dimension{d}
			}
			return r.bootstrapped(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				for _, d := range dims {
					if err := s.SetActiveDimension(d); err != nil {
						return err
					}
					if err := render.Options(r.stdout, s.OptionPreview(limit)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Options to show per dimension, 0 for all")
	return cmd
}

func newProductCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show a single product.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd.Context(), func(ctx context.Context, b *app.Browser) error {
				p, err := b.Client.ProductByID(ctx, args[0])
				if err != nil {
					return err
				}
				return render.Product(r.stdout, p)
			})
		},
	}
}

func newPopularCommand(r *runner) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Show popular products.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd.Context(), func(ctx context.Context, b *app.Browser) error {
				batch, err := b.Client.Popular(ctx, limit)
				if err != nil {
					return err
				}
				rs := results.New(batch.Products, b.Session.Results().PageSize()).ChangePage(r.flags.page)
				return render.Results(r.stdout, rs)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of products")
	return cmd
}

func newRecommendCommand(r *runner) *cobra.Command {
	var req clients.RecommendationRequest
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Ask the service for recommendations.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd.Context(), func(ctx context.Context, b *app.Browser) error {
				batch, err := b.Client.Recommendations(ctx, req)
				if err != nil {
					return err
				}
				rs := results.New(batch.Products, b.Session.Results().PageSize()).ChangePage(r.flags.page)
				return render.Results(r.stdout, rs)
			})
		},
	}
	cmd.Flags().StringVar(&req.ProductID, "product", "", "Recommend products similar to this id")
	cmd.Flags().StringVar(&req.Category, "category", "", "Category")
	cmd.Flags().StringVar(&req.SkinType, "skin-type", "", "Skin type")
	cmd.Flags().StringSliceVar(&req.Brands, "brand", nil, "Preferred brand (repeatable)")
	cmd.Flags().IntVar(&req.Limit, "limit", 10, "Number of products")
	return cmd
}

func newListCommand(r *runner) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:       "list <categories|sub-categories|brands>",
		Short:     "List categories, sub-categories or brands known to the service.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"categories", "sub-categories", "brands"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd.Context(), func(ctx context.Context, b *app.Browser) error {
				var (
					values []string
					title  string
					err    error
				)
				switch args[0] {
				case "categories":
					title = models.DimensionCategory.Title()
					values, err = b.Client.Categories(ctx)
				case "sub-categories":
					title = models.DimensionSubCategory.Title()
					values, err = b.Client.SubCategories(ctx, category)
				case "brands":
					title = models.DimensionBrand.Title()
					values, err = b.Client.Brands(ctx)
				default:
					return errors.Errorf("unknown list %q", args[0])
				}
				if err != nil {
					return err
				}
				return render.Labels(r.stdout, title, values)
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only sub-categories of this category")
	return cmd
}

func newHistoryCommand(r *runner) *cobra.Command {
	var (
		sessionID string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "history --session <id>",
		Short: "Show the query log of a session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd.Context(), func(ctx context.Context, b *app.Browser) error {
				if b.History == nil {
					return errors.New("query log is disabled, set query_log.driver")
				}
				records, err := b.History.Recent(ctx, sessionID, limit)
				if err != nil {
					return err
				}
				return render.History(r.stdout, records)
			})
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "Session id")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of records")
	cmd.MarkFlagRequired("session")
	return cmd
}
