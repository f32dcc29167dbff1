package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fmeinberg/kontor/internal/cli"
	"github.com/fmeinberg/kontor/internal/model"
	"github.com/fmeinberg/kontor/internal/tax"
)

func assetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage fixed assets and their depreciation schedules",
	}

	cmd.AddCommand(assetsAddCmd())
	cmd.AddCommand(assetsUpdateCmd())
	cmd.AddCommand(assetsListCmd())
	cmd.AddCommand(assetsShowCmd())
	cmd.AddCommand(assetsDisposeCmd())
	cmd.AddCommand(assetsDeleteCmd())

	return cmd
}

func assetsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an asset and compute its depreciation schedule",
		Long: `Add a purchased asset. Without an explicit --method, assets at or
below the GWG threshold are written off immediately; everything else
depreciates linearly over the useful life (defaulted from the AfA table
for the category when --years is omitted).

Example:
  kontor assets add "ThinkPad X1" --price 2400 --date 2024-06-15 --category computer`,
		Args: cobra.ExactArgs(1),
		RunE: runAssetsAdd,
	}

	cmd.Flags().Float64("price", 0, "net purchase price in EUR (required)")
	cmd.Flags().Float64("vat", 0, "VAT paid on purchase in EUR")
	cmd.Flags().String("date", "", "purchase date YYYY-MM-DD (required)")
	cmd.Flags().String("category", "equipment", "asset category (computer, phone, furniture, equipment, software)")
	cmd.Flags().String("method", "", "depreciation method (linear, immediate); resolved from the GWG rule when omitted")
	cmd.Flags().Int("years", 0, "useful life in years; defaulted from the AfA table when omitted")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func runAssetsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	price, _ := cmd.Flags().GetFloat64("price")
	vat, _ := cmd.Flags().GetFloat64("vat")
	dateStr, _ := cmd.Flags().GetString("date")
	category, _ := cmd.Flags().GetString("category")
	method, _ := cmd.Flags().GetString("method")
	years, _ := cmd.Flags().GetInt("years")

	date, err := parseDate(dateStr)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	cfg := taxConfig()

	asset := model.Asset{
		Name:          args[0],
		Category:      model.AssetCategory(category),
		PurchasePrice: price,
		VATPaid:       vat,
		PurchaseDate:  date,
		Status:        model.AssetActive,
	}

	asset.Method = cfg.ResolveMethod(price, model.AfaMethod(method))
	switch {
	case asset.Method == model.MethodImmediate:
		asset.UsefulLifeYears = 1
	case years > 0:
		asset.UsefulLifeYears = years
	default:
		asset.UsefulLifeYears = cfg.DefaultUsefulLife(asset.Category)
		if asset.UsefulLifeYears == 0 {
			return fmt.Errorf("unknown category %q: --years is required", category)
		}
	}

	if err := store.CreateAsset(ctx, &asset); err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	taxService := tax.NewService(store, cfg)
	entries, err := taxService.RegenerateSchedule(ctx, asset.ID)
	if err != nil {
		return err
	}

	slog.Info("Asset created",
		"id", asset.ID,
		"method", asset.Method,
		"useful_life_years", asset.UsefulLifeYears)
	fmt.Print(cli.RenderSchedule(&asset, entries))

	return nil
}

func assetsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an asset and regenerate its depreciation schedule",
		Long: `Edit an asset's purchase data. Any change to price, date, category,
useful life, or method replaces the whole depreciation schedule; there
is no incremental patching of entries. When the price changes without
an explicit --method, the GWG rule is re-applied.`,
		Args: cobra.ExactArgs(1),
		RunE: runAssetsUpdate,
	}

	cmd.Flags().String("name", "", "new asset name")
	cmd.Flags().Float64("price", 0, "new net purchase price in EUR")
	cmd.Flags().Float64("vat", 0, "new VAT paid on purchase in EUR")
	cmd.Flags().String("date", "", "new purchase date YYYY-MM-DD")
	cmd.Flags().String("category", "", "new asset category")
	cmd.Flags().String("method", "", "depreciation method (linear, immediate)")
	cmd.Flags().Int("years", 0, "new useful life in years")

	return cmd
}

func runAssetsUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	asset, err := store.GetAsset(ctx, id)
	if err != nil {
		return err
	}
	if asset.IsDisposed() {
		return fmt.Errorf("asset %d is already %s", id, asset.Status)
	}

	if cmd.Flags().Changed("name") {
		asset.Name, _ = cmd.Flags().GetString("name")
	}
	if cmd.Flags().Changed("price") {
		asset.PurchasePrice, _ = cmd.Flags().GetFloat64("price")
	}
	if cmd.Flags().Changed("vat") {
		asset.VATPaid, _ = cmd.Flags().GetFloat64("vat")
	}
	if cmd.Flags().Changed("date") {
		dateStr, _ := cmd.Flags().GetString("date")
		date, dateErr := parseDate(dateStr)
		if dateErr != nil {
			return dateErr
		}
		asset.PurchaseDate = date
	}
	if cmd.Flags().Changed("category") {
		category, _ := cmd.Flags().GetString("category")
		asset.Category = model.AssetCategory(category)
	}

	cfg := taxConfig()

	if cmd.Flags().Changed("method") || cmd.Flags().Changed("price") {
		method, _ := cmd.Flags().GetString("method")
		asset.Method = cfg.ResolveMethod(asset.PurchasePrice, model.AfaMethod(method))
		if asset.Method == model.MethodImmediate {
			asset.UsefulLifeYears = 1
		}
	}
	if cmd.Flags().Changed("years") {
		asset.UsefulLifeYears, _ = cmd.Flags().GetInt("years")
	}
	if asset.Method == model.MethodLinear && asset.UsefulLifeYears < 1 {
		asset.UsefulLifeYears = cfg.DefaultUsefulLife(asset.Category)
		if asset.UsefulLifeYears == 0 {
			return fmt.Errorf("unknown category %q: --years is required", asset.Category)
		}
	}

	taxService := tax.NewService(store, cfg)
	entries, err := taxService.UpdateAsset(ctx, asset)
	if err != nil {
		return err
	}

	slog.Info("Asset updated",
		"id", asset.ID,
		"method", asset.Method,
		"useful_life_years", asset.UsefulLifeYears)
	fmt.Print(cli.RenderSchedule(asset, entries))

	return nil
}

func assetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all assets with their current book values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			assets, err := store.ListAssets(ctx)
			if err != nil {
				return err
			}
			if len(assets) == 0 {
				fmt.Println("No assets recorded.")
				return nil
			}

			year := currentYear()
			for _, asset := range assets {
				entries, entriesErr := store.GetDepreciationEntries(ctx, asset.ID)
				if entriesErr != nil {
					return entriesErr
				}
				book := tax.BookValueAt(asset, entries, year)
				fmt.Printf("%4d  %-30s %-10s %-9s %12s  book %12s\n",
					asset.ID, asset.Name, asset.Category, asset.Status,
					cli.Euro(asset.PurchasePrice), cli.Euro(book))
			}

			return nil
		},
	}
}

func assetsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an asset's depreciation schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			asset, err := store.GetAsset(ctx, id)
			if err != nil {
				return err
			}
			entries, err := store.GetDepreciationEntries(ctx, id)
			if err != nil {
				return err
			}

			fmt.Print(cli.RenderSchedule(asset, entries))

			if asset.IsDisposed() {
				if gainLoss, ok := tax.DisposalResult(*asset, entries); ok {
					label := "Disposal gain"
					if gainLoss < 0 {
						label = "Disposal loss"
						gainLoss = -gainLoss
					}
					fmt.Printf("%s: %s\n", label, cli.Euro(gainLoss))
				}
			}

			return nil
		},
	}
}

func assetsDisposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispose <id>",
		Short: "Dispose of or sell an asset",
		Long: `Mark an asset as disposed. With --price the asset counts as sold and
realizes a gain or loss against its book value; without it the whole
remaining book value becomes a disposal loss.`,
		Args: cobra.ExactArgs(1),
		RunE: runAssetsDispose,
	}

	cmd.Flags().String("date", "", "disposal date YYYY-MM-DD (required)")
	cmd.Flags().Float64("price", -1, "sale price in EUR; omit for disposal without sale")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func runAssetsDispose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	dateStr, _ := cmd.Flags().GetString("date")
	price, _ := cmd.Flags().GetFloat64("price")

	date, err := parseDate(dateStr)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	asset, err := store.GetAsset(ctx, id)
	if err != nil {
		return err
	}
	if asset.IsDisposed() {
		return fmt.Errorf("asset %d is already %s", id, asset.Status)
	}

	asset.DisposalDate = &date
	if price >= 0 {
		asset.Status = model.AssetSold
		asset.DisposalPrice = &price
	} else {
		asset.Status = model.AssetDisposed
	}

	if err := store.UpdateAsset(ctx, asset); err != nil {
		return err
	}

	entries, err := store.GetDepreciationEntries(ctx, id)
	if err != nil {
		return err
	}
	if gainLoss, ok := tax.DisposalResult(*asset, entries); ok {
		slog.Info("Asset disposed",
			"id", id,
			"status", asset.Status,
			"gain_loss", gainLoss)
	}

	return nil
}

func assetsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an asset and its depreciation entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteAsset(ctx, id); err != nil {
				return err
			}

			slog.Info("Asset deleted", "id", id)
			return nil
		},
	}
}
