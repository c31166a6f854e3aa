// shopctl drives the storefront from a terminal: one local session over
// file storage and the embedded catalog, with direct clipboard copy.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"farm-shop/config"
	"farm-shop/internal/cart"
	"farm-shop/internal/catalog"
	"farm-shop/internal/order"
	"farm-shop/internal/pricing"
	"farm-shop/internal/service"
	"farm-shop/internal/storage"
	"farm-shop/internal/util"

	"github.com/spf13/cobra"
)

// localSession is the single CLI session; shopctl is one buyer on one device.
const localSession = "local"

var (
	// Global flags
	statePath string

	// catalog flags
	flagCategory string
	flagQuery    string
	flagInStock  bool

	// add flags
	flagQty int

	// order flags
	flagCopy bool

	shop *service.ShopService
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "Kttermgame storefront on the command line",
	Long: `shopctl builds a Hay Day item order without the web front end.

Browse the catalog, step quantities in batches of 5, set your Farm Tag and
compose the order text to paste into the shop's LINE OA.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := util.InitLogger("production"); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg := config.Load()

		if statePath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to resolve home directory: %w", err)
			}
			statePath = filepath.Join(home, ".farm-shop", "state.json")
		}

		kv, err := storage.NewFile(statePath)
		if err != nil {
			return fmt.Errorf("failed to open state file: %w", err)
		}

		ix, err := catalog.LoadEmbedded()
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}

		carts := cart.NewStore(kv, cfg.Shop.QtyStep, cfg.Shop.MinQty)
		shop = service.NewShopService(ix, carts, nil, order.ClipboardSink{}, cfg.Shop)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		util.SyncLogger()
	},
}

// catalogCmd lists items, filtered like the storefront grid
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List catalog items",
	RunE: func(cmd *cobra.Command, args []string) error {
		items := shop.Browse(catalog.Filter{
			Category:    flagCategory,
			Query:       flagQuery,
			InStockOnly: flagInStock,
		})

		for _, it := range items {
			stock := "  "
			if !it.InStock {
				stock = "หมด / Out of stock"
			}
			fmt.Printf("%-12s %s (%s)  [%s]  %s\n", it.ID, it.NameTH, it.Name, it.Category, stock)
		}
		fmt.Printf("%d items\n", len(items))
		return nil
	},
}

// addCmd steps an item up, or sets an explicit quantity with --qty
var addCmd = &cobra.Command{
	Use:   "add [item-id]",
	Short: "Add one batch of an item (or set --qty)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		var err error
		if cmd.Flags().Changed("qty") {
			_, err = shop.SetQuantity(ctx, localSession, args[0], flagQty)
		} else {
			_, err = shop.Increment(ctx, localSession, args[0])
		}
		if err != nil {
			return err
		}
		return printCart()
	},
}

// removeCmd steps an item down
var removeCmd = &cobra.Command{
	Use:   "remove [item-id]",
	Short: "Remove one batch of an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := shop.Decrement(context.Background(), localSession, args[0]); err != nil {
			return err
		}
		return printCart()
	},
}

// cartCmd shows the priced cart
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the cart with prices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCart()
	},
}

// clearCmd empties the cart
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		shop.ClearCart(context.Background(), localSession)
		fmt.Println("ล้างตะกร้าแล้ว")
		return nil
	},
}

// tagCmd shows or sets the farm tag
var tagCmd = &cobra.Command{
	Use:   "tag [farm-tag]",
	Short: "Show or set your Farm Tag",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if len(args) == 0 {
			tag, valid := shop.FarmTag(ctx, localSession)
			if tag == "" {
				tag = "(unset)"
			}
			fmt.Printf("Farm Tag: %s (valid: %v)\n", tag, valid)
			return nil
		}

		valid := shop.SetFarmTag(ctx, localSession, args[0])
		if !valid {
			fmt.Println("กรุณากรอก Farm Tag (ตัวอักษร/ตัวเลข) เพื่อให้ร้านเตรียมของได้")
		}
		fmt.Printf("Farm Tag: %s (valid: %v)\n", args[0], valid)
		return nil
	},
}

// orderCmd prints the composed order text
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Compose the order text (use --copy for the clipboard)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if !flagCopy {
			fmt.Println(shop.Summary(ctx, localSession).Text)
			return nil
		}

		sum, err := shop.DispatchOrder(ctx, localSession)
		fmt.Println(sum.Text)
		fmt.Println()
		if err != nil {
			fmt.Println("คัดลอกไม่สำเร็จ: อุปกรณ์บางรุ่นบล็อก — คัดลอกจากกล่องข้อความแทนได้")
			return nil
		}
		fmt.Println("คัดลอกรายการแล้ว! ไปวางใน LINE ได้เลย")
		return nil
	},
}

// contactCmd prints the LINE OA contact for manual sending
var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Show the shop's LINE OA contact",
	RunE: func(cmd *cobra.Command, args []string) error {
		ct := shop.Contact()
		fmt.Printf("%s — %s\n", ct.Brand, ct.Tagline)
		fmt.Printf("LINE OA: %s\n", ct.LineOAID)
		fmt.Printf("%s\n", ct.LineOAURL)
		return nil
	},
}

func printCart() error {
	sum := shop.Summary(context.Background(), localSession)
	if sum.Kinds == 0 {
		fmt.Println("ยังไม่มีรายการในตะกร้า")
		return nil
	}

	for _, l := range sum.Lines {
		fmt.Printf("• %s (%s) — %d ชิ้น = %s บาท\n", l.NameTH, l.Name, l.Quantity, pricing.FormatTHB(l.Price))
	}
	fmt.Printf("รวม %d รายการ • %s บาท\n", sum.Kinds, sum.TotalDisplay)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "state file path (default ~/.farm-shop/state.json)")

	catalogCmd.Flags().StringVar(&flagCategory, "category", "", "category id (farm, dairy, bakery, sugar, tools, expand)")
	catalogCmd.Flags().StringVar(&flagQuery, "q", "", "name search, Thai or English")
	catalogCmd.Flags().BoolVar(&flagInStock, "in-stock", false, "only items in stock")

	addCmd.Flags().IntVar(&flagQty, "qty", 0, "set an explicit quantity instead of stepping")

	orderCmd.Flags().BoolVar(&flagCopy, "copy", false, "copy the order text to the clipboard")

	rootCmd.AddCommand(catalogCmd, addCmd, removeCmd, cartCmd, clearCmd, tagCmd, orderCmd, contactCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
