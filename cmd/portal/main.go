package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"snackhub/internal/budget"
	"snackhub/internal/cache"
	"snackhub/internal/cart"
	"snackhub/internal/category"
	"snackhub/internal/config"
	"snackhub/internal/favorite"
	"snackhub/internal/logger"
	"snackhub/internal/order"
	"snackhub/internal/product"
	"snackhub/internal/remote"
	"snackhub/internal/store"
)

type app struct {
	orders    order.Service
	budgets   budget.Service
	products  product.Service
	carts     cart.Service
	favorites favorite.Service
	selection *store.SelectionStore
	toasts    *store.ToastStore
}

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	api, err := remote.NewClient(cfg.APIBaseURL, remote.WithRate(cfg.RequestRate, cfg.RequestBurst))
	if err != nil {
		log.Fatal(err)
	}

	cacheStore := cache.NewStore()
	for _, kind := range []string{"order", "budget", "product", "cart", "favorite"} {
		cacheStore.SetClass(kind, cache.Class{StaleAfter: cfg.StaleAfter, GCAfter: cfg.GCAfter})
	}

	ctx := context.Background()
	cacheStore.StartGC(ctx)

	orderSvc := order.NewService(order.NewRepository(api), cacheStore, budget.Key)

	a := &app{
		orders:    orderSvc,
		budgets:   budget.NewService(budget.NewRepository(api), orderSvc, cacheStore),
		products:  product.NewService(product.NewRepository(api), cacheStore),
		carts:     cart.NewService(cart.NewRepository(api), orderSvc, cacheStore),
		favorites: favorite.NewService(favorite.NewRepository(api), cacheStore),
		selection: store.NewSelectionStore(),
		toasts:    store.NewToastStore(),
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		if toast, ok := a.toasts.Consume(); ok {
			fmt.Fprintln(os.Stderr, toast.Message)
		}
		log.Fatal(err)
	}

	if toast, ok := a.toasts.Consume(); ok {
		fmt.Fprintln(os.Stderr, toast.Message)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	var err error
	switch args[0] {
	case "orders":
		err = a.runOrders(ctx, args[1:])
	case "budget":
		err = a.runBudget(ctx)
	case "products":
		err = a.runProducts(ctx, args[1:])
	case "cart":
		err = a.runCart(ctx, args[1:])
	case "favorite":
		err = a.runFavorite(ctx, args[1:])
	case "categories":
		err = printJSON(category.Roots())
	default:
		err = fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}

	// Surface the error taxonomy the way the UI would.
	switch {
	case errors.Is(err, remote.ErrConflict):
		a.toasts.Show(store.ToastError, "state out of date, please refresh")
	case errors.Is(err, remote.ErrUnauthorized):
		a.toasts.Show(store.ToastError, "session expired, please log in again")
	case errors.Is(err, remote.ErrNetwork), errors.Is(err, remote.ErrServer):
		a.toasts.Show(store.ToastError, "request failed, please try again")
	}

	return err
}

func (a *app) runOrders(ctx context.Context, args []string) error {
	if len(args) == 0 {
		orders, err := a.orders.List(ctx, nil)
		if err != nil {
			return err
		}
		return printJSON(orders)
	}

	switch args[0] {
	case "list":
		var status *order.Status
		if len(args) > 1 {
			s, err := order.ParseStatus(strings.ToUpper(args[1]))
			if err != nil {
				return err
			}
			status = &s
		}
		orders, err := a.orders.List(ctx, status)
		if err != nil {
			return err
		}
		return printJSON(orders)

	case "show":
		if len(args) < 2 {
			return errors.New("usage: portal orders show <id>")
		}
		o, err := a.orders.Detail(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(o)

	case "approve":
		id, err := order.ParseID(argAt(args, 1))
		if err != nil {
			return err
		}
		o, err := a.orders.Approve(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(o)

	case "reject":
		id, err := order.ParseID(argAt(args, 1))
		if err != nil {
			return err
		}
		o, err := a.orders.Reject(ctx, id, strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		return printJSON(o)

	case "cancel":
		id, err := order.ParseID(argAt(args, 1))
		if err != nil {
			return err
		}
		return a.orders.Cancel(ctx, id)

	default:
		return fmt.Errorf("unknown orders subcommand %q", args[0])
	}
}

func (a *app) runBudget(ctx context.Context) error {
	b, err := a.budgets.Current(ctx)
	if err != nil {
		return err
	}

	headroom, err := a.budgets.Headroom(ctx)
	if err != nil {
		return err
	}

	return printJSON(map[string]int64{
		"currentMonthBudget":  b.CurrentMonthBudget,
		"currentMonthExpense": b.CurrentMonthExpense,
		"remaining":           budget.Remaining(b),
		"headroom":            headroom,
	})
}

func (a *app) runProducts(ctx context.Context, args []string) error {
	categoryID := 0
	if len(args) > 0 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[0])
		}
		if !a.selection.Select(id) {
			return fmt.Errorf("unknown category id %d", id)
		}
		categoryID = id
	}

	products, err := a.products.List(ctx, categoryID)
	if err != nil {
		return err
	}

	if path, ok := a.selection.Current(); ok {
		fmt.Fprintf(os.Stderr, "category: %s", path.Parent)
		if path.Child != "" {
			fmt.Fprintf(os.Stderr, " > %s", path.Child)
		}
		fmt.Fprintln(os.Stderr)
	}

	return printJSON(products)
}

func (a *app) runCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		items, err := a.carts.Items(ctx)
		if err != nil {
			return err
		}
		return printJSON(items)
	}

	switch args[0] {
	case "add":
		if len(args) < 3 {
			return errors.New("usage: portal cart add <productID> <quantity>")
		}
		productID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		item, err := a.carts.Add(ctx, productID, quantity)
		if err != nil {
			return err
		}
		return printJSON(item)

	case "submit":
		o, err := a.carts.Submit(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		return printJSON(o)

	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}
}

func (a *app) runFavorite(ctx context.Context, args []string) error {
	if len(args) == 0 {
		favorites, err := a.favorites.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(favorites)
	}

	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	favorited, err := a.favorites.Toggle(ctx, productID)
	if err != nil {
		return err
	}
	return printJSON(map[string]bool{"favorited": favorited})
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

const usage = `usage: portal <command>

commands:
  orders [list [status] | show <id> | approve <id> | reject <id> <reason> | cancel <id>]
  budget
  products [categoryID]
  cart [add <productID> <quantity> | submit [message]]
  favorite [productID]
  categories`
