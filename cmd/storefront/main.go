// Command storefront is a terminal front end for the storefront client
// core: session, cart and checkout against the remote service boundary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/retailcloud/storefront-client/cart"
	"github.com/retailcloud/storefront-client/checkout"
	"github.com/retailcloud/storefront-client/internal/config"
	"github.com/retailcloud/storefront-client/internal/httpapi"
	"github.com/retailcloud/storefront-client/notify"
	"github.com/retailcloud/storefront-client/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	app, err := buildApp(c, logger)
	if err != nil {
		return err
	}

	if len(os.Args) < 2 {
		usage()
		return nil
	}
	return app.dispatch(context.Background(), os.Args[1], os.Args[2:])
}

type app struct {
	cfg          config.Config
	store        *session.Store
	cartState    *cart.State
	orchestrator *checkout.Orchestrator
}

func buildApp(c config.Config, logger zerolog.Logger) (*app, error) {
	api := httpapi.NewClient(c.GetAPIBaseURL(), logger, httpapi.WithTimeout(c.GetRequestTimeout()))
	notifier := notify.NewClient(api, logger)

	storage, err := session.NewFileStorage(filepath.Join(c.GetDataFolder(), "credentials.json"))
	if err != nil {
		return nil, err
	}

	store, err := session.NewStore(session.NewClient(api), storage, logger, session.WithNotifier(notifier))
	if err != nil {
		return nil, err
	}
	store.RestoreFromStorage()

	cartState, err := cart.NewState(cart.NewClient(api), logger)
	if err != nil {
		return nil, err
	}

	orchestrator, err := checkout.NewOrchestrator(
		checkout.NewOrdersClient(api),
		checkout.NewPaymentClient(api),
		store,
		logger,
		checkout.WithCart(cartState),
		checkout.WithNotifier(notifier),
		checkout.WithFallbackEmail(c.GetFallbackEmail()),
		checkout.WithDefaultUserID(c.GetDemoUserID()),
	)
	if err != nil {
		return nil, err
	}

	return &app{cfg: c, store: store, cartState: cartState, orchestrator: orchestrator}, nil
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	userID := a.cfg.GetDemoUserID()

	switch command {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		_ = fs.Parse(args)

		identity, err := a.store.Login(ctx, *email, *password)
		if err != nil {
			return errors.New(httpapi.UserMessage(err, "login failed"))
		}
		fmt.Printf("Logged in as %s\n", identity.Email)
		return nil

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		_ = fs.Parse(args)

		outcome, err := a.store.Register(ctx, *email, *password)
		if err != nil {
			return errors.New(httpapi.UserMessage(err, "registration failed"))
		}
		if outcome.UserConfirmed {
			fmt.Println("Registered. You can log in now.")
		} else {
			fmt.Println("Registered. Check your email for a confirmation code, then run: storefront confirm")
		}
		return nil

	case "confirm":
		fs := flag.NewFlagSet("confirm", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		code := fs.String("code", "", "confirmation code")
		_ = fs.Parse(args)

		if err := a.store.Confirm(ctx, *email, *code); err != nil {
			return errors.New(httpapi.UserMessage(err, "confirmation failed"))
		}
		fmt.Println("Email confirmed.")
		return nil

	case "logout":
		a.store.Logout(ctx)
		fmt.Println("Logged out.")
		return nil

	case "status":
		if identity := a.store.CurrentUser(); identity != nil {
			fmt.Printf("Logged in as %s (sub %s)\n", identity.Email, identity.SubjectID)
		} else {
			fmt.Println("Not logged in.")
		}
		return nil

	case "cart":
		if err := a.cartState.Load(ctx, userID); err != nil {
			return errors.New(httpapi.UserMessage(err, "could not load cart"))
		}
		for _, line := range a.cartState.Lines() {
			fmt.Printf("  %-20s x%-3d $%.2f\n", line.ProductID, line.Quantity, line.Subtotal())
		}
		fmt.Printf("Items: %d  Total: $%.2f\n", a.cartState.ItemCount().Get(), a.cartState.Total())
		return nil

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		product := fs.String("product", "", "product id")
		qty := fs.Int("qty", 1, "quantity")
		price := fs.Float64("price", 0, "unit price")
		_ = fs.Parse(args)

		if err := a.cartState.AddItem(ctx, *product, *qty, *price, userID); err != nil {
			return errors.New(httpapi.UserMessage(err, "could not add item"))
		}
		fmt.Printf("Added. Cart now holds %d item(s).\n", a.cartState.ItemCount().Get())
		return nil

	case "remove":
		fs := flag.NewFlagSet("remove", flag.ExitOnError)
		product := fs.String("product", "", "product id")
		_ = fs.Parse(args)

		if err := a.cartState.RemoveItem(ctx, *product, userID); err != nil {
			return errors.New(httpapi.UserMessage(err, "could not remove item"))
		}
		fmt.Println("Removed.")
		return nil

	case "checkout":
		order, err := a.orchestrator.Checkout(ctx, userID)
		if err != nil {
			if errors.Is(err, checkout.AuthRequiredErr) {
				return errors.New("please log in before checking out")
			}
			return errors.New(httpapi.UserMessage(err, "checkout failed"))
		}
		fmt.Printf("Order %s created (total $%.2f). Run: storefront pay -order %s\n", order.OrderID, order.TotalAmount, order.OrderID)
		return nil

	case "pay":
		fs := flag.NewFlagSet("pay", flag.ExitOnError)
		orderID := fs.String("order", "", "order id")
		_ = fs.Parse(args)

		if _, err := a.orchestrator.LoadOrder(ctx, *orderID); err != nil {
			return errors.New(httpapi.UserMessage(err, "order not found"))
		}
		result, err := a.orchestrator.Pay(ctx, *orderID)
		if err != nil {
			return errors.New(httpapi.UserMessage(err, "payment failed"))
		}
		fmt.Printf("Payment settled for order %s (%s).\n", *orderID, result.OrderUpdate.Status)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Println("Usage: storefront <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register -email E -password P   create an account")
	fmt.Println("  confirm  -email E -code C       confirm a new account")
	fmt.Println("  login    -email E -password P   log in")
	fmt.Println("  logout                          log out")
	fmt.Println("  status                          show session state")
	fmt.Println("  cart                            show the cart")
	fmt.Println("  add      -product P -qty N -price X")
	fmt.Println("  remove   -product P")
	fmt.Println("  checkout                        create an order from the cart")
	fmt.Println("  pay      -order O               settle an order")
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
