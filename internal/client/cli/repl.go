package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a recording stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Products(ctx context.Context, args []string) error
	Product(ctx context.Context, args []string) error
	Categories(ctx context.Context) error
	Cart(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Inc(ctx context.Context, args []string) error
	Dec(ctx context.Context, args []string) error
	Qty(ctx context.Context, args []string) error
	Rm(ctx context.Context, args []string) error
	Clear(ctx context.Context) error
	Wishlist(ctx context.Context) error
	Wish(ctx context.Context, args []string) error
	Checkout(ctx context.Context) error
	BuyNow(ctx context.Context, args []string) error
	Orders(ctx context.Context) error
	Order(ctx context.Context, args []string) error
	AddImage(ctx context.Context, args []string) error
}

const (
	helpGuest  = "Available commands: register, login, products [search], product <id|asin>, categories, cart, add <product_id> [qty], inc|dec|rm <item_id>, qty <item_id> <n>, clear, order <number>, exit"
	helpMember = "Available commands: whoami, logout, products [search], product <id|asin>, categories, cart, add <product_id> [qty], inc|dec|rm <item_id>, qty <item_id> <n>, clear, wishlist, wish <product_id>, checkout, buynow <product_id> [qty], orders, order <number>, addimage <product_id> <file>, exit"
)

// runREPL reads commands line by line and dispatches them to a. It returns
// on EOF or "exit"/"quit". Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("vamazon (%s)> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpMember)
		} else {
			printlnFn(helpGuest)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "products", "ls":
		return a.Products(ctx, args)
	case "product":
		return a.Product(ctx, args)
	case "categories":
		return a.Categories(ctx)
	case "cart":
		return a.Cart(ctx)
	case "add":
		return a.Add(ctx, args)
	case "inc":
		return a.Inc(ctx, args)
	case "dec":
		return a.Dec(ctx, args)
	case "qty":
		return a.Qty(ctx, args)
	case "rm":
		return a.Rm(ctx, args)
	case "clear":
		return a.Clear(ctx)
	case "wishlist":
		return a.Wishlist(ctx)
	case "wish":
		return a.Wish(ctx, args)
	case "checkout":
		return a.Checkout(ctx)
	case "buynow":
		return a.BuyNow(ctx, args)
	case "orders":
		return a.Orders(ctx)
	case "order":
		return a.Order(ctx, args)
	case "addimage":
		return a.AddImage(ctx, args)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}
