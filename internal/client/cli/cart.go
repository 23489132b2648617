package cli

import (
	"context"
	"fmt"
)

func (a *App) Cart(ctx context.Context) error {
	if err := a.sf.Cart.Load(ctx); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *App) printCart() {
	snap := a.sf.Cart.Snapshot()
	if snap.Cart == nil || len(snap.Cart.Items) == 0 {
		fmt.Fprintln(a.out, "Your cart is empty")
		return
	}
	for _, it := range snap.Cart.Items {
		name, price := fmt.Sprintf("product #%d", it.ProductID), 0.0
		if it.Product != nil {
			name, price = it.Product.Name, it.Product.Price
		}
		fmt.Fprintf(a.out, "[%d] %-50s %3d x %10.2f\n", it.ID, truncate(name, 50), it.Quantity, price)
	}
	fmt.Fprintf(a.out, "Subtotal (%d items): %.2f\n", snap.ItemCount, snap.Subtotal)
}

func (a *App) Add(ctx context.Context, args []string) error {
	const format = "add <product_id> [qty]"
	id, err := parseID(args, 0, format)
	if err != nil {
		return err
	}
	qty, err := parseQty(args, 1, 1, format)
	if err != nil {
		return err
	}
	if err := a.sf.Cart.Add(ctx, id, qty); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added to cart (%d items)\n", a.sf.Cart.ItemCount())
	return nil
}

func (a *App) Inc(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "inc <item_id>")
	if err != nil {
		return err
	}
	if err := a.sf.Cart.Increment(ctx, id); err != nil {
		return err
	}
	a.printCart()
	return nil
}

// Dec lowers the quantity; at one it removes the item.
func (a *App) Dec(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "dec <item_id>")
	if err != nil {
		return err
	}
	if err := a.sf.Cart.Decrement(ctx, id); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *App) Qty(ctx context.Context, args []string) error {
	const format = "qty <item_id> <n>"
	id, err := parseID(args, 0, format)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return usage(format)
	}
	n, err := parseQty(args, 1, 0, format)
	if err != nil {
		return err
	}
	if err := a.sf.Cart.UpdateQuantity(ctx, id, n); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *App) Rm(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "rm <item_id>")
	if err != nil {
		return err
	}
	if err := a.sf.Cart.Remove(ctx, id); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	if err := a.sf.Cart.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Cart cleared")
	return nil
}

func (a *App) Wishlist(ctx context.Context) error {
	items, err := a.sf.Wishlist.Items(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Your wishlist is empty")
		return nil
	}
	for _, it := range items {
		if it.Product == nil {
			fmt.Fprintf(a.out, "#%-5d\n", it.ProductID)
			continue
		}
		fmt.Fprintf(a.out, "#%-5d %-50s %10.2f\n", it.ProductID, truncate(it.Product.Name, 50), it.Product.Price)
	}
	return nil
}

func (a *App) Wish(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "wish <product_id>")
	if err != nil {
		return err
	}
	member, err := a.sf.Wishlist.Toggle(ctx, id)
	if err != nil {
		return err
	}
	if member {
		fmt.Fprintln(a.out, "Added to wishlist")
	} else {
		fmt.Fprintln(a.out, "Removed from wishlist")
	}
	return nil
}
