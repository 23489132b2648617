package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vamazon/internal/client/models"
	"github.com/dmitrijs2005/vamazon/internal/client/services"
)

// askShipping prompts for the delivery address, prefilling name and email
// from the signed-in user.
func (a *App) askShipping() (models.ShippingDetails, error) {
	var (
		s   models.ShippingDetails
		err error
	)
	var name, email string
	if u := a.sf.Auth.User(); u != nil {
		name, email = u.Name, u.Email
	}

	fields := []struct {
		prompt string
		def    string
		dst    *string
	}{
		{"Full name", name, &s.CustomerName},
		{"Email", email, &s.Email},
		{"Phone", "", &s.Phone},
		{"Address line 1", "", &s.AddressLine1},
		{"Address line 2 (optional)", "", &s.AddressLine2},
		{"City", "", &s.City},
		{"State", "", &s.State},
		{"PIN code", "", &s.Pincode},
	}
	for _, f := range fields {
		if *f.dst, err = GetTextDefault(a.reader, f.prompt, f.def, a.out); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (a *App) Checkout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return services.ErrNotAuthenticated
	}
	ship, err := a.askShipping()
	if err != nil {
		return err
	}
	order, err := a.sf.Checkout.PlaceOrder(ctx, ship)
	if err != nil {
		return err
	}
	a.printOrder(order)
	return nil
}

func (a *App) BuyNow(ctx context.Context, args []string) error {
	const format = "buynow <product_id> [qty]"
	if !a.isLoggedIn() {
		return services.ErrNotAuthenticated
	}
	id, err := parseID(args, 0, format)
	if err != nil {
		return err
	}
	qty, err := parseQty(args, 1, 1, format)
	if err != nil {
		return err
	}
	purchase := services.PendingPurchase{ProductID: id, Quantity: qty}

	ship, err := a.askShipping()
	if err != nil {
		return err
	}
	order, err := a.sf.Checkout.BuyNow(ctx, purchase, ship)
	if err != nil {
		return err
	}
	a.printOrder(order)
	return nil
}

func (a *App) Orders(ctx context.Context) error {
	orders, err := a.sf.Checkout.Orders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders yet")
		return nil
	}
	for _, o := range orders {
		fmt.Fprintf(a.out, "%s  %s  %-10s %10.2f\n", o.OrderNumber, o.CreatedAt.Format("2006-01-02"), o.Status, o.TotalAmount)
	}
	return nil
}

func (a *App) Order(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("order <number>")
	}
	o, err := a.sf.Checkout.Order(ctx, args[0])
	if err != nil {
		return err
	}
	a.printOrder(o)
	return nil
}

func (a *App) printOrder(o *models.Order) {
	fmt.Fprintf(a.out, "Order %s (%s)\n", o.OrderNumber, o.Status)
	for _, it := range o.Items {
		name := fmt.Sprintf("product #%d", it.ProductID)
		if it.Product != nil {
			name = it.Product.Name
		}
		fmt.Fprintf(a.out, "  %-50s %3d x %10.2f\n", truncate(name, 50), it.Quantity, it.PriceAtPurchase)
	}
	fmt.Fprintf(a.out, "Total: %.2f\n", o.TotalAmount)
	fmt.Fprintf(a.out, "Ship to: %s, %s, %s %s\n", o.CustomerName, o.AddressLine1, o.City, o.Pincode)
}
