package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/vamazon/internal/client/models"
	"github.com/dmitrijs2005/vamazon/internal/filex"
)

const maxImageSize = 5 << 20

func (a *App) heart(productID int64) string {
	if a.sf.Wishlist.IsMember(productID) {
		return " ♥"
	}
	return ""
}

func (a *App) Products(ctx context.Context, args []string) error {
	f := models.ProductFilter{Search: strings.Join(args, " ")}
	list, err := a.sf.Catalog.Products(ctx, f)
	if err != nil {
		return err
	}
	if len(list.Products) == 0 {
		fmt.Fprintln(a.out, "No products found")
		return nil
	}
	for _, p := range list.Products {
		fmt.Fprintf(a.out, "#%-5d %-50s %10.2f  stock %d%s\n", p.ID, truncate(p.Name, 50), p.Price, p.Stock, a.heart(p.ID))
	}
	fmt.Fprintf(a.out, "page %d, %d of %d products\n", list.Page, len(list.Products), list.Total)
	return nil
}

// Product shows one product, looked up by id or, for anything that is not a
// number, by ASIN. Signed-in users get the wishlist state from the server.
func (a *App) Product(ctx context.Context, args []string) error {
	const format = "product <id|asin>"
	if len(args) == 0 {
		return usage(format)
	}

	var (
		p   *models.Product
		err error
	)
	if id, perr := strconv.ParseInt(args[0], 10, 64); perr == nil {
		if id <= 0 {
			return usage(format)
		}
		p, err = a.sf.Catalog.Product(ctx, id)
	} else {
		p, err = a.sf.Catalog.ProductByASIN(ctx, args[0])
	}
	if err != nil {
		return err
	}

	if a.isLoggedIn() {
		if _, err := a.sf.Wishlist.Check(ctx, p.ID); err != nil {
			a.log.Debug(ctx, "wishlist check failed", "product_id", p.ID, "error", err)
		}
	}

	fmt.Fprintf(a.out, "#%d %s%s\n", p.ID, p.Name, a.heart(p.ID))
	if p.ASIN != "" {
		fmt.Fprintf(a.out, "  asin: %s\n", p.ASIN)
	}
	fmt.Fprintf(a.out, "  price: %.2f", p.Price)
	if p.MRP != nil && *p.MRP > p.Price {
		fmt.Fprintf(a.out, " (MRP %.2f)", *p.MRP)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "  stock: %d\n", p.Stock)
	if p.Category != nil {
		fmt.Fprintf(a.out, "  category: %s\n", p.Category.Name)
	}
	if p.Description != "" {
		fmt.Fprintf(a.out, "  %s\n", p.Description)
	}
	for _, img := range p.Images {
		fmt.Fprintf(a.out, "  image: %s\n", img.ImageURL)
	}
	return nil
}

func (a *App) Categories(ctx context.Context) error {
	cats, err := a.sf.Catalog.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range cats {
		fmt.Fprintf(a.out, "%-30s %s\n", c.Slug, c.Name)
	}
	return nil
}

func (a *App) AddImage(ctx context.Context, args []string) error {
	const format = "addimage <product_id> <file>"
	id, err := parseID(args, 0, format)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return usage(format)
	}

	data, err := filex.ReadLimited(filepath.Clean(args[1]), maxImageSize)
	if err != nil {
		return err
	}
	up, err := a.sf.Catalog.UploadImage(ctx, id, data, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded image %d (%s)\n", up.ImageID, up.Key)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
