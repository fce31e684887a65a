package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/niksmo/galeria/internal/core/domain"
)

var errNotPurchasable = errors.New("artwork is not available")

func runCart(ctx context.Context, e env, args []string) error {
	return sub(ctx, e, args, map[string]func(context.Context, env, []string) error{
		"show":        cartShow,
		"add":         cartAdd,
		"add-digital": cartAddDigital,
		"remove":      cartRemove,
		"clear":       cartClear,
	})
}

func cartShow(_ context.Context, e env, args []string) error {
	if _, err := parse(newFlags("cart show"), args, 0); err != nil {
		return err
	}

	c := e.app.Cart
	items := c.Items()
	if len(items) == 0 {
		fmt.Fprintln(e.out, "cart is empty")
		return nil
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tKIND\tPRICE")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\n",
			it.ID, it.Title, it.Kind, it.Price.StringFixed(2), it.Currency)
	}
	fmt.Fprintf(tw, "\t%d item(s)\tTOTAL\t%s %s\n",
		c.TotalItems(), c.TotalPrice().StringFixed(2), c.Currency())
	return tw.Flush()
}

func cartAdd(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("cart add"), args, 1)
	if err != nil {
		return err
	}

	a, err := e.app.Services.Artworks.GetArtwork(ctx, pos[0])
	if err != nil {
		return err
	}
	if !a.Purchasable() {
		return fmt.Errorf("%q: %w", a.Title, errNotPurchasable)
	}
	return addItem(ctx, e, domain.NewCartItem(a))
}

func cartAddDigital(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("cart add-digital"), args, 2)
	if err != nil {
		return err
	}

	d, err := e.app.Services.DigitalArt.Get(ctx, pos[0])
	if err != nil {
		return err
	}
	size, ok := d.SizeByID(pos[1])
	if !ok {
		return fmt.Errorf("%q has no size %q", d.Title, pos[1])
	}
	if !size.Available {
		return fmt.Errorf("%q size %s: %w", d.Title, size.Label, errNotPurchasable)
	}
	return addItem(ctx, e, domain.NewDigitalCartItem(d, size))
}

func addItem(ctx context.Context, e env, item domain.CartItem) error {
	added, err := e.app.Cart.Add(ctx, item)
	if err != nil {
		return err
	}
	if !added {
		fmt.Fprintf(e.out, "%q is already in the cart\n", item.Title)
		return nil
	}
	fmt.Fprintf(e.out, "added %q, %d item(s) in cart\n", item.Title, e.app.Cart.TotalItems())
	return nil
}

func cartRemove(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("cart remove"), args, 1)
	if err != nil {
		return err
	}

	removed, err := e.app.Cart.Remove(ctx, pos[0])
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(e.out, "%q is not in the cart\n", pos[0])
		return nil
	}
	fmt.Fprintf(e.out, "removed %q\n", pos[0])
	return nil
}

func cartClear(ctx context.Context, e env, args []string) error {
	if _, err := parse(newFlags("cart clear"), args, 0); err != nil {
		return err
	}
	if err := e.app.Cart.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(e.out, "cart cleared")
	return nil
}
