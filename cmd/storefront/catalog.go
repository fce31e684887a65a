package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/niksmo/galeria/internal/core/catalog"
	"github.com/niksmo/galeria/internal/core/domain"
)

func runCatalog(ctx context.Context, e env, args []string) error {
	return sub(ctx, e, args, map[string]func(context.Context, env, []string) error{
		"list":       catalogList,
		"categories": catalogCategories,
		"show":       catalogShow,
		"layout":     catalogLayout,
	})
}

// fetch loads the catalog with the configured page limit, or the refetch
// limit when the whole catalog is needed.
func fetch(ctx context.Context, e env, page int, all bool) error {
	q := domain.ArtworkQuery{Page: page, Limit: e.app.Config().Catalog.PageLimit}
	if all {
		q = domain.ArtworkQuery{Limit: catalog.RefetchLimit}
	}
	return e.app.Catalog.FetchArtworks(ctx, q)
}

func catalogList(ctx context.Context, e env, args []string) error {
	fs := newFlags("catalog list")
	category := fs.String("category", domain.CategoryAll, "category filter")
	search := fs.String("search", "", "search in title and description")
	page := fs.Int("page", 1, "page number")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	if err := fetch(ctx, e, *page, false); err != nil {
		return err
	}

	store := e.app.Catalog
	store.SetSelectedCategory(*category)
	if *search != "" {
		in := e.app.NewSearchInput()
		defer in.Close()
		in.Type(*search)
		in.Submit()
	}

	st := store.State()
	printArtworks(e, st.Filtered)
	fmt.Fprintf(e.out, "\n%d of %d artworks, page %d/%d\n",
		len(st.Filtered), st.Total, st.Page, st.Pages)
	return nil
}

func catalogCategories(ctx context.Context, e env, args []string) error {
	if _, err := parse(newFlags("catalog categories"), args, 0); err != nil {
		return err
	}
	if err := fetch(ctx, e, 0, true); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	for _, c := range e.app.Catalog.Categories() {
		fmt.Fprintf(tw, "%s\t%s\n", c.Value, c.Label)
	}
	return tw.Flush()
}

func catalogShow(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("catalog show"), args, 1)
	if err != nil {
		return err
	}

	a, ok := e.app.Catalog.ArtworkByID(pos[0])
	if !ok {
		a, err = e.app.Services.Artworks.GetArtwork(ctx, pos[0])
		if err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", a.ID)
	fmt.Fprintf(tw, "Title\t%s\n", a.Title)
	fmt.Fprintf(tw, "Artist\t%s\n", orDash(a.Artist))
	fmt.Fprintf(tw, "Technique\t%s\n", orDash(a.Technique))
	fmt.Fprintf(tw, "Dimensions\t%s\n", orDash(a.Dimensions))
	fmt.Fprintf(tw, "Category\t%s\n", orDash(a.Category))
	fmt.Fprintf(tw, "Price\t%s\n", price(a))
	fmt.Fprintf(tw, "Available\t%s\n", yesNo(a.Purchasable()))
	fmt.Fprintf(tw, "In cart\t%s\n", yesNo(e.app.Cart.Contains(a.ID)))
	fmt.Fprintf(tw, "Image\t%s\n", orDash(a.ImageURL))
	if err := tw.Flush(); err != nil {
		return err
	}
	if a.Description != "" {
		fmt.Fprintf(e.out, "\n%s\n", a.Description)
	}
	return nil
}

func catalogLayout(ctx context.Context, e env, args []string) error {
	fs := newFlags("catalog layout")
	category := fs.String("category", domain.CategoryAll, "category filter")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if err := fetch(ctx, e, 0, true); err != nil {
		return err
	}
	e.app.Catalog.SetSelectedCategory(*category)

	l := e.app.Layout(ctx, e.app.Catalog.Filtered())
	for i, col := range l.Columns {
		titles := make([]string, len(col))
		for j, a := range col {
			titles[j] = a.Title
		}
		fmt.Fprintf(e.out, "column %d (%.0fpx): %s\n", i+1, l.Heights[i], strings.Join(titles, ", "))
	}
	return nil
}

func printArtworks(e env, artworks []domain.Artwork) {
	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tARTIST\tCATEGORY\tPRICE\tSTATUS")
	for _, a := range artworks {
		status := "available"
		switch {
		case a.Sold:
			status = "sold"
		case !a.Available:
			status = "unavailable"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Title, orDash(a.Artist), orDash(a.Category), price(a), status)
	}
	_ = tw.Flush()
}

func price(a domain.Artwork) string {
	final := a.FinalPrice().StringFixed(2) + " " + a.Currency
	if a.DiscountPercentage > 0 {
		return fmt.Sprintf("%s (-%d%%)", final, a.DiscountPercentage)
	}
	return final
}
