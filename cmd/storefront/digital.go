package main

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func runDigital(ctx context.Context, e env, args []string) error {
	return sub(ctx, e, args, map[string]func(context.Context, env, []string) error{
		"list": digitalList,
		"show": digitalShow,
	})
}

func digitalList(ctx context.Context, e env, args []string) error {
	fs := newFlags("digital list")
	category := fs.String("category", "", "category filter")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	items, err := e.app.Services.DigitalArt.List(ctx, *category)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tARTIST\tSIZES")
	for _, d := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", d.ID, d.Title, orDash(d.Artist), len(d.Sizes))
	}
	return tw.Flush()
}

func digitalShow(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("digital show"), args, 1)
	if err != nil {
		return err
	}

	d, err := e.app.Services.DigitalArt.Get(ctx, pos[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "%s by %s\n", d.Title, orDash(d.Artist))
	if d.OriginalArtworkID != "" {
		fmt.Fprintf(e.out, "original: %s\n", d.OriginalArtworkID)
	}
	fmt.Fprintln(e.out)

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SIZE ID\tSIZE\tDIMENSIONS\tPRICE\tAVAILABLE")
	for _, s := range d.Sizes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\n",
			s.ID, s.Label, orDash(s.Dimensions), s.Price.StringFixed(2), s.Currency, yesNo(s.Available))
	}
	return tw.Flush()
}
