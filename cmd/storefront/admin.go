package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/niksmo/galeria/internal/adapter/services"
	"github.com/niksmo/galeria/internal/core/domain"
)

type verbs = map[string]func(context.Context, env, []string) error

func runAdmin(ctx context.Context, e env, args []string) error {
	return sub(ctx, e, args, verbs{
		"artworks": func(ctx context.Context, e env, args []string) error {
			return sub(ctx, e, args, verbs{
				"create": adminArtworkCreate,
				"update": adminArtworkUpdate,
				"delete": adminArtworkDelete,
				"upload": adminArtworkUpload,
			})
		},
		"digital": func(ctx context.Context, e env, args []string) error {
			return sub(ctx, e, args, verbs{
				"create": adminDigitalCreate,
				"update": adminDigitalUpdate,
				"delete": adminDigitalDelete,
			})
		},
		"messages": func(ctx context.Context, e env, args []string) error {
			return sub(ctx, e, args, verbs{
				"list":   adminMessagesList,
				"show":   adminMessageShow,
				"mark":   adminMessageMark,
				"delete": adminMessageDelete,
			})
		},
		"orders": func(ctx context.Context, e env, args []string) error {
			return sub(ctx, e, args, verbs{
				"list":   adminOrdersList,
				"show":   adminOrderShow,
				"status": adminOrderStatus,
			})
		},
		"contacts": func(ctx context.Context, e env, args []string) error {
			return sub(ctx, e, args, verbs{
				"list":     adminContactsList,
				"add":      adminContactAdd,
				"favorite": adminContactFavorite,
				"delete":   adminContactDelete,
			})
		},
		"finances": func(ctx context.Context, e env, args []string) error {
			return sub(ctx, e, args, verbs{
				"list":   adminFinancesList,
				"add":    adminFinanceAdd,
				"delete": adminFinanceDelete,
			})
		},
		"notes": func(ctx context.Context, e env, args []string) error {
			return sub(ctx, e, args, verbs{
				"list":   adminNotesList,
				"add":    adminNoteAdd,
				"pin":    adminNotePin,
				"delete": adminNoteDelete,
			})
		},
		"agenda": func(ctx context.Context, e env, args []string) error {
			return sub(ctx, e, args, verbs{
				"list":   adminAgendaList,
				"add":    adminAgendaAdd,
				"done":   adminAgendaDone,
				"delete": adminAgendaDelete,
			})
		},
	})
}

// readJSON decodes a form payload from a file, "-" reads stdin.
func readJSON(path string, v any) error {
	f := os.Stdin
	if path != "-" {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func fileFlag(fs *pflag.FlagSet) *string {
	return fs.String("file", "-", "JSON form payload, - for stdin")
}

// parseDate accepts a date or an RFC 3339 timestamp. Empty means zero.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", errUsage, s)
	}
	return t, nil
}

func deleted(e env, kind, id string) error {
	fmt.Fprintf(e.out, "%s %q deleted\n", kind, id)
	return nil
}

func adminArtworkCreate(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin artworks create")
	file := fileFlag(fs)
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	var in domain.ArtworkInput
	if err := readJSON(*file, &in); err != nil {
		return err
	}
	a, err := e.app.Catalog.CreateArtwork(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "artwork %q created with id %s\n", a.Title, a.ID)
	return nil
}

func adminArtworkUpdate(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin artworks update")
	file := fileFlag(fs)
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	var in domain.ArtworkInput
	if err := readJSON(*file, &in); err != nil {
		return err
	}
	a, err := e.app.Catalog.UpdateArtwork(ctx, pos[0], in)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "artwork %q updated\n", a.Title)
	return nil
}

func adminArtworkDelete(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin artworks delete"), args, 1)
	if err != nil {
		return err
	}
	if err := e.app.Catalog.DeleteArtwork(ctx, pos[0]); err != nil {
		return err
	}
	return deleted(e, "artwork", pos[0])
}

func adminArtworkUpload(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin artworks upload"), args, 1)
	if err != nil {
		return err
	}
	f, err := os.Open(pos[0])
	if err != nil {
		return err
	}
	defer f.Close()

	u, err := e.app.Services.Artworks.UploadImage(ctx, filepath.Base(pos[0]), f)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, u)
	return nil
}

func adminDigitalCreate(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin digital create")
	file := fileFlag(fs)
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	var in domain.DigitalArtworkInput
	if err := readJSON(*file, &in); err != nil {
		return err
	}
	d, err := e.app.Services.DigitalArt.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "digital artwork %q created with id %s\n", d.Title, d.ID)
	return nil
}

func adminDigitalUpdate(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin digital update")
	file := fileFlag(fs)
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	var in domain.DigitalArtworkInput
	if err := readJSON(*file, &in); err != nil {
		return err
	}
	d, err := e.app.Services.DigitalArt.Update(ctx, pos[0], in)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "digital artwork %q updated\n", d.Title)
	return nil
}

func adminDigitalDelete(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin digital delete"), args, 1)
	if err != nil {
		return err
	}
	if err := e.app.Services.DigitalArt.Delete(ctx, pos[0]); err != nil {
		return err
	}
	return deleted(e, "digital artwork", pos[0])
}

func adminMessagesList(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin messages list")
	status := fs.String("status", "", "new, read, replied or archived")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	msgs, err := e.app.Services.Messages.List(ctx, *status)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tFROM\tSUBJECT\tSTATUS")
	for _, m := range msgs {
		fmt.Fprintf(tw, "%s\t%s\t%s <%s>\t%s\t%s\n",
			m.ID, m.CreatedAt.Format(time.DateOnly), m.Name, m.Email, orDash(m.Subject), m.Status)
	}
	return tw.Flush()
}

func adminMessageShow(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin messages show"), args, 1)
	if err != nil {
		return err
	}
	m, err := e.app.Services.Messages.Get(ctx, pos[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "From: %s <%s> %s\nSubject: %s\nStatus: %s\n\n%s\n",
		m.Name, m.Email, m.Phone, orDash(m.Subject), m.Status, m.Message)
	return nil
}

func adminMessageMark(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin messages mark"), args, 2)
	if err != nil {
		return err
	}
	status := pos[1]
	read := status != "new"
	m, err := e.app.Services.Messages.Update(ctx, pos[0], domain.MessageUpdate{
		Status: &status,
		Read:   &read,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "message %q is %s\n", m.ID, m.Status)
	return nil
}

func adminMessageDelete(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin messages delete"), args, 1)
	if err != nil {
		return err
	}
	if err := e.app.Services.Messages.Delete(ctx, pos[0]); err != nil {
		return err
	}
	return deleted(e, "message", pos[0])
}

func adminOrdersList(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin orders list")
	status := fs.String("status", "", "order status filter")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	orders, err := e.app.Services.Orders.List(ctx, *status)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tBUYER\tITEMS\tTOTAL\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s %s\t%s\n",
			o.ID, o.CreatedAt.Format(time.DateOnly), o.Buyer.Email, len(o.Items),
			o.Total.StringFixed(2), o.Currency, o.Status)
	}
	return tw.Flush()
}

func adminOrderShow(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin orders show"), args, 1)
	if err != nil {
		return err
	}
	o, err := e.app.Services.Orders.Get(ctx, pos[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Order %s (%s)\nBuyer: %s <%s>\nPayment: %s\n\n",
		o.ID, o.Status, o.Buyer.Name, o.Buyer.Email, orDash(o.PaymentID))

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	for _, it := range o.Items {
		fmt.Fprintf(tw, "%s\t%s\tx%d\t%s\n", it.ArtworkID, it.Title, it.Quantity, it.Price.StringFixed(2))
	}
	fmt.Fprintf(tw, "\t\tTOTAL\t%s %s\n", o.Total.StringFixed(2), o.Currency)
	return tw.Flush()
}

func adminOrderStatus(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin orders status"), args, 2)
	if err != nil {
		return err
	}
	o, err := e.app.Services.Orders.UpdateStatus(ctx, pos[0], pos[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "order %q is %s\n", o.ID, o.Status)
	return nil
}

func adminContactsList(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin contacts list")
	search := fs.String("search", "", "search term")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	contacts, err := e.app.Services.Contacts.List(ctx, *search)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tCOMPANY\tFAV")
	for _, c := range contacts {
		fav := ""
		if c.Favorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, orDash(c.Email), orDash(c.Phone), orDash(c.Company), fav)
	}
	return tw.Flush()
}

func adminContactAdd(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin contacts add")
	var in domain.ContactInput
	fs.StringVar(&in.Name, "name", "", "name")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Phone, "phone", "", "phone")
	fs.StringVar(&in.Company, "company", "", "company")
	fs.StringVar(&in.Notes, "notes", "", "notes")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	c, err := e.app.Services.Contacts.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "contact %q created with id %s\n", c.Name, c.ID)
	return nil
}

func adminContactFavorite(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin contacts favorite"), args, 1)
	if err != nil {
		return err
	}
	c, err := e.app.Services.Contacts.ToggleFavorite(ctx, pos[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "contact %q favorite: %s\n", c.Name, yesNo(c.Favorite))
	return nil
}

func adminContactDelete(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin contacts delete"), args, 1)
	if err != nil {
		return err
	}
	if err := e.app.Services.Contacts.Delete(ctx, pos[0]); err != nil {
		return err
	}
	return deleted(e, "contact", pos[0])
}

func adminFinancesList(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin finances list")
	kind := fs.String("type", "", "income or expense")
	from := fs.String("from", "", "first date (YYYY-MM-DD)")
	to := fs.String("to", "", "last date (YYYY-MM-DD)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	f := services.FinanceFilter{Type: *kind}
	var err error
	if f.From, err = parseDate(*from); err != nil {
		return err
	}
	if f.To, err = parseDate(*to); err != nil {
		return err
	}

	entries, err := e.app.Services.Finances.List(ctx, f)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, en := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s %s\t%s\n",
			en.ID, en.Date.Format(time.DateOnly), en.Type, orDash(en.Category),
			en.Amount.StringFixed(2), en.Currency, en.Description)
	}
	fmt.Fprintln(tw)
	for _, s := range domain.SummarizeFinances(entries) {
		fmt.Fprintf(tw, "%s\tincome %s\texpense %s\tbalance %s\n",
			s.Currency, s.Income.StringFixed(2), s.Expense.StringFixed(2), s.Balance().StringFixed(2))
	}
	return tw.Flush()
}

func adminFinanceAdd(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin finances add")
	var in domain.FinanceInput
	fs.StringVar(&in.Type, "type", "", "income or expense")
	amount := fs.String("amount", "", "amount")
	fs.StringVar(&in.Currency, "currency", "ARS", "ISO currency code")
	fs.StringVar(&in.Category, "category", "", "category")
	fs.StringVar(&in.Description, "description", "", "description")
	date := fs.String("date", time.Now().Format(time.DateOnly), "date (YYYY-MM-DD)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	var err error
	if in.Amount, err = decimal.NewFromString(*amount); err != nil {
		return fmt.Errorf("%w: bad amount %q", errUsage, *amount)
	}
	if in.Date, err = parseDate(*date); err != nil {
		return err
	}

	en, err := e.app.Services.Finances.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s of %s %s recorded with id %s\n",
		en.Type, en.Amount.StringFixed(2), en.Currency, en.ID)
	return nil
}

func adminFinanceDelete(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin finances delete"), args, 1)
	if err != nil {
		return err
	}
	if err := e.app.Services.Finances.Delete(ctx, pos[0]); err != nil {
		return err
	}
	return deleted(e, "entry", pos[0])
}

func adminNotesList(ctx context.Context, e env, args []string) error {
	if _, err := parse(newFlags("admin notes list"), args, 0); err != nil {
		return err
	}
	notes, err := e.app.Services.Notes.List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPIN\tTITLE\tUPDATED")
	for _, n := range notes {
		pin := ""
		if n.Pinned {
			pin = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, pin, n.Title, n.UpdatedAt.Format(time.DateOnly))
	}
	return tw.Flush()
}

func adminNoteAdd(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin notes add")
	var in domain.NoteInput
	fs.StringVar(&in.Title, "title", "", "title")
	fs.StringVar(&in.Content, "content", "", "content")
	fs.StringVar(&in.Color, "color", "", "hex color")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	n, err := e.app.Services.Notes.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "note %q created with id %s\n", n.Title, n.ID)
	return nil
}

func adminNotePin(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin notes pin"), args, 1)
	if err != nil {
		return err
	}
	n, err := e.app.Services.Notes.TogglePin(ctx, pos[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "note %q pinned: %s\n", n.Title, yesNo(n.Pinned))
	return nil
}

func adminNoteDelete(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin notes delete"), args, 1)
	if err != nil {
		return err
	}
	if err := e.app.Services.Notes.Delete(ctx, pos[0]); err != nil {
		return err
	}
	return deleted(e, "note", pos[0])
}

func adminAgendaList(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin agenda list")
	from := fs.String("from", "", "first date (YYYY-MM-DD)")
	to := fs.String("to", "", "last date (YYYY-MM-DD)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	fromT, err := parseDate(*from)
	if err != nil {
		return err
	}
	toT, err := parseDate(*to)
	if err != nil {
		return err
	}

	events, err := e.app.Services.Agenda.List(ctx, fromT, toT)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tLOCATION\tDONE")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			ev.ID, ev.Date.Format("2006-01-02 15:04"), ev.Title, orDash(ev.Location), yesNo(ev.Completed))
	}
	return tw.Flush()
}

func adminAgendaAdd(ctx context.Context, e env, args []string) error {
	fs := newFlags("admin agenda add")
	var in domain.AgendaInput
	fs.StringVar(&in.Title, "title", "", "title")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.StringVar(&in.Location, "location", "", "location")
	date := fs.String("date", "", "date (YYYY-MM-DD or RFC 3339)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	var err error
	if in.Date, err = parseDate(*date); err != nil {
		return err
	}
	ev, err := e.app.Services.Agenda.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "event %q created with id %s\n", ev.Title, ev.ID)
	return nil
}

func adminAgendaDone(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin agenda done"), args, 1)
	if err != nil {
		return err
	}
	ev, err := e.app.Services.Agenda.ToggleComplete(ctx, pos[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "event %q completed: %s\n", ev.Title, yesNo(ev.Completed))
	return nil
}

func adminAgendaDelete(ctx context.Context, e env, args []string) error {
	pos, err := parse(newFlags("admin agenda delete"), args, 1)
	if err != nil {
		return err
	}
	if err := e.app.Services.Agenda.Delete(ctx, pos[0]); err != nil {
		return err
	}
	return deleted(e, "event", pos[0])
}
