package main

import (
	"context"
	"fmt"

	"github.com/niksmo/galeria/internal/core/domain"
)

func runContact(ctx context.Context, e env, args []string) error {
	fs := newFlags("contact")
	var form domain.ContactForm
	fs.StringVar(&form.Name, "name", "", "your name")
	fs.StringVar(&form.Email, "email", "", "your email")
	fs.StringVar(&form.Phone, "phone", "", "your phone")
	fs.StringVar(&form.Subject, "subject", "", "subject")
	fs.StringVar(&form.Message, "message", "", "message")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	if err := e.app.Services.Messages.Send(ctx, form); err != nil {
		return err
	}
	fmt.Fprintln(e.out, "message sent, thank you")
	return nil
}

func runSubscribe(ctx context.Context, e env, args []string) error {
	fs := newFlags("subscribe")
	name := fs.String("name", "", "your name")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	form := domain.NewsletterSubscription{Email: pos[0], Name: *name}
	if err := e.app.Services.Newsletter.Subscribe(ctx, form); err != nil {
		return err
	}
	fmt.Fprintln(e.out, "subscribed")
	return nil
}

func runLogin(ctx context.Context, e env, args []string) error {
	fs := newFlags("login")
	var c domain.Credentials
	fs.StringVar(&c.Email, "email", "", "admin email")
	fs.StringVar(&c.Password, "password", "", "admin password")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	session, err := e.app.Services.Auth.Login(ctx, c)
	if err != nil {
		return err
	}
	if err := e.app.Session.Save(ctx, session); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "logged in as %s\n", orDash(session.User.Email))
	return nil
}

func runLogout(ctx context.Context, e env, args []string) error {
	if _, err := parse(newFlags("logout"), args, 0); err != nil {
		return err
	}
	if err := e.app.Session.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(e.out, "logged out")
	return nil
}

func runWhoami(ctx context.Context, e env, args []string) error {
	if _, err := parse(newFlags("whoami"), args, 0); err != nil {
		return err
	}
	session, ok, err := e.app.Session.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(e.out, "not logged in")
		return nil
	}
	fmt.Fprintf(e.out, "%s <%s> %s\n", orDash(session.User.Name), session.User.Email, orDash(session.User.Role))
	return nil
}
