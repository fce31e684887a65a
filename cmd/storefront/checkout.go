package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/galeria/internal/core/domain"
)

const serverCloseTimeout = 5 * time.Second

var errNoPaymentResult = errors.New("no payment result received")

func runCheckout(ctx context.Context, e env, args []string) error {
	fs := newFlags("checkout")
	var buyer domain.Buyer
	fs.StringVar(&buyer.Name, "name", "", "buyer name")
	fs.StringVar(&buyer.Email, "email", "", "buyer email")
	fs.StringVar(&buyer.Phone, "phone", "", "buyer phone")
	wait := fs.Bool("wait", false, "serve the return URLs and wait for the payment result")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	if !*wait {
		pref, err := e.app.Checkout.Checkout(ctx, buyer, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "complete the payment at:\n  %s\n", pref.InitPoint)
		return nil
	}
	return checkoutAndWait(ctx, e, buyer)
}

// checkoutAndWait serves the return URLs before opening the preference so
// the payment processor can send the buyer back to them.
func checkoutAndWait(ctx context.Context, e env, buyer domain.Buyer) error {
	cfg := e.app.Config().Checkout

	results := make(chan domain.PaymentResult, 1)
	srv, err := e.app.CheckoutServer(func(res domain.PaymentResult) {
		select {
		case results <- res:
		default:
		}
	})
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, cfg.Wait)
	defer cancel()
	go srv.Run(cancel)

	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), serverCloseTimeout)
		defer closeCancel()
		srv.Close(closeCtx)
	}()

	back := domain.ReturnURLs("http://" + srv.Addr() + "/checkout")
	pref, err := e.app.Checkout.Checkout(ctx, buyer, &back)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "complete the payment at:\n  %s\n", pref.InitPoint)
	fmt.Fprintf(e.out, "waiting for the payment result on %s ...\n", back.Success)

	select {
	case res := <-results:
		if res.Status == domain.PaymentApproved {
			fmt.Fprintln(e.out, "payment approved, cart cleared")
		} else {
			fmt.Fprintf(e.out, "payment %s, cart kept\n", res.Status)
		}
		return nil
	case <-waitCtx.Done():
		return errNoPaymentResult
	}
}
