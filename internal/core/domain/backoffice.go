package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	ContactMessage struct {
		ID        string
		Name      string
		Email     string
		Phone     string
		Subject   string
		Message   string
		Status    string
		Read      bool
		CreatedAt time.Time
	}

	// ContactForm is what the public contact page submits.
	ContactForm struct {
		Name    string `json:"name" validate:"required,min=2,max=100"`
		Email   string `json:"email" validate:"required,email"`
		Phone   string `json:"phone,omitempty" validate:"omitempty,max=30"`
		Subject string `json:"subject,omitempty" validate:"max=150"`
		Message string `json:"message" validate:"required,min=10,max=2000"`
	}

	MessageUpdate struct {
		Status *string `json:"status,omitempty" validate:"omitempty,oneof=new read replied archived"`
		Read   *bool   `json:"read,omitempty"`
	}

	Contact struct {
		ID       string
		Name     string
		Email    string
		Phone    string
		Company  string
		Notes    string
		Favorite bool
	}

	ContactInput struct {
		Name    string `json:"name" validate:"required,max=100"`
		Email   string `json:"email,omitempty" validate:"omitempty,email"`
		Phone   string `json:"phone,omitempty" validate:"max=30"`
		Company string `json:"company,omitempty"`
		Notes   string `json:"notes,omitempty"`
	}

	FinanceEntry struct {
		ID          string
		Type        string
		Amount      decimal.Decimal
		Currency    string
		Category    string
		Description string
		Date        time.Time
	}

	FinanceInput struct {
		Type        string          `json:"type" validate:"required,oneof=income expense"`
		Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
		Currency    string          `json:"currency" validate:"required,len=3"`
		Category    string          `json:"category,omitempty"`
		Description string          `json:"description" validate:"required"`
		Date        time.Time       `json:"date" validate:"required"`
	}

	Note struct {
		ID        string
		Title     string
		Content   string
		Color     string
		Pinned    bool
		UpdatedAt time.Time
	}

	NoteInput struct {
		Title   string `json:"title" validate:"required,max=200"`
		Content string `json:"content,omitempty"`
		Color   string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	}

	AgendaEvent struct {
		ID          string
		Title       string
		Description string
		Date        time.Time
		Location    string
		Completed   bool
	}

	AgendaInput struct {
		Title       string    `json:"title" validate:"required,max=200"`
		Description string    `json:"description,omitempty"`
		Date        time.Time `json:"date" validate:"required"`
		Location    string    `json:"location,omitempty"`
	}

	// FinanceSummary aggregates entries of a single currency.
	FinanceSummary struct {
		Currency string
		Income   decimal.Decimal
		Expense  decimal.Decimal
	}
)

// Balance is income minus expense.
func (s FinanceSummary) Balance() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

// SummarizeFinances groups entries by currency, in first-seen order.
func SummarizeFinances(entries []FinanceEntry) []FinanceSummary {
	var out []FinanceSummary
	idx := make(map[string]int)
	for _, e := range entries {
		i, ok := idx[e.Currency]
		if !ok {
			i = len(out)
			idx[e.Currency] = i
			out = append(out, FinanceSummary{Currency: e.Currency})
		}
		switch e.Type {
		case "income":
			out[i].Income = out[i].Income.Add(e.Amount)
		case "expense":
			out[i].Expense = out[i].Expense.Add(e.Amount)
		}
	}
	return out
}
