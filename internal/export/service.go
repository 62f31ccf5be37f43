package export

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/business"
	"github.com/arivah-books/arivah-books/internal/expense"
	"github.com/arivah-books/arivah-books/internal/investment"
	"github.com/arivah-books/arivah-books/internal/partner"
	"github.com/arivah-books/arivah-books/internal/profitshare"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/transaction"
	"github.com/arivah-books/arivah-books/internal/users"
)

const timestampLayout = "2006-01-02 15:04:05"

// TransactionLister reads transactions for export.
type TransactionLister interface {
	List(ctx context.Context, f transaction.Filters) ([]transaction.Transaction, error)
}

// InvestmentLister reads investments for export.
type InvestmentLister interface {
	List(ctx context.Context, f investment.Filters) ([]investment.Investment, error)
}

// ExpenseLister reads personal expenses for export.
type ExpenseLister interface {
	List(ctx context.Context, f expense.Filters) ([]expense.PersonalExpense, error)
}

// ActivityLister reads the raw activity log for export.
type ActivityLister interface {
	List(ctx context.Context, f activity.Filters, limit, offset int) ([]activity.Entry, error)
}

// ProfitShareLister reads profit sharing logs for export.
type ProfitShareLister interface {
	List(ctx context.Context, businessID uuid.UUID) ([]profitshare.Log, error)
}

// BusinessDirectory resolves business names.
type BusinessDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (business.Business, error)
}

// UserDirectory resolves user names.
type UserDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (users.User, error)
}

// PartnerDirectory resolves partner names.
type PartnerDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (partner.Partner, error)
}

const activityExportLimit = 1000

// Service streams CSV exports. Each export is one row per record with a
// fixed column order; consumers rely on the ordering, so it never changes.
type Service struct {
	transactions TransactionLister
	investments  InvestmentLister
	expenses     ExpenseLister
	activities   ActivityLister
	profitShares ProfitShareLister
	businesses   BusinessDirectory
	users        UserDirectory
	partners     PartnerDirectory
	printer      *message.Printer
}

// NewService constructs an export service.
func NewService(transactions TransactionLister, investments InvestmentLister, expenses ExpenseLister,
	activities ActivityLister, profitShares ProfitShareLister,
	businesses BusinessDirectory, userDir UserDirectory, partners PartnerDirectory) *Service {
	return &Service{
		transactions: transactions,
		investments:  investments,
		expenses:     expenses,
		activities:   activities,
		profitShares: profitShares,
		businesses:   businesses,
		users:        userDir,
		partners:     partners,
		printer:      message.NewPrinter(language.English),
	}
}

func (s *Service) formatAmount(v float64) string {
	return s.printer.Sprintf("%.2f", v)
}

// nameCache memoizes name lookups for the duration of one export so a large
// export does not re-resolve the same handful of businesses and users.
type nameCache struct {
	names map[uuid.UUID]string
}

func newNameCache() *nameCache {
	return &nameCache{names: make(map[uuid.UUID]string)}
}

func (c *nameCache) resolve(ctx context.Context, id uuid.UUID, lookup func(context.Context, uuid.UUID) (string, error)) string {
	if id == uuid.Nil {
		return ""
	}
	if name, ok := c.names[id]; ok {
		return name
	}
	name, err := lookup(ctx, id)
	if err != nil {
		name = ""
	}
	c.names[id] = name
	return name
}

func (s *Service) businessName(cache *nameCache, ctx context.Context, id uuid.UUID) string {
	return cache.resolve(ctx, id, func(ctx context.Context, id uuid.UUID) (string, error) {
		b, err := s.businesses.Get(ctx, id)
		return b.Name, err
	})
}

func (s *Service) userName(cache *nameCache, ctx context.Context, id uuid.UUID) string {
	return cache.resolve(ctx, id, func(ctx context.Context, id uuid.UUID) (string, error) {
		u, err := s.users.Get(ctx, id)
		return u.Name, err
	})
}

func (s *Service) partnerName(cache *nameCache, ctx context.Context, id uuid.UUID) string {
	return cache.resolve(ctx, id, func(ctx context.Context, id uuid.UUID) (string, error) {
		p, err := s.partners.Get(ctx, id)
		return p.Name, err
	})
}

// WriteTransactions exports transactions matching the filters.
func (s *Service) WriteTransactions(ctx context.Context, w io.Writer, f transaction.Filters) (int, error) {
	rows, err := s.transactions.List(ctx, f)
	if err != nil {
		return 0, err
	}
	streamer := newCSVStreamer(w)
	header := []string{"Date", "Business", "Type", "Category", "Amount", "Payment Method", "Description", "Created By", "Created At"}
	if err := streamer.writeRow(header); err != nil {
		return 0, err
	}
	cache := newNameCache()
	for _, txn := range rows {
		createdBy := ""
		if txn.CreatedBy != nil {
			createdBy = txn.CreatedBy.String()
		}
		record := []string{
			txn.Date.Format(shared.DateLayout),
			s.businessName(cache, ctx, txn.BusinessID),
			string(txn.Type),
			txn.Category,
			s.formatAmount(txn.Amount),
			deref(txn.PaymentMethod),
			deref(txn.Description),
			createdBy,
			txn.CreatedAt.Format(timestampLayout),
		}
		if err := streamer.writeRow(record); err != nil {
			return 0, err
		}
	}
	return len(rows), streamer.Close()
}

// WriteInvestments exports investments matching the filters.
func (s *Service) WriteInvestments(ctx context.Context, w io.Writer, f investment.Filters) (int, error) {
	rows, err := s.investments.List(ctx, f)
	if err != nil {
		return 0, err
	}
	streamer := newCSVStreamer(w)
	header := []string{"Date", "Investor", "Business", "Amount", "Status", "Settled Date", "Description", "Created At"}
	if err := streamer.writeRow(header); err != nil {
		return 0, err
	}
	cache := newNameCache()
	for _, inv := range rows {
		status := "Unsettled"
		if inv.IsSettled {
			status = "Settled"
		}
		settledDate := ""
		if inv.SettledDate != nil {
			settledDate = inv.SettledDate.Format(shared.DateLayout)
		}
		record := []string{
			inv.InvestmentDate.Format(shared.DateLayout),
			s.userName(cache, ctx, inv.UserID),
			s.businessName(cache, ctx, inv.BusinessID),
			s.formatAmount(inv.Amount),
			status,
			settledDate,
			deref(inv.Description),
			inv.CreatedAt.Format(timestampLayout),
		}
		if err := streamer.writeRow(record); err != nil {
			return 0, err
		}
	}
	return len(rows), streamer.Close()
}

// WritePersonalExpenses exports personal expenses matching the filters.
func (s *Service) WritePersonalExpenses(ctx context.Context, w io.Writer, f expense.Filters) (int, error) {
	rows, err := s.expenses.List(ctx, f)
	if err != nil {
		return 0, err
	}
	streamer := newCSVStreamer(w)
	header := []string{"Date", "User", "Business", "Category", "Amount", "Payment Method", "Reimbursable", "Reimbursed", "Description", "Tags"}
	if err := streamer.writeRow(header); err != nil {
		return 0, err
	}
	cache := newNameCache()
	for _, e := range rows {
		businessName := ""
		if e.BusinessID != nil {
			businessName = s.businessName(cache, ctx, *e.BusinessID)
		}
		record := []string{
			e.Date.Format(shared.DateLayout),
			s.userName(cache, ctx, e.UserID),
			businessName,
			e.Category,
			s.formatAmount(e.Amount),
			deref(e.PaymentMethod),
			yesNo(e.IsReimbursable),
			yesNo(e.IsReimbursed),
			deref(e.Description),
			joinTags(e.Tags),
		}
		if err := streamer.writeRow(record); err != nil {
			return 0, err
		}
	}
	return len(rows), streamer.Close()
}

// WriteActivityLogs exports the activity timeline, newest first.
func (s *Service) WriteActivityLogs(ctx context.Context, w io.Writer, f activity.Filters) (int, error) {
	rows, err := s.activities.List(ctx, f, activityExportLimit, 0)
	if err != nil {
		return 0, err
	}
	streamer := newCSVStreamer(w)
	header := []string{"Date", "Time", "User", "Action", "Entity Type", "Entity ID", "Details"}
	if err := streamer.writeRow(header); err != nil {
		return 0, err
	}
	cache := newNameCache()
	for _, entry := range rows {
		userName := s.userName(cache, ctx, entry.UserID)
		if userName == "" {
			userName = "Unknown"
		}
		entityID := ""
		if entry.EntityID != nil {
			entityID = entry.EntityID.String()
		}
		details := entry.Details
		if details == nil {
			details = map[string]any{}
		}
		encoded, err := json.Marshal(details)
		if err != nil {
			return 0, err
		}
		record := []string{
			entry.CreatedAt.Format(shared.DateLayout),
			entry.CreatedAt.Format("15:04:05"),
			userName,
			string(entry.Action),
			string(entry.EntityType),
			entityID,
			string(encoded),
		}
		if err := streamer.writeRow(record); err != nil {
			return 0, err
		}
	}
	return len(rows), streamer.Close()
}

// WriteProfitSharing exports profit sharing logs for one business, or all
// businesses when businessID is the zero UUID.
func (s *Service) WriteProfitSharing(ctx context.Context, w io.Writer, businessID uuid.UUID) (int, error) {
	rows, err := s.profitShares.List(ctx, businessID)
	if err != nil {
		return 0, err
	}
	streamer := newCSVStreamer(w)
	header := []string{"Period Start", "Period End", "Business", "Partner", "Total Profit", "Partner Share", "Cash Payout", "Reinvested", "Notes", "Settled"}
	if err := streamer.writeRow(header); err != nil {
		return 0, err
	}
	cache := newNameCache()
	for _, l := range rows {
		record := []string{
			l.PeriodStart.Format(shared.DateLayout),
			l.PeriodEnd.Format(shared.DateLayout),
			s.businessName(cache, ctx, l.BusinessID),
			s.partnerName(cache, ctx, l.PartnerID),
			s.formatAmount(l.TotalProfit),
			s.formatAmount(l.PartnerShare),
			s.formatAmount(l.CashPayout),
			s.formatAmount(l.ReinvestedToOther),
			deref(l.Note),
			yesNo(l.IsSettled),
		}
		if err := streamer.writeRow(record); err != nil {
			return 0, err
		}
	}
	return len(rows), streamer.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
