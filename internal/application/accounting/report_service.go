package accounting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportCache stores serialized report payloads keyed by report name and
// parameters. Posting or reversing an entry invalidates everything.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Flush(ctx context.Context) error
}

const reportCacheTTL = 5 * time.Minute

// ReportService computes trial balance, balance sheet and profit and loss
// as pure folds over per-account totals of posted lines. Draft entries are
// invisible to every report.
type ReportService struct {
	reportRepo accounting.LedgerReportRepository
	cache      ReportCache
	logger     *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo accounting.LedgerReportRepository, cache ReportCache, logger *zap.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		cache:      cache,
		logger:     logger,
	}
}

// TrialBalanceLine is one account of a trial balance. An account appears
// in exactly one column: its net balance folded to the side it normally
// carries.
type TrialBalanceLine struct {
	AccountID     uuid.UUID       `json:"account_id"`
	AccountCode   string          `json:"account_code"`
	AccountName   string          `json:"account_name"`
	AccountType   string          `json:"account_type"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}

// TrialBalanceReport lists per-account balances as of a date. TotalDebit
// equals TotalCredit whenever every posted entry was balanced.
type TrialBalanceReport struct {
	AsOf        time.Time          `json:"as_of"`
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
}

// BalanceSheetSection groups accounts of one type with a section total
type BalanceSheetSection struct {
	Accounts []ReportAccountLine `json:"accounts"`
	Total    decimal.Decimal     `json:"total"`
}

// ReportAccountLine is one account with its signed balance
type ReportAccountLine struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Balance     decimal.Decimal `json:"balance"`
}

// BalanceSheetReport presents assets against liabilities and equity as of
// a date. Net income to date rolls into TotalEquity without being booked
// as a ledger line.
type BalanceSheetReport struct {
	AsOf             time.Time           `json:"as_of"`
	Assets           BalanceSheetSection `json:"assets"`
	Liabilities      BalanceSheetSection `json:"liabilities"`
	Equity           BalanceSheetSection `json:"equity"`
	NetIncome        decimal.Decimal     `json:"net_income"`
	TotalAssets      decimal.Decimal     `json:"total_assets"`
	TotalLiabilities decimal.Decimal     `json:"total_liabilities"`
	TotalEquity      decimal.Decimal     `json:"total_equity"`
}

// ProfitAndLossReport presents revenue against expenses over a date range
type ProfitAndLossReport struct {
	FromDate     time.Time           `json:"from_date"`
	ToDate       time.Time           `json:"to_date"`
	Revenue      BalanceSheetSection `json:"revenue"`
	Expenses     BalanceSheetSection `json:"expenses"`
	TotalRevenue decimal.Decimal     `json:"total_revenue"`
	TotalExpense decimal.Decimal     `json:"total_expense"`
	NetIncome    decimal.Decimal     `json:"net_income"`
}

// signedBalance folds a row's totals to the account's normal side: debit
// minus credit for debit-normal accounts, credit minus debit otherwise.
func signedBalance(row accounting.AccountBalanceRow) decimal.Decimal {
	if row.AccountType.NormalBalance() == accounting.BalanceSideDebit {
		return row.TotalDebit.Sub(row.TotalCredit)
	}
	return row.TotalCredit.Sub(row.TotalDebit)
}

// TrialBalance lists every account's balance over posted lines up to and
// including asOf.
func (s *ReportService) TrialBalance(ctx context.Context, asOf time.Time) (*TrialBalanceReport, error) {
	key := fmt.Sprintf("report:trial-balance:%s", asOf.Format("2006-01-02"))
	if cached, ok := s.cacheGet(ctx, key); ok {
		var report TrialBalanceReport
		if err := json.Unmarshal(cached, &report); err == nil {
			return &report, nil
		}
	}

	rows, err := s.reportRepo.AccountBalances(ctx, accounting.BalanceFilter{ToDate: &asOf})
	if err != nil {
		return nil, err
	}

	report := &TrialBalanceReport{
		AsOf:        asOf,
		Lines:       make([]TrialBalanceLine, 0, len(rows)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, row := range rows {
		line := TrialBalanceLine{
			AccountID:     row.AccountID,
			AccountCode:   row.AccountCode,
			AccountName:   row.AccountName,
			AccountType:   row.AccountType.String(),
			DebitBalance:  decimal.Zero,
			CreditBalance: decimal.Zero,
		}
		net := row.TotalDebit.Sub(row.TotalCredit)
		if net.IsPositive() {
			line.DebitBalance = net
		} else {
			line.CreditBalance = net.Neg()
		}
		report.TotalDebit = report.TotalDebit.Add(line.DebitBalance)
		report.TotalCredit = report.TotalCredit.Add(line.CreditBalance)
		report.Lines = append(report.Lines, line)
	}

	s.cacheSet(ctx, key, report)
	return report, nil
}

// BalanceSheet presents the financial position as of a date. Revenue and
// expense balances to date are collapsed into a single net income figure
// inside equity.
func (s *ReportService) BalanceSheet(ctx context.Context, asOf time.Time) (*BalanceSheetReport, error) {
	key := fmt.Sprintf("report:balance-sheet:%s", asOf.Format("2006-01-02"))
	if cached, ok := s.cacheGet(ctx, key); ok {
		var report BalanceSheetReport
		if err := json.Unmarshal(cached, &report); err == nil {
			return &report, nil
		}
	}

	rows, err := s.reportRepo.AccountBalances(ctx, accounting.BalanceFilter{ToDate: &asOf})
	if err != nil {
		return nil, err
	}

	report := &BalanceSheetReport{
		AsOf:      asOf,
		NetIncome: decimal.Zero,
	}
	report.Assets.Total = decimal.Zero
	report.Liabilities.Total = decimal.Zero
	report.Equity.Total = decimal.Zero

	for _, row := range rows {
		balance := signedBalance(row)
		line := ReportAccountLine{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			Balance:     balance,
		}
		switch row.AccountType {
		case accounting.AccountTypeAsset:
			report.Assets.Accounts = append(report.Assets.Accounts, line)
			report.Assets.Total = report.Assets.Total.Add(balance)
		case accounting.AccountTypeLiability:
			report.Liabilities.Accounts = append(report.Liabilities.Accounts, line)
			report.Liabilities.Total = report.Liabilities.Total.Add(balance)
		case accounting.AccountTypeEquity:
			report.Equity.Accounts = append(report.Equity.Accounts, line)
			report.Equity.Total = report.Equity.Total.Add(balance)
		case accounting.AccountTypeRevenue:
			report.NetIncome = report.NetIncome.Add(balance)
		case accounting.AccountTypeExpense:
			report.NetIncome = report.NetIncome.Sub(balance)
		}
	}

	report.TotalAssets = report.Assets.Total
	report.TotalLiabilities = report.Liabilities.Total
	report.TotalEquity = report.Equity.Total.Add(report.NetIncome)

	s.cacheSet(ctx, key, report)
	return report, nil
}

// ProfitAndLoss presents revenue against expenses for posted lines dated
// inside [from, to].
func (s *ReportService) ProfitAndLoss(ctx context.Context, from, to time.Time) (*ProfitAndLossReport, error) {
	key := fmt.Sprintf("report:profit-loss:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if cached, ok := s.cacheGet(ctx, key); ok {
		var report ProfitAndLossReport
		if err := json.Unmarshal(cached, &report); err == nil {
			return &report, nil
		}
	}

	rows, err := s.reportRepo.AccountBalances(ctx, accounting.BalanceFilter{
		FromDate: &from,
		ToDate:   &to,
		Types:    []accounting.AccountType{accounting.AccountTypeRevenue, accounting.AccountTypeExpense},
	})
	if err != nil {
		return nil, err
	}

	report := &ProfitAndLossReport{
		FromDate:     from,
		ToDate:       to,
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	report.Revenue.Total = decimal.Zero
	report.Expenses.Total = decimal.Zero

	for _, row := range rows {
		balance := signedBalance(row)
		line := ReportAccountLine{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			Balance:     balance,
		}
		if row.AccountType == accounting.AccountTypeRevenue {
			report.Revenue.Accounts = append(report.Revenue.Accounts, line)
			report.Revenue.Total = report.Revenue.Total.Add(balance)
		} else {
			report.Expenses.Accounts = append(report.Expenses.Accounts, line)
			report.Expenses.Total = report.Expenses.Total.Add(balance)
		}
	}

	report.TotalRevenue = report.Revenue.Total
	report.TotalExpense = report.Expenses.Total
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpense)

	s.cacheSet(ctx, key, report)
	return report, nil
}

// InvalidateCache drops every cached report. Wired as an event handler on
// posting and reversal.
func (s *ReportService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Flush(ctx)
}

func (s *ReportService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	value, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return value, ok
}

func (s *ReportService) cacheSet(ctx context.Context, key string, report any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, reportCacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
