// Package tradingService is the use-case layer between the UI and the trading
// backend: it validates trade intents, estimates their effect, submits them,
// and forwards confirmed results into the portfolio store. Only the success
// path mutates state.
package tradingService

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/freemarket-app/freemarket_client/data/session"
	"github.com/freemarket-app/freemarket_client/internal/model"
	"github.com/freemarket-app/freemarket_client/internal/service"
	"github.com/freemarket-app/freemarket_client/internal/store"
	"github.com/freemarket-app/freemarket_client/utils"
	"github.com/shopspring/decimal"
)

type MarketApi interface {
	SearchSymbols(ctx context.Context, prefix string) ([]model.SymbolInfo, error)
	GetCompanyProfile(ctx context.Context, symbol string) (model.CompanyProfile, error)
	GetPortfolio(ctx context.Context) (model.Portfolio, error)
	SubmitTrade(ctx context.Context, intent model.TradeIntent) (model.TradeConfirmation, error)
}

type Cache interface {
	GetCompanyProfile(ctx context.Context, symbol string) (model.CompanyProfile, error)
	SetCompanyProfile(ctx context.Context, profile model.CompanyProfile) error
	GetSymbols(ctx context.Context, prefix string) ([]model.SymbolInfo, error)
	SetSymbols(ctx context.Context, prefix string, symbols []model.SymbolInfo) error
}

// SessionStorage keeps the session snapshot across restarts.
type SessionStorage interface {
	SaveSession(ctx context.Context, sess model.Session) error
	LoadSession(ctx context.Context) (model.Session, error)
	ClearSession(ctx context.Context) error
}

type TradeJournal interface {
	InsertTrade(ctx context.Context, confirmation model.TradeConfirmation) error
	GetTrades(ctx context.Context) ([]model.TradeRecord, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, portfolio model.Portfolio, trades []model.TradeRecord) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
}

// Identity is the external identity collaborator's sign-out surface.
type Identity interface {
	SignOut(ctx context.Context) error
}

type TradingService struct {
	sessionStore   *store.SessionStore
	portfolioStore *store.PortfolioStore
	api            MarketApi
	cache          Cache
	sessionStorage SessionStorage
	journal        TradeJournal
	reports        ReportGenerator
	cloudStorage   CloudStorage
	identity       Identity
}

func New(
	sessionStore *store.SessionStore,
	portfolioStore *store.PortfolioStore,
	api MarketApi,
	cache Cache,
	sessionStorage SessionStorage,
	journal TradeJournal,
	reports ReportGenerator,
	cloudStorage CloudStorage,
	identity Identity,
) *TradingService {
	return &TradingService{
		sessionStore:   sessionStore,
		portfolioStore: portfolioStore,
		api:            api,
		cache:          cache,
		sessionStorage: sessionStorage,
		journal:        journal,
		reports:        reports,
		cloudStorage:   cloudStorage,
		identity:       identity,
	}
}

// SignIn installs the credentials-derived session and loads the authoritative
// portfolio. The session is kept even when the portfolio fetch fails; the
// caller may retry RefreshPortfolio.
func (s *TradingService) SignIn(ctx context.Context, sess model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradingService.SignIn"

	slog.Debug("SignIn start", slog.String("rqID", rqID), slog.String("op", op), slog.String("username", sess.Username))

	s.sessionStore.Apply(store.SignIn{Session: sess})

	if err := s.sessionStorage.SaveSession(ctx, sess); err != nil {
		slog.Error("got error from sessionStorage.SaveSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	if err := s.RefreshPortfolio(ctx); err != nil {
		slog.Error("portfolio load after sign-in failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SignIn finished", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

// AckSignUp applies the session produced by a completed signup flow. Same
// transition as SignIn, distinct event for auditability.
func (s *TradingService) AckSignUp(ctx context.Context, sess model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradingService.AckSignUp"

	slog.Debug("AckSignUp start", slog.String("rqID", rqID), slog.String("op", op), slog.String("username", sess.Username))

	s.sessionStore.Apply(store.SignUpAck{Session: sess})

	if err := s.sessionStorage.SaveSession(ctx, sess); err != nil {
		slog.Error("got error from sessionStorage.SaveSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	if err := s.RefreshPortfolio(ctx); err != nil {
		slog.Error("portfolio load after signup failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("AckSignUp finished", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

// SignOut resets to the unauthenticated session, drops the persisted snapshot
// and tells the identity provider. Storage and provider failures are logged,
// not returned: the local state machine has already signed out.
func (s *TradingService) SignOut(ctx context.Context) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradingService.SignOut"

	slog.Debug("SignOut start", slog.String("rqID", rqID), slog.String("op", op))

	s.sessionStore.Apply(store.SignOut{})

	if err := s.sessionStorage.ClearSession(ctx); err != nil {
		slog.Error("got error from sessionStorage.ClearSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	if err := s.identity.SignOut(ctx); err != nil {
		slog.Error("got error from identity.SignOut", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	slog.Debug("SignOut finished", slog.String("rqID", rqID), slog.String("op", op))
}

// RestoreSession re-applies a previously persisted session at startup. A
// missing snapshot is not an error.
func (s *TradingService) RestoreSession(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradingService.RestoreSession"

	sess, err := s.sessionStorage.LoadSession(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			slog.Debug("no persisted session", slog.String("rqID", rqID), slog.String("op", op))
			return nil
		}
		slog.Error("got error from sessionStorage.LoadSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return s.SignIn(ctx, sess)
}

// SubmitTrade validates the intent, submits it and reconciles the confirmed
// result. Errors come back classified and untouched; no retries here.
func (s *TradingService) SubmitTrade(ctx context.Context, intent model.TradeIntent) (model.TradeConfirmation, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradingService.SubmitTrade"

	slog.Debug(
		"SubmitTrade start",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.String("symbol", intent.Symbol),
		slog.String("direction", string(intent.Direction)),
		slog.String("quantity", intent.Quantity.String()),
	)

	if intent.Quantity.LessThan(model.MinTradeQuantity) {
		slog.Warn("trade quantity below minimum", slog.String("rqID", rqID), slog.String("op", op), slog.String("quantity", intent.Quantity.String()))
		return model.TradeConfirmation{}, service.ErrQuantityBelowMinimum
	}

	confirmation, err := s.api.SubmitTrade(ctx, intent)
	if err != nil {
		slog.Error("got error from api.SubmitTrade", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.TradeConfirmation{}, err
	}

	s.portfolioStore.Apply(store.TradeApplied{Confirmation: confirmation})

	go s.journalTrade(context.WithoutCancel(ctx), confirmation)

	slog.Debug("SubmitTrade finished", slog.String("rqID", rqID), slog.String("op", op))

	return confirmation, nil
}

// EstimateTrade projects an intent against the current price. Advisory only,
// shown to the user before submission; execution may differ.
func (s *TradingService) EstimateTrade(intent model.TradeIntent, currentPrice decimal.Decimal) decimal.Decimal {
	return intent.Estimate(currentPrice)
}

// RefreshPortfolio replaces the local portfolio with the backend's snapshot.
func (s *TradingService) RefreshPortfolio(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradingService.RefreshPortfolio"

	slog.Debug("RefreshPortfolio start", slog.String("rqID", rqID), slog.String("op", op))

	portfolio, err := s.api.GetPortfolio(ctx)
	if err != nil {
		slog.Error("got error from api.GetPortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	s.portfolioStore.Apply(store.PortfolioReplaced{Portfolio: portfolio})

	slog.Debug("RefreshPortfolio finished", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

// RefreshPortfolioJob is the scheduler entrypoint; it skips quietly when no
// one is signed in.
func (s *TradingService) RefreshPortfolioJob(ctx context.Context) error {
	if !s.sessionStore.Current().SignedIn {
		return nil
	}
	return s.RefreshPortfolio(utils.CtxWithRqID(ctx))
}

func (s *TradingService) SearchSymbols(ctx context.Context, prefix string) ([]model.SymbolInfo, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradingService.SearchSymbols"

	slog.Debug("SearchSymbols start", slog.String("rqID", rqID), slog.String("op", op), slog.String("prefix", prefix))

	symbols, err := s.cache.GetSymbols(ctx, prefix)
	if err == nil {
		return symbols, nil
	}

	slog.Warn("can't get symbols from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))

	symbols, err = s.api.SearchSymbols(ctx, prefix)
	if err != nil {
		return nil, err
	}

	go s.cache.SetSymbols(context.WithoutCancel(ctx), prefix, symbols)

	slog.Debug("SearchSymbols finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(symbols)))

	return symbols, nil
}

func (s *TradingService) GetCompanyProfile(ctx context.Context, symbol string) (model.CompanyProfile, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradingService.GetCompanyProfile"

	slog.Debug("GetCompanyProfile start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	profile, err := s.cache.GetCompanyProfile(ctx, symbol)
	if err == nil {
		return profile, nil
	}

	slog.Warn("can't get company profile from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))

	profile, err = s.api.GetCompanyProfile(ctx, symbol)
	if err != nil {
		return model.CompanyProfile{}, err
	}

	go s.cache.SetCompanyProfile(context.WithoutCancel(ctx), profile)

	slog.Debug("GetCompanyProfile finished", slog.String("rqID", rqID), slog.String("op", op))

	return profile, nil
}

// ExportPortfolioReport renders the current snapshot and trade journal to a
// spreadsheet, uploads it and returns the share link.
func (s *TradingService) ExportPortfolioReport(ctx context.Context) (downloadLink string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradingService.ExportPortfolioReport"

	slog.Debug("ExportPortfolioReport start", slog.String("rqID", rqID), slog.String("op", op))

	if !s.sessionStore.Current().SignedIn {
		return "", service.ErrNotSignedIn
	}

	trades, err := s.journal.GetTrades(ctx)
	if err != nil {
		slog.Error("got error from journal.GetTrades", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	fileBytes, ext, err := s.reports.Generate(ctx, s.portfolioStore.Current(), trades)
	if err != nil {
		slog.Error("got error from reports.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	filename := fmt.Sprintf("portfolio_%s%s", time.Now().Format("20060102_150405"), ext)

	downloadLink, err = s.cloudStorage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
	if err != nil {
		slog.Error("got error from cloudStorage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	slog.Debug("ExportPortfolioReport finished", slog.String("rqID", rqID), slog.String("op", op))

	return downloadLink, nil
}

func (s *TradingService) journalTrade(ctx context.Context, confirmation model.TradeConfirmation) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradingService.journalTrade"

	if err := s.journal.InsertTrade(ctx, confirmation); err != nil {
		slog.Error("got error from journal.InsertTrade", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}
}
