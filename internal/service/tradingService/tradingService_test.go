package tradingService

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/freemarket-app/freemarket_client/data/session"
	"github.com/freemarket-app/freemarket_client/internal/externalApi"
	"github.com/freemarket-app/freemarket_client/internal/model"
	"github.com/freemarket-app/freemarket_client/internal/service"
	"github.com/freemarket-app/freemarket_client/internal/store"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeApi struct {
	submitCalls  int
	confirmation model.TradeConfirmation
	submitErr    error
	portfolio    model.Portfolio
	portfolioErr error
	symbols      []model.SymbolInfo
	symbolCalls  int
	profile      model.CompanyProfile
	profileCalls int
}

func (f *fakeApi) SearchSymbols(_ context.Context, _ string) ([]model.SymbolInfo, error) {
	f.symbolCalls++
	return f.symbols, nil
}

func (f *fakeApi) GetCompanyProfile(_ context.Context, _ string) (model.CompanyProfile, error) {
	f.profileCalls++
	return f.profile, nil
}

func (f *fakeApi) GetPortfolio(_ context.Context) (model.Portfolio, error) {
	return f.portfolio, f.portfolioErr
}

func (f *fakeApi) SubmitTrade(_ context.Context, _ model.TradeIntent) (model.TradeConfirmation, error) {
	f.submitCalls++
	return f.confirmation, f.submitErr
}

type fakeCache struct {
	profiles map[string]model.CompanyProfile
	symbols  map[string][]model.SymbolInfo
	setDone  chan struct{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		profiles: map[string]model.CompanyProfile{},
		symbols:  map[string][]model.SymbolInfo{},
		setDone:  make(chan struct{}, 8),
	}
}

func (f *fakeCache) GetCompanyProfile(_ context.Context, symbol string) (model.CompanyProfile, error) {
	p, ok := f.profiles[symbol]
	if !ok {
		return model.CompanyProfile{}, errors.New("cache miss")
	}
	return p, nil
}

func (f *fakeCache) SetCompanyProfile(_ context.Context, profile model.CompanyProfile) error {
	f.setDone <- struct{}{}
	return nil
}

func (f *fakeCache) GetSymbols(_ context.Context, prefix string) ([]model.SymbolInfo, error) {
	s, ok := f.symbols[prefix]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return s, nil
}

func (f *fakeCache) SetSymbols(_ context.Context, _ string, _ []model.SymbolInfo) error {
	f.setDone <- struct{}{}
	return nil
}

type fakeSessionStorage struct {
	saved   *model.Session
	loadErr error
	cleared bool
}

func (f *fakeSessionStorage) SaveSession(_ context.Context, sess model.Session) error {
	f.saved = &sess
	return nil
}

func (f *fakeSessionStorage) LoadSession(_ context.Context) (model.Session, error) {
	if f.loadErr != nil {
		return model.Session{}, f.loadErr
	}
	return *f.saved, nil
}

func (f *fakeSessionStorage) ClearSession(_ context.Context) error {
	f.cleared = true
	f.saved = nil
	return nil
}

type fakeJournal struct {
	inserted chan model.TradeConfirmation
	trades   []model.TradeRecord
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{inserted: make(chan model.TradeConfirmation, 8)}
}

func (f *fakeJournal) InsertTrade(_ context.Context, c model.TradeConfirmation) error {
	f.inserted <- c
	return nil
}

func (f *fakeJournal) GetTrades(_ context.Context) ([]model.TradeRecord, error) {
	return f.trades, nil
}

type fakeReports struct {
	err error
}

func (f fakeReports) Generate(_ context.Context, _ model.Portfolio, _ []model.TradeRecord) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte("report"), ".xlsx", nil
}

type fakeCloud struct {
	filename string
}

func (f *fakeCloud) UploadFile(_ context.Context, _ io.Reader, filename string) (string, error) {
	f.filename = filename
	return "https://drive.example.com/report", nil
}

type fakeIdentity struct {
	signedOut bool
}

func (f *fakeIdentity) SignOut(_ context.Context) error {
	f.signedOut = true
	return nil
}

type fixture struct {
	svc            *TradingService
	sessionStore   *store.SessionStore
	portfolioStore *store.PortfolioStore
	api            *fakeApi
	cache          *fakeCache
	storage        *fakeSessionStorage
	journal        *fakeJournal
	cloud          *fakeCloud
	identity       *fakeIdentity
}

func newFixture(api *fakeApi) *fixture {
	f := &fixture{
		sessionStore:   store.NewSessionStore(),
		portfolioStore: store.NewPortfolioStore(),
		api:            api,
		cache:          newFakeCache(),
		storage:        &fakeSessionStorage{},
		journal:        newFakeJournal(),
		cloud:          &fakeCloud{},
		identity:       &fakeIdentity{},
	}
	f.svc = New(f.sessionStore, f.portfolioStore, api, f.cache, f.storage, f.journal, fakeReports{}, f.cloud, f.identity)
	return f
}

func TestSubmitTrade_BelowMinimum_NeverReachesApi(t *testing.T) {
	f := newFixture(&fakeApi{})

	_, err := f.svc.SubmitTrade(context.Background(), model.TradeIntent{
		Symbol:     "MSFT",
		Direction:  model.Buy,
		InvestMode: model.InvestShares,
		Quantity:   dec("0.05"),
	})

	if !errors.Is(err, service.ErrQuantityBelowMinimum) {
		t.Errorf("error = %v, want ErrQuantityBelowMinimum", err)
	}
	if f.api.submitCalls != 0 {
		t.Errorf("api calls = %d, want 0", f.api.submitCalls)
	}
	if len(f.portfolioStore.Current().Positions) != 0 {
		t.Error("portfolio mutated by rejected intent")
	}
}

func TestSubmitTrade_AppliesConfirmationAndJournals(t *testing.T) {
	confirmation := model.TradeConfirmation{
		Symbol:         "MSFT",
		Direction:      model.Buy,
		ExecutedShares: dec("2"),
		ExecutedPrice:  dec("100"),
		Position: model.Position{
			Symbol:      "MSFT",
			Shares:      dec("2"),
			LastPrice:   dec("100"),
			AverageCost: dec("100"),
		},
	}
	f := newFixture(&fakeApi{confirmation: confirmation})
	f.portfolioStore.Apply(store.PortfolioReplaced{Portfolio: model.Portfolio{Balance: dec("1000")}})

	got, err := f.svc.SubmitTrade(context.Background(), model.TradeIntent{
		Symbol:     "MSFT",
		Direction:  model.Buy,
		InvestMode: model.InvestShares,
		Quantity:   dec("2"),
	})
	if err != nil {
		t.Fatalf("SubmitTrade() error = %v", err)
	}
	if got.Symbol != "MSFT" || !got.ExecutedShares.Equal(dec("2")) {
		t.Errorf("confirmation = %+v, want MSFT 2 shares", got)
	}

	portfolio := f.portfolioStore.Current()
	if !portfolio.Balance.Equal(dec("800")) {
		t.Errorf("balance = %s, want 800", portfolio.Balance)
	}

	select {
	case journaled := <-f.journal.inserted:
		if journaled.Symbol != "MSFT" {
			t.Errorf("journaled symbol = %s, want MSFT", journaled.Symbol)
		}
	case <-time.After(time.Second):
		t.Error("trade never journaled")
	}
}

func TestSubmitTrade_ApiErrorPassedThroughUntouched(t *testing.T) {
	rejected := externalApi.ServerRejected("INSUFFICIENT_FUNDS", "not enough cash")
	f := newFixture(&fakeApi{submitErr: rejected})
	f.portfolioStore.Apply(store.PortfolioReplaced{Portfolio: model.Portfolio{Balance: dec("1000")}})

	_, err := f.svc.SubmitTrade(context.Background(), model.TradeIntent{
		Symbol:     "MSFT",
		Direction:  model.Buy,
		InvestMode: model.InvestShares,
		Quantity:   dec("2"),
	})

	if !errors.Is(err, rejected) {
		t.Errorf("error = %v, want the api error untouched", err)
	}
	if !f.portfolioStore.Current().Balance.Equal(dec("1000")) {
		t.Error("portfolio mutated by failed trade")
	}
}

func TestEstimateTrade(t *testing.T) {
	f := newFixture(&fakeApi{})

	currency := model.TradeIntent{InvestMode: model.InvestCurrency, Quantity: dec("50")}
	if got := f.svc.EstimateTrade(currency, dec("100")); !got.Equal(dec("0.5")) {
		t.Errorf("currency estimate = %s, want 0.5 shares", got)
	}

	shares := model.TradeIntent{InvestMode: model.InvestShares, Quantity: dec("2")}
	if got := f.svc.EstimateTrade(shares, dec("100")); !got.Equal(dec("200")) {
		t.Errorf("shares estimate = %s, want 200", got)
	}

	if got := f.svc.EstimateTrade(currency, decimal.Zero); !got.IsZero() {
		t.Errorf("zero-price estimate = %s, want 0", got)
	}
}

func TestSignIn_LoadsPortfolioAndPersistsSession(t *testing.T) {
	f := newFixture(&fakeApi{portfolio: model.Portfolio{Balance: dec("1000")}})

	err := f.svc.SignIn(context.Background(), model.Session{SignedIn: true, Username: "ada"})
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	if got := f.sessionStore.Current(); !got.SignedIn || got.Username != "ada" {
		t.Errorf("session = %+v, want signed-in ada", got)
	}
	if !f.portfolioStore.Current().Balance.Equal(dec("1000")) {
		t.Errorf("balance = %s, want 1000", f.portfolioStore.Current().Balance)
	}
	if f.storage.saved == nil || f.storage.saved.Username != "ada" {
		t.Error("session not persisted")
	}
}

func TestSignIn_KeepsSessionWhenPortfolioFetchFails(t *testing.T) {
	f := newFixture(&fakeApi{portfolioErr: externalApi.NetworkFailure(errors.New("refused"))})

	err := f.svc.SignIn(context.Background(), model.Session{SignedIn: true, Username: "ada"})

	if externalApi.KindOf(err) != externalApi.KindNetwork {
		t.Errorf("error kind = %v, want network", externalApi.KindOf(err))
	}
	if !f.sessionStore.Current().SignedIn {
		t.Error("session dropped on portfolio fetch failure")
	}
}

func TestSignOut_ResetsEverything(t *testing.T) {
	f := newFixture(&fakeApi{portfolio: model.Portfolio{Balance: dec("1000")}})
	if err := f.svc.SignIn(context.Background(), model.Session{SignedIn: true, Username: "ada"}); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	f.svc.SignOut(context.Background())

	if got := f.sessionStore.Current(); got != (model.Session{}) {
		t.Errorf("session = %+v, want zero session", got)
	}
	if !f.storage.cleared {
		t.Error("persisted session not cleared")
	}
	if !f.identity.signedOut {
		t.Error("identity provider not told to sign out")
	}
}

func TestRestoreSession_NothingPersisted(t *testing.T) {
	f := newFixture(&fakeApi{})
	f.storage.loadErr = session.ErrNotFound

	if err := f.svc.RestoreSession(context.Background()); err != nil {
		t.Errorf("RestoreSession() error = %v, want nil for missing snapshot", err)
	}
	if f.sessionStore.Current().SignedIn {
		t.Error("session signed in with nothing persisted")
	}
}

func TestRestoreSession_ReappliesPersistedSession(t *testing.T) {
	f := newFixture(&fakeApi{portfolio: model.Portfolio{Balance: dec("1000")}})
	f.storage.saved = &model.Session{SignedIn: true, Username: "ada"}

	if err := f.svc.RestoreSession(context.Background()); err != nil {
		t.Fatalf("RestoreSession() error = %v", err)
	}
	if got := f.sessionStore.Current(); !got.SignedIn || got.Username != "ada" {
		t.Errorf("session = %+v, want signed-in ada", got)
	}
}

func TestRefreshPortfolioJob_SkipsWhenSignedOut(t *testing.T) {
	api := &fakeApi{portfolioErr: errors.New("must not be called")}
	f := newFixture(api)

	if err := f.svc.RefreshPortfolioJob(context.Background()); err != nil {
		t.Errorf("RefreshPortfolioJob() error = %v, want nil when signed out", err)
	}
}

func TestSearchSymbols_CacheHitSkipsApi(t *testing.T) {
	f := newFixture(&fakeApi{})
	f.cache.symbols["ms"] = []model.SymbolInfo{{Symbol: "MSFT", CompanyName: "Microsoft Corporation"}}

	symbols, err := f.svc.SearchSymbols(context.Background(), "ms")
	if err != nil {
		t.Fatalf("SearchSymbols() error = %v", err)
	}
	if len(symbols) != 1 || symbols[0].Symbol != "MSFT" {
		t.Errorf("symbols = %+v, want cached MSFT entry", symbols)
	}
	if f.api.symbolCalls != 0 {
		t.Errorf("api calls = %d, want 0 on cache hit", f.api.symbolCalls)
	}
}

func TestSearchSymbols_CacheMissFallsBackAndWritesBack(t *testing.T) {
	f := newFixture(&fakeApi{symbols: []model.SymbolInfo{{Symbol: "MSFT"}}})

	symbols, err := f.svc.SearchSymbols(context.Background(), "ms")
	if err != nil {
		t.Fatalf("SearchSymbols() error = %v", err)
	}
	if len(symbols) != 1 || f.api.symbolCalls != 1 {
		t.Errorf("symbols = %+v with %d api calls, want 1 entry from 1 call", symbols, f.api.symbolCalls)
	}

	select {
	case <-f.cache.setDone:
	case <-time.After(time.Second):
		t.Error("symbols never written back to cache")
	}
}

func TestGetCompanyProfile_CacheMissFallsBack(t *testing.T) {
	f := newFixture(&fakeApi{profile: model.CompanyProfile{Symbol: "MSFT"}})

	profile, err := f.svc.GetCompanyProfile(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("GetCompanyProfile() error = %v", err)
	}
	if profile.Symbol != "MSFT" || f.api.profileCalls != 1 {
		t.Errorf("profile = %+v with %d api calls, want MSFT from 1 call", profile, f.api.profileCalls)
	}

	select {
	case <-f.cache.setDone:
	case <-time.After(time.Second):
		t.Error("profile never written back to cache")
	}
}

func TestExportPortfolioReport_RequiresSession(t *testing.T) {
	f := newFixture(&fakeApi{})

	_, err := f.svc.ExportPortfolioReport(context.Background())

	if !errors.Is(err, service.ErrNotSignedIn) {
		t.Errorf("error = %v, want ErrNotSignedIn", err)
	}
}

func TestExportPortfolioReport_UploadsAndReturnsLink(t *testing.T) {
	f := newFixture(&fakeApi{portfolio: model.Portfolio{Balance: dec("1000")}})
	if err := f.svc.SignIn(context.Background(), model.Session{SignedIn: true, Username: "ada"}); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	link, err := f.svc.ExportPortfolioReport(context.Background())
	if err != nil {
		t.Fatalf("ExportPortfolioReport() error = %v", err)
	}
	if link != "https://drive.example.com/report" {
		t.Errorf("link = %q, want the upload link", link)
	}
	if !strings.HasSuffix(f.cloud.filename, ".xlsx") {
		t.Errorf("filename = %q, want .xlsx suffix", f.cloud.filename)
	}
}
