package marketApi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/freemarket-app/freemarket_client/config"
	"github.com/freemarket-app/freemarket_client/internal/converter/apiConverter"
	"github.com/freemarket-app/freemarket_client/internal/externalApi"
	"github.com/freemarket-app/freemarket_client/internal/model"
	"github.com/freemarket-app/freemarket_client/internal/model/apiModel"
	"github.com/freemarket-app/freemarket_client/utils"
	"github.com/go-resty/resty/v2"
)

// SessionReader exposes the current authentication snapshot. Requests are
// refused locally when the session is not signed in.
type SessionReader interface {
	Current() model.Session
}

// TokenSource is the external identity collaborator. CurrentToken returns a
// bearer token for the active session, or an error when the provider reports
// the session invalid.
type TokenSource interface {
	CurrentToken(ctx context.Context) (string, error)
}

// MarketApi is the authenticated REST client for the trading backend. It
// performs no retries; the configured timeout bounds every call.
type MarketApi struct {
	client  *resty.Client
	session SessionReader
	tokens  TokenSource
}

func New(cfg *config.Config, session SessionReader, tokens TokenSource) *MarketApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.MarketApi.Url)
	return &MarketApi{client: client, session: session, tokens: tokens}
}

func (a *MarketApi) SearchSymbols(ctx context.Context, prefix string) ([]model.SymbolInfo, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketApi.SearchSymbols"

	slog.Debug("SearchSymbols start", slog.String("rqID", rqID), slog.String("op", op), slog.String("prefix", prefix))

	var symbols []model.SymbolInfo
	err := a.send(ctx, http.MethodGet, "/stocks/symbols", map[string]string{"prefix": prefix}, nil, &symbols)
	if err != nil {
		slog.Error("SearchSymbols failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("SearchSymbols completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(symbols)))

	return symbols, nil
}

func (a *MarketApi) GetCompanyProfile(ctx context.Context, symbol string) (model.CompanyProfile, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketApi.GetCompanyProfile"

	slog.Debug("GetCompanyProfile start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	profile := model.CompanyProfile{}
	err := a.send(ctx, http.MethodGet, "/stocks/"+symbol+"/company", nil, nil, &profile)
	if err != nil {
		slog.Error("GetCompanyProfile failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.CompanyProfile{}, err
	}

	slog.Debug("GetCompanyProfile completed", slog.String("rqID", rqID), slog.String("op", op))

	return profile, nil
}

func (a *MarketApi) GetPortfolio(ctx context.Context) (model.Portfolio, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketApi.GetPortfolio"

	slog.Debug("GetPortfolio start", slog.String("rqID", rqID), slog.String("op", op))

	rawPortfolio := apiModel.Portfolio{}
	err := a.send(ctx, http.MethodGet, "/portfolio", nil, nil, &rawPortfolio)
	if err != nil {
		slog.Error("GetPortfolio failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Portfolio{}, err
	}

	slog.Debug("GetPortfolio completed", slog.String("rqID", rqID), slog.String("op", op))

	return apiConverter.ConvertPortfolio(rawPortfolio), nil
}

// SubmitTrade posts the intent to the direction-specific endpoint and returns
// the backend's confirmation.
func (a *MarketApi) SubmitTrade(ctx context.Context, intent model.TradeIntent) (model.TradeConfirmation, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketApi.SubmitTrade"

	slog.Debug(
		"SubmitTrade start",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.String("symbol", intent.Symbol),
		slog.String("direction", string(intent.Direction)),
	)

	endpoint := "/stocks/" + intent.Symbol + "/buy"
	if intent.Direction == model.Sell {
		endpoint = "/stocks/" + intent.Symbol + "/sell"
	}

	body := apiModel.TradeRequest{
		InvestType: string(intent.InvestMode),
		Quantity:   intent.Quantity,
	}

	rawResp := apiModel.TradeResponse{}
	err := a.send(ctx, http.MethodPost, endpoint, nil, body, &rawResp)
	if err != nil {
		slog.Error("SubmitTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.TradeConfirmation{}, err
	}

	slog.Debug("SubmitTrade completed", slog.String("rqID", rqID), slog.String("op", op))

	return apiConverter.ConvertTradeResponse(rawResp), nil
}

// send runs one authenticated call: session check, bearer token, request,
// classification. Every failure path resolves to exactly one ApiError kind.
func (a *MarketApi) send(ctx context.Context, method, path string, params map[string]string, body any, out any) error {
	if !a.session.Current().SignedIn {
		return externalApi.NotAuthenticated()
	}

	token, err := a.tokens.CurrentToken(ctx)
	if err != nil {
		return externalApi.NotAuthenticated()
	}

	req := a.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json")

	if params != nil {
		req.SetQueryParams(params)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return externalApi.NetworkFailure(err)
	}

	if resp.IsError() {
		errResp := apiModel.ErrorResponse{}
		if jsonErr := json.Unmarshal(resp.Body(), &errResp); jsonErr == nil && errResp.ErrorCode != "" {
			return externalApi.ServerRejected(errResp.ErrorCode, errResp.Message)
		}
		return externalApi.Unknown(string(resp.Body()))
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return externalApi.Unknown(string(resp.Body()))
		}
	}

	return nil
}
