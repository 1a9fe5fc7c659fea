package moexApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"rebalancer/config"
	"rebalancer/internal/externalApi"
	"rebalancer/internal/model/moexModel"
	"rebalancer/utils"
)

const candleTimeLayout = "2006-01-02 15:04:05"

type MoexApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *MoexApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.MoexApi.Url)
	return &MoexApi{client: client}
}

// GetSecurities возвращает список инструментов рынка из справочника ISS.
func (a *MoexApi) GetSecurities(ctx context.Context, engine, market string) ([]moexModel.SecurityInfo, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	url := fmt.Sprintf("/iss/engines/%s/markets/%s/securities.json", engine, market)
	params := map[string]string{
		"iss.meta":           "off",
		"securities.columns": "SECID,SHORTNAME,ISIN,BOARDID",
	}

	slog.Debug("start MoexApi.GetSecurities request", slog.String("rqID", rqID))

	resp, err := a.client.R().
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get(url)

	if err != nil {
		slog.Error("error while dialing MoexApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	rawSecuritiesInfo := moexModel.RawSecuritiesInfo{}
	err = json.Unmarshal(resp.Body(), &rawSecuritiesInfo)
	if err != nil {
		slog.Error("can't unmarshall response into moexModel.RawSecuritiesInfo", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	res, err := a.parseRawSecurities(rawSecuritiesInfo)
	if err != nil {
		slog.Error("can't parse raw data", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	slog.Debug("MoexApi.GetSecurities request complete", slog.String("rqID", rqID))

	return res, nil
}

// GetCandles возвращает минутные свечи инструмента начиная с даты from.
// Если ISS не знает такой инструмент, вернётся externalApi.ErrNotFound.
func (a *MoexApi) GetCandles(ctx context.Context, secid string, from time.Time) ([]moexModel.Candle, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	url := fmt.Sprintf("/iss/engines/stock/markets/shares/securities/%s/candles.json", secid)
	params := map[string]string{
		"iss.meta": "off",
		"interval": "1",
	}
	if !from.IsZero() {
		params["from"] = from.Format("2006-01-02")
	}

	slog.Debug("start MoexApi.GetCandles request", slog.String("rqID", rqID), slog.String("secid", secid))

	resp, err := a.client.R().
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get(url)

	if err != nil {
		slog.Error("error while dialing MoexApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	rawCandles := moexModel.RawCandles{}
	err = json.Unmarshal(resp.Body(), &rawCandles)
	if err != nil {
		slog.Error("can't unmarshall response into moexModel.RawCandles", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	if len(rawCandles.Candles.Data) == 0 {
		return nil, externalApi.ErrNotFound
	}

	res, err := a.parseRawCandles(rawCandles)
	if err != nil {
		slog.Error("can't parse raw data", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	slog.Debug("MoexApi.GetCandles request complete", slog.String("rqID", rqID), slog.String("secid", secid))

	return res, nil
}

func (a *MoexApi) parseRawSecurities(raw moexModel.RawSecuritiesInfo) ([]moexModel.SecurityInfo, error) {
	res := make([]moexModel.SecurityInfo, 0, len(raw.Securities.Data))

	for i := 0; i < len(raw.Securities.Data); i++ {
		if len(raw.Securities.Data[i]) != len(raw.Securities.Columns) {
			return nil, fmt.Errorf("invalid Securities row %d", i)
		}

		securityInfo := moexModel.SecurityInfo{}

		for j := 0; j < len(raw.Securities.Columns); j++ {
			ok := true
			switch raw.Securities.Columns[j] {
			case "SECID":
				securityInfo.Secid, ok = raw.Securities.Data[i][j].(string)
			case "SHORTNAME":
				securityInfo.Shortname, ok = raw.Securities.Data[i][j].(string)
			case "ISIN":
				// у части инструментов ISIN отсутствует
				if raw.Securities.Data[i][j] != nil {
					securityInfo.ISIN, ok = raw.Securities.Data[i][j].(string)
				}
			case "BOARDID":
				if raw.Securities.Data[i][j] != nil {
					securityInfo.Board, ok = raw.Securities.Data[i][j].(string)
				}
			default:
				return nil, fmt.Errorf("unknown column %s", raw.Securities.Columns[j])
			}

			if !ok {
				return nil, fmt.Errorf("invalid type %s = %v", raw.Securities.Columns[j], raw.Securities.Data[i][j])
			}
		}
		res = append(res, securityInfo)
	}

	return res, nil
}

func (a *MoexApi) parseRawCandles(raw moexModel.RawCandles) ([]moexModel.Candle, error) {
	res := make([]moexModel.Candle, 0, len(raw.Candles.Data))

	for i := 0; i < len(raw.Candles.Data); i++ {
		if len(raw.Candles.Data[i]) != len(raw.Candles.Columns) {
			return nil, fmt.Errorf("invalid Candles row %d", i)
		}

		candle := moexModel.Candle{}

		for j := 0; j < len(raw.Candles.Columns); j++ {
			ok := true
			switch raw.Candles.Columns[j] {
			case "open":
				candle.Open, ok = candleDecimal(raw.Candles.Data[i][j])
			case "close":
				candle.Close, ok = candleDecimal(raw.Candles.Data[i][j])
			case "high":
				candle.High, ok = candleDecimal(raw.Candles.Data[i][j])
			case "low":
				candle.Low, ok = candleDecimal(raw.Candles.Data[i][j])
			case "value":
				candle.Value, ok = candleDecimal(raw.Candles.Data[i][j])
			case "volume":
				candle.Volume, ok = candleDecimal(raw.Candles.Data[i][j])
			case "begin":
				candle.Begin, ok = candleTime(raw.Candles.Data[i][j])
			case "end":
				candle.End, ok = candleTime(raw.Candles.Data[i][j])
			default:
				return nil, fmt.Errorf("unknown column %s", raw.Candles.Columns[j])
			}

			if !ok {
				return nil, fmt.Errorf("invalid type %s = %v", raw.Candles.Columns[j], raw.Candles.Data[i][j])
			}
		}
		res = append(res, candle)
	}

	return res, nil
}

func candleDecimal(v any) (decimal.Decimal, bool) {
	if v == nil {
		return decimal.Zero, true
	}
	f, ok := v.(float64)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

func candleTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(candleTimeLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
