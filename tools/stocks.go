package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type StockInput struct {
	TickerName string `json:"ticker_name" jsonschema_description:"Stock ticker, e.g. amzn, aapl"`
}

type stockRecord struct {
	today     float64
	yesterday float64
	news      string
}

var stockData = map[string]stockRecord{
	"amzn": {today: 80.11, yesterday: 100.12, news: "bad earnings today"},
	"aapl": {today: 240.23, yesterday: 203.33, news: "big beat, on a tear"},
	"goog": {today: 142.80, yesterday: 144.10, news: "quiet session ahead of earnings"},
	"tsla": {today: 245.30, yesterday: 254.00, news: "big drop in price today"},
}

var StockPriceTodayDefinition = ToolDefinition{
	Name:        "get_stock_price_today",
	Description: "Return the price of the stock right now, given the stock ticker name.",
	InputSchema: GenerateSchema[StockInput](),
	Function: func(input json.RawMessage) (string, error) {
		rec, err := lookupStock(input)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(rec.today, 'f', 2, 64), nil
	},
}

var StockPriceYesterdayDefinition = ToolDefinition{
	Name:        "get_stock_price_yesterday",
	Description: "Return the price of the stock at market close yesterday, given the stock ticker name.",
	InputSchema: GenerateSchema[StockInput](),
	Function: func(input json.RawMessage) (string, error) {
		rec, err := lookupStock(input)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(rec.yesterday, 'f', 2, 64), nil
	},
}

var StockNewsDefinition = ToolDefinition{
	Name:        "get_latest_stock_news",
	Description: "Return the latest news related to the stock ticker name.",
	InputSchema: GenerateSchema[StockInput](),
	Function: func(input json.RawMessage) (string, error) {
		rec, err := lookupStock(input)
		if err != nil {
			return "", err
		}
		return rec.news, nil
	},
}

func lookupStock(input json.RawMessage) (stockRecord, error) {
	var in StockInput
	if err := json.Unmarshal(input, &in); err != nil {
		return stockRecord{}, err
	}
	ticker := strings.ToLower(strings.TrimSpace(in.TickerName))
	rec, ok := stockData[ticker]
	if !ok {
		return stockRecord{}, fmt.Errorf("ticker %q not in data", ticker)
	}
	return rec, nil
}
