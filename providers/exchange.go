package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Conversion is the outcome of a currency conversion. From and To hold the
// currency codes as resolved by the rate provider.
type Conversion struct {
	From   string
	To     string
	Amount float64
	Result float64
}

// Convert converts amount between two currencies via the apilayer
// exchangerates API.
func (c *Client) Convert(ctx context.Context, from, to string, amount float64) (Conversion, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	q.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))

	header := http.Header{}
	header.Set("apikey", c.exchangeKey)

	var resp struct {
		Query struct {
			From   string  `json:"from"`
			To     string  `json:"to"`
			Amount float64 `json:"amount"`
		} `json:"query"`
		Result *float64 `json:"result"`
	}
	if err := c.getJSON(ctx, "apilayer.convert", c.exchangeURL+"?"+q.Encode(), header, &resp); err != nil {
		return Conversion{}, err
	}
	if resp.Result == nil {
		return Conversion{}, fmt.Errorf("apilayer.convert: no result for %s->%s", from, to)
	}
	return Conversion{
		From:   resp.Query.From,
		To:     resp.Query.To,
		Amount: resp.Query.Amount,
		Result: *resp.Result,
	}, nil
}
