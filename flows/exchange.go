package flows

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"funbot/core/flow"
)

func exchangeDefinition(gw Gateway) flow.Definition {
	return flow.Definition{
		Kind: KindExchange,
		Steps: []flow.Step{
			{
				Field:    "fromCurrency",
				Prompt:   exchangePromptFrom,
				Validate: nonEmpty(emptyInputText),
			},
			{
				Field:    "toCurrency",
				Prompt:   exchangePromptTo,
				Validate: nonEmpty(emptyInputText),
			},
			{
				Field:    "amount",
				Prompt:   exchangePromptAmount,
				Validate: validAmount,
				Terminal: true,
			},
		},
		Finish: func(ctx context.Context, data map[string]string) (flow.Effect, error) {
			amount, err := strconv.ParseFloat(data["amount"], 64)
			if err != nil {
				return nil, fmt.Errorf("amount %q: %w", data["amount"], err)
			}
			conv, err := gw.Convert(ctx, data["fromCurrency"], data["toCurrency"], amount)
			if err != nil {
				return nil, err
			}
			text := fmt.Sprintf("%s %s равны %.2f %s", data["amount"], conv.From, conv.Result, conv.To)
			return flow.SendText{Text: text}, nil
		},
		AbortText: GenericFailText,
	}
}

// validAmount accepts a positive number and stores it in canonical form.
func validAmount(input string, _ map[string]string) (string, error) {
	trimmed := strings.TrimSpace(input)
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || amount <= 0 {
		return "", flow.Invalid(exchangeBadAmount)
	}
	return trimmed, nil
}
