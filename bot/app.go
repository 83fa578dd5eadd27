// Package bot assembles the application: provider gateway, flow
// definitions, session store and dispatcher, and binds them to the
// Telegram transport.
package bot

import (
	"context"
	"log/slog"
	"time"

	coreconfig "funbot/core/config"
	"funbot/core/flow"
	"funbot/core/logger"
	"funbot/core/session"
	"funbot/core/telegram"
	tghelpers "funbot/core/telegram/helpers"
	"funbot/core/telegram/keyboard"
	"funbot/dispatch"
	"funbot/flows"
	"funbot/providers"

	tele "gopkg.in/telebot.v4"
)

// App holds the assembled bot components.
type App struct {
	gateway    *providers.Client
	sessions   *session.Store
	dispatcher *dispatch.Dispatcher
	menu       *tele.ReplyMarkup
}

// New wires the application from configuration.
func New(cfg *coreconfig.Config) *App {
	gateway := providers.New(providers.Config{
		WeatherAPIKey:  cfg.Providers.WeatherAPIKey,
		ExchangeAPIKey: cfg.Providers.ExchangeAPIKey,
		Timeout:        time.Duration(cfg.Providers.TimeoutSeconds) * time.Second,
	})

	defs := flows.Definitions(gateway)
	engine := flow.NewEngine(defs, flows.FallbackText)
	sessions := session.New(time.Duration(cfg.Sessions.TTLMinutes) * time.Minute)

	app := &App{
		gateway:  gateway,
		sessions: sessions,
		menu: keyboard.ReplyButtons(
			[]string{flows.ButtonWeather, flows.ButtonExchange},
			[]string{flows.ButtonAnimals, flows.ButtonPoll},
		),
	}

	app.dispatcher = dispatch.New(dispatch.Options{
		Store:        sessions,
		Engine:       engine,
		Commands:     app.commandTable(),
		WelcomeText:  flows.WelcomeText,
		FallbackText: flows.FallbackText,
		FailText:     flows.GenericFailText,
	})

	return app
}

// commandTable maps slash commands and menu button labels to actions.
// Button labels trigger the same actions as their commands.
func (a *App) commandTable() map[string]dispatch.Command {
	animals := dispatch.Command{Run: a.randomAnimal}
	return map[string]dispatch.Command{
		"/start": {Help: true},
		"/help":  {Help: true},

		"/weather":          {Kind: flows.KindWeather},
		flows.ButtonWeather: {Kind: flows.KindWeather},

		"/exchange":          {Kind: flows.KindExchange},
		flows.ButtonExchange: {Kind: flows.KindExchange},

		"/polls":         {Kind: flows.KindPoll},
		flows.ButtonPoll: {Kind: flows.KindPoll},

		"/animals":          animals,
		flows.ButtonAnimals: animals,
	}
}

func (a *App) randomAnimal(ctx context.Context) (flow.Effect, error) {
	data, err := a.gateway.RandomAnimalImage(ctx)
	if err != nil {
		return nil, err
	}
	return flow.SendPhoto{Data: data}, nil
}

// Routes declares the bot's handlers. All text goes through a single
// endpoint so that an in-progress dialog always sees the raw message,
// command keywords included.
func (a *App) Routes() []telegram.Route {
	return []telegram.Route{
		{Endpoint: tele.OnText, Handler: a.handleText},
	}
}

// Commands returns the menu published via setMyCommands.
func (a *App) Commands() []tele.Command {
	return []tele.Command{
		{Text: "start", Description: "Список функций бота"},
		{Text: "weather", Description: "Погода в городе"},
		{Text: "exchange", Description: "Конвертация валюты"},
		{Text: "animals", Description: "Случайное фото животного"},
		{Text: "polls", Description: "Создание опроса"},
	}
}

// Close releases background resources.
func (a *App) Close() {
	a.sessions.Close()
}

func (a *App) handleText(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	ctx := tghelpers.WithHandler(c, "text")
	start := time.Now()

	eff := a.dispatcher.Handle(ctx, user.ID, c.Text())
	err := a.render(c, eff)

	logger.Info(ctx, "tg", "handler.done",
		slog.String("handler", "text"),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.Took(start)),
	)
	return err
}

// render realizes one effect through the async sender helpers.
func (a *App) render(c tele.Context, eff flow.Effect) error {
	switch e := eff.(type) {
	case flow.SendText:
		if e.Menu {
			return tghelpers.SendText(c, e.Text, &tele.SendOptions{ReplyMarkup: a.menu})
		}
		return tghelpers.SendText(c, e.Text)

	case flow.SendPhoto:
		return tghelpers.SendPhoto(c, photoFromBytes(e.Data))

	case flow.SendPoll:
		poll := &tele.Poll{
			Type:            tele.PollRegular,
			Question:        e.Question,
			Anonymous:       e.Anonymous,
			MultipleAnswers: e.MultipleAnswers,
		}
		poll.AddOptions(e.Options...)
		return tghelpers.SendPoll(c, poll)

	default:
		return nil
	}
}
