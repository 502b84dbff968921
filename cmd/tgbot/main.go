package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"Firebox/internal/calc/heater"
	"Firebox/internal/calc/psychro"
	"Firebox/internal/config"

	log "github.com/sirupsen/logrus"
)

type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int    `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type UpdateResponse struct {
	OK     bool     `json:"ok"`
	Result []Update `json:"result"`
}

type Bot struct {
	Token    string
	Defaults heater.ParameterSet
	Lookup   psychro.Lookup
	Client   *http.Client
}

func main() {
	env := config.LoadEnv()
	if env.TokenBot == "" {
		log.Fatal("TOKEN_BOT missing")
	}
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	log.SetLevel(cfg.Server.Level())
	lookup, err := cfg.Lookup()
	if err != nil {
		log.WithError(err).Fatal("psychrometrics")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bot := &Bot{
		Token:    env.TokenBot,
		Defaults: cfg.Defaults,
		Lookup:   lookup,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
	log.Info("bot started")
	bot.Run(ctx)
	log.Info("bot stopped")
}

// Run long-polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) {
	offset := 0
	for ctx.Err() == nil {
		updates, err := b.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Warn("getUpdates")
			time.Sleep(2 * time.Second)
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			text := b.Reply(u.Message.Text)
			if text == "" {
				continue
			}
			if err := b.sendMessage(ctx, u.Message.Chat.ID, text); err != nil {
				log.WithError(err).WithField("chat", u.Message.Chat.ID).Warn("sendMessage")
			}
		}
	}
}

const usage = "/calc key=value ... runs the heater efficiency calculation on top of the defaults.\n" +
	"/fields lists the keys."

// Reply answers one chat message. Messages that are not commands get no
// reply.
func (b *Bot) Reply(text string) string {
	parts := strings.Fields(text)
	if len(parts) == 0 || !strings.HasPrefix(parts[0], "/") {
		return ""
	}
	cmd := strings.SplitN(parts[0], "@", 2)[0]
	switch cmd {
	case "/start", "/help":
		return usage
	case "/fields":
		var sb strings.Builder
		for _, f := range heater.Fields() {
			fmt.Fprintf(&sb, "%s = %g %s\n", f.Key, f.Value(b.Defaults), f.Unit)
		}
		return sb.String()
	case "/calc":
		values, err := parseAssignments(parts[1:])
		if err != nil {
			return err.Error()
		}
		p, err := heater.Apply(b.Defaults, values)
		if err != nil {
			return err.Error()
		}
		res, err := heater.Calculate(p, b.Lookup)
		if err != nil {
			return err.Error()
		}
		return formatResult(res)
	}
	return "unknown command " + cmd + "\n" + usage
}

func parseAssignments(args []string) (map[string]float64, error) {
	values := make(map[string]float64, len(args))
	for _, a := range args {
		kv := strings.SplitN(a, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("expected key=value, got %q", a)
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(kv[1], ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", kv[0], kv[1])
		}
		values[kv[0]] = v
	}
	return values, nil
}

func formatResult(res heater.Result) string {
	var sb strings.Builder
	for _, row := range res.Rows() {
		fmt.Fprintf(&sb, "%s: %.2f %s\n", row.Description, row.Value, row.Unit)
	}
	warnings := append([]string(nil), res.Warnings...)
	sort.Strings(warnings)
	for _, w := range warnings {
		sb.WriteString("! " + w + "\n")
	}
	return sb.String()
}

func (b *Bot) getUpdates(ctx context.Context, offset int) ([]Update, error) {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/getUpdates?timeout=20&offset=%d", b.Token, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var out UpdateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", b.Token)
	payload, err := json.Marshal(map[string]any{"chat_id": chatID, "text": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := b.Client.Do(req)
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("sendMessage: %s", res.Status)
	}
	return nil
}
