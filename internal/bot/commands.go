// internal/bot/commands.go
package bot

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/metrics"
	"bayup-finance/internal/money"
	"bayup-finance/internal/pricing"
	"bayup-finance/internal/report"
	"bayup-finance/internal/storage"
	val "bayup-finance/internal/validator"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/encoding/charmap"
)

const helpText = "📊 *Bayup Finanzas*\n\n" +
	"Comandos:\n" +
	"`/margin 120.000 60.000` — margen de un precio y costo\n" +
	"`/margin 120.000 60.000 gw` — incluyendo pasarela de pago\n" +
	"`/report` — resumen del mes actual\n" +
	"`/report 2025-03` — resumen de un mes\n" +
	"`/pending` — registros pendientes"

// maxPendingLines limits /pending so the reply stays under Telegram's message size.
const maxPendingLines = 10

// Commands answers text commands. The Telegram user id is the merchant id.
type Commands struct {
	store storage.RecordStorage
	calc  *pricing.Calculator
	f     *money.Formatter
	now   func() time.Time
}

func NewCommands(store storage.RecordStorage, calc *pricing.Calculator, f *money.Formatter) *Commands {
	return &Commands{store: store, calc: calc, f: f, now: time.Now}
}

// Handle returns the reply for one message. Errors are already turned into text.
func (b *Commands) Handle(ctx context.Context, merchantID int64, text string) string {
	fields := strings.Fields(fixEncoding(text))
	if len(fields) == 0 {
		return "Comando desconocido. Escribe /help"
	}

	// "/report@BayupBot" в группах
	cmd, _, _ := strings.Cut(fields[0], "@")
	args := fields[1:]

	var (
		reply string
		err   error
	)
	switch cmd {
	case "/start", "/help":
		reply = helpText
	case "/margin":
		reply = b.margin(args)
	case "/report":
		reply, err = b.report(ctx, merchantID, args)
	case "/pending":
		reply, err = b.pending(ctx, merchantID)
	default:
		return "Comando desconocido. Escribe /help"
	}
	metrics.BotCommands.WithLabelValues(strings.TrimPrefix(cmd, "/")).Inc()

	if err != nil {
		return "❌ Error: " + esc(err.Error())
	}
	return reply
}

func (b *Commands) margin(args []string) string {
	if len(args) < 2 {
		return "❌ Usa: /margin <precio> <costo> [gw]"
	}
	price, err := money.ParseField("precio", args[0])
	if err != nil {
		return "❌ Precio inválido: " + esc(args[0])
	}
	cost, err := money.ParseField("costo", args[1])
	if err != nil {
		return "❌ Costo inválido: " + esc(args[1])
	}
	gateway := len(args) > 2 && isGatewayFlag(args[2])

	m := b.calc.Margin(domain.PriceTier{Price: price, Cost: cost, GatewayFeeEnabled: gateway})
	metrics.MarginsComputed.WithLabelValues("bot").Inc()

	lines := []string{
		"💰 *Margen*",
		"Precio: " + b.f.Currency(price),
		"Costo: " + b.f.Currency(cost),
		"Comisión plataforma: " + b.f.CurrencyDecimal(m.PlatformFee),
	}
	if gateway {
		lines = append(lines, "Pasarela de pago: "+b.f.CurrencyDecimal(m.GatewayFee))
	}
	lines = append(lines,
		"Ganancia neta: *"+b.f.CurrencyDecimal(m.NetProfit)+"*",
		"Margen: *"+b.f.Percent(m.MarginPercent)+"*",
	)
	return strings.Join(lines, "\n")
}

func isGatewayFlag(s string) bool {
	switch strings.ToLower(s) {
	case "gw", "pasarela", "si", "sí", "1", "true":
		return true
	}
	return false
}

func (b *Commands) report(ctx context.Context, merchantID int64, args []string) (string, error) {
	month := b.now().Format("2006-01")
	if len(args) > 0 {
		month = args[0]
		if err := val.Validate.Var(month, "yearmonth"); err != nil {
			return "❌ Usa: /report AAAA-MM", nil
		}
	}
	rng, err := report.MonthRange(month)
	if err != nil {
		return "❌ Usa: /report AAAA-MM", nil
	}

	records, err := b.store.ListRecords(ctx, merchantID, "")
	if err != nil {
		return "", err
	}
	totals := report.Aggregate(report.FilterRecords(records, report.Filter{DateRange: rng}))
	metrics.ReportsGenerated.WithLabelValues("bot").Inc()
	if totals.Count == 0 {
		return "📭 Sin registros en " + month, nil
	}

	lines := []string{
		fmt.Sprintf("📊 *Resumen %s*", month),
		fmt.Sprintf("Registros: %d", totals.Count),
		"Total: *" + b.f.Currency(totals.Total) + "*",
		"Pendiente: " + b.f.Currency(totals.PendingTotal),
		"",
	}
	cats := make([]string, 0, len(totals.ByCategory))
	for c := range totals.ByCategory {
		cats = append(cats, c)
	}
	slices.Sort(cats)
	for _, c := range cats {
		lines = append(lines, "- "+esc(report.CategoryLabel(c))+": "+b.f.Currency(totals.ByCategory[c]))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Commands) pending(ctx context.Context, merchantID int64) (string, error) {
	records, err := b.store.ListRecords(ctx, merchantID, "")
	if err != nil {
		return "", err
	}
	var open []domain.FinancialRecord
	for _, r := range records {
		if !r.Status.Settled() {
			open = append(open, r)
		}
	}
	if len(open) == 0 {
		return "✅ No hay registros pendientes", nil
	}

	totals := report.Aggregate(open)
	lines := []string{
		fmt.Sprintf("⏳ *Pendientes: %d*", totals.Count),
		"Total: *" + b.f.Currency(totals.PendingTotal) + "*",
		"",
	}
	for i, r := range report.Sort(open, report.SortDateAsc) {
		if i == maxPendingLines {
			lines = append(lines, fmt.Sprintf("... y %d más", len(open)-maxPendingLines))
			break
		}
		lines = append(lines, fmt.Sprintf("- %s %s: %s (%s)",
			report.FormatDate(r.Date), esc(r.Description), b.f.Currency(r.Amount), report.StatusLabel(r.Status)))
	}
	return strings.Join(lines, "\n"), nil
}

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// fixEncoding чинит текст, пришедший в windows-1251 вместо UTF-8.
func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	decoder := charmap.Windows1251.NewDecoder()
	fixed, err := decoder.String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}

	return strings.ToValidUTF8(s, "")
}
