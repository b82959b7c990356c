package bot

import (
	"strings"

	"orderdesk/internal/config"
	"orderdesk/internal/domain"
)

type Settings struct {
	OrdersChatID    int64
	ManagerUsername string
	SiteURL         string
	Channel         string
	Payments        []PaymentOption
}

type PaymentOption struct {
	Method domain.PaymentMethod
	Name   string
	Card   string
	Holder string

	// Invoice details, only for the FOP method.
	Recipient string
	EDRPOU    string
	MFO       string
	Account   string
	Bank      string
}

// Label is the button caption, also accepted when typed by hand.
func (p PaymentOption) Label() string {
	if p.Method.IsInvoice() {
		return "🏢 ФОП"
	}
	return "💳 " + p.Name
}

func NewSettings(bot config.BotConfig, pay config.PaymentConfig) Settings {
	return Settings{
		OrdersChatID:    bot.OrdersChatID,
		ManagerUsername: strings.TrimPrefix(bot.ManagerUsername, "@"),
		SiteURL:         bot.SiteURL,
		Channel:         strings.TrimPrefix(bot.Channel, "@"),
		Payments: []PaymentOption{
			{Method: domain.PaymentPrivat, Name: "ПриватБанк", Card: pay.PrivatCard, Holder: pay.CardHolder},
			{Method: domain.PaymentPUMB, Name: "ПУМБ", Card: pay.PUMBCard, Holder: pay.CardHolder},
			{Method: domain.PaymentABank, Name: "A-Bank", Card: pay.ABankCard, Holder: pay.CardHolder},
			{
				Method:    domain.PaymentFOP,
				Name:      "ФОП (безготівковий розрахунок)",
				Recipient: pay.FOPName,
				EDRPOU:    pay.FOPEDRPOU,
				MFO:       pay.FOPMFO,
				Account:   pay.FOPAccount,
				Bank:      pay.FOPBank,
			},
		},
	}
}

func (s Settings) Payment(method domain.PaymentMethod) (PaymentOption, bool) {
	for _, p := range s.Payments {
		if p.Method == method {
			return p, true
		}
	}
	return PaymentOption{}, false
}

// PaymentByInput resolves a method from a button callback ("pay_privat") or a
// typed label.
func (s Settings) PaymentByInput(input string) (PaymentOption, bool) {
	input = strings.TrimSpace(input)
	if method, ok := strings.CutPrefix(input, "pay_"); ok {
		return s.Payment(domain.PaymentMethod(method))
	}
	for _, p := range s.Payments {
		if strings.EqualFold(input, p.Label()) || strings.EqualFold(input, p.Name) || strings.EqualFold(input, string(p.Method)) {
			return p, true
		}
	}
	return PaymentOption{}, false
}

func (s Settings) managerHandle() string {
	if s.ManagerUsername == "" {
		return "менеджер"
	}
	return "@" + s.ManagerUsername
}

func (s Settings) managerURL() string {
	if s.ManagerUsername == "" {
		return ""
	}
	return "https://t.me/" + s.ManagerUsername
}

func (s Settings) channelHandle() string {
	if s.Channel == "" {
		return ""
	}
	return "@" + s.Channel
}

func (s Settings) channelURL() string {
	if s.Channel == "" {
		return ""
	}
	return "https://t.me/" + s.Channel
}
