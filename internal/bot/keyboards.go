package bot

import "orderdesk/internal/domain"

const (
	MenuNewOrder       = "📦 Нове замовлення"
	MenuContactManager = "💬 Зв'язок з менеджером"
	MenuCatalog        = "🌐 Каталог"
	MenuChannel        = "📱 Telegram канал"
)

const (
	cbCancel      = "cancel_order"
	cbConfirmYes  = "confirm_yes"
	cbConfirmNo   = "confirm_no"
	cbSkipComment = "skip_comment"
	cbSkipPhoto   = "skip_photo"
	cbStaffPrefix = "mgr_"
)

const (
	staffConfirm = "confirm"
	staffReject  = "reject"
	staffTTN     = "ttn"
	staffClose   = "close"
)

func menuKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]Button{
		{{Text: MenuNewOrder}},
		{{Text: MenuContactManager}},
		{{Text: MenuCatalog}, {Text: MenuChannel}},
	}}
}

func linksKeyboard(s Settings) *Keyboard {
	var rows [][]Button
	if s.SiteURL != "" {
		rows = append(rows, []Button{{Text: "🌐 Перейти до каталогу", URL: s.SiteURL}})
	}
	if url := s.managerURL(); url != "" {
		rows = append(rows, []Button{{Text: "💬 Написати менеджеру", URL: url}})
	}
	if url := s.channelURL(); url != "" {
		rows = append(rows, []Button{{Text: "📱 Наш канал", URL: url}})
	}
	if len(rows) == 0 {
		return nil
	}
	return &Keyboard{Inline: true, Rows: rows}
}

func cancelKeyboard() *Keyboard {
	return &Keyboard{Inline: true, Rows: [][]Button{
		{{Text: "❌ Скасувати замовлення", Data: cbCancel}},
	}}
}

func commentKeyboard() *Keyboard {
	return &Keyboard{Inline: true, Rows: [][]Button{
		{{Text: "⏭️ Без коментаря", Data: cbSkipComment}},
		{{Text: "❌ Скасувати замовлення", Data: cbCancel}},
	}}
}

func confirmationKeyboard() *Keyboard {
	return &Keyboard{Inline: true, Rows: [][]Button{
		{{Text: "✅ Все вірно", Data: cbConfirmYes}, {Text: "❌ Змінити", Data: cbConfirmNo}},
		{{Text: "❌ Скасувати замовлення", Data: cbCancel}},
	}}
}

func paymentKeyboard(s Settings) *Keyboard {
	var rows [][]Button
	var row []Button
	for _, p := range s.Payments {
		row = append(row, Button{Text: p.Label(), Data: "pay_" + string(p.Method)})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []Button{{Text: "❌ Скасувати замовлення", Data: cbCancel}})
	return &Keyboard{Inline: true, Rows: rows}
}

func proofKeyboard() *Keyboard {
	return &Keyboard{Inline: true, Rows: [][]Button{
		{{Text: "⏭️ Надіслати без скріну", Data: cbSkipPhoto}},
		{{Text: "❌ Скасувати замовлення", Data: cbCancel}},
	}}
}

// staffKeyboard offers the staff actions that the order's state still
// accepts.
func staffKeyboard(order *domain.Order) *Keyboard {
	data := func(action string) string { return cbStaffPrefix + action + "_" + order.ID }

	var first, second []Button
	if domain.CanTransition(order.State, domain.EventStaffConfirmed) {
		first = append(first, Button{Text: "✅ Підтвердити", Data: data(staffConfirm)})
	}
	if domain.CanTransition(order.State, domain.EventStaffRejected) {
		first = append(first, Button{Text: "❌ Відхилити", Data: data(staffReject)})
	}
	if domain.CanTransition(order.State, domain.EventTrackingAttached) {
		second = append(second, Button{Text: "📦 Надіслати ТТН", Data: data(staffTTN)})
	}
	if domain.CanTransition(order.State, domain.EventClosed) {
		second = append(second, Button{Text: "🏁 Закрити", Data: data(staffClose)})
	}

	var rows [][]Button
	for _, row := range [][]Button{first, second} {
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return &Keyboard{Inline: true, Rows: rows}
}
