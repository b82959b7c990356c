package bot

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"orderdesk/internal/domain"
)

// Chat texts are HTML; everything that came from a user goes through esc.
func esc(s string) string { return html.EscapeString(s) }

func money(amount int64) string {
	return strconv.FormatInt(amount, 10) + " грн"
}

func itemsText(order *domain.Order) string {
	var b strings.Builder
	for i, item := range order.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		sku := item.SKU
		if sku == "" {
			sku = "—"
		}
		fmt.Fprintf(&b, "%d. %s\n   SKU: %s | %d шт × %s = %s",
			i+1, esc(item.Name), esc(sku), item.Quantity, money(item.UnitPrice), money(item.LineTotal()))
	}
	return b.String()
}

func welcomeText(u Update, s Settings) string {
	name := u.FirstName
	if name == "" {
		name = "друже"
	}
	return fmt.Sprintf("👋 Вітаємо, <b>%s</b>!\n\n"+
		"Я бот магазину. 🔹 Щоб оформити замовлення, перейдіть на сайт, додайте товари в кошик "+
		"і натисніть «Оформити замовлення».\n\n"+
		"🔹 Або зв'яжіться з менеджером напряму: %s",
		esc(name), esc(s.managerHandle()))
}

func howToOrderText(s Settings) string {
	return fmt.Sprintf("🛒 Щоб оформити замовлення:\n\n"+
		"1️⃣ Перейдіть на сайт %s\n"+
		"2️⃣ Додайте товари в кошик\n"+
		"3️⃣ Натисніть «Оформити замовлення»\n\n"+
		"Бот автоматично отримає ваше замовлення!", esc(s.SiteURL))
}

func contactManagerText(s Settings) string {
	return fmt.Sprintf("📞 Наш менеджер: %s\n\n"+
		"Напишіть йому напряму для консультації або уточнення деталей замовлення.", esc(s.managerHandle()))
}

func catalogText(s Settings) string {
	return "🌐 Перейти до каталогу:\n" + esc(s.SiteURL)
}

func channelText(s Settings) string {
	return fmt.Sprintf("📱 Наш Telegram канал: %s\n\nПідписуйтесь, щоб бути в курсі новинок!", esc(s.channelHandle()))
}

const (
	chooseActionText   = "Оберіть дію:"
	idleHintText       = "Оберіть дію з меню або оформіть замовлення на сайті."
	askFirstNameText   = "Введіть ваше <b>ім'я</b>:"
	shortFirstNameText = "❌ Ім'я занадто коротке. Введіть ваше ім'я:"
	shortLastNameText  = "❌ Прізвище занадто коротке. Введіть ваше прізвище:"
	shortCityText      = "❌ Вкажіть місто та відділення НП:"
	invalidPhoneText   = "❌ Невірний формат номера.\n\n" +
		"Введіть номер у форматі:\n" +
		"• +380XXXXXXXXX\n" +
		"• 380XXXXXXXXX\n" +
		"• 0XXXXXXXXX"
	restartContactText = "🔄 Давайте введемо дані заново.\n\n" + askFirstNameText
	confirmHintText    = "Натисніть «✅ Все вірно» або «❌ Змінити»."
	unknownPaymentText = "Оберіть спосіб оплати кнопкою нижче."
	proofHintText      = "📸 Надішліть скріншот оплати або натисніть «Надіслати без скріну»."
	photoNotNowText    = "📸 Скріншот оплати приймається лише після вибору способу оплати."
	cancelledText      = "❌ Замовлення скасовано.\n\nВи можете оформити нове замовлення на сайті."
	nothingToCancel    = "Немає активного замовлення."
	submitFailedText   = "⚠️ Не вдалося зберегти замовлення. Спробуйте надіслати ще раз."
	invalidTrackingTxt = "❌ Невірний формат ТТН. Введіть 14 цифр:"
	staffOnlyText      = "⚠️ Ця дія доступна лише в чаті замовлень."
)

func cartText(order *domain.Order) string {
	return fmt.Sprintf("🛒 <b>Ваше замовлення:</b>\n\n%s\n\n💰 <b>Загальна сума:</b> %s\n\n"+
		"Для оформлення замовлення, будь ласка, введіть ваше <b>ім'я</b>:",
		itemsText(order), money(order.Total))
}

func askLastNameText(first string) string {
	return fmt.Sprintf("✅ Ім'я: <b>%s</b>\n\nТепер введіть ваше <b>прізвище</b>:", esc(first))
}

func askPhoneText(last string) string {
	return fmt.Sprintf("✅ Прізвище: <b>%s</b>\n\nВведіть ваш <b>номер телефону</b> у форматі +380XXXXXXXXX:", esc(last))
}

func askCityText(phone string) string {
	return fmt.Sprintf("✅ Телефон: <b>%s</b>\n\n"+
		"Введіть <b>місто</b> та <b>відділення Нової Пошти</b> для доставки:\n"+
		"<i>(наприклад: Київ, відділення №25)</i>", esc(phone))
}

func askCommentText(city string) string {
	return fmt.Sprintf("✅ Доставка: <b>%s</b>\n\n"+
		"Додайте <b>коментар</b> до замовлення або надішліть «-», щоб пропустити:", esc(city))
}

func summaryText(order *domain.Order) string {
	var b strings.Builder
	b.WriteString("📋 <b>Перевірте дані замовлення:</b>\n\n")
	if c := order.Contact; c != nil {
		fmt.Fprintf(&b, "👤 <b>Клієнт:</b>\n   Ім'я: %s\n   Телефон: %s\n\n", esc(c.FullName()), esc(c.Phone))
		fmt.Fprintf(&b, "📦 <b>Доставка:</b>\n   %s\n\n", esc(c.City))
		if c.Comment != "" {
			fmt.Fprintf(&b, "💬 <b>Коментар:</b> %s\n\n", esc(c.Comment))
		}
	}
	fmt.Fprintf(&b, "🛒 <b>Товари:</b>\n%s\n\n💰 <b>Сума:</b> %s", itemsText(order), money(order.Total))
	return b.String()
}

func choosePaymentText(order *domain.Order) string {
	return fmt.Sprintf("📋 <b>Замовлення підтверджено!</b>\n\n💰 Сума до оплати: <b>%s</b>\n\nОберіть спосіб оплати:",
		money(order.Total))
}

func paymentDetailsText(p PaymentOption, total int64) string {
	if p.Method.IsInvoice() {
		return fmt.Sprintf("🏢 <b>Безготівковий розрахунок (ФОП)</b>\n\n"+
			"<b>Реквізити для оплати:</b>\n"+
			"▫️ Отримувач: %s\n"+
			"▫️ ЄДРПОУ: <code>%s</code>\n"+
			"▫️ МФО: <code>%s</code>\n"+
			"▫️ Р/р: <code>%s</code>\n"+
			"▫️ Банк: %s\n\n"+
			"💰 <b>Сума:</b> %s\n"+
			"📝 <b>Призначення:</b> Оплата за товар\n\n"+
			"Після оплати надішліть скріншот платіжки 👇",
			esc(p.Recipient), esc(p.EDRPOU), esc(p.MFO), esc(p.Account), esc(p.Bank), money(total))
	}
	return fmt.Sprintf("💳 <b>%s</b>\n\n"+
		"<b>Реквізити для оплати:</b>\n"+
		"▫️ Картка: <code>%s</code>\n"+
		"▫️ Отримувач: %s\n\n"+
		"💰 <b>Сума:</b> %s\n\n"+
		"Після оплати надішліть скріншот чеку 👇",
		esc(p.Name), esc(p.Card), esc(p.Holder), money(total))
}

func acceptedText(order *domain.Order, s Settings) string {
	return fmt.Sprintf("✅ <b>Замовлення #%s прийнято!</b>\n\n"+
		"Менеджер перевірить оплату і зв'яжеться з вами.\n\n"+
		"📞 Для термінових питань: %s", esc(order.ID), esc(s.managerHandle()))
}

// acceptedFallbackText is sent when the order was stored but the staff chat
// could not be reached.
func acceptedFallbackText(order *domain.Order, s Settings) string {
	return fmt.Sprintf("✅ Замовлення #%s збережено.\n\n"+
		"Щоб пришвидшити обробку, напишіть менеджеру: %s", esc(order.ID), esc(s.managerHandle()))
}

// StaffSummary is the message posted to the orders chat for a submitted
// order.
func StaffSummary(order *domain.Order, s Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 <b>НОВЕ ЗАМОВЛЕННЯ #%s</b>\n\n", esc(order.ID))

	username := order.CustomerUsername
	if username == "" {
		username = "немає"
	} else {
		username = "@" + username
	}
	if c := order.Contact; c != nil {
		fmt.Fprintf(&b, "👤 <b>Клієнт:</b>\n├ Ім'я: %s\n├ Телефон: %s\n├ Місто: %s\n", esc(c.FullName()), esc(c.Phone), esc(c.City))
		if c.Comment != "" {
			fmt.Fprintf(&b, "├ Коментар: %s\n", esc(c.Comment))
		}
	}
	fmt.Fprintf(&b, "└ Telegram: %s (ID: %d)\n\n", esc(username), order.CustomerChatID)

	paymentName := string(order.PaymentMethod)
	if p, ok := s.Payment(order.PaymentMethod); ok {
		paymentName = p.Name
	}
	proof := "немає"
	if order.PaymentProof != "" {
		proof = "є"
	}

	fmt.Fprintf(&b, "🛒 <b>Товари:</b>\n%s\n\n", itemsText(order))
	fmt.Fprintf(&b, "💰 <b>Сума:</b> %s\n💳 <b>Оплата:</b> %s\n📸 <b>Скрін:</b> %s", money(order.Total), esc(paymentName), proof)
	if !order.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "\n\n⏰ <b>Дата:</b> %s", order.CreatedAt.Format("02.01.2006 о 15:04"))
	}
	return b.String()
}

func customerConfirmedText(order *domain.Order) string {
	return fmt.Sprintf("✅ <b>Оплата замовлення #%s підтверджена!</b>\n\n"+
		"Очікуйте ТТН для відстеження посилки.\nДякуємо за покупку! 🎉", esc(order.ID))
}

func customerRejectedText(order *domain.Order, s Settings) string {
	return fmt.Sprintf("⚠️ <b>Замовлення #%s потребує уточнення</b>\n\n"+
		"Менеджер зв'яжеться з вами найближчим часом.\nАбо напишіть самі: %s", esc(order.ID), esc(s.managerHandle()))
}

func customerShippedText(order *domain.Order) string {
	return fmt.Sprintf("📦 <b>Ваше замовлення #%s відправлено!</b>\n\n"+
		"ТТН Нової Пошти: <code>%s</code>\n\n"+
		"Відстежити посилку:\nhttps://novaposhta.ua/tracking/?cargo_number=%s",
		esc(order.ID), order.TrackingID, order.TrackingID)
}

func staffAckText(order *domain.Order) string {
	switch order.State {
	case domain.StateConfirmed:
		return fmt.Sprintf("✅ Замовлення #%s <b>ПІДТВЕРДЖЕНО</b>, клієнта повідомлено.", esc(order.ID))
	case domain.StateNeedsClarification:
		return fmt.Sprintf("❌ Замовлення #%s <b>ПОТРЕБУЄ УТОЧНЕННЯ</b>, клієнта повідомлено.", esc(order.ID))
	case domain.StateShipped:
		return fmt.Sprintf("✅ ТТН %s надіслано клієнту (замовлення #%s).", order.TrackingID, esc(order.ID))
	case domain.StateClosed:
		return fmt.Sprintf("🏁 Замовлення #%s закрито.", esc(order.ID))
	}
	return fmt.Sprintf("Замовлення #%s: %s", esc(order.ID), order.State)
}

func askTrackingText(orderID string) string {
	return fmt.Sprintf("📦 Введіть номер ТТН для замовлення #%s:\n<i>(14 цифр)</i>", esc(orderID))
}

func staffFailedText(orderID string, err error) string {
	return fmt.Sprintf("⚠️ Замовлення #%s: %s", esc(orderID), esc(err.Error()))
}

func customerUnreachableText(order *domain.Order) string {
	return fmt.Sprintf("⚠️ Не вдалося повідомити клієнта про замовлення #%s.", esc(order.ID))
}
