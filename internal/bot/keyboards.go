package bot

import (
	"time"

	"akvabot/internal/vk"
)

// Button labels double as routing triggers, so they are defined once.
const (
	btnStart     = "🚀 Начать"
	btnTickets   = "🎟 Купить билеты"
	btnLoad      = "📊 Загруженность"
	btnInfo      = "ℹ️ Информация"
	btnHours     = "🕒 Время работы"
	btnContacts  = "📞 Контакты"
	btnBack      = "🔙 Назад"
	btnToSlots   = "🔙 К сеансам"
	btnToStart   = "🔙 В начало"
	btnAdult     = "🧑 Взрослые билеты"
	btnChild     = "🧒 Детские билеты"

	datePrefix = "📅 "
	timePrefix = "⏰ "

	dateLayout = "02.01.2006"

	datePickerDays = 7
)

func mainMenuKeyboard() *vk.Keyboard {
	return &vk.Keyboard{
		Buttons: [][]vk.Button{
			vk.Row(vk.TextButton(btnTickets, "tickets", vk.ColorPrimary)),
			vk.Row(
				vk.TextButton(btnLoad, "load", vk.ColorSecondary),
				vk.TextButton(btnInfo, "info", vk.ColorSecondary),
			),
		},
	}
}

func infoMenuKeyboard() *vk.Keyboard {
	return &vk.Keyboard{
		Buttons: [][]vk.Button{
			vk.Row(
				vk.TextButton(btnHours, "hours", vk.ColorSecondary),
				vk.TextButton(btnContacts, "contacts", vk.ColorSecondary),
			),
			vk.Row(vk.TextButton(btnBack, "back", vk.ColorNegative)),
		},
	}
}

// dateKeyboard offers today plus the following days, two per row.
func dateKeyboard(now time.Time) *vk.Keyboard {
	kb := &vk.Keyboard{}
	var row []vk.Button
	for i := 0; i < datePickerDays; i++ {
		label := datePrefix + now.AddDate(0, 0, i).Format(dateLayout)
		row = append(row, vk.TextButton(label, "", vk.ColorPrimary))
		if len(row) == 2 {
			kb.Buttons = append(kb.Buttons, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.Buttons = append(kb.Buttons, row)
	}
	kb.Buttons = append(kb.Buttons, vk.Row(vk.TextButton(btnToStart, "to_start", vk.ColorNegative)))
	return kb
}

// sessionKeyboard lists available time slots, three per row.
func sessionKeyboard(slots []string) *vk.Keyboard {
	kb := &vk.Keyboard{}
	var row []vk.Button
	for _, slot := range slots {
		row = append(row, vk.TextButton(timePrefix+slot, "", vk.ColorPrimary))
		if len(row) == 3 {
			kb.Buttons = append(kb.Buttons, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.Buttons = append(kb.Buttons, row)
	}
	kb.Buttons = append(kb.Buttons, vk.Row(vk.TextButton(btnToStart, "to_start", vk.ColorNegative)))
	return kb
}

func categoryKeyboard() *vk.Keyboard {
	return &vk.Keyboard{
		Buttons: [][]vk.Button{
			vk.Row(
				vk.TextButton(btnAdult, "category_adult", vk.ColorPrimary),
				vk.TextButton(btnChild, "category_child", vk.ColorPrimary),
			),
			vk.Row(
				vk.TextButton(btnToSlots, "to_sessions", vk.ColorSecondary),
				vk.TextButton(btnToStart, "to_start", vk.ColorNegative),
			),
		},
	}
}

// purchaseKeyboard is shown alongside a tariff list.
func purchaseKeyboard() *vk.Keyboard {
	return &vk.Keyboard{
		Buttons: [][]vk.Button{
			vk.Row(
				vk.TextButton(btnAdult, "category_adult", vk.ColorSecondary),
				vk.TextButton(btnChild, "category_child", vk.ColorSecondary),
			),
			vk.Row(
				vk.TextButton(btnToSlots, "to_sessions", vk.ColorSecondary),
				vk.TextButton(btnToStart, "to_start", vk.ColorNegative),
			),
		},
	}
}
