package bot

const (
	welcomeText = "Привет! 👋 Я бот аквапарка.\n\n" +
		"Помогу купить билеты, расскажу о времени работы и покажу текущую загруженность. " +
		"Выберите действие на клавиатуре ниже."

	mainMenuText = "Выберите действие:"

	infoMenuText = "Что вас интересует?"

	workingHoursText = "🕒 Время работы аквапарка:\n\n" +
		"Пн–Пт: 10:00 – 22:00\n" +
		"Сб–Вс и праздники: 09:00 – 23:00"

	contactsText = "📞 Контакты:\n\n" +
		"Телефон: +7 (800) 555-35-35\n" +
		"Почта: info@aquapark.example\n" +
		"Адрес: г. Примерск, ул. Водная, 1"

	pickDateText = "📅 Выберите дату посещения:"

	pickDateFirstText = "Сначала выберите дату посещения:"

	pickDateAndSessionFirstText = "Сначала выберите дату и сеанс:"

	pickSessionText = "⏰ Доступные сеансы на %s:\n\n%s\nВыберите сеанс:"

	noSessionsText = "На %s свободных сеансов нет. Попробуйте другую дату:"

	pickCategoryText = "Сеанс %s выбран. Какие билеты вас интересуют?"

	noTariffsText = "Для выбранного сеанса нет доступных тарифов. Попробуйте другой сеанс."

	tariffsText = "🎟 Тарифы на %s, сеанс %s:\n\n%s\nДля покупки обратитесь в кассу или на сайт аквапарка."

	loadTextFormat = "📊 Текущая загруженность: %d%%\n%s"

	serviceUnavailableText = "😔 Сервис временно недоступен. Попробуйте, пожалуйста, позже."

	apologyText = "Что-то пошло не так 😔 Попробуйте ещё раз чуть позже."

	notUnderstoodText = "Я вас не понял 🤔 Воспользуйтесь кнопками меню или напишите «Начать»."
)
