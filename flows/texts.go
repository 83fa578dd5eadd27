package flows

// Fixed message texts and menu triggers. The wording (including emoji) is
// part of the bot's contract with its users and is not localized.
const (
	ButtonWeather  = "\U000026C5 Погода"
	ButtonExchange = "\U0001F4B5 Курс валют"
	ButtonAnimals  = "\U0001F436 Милые животные"
	ButtonPoll     = "\U0001F4D2 Опрос"

	WelcomeText = "Привет! \U0001F44B \n\nЯ бот, который может выполнять несколько функций. " +
		"Напиши '" + ButtonWeather + "' для получения погоды в городе.\n" +
		"напиши '" + ButtonExchange + "' для конвертации валюты.\n" +
		"напиши '" + ButtonAnimals + "' для получения милых фотографий животных.\n" +
		"напиши '" + ButtonPoll + "' для создания опросов в групповом чате.\n" +
		"\nИ не забывай про кнопки, так будет удобней!"

	FallbackText = "Я тебя не понимаю! Для получения списка команд нажми: /start"

	// GenericFailText covers any transient provider failure.
	GenericFailText = "\U0001F6AB Что-то пошло не так! Попробуй еще раз."
)

const (
	weatherPromptCity   = "Введи название города:"
	weatherCityNotFound = "\U0001F6AB Название города введено некорректно. Пожалуйста, введи корректное название города!"

	exchangePromptFrom   = "Введи валюту, из который ты хочешь перевести. Например, EUR:"
	exchangePromptTo     = "Введи валюту, в которую ты хочешь перевести. Например, RUB:"
	exchangePromptAmount = "Введи сумму для перевода:"
	exchangeBadAmount    = "\U0001F6AB Сумма должна быть положительным числом. Попробуй еще раз:"

	pollPromptQuestion = "Введите вопрос для опроса:"
	pollPromptCount    = "Введите количество вариантов ответа:"
	pollPromptOptions  = "Введите варианты ответа (каждый вариант ответа на новой строке):"
	pollBadCount       = "\U0001F6AB Количество вариантов ответа должно быть положительным целым числом"
	pollCountMismatch  = "\U0001F6AB Количество вариантов ответа не совпадает с введенным числом"

	emptyInputText = "\U0001F6AB Сообщение не должно быть пустым. Попробуй еще раз:"
)
