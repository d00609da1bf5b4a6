package bot

import "fmt"

// User-facing texts. Kept in one place so the dispatcher reads as flow
// control only.

func welcomeText(firstName string) string {
	if firstName == "" {
		firstName = "Друг"
	}
	return fmt.Sprintf(
		"✨ Добро пожаловать в JUV, %s!\n\n"+
			"Мы создаем изысканные ювелирные украшения, которые подчеркивают вашу индивидуальность.\n\n"+
			"Используйте /menu для навигации.", firstName)
}

const shopText = "🛍 Добро пожаловать в магазин JUV!\n\nОткройте наш каталог украшений:"

const assistantActivatedText = "🤖 AI-помощник JUV активирован!\n\n" +
	"Я эксперт по ювелирным изделиям. Задайте ваш вопрос:"

const assistantHelpText = "🤖 AI-помощник JUV активирован!\n\n" +
	"Я эксперт по ювелирным изделиям и готов помочь вам с:\n\n" +
	"💎 Выбором украшений\n" +
	"📏 Подбором размера\n" +
	"🔍 Информацией о камнях и металлах\n" +
	"✨ Уходом за украшениями\n" +
	"💰 Ценовыми консультациями\n\n" +
	"Задайте ваш вопрос:"

const assistantStoppedText = "🤖 AI-помощник выключен.\n\n" +
	"Чтобы включить его снова, используйте /assistant."

const assistantNotActiveText = "🤖 AI-помощник сейчас не активен.\n\n" +
	"Включить его можно командой /assistant."

const menuText = "📋 Меню JUV\n\nВыберите нужное действие:"

const helpText = "📋 Доступные команды:\n\n" +
	"🛍 /shop - Открыть магазин\n" +
	"🤖 /assistant - AI-помощник\n" +
	"🔕 /stop - Выключить AI-помощника\n" +
	"📋 /menu - Показать меню\n" +
	"📞 /start - Главное меню\n" +
	"❓ /help - Эта справка\n\n" +
	"Используйте кнопки меню для удобной навигации!"

const infoText = "📋 Справка JUV\n\n" +
	"Кнопки меню:\n" +
	"🛍 Магазин - открывает каталог украшений\n" +
	"🤖 Помощь - чат с AI-консультантом\n" +
	"❓ Справка - эта информация\n\n" +
	"О компании:\n\n" +
	"✨ JUV — маленькая семейная ювелирная мастерская, в которой каждый камень, каждый изгиб и каждая деталь создаются с душой.\n\n" +
	"Мы воплощаем в украшениях не тренды, а истории — ваши и наши.\n\n" +
	"💍 Украшения на заказ\n" +
	"🛠 Ручная работа\n" +
	"💌 Индивидуальный подход"

const idleHintText = "Чтобы задать вопрос AI-помощнику, используйте /assistant.\n" +
	"🛍 Открыть магазин: /menu"

const assistantErrorText = "😔 Извините, произошла ошибка при обработке вашего вопроса.\n\n" +
	"Попробуйте:\n" +
	"• Переформулировать вопрос\n" +
	"• Использовать /assistant для перезапуска\n" +
	"• Связаться с нами напрямую через /shop"

const statsForbiddenText = "❌ Статистика доступна только администратору."

const statsErrorText = "Ошибка при получении статистики."

const unknownCommandText = "Неизвестная команда. Используйте /help для списка команд."

func assistantReplyText(answer string) string {
	return fmt.Sprintf("🤖 %s\n\n"+
		"❓ Есть еще вопросы? Просто напишите их.\n"+
		"🛍 Чтобы открыть магазин, используйте /menu", answer)
}

func statsText(userCount, orderCount, dayActivity int64) string {
	return fmt.Sprintf("📊 Статистика JUV:\n\n"+
		"👥 Пользователей: %d\n"+
		"🛒 Заказов: %d\n"+
		"📋 Активность (24ч): %d", userCount, orderCount, dayActivity)
}

func shopKeyboard(webAppURL string) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "Открыть магазин", WebApp: &WebAppInfo{URL: webAppURL}}},
		},
	}
}

func menuKeyboard(webAppURL string, isAdmin bool) *InlineKeyboardMarkup {
	rows := [][]InlineKeyboardButton{
		{{Text: "🛍 Магазин", WebApp: &WebAppInfo{URL: webAppURL}}},
		{{Text: "🤖 Помощь", CallbackData: "help_assistant"}},
	}
	if isAdmin {
		rows = append(rows, []InlineKeyboardButton{{Text: "📊 Статистика", CallbackData: "stats"}})
	}
	rows = append(rows, []InlineKeyboardButton{{Text: "❓ Справка", CallbackData: "info"}})
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}
