package report

import (
	"fmt"
	"strings"

	"cellar/models"
)

// MakeStatsReport - текстовая сводка по каталогу для `cellar report`
func MakeStatsReport(owner string, stats models.ProductStats, year *int) string {
	var message strings.Builder

	message.WriteString(fmt.Sprintf("Каталог пользователя %s\n", owner))
	if year != nil {
		message.WriteString(fmt.Sprintf("Траты за %d год\n", *year))
	}
	message.WriteString("\n")
	message.WriteString(fmt.Sprintf("Всего позиций:   %d\n", stats.TotalCount))
	message.WriteString(fmt.Sprintf("Понравилось:     %d\n", stats.TotalLiked))
	message.WriteString(fmt.Sprintf("Куплено бутылок: %d\n", stats.TotalItems))
	message.WriteString(fmt.Sprintf("Потрачено:       %s\n", stats.TotalSpent.StringFixed(2)))

	if len(stats.YearlyStats) == 0 {
		message.WriteString("\nНет покупок с датой")
		return message.String()
	}

	message.WriteString("\nГод | Покупок | Потрачено\n")
	message.WriteString("-------------------------\n")
	for _, y := range stats.YearlyStats {
		message.WriteString(fmt.Sprintf("%d | %d | %s\n", y.Year, y.Count, y.Spent.StringFixed(2)))
	}
	return message.String()
}

// MakeOrdersReport - сводка по заказам
func MakeOrdersReport(stats models.OrderStats) string {
	var message strings.Builder
	message.WriteString("Заказы\n")
	message.WriteString(fmt.Sprintf("Всего: %d, ожидают: %d, забраны: %d\n",
		stats.TotalOrders, stats.PendingOrders, stats.CollectedOrders))
	message.WriteString(fmt.Sprintf("Сумма заказов: %s\n", stats.TotalSpent.StringFixed(2)))
	return message.String()
}
