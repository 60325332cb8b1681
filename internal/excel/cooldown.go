package excel

import (
	"fmt"
	"time"
)

// ExportCooldownDays минимальный интервал между выгрузками отчёта
const ExportCooldownDays = 30

// ExportCooldownError выгрузка пока недоступна
type ExportCooldownError struct {
	RemainingDays int
}

func (e *ExportCooldownError) Error() string {
	return fmt.Sprintf("отчёт можно получать раз в %d дней, осталось дней: %d", ExportCooldownDays, e.RemainingDays)
}

// CheckCooldown проверяет, прошло ли 30 полных дней с прошлой выгрузки.
// Без прошлой выгрузки отчёт доступен сразу.
func CheckCooldown(lastExport *time.Time, now time.Time) error {
	if lastExport == nil {
		return nil
	}
	elapsed := int(now.Sub(*lastExport).Hours() / 24)
	if elapsed >= ExportCooldownDays {
		return nil
	}
	return &ExportCooldownError{RemainingDays: ExportCooldownDays - max(elapsed, 0)}
}
