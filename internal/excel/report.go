package excel

import (
	"fmt"
	"sort"
	"time"

	"fitmind/internal/models"
	"fitmind/internal/training"

	"github.com/xuri/excelize/v2"
)

const (
	SheetProgress  = "Прогресс"
	SheetProfile   = "Анкета"
	ReportFileName = "fitmind_report.xlsx"
)

// Report готовый файл отчёта
type Report struct {
	FileName string
	Data     []byte
}

// BuildReport собирает отчёт: динамика веса по датам и анкета пользователя
func BuildReport(profile *models.UserProfile, logs []models.WeightLogEntry, loc *time.Location) (*Report, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	// Лист по умолчанию переименовываем в лист прогресса
	if err := f.SetSheetName("Sheet1", SheetProgress); err != nil {
		return nil, fmt.Errorf("ошибка создания листа %s: %w", SheetProgress, err)
	}
	if _, err := f.NewSheet(SheetProfile); err != nil {
		return nil, fmt.Errorf("ошибка создания листа %s: %w", SheetProfile, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания стиля: %w", err)
	}

	if err := writeProgress(f, logs, loc, headerStyle); err != nil {
		return nil, err
	}
	if err := writeProfile(f, profile, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ошибка записи отчёта: %w", err)
	}
	return &Report{FileName: ReportFileName, Data: buf.Bytes()}, nil
}

func writeProgress(f *excelize.File, logs []models.WeightLogEntry, loc *time.Location, headerStyle int) error {
	sorted := make([]models.WeightLogEntry, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt.Before(sorted[j].RecordedAt)
	})

	if err := f.SetSheetRow(SheetProgress, "A1", &[]interface{}{"Дата", "Вес (кг)"}); err != nil {
		return fmt.Errorf("ошибка записи заголовка: %w", err)
	}
	f.SetCellStyle(SheetProgress, "A1", "B1", headerStyle)
	f.SetColWidth(SheetProgress, "A", "B", 14)

	for i, entry := range sorted {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{entry.RecordedAt.In(loc).Format("2006-01-02"), entry.Weight}
		if err := f.SetSheetRow(SheetProgress, cell, &row); err != nil {
			return fmt.Errorf("ошибка записи строки %d: %w", i+2, err)
		}
	}
	return nil
}

func writeProfile(f *excelize.File, p *models.UserProfile, headerStyle int) error {
	rows := [][]interface{}{
		{"Параметр", "Значение"},
		{"ФИО", p.FullName},
		{"Рост (см)", p.Height},
		{"Начальный вес", p.InitialWeight},
		{"Цель", p.Goal.Title()},
		{"Уровень", training.LevelForScore(p.FitnessScore).Label},
		{"Рейтинг", fmt.Sprintf("%d/%d", p.FitnessScore, training.MaxScore)},
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetProfile, cell, &row); err != nil {
			return fmt.Errorf("ошибка записи анкеты: %w", err)
		}
	}
	f.SetCellStyle(SheetProfile, "A1", "B1", headerStyle)
	f.SetColWidth(SheetProfile, "A", "A", 16)
	f.SetColWidth(SheetProfile, "B", "B", 32)
	return nil
}
