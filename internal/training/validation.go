package training

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Одно слово ФИО: латиница или кириллица, дефис, апостроф
var fullNameTokenRegex = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ'\-]+$`)

// ValidateFullName проверяет ФИО: минимум три слова по два символа и больше
func ValidateFullName(text string) bool {
	parts := strings.Fields(text)
	if len(parts) < 3 {
		return false
	}
	for _, part := range parts {
		if utf8.RuneCountInString(part) < 2 {
			return false
		}
		if !fullNameTokenRegex.MatchString(part) {
			return false
		}
	}
	return true
}

// NormalizeFullName убирает лишние пробелы между словами
func NormalizeFullName(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ParseHeight разбирает рост в сантиметрах (целое положительное число)
func ParseHeight(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.TrimLeft(text, "0123456789") != "" {
		return 0, ValidationError{Field: "height", Message: "Введите число (например: 175)."}
	}
	height, err := strconv.Atoi(text)
	if err != nil || height <= 0 {
		return 0, ValidationError{Field: "height", Message: "Рост должен быть положительным числом."}
	}
	return height, nil
}

// ParseWeight разбирает вес в кг, допускается запятая вместо точки
func ParseWeight(text string) (float64, error) {
	text = strings.Replace(strings.TrimSpace(text), ",", ".", 1)
	weight, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, ValidationError{Field: "weight", Message: "Введите число (например: 70.5)."}
	}
	if weight <= 0 {
		return 0, ValidationError{Field: "weight", Message: "Вес должен быть положительным числом."}
	}
	return weight, nil
}
