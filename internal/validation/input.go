package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/portfolio-admin/skills-backend/internal/models"
)

// Константы валидации
const (
	MinSkillNameLength = 1
	MaxSkillNameLength = 100
	MinCategoryLength  = 1
	MaxCategoryLength  = 50
	MaxReorderItems    = 500
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// NormalizeSkillName обрезает пробелы и проверяет название навыка.
// Регистр сохраняется: "Go" и "go" - разные навыки.
func NormalizeSkillName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := ValidateNonEmpty("название навыка", name); err != nil {
		return "", err
	}
	if err := ValidateLength("название навыка", name, MinSkillNameLength, MaxSkillNameLength); err != nil {
		return "", err
	}
	return name, nil
}

// NormalizeCategory обрезает пробелы и проверяет название категории.
func NormalizeCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if err := ValidateNonEmpty("категория", category); err != nil {
		return "", err
	}
	if err := ValidateLength("категория", category, MinCategoryLength, MaxCategoryLength); err != nil {
		return "", err
	}
	return category, nil
}

// ValidateSkillLevel проверяет уровень владения навыком.
func ValidateSkillLevel(level models.SkillLevel) error {
	if !level.IsValid() {
		return fmt.Errorf("недопустимый уровень %q: ожидается один из %v", level, models.SkillLevels)
	}
	return nil
}

// ValidateReorderSize ограничивает размер явной перестановки.
func ValidateReorderSize(count int) error {
	if count == 0 {
		return fmt.Errorf("список позиций не может быть пустым")
	}
	if count > MaxReorderItems {
		return fmt.Errorf("список позиций не может превышать %d элементов", MaxReorderItems)
	}
	return nil
}
