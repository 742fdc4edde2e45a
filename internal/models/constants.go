package models

// SkillLevel уровень владения навыком.
type SkillLevel string

// Уровни упорядочены по возрастанию.
const (
	SkillLevelBeginner     SkillLevel = "beginner"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelAdvanced     SkillLevel = "advanced"
	SkillLevelExpert       SkillLevel = "expert"
)

// SkillLevels список уровней в порядке возрастания.
var SkillLevels = []SkillLevel{
	SkillLevelBeginner,
	SkillLevelIntermediate,
	SkillLevelAdvanced,
	SkillLevelExpert,
}

// ValidSkillLevels список валидных уровней навыков
var ValidSkillLevels = map[SkillLevel]struct{}{
	SkillLevelBeginner:     {},
	SkillLevelIntermediate: {},
	SkillLevelAdvanced:     {},
	SkillLevelExpert:       {},
}

// IsValid сообщает, входит ли уровень в перечисление.
func (l SkillLevel) IsValid() bool {
	_, ok := ValidSkillLevels[l]
	return ok
}

// SuggestedSkillCategories категории, которые предлагаются в форме навыка.
var SuggestedSkillCategories = []string{
	"Frontend",
	"Backend",
	"Database",
	"DevOps",
	"Cloud",
	"Mobile",
	"Languages",
	"Tools",
	"Soft Skills",
	"Other",
}
