package academy

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/user"
)

var (
	uniqueTag  = "unique"
	uniqueText = "{0} must not contain duplicates"

	markedTwiceTag  = "markedtwice"
	markedTwiceText = "a student can only be marked once per date"
)

// InitValidators registers the academy validators and their translations.
// core.InitValidators must have been called on validate first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterCustomTranslation(validate, translator, uniqueTag, uniqueText, true)

	validate.RegisterStructValidation(attendanceStructValidation, NewAttendance{})
	core.RegisterCustomTranslation(validate, translator, markedTwiceTag, markedTwiceText)
}

func attendanceStructValidation(sl validator.StructLevel) {
	na := sl.Current().Interface().(NewAttendance)
	seen := make(map[user.ID]bool, len(na.Entries))
	for _, e := range na.Entries {
		if seen[e.StudentID] {
			sl.ReportError(na.Entries, "entries", "Entries", markedTwiceTag, "")
			return
		}
		seen[e.StudentID] = true
	}
}
