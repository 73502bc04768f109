package fixtures

import (
	"strings"

	"github.com/Dosada05/cricket-fixtures/models"
)

// NormalizeFormat maps a stage's free-text format/type fields to one canonical
// fixture format. Rule order: explicit format string first, then inference from
// the stage type; "custom" resolves via the stage type. Unrecognized input
// falls back to single round robin — that is the documented default, not an
// error.
func NormalizeFormat(format, stageType string) models.StageFormat {
	f := strings.ToLower(strings.TrimSpace(format))
	st := strings.ToLower(strings.TrimSpace(stageType))

	switch f {
	case string(models.FormatSingleRoundRobin):
		return models.FormatSingleRoundRobin
	case string(models.FormatDoubleRoundRobin):
		return models.FormatDoubleRoundRobin
	case string(models.FormatSingleElimination):
		return models.FormatSingleElimination
	case string(models.FormatDoubleElimination):
		return models.FormatDoubleElimination
	case string(models.FormatSwiss):
		return models.FormatSwiss
	case string(models.FormatCustom):
		if st == string(models.StageTypeKnockout) {
			return models.FormatSingleElimination
		}
		return models.FormatSingleRoundRobin
	}

	switch st {
	case string(models.StageTypeLeague), "group":
		return models.FormatSingleRoundRobin
	case string(models.StageTypeKnockout), string(models.StageTypePlayoff):
		return models.FormatSingleElimination
	case string(models.StageTypeSwiss):
		return models.FormatSwiss
	}

	return models.FormatSingleRoundRobin
}
